/*
Copyright 2019 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package resource

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Options is the status/export serialization option bitset.
type Options uint8

const (
	// OptNone requests default behavior.
	OptNone Options = 0
	// OptNewline names the trailing-newline option. ToStatus and ToExport
	// do not test this bit; every line they emit ends in a newline.
	OptNewline Options = 1 << iota
	// OptAllValues names the emit-invalid/unset-resources option. No
	// serializer in this package tests this bit.
	OptAllValues
	// OptAllPriorities names the emit-inactive-resources option. No
	// serializer in this package tests this bit; inactive (priority < 0)
	// resources are emitted like any other.
	OptAllPriorities
	// OptUseMeta requests the metadata lines (%t/%c/%o/%d/%p) in addition
	// to the value line; this is the mode the signature hasher uses.
	OptUseMeta
	// OptAllowNoExist names the tolerate-missing-resources option. No
	// serializer in this package tests this bit.
	OptAllowNoExist
)

func (o Options) has(bit Options) bool {
	return o&bit != 0
}

// escapeValue applies the S6 HTML-like escapes required of status-line
// values: '&' -> "&amp;", '<' -> "&lt;", '>' -> "&gt;", '\n' -> "&#10;",
// '\t' -> "&#9;", '\r' -> "&#13;", and any other byte < 0x20 to a numeric
// character reference.
func escapeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\n':
			b.WriteString("&#10;")
		case '\t':
			b.WriteString("&#9;")
		case '\r':
			b.WriteString("&#13;")
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, "&#%d;", r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// unescapeValue reverses escapeValue for status-line parsing.
func unescapeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			b.WriteByte(s[i])
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			b.WriteByte(s[i])
			continue
		}
		entity := s[i+1 : i+end]
		switch entity {
		case "amp":
			b.WriteByte('&')
		case "lt":
			b.WriteByte('<')
		case "gt":
			b.WriteByte('>')
		case "#10":
			b.WriteByte('\n')
		case "#9":
			b.WriteByte('\t')
		case "#13":
			b.WriteByte('\r')
		default:
			if strings.HasPrefix(entity, "#") {
				if n, err := strconv.Atoi(entity[1:]); err == nil {
					b.WriteRune(rune(n))
					i += end
					continue
				}
			}
			b.WriteByte(s[i])
			continue
		}
		i += end
	}
	return b.String()
}

// Unescape exposes unescapeValue for package status, which shares the
// exact same escaping contract when parsing value lines.
func Unescape(s string) string {
	return unescapeValue(s)
}

// Escape exposes escapeValue for package status.
func Escape(s string) string {
	return escapeValue(s)
}

// ToStatus renders the resource as status-file lines for component comp,
// one line per populated field, in the fixed order
// {type, derivation, context, comment, priority, value}. When
// OptUseMeta is not set, only the value line is emitted.
func (r *Resource) ToStatus(comp string, opt Options) string {
	var b strings.Builder
	key := comp + "." + r.name

	if opt.has(OptUseMeta) {
		b.WriteString(key)
		b.WriteString("%t=")
		b.WriteString(r.typ.String())
		if r.typ == TypeList && r.templateChain != nil {
			b.WriteByte(' ')
			b.WriteString(r.templateChain.String())
		}
		b.WriteByte('\n')

		if len(r.derivation) > 0 {
			b.WriteString(key)
			b.WriteString("%d=")
			b.WriteString(escapeValue(r.derivationString()))
			b.WriteByte('\n')
		}

		if ctx, ok := r.ContextExpression(); ok {
			b.WriteString(key)
			b.WriteString("%c=")
			b.WriteString(escapeValue(ctx))
			b.WriteByte('\n')
		}

		if r.comment != "" {
			b.WriteString(key)
			b.WriteString("%o=")
			b.WriteString(escapeValue(r.comment))
			b.WriteByte('\n')
		}

		b.WriteString(key)
		b.WriteString("%p=")
		b.WriteString(strconv.FormatInt(int64(r.priority), 10))
		b.WriteByte('\n')
	}

	if v, ok := r.Value(); ok {
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(escapeValue(v))
		b.WriteByte('\n')
	}

	return b.String()
}

// ToExport renders the resource as shell export statements:
// `export NAME='value'\n` and, when opt has
// OptUseMeta, `export TYPE=...\n` as well. Single quotes inside the
// value are escaped as `'\''`.
func (r *Resource) ToExport(valPrefix, typePrefix string, opt Options) string {
	var b strings.Builder
	v, _ := r.Value()
	b.WriteString("export ")
	b.WriteString(valPrefix)
	b.WriteString(strings.ToUpper(r.name))
	b.WriteString("='")
	b.WriteString(strings.ReplaceAll(v, "'", `'\''`))
	b.WriteString("'\n")

	if opt.has(OptUseMeta) {
		b.WriteString("export ")
		b.WriteString(typePrefix)
		b.WriteString(strings.ToUpper(r.name))
		b.WriteString("='")
		b.WriteString(r.typ.String())
		b.WriteString("'\n")
	}

	return b.String()
}

// BuildEnvVar produces the environment-variable name for this resource
// within component compName, by substituting compName into pfxTemplate (a
// format template containing exactly one "%s" marker) and appending the
// resource's own name, uppercased and made identifier-safe (non
// [A-Za-z0-9_] bytes become '_').
func (r *Resource) BuildEnvVar(compName, pfxTemplate string) string {
	return EnvVarName(compName, r.name, pfxTemplate)
}

// EnvVarName is the free-function form of BuildEnvVar, used by package env
// to build the resource-list variable name ("LCFG_<COMP>__RESOURCES"),
// which has no backing Resource to call BuildEnvVar on.
func EnvVarName(compName, fieldName, pfxTemplate string) string {
	prefix := fmt.Sprintf(pfxTemplate, compName)
	return sanitizeEnvName(strings.ToUpper(prefix + fieldName))
}

func sanitizeEnvName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
