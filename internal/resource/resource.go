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

// Package resource implements Resource, the typed, context-scoped
// configuration value at the heart of LCFG.
package resource

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/tag"
	"sigs.k8s.io/lcfg-core/internal/template"
)

// Type is one of the six resource value types LCFG understands.
type Type int

const (
	// TypeString holds an arbitrary string value.
	TypeString Type = iota
	// TypeInteger holds a signed decimal integer.
	TypeInteger
	// TypeBoolean holds "yes" or "no".
	TypeBoolean
	// TypeList holds a whitespace-separated tag list plus a template
	// chain naming its child resources.
	TypeList
	// TypePublish marks a resource published for other components.
	TypePublish
	// TypeSubscribe marks a resource subscribed from another component.
	TypeSubscribe
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeBoolean:
		return "boolean"
	case TypeList:
		return "list"
	case TypePublish:
		return "publish"
	case TypeSubscribe:
		return "subscribe"
	default:
		return "unknown"
	}
}

// Location is one element of a Resource's derivation: the source file and
// line an assignment came from.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// identRe is the LCFG identifier grammar: first char alphabetic, remaining
// chars alphanumeric or underscore.
var identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Resource is a single typed configuration value.
type Resource struct {
	name          string
	value         *string
	typ           Type
	templateChain *template.Chain // only meaningful when typ == TypeList
	contextExpr   *string
	derivation    []Location
	comment       string
	priority      int32
	ctxPrecedence int32
}

// New returns an empty Resource named name. It fails if name does not
// match the LCFG identifier grammar.
func New(name string) (*Resource, error) {
	r := &Resource{}
	if err := r.SetName(name); err != nil {
		return nil, err
	}
	return r, nil
}

// SetName validates and sets the resource's name.
func (r *Resource) SetName(name string) error {
	if !identRe.MatchString(name) {
		return xerrors.Errorf("resource name %q: %w", name, lcfgerr.ErrInvalidName)
	}
	r.name = name
	return nil
}

// Name returns the resource's name.
func (r *Resource) Name() string {
	return r.name
}

// SetType sets the resource's declared type. It does not re-validate an
// already-set value; callers that change type after setting a value should
// call SetValue again.
func (r *Resource) SetType(t Type) {
	r.typ = t
}

// Type returns the resource's declared type.
func (r *Resource) Type() Type {
	return r.typ
}

// SetValue validates value against the grammar implied by the resource's
// declared type and, on success, stores it. For TypeList it also parses
// the whitespace-separated tag list to validate it, but does not retain
// the parsed List; callers needing the parsed tags should call
// resource.Tags.
func (r *Resource) SetValue(value string) error {
	switch r.typ {
	case TypeInteger:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return xerrors.Errorf("resource %q: value %q is not a signed decimal integer: %w", r.name, value, lcfgerr.ErrInvalidValue)
		}
	case TypeBoolean:
		if value != "yes" && value != "no" {
			return xerrors.Errorf("resource %q: value %q is not yes|no: %w", r.name, value, lcfgerr.ErrInvalidValue)
		}
	case TypeList:
		if _, err := tag.FromString(value); err != nil {
			return xerrors.Errorf("resource %q: %w", r.name, err)
		}
	default:
		// TypeString, TypePublish, TypeSubscribe: any string is valid.
	}
	r.value = &value
	return nil
}

// Value returns the resource's value and whether one is set.
func (r *Resource) Value() (string, bool) {
	if r.value == nil {
		return "", false
	}
	return *r.value, true
}

// Tags parses the resource's value as a tag list. It fails if the
// resource is not TypeList or has no value.
func (r *Resource) Tags() (*tag.List, error) {
	if r.typ != TypeList {
		return nil, xerrors.Errorf("resource %q is not list-typed: %w", r.name, lcfgerr.ErrInvalidValue)
	}
	v, ok := r.Value()
	if !ok {
		return tag.NewList(), nil
	}
	return tag.FromString(v)
}

// SetTemplateChain attaches the name-synthesis template chain for a
// TypeList resource.
func (r *Resource) SetTemplateChain(c *template.Chain) {
	r.templateChain = c
}

// TemplateChain returns the resource's template chain, or nil.
func (r *Resource) TemplateChain() *template.Chain {
	return r.templateChain
}

// SetContextExpression stores the raw context expression string. The
// expression itself is opaque to the core; only the externally computed
// Priority is consulted during merges.
func (r *Resource) SetContextExpression(expr string) {
	r.contextExpr = &expr
}

// ContextExpression returns the resource's context expression and whether
// one is set.
func (r *Resource) ContextExpression() (string, bool) {
	if r.contextExpr == nil {
		return "", false
	}
	return *r.contextExpr, true
}

// SetComment sets the resource's free-text comment.
func (r *Resource) SetComment(c string) {
	r.comment = c
}

// Comment returns the resource's free-text comment.
func (r *Resource) Comment() string {
	return r.comment
}

// SetPriority sets the externally computed priority.
func (r *Resource) SetPriority(p int32) {
	r.priority = p
}

// Priority returns the resource's priority.
func (r *Resource) Priority() int32 {
	return r.priority
}

// SetContextPrecedence sets the context-priority tiebreak value.
func (r *Resource) SetContextPrecedence(p int32) {
	r.ctxPrecedence = p
}

// ContextPrecedence returns the context-priority tiebreak value.
func (r *Resource) ContextPrecedence() int32 {
	return r.ctxPrecedence
}

// AddDerivation appends a source location to the resource's derivation,
// skipping it if already present (the set is duplicate-free and ordered).
func (r *Resource) AddDerivation(loc Location) {
	for _, existing := range r.derivation {
		if existing == loc {
			return
		}
	}
	r.derivation = append(r.derivation, loc)
}

// Derivation returns the resource's ordered, duplicate-free provenance
// list.
func (r *Resource) Derivation() []Location {
	return r.derivation
}

// IsActive reports whether the resource's priority is non-negative.
func (r *Resource) IsActive() bool {
	return r.priority >= 0
}

// IsValid reports whether the resource has a legal name and, if a value is
// set, a value matching its declared type's grammar. SetName/SetValue
// already enforce this at assignment time; IsValid lets callers (notably
// reslist.MergeResource) re-check a Resource built piecemeal via
// SetAttribute before merging it in.
func (r *Resource) IsValid() bool {
	if !identRe.MatchString(r.name) {
		return false
	}
	if r.value == nil {
		return true
	}
	return r.SetValue(*r.value) == nil
}

// Equals compares name, value, and context; derivation is excluded since
// it records provenance, not the resource's identity.
func (r *Resource) Equals(other *Resource) bool {
	if other == nil {
		return false
	}
	if r.name != other.name {
		return false
	}
	rv, rok := r.Value()
	ov, ook := other.Value()
	if rok != ook || rv != ov {
		return false
	}
	rc, rcok := r.ContextExpression()
	oc, ocok := other.ContextExpression()
	return rcok == ocok && rc == oc
}

// Clone returns a deep-enough copy of r: derivation is copied, the
// template chain (immutable once parsed) and tag data are shared. Package
// status uses it to apply one status line to a copy of an already-merged
// Resource instead of mutating that Resource in place.
func (r *Resource) Clone() *Resource {
	cp := *r
	cp.derivation = append([]Location(nil), r.derivation...)
	return &cp
}

// Attribute identifies one settable field of a Resource, used by
// SetAttribute to dispatch status-line parsing without requiring the
// parser to know Resource's internal layout.
type Attribute int

const (
	// AttrValue is the plain value field.
	AttrValue Attribute = iota
	// AttrType is the declared type field.
	AttrType
	// AttrContext is the context-expression field.
	AttrContext
	// AttrComment is the comment field.
	AttrComment
	// AttrDerivation is the derivation field.
	AttrDerivation
	// AttrPriority is the priority field.
	AttrPriority
)

// typeNames maps the status-line type keyword to a Type.
var typeNames = map[string]Type{
	"string":    TypeString,
	"integer":   TypeInteger,
	"boolean":   TypeBoolean,
	"list":      TypeList,
	"publish":   TypePublish,
	"subscribe": TypeSubscribe,
}

// SetAttribute dispatches a raw status-line field onto the matching
// Resource field. It is the single entry point the
// status parser (package status) and the XML loader (package xmlsrc) use
// so that neither needs direct access to Resource's internals.
func (r *Resource) SetAttribute(attr Attribute, raw string) error {
	switch attr {
	case AttrValue:
		return r.SetValue(raw)
	case AttrType:
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			return xerrors.Errorf("empty type field: %w", lcfgerr.ErrInvalidValue)
		}
		t, ok := typeNames[fields[0]]
		if !ok {
			return xerrors.Errorf("unknown type %q: %w", fields[0], lcfgerr.ErrInvalidValue)
		}
		r.typ = t
		if t == TypeList && len(fields) > 1 {
			chain, err := template.FromString(strings.Join(fields[1:], " "))
			if err != nil {
				return err
			}
			r.templateChain = chain
		}
		return nil
	case AttrContext:
		r.SetContextExpression(raw)
		return nil
	case AttrComment:
		r.comment = raw
		return nil
	case AttrDerivation:
		r.derivation = nil
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			idx := strings.LastIndexByte(part, ':')
			if idx < 0 {
				return xerrors.Errorf("malformed derivation %q: %w", part, lcfgerr.ErrInvalidValue)
			}
			line, err := strconv.Atoi(part[idx+1:])
			if err != nil {
				return xerrors.Errorf("malformed derivation %q: %w", part, lcfgerr.ErrInvalidValue)
			}
			r.AddDerivation(Location{File: part[:idx], Line: line})
		}
		return nil
	case AttrPriority:
		p, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			return xerrors.Errorf("malformed priority %q: %w", raw, lcfgerr.ErrInvalidValue)
		}
		r.priority = int32(p)
		return nil
	default:
		return xerrors.Errorf("unknown attribute %d", attr)
	}
}

// derivationString renders the derivation list as the comma-joined
// "file:line" form used on the wire.
func (r *Resource) derivationString() string {
	parts := make([]string, len(r.derivation))
	for i, d := range r.derivation {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}

// SortedDerivation returns a copy of the derivation list sorted by file
// then line, for deterministic test assertions and display.
func (r *Resource) SortedDerivation() []Location {
	cp := append([]Location(nil), r.derivation...)
	sort.Slice(cp, func(i, j int) bool {
		if cp[i].File != cp[j].File {
			return cp[i].File < cp[j].File
		}
		return cp[i].Line < cp[j].Line
	})
	return cp
}
