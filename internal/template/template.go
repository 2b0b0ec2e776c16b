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

// Package template parses LCFG template strings (name patterns containing
// "$" placeholders, e.g. "foo_$_$") and synthesizes child resource names
// from a tag tuple.
package template

import (
	"strings"
	"unicode"

	"golang.org/x/xerrors"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/tag"
)

// MaxDepth is LCFG_TAGS_MAX_DEPTH: the maximum number of "$" placeholders
// a single template may contain.
const MaxDepth = 5

// Template is one parsed template record.
type Template struct {
	raw      string
	offsets  []int // byte offsets of each '$', highest index first
	baseLen  int   // bytes before the first "_$"
	pcount   int
}

// String returns the original template text.
func (t *Template) String() string {
	return t.raw
}

// PlaceholderCount returns the number of "$" placeholders (1..MaxDepth).
func (t *Template) PlaceholderCount() int {
	return t.pcount
}

// baseName returns the bytes of raw before the first "_$", which is the
// child-resource field name this template describes.
func (t *Template) baseName() string {
	return t.raw[:t.baseLen]
}

// parseOne validates and parses a single template token. Validity: first
// char alphabetic, other chars alphanumeric/underscore/'$', placeholder
// count in [1, MaxDepth].
func parseOne(token string) (*Template, error) {
	if token == "" {
		return nil, xerrors.Errorf("empty template: %w", lcfgerr.ErrInvalidTemplate)
	}
	first := rune(token[0])
	if !unicode.IsLetter(first) {
		return nil, xerrors.Errorf("template %q: leading char must be alphabetic: %w", token, lcfgerr.ErrInvalidTemplate)
	}

	var offsets []int
	for i := 0; i < len(token); i++ {
		c := rune(token[i])
		switch {
		case c == '$':
			offsets = append(offsets, i)
		case unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_':
			// ok
		default:
			return nil, xerrors.Errorf("template %q: invalid character %q: %w", token, c, lcfgerr.ErrInvalidTemplate)
		}
	}

	pcount := len(offsets)
	if pcount < 1 || pcount > MaxDepth {
		return nil, xerrors.Errorf("template %q: placeholder count %d out of range [1,%d]: %w", token, pcount, MaxDepth, lcfgerr.ErrInvalidTemplate)
	}

	// Base name length: bytes before the first "_$". Every placeholder is
	// preceded by "_" in the documented grammar ("foo_$_$"); the base name
	// is the prefix before the first such pair.
	baseLen := offsets[0]
	if baseLen > 0 && token[baseLen-1] == '_' {
		baseLen--
	}

	// Record offsets highest index first ("process tags
	// from tail to head" during name synthesis).
	rev := make([]int, pcount)
	for i, off := range offsets {
		rev[pcount-1-i] = off
	}

	return &Template{
		raw:     token,
		offsets: rev,
		baseLen: baseLen,
		pcount:  pcount,
	}, nil
}

// Chain is a singly-linked (here: slice-backed) sequence of Templates,
// parsed from one whitespace-separated template string.
type Chain struct {
	templates []*Template
}

// FromString tokenizes input on whitespace; each token becomes one
// Template. It fails if input holds no token or if any token violates the
// template grammar.
func FromString(input string) (*Chain, error) {
	c := &Chain{}
	for _, tok := range strings.Fields(input) {
		t, err := parseOne(tok)
		if err != nil {
			return nil, err
		}
		c.templates = append(c.templates, t)
	}
	if len(c.templates) == 0 {
		return nil, xerrors.Errorf("empty template string: %w", lcfgerr.ErrInvalidTemplate)
	}
	return c, nil
}

// Find returns the template whose base name equals fieldName, or nil.
func (c *Chain) Find(fieldName string) *Template {
	if c == nil {
		return nil
	}
	for _, t := range c.templates {
		if t.baseName() == fieldName {
			return t
		}
	}
	return nil
}

// Len reports how many templates are in the chain.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.templates)
}

// String renders the chain back to its whitespace-separated wire form,
// used by the status-line type field ("%t=list foo_$_$ bar_$").
func (c *Chain) String() string {
	if c == nil {
		return ""
	}
	parts := make([]string, len(c.templates))
	for i, t := range c.templates {
		parts[i] = t.raw
	}
	return strings.Join(parts, " ")
}

// BuildName synthesizes the name of a child resource of a list-typed
// resource:
//
//  1. Locate the template for fieldName. Fail if absent.
//  2. Fail if taglist.Len() < template.pcount.
//  3. Consume the last pcount tags of the list, in reverse order,
//     substituting into placeholder positions from highest offset downward.
//  4. The output buffer is allocated to the exact final length.
func BuildName(chain *Chain, tags *tag.List, fieldName string) (string, error) {
	t := chain.Find(fieldName)
	if t == nil {
		return "", xerrors.Errorf("no template for field %q: %w", fieldName, lcfgerr.ErrNotFound)
	}
	if tags.Len() < t.pcount {
		return "", xerrors.Errorf(
			"tag list has %d tags, template %q needs %d: %w",
			tags.Len(), t.raw, t.pcount, lcfgerr.ErrInvalidValue)
	}

	// Gather the last pcount tags, tail first (reverse order).
	consumed := make([]*tag.Tag, t.pcount)
	it := tag.NewIter(tags)
	it.ToTail()
	for i := 0; i < t.pcount; i++ {
		consumed[i] = it.Prev()
	}

	totalTagLen := 0
	for _, tg := range consumed {
		totalTagLen += tg.Len()
	}
	outLen := len(t.raw) - t.pcount + totalTagLen

	// t.offsets is highest-offset-first (tail-first pairing: the
	// rightmost placeholder takes the first-consumed, i.e. innermost,
	// tag). Assembly must write left to right, so invert the pairing into
	// ascending-offset order before walking the template text forward.
	tagForOffset := make(map[int]*tag.Tag, t.pcount)
	for i, off := range t.offsets {
		tagForOffset[off] = consumed[i]
	}
	ascending := make([]int, t.pcount)
	for i, off := range t.offsets {
		ascending[t.pcount-1-i] = off
	}

	var b strings.Builder
	b.Grow(outLen)
	prev := 0
	for _, off := range ascending {
		b.WriteString(t.raw[prev:off])
		b.WriteString(tagForOffset[off].Name())
		prev = off + 1
	}
	b.WriteString(t.raw[prev:])

	return b.String(), nil
}
