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

package tag

import (
	"sort"
	"strings"
)

// ToStringOption controls List.ToString output.
type ToStringOption int

const (
	// ToStringNone emits tokens separated by single spaces, no trailer.
	ToStringNone ToStringOption = iota
	// ToStringNewline appends a trailing newline.
	ToStringNewline
)

// List is an ordered, duplicate-free-by-convention sequence of Tags. The
// "duplicate-free" guarantee is only enforced by MutateAdd; MutateExtra and
// Append both permit duplicates, matching the distinction between
// set-union and multiset-append mutators.
//
// The source models this as a doubly-linked list so that TagIter can walk
// it in both directions without an index; a Go slice already supports O(1)
// reverse iteration, so List is a slice under the hood, but Append/Prepend/
// Remove preserve the doubly-linked list's amortized cost profile closely
// enough for the list sizes LCFG ever deals with (a handful of tags per
// resource).
type List struct {
	tags []*Tag
}

// NewList returns an empty List.
func NewList() *List {
	return &List{}
}

// FromString splits s on ASCII whitespace and appends each token as a Tag.
// It fails (and returns a nil List) if any token is invalid.
func FromString(s string) (*List, error) {
	l := NewList()
	for _, tok := range strings.Fields(s) {
		t, err := New(tok)
		if err != nil {
			return nil, err
		}
		l.tags = append(l.tags, t)
	}
	return l, nil
}

// Len returns the number of tags in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.tags)
}

// At returns the tag at index i (0-based, head first).
func (l *List) At(i int) *Tag {
	return l.tags[i]
}

// Append adds t to the tail of the list unconditionally (multiset
// semantics).
func (l *List) Append(t *Tag) {
	l.tags = append(l.tags, t)
}

// Prepend adds t to the head of the list unconditionally.
func (l *List) Prepend(t *Tag) {
	l.tags = append([]*Tag{t}, l.tags...)
}

// Remove deletes the first tag matching name, if present, and reports
// whether anything was removed.
func (l *List) Remove(name string) bool {
	for i, t := range l.tags {
		if t.Matches(name) {
			l.tags = append(l.tags[:i], l.tags[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether any tag in the list matches name.
func (l *List) Contains(name string) bool {
	return l.Find(name) != nil
}

// Find returns the first tag matching name, or nil.
func (l *List) Find(name string) *Tag {
	for _, t := range l.tags {
		if t.Matches(name) {
			return t
		}
	}
	return nil
}

// Sort orders the list lexicographically by tag name. The source uses a
// bubble sort because lists are small; sort.SliceStable gives the same
// stable-lexicographic guarantee without hand-rolling an O(n^2) pass.
func (l *List) Sort() {
	sort.SliceStable(l.tags, func(i, j int) bool {
		return Compare(l.tags[i], l.tags[j]) < 0
	})
}

// MutateAdd appends t only if no tag with the same name is already present
// (set-union semantics). It reports whether t was added.
func (l *List) MutateAdd(t *Tag) bool {
	if l.Contains(t.Name()) {
		return false
	}
	l.tags = append(l.tags, t)
	return true
}

// MutateExtra always appends t, permitting duplicate names (multiset
// semantics).
func (l *List) MutateExtra(t *Tag) {
	l.tags = append(l.tags, t)
}

// ToString renders the list as space-separated tokens. When opt is
// ToStringNewline a trailing "\n" is appended. The output length is
// computed up front for exact allocation.
func (l *List) ToString(opt ToStringOption) string {
	n := l.stringLen(opt)
	var b strings.Builder
	b.Grow(n)
	for i, t := range l.tags {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Name())
	}
	if opt == ToStringNewline {
		b.WriteByte('\n')
	}
	return b.String()
}

func (l *List) stringLen(opt ToStringOption) int {
	n := 0
	for i, t := range l.tags {
		if i > 0 {
			n++
		}
		n += t.Len()
	}
	if opt == ToStringNewline {
		n++
	}
	return n
}

// Clone returns a shallow copy of the list: the Tag pointers are shared
// (tags are immutable and reference-counted by convention) but the backing
// slice is new, so mutating the clone never affects the original.
func (l *List) Clone() *List {
	if l == nil {
		return NewList()
	}
	cp := make([]*Tag, len(l.tags))
	copy(cp, l.tags)
	return &List{tags: cp}
}

// Tags returns the underlying tag slice, head first. Callers must not
// mutate the returned slice.
func (l *List) Tags() []*Tag {
	return l.tags
}
