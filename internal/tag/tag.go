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

// Package tag implements Tag and List, the short-token sequences used as
// values of list/tag typed resources and as the placeholder substitutions
// consumed by package template.
package tag

import (
	"strings"

	"golang.org/x/xerrors"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
)

// Tag is a single short token. Two tags are equal iff their name bytes are
// equal. Once constructed a Tag's name is immutable.
type Tag struct {
	name string
	hash uint64
}

// New constructs a Tag, failing if name is empty or contains whitespace.
func New(name string) (*Tag, error) {
	if name == "" || strings.IndexFunc(name, isSpace) >= 0 {
		return nil, xerrors.Errorf("tag %q: %w", name, lcfgerr.ErrInvalidName)
	}
	return &Tag{name: name, hash: djb64(name)}, nil
}

// Name returns the tag's token.
func (t *Tag) Name() string {
	return t.name
}

// Len returns the cached byte length of the tag's name.
func (t *Tag) Len() int {
	return len(t.name)
}

// Matches reports whether the tag's name equals other.
func (t *Tag) Matches(other string) bool {
	return t.name == other
}

// Compare orders two tags lexicographically by name, like strcmp.
func Compare(a, b *Tag) int {
	return strings.Compare(a.name, b.name)
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// djb64 is the 64-bit DJB hash used uniformly for Tag identity and for
// the open-addressed hashing in package component and package compset.
// A single hash implementation is shared across all three so bucket
// selection and tag identity can never drift apart.
func djb64(s string) uint64 {
	var h uint64 = 5381
	for i := 0; i < len(s); i++ {
		h = ((h << 5) + h) + uint64(s[i])
	}
	return h
}

// Hash64 exposes the shared DJB64 hash for use by package component and
// package compset, so the bucket-selection hash and the Tag-identity hash
// are provably the same function.
func Hash64(s string) uint64 {
	return djb64(s)
}
