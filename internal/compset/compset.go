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

// Package compset implements ComponentSet, the open-addressed hash of
// component name to Component that backs a Profile.
package compset

import (
	"sort"
	"strings"

	"sigs.k8s.io/lcfg-core/internal/component"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/resource"
	"sigs.k8s.io/lcfg-core/internal/signature"
	"sigs.k8s.io/lcfg-core/internal/tag"
)

// defaultSize is the initial bucket count of a freshly created
// ComponentSet's table, larger than component's because a profile
// typically names more components than a component names resources.
const defaultSize = 113

const (
	loadInit = 0.5
	loadMax  = 0.7
)

type slot struct {
	used bool
	name string
	comp *component.Component
}

// ComponentSet is an open-addressed hash table mapping component name to
// Component, using the same DJB64-bucket-selection discipline as
// package component.
type ComponentSet struct {
	buckets []slot
	count   int
}

// New returns an empty ComponentSet with defaultSize buckets.
func New() *ComponentSet {
	return NewSize(defaultSize)
}

// NewSize returns an empty ComponentSet with the given initial bucket
// count, letting a caller honor a configured LCFG_COMPSET_DEFAULT_SIZE
// instead of the package default. size must be positive; callers passing
// a non-positive value get defaultSize instead.
func NewSize(size int) *ComponentSet {
	if size <= 0 {
		size = defaultSize
	}
	return &ComponentSet{buckets: make([]slot, size)}
}

// Len returns the number of distinct component names held.
func (s *ComponentSet) Len() int {
	if s == nil {
		return 0
	}
	return s.count
}

func (s *ComponentSet) bucketFor(name string) int {
	h := tag.Hash64(name)
	return int(h % uint64(len(s.buckets)))
}

func (s *ComponentSet) find(name string) (idx int, ok bool) {
	n := len(s.buckets)
	start := s.bucketFor(name)
	for i := 0; i < n; i++ {
		idx = (start + i) % n
		sl := &s.buckets[idx]
		if !sl.used {
			return idx, false
		}
		if sl.name == name {
			return idx, true
		}
	}
	return idx, false
}

// Get returns the Component named name, or nil if absent.
func (s *ComponentSet) Get(name string) *component.Component {
	idx, ok := s.find(name)
	if !ok {
		return nil
	}
	return s.buckets[idx].comp
}

// maybeResize grows the table when the load factor would reach or exceed
// loadMax after one more insertion.
func (s *ComponentSet) maybeResize() {
	if float64(s.count+1)/float64(len(s.buckets)) < loadMax {
		return
	}
	target := int(float64(s.count+1)/loadInit) + 1
	old := s.buckets
	s.buckets = make([]slot, target)
	s.count = 0
	for _, sl := range old {
		if sl.used {
			s.insertSlot(sl.name, sl.comp)
		}
	}
}

func (s *ComponentSet) insertSlot(name string, comp *component.Component) {
	idx, ok := s.find(name)
	s.buckets[idx] = slot{used: true, name: name, comp: comp}
	if !ok {
		s.count++
	}
}

// Put installs comp under name, replacing any existing entry.
func (s *ComponentSet) Put(name string, comp *component.Component) {
	s.maybeResize()
	s.insertSlot(name, comp)
}

// Remove deletes name from the set, if present, rehashing its probe run.
func (s *ComponentSet) Remove(name string) bool {
	idx, ok := s.find(name)
	if !ok {
		return false
	}
	n := len(s.buckets)
	s.buckets[idx] = slot{}
	s.count--
	i := idx
	for {
		i = (i + 1) % n
		sl := s.buckets[i]
		if !sl.used {
			return true
		}
		s.buckets[i] = slot{}
		s.count--
		s.insertSlot(sl.name, sl.comp)
	}
}

// Names returns every component name held, sorted case-insensitively.
func (s *ComponentSet) Names() []string {
	out := make([]string, 0, s.count)
	for _, sl := range s.buckets {
		if sl.used {
			out = append(out, sl.name)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Clone returns a set sharing no mutable state with s: every Component is
// itself cloned.
func (s *ComponentSet) Clone() *ComponentSet {
	cp := &ComponentSet{buckets: make([]slot, len(s.buckets)), count: s.count}
	for i, sl := range s.buckets {
		if sl.used {
			cp.buckets[i] = slot{used: true, name: sl.name, comp: sl.comp.Clone()}
		}
	}
	return cp
}

// MergeComponents merges every Component of src into dst. When takeNew is
// true, a component present in src but absent from dst is adopted
// wholesale (cloned); when false, such components are skipped, per
// the "merge components" operation over two sets.
func MergeComponents(dst, src *ComponentSet, takeNew bool) (lcfgerr.Change, error) {
	agg := lcfgerr.ChangeNone
	for _, name := range src.Names() {
		srcComp := src.Get(name)
		dstComp := dst.Get(name)
		if dstComp == nil {
			if !takeNew {
				continue
			}
			dst.Put(name, srcComp.Clone())
			agg = lcfgerr.Strongest(agg, lcfgerr.ChangeAdded)
			continue
		}
		ch, err := component.MergeComponent(dstComp, srcComp)
		if err != nil {
			return lcfgerr.ChangeError, err
		}
		agg = lcfgerr.Strongest(agg, ch)
	}
	return agg, nil
}

// TransplantComponents inserts every component of src into dst, replacing
// any existing entry of the same name. src is left untouched; this is a
// full, non-destructive overwrite, used when a pre-built component must
// replace dst's wholesale.
func TransplantComponents(dst, src *ComponentSet) {
	for _, name := range src.Names() {
		dst.Put(name, src.Get(name))
	}
}

// Signature computes the MD5 hex digest of every component's resolved
// status-line rendering, visited in sorted component-name order
// (components themselves iterate resources in sorted order).
// Two ComponentSets with identical resolved resources always
// produce the same signature, independent of merge/insertion history.
func (s *ComponentSet) Signature() (string, error) {
	h := signature.New()
	for _, name := range s.Names() {
		comp := s.Get(name)
		if err := comp.HashInto(h, resource.OptUseMeta); err != nil {
			return "", err
		}
	}
	return signature.Sum(h), nil
}
