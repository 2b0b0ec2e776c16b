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

// Package component implements Component, the open-addressed hash of
// resource name to ResourceList.
package component

import (
	"io"
	"sort"
	"strings"

	"golang.org/x/xerrors"

	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/reslist"
	"sigs.k8s.io/lcfg-core/internal/resource"
	"sigs.k8s.io/lcfg-core/internal/tag"
)

const (
	// defaultSize is the initial bucket count of a freshly created
	// Component's table.
	defaultSize = 79
	// loadInit is the load factor a resize targets: new bucket count is
	// ceil(entries/loadInit) + 1.
	loadInit = 0.5
	// loadMax is the load factor that triggers a resize on insertion.
	loadMax = 0.7
)

type slot struct {
	used bool
	name string
	list *reslist.ResourceList
}

// Component is an open-addressed hash table mapping resource name to
// ResourceList, using linear probing and the shared DJB64 hash (package
// tag) for bucket selection.
type Component struct {
	name    string
	buckets []slot
	count   int
}

// New returns an empty Component named name with defaultSize buckets.
func New(name string) *Component {
	return NewSize(name, defaultSize)
}

// NewSize returns an empty Component named name with the given initial
// bucket count, letting a caller honor a configured LCFG_COMP_DEFAULT_SIZE
// instead of the package default. size must be positive; callers passing a
// non-positive value get defaultSize instead.
func NewSize(name string, size int) *Component {
	if size <= 0 {
		size = defaultSize
	}
	return &Component{name: name, buckets: make([]slot, size)}
}

// Name returns the component's name.
func (c *Component) Name() string {
	return c.name
}

// Len returns the number of distinct resource names held.
func (c *Component) Len() int {
	if c == nil {
		return 0
	}
	return c.count
}

func (c *Component) bucketFor(name string) int {
	h := tag.Hash64(name)
	return int(h % uint64(len(c.buckets)))
}

// find returns the slot index holding name, or the first free slot on the
// probe path if name is absent (ok=false in that case).
func (c *Component) find(name string) (idx int, ok bool) {
	n := len(c.buckets)
	start := c.bucketFor(name)
	for i := 0; i < n; i++ {
		idx = (start + i) % n
		s := &c.buckets[idx]
		if !s.used {
			return idx, false
		}
		if s.name == name {
			return idx, true
		}
	}
	// Table full of collisions (should not happen given resize
	// discipline); report the last probed slot as not found.
	return idx, false
}

// Get returns the ResourceList for name, or nil if absent.
func (c *Component) Get(name string) *reslist.ResourceList {
	idx, ok := c.find(name)
	if !ok {
		return nil
	}
	return c.buckets[idx].list
}

// maybeResize grows the table when the load factor would reach or exceed
// loadMax after one more insertion.
func (c *Component) maybeResize() {
	if float64(c.count+1)/float64(len(c.buckets)) < loadMax {
		return
	}
	target := int(float64(c.count+1)/loadInit) + 1
	old := c.buckets
	c.buckets = make([]slot, target)
	c.count = 0
	for _, s := range old {
		if s.used {
			c.insertSlot(s.name, s.list)
		}
	}
}

func (c *Component) insertSlot(name string, list *reslist.ResourceList) {
	idx, ok := c.find(name)
	c.buckets[idx] = slot{used: true, name: name, list: list}
	if !ok {
		c.count++
	}
}

// Put installs list under name, replacing any existing entry, resizing
// first if the insertion would exceed the load factor threshold.
func (c *Component) Put(name string, list *reslist.ResourceList) {
	c.maybeResize()
	c.insertSlot(name, list)
}

// Remove deletes name from the table, if present, closing the probe
// chain by rehashing every subsequent entry in the run (the standard
// open-addressing deletion discipline; a tombstone would otherwise
// leak probe-chain length across repeated delete/insert cycles).
func (c *Component) Remove(name string) bool {
	idx, ok := c.find(name)
	if !ok {
		return false
	}
	n := len(c.buckets)
	c.buckets[idx] = slot{}
	c.count--
	i := idx
	for {
		i = (i + 1) % n
		s := c.buckets[i]
		if !s.used {
			return true
		}
		c.buckets[i] = slot{}
		c.count--
		c.insertSlot(s.name, s.list)
	}
}

// Names returns every resource name held, sorted case-insensitively, for
// deterministic iteration (signature hashing, status-file emission).
func (c *Component) Names() []string {
	out := make([]string, 0, c.count)
	for _, s := range c.buckets {
		if s.used {
			out = append(out, s.name)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Clone returns a component sharing no mutable state with c: the bucket
// table is copied and every ResourceList is cloned, per the copy-on-write
// discipline recorded in the grounding ledger.
func (c *Component) Clone() *Component {
	cp := &Component{name: c.name, buckets: make([]slot, len(c.buckets)), count: c.count}
	for i, s := range c.buckets {
		if s.used {
			cp.buckets[i] = slot{used: true, name: s.name, list: s.list.Clone()}
		}
	}
	return cp
}

// MergeResource merges a single resource into the ResourceList for its
// name, creating that list (with the given merge rules and primary key)
// if absent.
func (c *Component) MergeResource(name string, rules reslist.Rule, key reslist.PrimaryKey, res *resource.Resource) (lcfgerr.Change, error) {
	list := c.Get(name)
	if list == nil {
		list = reslist.New(name, rules, key)
		ch, err := list.MergeResource(res)
		if err != nil {
			return lcfgerr.ChangeError, err
		}
		c.Put(name, list)
		return ch, nil
	}
	ch, err := list.MergeResource(res)
	if err != nil {
		return lcfgerr.ChangeError, err
	}
	if list.Len() == 0 {
		c.Remove(name)
	}
	return ch, nil
}

// HashInto writes this component's status-line rendering, in
// deterministic sorted-name order, to w. Only the head (winning) variant
// of each resource's ResourceList contributes, matching what a status
// file actually emits for a resolved profile. Used by package compset to
// compute a ComponentSet's signature over exactly the same bytes a
// status file would contain.
func (c *Component) HashInto(w io.Writer, opt resource.Options) error {
	for _, name := range c.Names() {
		list := c.Get(name)
		head := list.Head()
		if head == nil {
			continue
		}
		if _, err := io.WriteString(w, head.ToStatus(c.name, opt)); err != nil {
			return xerrors.Errorf("hashing component %q resource %q: %w", c.name, name, lcfgerr.ErrIO)
		}
	}
	return nil
}

// MergeComponent merges every ResourceList of src into dst, aggregating
// the strongest resulting change code.
func MergeComponent(dst, src *Component) (lcfgerr.Change, error) {
	if dst.name != src.name {
		return lcfgerr.ChangeError, xerrors.Errorf("cannot merge component %q into %q: %w", src.name, dst.name, lcfgerr.ErrInvalidValue)
	}
	agg := lcfgerr.ChangeNone
	for _, name := range src.Names() {
		srcList := src.Get(name)
		dstList := dst.Get(name)
		if dstList == nil {
			dstList = reslist.New(name, srcList.MergeRules(), srcList.PrimaryKey())
			dst.Put(name, dstList)
		}
		ch, err := reslist.MergeList(dstList, srcList)
		if err != nil {
			return lcfgerr.ChangeError, err
		}
		if dstList.Len() == 0 {
			dst.Remove(name)
		}
		agg = lcfgerr.Strongest(agg, ch)
	}
	return agg, nil
}
