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

// Package reslist implements ResourceList, the ordered bucket of
// context-variants of one resource name, and its merge rule state
// machine.
package reslist

import (
	"sort"

	"golang.org/x/xerrors"

	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/resource"
)

// Rule is a bit in the merge-rule bitset consulted, in fixed order, by
// MergeResource.
type Rule uint8

const (
	// RuleNone applies no special handling; an unresolved conflict is an
	// error.
	RuleNone Rule = 0
	// RuleKeepAll appends every new resource that differs from the current
	// one, never replacing.
	RuleKeepAll Rule = 1 << iota
	// RuleSquashIdentical replaces the current entry with an equal new
	// one, refreshing its derivation.
	RuleSquashIdentical
	// RuleUsePriority resolves conflicts by comparing Resource.Priority.
	RuleUsePriority
	// RuleUsePrefix is reserved and has no observable behavior; the bit
	// exists so callers can set it without error, but MergeResource never
	// tests it.
	RuleUsePrefix
	// RuleReplace unconditionally replaces the current entry with the
	// new one.
	RuleReplace
)

// PrimaryKey selects which fields identify "the same resource" within a
// ResourceList.
type PrimaryKey uint8

const (
	// KeyName means at most one variant is kept per resource name.
	KeyName PrimaryKey = 1 << iota
	// KeyContext, combined with KeyName, admits multiple context
	// variants of the same name within one ResourceList.
	KeyContext
)

// ResourceList holds every context-variant of one resource name, ordered
// by decreasing priority; index 0 is the winning variant.
type ResourceList struct {
	name       string
	entries    []*resource.Resource
	mergeRules Rule
	primaryKey PrimaryKey
}

// New returns an empty ResourceList for name, governed by the given merge
// rules and primary key discipline.
func New(name string, rules Rule, key PrimaryKey) *ResourceList {
	return &ResourceList{name: name, mergeRules: rules, primaryKey: key}
}

// Name returns the resource name this list holds variants of.
func (l *ResourceList) Name() string {
	return l.name
}

// Len returns the number of context-variants currently held.
func (l *ResourceList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Head returns the highest-priority variant, or nil if the list is empty.
func (l *ResourceList) Head() *resource.Resource {
	if l.Len() == 0 {
		return nil
	}
	return l.entries[0]
}

// All returns every variant, head (highest priority) first. Callers must
// not mutate the returned slice.
func (l *ResourceList) All() []*resource.Resource {
	return l.entries
}

// MergeRules returns the list's merge-rule bitset.
func (l *ResourceList) MergeRules() Rule {
	return l.mergeRules
}

// PrimaryKey returns the list's primary-key discipline.
func (l *ResourceList) PrimaryKey() PrimaryKey {
	return l.primaryKey
}

// Clone returns a new ResourceList with the same entries slice contents
// (Resource pointers are shared; Resources are immutable from the merge
// engine's point of view except via explicit Clone+replace). Component.Clone
// calls it for every list, so a cloned Component never shares a
// ResourceList with the original.
func (l *ResourceList) Clone() *ResourceList {
	cp := &ResourceList{
		name:       l.name,
		mergeRules: l.mergeRules,
		primaryKey: l.primaryKey,
		entries:    make([]*resource.Resource, len(l.entries)),
	}
	copy(cp.entries, l.entries)
	return cp
}

// resort re-orders entries so the highest-priority variant is at index 0,
// stable among equal priorities so that insertion order (and hence the
// "current" selection logic) is reproducible.
func (l *ResourceList) resort() {
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Priority() > l.entries[j].Priority()
	})
}

// currentIndex implements the "which entry is current" rule
// S4.4 step 2: if the primary key includes KeyContext and an existing
// entry shares (name, contextExpression) with newRes, that entry is
// current; otherwise the head entry is current (possibly with a
// different context). Returns -1 if no entry qualifies.
func (l *ResourceList) currentIndex(newRes *resource.Resource) int {
	if l.primaryKey&KeyContext != 0 {
		newCtx, newOK := newRes.ContextExpression()
		for i, e := range l.entries {
			ctx, ok := e.ContextExpression()
			if ok == newOK && ctx == newCtx {
				return i
			}
		}
		return -1
	}
	if len(l.entries) == 0 {
		return -1
	}
	return 0
}

// MergeResource merges newRes into l according to l's merge rules,
// consulted in a fixed precedence order:
//
//  1. invalid newRes => error
//  2. select the "current" entry (KeyContext match, or head); none found
//     (including an empty list) => always accepted as the first variant
//  3. SQUASH_IDENTICAL accepts an equal current => replaced
//  4. KEEP_ALL appends => added (an entry equal to current => none)
//  5. REPLACE overwrites current => replaced
//  6. USE_PRIORITY compares priorities => replaced / none / error
//  7. otherwise => error ("conflict")
//
// After any accepting rule the list is re-sorted so the highest-priority
// entry is at the head. If the list becomes empty the caller (package
// component) is responsible for removing the owning slot.
func (l *ResourceList) MergeResource(newRes *resource.Resource) (lcfgerr.Change, error) {
	if newRes == nil || !newRes.IsValid() {
		return lcfgerr.ChangeError, xerrors.Errorf("invalid resource %v: %w", newRes, lcfgerr.ErrInvalidValue)
	}

	cur := l.currentIndex(newRes)

	if cur < 0 {
		// Nothing occupies this (name[, context]) slot yet, so there is
		// nothing to conflict with regardless of merge rules.
		l.entries = append(l.entries, newRes)
		l.resort()
		return lcfgerr.ChangeAdded, nil
	}

	if l.mergeRules&RuleSquashIdentical != 0 && l.entries[cur].Equals(newRes) {
		l.entries[cur] = newRes
		l.resort()
		return lcfgerr.ChangeReplaced, nil
	}

	if l.mergeRules&RuleKeepAll != 0 {
		if l.entries[cur].Equals(newRes) {
			// Still dedup within the same (name, context): appending an
			// identical variant would be a pointless duplicate.
			return lcfgerr.ChangeNone, nil
		}
		l.entries = append(l.entries, newRes)
		l.resort()
		return lcfgerr.ChangeAdded, nil
	}

	if l.mergeRules&RuleReplace != 0 {
		l.entries[cur] = newRes
		l.resort()
		return lcfgerr.ChangeReplaced, nil
	}

	if l.mergeRules&RuleUsePriority != 0 {
		switch {
		case newRes.Priority() > l.entries[cur].Priority():
			l.entries[cur] = newRes
			l.resort()
			return lcfgerr.ChangeReplaced, nil
		case newRes.Priority() < l.entries[cur].Priority():
			return lcfgerr.ChangeNone, nil
		default:
			return lcfgerr.ChangeError, xerrors.Errorf("resource %q: %w", l.name, lcfgerr.ErrConflict)
		}
	}

	return lcfgerr.ChangeError, xerrors.Errorf("resource %q: %w", l.name, lcfgerr.ErrConflict)
}

// MergeList merges every element of src into dst, applying MergeResource
// per element, and aggregates the strongest resulting change code. src is
// never mutated.
func MergeList(dst *ResourceList, src *ResourceList) (lcfgerr.Change, error) {
	agg := lcfgerr.ChangeNone
	for _, r := range src.All() {
		ch, err := dst.MergeResource(r)
		if err != nil {
			return lcfgerr.ChangeError, err
		}
		agg = lcfgerr.Strongest(agg, ch)
	}
	return agg, nil
}
