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

// Package diff implements the structural diff engine: three-way
// component classification, per-resource diffs, and deterministic
// hold-file serialization.
package diff

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/xerrors"

	"sigs.k8s.io/lcfg-core/internal/component"
	"sigs.k8s.io/lcfg-core/internal/compset"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/resource"
)

// proddedResourceName is the one resource name the engine recognizes by
// literal string.
const proddedResourceName = "ng_prod"

// ResourceChange is the per-resource classification inside a
// DiffComponent.
type ResourceChange int

const (
	// ResourceNone marks an unchanged resource; entries with this change
	// may be elided by callers.
	ResourceNone ResourceChange = iota
	// ResourceAdded marks a resource present only in the new component.
	ResourceAdded
	// ResourceRemoved marks a resource present only in the old component.
	ResourceRemoved
	// ResourceModified marks a resource present in both but unequal.
	ResourceModified
)

func (c ResourceChange) String() string {
	switch c {
	case ResourceAdded:
		return "added"
	case ResourceRemoved:
		return "removed"
	case ResourceModified:
		return "modified"
	default:
		return "none"
	}
}

// ComponentChange is the classification of a whole DiffComponent.
type ComponentChange int

const (
	// ComponentNone marks an unchanged component.
	ComponentNone ComponentChange = iota
	// ComponentAdded marks a component present only in the new set.
	ComponentAdded
	// ComponentRemoved marks a component present only in the old set.
	ComponentRemoved
	// ComponentModified marks a component present in both with at least
	// one changed resource.
	ComponentModified
)

func (c ComponentChange) String() string {
	switch c {
	case ComponentAdded:
		return "added"
	case ComponentRemoved:
		return "removed"
	case ComponentModified:
		return "modified"
	default:
		return "none"
	}
}

// DiffResource is one resource's before/after classification.
type DiffResource struct {
	Name   string
	Old    *resource.Resource
	New    *resource.Resource
	Change ResourceChange
}

// DiffComponent is one component's before/after classification, with an
// ordered list of changed (and optionally unchanged) resource entries.
type DiffComponent struct {
	Name    string
	Change  ComponentChange
	Entries []DiffResource
}

// Profile is an ordered list of DiffComponents, sorted by name.
type Profile []DiffComponent

// QuickDiff returns the set difference/intersection of component names
// between old and new: a component is "modified" if it
// exists in both and either its resource-name sets differ or any shared
// resource's canonical serialization differs (compared via digest
// bytes, i.e. HashInto output, rather than a field-by-field walk).
func QuickDiff(oldSet, newSet *compset.ComponentSet) (modified, added, removed []string) {
	oldNames := map[string]bool{}
	for _, n := range oldSet.Names() {
		oldNames[n] = true
	}
	newNames := map[string]bool{}
	for _, n := range newSet.Names() {
		newNames[n] = true
	}

	for n := range oldNames {
		if !newNames[n] {
			removed = append(removed, n)
		}
	}
	for n := range newNames {
		if !oldNames[n] {
			added = append(added, n)
		}
	}
	for n := range oldNames {
		if !newNames[n] {
			continue
		}
		if !componentsEqual(oldSet.Get(n), newSet.Get(n)) {
			modified = append(modified, n)
		}
	}

	sort.Strings(modified)
	sort.Strings(added)
	sort.Strings(removed)
	return modified, added, removed
}

func componentsEqual(a, b *component.Component) bool {
	var sa, sb strings.Builder
	if err := a.HashInto(&sa, resource.OptUseMeta); err != nil {
		return false
	}
	if err := b.HashInto(&sb, resource.OptUseMeta); err != nil {
		return false
	}
	return sa.String() == sb.String()
}

// componentDiff walks the union of both components' resource names,
// producing one DiffResource per name.
func componentDiff(name string, oldComp, newComp *component.Component) DiffComponent {
	dc := DiffComponent{Name: name}

	switch {
	case oldComp == nil:
		dc.Change = ComponentAdded
	case newComp == nil:
		dc.Change = ComponentRemoved
	}

	names := map[string]bool{}
	if oldComp != nil {
		for _, n := range oldComp.Names() {
			names[n] = true
		}
	}
	if newComp != nil {
		for _, n := range newComp.Names() {
			names[n] = true
		}
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	anyChanged := false
	for _, n := range sorted {
		var oldRes, newRes *resource.Resource
		if oldComp != nil {
			if l := oldComp.Get(n); l != nil {
				oldRes = l.Head()
			}
		}
		if newComp != nil {
			if l := newComp.Get(n); l != nil {
				newRes = l.Head()
			}
		}

		entry := DiffResource{Name: n, Old: oldRes, New: newRes}
		switch {
		case oldRes == nil && newRes == nil:
			continue
		case oldRes == nil:
			entry.Change = ResourceAdded
			anyChanged = true
		case newRes == nil:
			entry.Change = ResourceRemoved
			anyChanged = true
		case !oldRes.Equals(newRes):
			entry.Change = ResourceModified
			anyChanged = true
		default:
			entry.Change = ResourceNone
		}
		dc.Entries = append(dc.Entries, entry)
	}

	if dc.Change == ComponentNone && anyChanged {
		dc.Change = ComponentModified
	}
	return dc
}

// Diff computes the full DiffProfile between oldSet and newSet: every
// modified or asymmetrically present component is walked via
// componentDiff.
func Diff(oldSet, newSet *compset.ComponentSet) Profile {
	modified, added, removed := QuickDiff(oldSet, newSet)

	names := map[string]bool{}
	for _, n := range modified {
		names[n] = true
	}
	for _, n := range added {
		names[n] = true
	}
	for _, n := range removed {
		names[n] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	out := make(Profile, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, componentDiff(n, oldSet.Get(n), newSet.Get(n)))
	}
	return out
}

// ComponentWasProdded reports whether the diff for name contains a
// changed "ng_prod" resource.
func (p Profile) ComponentWasProdded(name string) bool {
	for _, dc := range p {
		if dc.Name != name {
			continue
		}
		for _, e := range dc.Entries {
			if e.Name == proddedResourceName && e.Change != ResourceNone {
				return true
			}
		}
	}
	return false
}

func valueOrEmpty(r *resource.Resource) string {
	if r == nil {
		return ""
	}
	v, _ := r.Value()
	return v
}

// ToHoldfile writes p as a fixed textual hold-file representation to
// path, followed by a trailing "signature: <hex>\n" line, through a
// temp-file-then-rename so readers never observe a partial write.
// DiffComponents and their DiffResources are visited in their
// (already sorted) name order, and unchanged (ResourceNone) entries are
// omitted.
func ToHoldfile(p Profile, path string, sig string) error {
	var b strings.Builder
	for _, dc := range p {
		for _, e := range dc.Entries {
			if e.Change == ResourceNone {
				continue
			}
			fmt.Fprintf(&b, "%s\n", e.Change)
			fmt.Fprintf(&b, "%s.%s\n", dc.Name, e.Name)
			fmt.Fprintf(&b, "%s\n", valueOrEmpty(e.Old))
			fmt.Fprintf(&b, "%s\n", valueOrEmpty(e.New))
		}
	}
	fmt.Fprintf(&b, "signature: %s\n", sig)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".holdfile-*")
	if err != nil {
		return xerrors.Errorf("creating hold-file temp in %q: %w", dir, lcfgerr.ErrIO)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return xerrors.Errorf("writing hold-file temp %q: %w", tmpName, lcfgerr.ErrIO)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return xerrors.Errorf("closing hold-file temp %q: %w", tmpName, lcfgerr.ErrIO)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return xerrors.Errorf("renaming hold-file temp %q to %q: %w", tmpName, path, lcfgerr.ErrIO)
	}
	return nil
}
