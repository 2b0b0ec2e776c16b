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

package profile

import (
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/reslist"
)

// PackageList is the minimal package-name collection a Profile carries.
// Package semantics proper are out of scope here; only
// the merge-rule-driven merge contract and the empty test matter to the
// core.
type PackageList struct {
	rules reslist.Rule
	names []string
}

// newPackageList returns an empty PackageList governed by rules.
func newPackageList(rules reslist.Rule) *PackageList {
	return &PackageList{rules: rules}
}

// Empty reports whether the list holds no packages.
func (p *PackageList) Empty() bool {
	return p == nil || len(p.names) == 0
}

// Names returns the packages held, in insertion order.
func (p *PackageList) Names() []string {
	if p == nil {
		return nil
	}
	return p.names
}

func (p *PackageList) contains(name string) bool {
	for _, n := range p.names {
		if n == name {
			return true
		}
	}
	return false
}

// mergeOne applies p's merge rules to a single incoming package name, per
// the same KEEP_ALL/SQUASH_IDENTICAL precedence reslist.MergeResource
// uses, specialized to plain names (packages carry no priority in this
// core, so USE_PRIORITY and REPLACE have no distinguishing effect beyond
// SQUASH_IDENTICAL).
func (p *PackageList) mergeOne(name string) lcfgerr.Change {
	exists := p.contains(name)
	switch {
	case exists && p.rules&reslist.RuleSquashIdentical != 0:
		return lcfgerr.ChangeNone
	case p.rules&reslist.RuleKeepAll != 0:
		p.names = append(p.names, name)
		return lcfgerr.ChangeAdded
	case !exists:
		p.names = append(p.names, name)
		return lcfgerr.ChangeAdded
	default:
		return lcfgerr.ChangeNone
	}
}

// mergeList merges every name of src into dst, aggregating the strongest
// change code ("merge_list(dst, src, msg) ->
// change").
func mergeList(dst, src *PackageList) lcfgerr.Change {
	if src.Empty() {
		return lcfgerr.ChangeNone
	}
	agg := lcfgerr.ChangeNone
	for _, name := range src.names {
		agg = lcfgerr.Strongest(agg, dst.mergeOne(name))
	}
	return agg
}
