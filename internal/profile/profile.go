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

// Package profile implements Profile, the thin whole-host composite of a
// ComponentSet plus two PackageLists plus publication metadata.
package profile

import (
	"sigs.k8s.io/lcfg-core/internal/compset"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/reslist"
)

// profileComponentName is the synthetic component Nodename and GetMeta
// read from.
const profileComponentName = "profile"

// defaultActiveRules and defaultInactiveRules are the merge rules a
// Profile's package lists get when first created
// step 3 / S6.
const (
	defaultActiveRules   = reslist.RuleSquashIdentical | reslist.RuleUsePriority
	defaultInactiveRules = reslist.RuleSquashIdentical | reslist.RuleKeepAll
)

// Profile is the whole-host desired-state composite.
type Profile struct {
	Components       *compset.ComponentSet
	ActivePackages   *PackageList
	InactivePackages *PackageList
	PublishedBy      string
	PublishedAt      string
	ServerVersion    string
	LastModified     string
	LastModifiedFile string
	Mtime            int64
}

// New returns an empty Profile with a fresh ComponentSet and package
// lists governed by the default merge rules.
func New() *Profile {
	return &Profile{
		Components:       compset.New(),
		ActivePackages:   newPackageList(defaultActiveRules),
		InactivePackages: newPackageList(defaultInactiveRules),
	}
}

// Merge merges other into p:
//  1. other == nil is a no-op.
//  2. other's components are merged into p's whenever p already has
//     components, or takeNewComps is true.
//  3. package lists are created with default rules if absent.
//  4. other's package lists are merged into p's.
func (p *Profile) Merge(other *Profile, takeNewComps bool) (lcfgerr.Change, error) {
	if other == nil {
		return lcfgerr.ChangeNone, nil
	}

	agg := lcfgerr.ChangeNone

	if other.Components != nil && other.Components.Len() > 0 {
		if p.Components == nil {
			p.Components = compset.New()
		}
		if p.Components.Len() > 0 || takeNewComps {
			ch, err := compset.MergeComponents(p.Components, other.Components, takeNewComps)
			if err != nil {
				return lcfgerr.ChangeError, err
			}
			agg = lcfgerr.Strongest(agg, ch)
		}
	}

	if p.ActivePackages == nil {
		p.ActivePackages = newPackageList(defaultActiveRules)
	}
	if p.InactivePackages == nil {
		p.InactivePackages = newPackageList(defaultInactiveRules)
	}

	if other.ActivePackages != nil {
		agg = lcfgerr.Strongest(agg, mergeList(p.ActivePackages, other.ActivePackages))
	}
	if other.InactivePackages != nil {
		agg = lcfgerr.Strongest(agg, mergeList(p.InactivePackages, other.InactivePackages))
	}

	return agg, nil
}

// Nodename returns the host's configured name: the
// "profile" component's "node" resource value, suffixed with ".<domain>"
// if a "domain" resource is also present. Returns ok=false if no
// "profile" component or "node" resource exists.
func (p *Profile) Nodename() (string, bool) {
	node, ok := p.GetMeta("node")
	if !ok {
		return "", false
	}
	if domain, ok := p.GetMeta("domain"); ok && domain != "" {
		return node + "." + domain, true
	}
	return node, true
}

// GetMeta reads a named resource's value from the synthetic "profile"
// component.
func (p *Profile) GetMeta(key string) (string, bool) {
	if p.Components == nil {
		return "", false
	}
	comp := p.Components.Get(profileComponentName)
	if comp == nil {
		return "", false
	}
	list := comp.Get(key)
	if list == nil {
		return "", false
	}
	head := list.Head()
	if head == nil {
		return "", false
	}
	return head.Value()
}
