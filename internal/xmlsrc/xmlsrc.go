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

// Package xmlsrc ingests an LCFG XML profile document, the external
// collaborator that sits outside the core merge engine, and builds
// Components purely through component.MergeResource so the core never
// needs to know the wire format exists.
package xmlsrc

import (
	"encoding/xml"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"sigs.k8s.io/lcfg-core/internal/component"
	"sigs.k8s.io/lcfg-core/internal/compset"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/reslist"
	"sigs.k8s.io/lcfg-core/internal/resource"
	"sigs.k8s.io/lcfg-core/internal/template"
)

// xmlProfile is the minimal document shape this loader recognizes: a
// flat list of components, each a flat list of resources.
type xmlProfile struct {
	XMLName    xml.Name       `xml:"profile"`
	Components []xmlComponent `xml:"component"`
}

type xmlComponent struct {
	Name      string        `xml:"name,attr"`
	Resources []xmlResource `xml:"resource"`
}

type xmlResource struct {
	Name     string `xml:"name,attr"`
	Type     string `xml:"type,attr"`
	Template string `xml:"template,attr"`
	Context  string `xml:"context,attr"`
	Comment  string `xml:"comment,attr"`
	Priority *int32 `xml:"priority,attr"`
	Value    string `xml:",chardata"`
}

var typeByName = map[string]resource.Type{
	"string":    resource.TypeString,
	"integer":   resource.TypeInteger,
	"boolean":   resource.TypeBoolean,
	"list":      resource.TypeList,
	"publish":   resource.TypePublish,
	"subscribe": resource.TypeSubscribe,
}

// Load decodes an XML profile document from r and merges every resource
// it contains into set, using rules/key as the default merge discipline
// for any Component created along the way. Malformed individual resources
// are logged and skipped rather than aborting the whole document, since
// one bad `<resource>` should not discard an otherwise valid profile.
func Load(r io.Reader, set *compset.ComponentSet, rules reslist.Rule, key reslist.PrimaryKey) error {
	var doc xmlProfile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return xerrors.Errorf("decoding XML profile: %w", lcfgerr.ErrInvalidValue)
	}

	for _, xc := range doc.Components {
		if xc.Name == "" {
			logrus.Warn("skipping XML component with empty name")
			continue
		}
		comp := set.Get(xc.Name)
		if comp == nil {
			comp = component.New(xc.Name)
			set.Put(xc.Name, comp)
		}
		for _, xr := range xc.Resources {
			res, err := buildResource(xr)
			if err != nil {
				logrus.Warnf("component %q: skipping resource %q: %v", xc.Name, xr.Name, err)
				continue
			}
			if _, err := comp.MergeResource(xr.Name, rules, key, res); err != nil {
				logrus.Warnf("component %q: merging resource %q: %v", xc.Name, xr.Name, err)
			}
		}
	}
	return nil
}

func buildResource(xr xmlResource) (*resource.Resource, error) {
	res, err := resource.New(xr.Name)
	if err != nil {
		return nil, err
	}

	typ := resource.TypeString
	if xr.Type != "" {
		t, ok := typeByName[xr.Type]
		if !ok {
			return nil, xerrors.Errorf("unknown resource type %q: %w", xr.Type, lcfgerr.ErrInvalidValue)
		}
		typ = t
	}
	res.SetType(typ)

	if typ == resource.TypeList && xr.Template != "" {
		chain, err := template.FromString(xr.Template)
		if err != nil {
			return nil, err
		}
		res.SetTemplateChain(chain)
	}

	if xr.Value != "" {
		if err := res.SetValue(xr.Value); err != nil {
			return nil, err
		}
	}
	if xr.Context != "" {
		res.SetContextExpression(xr.Context)
	}
	if xr.Comment != "" {
		res.SetComment(xr.Comment)
	}
	if xr.Priority != nil {
		res.SetPriority(*xr.Priority)
	}
	return res, nil
}
