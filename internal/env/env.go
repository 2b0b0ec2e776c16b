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

// Package env writes a Component's resources as shell export statements,
// the shell environment-export interface.
package env

import (
	"io"
	"strings"

	"golang.org/x/xerrors"

	"sigs.k8s.io/lcfg-core/internal/component"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/resource"
)

const (
	valuePrefixTemplate = "LCFG_%s_"
	typePrefixTemplate  = "LCFGTYPE_%s_"
)

// WriteExport writes every resource of comp as shell export statements to
// w: one `export LCFG_<COMP>_<RES>='value'` line per resource (plus an
// `export LCFGTYPE_<COMP>_<RES>=...` line when opt requests metadata),
// followed by one `export LCFG_<COMP>__RESOURCES='...'` line listing
// every exported resource name, space-separated, in the same sorted
// order used for signatures.
func WriteExport(w io.Writer, comp *component.Component, opt resource.Options) error {
	names := comp.Names()
	for _, name := range names {
		list := comp.Get(name)
		head := list.Head()
		if head == nil {
			continue
		}
		if _, err := io.WriteString(w, head.ToExport(
			fmtPrefix(valuePrefixTemplate, comp.Name()),
			fmtPrefix(typePrefixTemplate, comp.Name()),
			opt)); err != nil {
			return xerrors.Errorf("writing export for %q.%q: %w", comp.Name(), name, lcfgerr.ErrIO)
		}
	}

	listVar := resource.EnvVarName(comp.Name(), "_RESOURCES", "LCFG_%s_")
	line := "export " + listVar + "='" + strings.ReplaceAll(strings.Join(names, " "), "'", `'\''`) + "'\n"
	if _, err := io.WriteString(w, line); err != nil {
		return xerrors.Errorf("writing resource-list export for %q: %w", comp.Name(), lcfgerr.ErrIO)
	}
	return nil
}

func fmtPrefix(template, compName string) string {
	return strings.Replace(template, "%s", strings.ToUpper(compName), 1)
}
