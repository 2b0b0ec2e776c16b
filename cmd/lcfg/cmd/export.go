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

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"sigs.k8s.io/lcfg-core/internal/compset"
	"sigs.k8s.io/lcfg-core/internal/env"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/reslist"
	"sigs.k8s.io/lcfg-core/internal/resource"
	"sigs.k8s.io/lcfg-core/internal/status"
)

var exportOpts struct {
	component string
}

var exportCmd = &cobra.Command{
	Use:   "export [status-dir]",
	Short: "Print a component's resources as shell export statements",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		set := compset.New()
		if err := status.ReadDir(args[0], set, reslist.RuleSquashIdentical|reslist.RuleUsePriority, reslist.KeyName|reslist.KeyContext); err != nil {
			return err
		}
		comp := set.Get(exportOpts.component)
		if comp == nil {
			return xerrors.Errorf("component %q: %w", exportOpts.component, lcfgerr.ErrNotFound)
		}
		return env.WriteExport(os.Stdout, comp, resource.OptUseMeta)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOpts.component, "component", "", "component name to export")
	rootCmd.AddCommand(exportCmd)
}
