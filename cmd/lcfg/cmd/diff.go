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
	"fmt"

	"github.com/spf13/cobra"

	"sigs.k8s.io/lcfg-core/internal/compset"
	"sigs.k8s.io/lcfg-core/internal/diff"
	"sigs.k8s.io/lcfg-core/internal/reslist"
	"sigs.k8s.io/lcfg-core/internal/status"
)

var diffOpts struct {
	holdfile string
}

var diffCmd = &cobra.Command{
	Use:   "diff [old-status-dir] [new-status-dir]",
	Short: "Diff two status-file directories and print changed resources",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		mergeRules := reslist.RuleSquashIdentical | reslist.RuleUsePriority
		key := reslist.KeyName | reslist.KeyContext

		oldSet := compset.New()
		if err := status.ReadDir(args[0], oldSet, mergeRules, key); err != nil {
			return err
		}
		newSet := compset.New()
		if err := status.ReadDir(args[1], newSet, mergeRules, key); err != nil {
			return err
		}

		profileDiff := diff.Diff(oldSet, newSet)
		for _, dc := range profileDiff {
			for _, e := range dc.Entries {
				if e.Change == diff.ResourceNone {
					continue
				}
				fmt.Printf("%s %s.%s\n", e.Change, dc.Name, e.Name)
			}
		}

		if diffOpts.holdfile != "" {
			sig, err := newSet.Signature()
			if err != nil {
				return err
			}
			return diff.ToHoldfile(profileDiff, diffOpts.holdfile, sig)
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffOpts.holdfile, "holdfile", "", "write the diff as a hold-file to this path")
	rootCmd.AddCommand(diffCmd)
}
