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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"sigs.k8s.io/lcfg-core/internal/compset"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/reslist"
	"sigs.k8s.io/lcfg-core/internal/status"
)

var validateCmd = &cobra.Command{
	Use:   "validate [status-dir]",
	Short: "Parse a status-file directory and report the first error found",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		set := compset.New()
		rules := reslist.RuleSquashIdentical | reslist.RuleUsePriority
		key := reslist.KeyName | reslist.KeyContext
		// status.ReadDir logs and skips files that fail to parse; walk the
		// directory here so the first such failure is returned instead.
		err := filepath.Walk(args[0], func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			return status.ReadFile(path, set, rules, key)
		})
		if err != nil {
			return xerrors.Errorf("%q: %w: %v", args[0], lcfgerr.ErrInvalidValue, err)
		}
		fmt.Printf("ok: %d components\n", set.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
