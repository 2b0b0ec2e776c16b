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
	"sigs.k8s.io/lcfg-core/internal/reslist"
	"sigs.k8s.io/lcfg-core/internal/status"
)

var signatureCmd = &cobra.Command{
	Use:   "signature [status-dir]",
	Short: "Print the MD5 signature of a status-file directory's resolved state",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		set := compset.New()
		if err := status.ReadDir(args[0], set, reslist.RuleSquashIdentical|reslist.RuleUsePriority, reslist.KeyName|reslist.KeyContext); err != nil {
			return err
		}
		sig, err := set.Signature()
		if err != nil {
			return err
		}
		fmt.Println(sig)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signatureCmd)
}
