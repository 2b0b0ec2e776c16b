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

// Package cmd implements the lcfg command-line demonstration harness:
// diff, signature, export, and validate over status-file directories.
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sigs.k8s.io/release-utils/log"
)

// rootOpts holds the persistent flags shared by every subcommand.
type rootOptions struct {
	LogLevel string
}

var rootOpts = &rootOptions{}

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "lcfg",
	Short: "Inspect and diff LCFG host configuration status files",
	Long: `lcfg - LCFG host-configuration status-file tooling

Reads one or more status-file directories, merges them into an
in-memory profile, and reports a signature, a diff against a prior
state, or a shell-environment export.`,
	PersistentPreRunE: initLogging,
}

// Execute adds all child commands to the root command and runs it. It is
// called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&rootOpts.LogLevel,
		"log-level",
		"info",
		fmt.Sprintf("the logging verbosity, either %s", log.LevelNames()),
	)

	rootCmd.PersistentFlags().Int("comp-default-size", 79,
		"Component bucket count reported by 'lcfg version' (LCFG_COMP_DEFAULT_SIZE); the other subcommands use the package default")
	rootCmd.PersistentFlags().Int("compset-default-size", 113,
		"ComponentSet bucket count reported by 'lcfg version' (LCFG_COMPSET_DEFAULT_SIZE); the other subcommands use the package default")

	if err := viper.BindPFlag("comp_default_size", rootCmd.PersistentFlags().Lookup("comp-default-size")); err != nil {
		logrus.Fatal(err)
	}
	if err := viper.BindPFlag("compset_default_size", rootCmd.PersistentFlags().Lookup("compset-default-size")); err != nil {
		logrus.Fatal(err)
	}
	viper.SetEnvPrefix("lcfg")
	viper.AutomaticEnv()
}

func initLogging(*cobra.Command, []string) error {
	return log.SetupGlobalLogger(rootOpts.LogLevel)
}
