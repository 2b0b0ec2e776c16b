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
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"
)

var (
	gitVersion   string // semantic version, set by build scripts via -ldflags
	gitCommit    string // sha1 from git, output of $(git rev-parse HEAD)
	gitTreeState string // state of git tree, either "clean" or "dirty"
	buildDate    string // build date in ISO8601 format, output of $(date -u +'%Y-%m-%dT%H:%M:%SZ')
)

// buildInfo reports this binary's provenance plus the bucket-count
// defaults it was invoked with, so a bug report carries the table sizes
// that produced it.
type buildInfo struct {
	GitVersion          string `json:"gitVersion,omitempty"`
	GitCommit           string `json:"gitCommit,omitempty"`
	GitTreeState        string `json:"gitTreeState,omitempty"`
	BuildDate           string `json:"buildDate,omitempty"`
	GoVersion           string `json:"goVersion,omitempty"`
	Compiler            string `json:"compiler,omitempty"`
	Platform            string `json:"platform,omitempty"`
	CompDefaultSize     int    `json:"compDefaultSize"`
	ComponentSetDefSize int    `json:"compsetDefaultSize"`
}

func getBuildInfo() *buildInfo {
	return &buildInfo{
		GitVersion:          gitVersion,
		GitCommit:           gitCommit,
		GitTreeState:        gitTreeState,
		BuildDate:           buildDate,
		GoVersion:           runtime.Version(),
		Compiler:            runtime.Compiler,
		Platform:            fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		CompDefaultSize:     viper.GetInt("comp_default_size"),
		ComponentSetDefSize: viper.GetInt("compset_default_size"),
	}
}

func (i *buildInfo) String() string {
	b := strings.Builder{}
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "GitVersion:\t%s\n", i.GitVersion)
	fmt.Fprintf(w, "GitCommit:\t%s\n", i.GitCommit)
	fmt.Fprintf(w, "GitTreeState:\t%s\n", i.GitTreeState)
	fmt.Fprintf(w, "BuildDate:\t%s\n", i.BuildDate)
	fmt.Fprintf(w, "GoVersion:\t%s\n", i.GoVersion)
	fmt.Fprintf(w, "Compiler:\t%s\n", i.Compiler)
	fmt.Fprintf(w, "Platform:\t%s\n", i.Platform)
	fmt.Fprintf(w, "CompDefaultSize:\t%d\n", i.CompDefaultSize)
	fmt.Fprintf(w, "ComponentSetDefaultSize:\t%d\n", i.ComponentSetDefSize)

	w.Flush()
	return b.String()
}

func (i *buildInfo) jsonString() (string, error) {
	b, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type versionOptions struct {
	json bool
}

var versionOpts = &versionOptions{}

var versionCmd = &cobra.Command{
	Use:           "version",
	Short:         "output version information",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersionCmd(versionOpts)
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionOpts.json, "json", "j", false, "print JSON instead of text")
	rootCmd.AddCommand(versionCmd)
}

func runVersionCmd(opts *versionOptions) error {
	v := getBuildInfo()
	out := v.String()

	if opts.json {
		j, err := v.jsonString()
		if err != nil {
			return xerrors.Errorf("rendering version info as JSON: %w", err)
		}
		out = j
	}

	fmt.Println(out)
	return nil
}
