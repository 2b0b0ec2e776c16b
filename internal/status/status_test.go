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

package status

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigs.k8s.io/lcfg-core/internal/compset"
	"sigs.k8s.io/lcfg-core/internal/reslist"
	"sigs.k8s.io/lcfg-core/internal/resource"
)

func TestParseLineValueOnly(t *testing.T) {
	l, err := ParseLine("net.ip=1.2.3.4", 1)
	require.NoError(t, err)
	assert.Equal(t, "", l.Host)
	assert.Equal(t, "net", l.Component)
	assert.Equal(t, "ip", l.Resource)
	assert.Equal(t, "", l.Symbol)
	assert.Equal(t, "1.2.3.4", l.Value)
}

func TestParseLineWithHostAndSymbol(t *testing.T) {
	l, err := ParseLine("host1/net.ip%t=string", 1)
	require.NoError(t, err)
	assert.Equal(t, "host1", l.Host)
	assert.Equal(t, "net", l.Component)
	assert.Equal(t, "ip", l.Resource)
	assert.Equal(t, "t", l.Symbol)
	assert.Equal(t, "string", l.Value)
}

func TestParseLineUnescapesValue(t *testing.T) {
	l, err := ParseLine("net.note=a&amp;b&#10;c", 1)
	require.NoError(t, err)
	assert.Equal(t, "a&b\nc", l.Value)
}

func TestParseLineRejectsMissingEquals(t *testing.T) {
	_, err := ParseLine("net.ip", 1)
	assert.Error(t, err)
}

func TestLineWriteRoundTrips(t *testing.T) {
	l := Line{Component: "net", Resource: "ip", Value: "1.2.3.4"}
	text := strings.TrimSuffix(l.Write(), "\n")
	parsed, err := ParseLine(text, 1)
	require.NoError(t, err)
	assert.Equal(t, l, parsed)
}

func TestReadFileAndWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net")
	require.NoError(t, os.WriteFile(path, []byte("net.ip=1.2.3.4\nnet.host=web1\n"), 0o644))

	set := compset.New()
	rules := reslist.RuleSquashIdentical | reslist.RuleUsePriority
	key := reslist.KeyName | reslist.KeyContext
	require.NoError(t, ReadFile(path, set, rules, key))

	comp := set.Get("net")
	require.NotNil(t, comp)
	v, ok := comp.Get("ip").Head().Value()
	require.True(t, ok)
	assert.Equal(t, "1.2.3.4", v)

	outPath := filepath.Join(dir, "out")
	require.NoError(t, WriteFile(outPath, set, resource.OptNone))
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "net.host=web1\n")
	assert.Contains(t, string(data), "net.ip=1.2.3.4\n")
}

func TestReadDirWalksFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "net"), []byte("net.ip=1.2.3.4\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sys"), []byte("sys.hostname=web1\n"), 0o644))

	set := compset.New()
	rules := reslist.RuleSquashIdentical | reslist.RuleUsePriority
	key := reslist.KeyName | reslist.KeyContext
	require.NoError(t, ReadDir(dir, set, rules, key))

	assert.NotNil(t, set.Get("net"))
	assert.NotNil(t, set.Get("sys"))
}

func TestReadIntoSkipsUnknownSymbol(t *testing.T) {
	set := compset.New()
	rules := reslist.RuleSquashIdentical | reslist.RuleUsePriority
	key := reslist.KeyName | reslist.KeyContext
	sc := bufio.NewScanner(strings.NewReader("net.ip%z=bogus\nnet.ip=1.2.3.4\n"))
	require.NoError(t, ReadInto(sc, set, rules, key))

	v, ok := set.Get("net").Get("ip").Head().Value()
	require.True(t, ok)
	assert.Equal(t, "1.2.3.4", v)
}
