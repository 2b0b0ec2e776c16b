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

package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigs.k8s.io/lcfg-core/internal/component"
	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/reslist"
	"sigs.k8s.io/lcfg-core/internal/resource"
)

func mustResource(t *testing.T, name, value string) *resource.Resource {
	t.Helper()
	r, err := resource.New(name)
	require.NoError(t, err)
	require.NoError(t, r.SetValue(value))
	return r
}

func withNodeComponent(t *testing.T, p *Profile, node, domain string) {
	t.Helper()
	comp := component.New(profileComponentName)
	_, err := comp.MergeResource("node", reslist.RuleReplace, reslist.KeyName, mustResource(t, "node", node))
	require.NoError(t, err)
	if domain != "" {
		_, err := comp.MergeResource("domain", reslist.RuleReplace, reslist.KeyName, mustResource(t, "domain", domain))
		require.NoError(t, err)
	}
	p.Components.Put(profileComponentName, comp)
}

func TestNodenameWithoutDomain(t *testing.T) {
	p := New()
	withNodeComponent(t, p, "host1", "")
	name, ok := p.Nodename()
	require.True(t, ok)
	assert.Equal(t, "host1", name)
}

func TestNodenameWithDomain(t *testing.T) {
	p := New()
	withNodeComponent(t, p, "host1", "example.com")
	name, ok := p.Nodename()
	require.True(t, ok)
	assert.Equal(t, "host1.example.com", name)
}

func TestNodenameAbsent(t *testing.T) {
	p := New()
	_, ok := p.Nodename()
	assert.False(t, ok)
}

func TestMergeNilOtherIsNoop(t *testing.T) {
	p := New()
	ch, err := p.Merge(nil, true)
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeNone, ch)
}

func TestMergeComponentsRespectsTakeNewComps(t *testing.T) {
	dst := New()
	src := New()
	comp := component.New("net")
	_, err := comp.MergeResource("ip", reslist.RuleReplace, reslist.KeyName, mustResource(t, "ip", "1.2.3.4"))
	require.NoError(t, err)
	src.Components.Put("net", comp)

	ch, err := dst.Merge(src, false)
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeNone, ch)
	assert.Nil(t, dst.Components.Get("net"))

	ch, err = dst.Merge(src, true)
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeAdded, ch)
	assert.NotNil(t, dst.Components.Get("net"))
}

func TestMergePackageLists(t *testing.T) {
	dst := New()
	src := New()
	src.ActivePackages.names = []string{"vim", "git"}
	src.InactivePackages.names = []string{"telnet"}

	ch, err := dst.Merge(src, true)
	require.NoError(t, err)
	assert.NotEqual(t, lcfgerr.ChangeNone, ch)
	assert.ElementsMatch(t, []string{"vim", "git"}, dst.ActivePackages.Names())
	assert.ElementsMatch(t, []string{"telnet"}, dst.InactivePackages.Names())
}
