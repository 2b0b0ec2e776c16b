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

package compset

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

func buildComponent(t *testing.T, name string, resources map[string]string) *component.Component {
	t.Helper()
	c := component.New(name)
	for res, val := range resources {
		_, err := c.MergeResource(res, reslist.RuleReplace, reslist.KeyName, mustResource(t, res, val))
		require.NoError(t, err)
	}
	return c
}

func TestPutGetRemove(t *testing.T) {
	s := New()
	c := buildComponent(t, "net", map[string]string{"ip": "1.2.3.4"})
	s.Put("net", c)
	assert.Equal(t, c, s.Get("net"))
	assert.True(t, s.Remove("net"))
	assert.Nil(t, s.Get("net"))
}

func TestNamesSorted(t *testing.T) {
	s := New()
	s.Put("zeta", buildComponent(t, "zeta", nil))
	s.Put("alpha", buildComponent(t, "alpha", nil))
	assert.Equal(t, []string{"alpha", "zeta"}, s.Names())
}

func TestMergeComponentsTakeNewTrue(t *testing.T) {
	dst := New()
	src := New()
	src.Put("net", buildComponent(t, "net", map[string]string{"ip": "1.2.3.4"}))

	ch, err := MergeComponents(dst, src, true)
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeAdded, ch)
	assert.NotNil(t, dst.Get("net"))
}

func TestMergeComponentsTakeNewFalse(t *testing.T) {
	dst := New()
	src := New()
	src.Put("net", buildComponent(t, "net", map[string]string{"ip": "1.2.3.4"}))

	ch, err := MergeComponents(dst, src, false)
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeNone, ch)
	assert.Nil(t, dst.Get("net"))
}

func TestTransplantComponents(t *testing.T) {
	dst := New()
	src := New()
	c := buildComponent(t, "net", map[string]string{"ip": "1.2.3.4"})
	src.Put("net", c)
	existing := buildComponent(t, "sys", map[string]string{"hostname": "old"})
	dst.Put("sys", existing)
	replacement := buildComponent(t, "sys", map[string]string{"hostname": "new"})
	src.Put("sys", replacement)

	TransplantComponents(dst, src)
	assert.Equal(t, c, dst.Get("net"))
	assert.Equal(t, replacement, dst.Get("sys"))
	assert.Equal(t, c, src.Get("net"))
	assert.Equal(t, replacement, src.Get("sys"))
}

func TestSignatureStableAcrossInsertionOrder(t *testing.T) {
	s1 := New()
	s1.Put("a", buildComponent(t, "a", map[string]string{"x": "1"}))
	s1.Put("b", buildComponent(t, "b", map[string]string{"y": "2"}))

	s2 := New()
	s2.Put("b", buildComponent(t, "b", map[string]string{"y": "2"}))
	s2.Put("a", buildComponent(t, "a", map[string]string{"x": "1"}))

	sig1, err := s1.Signature()
	require.NoError(t, err)
	sig2, err := s2.Signature()
	require.NoError(t, err)
	assert.Equal(t, sig1, sig2)
	assert.Len(t, sig1, 32)
}

func TestSignatureChangesWithContent(t *testing.T) {
	s1 := New()
	s1.Put("a", buildComponent(t, "a", map[string]string{"x": "1"}))
	sig1, err := s1.Signature()
	require.NoError(t, err)

	s2 := New()
	s2.Put("a", buildComponent(t, "a", map[string]string{"x": "2"}))
	sig2, err := s2.Signature()
	require.NoError(t, err)

	assert.NotEqual(t, sig1, sig2)
}
