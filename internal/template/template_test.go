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

package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigs.k8s.io/lcfg-core/internal/tag"
)

func TestFromStringParsesEachToken(t *testing.T) {
	c, err := FromString("foo_$_$ bar_$")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	foo := c.Find("foo")
	require.NotNil(t, foo)
	assert.Equal(t, 2, foo.PlaceholderCount())

	bar := c.Find("bar")
	require.NotNil(t, bar)
	assert.Equal(t, 1, bar.PlaceholderCount())

	assert.Nil(t, c.Find("missing"))
}

func TestFromStringRejectsBadGrammar(t *testing.T) {
	cases := []string{"1foo_$", "foo_$!", ""}
	for _, tok := range cases {
		_, err := FromString(tok)
		assert.Error(t, err, "token %q", tok)
	}
}

func TestFromStringRejectsTooManyPlaceholders(t *testing.T) {
	_, err := FromString("foo_$_$_$_$_$_$")
	assert.Error(t, err)
}

func TestChainString(t *testing.T) {
	c, err := FromString("foo_$_$ bar_$")
	require.NoError(t, err)
	assert.Equal(t, "foo_$_$ bar_$", c.String())
}

func TestBuildNameWorkedExample(t *testing.T) {
	chain, err := FromString("foo_$_$")
	require.NoError(t, err)
	tags, err := tag.FromString("a b c")
	require.NoError(t, err)

	name, err := BuildName(chain, tags, "foo")
	require.NoError(t, err)
	assert.Equal(t, "foo_b_c", name)
}

func TestBuildNameSinglePlaceholder(t *testing.T) {
	chain, err := FromString("bar_$")
	require.NoError(t, err)
	tags, err := tag.FromString("x y z")
	require.NoError(t, err)

	name, err := BuildName(chain, tags, "bar")
	require.NoError(t, err)
	assert.Equal(t, "bar_z", name)
}

func TestBuildNameFailsOnMissingTemplate(t *testing.T) {
	chain, err := FromString("foo_$")
	require.NoError(t, err)
	tags, err := tag.FromString("a")
	require.NoError(t, err)

	_, err = BuildName(chain, tags, "nope")
	assert.Error(t, err)
}

func TestBuildNameFailsOnTooFewTags(t *testing.T) {
	chain, err := FromString("foo_$_$")
	require.NoError(t, err)
	tags, err := tag.FromString("a")
	require.NoError(t, err)

	_, err = BuildName(chain, tags, "foo")
	assert.Error(t, err)
}
