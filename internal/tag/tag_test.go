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

package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tg, err := New("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tg.Name())
	assert.Equal(t, 3, tg.Len())
}

func TestNewRejectsEmptyAndWhitespace(t *testing.T) {
	for _, name := range []string{"", "a b", "a\tb", " leading"} {
		_, err := New(name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestCompare(t *testing.T) {
	a, _ := New("alpha")
	b, _ := New("beta")
	assert.Negative(t, Compare(a, b))
	assert.Positive(t, Compare(b, a))
	assert.Zero(t, Compare(a, a))
}

func TestHash64Deterministic(t *testing.T) {
	a, _ := New("widget")
	assert.Equal(t, Hash64("widget"), a.hash)
	assert.Equal(t, Hash64("widget"), Hash64("widget"))
	assert.NotEqual(t, Hash64("widget"), Hash64("gadget"))
}

func TestListFromStringAndToString(t *testing.T) {
	l, err := FromString("a b c")
	require.NoError(t, err)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "a b c", l.ToString(ToStringNone))
	assert.Equal(t, "a b c\n", l.ToString(ToStringNewline))
}

func TestListMutateAddDedups(t *testing.T) {
	l := NewList()
	a, _ := New("a")
	b, _ := New("a")
	assert.True(t, l.MutateAdd(a))
	assert.False(t, l.MutateAdd(b))
	assert.Equal(t, 1, l.Len())
}

func TestListMutateExtraAllowsDuplicates(t *testing.T) {
	l := NewList()
	a, _ := New("a")
	b, _ := New("a")
	l.MutateExtra(a)
	l.MutateExtra(b)
	assert.Equal(t, 2, l.Len())
}

func TestListSort(t *testing.T) {
	l, err := FromString("c a b")
	require.NoError(t, err)
	l.Sort()
	assert.Equal(t, "a b c", l.ToString(ToStringNone))
}

func TestListClone(t *testing.T) {
	l, err := FromString("a b")
	require.NoError(t, err)
	cp := l.Clone()
	cp.Append(mustTag(t, "c"))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 3, cp.Len())
}

func TestIterTailFirst(t *testing.T) {
	l, err := FromString("a b c")
	require.NoError(t, err)
	it := NewIter(l)
	it.ToTail()
	assert.Equal(t, "c", it.Prev().Name())
	assert.Equal(t, "b", it.Prev().Name())
	assert.Equal(t, "a", it.Prev().Name())
	assert.Nil(t, it.Prev())
}

func mustTag(t *testing.T, name string) *Tag {
	t.Helper()
	tg, err := New(name)
	require.NoError(t, err)
	return tg
}
