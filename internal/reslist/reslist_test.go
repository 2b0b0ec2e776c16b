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

package reslist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigs.k8s.io/lcfg-core/internal/lcfgerr"
	"sigs.k8s.io/lcfg-core/internal/resource"
)

func mustResource(t *testing.T, name, value string, priority int32) *resource.Resource {
	t.Helper()
	r, err := resource.New(name)
	require.NoError(t, err)
	require.NoError(t, r.SetValue(value))
	r.SetPriority(priority)
	return r
}

func TestMergeResourceUsePriorityHigherWins(t *testing.T) {
	l := New("x", RuleUsePriority, KeyName)
	ch, err := l.MergeResource(mustResource(t, "x", "low", 1))
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeAdded, ch)

	ch, err = l.MergeResource(mustResource(t, "x", "high", 5))
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeReplaced, ch)
	v, _ := l.Head().Value()
	assert.Equal(t, "high", v)

	ch, err = l.MergeResource(mustResource(t, "x", "ignored", 2))
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeNone, ch)
	v, _ = l.Head().Value()
	assert.Equal(t, "high", v)
}

func TestMergeResourceUsePriorityConflictOnTie(t *testing.T) {
	l := New("x", RuleUsePriority, KeyName)
	_, err := l.MergeResource(mustResource(t, "x", "a", 3))
	require.NoError(t, err)
	_, err = l.MergeResource(mustResource(t, "x", "b", 3))
	assert.Error(t, err)
}

func TestMergeResourceSquashIdentical(t *testing.T) {
	l := New("x", RuleSquashIdentical, KeyName)
	_, err := l.MergeResource(mustResource(t, "x", "same", 0))
	require.NoError(t, err)
	ch, err := l.MergeResource(mustResource(t, "x", "same", 0))
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeReplaced, ch)
	assert.Equal(t, 1, l.Len())
}

func TestMergeResourceKeepAll(t *testing.T) {
	l := New("x", RuleKeepAll, KeyName|KeyContext)
	a := mustResource(t, "x", "a", 0)
	a.SetContextExpression("ctx1")
	b := mustResource(t, "x", "b", 0)
	b.SetContextExpression("ctx2")

	ch, err := l.MergeResource(a)
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeAdded, ch)

	ch, err = l.MergeResource(b)
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeAdded, ch)
	assert.Equal(t, 2, l.Len())
}

func TestMergeResourceReplace(t *testing.T) {
	l := New("x", RuleReplace, KeyName)
	_, err := l.MergeResource(mustResource(t, "x", "a", 0))
	require.NoError(t, err)
	ch, err := l.MergeResource(mustResource(t, "x", "b", 0))
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeReplaced, ch)
	v, _ := l.Head().Value()
	assert.Equal(t, "b", v)
}

func TestMergeResourceNoRuleConflicts(t *testing.T) {
	l := New("x", RuleNone, KeyName)
	_, err := l.MergeResource(mustResource(t, "x", "a", 0))
	require.NoError(t, err)
	_, err = l.MergeResource(mustResource(t, "x", "b", 0))
	assert.ErrorIs(t, err, lcfgerr.ErrConflict)
}

func TestMergeResourceInvalidIsError(t *testing.T) {
	l := New("x", RuleKeepAll, KeyName)
	_, err := l.MergeResource(nil)
	assert.Error(t, err)
}

func TestMergeListAggregatesChange(t *testing.T) {
	dst := New("x", RuleKeepAll, KeyName|KeyContext)
	src := New("x", RuleKeepAll, KeyName|KeyContext)
	a := mustResource(t, "x", "a", 0)
	a.SetContextExpression("c1")
	b := mustResource(t, "x", "b", 0)
	b.SetContextExpression("c2")
	require.NoError(t, pushInto(src, a))
	require.NoError(t, pushInto(src, b))

	ch, err := MergeList(dst, src)
	require.NoError(t, err)
	assert.Equal(t, lcfgerr.ChangeAdded, ch)
	assert.Equal(t, 2, dst.Len())
}

func pushInto(l *ResourceList, r *resource.Resource) error {
	_, err := l.MergeResource(r)
	return err
}
