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

package lcfgerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrongestAggregation(t *testing.T) {
	cases := []struct {
		a, b, want Change
	}{
		{ChangeNone, ChangeAdded, ChangeAdded},
		{ChangeAdded, ChangeRemoved, ChangeRemoved},
		{ChangeRemoved, ChangeReplaced, ChangeReplaced},
		{ChangeReplaced, ChangeModified, ChangeModified},
		{ChangeModified, ChangeError, ChangeError},
		{ChangeError, ChangeNone, ChangeError},
		{ChangeNone, ChangeNone, ChangeNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Strongest(c.a, c.b))
		assert.Equal(t, c.want, Strongest(c.b, c.a))
	}
}

func TestChangeString(t *testing.T) {
	assert.Equal(t, "none", ChangeNone.String())
	assert.Equal(t, "added", ChangeAdded.String())
	assert.Equal(t, "error", ChangeError.String())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", OK.String())
	assert.Equal(t, "error", Error.String())
}
