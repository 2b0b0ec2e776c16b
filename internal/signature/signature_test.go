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

package signature

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumMatchesKnownMD5(t *testing.T) {
	h := New()
	_, err := io.WriteString(h, "net.ip=1.2.3.4\n")
	assert.NoError(t, err)

	got := Sum(h)
	assert.Len(t, got, 32)

	want := New()
	_, _ = io.WriteString(want, "net.ip=1.2.3.4\n")
	assert.Equal(t, Sum(want), got)
}

func TestSumDiffersOnDifferentInput(t *testing.T) {
	a := New()
	_, _ = io.WriteString(a, "net.ip=1.2.3.4\n")

	b := New()
	_, _ = io.WriteString(b, "net.ip=5.6.7.8\n")

	assert.NotEqual(t, Sum(a), Sum(b))
}

func TestSumOfEmptyAccumulator(t *testing.T) {
	h := New()
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Sum(h))
}
