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

// Package signature provides the single MD5 accumulation primitive used
// to compute ComponentSet signatures.
package signature

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
)

// New returns a fresh MD5 accumulator.
func New() hash.Hash {
	return md5.New()
}

// Sum returns the lowercase hex digest accumulated in h so far.
func Sum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}
