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

// Iter is a bidirectional cursor over a List. It holds a reference to the
// backing list for its whole lifetime; the caller must not structurally
// mutate the list (Append/Prepend/Remove/MutateAdd/MutateExtra) while an
// Iter over it is in use. This is a documentation-level contract, not a
// runtime-enforced one, matching the single-threaded model of S5.
type Iter struct {
	list *List
	pos  int // -1 before the head, len(list.tags) after the tail
}

// NewIter returns an iterator positioned before the head of l.
func NewIter(l *List) *Iter {
	return &Iter{list: l, pos: -1}
}

// Next advances the cursor and returns the next tag, or nil at the tail.
func (it *Iter) Next() *Tag {
	if it.pos+1 >= len(it.list.tags) {
		it.pos = len(it.list.tags)
		return nil
	}
	it.pos++
	return it.list.tags[it.pos]
}

// Prev retreats the cursor and returns the previous tag, or nil before the
// head. This is the direction package template relies on to synthesize
// names tail-first.
func (it *Iter) Prev() *Tag {
	if it.pos-1 < 0 {
		it.pos = -1
		return nil
	}
	it.pos--
	return it.list.tags[it.pos]
}

// Reset repositions the cursor before the head.
func (it *Iter) Reset() {
	it.pos = -1
}

// ToTail repositions the cursor just past the tail, so the next Prev()
// call returns the last tag. This is the entry point for tail-first
// consumption used by template.BuildName.
func (it *Iter) ToTail() {
	it.pos = len(it.list.tags)
}
