/*
fix42 — FIX 4.2 message codec and tools
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package fix

import (
	"iter"
	"maps"
	"slices"
)

// Field is a single tag=value pair as it appears on the wire.
type Field struct {
	Tag   int
	Value string
}

// FieldMap is the tag -> value store behind every Message.
// It is not safe for concurrent mutation.
type FieldMap struct {
	values map[int]string
}

// NewFieldMap returns an empty store.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[int]string)}
}

// Set inserts or overwrites the value for tag.
func (f *FieldMap) Set(tag int, value string) {
	if f.values == nil {
		f.values = make(map[int]string)
	}
	f.values[tag] = value
}

// Get returns the value for tag and whether it was present.
func (f *FieldMap) Get(tag int) (string, bool) {
	v, ok := f.values[tag]
	return v, ok
}

func (f *FieldMap) Has(tag int) bool {
	_, ok := f.values[tag]
	return ok
}

func (f *FieldMap) Remove(tag int) {
	delete(f.values, tag)
}

func (f *FieldMap) Len() int {
	return len(f.values)
}

// Tags returns the stored tags in ascending order.
func (f *FieldMap) Tags() []int {
	return slices.Sorted(maps.Keys(f.values))
}

// All yields every (tag, value) pair in ascending tag order. The sequence
// may be ranged over any number of times; each pass sees the current contents.
func (f *FieldMap) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for _, tag := range f.Tags() {
			if !yield(tag, f.values[tag]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (f *FieldMap) Clone() *FieldMap {
	cp := make(map[int]string, len(f.values))
	maps.Copy(cp, f.values)
	return &FieldMap{values: cp}
}
