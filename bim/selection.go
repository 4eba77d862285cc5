// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bim

import (
	"maps"
	"slices"
)

// Selection maps a model id to the set of session-local element ids
// within that model. It is used both for the live selection and for the
// contents of each highlight style. Local ids are only valid for the
// lifetime of the current model load; use [ModelManager.GUIDs] to get
// durable identifiers. The nil Selection is empty and read-only.
type Selection map[string]map[int]struct{}

// NewSelection returns a new empty selection.
func NewSelection() Selection {
	return Selection{}
}

// SelectionOf returns a new selection containing the given ids of one model.
func SelectionOf(model string, ids ...int) Selection {
	return NewSelection().Add(model, ids...)
}

// Add adds the given local ids of the given model, returning the selection.
func (s Selection) Add(model string, ids ...int) Selection {
	if len(ids) == 0 {
		return s
	}
	set, ok := s[model]
	if !ok {
		set = make(map[int]struct{}, len(ids))
		s[model] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return s
}

// Merge adds every element of o to s.
func (s Selection) Merge(o Selection) Selection {
	for model, set := range o {
		for id := range set {
			s.Add(model, id)
		}
	}
	return s
}

// Subtract removes every element of o from s, dropping models that
// become empty.
func (s Selection) Subtract(o Selection) Selection {
	for model, set := range o {
		cur, ok := s[model]
		if !ok {
			continue
		}
		for id := range set {
			delete(cur, id)
		}
		if len(cur) == 0 {
			delete(s, model)
		}
	}
	return s
}

// Has returns whether the given element is in the selection.
func (s Selection) Has(model string, id int) bool {
	_, ok := s[model][id]
	return ok
}

// IsEmpty returns whether the selection holds no elements.
func (s Selection) IsEmpty() bool {
	for _, set := range s {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

// Len returns the total number of elements across all models.
func (s Selection) Len() int {
	n := 0
	for _, set := range s {
		n += len(set)
	}
	return n
}

// Clone returns a deep copy of the selection. Cloning nil gives an
// empty, writable selection.
func (s Selection) Clone() Selection {
	c := make(Selection, len(s))
	for model, set := range s {
		if len(set) == 0 {
			continue
		}
		c[model] = maps.Clone(set)
	}
	return c
}

// Models returns the sorted ids of the models with at least one element.
func (s Selection) Models() []string {
	ms := make([]string, 0, len(s))
	for model, set := range s {
		if len(set) > 0 {
			ms = append(ms, model)
		}
	}
	slices.Sort(ms)
	return ms
}

// IDs returns the sorted local ids selected in the given model.
func (s Selection) IDs(model string) []int {
	return slices.Sorted(maps.Keys(s[model]))
}

// Equal returns whether both selections hold exactly the same elements.
func (s Selection) Equal(o Selection) bool {
	if s.Len() != o.Len() {
		return false
	}
	for model, set := range s {
		for id := range set {
			if !o.Has(model, id) {
				return false
			}
		}
	}
	return true
}
