// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bim

import (
	"slices"
	"sync"
)

// Signal holds the listener functions registered for one kind of
// notification. Listeners are closures with all context captured.
// Unlike [events.Listeners], every listener is called, in the order
// in which it was added, and [Signal.Add] returns a disposer that
// removes the listener again. The zero value is ready to use.
type Signal[T any] struct {
	mu     sync.Mutex
	nextID int
	ids    []int
	funcs  []func(T)
}

// Add adds the given listener and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (s *Signal[T]) Add(fun func(T)) (dispose func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.ids = append(s.ids, id)
	s.funcs = append(s.funcs, fun)
	s.mu.Unlock()
	return func() { s.remove(id) }
}

func (s *Signal[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.ids, id)
	if i < 0 {
		return
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	s.funcs = slices.Delete(s.funcs, i, i+1)
}

// Emit calls every listener with the given value. The listener list
// is copied first, so listeners may add or remove listeners.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	funcs := slices.Clone(s.funcs)
	s.mu.Unlock()
	for _, fun := range funcs {
		fun(v)
	}
}

// Len returns the number of registered listeners.
func (s *Signal[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.funcs)
}
