// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"image"
	"sync"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/events/key"
)

// Mount is an offscreen [bim.Mount] whose size and input are driven
// programmatically.
type Mount struct {
	mu   sync.Mutex
	size image.Point

	resize bim.Signal[image.Point]
	keys   bim.Signal[key.Codes]
	double bim.Signal[image.Point]
}

// NewMount returns a new mount of the given size.
func NewMount(size image.Point) *Mount {
	return &Mount{size: size}
}

func (m *Mount) Size() image.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// SetSize resizes the mount, emitting OnResize if the size changed.
func (m *Mount) SetSize(size image.Point) {
	m.mu.Lock()
	if m.size == size {
		m.mu.Unlock()
		return
	}
	m.size = size
	m.mu.Unlock()
	m.resize.Emit(size)
}

// Press simulates a key press.
func (m *Mount) Press(code key.Codes) {
	m.keys.Emit(code)
}

// DoubleClick simulates a double click at the given position.
func (m *Mount) DoubleClick(pos image.Point) {
	m.double.Emit(pos)
}

func (m *Mount) OnResize() *bim.Signal[image.Point]      { return &m.resize }
func (m *Mount) OnKey() *bim.Signal[key.Codes]           { return &m.keys }
func (m *Mount) OnDoubleClick() *bim.Signal[image.Point] { return &m.double }

// ReadyMount is a [Mount] whose host reports when its layout is stable,
// implementing [bim.ReadyNotifier].
type ReadyMount struct {
	*Mount
	ready chan struct{}
	once  sync.Once
}

// NewReadyMount returns a new mount of the given size that is not yet ready.
func NewReadyMount(size image.Point) *ReadyMount {
	return &ReadyMount{Mount: NewMount(size), ready: make(chan struct{})}
}

// MarkReady signals that the layout is stable. Extra calls are ignored.
func (m *ReadyMount) MarkReady() {
	m.once.Do(func() { close(m.ready) })
}

func (m *ReadyMount) Ready() <-chan struct{} {
	return m.ready
}
