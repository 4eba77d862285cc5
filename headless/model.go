// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"maps"
	"slices"
	"sync"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/math32"
)

// Element is one element of a [Model].
type Element struct {

	// ID is the session-local id of the element.
	ID int

	// GUID is the durable id of the element.
	GUID string

	// Category is the element class, such as IFCWALL.
	Category string

	// Material is the name of the element material.
	Material string

	// Bounds is the bounding box of the element geometry; empty if none.
	Bounds math32.Box3
}

// Model is a loaded model. It is its own scene object.
type Model struct {
	id        string
	elements  map[int]*Element
	materials []*Material

	mu     sync.Mutex
	hidden map[int]struct{}
	camera bim.Camera
	planes func() []bim.ClipPlane
}

func newModel(id string, elements []*Element, materials []*Material) *Model {
	md := &Model{id: id, elements: make(map[int]*Element, len(elements)), materials: materials, hidden: map[int]struct{}{}}
	for _, el := range elements {
		md.elements[el.ID] = el
	}
	return md
}

func (md *Model) ID() string         { return md.id }
func (md *Model) ObjectName() string { return md.id }
func (md *Model) Object() bim.Object { return md }

func (md *Model) UseCamera(cam bim.Camera) {
	md.mu.Lock()
	md.camera = cam
	md.mu.Unlock()
}

// Camera returns the camera bound with UseCamera.
func (md *Model) Camera() bim.Camera {
	md.mu.Lock()
	defer md.mu.Unlock()
	return md.camera
}

func (md *Model) SetClippingPlanes(planes func() []bim.ClipPlane) {
	md.mu.Lock()
	md.planes = planes
	md.mu.Unlock()
}

// ClippingPlanes returns the planes the model currently honors.
func (md *Model) ClippingPlanes() []bim.ClipPlane {
	md.mu.Lock()
	planes := md.planes
	md.mu.Unlock()
	if planes == nil {
		return nil
	}
	return planes()
}

// IDs returns the sorted local ids of all elements.
func (md *Model) IDs() []int {
	return slices.Sorted(maps.Keys(md.elements))
}

// Element returns the element with the given local id.
func (md *Model) Element(id int) (*Element, bool) {
	el, ok := md.elements[id]
	return el, ok
}

// Materials returns the materials of the model.
func (md *Model) Materials() []*Material {
	return slices.Clone(md.materials)
}

// Visible returns whether the given element is visible.
func (md *Model) Visible(id int) bool {
	md.mu.Lock()
	defer md.mu.Unlock()
	_, hidden := md.hidden[id]
	return !hidden
}

// VisibleIDs returns the sorted local ids of the visible elements.
func (md *Model) VisibleIDs() []int {
	var ids []int
	for _, id := range md.IDs() {
		if md.Visible(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (md *Model) setVisible(visible bool, ids ...int) {
	md.mu.Lock()
	defer md.mu.Unlock()
	for _, id := range ids {
		if _, ok := md.elements[id]; !ok {
			continue
		}
		if visible {
			delete(md.hidden, id)
		} else {
			md.hidden[id] = struct{}{}
		}
	}
}
