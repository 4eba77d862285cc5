// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"image/color"
	"slices"
	"sync"

	"cogentcore.org/bimview/bim"
)

// Scene is the scenegraph root, holding the objects added to it.
type Scene struct {
	mu sync.Mutex

	// background color of the scene
	background color.RGBA

	objects []bim.Object
}

// NewScene returns a new empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Background returns the background color.
func (sc *Scene) Background() color.RGBA {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.background
}

func (sc *Scene) SetBackground(c color.RGBA) {
	sc.mu.Lock()
	sc.background = c
	sc.mu.Unlock()
}

// Add adds the object, unless it is already in the scene.
func (sc *Scene) Add(obj bim.Object) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if slices.Contains(sc.objects, obj) {
		return
	}
	sc.objects = append(sc.objects, obj)
}

func (sc *Scene) Remove(obj bim.Object) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if i := slices.Index(sc.objects, obj); i >= 0 {
		sc.objects = slices.Delete(sc.objects, i, i+1)
	}
}

// Objects returns the objects in the scene, in the order they were added.
func (sc *Scene) Objects() []bim.Object {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return slices.Clone(sc.objects)
}
