// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ghost implements ghost mode: a global, reversible override that
// makes every non-custom model material almost fully transparent, and
// later restores exactly the appearance it had before.
package ghost

import (
	"image/color"
	"sync"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/colors"
)

// Opacity is the opacity of ghosted materials.
const Opacity float32 = 0.05

// Color is the base color of ghosted materials.
var Color = colors.White

// MaterialSource supplies the live materials; [bim.ModelManager] is one.
type MaterialSource interface {
	Materials() (bim.MaterialList, error)
}

// Snapshot is the saved appearance of one material.
type Snapshot struct {
	Color       color.RGBA
	Transparent bool
	Opacity     float32
}

// Controller toggles ghost mode. The snapshot set only covers materials
// that were live when [Controller.Enable] was called; materials of models
// loaded later keep their own appearance. The snapshot set is empty
// whenever ghost mode is off.
type Controller struct {
	source MaterialSource

	mu        sync.Mutex
	enabled   bool
	snapshots map[bim.Material]Snapshot
}

// NewController returns a new controller for the materials of the given source.
func NewController(source MaterialSource) *Controller {
	return &Controller{source: source, snapshots: map[bim.Material]Snapshot{}}
}

// Enabled returns whether ghost mode is on.
func (gc *Controller) Enabled() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.enabled
}

// Len returns the number of materials currently overridden.
func (gc *Controller) Len() int {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return len(gc.snapshots)
}

// Saved returns the saved appearance of the given material.
func (gc *Controller) Saved(mat bim.Material) (Snapshot, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	s, ok := gc.snapshots[mat]
	return s, ok
}

// Enable saves the appearance of every live non-custom material and
// replaces it with the ghost appearance. A material that already has
// a snapshot is left alone, so repeated calls never overwrite the
// original appearance. If the materials cannot be listed, nothing changes.
func (gc *Controller) Enable() error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.enable()
}

func (gc *Controller) enable() error {
	list, err := gc.source.Materials()
	if err != nil {
		return err
	}
	for _, mat := range list.Values() {
		if mat.IsCustom() {
			continue
		}
		if _, has := gc.snapshots[mat]; has {
			continue
		}
		gc.snapshots[mat] = Snapshot{
			Color:       mat.BaseColor(),
			Transparent: mat.Transparent(),
			Opacity:     mat.Opacity(),
		}
		mat.SetTransparent(true)
		mat.SetOpacity(Opacity)
		mat.SetBaseColor(Color)
		mat.SetNeedsUpdate()
	}
	gc.enabled = true
	return nil
}

// Disable writes every saved appearance back onto its material and
// empties the snapshot set.
func (gc *Controller) Disable() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.disable()
}

func (gc *Controller) disable() {
	for mat, s := range gc.snapshots {
		mat.SetTransparent(s.Transparent)
		mat.SetOpacity(s.Opacity)
		mat.SetBaseColor(s.Color)
		mat.SetNeedsUpdate()
		delete(gc.snapshots, mat)
	}
	gc.enabled = false
}

// Toggle disables ghost mode if it is on and enables it otherwise,
// returning the new state.
func (gc *Controller) Toggle() (bool, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if gc.enabled {
		gc.disable()
		return false, nil
	}
	if err := gc.enable(); err != nil {
		return false, err
	}
	return true, nil
}
