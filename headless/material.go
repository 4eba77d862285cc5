// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"fmt"
	"image/color"
	"slices"
	"sync"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/colors"
)

// Material describes the surface appearance shared by model elements.
// Main color is used for ambient and diffuse color; level-of-detail
// materials use LODColor instead. Opacity is kept separately from the
// color alpha, and Transparent must be set for opacity < 1 to take effect.
type Material struct {
	mu sync.Mutex

	// Name is the material id within its model.
	Name string

	color       color.RGBA
	lodColor    color.RGBA
	opacity     float32
	transparent bool
	custom      bool
	lod         bool

	// version is incremented by every SetNeedsUpdate.
	version int
}

// NewMaterial returns a new opaque material with the given color.
func NewMaterial(name string, c color.RGBA) *Material {
	mt := &Material{Name: name}
	mt.Defaults()
	mt.color = c
	mt.lodColor = c
	return mt
}

// Defaults sets default surface parameters.
func (mt *Material) Defaults() {
	mt.color = colors.FromRGB(128, 128, 128)
	mt.lodColor = mt.color
	mt.opacity = 1
	mt.transparent = false
}

func (mt *Material) String() string {
	return fmt.Sprintf("Material %s: color %s opacity %g transparent %v", mt.Name, colors.AsHex(mt.BaseColor()), mt.Opacity(), mt.Transparent())
}

func (mt *Material) BaseColor() color.RGBA {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.lod {
		return mt.lodColor
	}
	return mt.color
}

func (mt *Material) SetBaseColor(c color.RGBA) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.lod {
		mt.lodColor = c
		return
	}
	mt.color = c
}

func (mt *Material) Transparent() bool {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return mt.transparent
}

func (mt *Material) SetTransparent(transparent bool) {
	mt.mu.Lock()
	mt.transparent = transparent
	mt.mu.Unlock()
}

func (mt *Material) Opacity() float32 {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return mt.opacity
}

func (mt *Material) SetOpacity(opacity float32) {
	mt.mu.Lock()
	mt.opacity = opacity
	mt.mu.Unlock()
}

func (mt *Material) IsCustom() bool {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return mt.custom
}

// SetCustom marks the material as user-created.
func (mt *Material) SetCustom(custom bool) *Material {
	mt.mu.Lock()
	mt.custom = custom
	mt.mu.Unlock()
	return mt
}

func (mt *Material) IsLOD() bool {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return mt.lod
}

// SetLOD marks the material as a level-of-detail material.
func (mt *Material) SetLOD(lod bool) *Material {
	mt.mu.Lock()
	mt.lod = lod
	mt.mu.Unlock()
	return mt
}

// IsTransparent returns true if the material is transparent and has opacity < 1.
func (mt *Material) IsTransparent() bool {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return mt.transparent && mt.opacity < 1
}

func (mt *Material) SetNeedsUpdate() {
	mt.mu.Lock()
	mt.version++
	mt.mu.Unlock()
}

// Version returns the number of updates flagged so far.
func (mt *Material) Version() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return mt.version
}

// MaterialList is the list of all live materials of a [Manager].
type MaterialList struct {
	mu     sync.Mutex
	values []bim.Material
	added  bim.Signal[bim.Material]
}

func (ml *MaterialList) Values() []bim.Material {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return slices.Clone(ml.values)
}

func (ml *MaterialList) OnItemSet() *bim.Signal[bim.Material] {
	return &ml.added
}

func (ml *MaterialList) add(mats ...*Material) {
	for _, mt := range mats {
		ml.mu.Lock()
		ml.values = append(ml.values, mt)
		ml.mu.Unlock()
		ml.added.Emit(mt)
	}
}
