// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"image"
	"image/color"
	"slices"
	"sync"

	"cogentcore.org/bimview/bim"
)

// Renderer is an offscreen [bim.Renderer] that tracks its buffer size,
// its post effects settings and the active clipping planes.
type Renderer struct {
	mount bim.Mount

	mu     sync.Mutex
	size   image.Point
	planes []bim.ClipPlane

	post PostEffects
}

// NewRenderer returns a new renderer bound to the given mount.
func NewRenderer(m bim.Mount) *Renderer {
	rd := &Renderer{mount: m}
	rd.Resize()
	return rd
}

// Resize sets the buffer size to the mount size. Degenerate sizes
// are ignored, as when the mount is not laid out yet.
func (rd *Renderer) Resize() {
	sz := rd.mount.Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return
	}
	rd.mu.Lock()
	rd.size = sz
	rd.mu.Unlock()
}

func (rd *Renderer) Size() image.Point {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.size
}

func (rd *Renderer) PostEffects() bim.PostEffects {
	return &rd.post
}

// Post returns the post effects state.
func (rd *Renderer) Post() *PostEffects {
	return &rd.post
}

func (rd *Renderer) ClippingPlanes() []bim.ClipPlane {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return slices.Clone(rd.planes)
}

func (rd *Renderer) addPlane(pl bim.ClipPlane) {
	rd.mu.Lock()
	rd.planes = append(rd.planes, pl)
	rd.mu.Unlock()
}

// removeLastPlane removes the newest plane, returning false if there is none.
func (rd *Renderer) removeLastPlane() bool {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	if len(rd.planes) == 0 {
		return false
	}
	rd.planes = rd.planes[:len(rd.planes)-1]
	return true
}

// PostEffects holds the settings of the post-render pass.
type PostEffects struct {
	mu sync.Mutex

	On        bool
	Style     bim.PostStyles
	EdgeColor color.RGBA
	AO        bim.AOParams
	Denoise   bim.DenoiseParams

	// Isolated are the materials excluded from the base pass.
	Isolated []bim.Material

	// CameraUpdates counts the calls to UpdateCamera.
	CameraUpdates int
}

func (pe *PostEffects) SetEnabled(on bool) {
	pe.mu.Lock()
	pe.On = on
	pe.mu.Unlock()
}

func (pe *PostEffects) Enabled() bool {
	pe.mu.Lock()
	defer pe.mu.Unlock()
	return pe.On
}

func (pe *PostEffects) SetStyle(st bim.PostStyles) {
	pe.mu.Lock()
	pe.Style = st
	pe.mu.Unlock()
}

func (pe *PostEffects) SetEdgeColor(c color.RGBA) {
	pe.mu.Lock()
	pe.EdgeColor = c
	pe.mu.Unlock()
}

func (pe *PostEffects) SetAO(params bim.AOParams) {
	pe.mu.Lock()
	pe.AO = params
	pe.mu.Unlock()
}

func (pe *PostEffects) SetDenoise(params bim.DenoiseParams) {
	pe.mu.Lock()
	pe.Denoise = params
	pe.mu.Unlock()
}

func (pe *PostEffects) IsolateMaterial(mat bim.Material) {
	pe.mu.Lock()
	defer pe.mu.Unlock()
	if !slices.Contains(pe.Isolated, mat) {
		pe.Isolated = append(pe.Isolated, mat)
	}
}

// IsolatedMaterials returns a copy of the isolated materials.
func (pe *PostEffects) IsolatedMaterials() []bim.Material {
	pe.mu.Lock()
	defer pe.mu.Unlock()
	return slices.Clone(pe.Isolated)
}

func (pe *PostEffects) UpdateCamera() {
	pe.mu.Lock()
	pe.CameraUpdates++
	pe.mu.Unlock()
}

// Grid is a ground reference grid.
type Grid struct {
	mu        sync.Mutex
	visible   bool
	color     color.RGBA
	primary   float32
	secondary float32
}

// NewGrid returns a new visible grid.
func NewGrid() *Grid {
	return &Grid{visible: true, primary: 1, secondary: 10}
}

func (gr *Grid) SetVisible(visible bool) {
	gr.mu.Lock()
	gr.visible = visible
	gr.mu.Unlock()
}

func (gr *Grid) Visible() bool {
	gr.mu.Lock()
	defer gr.mu.Unlock()
	return gr.visible
}

func (gr *Grid) SetColor(c color.RGBA) {
	gr.mu.Lock()
	gr.color = c
	gr.mu.Unlock()
}

// Color returns the grid line color.
func (gr *Grid) Color() color.RGBA {
	gr.mu.Lock()
	defer gr.mu.Unlock()
	return gr.color
}

func (gr *Grid) SetSizes(primary, secondary float32) {
	gr.mu.Lock()
	gr.primary, gr.secondary = primary, secondary
	gr.mu.Unlock()
}

// Sizes returns the primary and secondary cell sizes.
func (gr *Grid) Sizes() (primary, secondary float32) {
	gr.mu.Lock()
	defer gr.mu.Unlock()
	return gr.primary, gr.secondary
}
