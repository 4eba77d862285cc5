// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"image/color"
	"slices"
	"sync"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
)

// MeasureColor is the color of new measurers until one is set.
var MeasureColor = color.RGBA{255, 255, 0, 255}

// Clipper is the [bim.Clipper] of a headless world. A new plane goes
// through the camera target, facing the camera.
type Clipper struct {
	mu      sync.Mutex
	enabled bool
	added   bim.Signal[bim.ClipPlane]
}

// NewClipper returns a new enabled clipper.
func NewClipper() *Clipper {
	return &Clipper{enabled: true}
}

func (cl *Clipper) Enabled() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.enabled
}

func (cl *Clipper) SetEnabled(on bool) {
	cl.mu.Lock()
	cl.enabled = on
	cl.mu.Unlock()
}

func (cl *Clipper) Create(w *bim.World) error {
	rd, ok := w.Renderer.(*Renderer)
	if !ok {
		return bim.ErrNoRenderer
	}
	if !cl.Enabled() {
		return nil
	}
	tr := w.Camera.Transform()
	normal := tr.Position.Sub(tr.Target)
	if normal.Length() == 0 {
		normal = math32.Vec3(0, 1, 0)
	}
	normal = normal.Normal()
	pl := bim.ClipPlane{Normal: normal, Constant: -normal.Dot(tr.Target)}
	rd.addPlane(pl)
	cl.added.Emit(pl)
	return nil
}

func (cl *Clipper) Delete(w *bim.World) error {
	rd, ok := w.Renderer.(*Renderer)
	if !ok {
		return bim.ErrNoRenderer
	}
	rd.removeLastPlane()
	return nil
}

func (cl *Clipper) OnItemAdded() *bim.Signal[bim.ClipPlane] { return &cl.added }

// errNotCreating is returned by a measurer Pick outside of a Create.
var errNotCreating = errors.New("measurer: no measurement in progress")

// LengthMeasurer is the [bim.LengthMeasurer] of a headless world.
// After Create, the next two picked points make a line.
type LengthMeasurer struct {
	mu       sync.Mutex
	color    color.RGBA
	creating bool
	start    *math32.Vector3
	lines    []bim.Line
	added    bim.Signal[bim.Line]
}

// NewLengthMeasurer returns a new length measurer.
func NewLengthMeasurer() *LengthMeasurer {
	return &LengthMeasurer{color: MeasureColor}
}

func (lm *LengthMeasurer) SetColor(c color.RGBA) {
	lm.mu.Lock()
	lm.color = c
	lm.mu.Unlock()
}

// Color returns the measurement color.
func (lm *LengthMeasurer) Color() color.RGBA {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.color
}

func (lm *LengthMeasurer) Create(w *bim.World) error {
	lm.mu.Lock()
	lm.creating = true
	lm.start = nil
	lm.mu.Unlock()
	return nil
}

// Pick adds a picked point to the measurement in progress.
func (lm *LengthMeasurer) Pick(p math32.Vector3) error {
	lm.mu.Lock()
	if !lm.creating {
		lm.mu.Unlock()
		return errNotCreating
	}
	if lm.start == nil {
		lm.start = &p
		lm.mu.Unlock()
		return nil
	}
	ln := bim.Line{Start: *lm.start, End: p}
	lm.lines = append(lm.lines, ln)
	lm.creating = false
	lm.start = nil
	lm.mu.Unlock()
	lm.added.Emit(ln)
	return nil
}

func (lm *LengthMeasurer) Delete(w *bim.World) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if lm.creating {
		lm.creating = false
		lm.start = nil
		return nil
	}
	if len(lm.lines) > 0 {
		lm.lines = lm.lines[:len(lm.lines)-1]
	}
	return nil
}

// Lines returns the finished measurements.
func (lm *LengthMeasurer) Lines() []bim.Line {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return slices.Clone(lm.lines)
}

func (lm *LengthMeasurer) OnItemAdded() *bim.Signal[bim.Line] { return &lm.added }

// AreaMeasurer is the [bim.AreaMeasurer] of a headless world. After
// Create, picked points accumulate until EndCreation.
type AreaMeasurer struct {
	mu       sync.Mutex
	color    color.RGBA
	creating bool
	points   []math32.Vector3
	areas    []bim.Area
	added    bim.Signal[bim.Area]
}

// NewAreaMeasurer returns a new area measurer.
func NewAreaMeasurer() *AreaMeasurer {
	return &AreaMeasurer{color: MeasureColor}
}

func (am *AreaMeasurer) SetColor(c color.RGBA) {
	am.mu.Lock()
	am.color = c
	am.mu.Unlock()
}

// Color returns the measurement color.
func (am *AreaMeasurer) Color() color.RGBA {
	am.mu.Lock()
	defer am.mu.Unlock()
	return am.color
}

func (am *AreaMeasurer) Create(w *bim.World) error {
	am.mu.Lock()
	am.creating = true
	am.points = nil
	am.mu.Unlock()
	return nil
}

// Pick adds a picked point to the area in progress.
func (am *AreaMeasurer) Pick(p math32.Vector3) error {
	am.mu.Lock()
	defer am.mu.Unlock()
	if !am.creating {
		return errNotCreating
	}
	am.points = append(am.points, p)
	return nil
}

// EndCreation finishes the area in progress. Areas with fewer than
// three points are discarded.
func (am *AreaMeasurer) EndCreation() error {
	am.mu.Lock()
	if !am.creating {
		am.mu.Unlock()
		return nil
	}
	am.creating = false
	pts := am.points
	am.points = nil
	if len(pts) < 3 {
		am.mu.Unlock()
		return nil
	}
	ar := bim.Area{Points: pts, Bounds: math32.B3Empty()}
	ar.Bounds.ExpandByPoints(pts)
	am.areas = append(am.areas, ar)
	am.mu.Unlock()
	am.added.Emit(ar)
	return nil
}

func (am *AreaMeasurer) Delete(w *bim.World) error {
	am.mu.Lock()
	defer am.mu.Unlock()
	if am.creating {
		am.creating = false
		am.points = nil
		return nil
	}
	if len(am.areas) > 0 {
		am.areas = am.areas[:len(am.areas)-1]
	}
	return nil
}

// Areas returns the finished measurements.
func (am *AreaMeasurer) Areas() []bim.Area {
	am.mu.Lock()
	defer am.mu.Unlock()
	return slices.Clone(am.areas)
}

func (am *AreaMeasurer) OnItemAdded() *bim.Signal[bim.Area] { return &am.added }
