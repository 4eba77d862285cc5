// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package headless implements the [bim.Toolkit] contracts in memory,
// without a GPU. Models are YAML manifests or IFC STEP files decoded
// on a worker goroutine, and elements carry bounding boxes in place
// of geometry.
package headless

import (
	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/fsx"
)

// Toolkit is the headless [bim.Toolkit]. The created subsystems are kept
// in exported fields so that callers can drive them directly.
type Toolkit struct {

	// CheckWorker requires the worker bundle path to be an existing file.
	CheckWorker bool

	Scene       *Scene
	Renderer    *Renderer
	Camera      *Camera
	Grid        *Grid
	Manager     *Manager
	Highlighter *Highlighter
	Hider       *Hider
	Clipper     *Clipper
	Length      *LengthMeasurer
	Area        *AreaMeasurer
}

// New returns a new headless toolkit.
func New() *Toolkit {
	return &Toolkit{Manager: NewManager()}
}

func (tk *Toolkit) NewScene() (bim.Scene, error) {
	tk.Scene = NewScene()
	return tk.Scene, nil
}

func (tk *Toolkit) NewRenderer(m bim.Mount) (bim.Renderer, error) {
	if m == nil {
		return nil, errors.New("headless: NewRenderer: nil mount")
	}
	tk.Renderer = NewRenderer(m)
	return tk.Renderer, nil
}

func (tk *Toolkit) NewCamera(m bim.Mount) (bim.Camera, error) {
	if m == nil {
		return nil, errors.New("headless: NewCamera: nil mount")
	}
	tk.Camera = NewCamera(m)
	return tk.Camera, nil
}

func (tk *Toolkit) NewGrid(w *bim.World) (bim.Grid, error) {
	tk.Grid = NewGrid()
	return tk.Grid, nil
}

// Init checks that the world subsystems exist and sets up the worker
// bundle check of the model manager.
func (tk *Toolkit) Init() error {
	if tk.Scene == nil || tk.Renderer == nil || tk.Camera == nil {
		return errors.New("headless: Init before scene, renderer and camera exist")
	}
	if tk.CheckWorker {
		tk.Manager.CheckWorker = func(path string) error {
			ok, err := fsx.FileExists(path)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("file not found")
			}
			return nil
		}
	}
	return nil
}

func (tk *Toolkit) ModelManager() bim.ModelManager {
	return tk.Manager
}

func (tk *Toolkit) NewHighlighter(w *bim.World, selectStyle bim.Style) (bim.Highlighter, error) {
	tk.Highlighter = NewHighlighter(selectStyle)
	return tk.Highlighter, nil
}

func (tk *Toolkit) NewHider() (bim.Hider, error) {
	tk.Hider = NewHider(tk.Manager)
	return tk.Hider, nil
}

func (tk *Toolkit) NewClipper(w *bim.World) (bim.Clipper, error) {
	tk.Clipper = NewClipper()
	return tk.Clipper, nil
}

func (tk *Toolkit) NewLengthMeasurer(w *bim.World) (bim.LengthMeasurer, error) {
	tk.Length = NewLengthMeasurer()
	return tk.Length, nil
}

func (tk *Toolkit) NewAreaMeasurer(w *bim.World) (bim.AreaMeasurer, error) {
	tk.Area = NewAreaMeasurer()
	return tk.Area, nil
}
