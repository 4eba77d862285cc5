// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package viewer brings up the subsystems of a building model viewer
// in order, wires the events that keep them consistent, and exposes
// the user operations of the viewer on a [Context].
package viewer

import (
	"slices"
	"sync"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/bimview/ghost"
	"cogentcore.org/bimview/highlight"
	"cogentcore.org/bimview/viewpoint"
	"cogentcore.org/core/base/errors"
)

var (
	// ErrFatalInit is wrapped by the errors of [Init] steps
	// that the viewer cannot run without.
	ErrFatalInit = errors.New("viewer: fatal initialization error")

	// ErrModelLoadingDisabled is returned when loading a model while
	// the model manager worker failed to start.
	ErrModelLoadingDisabled = errors.New("viewer: model loading is disabled")

	// ErrUnavailable is returned by operations of features whose
	// subsystem failed to initialize.
	ErrUnavailable = errors.New("viewer: feature unavailable")
)

// Context is a viewer brought up by [Init]. It owns the subsystems
// of one world and the subscriptions that connect them.
type Context struct {

	// Config is the configuration the viewer was brought up with.
	Config *Config

	// World is the scene, camera and renderer.
	World *bim.World

	Grid bim.Grid

	// Models is the model manager.
	Models bim.ModelManager

	Highlighter bim.Highlighter

	// Hider is nil if it failed to initialize; likewise for the
	// clipper and the measurers.
	Hider   bim.Hider
	Clipper bim.Clipper
	Length  bim.LengthMeasurer
	Area    bim.AreaMeasurer

	// Styles is the highlight style registry.
	Styles *highlight.Registry

	// Ghost is the ghost mode controller.
	Ghost *ghost.Controller

	// Viewpoints are the viewpoints captured so far.
	Viewpoints viewpoint.List

	// fitter is the camera fitting capability, resolved once.
	fitter bim.Fitter

	canLoad bool

	mu        sync.Mutex
	ready     bool
	loading   map[string]int
	disposers []func()

	selectionChanged bim.Signal[bim.Selection]
}

func newContext(cfg *Config) *Context {
	return &Context{Config: cfg, loading: map[string]int{}}
}

// Ready returns whether initialization completed.
func (vc *Context) Ready() bool {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.ready
}

// CanLoadModels returns whether the model manager worker is running.
func (vc *Context) CanLoadModels() bool {
	return vc.canLoad
}

// Fitter returns the camera fitting capability, or nil if the
// camera does not have it.
func (vc *Context) Fitter() bim.Fitter {
	return vc.fitter
}

// OnSelectionChanged is emitted with a copy of the live selection
// whenever it is highlighted or cleared.
func (vc *Context) OnSelectionChanged() *bim.Signal[bim.Selection] {
	return &vc.selectionChanged
}

// Loading marks the named operation as in flight until the returned
// function is called.
func (vc *Context) Loading(name string) (done func()) {
	vc.mu.Lock()
	vc.loading[name]++
	vc.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			vc.mu.Lock()
			if vc.loading[name]--; vc.loading[name] <= 0 {
				delete(vc.loading, name)
			}
			vc.mu.Unlock()
		})
	}
}

// IsLoading returns whether the named operation is in flight.
func (vc *Context) IsLoading(name string) bool {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.loading[name] > 0
}

// InFlight returns the sorted names of the operations in flight.
func (vc *Context) InFlight() []string {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	names := make([]string, 0, len(vc.loading))
	for name := range vc.loading {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// addDisposer collects subscription disposers for [Context.Close].
func (vc *Context) addDisposer(ds ...func()) {
	vc.mu.Lock()
	vc.disposers = append(vc.disposers, ds...)
	vc.mu.Unlock()
}

// Close removes every subscription of the viewer, newest first, and
// stops the model manager worker.
func (vc *Context) Close() error {
	vc.mu.Lock()
	ds := vc.disposers
	vc.disposers = nil
	vc.ready = false
	vc.mu.Unlock()
	for i := len(ds) - 1; i >= 0; i-- {
		ds[i]()
	}
	if vc.Models != nil {
		return vc.Models.Close()
	}
	return nil
}
