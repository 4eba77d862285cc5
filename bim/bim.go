// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bim defines the capabilities that a building model viewer
// needs from a 3D/BIM toolkit: scene, camera, renderer, worker-backed
// model manager, highlighter, hider, clipper and measurement tools.
// The viewer package orchestrates these; package headless provides a
// complete in-memory implementation.
package bim

import (
	"context"

	"cogentcore.org/core/base/errors"
)

// ErrNoRenderer is returned when a camera snapshot is requested
// from a world that has no renderer attached.
var ErrNoRenderer = errors.New("bim: world has no renderer")

// World is one independently renderable viewport: a scene,
// a camera and a renderer.
type World struct {

	// Name is the name of the world.
	Name string

	Scene    Scene
	Camera   Camera
	Renderer Renderer
}

// CameraTransform captures the current camera transform of the world.
// It fails if the world has no camera or renderer attached.
func (w *World) CameraTransform(ctx context.Context) (CameraTransform, error) {
	if w.Renderer == nil || w.Camera == nil {
		return CameraTransform{}, ErrNoRenderer
	}
	return w.Camera.Snapshot(ctx)
}
