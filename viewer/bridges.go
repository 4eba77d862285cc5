// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"image"
	"log/slog"
	"strings"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/events/key"
	"cogentcore.org/core/math32"
)

// bridgeResize keeps the renderer and the camera aspect ratio in sync
// with the mount size.
func (vc *Context) bridgeResize(m bim.Mount) func() {
	return m.OnResize().Add(func(image.Point) {
		vc.resize()
	})
}

// bridgeMaterials excludes level-of-detail materials from the base
// post effects pass as they are added.
func (vc *Context) bridgeMaterials(mats bim.MaterialList) func() {
	return mats.OnItemSet().Add(func(mat bim.Material) {
		if !mat.IsLOD() {
			return
		}
		if pe := vc.World.Renderer.PostEffects(); pe != nil {
			pe.IsolateMaterial(mat)
		}
	})
}

// bridges installs the standing subscriptions of the viewer.
func (vc *Context) bridges(m bim.Mount) []func() {
	w := vc.World
	mm := vc.Models
	ds := []func(){
		w.Camera.OnProjectionChanged().Add(func(bim.Projections) {
			for _, md := range mm.Models() {
				md.UseCamera(w.Camera)
			}
		}),
		w.Camera.OnRest().Add(func(bim.CameraTransform) {
			mm.Update(true)
		}),
		mm.OnModelAdded().Add(func(md bim.Model) {
			md.UseCamera(w.Camera)
			md.SetClippingPlanes(w.Renderer.ClippingPlanes)
			w.Scene.Add(md.Object())
			mm.Update(true)
		}),
		m.OnKey().Add(vc.handleKey),
		vc.Highlighter.OnHighlight().Add(vc.emitSelection),
		vc.Highlighter.OnClear().Add(vc.emitSelection),
	}
	if vc.Clipper != nil {
		ds = append(ds, m.OnDoubleClick().Add(func(image.Point) {
			if vc.Clipper.Enabled() {
				errors.Log(vc.Clipper.Create(w))
			}
		}))
	}
	if vc.fitter != nil && vc.Length != nil {
		ds = append(ds, vc.Length.OnItemAdded().Add(func(ln bim.Line) {
			vc.fitter.FitToSphere(math32.Sphere{Center: ln.Center(), Radius: ln.Distance() / 3})
		}))
	}
	if vc.fitter != nil && vc.Area != nil {
		ds = append(ds, vc.Area.OnItemAdded().Add(func(ar bim.Area) {
			if ar.Bounds.IsEmpty() {
				return
			}
			vc.fitter.FitToSphere(ar.Bounds.GetBoundingSphere())
		}))
	}
	return ds
}

func (vc *Context) handleKey(code key.Codes) {
	switch code {
	case key.CodeDelete, key.CodeBackspace:
		if vc.Clipper != nil {
			errors.Log(vc.Clipper.Delete(vc.World))
		}
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		if vc.Area != nil {
			errors.Log(vc.Area.EndCreation())
		}
	}
}

func (vc *Context) emitSelection(style string) {
	if style != bim.SelectStyle {
		return
	}
	vc.selectionChanged.Emit(vc.Highlighter.Selection(bim.SelectStyle))
}

// handleWorkerError logs worker errors that carry information.
func handleWorkerError(we bim.WorkerError) {
	if BenignWorkerError(we.Message) {
		return
	}
	slog.Error("worker error", "msg", we.Message, "file", we.Filename, "line", we.Line)
}

// BenignWorkerError returns whether a worker error message carries no
// information: it is empty, or it only has placeholder tokens such as
// "undefined" separated by colons.
func BenignWorkerError(msg string) bool {
	msg = strings.TrimSpace(msg)
	if msg == "" || strings.Contains(msg, "undefined:undefined") {
		return true
	}
	for _, part := range strings.Split(msg, ":") {
		switch strings.TrimSpace(part) {
		case "", "undefined", "null":
		default:
			return false
		}
	}
	return true
}
