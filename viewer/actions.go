// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/bimview/viewpoint"
	"cogentcore.org/core/base/errors"
)

// operation runs the named user operation, marking it in flight.
// Errors and panics are logged and returned.
func (vc *Context) operation(name string, fun func() error) (err error) {
	defer vc.Loading(name)()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("viewer: %s: %v", name, r)
		}
		errors.Log(err)
	}()
	return fun()
}

// LoadModel loads the model data of the given file, taking the format
// and the model id from the file name.
func (vc *Context) LoadModel(ctx context.Context, filename string, data []byte) (md bim.Model, err error) {
	err = vc.operation("load", func() error {
		if !vc.canLoad {
			return ErrModelLoadingDisabled
		}
		format, id, err := bim.FormatFromFilename(filename)
		if err != nil {
			return err
		}
		md, err = vc.Models.Load(ctx, data, bim.LoadOptions{ModelID: id, Format: format})
		if err != nil {
			return fmt.Errorf("loading %s: %w", filename, err)
		}
		slog.Info("loaded model", "id", id, "format", format)
		return nil
	})
	return
}

// Select highlights the given elements with the live selection style.
func (vc *Context) Select(ctx context.Context, sel bim.Selection, additive bool) error {
	return vc.operation("select", func() error {
		return vc.Styles.Select(ctx, sel, additive)
	})
}

// ShowAll makes every element visible.
func (vc *Context) ShowAll(ctx context.Context) error {
	return vc.operation("showAll", func() error {
		if vc.Hider == nil {
			return ErrUnavailable
		}
		return vc.Hider.Set(ctx, true, nil)
	})
}

// Hide hides the selected elements. It does nothing without a selection.
func (vc *Context) Hide(ctx context.Context) error {
	sel := vc.Styles.Selected()
	if sel.IsEmpty() {
		return nil
	}
	return vc.operation("hide", func() error {
		if vc.Hider == nil {
			return ErrUnavailable
		}
		return vc.Hider.Set(ctx, false, sel)
	})
}

// Isolate hides everything but the selected elements. It does nothing
// without a selection.
func (vc *Context) Isolate(ctx context.Context) error {
	sel := vc.Styles.Selected()
	if sel.IsEmpty() {
		return nil
	}
	return vc.operation("isolate", func() error {
		if vc.Hider == nil {
			return ErrUnavailable
		}
		return vc.Hider.Isolate(ctx, sel)
	})
}

// Focus fits the camera to the selected elements, or to every visible
// element without a selection. It does nothing if the camera cannot fit.
func (vc *Context) Focus(ctx context.Context) error {
	if vc.fitter == nil {
		return nil
	}
	return vc.operation("focus", func() error {
		box, err := vc.Models.Bounds(ctx, vc.Styles.Selected())
		if err != nil {
			return err
		}
		vc.fitter.FitToBox(box)
		return nil
	})
}

// ToggleGhost toggles ghost mode, returning whether it is now on.
func (vc *Context) ToggleGhost() (on bool, err error) {
	err = vc.operation("ghost", func() error {
		on, err = vc.Ghost.Toggle()
		return err
	})
	return
}

// ApplyColor assigns the given color to the selected elements.
func (vc *Context) ApplyColor(ctx context.Context, c color.RGBA) error {
	return vc.operation("color", func() error {
		return vc.Styles.ApplyColor(ctx, vc.Styles.Selected(), c)
	})
}

// CaptureViewpoint captures the current view as a new viewpoint named
// after its position in the list, and adds it to the list.
func (vc *Context) CaptureViewpoint(ctx context.Context) (vp *viewpoint.Viewpoint, err error) {
	err = vc.operation("viewpoint", func() error {
		vp, err = viewpoint.Capture(ctx, "", vc.World, vc.Styles, vc.Models)
		if err != nil {
			return err
		}
		vc.Viewpoints.AddNamed(vp)
		return nil
	})
	if err != nil {
		vp = nil
	}
	return
}

// ApplyViewpoint recalls the viewpoint with the given id.
func (vc *Context) ApplyViewpoint(ctx context.Context, id string) error {
	return vc.operation("applyViewpoint", func() error {
		vp, ok := vc.Viewpoints.ByID(id)
		if !ok {
			return fmt.Errorf("viewer: no viewpoint %q", id)
		}
		return viewpoint.Apply(ctx, vp, vc.World, vc.Styles, vc.Models)
	})
}

// ToggleGrid toggles the grid visibility, returning whether it is now visible.
func (vc *Context) ToggleGrid() bool {
	visible := !vc.Grid.Visible()
	vc.Grid.SetVisible(visible)
	return visible
}

// SetProjection switches the camera projection and updates the post
// effects for it.
func (vc *Context) SetProjection(p bim.Projections) {
	vc.World.Camera.SetProjection(p)
	if pe := vc.World.Renderer.PostEffects(); pe != nil {
		pe.UpdateCamera()
	}
}
