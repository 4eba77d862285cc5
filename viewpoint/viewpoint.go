// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package viewpoint captures and recalls viewpoints: snapshots of the
// camera, the live selection and the color assignments of a world, with
// elements identified by durable GUIDs so that a viewpoint stays valid
// across sessions.
package viewpoint

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/bimview/highlight"
	"cogentcore.org/core/base/errors"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Viewpoint is a captured view. It is never modified after capture.
type Viewpoint struct {

	// ID is a unique random id.
	ID string `json:"id"`

	// Name is the display name, such as "Viewpoint 3".
	Name string `json:"name"`

	// World is the name of the world the viewpoint was captured in.
	World string `json:"world,omitempty"`

	// Camera is the camera transform at capture time.
	Camera bim.CameraTransform `json:"camera"`

	// Selection is the sorted GUIDs of the selected elements.
	Selection []string `json:"selection,omitempty"`

	// Colors maps color names to the sorted GUIDs of the elements
	// with that color.
	Colors map[string][]string `json:"colors,omitempty"`
}

// Clone returns a deep copy of the viewpoint.
func (vp *Viewpoint) Clone() *Viewpoint {
	cp := &Viewpoint{}
	errors.Log(copier.CopyWithOption(cp, vp, copier.Option{DeepCopy: true}))
	return cp
}

// Translator converts between session element ids and durable GUIDs.
// [bim.ModelManager] is a Translator.
type Translator interface {
	GUIDs(ctx context.Context, sel bim.Selection) ([]string, error)
	SelectionFromGUIDs(ctx context.Context, guids []string) (bim.Selection, error)
}

// Capture captures the current view of the given world. Any failure
// aborts the capture: it never returns a partial viewpoint.
func Capture(ctx context.Context, name string, w *bim.World, reg *highlight.Registry, tr Translator) (*Viewpoint, error) {
	vp := &Viewpoint{ID: uuid.NewString(), Name: name, World: w.Name}
	cam, err := w.CameraTransform(ctx)
	if err != nil {
		return nil, fmt.Errorf("viewpoint: camera: %w", err)
	}
	vp.Camera = cam

	if sel := reg.Selected(); !sel.IsEmpty() {
		guids, err := tr.GUIDs(ctx, sel)
		if err != nil {
			return nil, fmt.Errorf("viewpoint: selection: %w", err)
		}
		vp.Selection = sortedUnique(guids)
	}

	for _, g := range reg.Groups() {
		if g.Selection.IsEmpty() {
			continue
		}
		guids, err := tr.GUIDs(ctx, g.Selection)
		if err != nil {
			return nil, fmt.Errorf("viewpoint: style %q: %w", g.Style.Name, err)
		}
		if vp.Colors == nil {
			vp.Colors = map[string][]string{}
		}
		c := bim.ColorName(g.Style.Color)
		vp.Colors[c] = sortedUnique(append(vp.Colors[c], guids...))
	}
	return vp, nil
}

// Apply recalls the given viewpoint in the given world: it restores the
// camera, assigns the captured colors and then the captured selection.
// Elements whose GUIDs are no longer loaded are skipped. Colors are
// added to the current color assignments.
func Apply(ctx context.Context, vp *Viewpoint, w *bim.World, reg *highlight.Registry, tr Translator) error {
	if w.Camera == nil {
		return bim.ErrNoRenderer
	}
	w.Camera.SetTransform(vp.Camera)
	for _, name := range slices.Sorted(maps.Keys(vp.Colors)) {
		c, err := bim.ParseColor(name)
		if err != nil {
			return fmt.Errorf("viewpoint: color %q: %w", name, err)
		}
		sel, err := tr.SelectionFromGUIDs(ctx, vp.Colors[name])
		if err != nil {
			return err
		}
		if err := reg.ApplyColor(ctx, sel, c); err != nil {
			return err
		}
	}
	sel, err := tr.SelectionFromGUIDs(ctx, vp.Selection)
	if err != nil {
		return err
	}
	return reg.Select(ctx, sel, false)
}

func sortedUnique(s []string) []string {
	s = slices.Clone(s)
	slices.Sort(s)
	return slices.Compact(s)
}
