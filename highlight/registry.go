// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package highlight maintains the highlight styles of a viewer on top of
// a [bim.Highlighter]: the live selection style and one style per color
// that the user has assigned, never two styles with the same color.
package highlight

import (
	"context"
	"image/color"
	"sync"

	"cogentcore.org/bimview/bim"
)

// Group is a non-reserved highlight style together with its elements.
type Group struct {
	Style     bim.Style
	Selection bim.Selection
}

// Registry maps selection gestures and color choices onto the styles of
// a [bim.Highlighter]. Its operations are serialized, so a second
// ApplyColor never interleaves with one in progress.
type Registry struct {
	hl bim.Highlighter
	mu sync.Mutex
}

// NewRegistry returns a new registry for the given highlighter.
func NewRegistry(hl bim.Highlighter) *Registry {
	return &Registry{hl: hl}
}

// Highlighter returns the underlying highlighter.
func (rg *Registry) Highlighter() bim.Highlighter {
	return rg.hl
}

// Select highlights the given elements with the live selection style,
// replacing the previous selection unless additive is true.
func (rg *Registry) Select(ctx context.Context, sel bim.Selection, additive bool) error {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	if sel.IsEmpty() {
		if additive {
			return nil
		}
		return rg.hl.Clear(ctx, bim.SelectStyle)
	}
	return rg.hl.HighlightByID(ctx, bim.SelectStyle, sel, additive, false)
}

// ClearSelection clears the live selection.
func (rg *Registry) ClearSelection(ctx context.Context) error {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.hl.Clear(ctx, bim.SelectStyle)
}

// Selected returns a copy of the live selection.
func (rg *Registry) Selected() bim.Selection {
	return rg.hl.Selection(bim.SelectStyle)
}

// Groups returns every style other than the live selection style,
// in creation order, with a copy of its elements.
func (rg *Registry) Groups() []Group {
	var gs []Group
	for _, st := range rg.hl.Styles() {
		if st.Name == bim.SelectStyle {
			continue
		}
		gs = append(gs, Group{Style: st, Selection: rg.hl.Selection(st.Name)})
	}
	return gs
}

// StyleForColor returns the style whose color is exactly the given color.
func (rg *Registry) StyleForColor(c color.RGBA) (bim.Style, bool) {
	for _, st := range rg.hl.Styles() {
		if st.Color == c {
			return st, true
		}
	}
	return bim.Style{}, false
}

// ApplyColor assigns the given color to the given elements. An existing
// style with exactly that color is reused; otherwise a new one-sided,
// opaque style named by [bim.ColorName] is created. The elements then
// leave the live selection. An empty selection, or a color that belongs
// to the live selection style itself, does nothing.
func (rg *Registry) ApplyColor(ctx context.Context, sel bim.Selection, c color.RGBA) error {
	if sel.IsEmpty() {
		return nil
	}
	rg.mu.Lock()
	defer rg.mu.Unlock()
	name := ""
	if st, ok := rg.StyleForColor(c); ok {
		if st.Name == bim.SelectStyle {
			return nil
		}
		name = st.Name
	} else {
		name = bim.ColorName(c)
		rg.hl.SetStyle(bim.Style{
			Name:    name,
			Color:   c,
			Opacity: 1,
			Faces:   bim.OneFace,
		})
	}
	if err := rg.hl.HighlightByID(ctx, name, sel, true, false); err != nil {
		return err
	}
	return rg.hl.Clear(ctx, bim.SelectStyle)
}
