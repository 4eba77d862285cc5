// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlight

import (
	"context"
	"testing"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/bimview/headless"
	"cogentcore.org/core/colors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var selectColor = colors.FromRGB(188, 241, 36)

func newTestRegistry() (*Registry, *headless.Highlighter) {
	hl := headless.NewHighlighter(bim.Style{Name: bim.SelectStyle, Color: selectColor, Opacity: 1})
	return NewRegistry(hl), hl
}

func TestApplyColorDedupe(t *testing.T) {
	ctx := context.Background()
	rg, hl := newTestRegistry()
	red := colors.FromRGB(255, 0, 0)

	require.NoError(t, rg.Select(ctx, bim.SelectionOf("m", 1, 2), false))
	require.NoError(t, rg.ApplyColor(ctx, bim.SelectionOf("m", 1, 2), red))
	require.NoError(t, rg.Select(ctx, bim.SelectionOf("m", 3), false))
	require.NoError(t, rg.ApplyColor(ctx, bim.SelectionOf("m", 3), red))

	gs := rg.Groups()
	require.Len(t, gs, 1)
	assert.Equal(t, bim.ColorName(red), gs[0].Style.Name)
	assert.Equal(t, red, gs[0].Style.Color)
	assert.Equal(t, bim.OneFace, gs[0].Style.Faces)
	assert.Equal(t, float32(1), gs[0].Style.Opacity)
	assert.False(t, gs[0].Style.Transparent)
	assert.True(t, gs[0].Selection.Equal(bim.SelectionOf("m", 1, 2, 3)))
	assert.True(t, rg.Selected().IsEmpty())
	assert.Len(t, hl.Styles(), 2)

	blue := colors.FromRGB(0, 0, 255)
	require.NoError(t, rg.ApplyColor(ctx, bim.SelectionOf("n", 7), blue))
	gs = rg.Groups()
	require.Len(t, gs, 2)
	assert.Equal(t, blue, gs[1].Style.Color)
	st, ok := rg.StyleForColor(blue)
	assert.True(t, ok)
	assert.Equal(t, bim.ColorName(blue), st.Name)
}

func TestApplyColorSelectNoop(t *testing.T) {
	ctx := context.Background()
	rg, hl := newTestRegistry()
	require.NoError(t, rg.Select(ctx, bim.SelectionOf("m", 1), false))

	cleared := 0
	hl.OnClear().Add(func(string) { cleared++ })
	require.NoError(t, rg.ApplyColor(ctx, bim.SelectionOf("m", 1), selectColor))
	assert.Equal(t, 0, cleared)
	assert.Empty(t, rg.Groups())
	assert.True(t, rg.Selected().Equal(bim.SelectionOf("m", 1)))
}

func TestApplyColorEmpty(t *testing.T) {
	ctx := context.Background()
	rg, hl := newTestRegistry()
	require.NoError(t, rg.Select(ctx, bim.SelectionOf("m", 1), false))
	require.NoError(t, rg.ApplyColor(ctx, bim.NewSelection(), colors.FromRGB(1, 2, 3)))
	assert.Len(t, hl.Styles(), 1)
	assert.False(t, rg.Selected().IsEmpty())
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	rg, _ := newTestRegistry()
	require.NoError(t, rg.Select(ctx, bim.SelectionOf("m", 1), false))
	require.NoError(t, rg.Select(ctx, bim.SelectionOf("m", 2), true))
	assert.True(t, rg.Selected().Equal(bim.SelectionOf("m", 1, 2)))
	require.NoError(t, rg.Select(ctx, nil, true))
	assert.Equal(t, 2, rg.Selected().Len())
	require.NoError(t, rg.Select(ctx, nil, false))
	assert.True(t, rg.Selected().IsEmpty())

	require.NoError(t, rg.Select(ctx, bim.SelectionOf("m", 4), false))
	require.NoError(t, rg.ClearSelection(ctx))
	assert.True(t, rg.Selected().IsEmpty())
}
