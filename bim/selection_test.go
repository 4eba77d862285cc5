// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bim

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection(t *testing.T) {
	var empty Selection
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Models())

	s := SelectionOf("tower", 3, 1, 2).Add("annex", 7)
	assert.False(t, s.IsEmpty())
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []string{"annex", "tower"}, s.Models())
	assert.Equal(t, []int{1, 2, 3}, s.IDs("tower"))
	assert.True(t, s.Has("annex", 7))
	assert.False(t, s.Has("annex", 1))

	c := s.Clone()
	c.Add("tower", 4)
	assert.False(t, s.Has("tower", 4))

	s.Merge(SelectionOf("tower", 3, 9))
	assert.Equal(t, []int{1, 2, 3, 9}, s.IDs("tower"))

	s.Subtract(SelectionOf("annex", 7))
	assert.Equal(t, []string{"tower"}, s.Models())
	assert.True(t, s.Equal(SelectionOf("tower", 9, 3, 2, 1)))
	assert.False(t, s.Equal(SelectionOf("tower", 1)))
}

func TestFormatFromFilename(t *testing.T) {
	f, id, err := FormatFromFilename("models/Office Tower.ifc")
	require.NoError(t, err)
	assert.Equal(t, IFC, f)
	assert.Equal(t, "Office Tower", id)

	f, id, err = FormatFromFilename("annex.FRAG")
	require.NoError(t, err)
	assert.Equal(t, Fragments, f)
	assert.Equal(t, "annex", id)

	_, _, err = FormatFromFilename("notes.txt")
	assert.Error(t, err)
	_, _, err = FormatFromFilename(".ifc")
	assert.Error(t, err)
}

func TestEnums(t *testing.T) {
	var p Projections
	require.NoError(t, p.SetString("orthographic"))
	assert.Equal(t, Orthographic, p)
	assert.Equal(t, "Orthographic", p.String())
	assert.Error(t, p.SetString("fisheye"))

	var ps PostStyles
	require.NoError(t, ps.SetString("ColorShadows"))
	assert.Equal(t, ColorShadows, ps)
}

func TestColorNameParse(t *testing.T) {
	red, err := ParseColor("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, red)
	again, err := ParseColor("ff0000")
	require.NoError(t, err)
	assert.Equal(t, ColorName(red), ColorName(again))
	assert.NotEqual(t, ColorName(red), ColorName(color.RGBA{0, 255, 0, 255}))
}
