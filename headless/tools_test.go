// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"context"
	"image"
	"testing"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/colors"
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlighter(t *testing.T) {
	ctx := context.Background()
	hl := NewHighlighter(bim.Style{Name: bim.SelectStyle, Color: colors.FromRGB(188, 241, 36), Opacity: 1})
	red := bim.Style{Name: "#ff0000", Color: colors.FromRGB(255, 0, 0), Opacity: 1}
	hl.SetStyle(red)

	sts := hl.Styles()
	require.Len(t, sts, 2)
	assert.Equal(t, bim.SelectStyle, sts[0].Name)
	assert.Equal(t, "#ff0000", sts[1].Name)

	var events []string
	hl.OnHighlight().Add(func(name string) { events = append(events, "highlight "+name) })
	hl.OnClear().Add(func(name string) { events = append(events, "clear "+name) })

	require.NoError(t, hl.HighlightByID(ctx, bim.SelectStyle, bim.SelectionOf("m", 1, 2), false, false))
	require.NoError(t, hl.HighlightByID(ctx, bim.SelectStyle, bim.SelectionOf("m", 3), true, false))
	assert.True(t, hl.Selection(bim.SelectStyle).Equal(bim.SelectionOf("m", 1, 2, 3)))

	require.NoError(t, hl.HighlightByID(ctx, "#ff0000", bim.SelectionOf("m", 2), true, true))
	assert.True(t, hl.Selection(bim.SelectStyle).Equal(bim.SelectionOf("m", 1, 3)))
	assert.True(t, hl.Selection("#ff0000").Equal(bim.SelectionOf("m", 2)))

	require.NoError(t, hl.HighlightByID(ctx, bim.SelectStyle, bim.SelectionOf("m", 5), false, false))
	assert.True(t, hl.Selection(bim.SelectStyle).Equal(bim.SelectionOf("m", 5)))

	require.NoError(t, hl.Clear(ctx, bim.SelectStyle))
	assert.True(t, hl.Selection(bim.SelectStyle).IsEmpty())
	assert.Equal(t, []string{"highlight select", "highlight select", "highlight #ff0000", "highlight select", "clear select"}, events)

	assert.Error(t, hl.HighlightByID(ctx, "nope", bim.SelectionOf("m", 1), true, false))
	assert.Error(t, hl.Clear(ctx, "nope"))
	assert.True(t, hl.Selection("nope").IsEmpty())

	sel := hl.Selection("#ff0000")
	sel.Add("m", 9)
	assert.False(t, hl.Selection("#ff0000").Has("m", 9))
}

func TestHider(t *testing.T) {
	ctx := context.Background()
	mg := newTestManager(t)
	_, err := mg.Load(ctx, readTestdata(t, "house.yaml"), bim.LoadOptions{ModelID: "house"})
	require.NoError(t, err)
	md, _ := mg.Model("house")
	hd := NewHider(mg)

	require.NoError(t, hd.Set(ctx, false, bim.SelectionOf("house", 2)))
	assert.Equal(t, []int{1, 3, 4}, md.VisibleIDs())
	require.NoError(t, hd.Isolate(ctx, bim.SelectionOf("house", 3)))
	assert.Equal(t, []int{3}, md.VisibleIDs())

	box, err := mg.Bounds(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(2, 1, 0), box.Min)

	require.NoError(t, hd.Set(ctx, true, nil))
	assert.Equal(t, []int{1, 2, 3, 4}, md.VisibleIDs())
}

func newTestWorld(size image.Point) (*bim.World, *Mount) {
	m := NewMount(size)
	return &bim.World{Name: "test", Scene: NewScene(), Camera: NewCamera(m), Renderer: NewRenderer(m)}, m
}

func TestClipper(t *testing.T) {
	w, _ := newTestWorld(image.Pt(800, 600))
	cam := w.Camera.(*Camera)
	cam.SetTransform(bim.CameraTransform{Position: math32.Vec3(0, 10, 0), Target: math32.Vec3(0, 2, 0)})
	cl := NewClipper()
	var planes []bim.ClipPlane
	cl.OnItemAdded().Add(func(p bim.ClipPlane) { planes = append(planes, p) })

	require.NoError(t, cl.Create(w))
	require.Len(t, planes, 1)
	assert.Equal(t, math32.Vec3(0, 1, 0), planes[0].Normal)
	assert.InDelta(t, -2, planes[0].Constant, 1e-6)
	assert.Len(t, w.Renderer.ClippingPlanes(), 1)

	cl.SetEnabled(false)
	require.NoError(t, cl.Create(w))
	assert.Len(t, w.Renderer.ClippingPlanes(), 1)

	require.NoError(t, cl.Delete(w))
	require.NoError(t, cl.Delete(w))
	assert.Empty(t, w.Renderer.ClippingPlanes())

	assert.ErrorIs(t, cl.Create(&bim.World{Camera: cam}), bim.ErrNoRenderer)
}

func TestLengthMeasurer(t *testing.T) {
	lm := NewLengthMeasurer()
	assert.Equal(t, MeasureColor, lm.Color())
	var lines []bim.Line
	lm.OnItemAdded().Add(func(ln bim.Line) { lines = append(lines, ln) })

	assert.Error(t, lm.Pick(math32.Vec3(0, 0, 0)))
	require.NoError(t, lm.Create(nil))
	require.NoError(t, lm.Pick(math32.Vec3(0, 0, 0)))
	assert.Empty(t, lines)
	require.NoError(t, lm.Pick(math32.Vec3(3, 4, 0)))
	require.Len(t, lines, 1)
	assert.InDelta(t, 5, lines[0].Distance(), 1e-6)
	assert.Equal(t, math32.Vec3(1.5, 2, 0), lines[0].Center())

	require.NoError(t, lm.Delete(nil))
	assert.Empty(t, lm.Lines())
}

func TestAreaMeasurer(t *testing.T) {
	am := NewAreaMeasurer()
	var areas []bim.Area
	am.OnItemAdded().Add(func(ar bim.Area) { areas = append(areas, ar) })

	require.NoError(t, am.EndCreation())
	require.NoError(t, am.Create(nil))
	require.NoError(t, am.Pick(math32.Vec3(0, 0, 0)))
	require.NoError(t, am.Pick(math32.Vec3(4, 0, 0)))
	require.NoError(t, am.EndCreation())
	assert.Empty(t, areas)

	require.NoError(t, am.Create(nil))
	for _, p := range []math32.Vector3{math32.Vec3(0, 0, 0), math32.Vec3(4, 0, 0), math32.Vec3(4, 0, 3)} {
		require.NoError(t, am.Pick(p))
	}
	require.NoError(t, am.EndCreation())
	require.Len(t, areas, 1)
	assert.Equal(t, math32.Vec3(4, 0, 3), areas[0].Bounds.Max)
	assert.Len(t, am.Areas(), 1)
}

func TestCamera(t *testing.T) {
	m := NewMount(image.Pt(800, 400))
	cam := NewCamera(m)
	assert.InDelta(t, 2, cam.Aspect, 1e-6)

	m.SetSize(image.Pt(0, 0))
	cam.UpdateAspect()
	assert.InDelta(t, 2, cam.Aspect, 1e-6)

	var projections []bim.Projections
	cam.OnProjectionChanged().Add(func(p bim.Projections) { projections = append(projections, p) })
	cam.SetProjection(bim.Orthographic)
	cam.SetProjection(bim.Orthographic)
	assert.Equal(t, []bim.Projections{bim.Orthographic}, projections)

	rests := 0
	cam.OnRest().Add(func(bim.CameraTransform) { rests++ })
	cam.SetTransform(bim.CameraTransform{Position: math32.Vec3(0, 0, 10), Projection: bim.Orthographic})
	assert.Equal(t, 0, rests)
	cam.FitToBox(math32.B3Empty())
	assert.Equal(t, 0, rests)

	cam.FitToSphere(math32.Sphere{Center: math32.Vec3(1, 0, 0), Radius: 1})
	assert.Equal(t, 1, rests)
	tr, err := cam.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(1, 0, 0), tr.Target)
	assert.InDelta(t, 2, tr.Position.DistanceTo(tr.Target), 1e-4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = cam.Snapshot(ctx)
	assert.Error(t, err)
}

func TestRendererResize(t *testing.T) {
	m := NewMount(image.Pt(640, 480))
	rd := NewRenderer(m)
	assert.Equal(t, image.Pt(640, 480), rd.Size())
	m.SetSize(image.Pt(1024, 768))
	assert.Equal(t, image.Pt(640, 480), rd.Size())
	rd.Resize()
	assert.Equal(t, image.Pt(1024, 768), rd.Size())
}
