// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	mg := NewManager()
	require.NoError(t, mg.Init(context.Background(), "worker.mjs"))
	t.Cleanup(func() { mg.Close() })
	return mg
}

func TestManagerLoad(t *testing.T) {
	ctx := context.Background()
	mg := newTestManager(t)

	var added []string
	mg.OnModelAdded().Add(func(m bim.Model) { added = append(added, m.ID()) })
	mats, err := mg.Materials()
	require.NoError(t, err)
	var matNames []string
	mats.OnItemSet().Add(func(m bim.Material) { matNames = append(matNames, m.(*Material).Name) })

	m, err := mg.Load(ctx, readTestdata(t, "house.yaml"), bim.LoadOptions{ModelID: "house"})
	require.NoError(t, err)
	assert.Equal(t, "house", m.ID())
	assert.Equal(t, []string{"house"}, added)
	assert.Equal(t, []string{"concrete", "glass", "far"}, matNames)
	assert.Len(t, mats.Values(), 3)

	md, ok := mg.Model("house")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3, 4}, md.IDs())
	glass := md.Materials()[1]
	assert.True(t, glass.IsTransparent())
	assert.InDelta(t, 0.4, glass.Opacity(), 1e-6)
	assert.True(t, md.Materials()[2].IsLOD())

	_, err = mg.Load(ctx, readTestdata(t, "house.yaml"), bim.LoadOptions{ModelID: "house"})
	assert.Error(t, err)
	_, err = mg.Load(ctx, nil, bim.LoadOptions{})
	assert.Error(t, err)
	assert.Len(t, mg.Models(), 1)
}

func TestManagerGUIDs(t *testing.T) {
	ctx := context.Background()
	mg := newTestManager(t)
	_, err := mg.Load(ctx, readTestdata(t, "house.yaml"), bim.LoadOptions{ModelID: "house"})
	require.NoError(t, err)

	guids, err := mg.GUIDs(ctx, bim.SelectionOf("house", 2, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{ElementGUID("house", 1), "3cUkl32yn9qRSPvBJVyWYp"}, guids)
	assert.Equal(t, ElementGUID("house", 1), ElementGUID("house", 1))
	assert.NotEqual(t, ElementGUID("house", 1), ElementGUID("other", 1))

	_, err = mg.GUIDs(ctx, bim.SelectionOf("house", 99))
	assert.Error(t, err)
	_, err = mg.GUIDs(ctx, bim.SelectionOf("nope", 1))
	assert.Error(t, err)

	sel, err := mg.SelectionFromGUIDs(ctx, append(guids, "unknown"))
	require.NoError(t, err)
	assert.True(t, sel.Equal(bim.SelectionOf("house", 1, 2)))
}

func TestManagerBounds(t *testing.T) {
	ctx := context.Background()
	mg := newTestManager(t)
	_, err := mg.Load(ctx, readTestdata(t, "house.yaml"), bim.LoadOptions{ModelID: "house"})
	require.NoError(t, err)

	box, err := mg.Bounds(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(0, 0, 0), box.Min)
	assert.Equal(t, math32.Vec3(10, 3, 8), box.Max)

	box, err = mg.Bounds(ctx, bim.SelectionOf("house", 3))
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(2, 1, 0), box.Min)
	assert.Equal(t, math32.Vec3(4, 2, 0.2), box.Max)

	box, err = mg.Bounds(ctx, bim.SelectionOf("house", 4))
	require.NoError(t, err)
	assert.True(t, box.IsEmpty())
}

func TestManagerIFC(t *testing.T) {
	ctx := context.Background()
	mg := newTestManager(t)
	_, err := mg.Load(ctx, readTestdata(t, "office.ifc"), bim.LoadOptions{ModelID: "office", Format: bim.IFC})
	require.NoError(t, err)
	md, _ := mg.Model("office")
	assert.Equal(t, []int{1, 10, 11}, md.IDs())
	el, ok := md.Element(10)
	require.True(t, ok)
	assert.Equal(t, "IFCWALL", el.Category)
	assert.Equal(t, "2O2Fr$t4X7Zf8NOew3FLOH", el.GUID)
}

func TestManagerWorkerErrors(t *testing.T) {
	ctx := context.Background()
	mg := newTestManager(t)
	var errs []bim.WorkerError
	mg.Worker().OnError().Add(func(we bim.WorkerError) { errs = append(errs, we) })

	_, err := mg.Load(ctx, []byte("not a step file"), bim.LoadOptions{ModelID: "bad", Format: bim.IFC})
	assert.Error(t, err)
	_, err = mg.Load(ctx, []byte("elements:\n  - id: 1\n  - id: 1\n"), bim.LoadOptions{ModelID: "dup"})
	assert.Error(t, err)
	_, err = mg.Load(ctx, []byte("elements:\n  - id: 1\n    material: steel\n"), bim.LoadOptions{ModelID: "mat"})
	assert.Error(t, err)
	require.Len(t, errs, 3)
	assert.Equal(t, "bad", errs[0].Filename)
	assert.Empty(t, mg.Models())
}

func TestManagerNotReady(t *testing.T) {
	ctx := context.Background()
	mg := NewManager()
	assert.False(t, mg.Ready())
	assert.Nil(t, mg.Worker())
	mats, err := mg.Materials()
	require.NoError(t, err)
	assert.Empty(t, mats.Values())
	_, err = mg.Load(ctx, nil, bim.LoadOptions{ModelID: "a"})
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Error(t, mg.Init(ctx, ""))

	mg.CheckWorker = func(string) error { return os.ErrNotExist }
	assert.ErrorIs(t, mg.Init(ctx, "missing.mjs"), os.ErrNotExist)
	assert.False(t, mg.Ready())

	mg.CheckWorker = nil
	require.NoError(t, mg.Init(ctx, "worker.mjs"))
	assert.True(t, mg.Ready())
	assert.NoError(t, mg.Close())
	assert.False(t, mg.Ready())
	assert.NoError(t, mg.Close())
}

func TestManagerUpdate(t *testing.T) {
	mg := NewManager()
	mg.Update(false)
	assert.Equal(t, 0, mg.Updates())
	mg.Update(true)
	mg.Update(true)
	assert.Equal(t, 2, mg.Updates())
}

func TestWorkerCanceled(t *testing.T) {
	wk := startWorker("worker.mjs")
	defer wk.close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := wk.submit(ctx, nil, bim.LoadOptions{ModelID: "a"})
	assert.ErrorIs(t, err, context.Canceled)

	wk.close()
	_, err = wk.submit(context.Background(), nil, bim.LoadOptions{ModelID: "a"})
	assert.ErrorIs(t, err, errWorkerClosed)
}
