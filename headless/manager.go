// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"context"
	"fmt"
	"sync"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/keylist"
	"cogentcore.org/core/math32"
)

// ErrNotReady is returned by [Manager] methods that need a running worker.
var ErrNotReady = errors.New("headless: model manager worker is not running")

// elementRef locates an element within the loaded models.
type elementRef struct {
	model string
	id    int
}

// Manager is the worker-backed [bim.ModelManager].
type Manager struct {

	// CheckWorker, if set, is called by Init to validate the
	// worker bundle path before starting the worker.
	CheckWorker func(path string) error

	mu        sync.RWMutex
	worker    *worker
	models    keylist.List[string, *Model]
	materials MaterialList
	guids     map[string]elementRef
	added     bim.Signal[bim.Model]

	updates int
	pending bool
}

// NewManager returns a new manager, which needs Init before loading.
func NewManager() *Manager {
	return &Manager{guids: map[string]elementRef{}}
}

// Init starts the worker for the bundle at the given path.
func (mg *Manager) Init(ctx context.Context, workerPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if workerPath == "" {
		return errors.New("headless: no worker bundle path")
	}
	if mg.CheckWorker != nil {
		if err := mg.CheckWorker(workerPath); err != nil {
			return fmt.Errorf("headless: worker bundle %q: %w", workerPath, err)
		}
	}
	mg.mu.Lock()
	defer mg.mu.Unlock()
	if mg.worker != nil {
		return nil
	}
	mg.worker = startWorker(workerPath)
	return nil
}

func (mg *Manager) Ready() bool {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	return mg.worker != nil
}

func (mg *Manager) Worker() bim.Worker {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	if mg.worker == nil {
		return nil
	}
	return mg.worker
}

// Load decodes the data on the worker and adds the resulting model,
// emitting OnModelAdded and OnItemSet for each of its materials.
func (mg *Manager) Load(ctx context.Context, data []byte, opts bim.LoadOptions) (bim.Model, error) {
	if opts.ModelID == "" {
		return nil, errors.New("headless: Load: empty model id")
	}
	mg.mu.RLock()
	wk := mg.worker
	_, exists := mg.models.AtTry(opts.ModelID)
	mg.mu.RUnlock()
	if wk == nil {
		return nil, ErrNotReady
	}
	if exists {
		return nil, fmt.Errorf("headless: model %q is already loaded", opts.ModelID)
	}
	dc, err := wk.submit(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	md := newModel(opts.ModelID, dc.elements, dc.materials)
	mg.mu.Lock()
	if _, exists := mg.models.AtTry(opts.ModelID); exists {
		mg.mu.Unlock()
		return nil, fmt.Errorf("headless: model %q is already loaded", opts.ModelID)
	}
	mg.models.Add(md.id, md)
	for _, el := range dc.elements {
		mg.guids[el.GUID] = elementRef{model: md.id, id: el.ID}
	}
	mg.mu.Unlock()
	mg.materials.add(dc.materials...)
	mg.added.Emit(md)
	return md, nil
}

func (mg *Manager) Models() []bim.Model {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	ms := make([]bim.Model, len(mg.models.Values))
	for i, md := range mg.models.Values {
		ms[i] = md
	}
	return ms
}

// Model returns the model with the given id.
func (mg *Manager) Model(id string) (*Model, bool) {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	return mg.models.AtTry(id)
}

func (mg *Manager) OnModelAdded() *bim.Signal[bim.Model] {
	return &mg.added
}

func (mg *Manager) Materials() (bim.MaterialList, error) {
	return &mg.materials, nil
}

// GUIDs returns the GUIDs of the selected elements, ordered by model
// and local id. It fails if any element is not loaded.
func (mg *Manager) GUIDs(ctx context.Context, sel bim.Selection) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	guids := make([]string, 0, sel.Len())
	for _, mid := range sel.Models() {
		md, ok := mg.models.AtTry(mid)
		if !ok {
			return nil, fmt.Errorf("headless: GUIDs: model %q is not loaded", mid)
		}
		for _, id := range sel.IDs(mid) {
			el, ok := md.Element(id)
			if !ok {
				return nil, fmt.Errorf("headless: GUIDs: model %q has no element %d", mid, id)
			}
			guids = append(guids, el.GUID)
		}
	}
	return guids, nil
}

func (mg *Manager) SelectionFromGUIDs(ctx context.Context, guids []string) (bim.Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	sel := bim.NewSelection()
	for _, g := range guids {
		if ref, ok := mg.guids[g]; ok {
			sel.Add(ref.model, ref.id)
		}
	}
	return sel, nil
}

func (mg *Manager) Bounds(ctx context.Context, sel bim.Selection) (math32.Box3, error) {
	if err := ctx.Err(); err != nil {
		return math32.Box3{}, err
	}
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	box := math32.B3Empty()
	add := func(md *Model, id int) {
		if el, ok := md.Element(id); ok && !el.Bounds.IsEmpty() {
			box.ExpandByBox(el.Bounds)
		}
	}
	if sel.IsEmpty() {
		for _, md := range mg.models.Values {
			for _, id := range md.VisibleIDs() {
				add(md, id)
			}
		}
		return box, nil
	}
	for _, mid := range sel.Models() {
		md, ok := mg.models.AtTry(mid)
		if !ok {
			continue
		}
		for _, id := range sel.IDs(mid) {
			add(md, id)
		}
	}
	return box, nil
}

// Update records a geometry recompute request. Unforced requests are
// coalesced until the next forced one.
func (mg *Manager) Update(force bool) {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	if !force {
		mg.pending = true
		return
	}
	mg.pending = false
	mg.updates++
}

// Updates returns the number of forced recompute passes so far.
func (mg *Manager) Updates() int {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	return mg.updates
}

// Close stops the worker. Loaded models stay available.
func (mg *Manager) Close() error {
	mg.mu.Lock()
	wk := mg.worker
	mg.worker = nil
	mg.mu.Unlock()
	if wk != nil {
		wk.close()
	}
	return nil
}
