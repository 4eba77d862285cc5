// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"context"
	"sync"

	"cogentcore.org/bimview/bim"
)

// Hider is the [bim.Hider] over the models of a [Manager].
type Hider struct {
	mgr *Manager
	mu  sync.Mutex
}

// NewHider returns a new hider for the models of the given manager.
func NewHider(mgr *Manager) *Hider {
	return &Hider{mgr: mgr}
}

func (hd *Hider) Set(ctx context.Context, visible bool, sel bim.Selection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hd.mu.Lock()
	defer hd.mu.Unlock()
	if sel == nil {
		for _, m := range hd.mgr.Models() {
			md := m.(*Model)
			md.setVisible(visible, md.IDs()...)
		}
		return nil
	}
	for _, mid := range sel.Models() {
		if md, ok := hd.mgr.Model(mid); ok {
			md.setVisible(visible, sel.IDs(mid)...)
		}
	}
	return nil
}

func (hd *Hider) Isolate(ctx context.Context, sel bim.Selection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hd.mu.Lock()
	defer hd.mu.Unlock()
	for _, m := range hd.mgr.Models() {
		md := m.(*Model)
		md.setVisible(false, md.IDs()...)
		md.setVisible(true, sel.IDs(md.id)...)
	}
	return nil
}
