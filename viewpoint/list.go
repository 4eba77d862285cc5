// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewpoint

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"cogentcore.org/core/base/iox/jsonx"
	"cogentcore.org/core/base/iox/tomlx"
	"cogentcore.org/core/base/keylist"
)

// List is an ordered collection of viewpoints, keyed by id.
// It hands out copies, so stored viewpoints cannot be modified.
type List struct {
	mu    sync.Mutex
	items keylist.List[string, *Viewpoint]
}

// NextName returns the default name of the next viewpoint.
func (ls *List) NextName() string {
	return nextName(ls.Len())
}

func nextName(n int) string {
	return fmt.Sprintf("Viewpoint %d", n+1)
}

// AddNamed names the given viewpoint after its position in the list
// and adds a copy of it. Concurrent calls get distinct names.
func (ls *List) AddNamed(vp *Viewpoint) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	vp.Name = nextName(ls.items.Len())
	ls.items.Set(vp.ID, vp.Clone())
}

// Add adds a copy of the given viewpoint, replacing any with the same id.
func (ls *List) Add(vp *Viewpoint) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.items.Set(vp.ID, vp.Clone())
}

func (ls *List) Len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.items.Len()
}

// All returns copies of all viewpoints in the order they were added.
func (ls *List) All() []*Viewpoint {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	vps := make([]*Viewpoint, len(ls.items.Values))
	for i, vp := range ls.items.Values {
		vps[i] = vp.Clone()
	}
	return vps
}

// ByID returns a copy of the viewpoint with the given id.
func (ls *List) ByID(id string) (*Viewpoint, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	vp, ok := ls.items.AtTry(id)
	if !ok {
		return nil, false
	}
	return vp.Clone(), true
}

// Delete deletes the viewpoint with the given id, returning false
// if there is none.
func (ls *List) Delete(id string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.items.DeleteByKey(id)
}

// tomlFile is the layout of a TOML viewpoint file, which needs a
// top-level table.
type tomlFile struct {
	Viewpoints []*Viewpoint
}

func isTOML(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".toml")
}

// Save saves the viewpoints to the given file, as TOML if it has
// a .toml extension and as JSON otherwise.
func (ls *List) Save(filename string) error {
	if isTOML(filename) {
		return tomlx.Save(&tomlFile{Viewpoints: ls.All()}, filename)
	}
	return jsonx.Save(ls.All(), filename)
}

// Open replaces the viewpoints with those in the given file, read as
// TOML if it has a .toml extension and as JSON otherwise.
func (ls *List) Open(filename string) error {
	var vps []*Viewpoint
	if isTOML(filename) {
		var tf tomlFile
		if err := tomlx.Open(&tf, filename); err != nil {
			return err
		}
		vps = tf.Viewpoints
	} else if err := jsonx.Open(&vps, filename); err != nil {
		return err
	}
	for _, vp := range vps {
		if vp.ID == "" {
			return fmt.Errorf("viewpoint: %s: viewpoint %q has no id", filename, vp.Name)
		}
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.items.Reset()
	for _, vp := range vps {
		ls.items.Set(vp.ID, vp)
	}
	return nil
}
