// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/bimview/viewer"
	"cogentcore.org/core/base/errors"
	"github.com/fsnotify/fsnotify"
)

// Watcher loads model files as they appear in a directory.
// A file is loaded once no write to it has been seen for the settle delay,
// and only if no model with its id is loaded yet.
type Watcher struct {
	vc     *viewer.Context
	fw     *fsnotify.Watcher
	settle time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	done   chan struct{}
	wg     sync.WaitGroup
}

// Watch starts watching the given directory for model files.
func Watch(vc *viewer.Context, dir string, settle time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{vc: vc, fw: fw, settle: settle, timers: map[string]*time.Timer{}, done: make(chan struct{})}
	w.wg.Add(1)
	go w.watch()
	slog.Info("watching for models", "dir", dir)
	return w, nil
}

func (w *Watcher) watch() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				w.schedule(ev.Name)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			slog.Error("model watcher", "err", err)
		}
	}
}

// schedule (re)starts the settle timer of the given file.
func (w *Watcher) schedule(path string) {
	if _, _, err := bim.FormatFromFilename(path); err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timers == nil {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.load(path)
	})
}

func (w *Watcher) load(path string) {
	_, id, _ := bim.FormatFromFilename(path)
	if slices.ContainsFunc(w.vc.Models.Models(), func(md bim.Model) bool { return md.ID() == id }) {
		slog.Debug("model already loaded", "id", id)
		return
	}
	b, err := os.ReadFile(path)
	if errors.Log(err) != nil {
		return
	}
	w.vc.LoadModel(context.Background(), filepath.Base(path), b)
}

// Close stops watching; pending loads are canceled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = nil
	w.mu.Unlock()
	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()
	return err
}
