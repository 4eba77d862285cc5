// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	s, _ := newTestServer(t)
	dir := t.TempDir()
	w, err := Watch(s.vc, dir, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	b, err := os.ReadFile(filepath.Join("..", "headless", "testdata", "house.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0666))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "house.frag"), b, 0666))

	models := func() []string {
		var ids []string
		for _, md := range s.vc.Models.Models() {
			ids = append(ids, md.ID())
		}
		return ids
	}
	assert.Eventually(t, func() bool { return len(models()) == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"house"}, models())

	// a rewrite of a loaded model is ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "house.frag"), b, 0666))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"house"}, models())
}

func TestWatchMissingDir(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := Watch(s.vc, filepath.Join(t.TempDir(), "missing"), time.Millisecond)
	assert.Error(t, err)
}
