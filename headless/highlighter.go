// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"context"
	"fmt"
	"sync"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/base/keylist"
)

// Highlighter is the [bim.Highlighter] of a headless world. Styles are
// kept in creation order, and every style has its own selection.
type Highlighter struct {
	mu         sync.Mutex
	styles     keylist.List[string, bim.Style]
	selections map[string]bim.Selection

	highlight bim.Signal[string]
	clear     bim.Signal[string]
}

// NewHighlighter returns a new highlighter with the given live selection style.
func NewHighlighter(selectStyle bim.Style) *Highlighter {
	hl := &Highlighter{selections: map[string]bim.Selection{}}
	if selectStyle.Name == "" {
		selectStyle.Name = bim.SelectStyle
	}
	hl.SetStyle(selectStyle)
	return hl
}

func (hl *Highlighter) Styles() []bim.Style {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	sts := make([]bim.Style, len(hl.styles.Values))
	copy(sts, hl.styles.Values)
	return sts
}

func (hl *Highlighter) Style(name string) (bim.Style, bool) {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	return hl.styles.AtTry(name)
}

func (hl *Highlighter) SetStyle(st bim.Style) {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	hl.styles.Set(st.Name, st)
	if _, ok := hl.selections[st.Name]; !ok {
		hl.selections[st.Name] = bim.NewSelection()
	}
}

func (hl *Highlighter) Selection(name string) bim.Selection {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	if sel, ok := hl.selections[name]; ok {
		return sel.Clone()
	}
	return bim.NewSelection()
}

func (hl *Highlighter) HighlightByID(ctx context.Context, name string, sel bim.Selection, additive, exclusive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hl.mu.Lock()
	if _, ok := hl.styles.AtTry(name); !ok {
		hl.mu.Unlock()
		return fmt.Errorf("highlighter: unknown style %q", name)
	}
	if !additive {
		hl.selections[name] = bim.NewSelection()
	}
	hl.selections[name].Merge(sel)
	if exclusive {
		for other, os := range hl.selections {
			if other != name {
				os.Subtract(sel)
			}
		}
	}
	hl.mu.Unlock()
	hl.highlight.Emit(name)
	return nil
}

func (hl *Highlighter) Clear(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hl.mu.Lock()
	if _, ok := hl.styles.AtTry(name); !ok {
		hl.mu.Unlock()
		return fmt.Errorf("highlighter: unknown style %q", name)
	}
	hl.selections[name] = bim.NewSelection()
	hl.mu.Unlock()
	hl.clear.Emit(name)
	return nil
}

func (hl *Highlighter) OnHighlight() *bim.Signal[string] { return &hl.highlight }
func (hl *Highlighter) OnClear() *bim.Signal[string]     { return &hl.clear }
