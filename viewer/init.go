// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/bimview/ghost"
	"cogentcore.org/bimview/highlight"
)

// Init brings up a viewer on the given mount with the subsystems of the
// given toolkit. The steps run in a fixed order, each depending on the
// previous ones. A failure before the model manager step is fatal and
// returns an error wrapping [ErrFatalInit]. A model manager failure
// disables model loading, and failures of the optional tools disable
// only those tools. A nil config means [DefaultConfig].
func Init(ctx context.Context, m bim.Mount, tk bim.Toolkit, cfg *Config) (*Context, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	vc := newContext(cfg)
	w := &bim.World{Name: cfg.Name}
	vc.World = w
	vc.Models = tk.ModelManager()
	fail := func(step int, what string, err error) (*Context, error) {
		vc.Close()
		slog.Error("viewer initialization failed", "step", step, "what", what, "err", err)
		return nil, fmt.Errorf("%w: step %d (%s): %w", ErrFatalInit, step, what, err)
	}
	slog.Info("starting viewer initialization", "world", cfg.Name, "size", m.Size())

	// 1
	scene, err := tk.NewScene()
	if err != nil {
		return fail(1, "scene", err)
	}
	bg, err := bim.ParseColor(cfg.Background)
	if err != nil {
		return fail(1, "scene background", err)
	}
	scene.SetBackground(bg)
	w.Scene = scene

	// 2
	if err := waitLayout(ctx, m, millis(cfg.SettleDelay)); err != nil {
		return fail(2, "mount layout", err)
	}

	// 3
	slog.Info("mount is ready, creating renderer", "size", m.Size())
	rd, err := tk.NewRenderer(m)
	if err != nil {
		return fail(3, "renderer", err)
	}
	w.Renderer = rd

	// 4
	cam, err := tk.NewCamera(m)
	if err != nil {
		return fail(4, "camera", err)
	}
	cam.SetNear(cfg.Near)
	cam.SetRestThreshold(cfg.RestThreshold)
	w.Camera = cam
	if f, ok := cam.(bim.Fitter); ok {
		vc.fitter = f
	}

	// 5
	grid, err := tk.NewGrid(w)
	if err != nil {
		return fail(5, "grid", err)
	}
	gc, err := bim.ParseColor(cfg.GridColor)
	if err != nil {
		return fail(5, "grid color", err)
	}
	grid.SetColor(gc)
	grid.SetSizes(cfg.GridSize1, cfg.GridSize2)
	vc.Grid = grid

	// 6
	vc.addDisposer(vc.bridgeResize(m))

	// 7
	slog.Info("initializing toolkit")
	if err := tk.Init(); err != nil {
		return fail(7, "toolkit", err)
	}

	// 8
	if err := sleep(ctx, millis(cfg.FinalSettleDelay)); err != nil {
		return fail(8, "settle", err)
	}
	vc.resize()

	// 9
	if err := vc.setupPostEffects(); err != nil {
		return fail(9, "post effects", err)
	}

	// 10
	workerPath := cfg.Worker()
	slog.Info("initializing model manager worker", "path", workerPath)
	if err := vc.Models.Init(ctx, workerPath); err != nil {
		slog.Error("model manager worker failed to start; model loading is disabled", "path", workerPath, "err", err)
	} else {
		vc.canLoad = true
	}

	// 11
	if vc.canLoad {
		if wk := vc.Models.Worker(); wk != nil {
			vc.addDisposer(wk.OnError().Add(handleWorkerError))
		}
	}
	if mats, err := vc.Models.Materials(); err != nil {
		slog.Error("cannot watch model materials", "err", err)
	} else {
		vc.addDisposer(vc.bridgeMaterials(mats))
	}

	// 12
	if err := vc.setupTools(tk); err != nil {
		return fail(12, "highlighter", err)
	}

	// 13
	vc.addDisposer(vc.bridges(m)...)

	vc.mu.Lock()
	vc.ready = true
	vc.mu.Unlock()
	slog.Info("viewer initialization complete", "world", cfg.Name, "models", vc.canLoad)
	return vc, nil
}

// waitLayout waits until the mount layout is stable: until its Ready
// channel is closed if it is a [bim.ReadyNotifier], or for the given delay.
func waitLayout(ctx context.Context, m bim.Mount, delay time.Duration) error {
	rn, ok := m.(bim.ReadyNotifier)
	if !ok {
		return sleep(ctx, delay)
	}
	select {
	case <-rn.Ready():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (vc *Context) setupPostEffects() error {
	var style bim.PostStyles
	if err := style.SetString(vc.Config.PostStyle); err != nil {
		return err
	}
	edge, err := bim.ParseColor(vc.Config.EdgeColor)
	if err != nil {
		return err
	}
	pe := vc.World.Renderer.PostEffects()
	if pe == nil {
		return fmt.Errorf("renderer has no post effects")
	}
	pe.SetEnabled(true)
	pe.SetStyle(style)
	pe.SetEdgeColor(edge)
	pe.SetAO(vc.Config.AO)
	pe.SetDenoise(vc.Config.Denoise)
	return nil
}

// setupTools creates the highlighter, which is required, and the
// hider, clipper and measurers, which are optional.
func (vc *Context) setupTools(tk bim.Toolkit) error {
	cfg := vc.Config
	w := vc.World
	sc, err := bim.ParseColor(cfg.SelectColor)
	if err != nil {
		return err
	}
	hl, err := tk.NewHighlighter(w, bim.Style{Name: bim.SelectStyle, Color: sc, Opacity: 1, Faces: bim.OneFace})
	if err != nil {
		return err
	}
	vc.Highlighter = hl
	vc.Styles = highlight.NewRegistry(hl)
	vc.Ghost = ghost.NewController(vc.Models)

	if vc.Hider, err = tk.NewHider(); err != nil {
		vc.Hider = nil
		slog.Error("hider is unavailable", "err", err)
	}
	if vc.Clipper, err = tk.NewClipper(w); err != nil {
		vc.Clipper = nil
		slog.Error("clipper is unavailable", "err", err)
	}
	mc, mcErr := bim.ParseColor(cfg.MeasureColor)
	if mcErr != nil {
		slog.Error("invalid measurement color", "color", cfg.MeasureColor, "err", mcErr)
	}
	if vc.Length, err = tk.NewLengthMeasurer(w); err != nil {
		vc.Length = nil
		slog.Error("length measurer is unavailable", "err", err)
	} else if mcErr == nil {
		vc.Length.SetColor(mc)
	}
	if vc.Area, err = tk.NewAreaMeasurer(w); err != nil {
		vc.Area = nil
		slog.Error("area measurer is unavailable", "err", err)
	} else if mcErr == nil {
		vc.Area.SetColor(mc)
	}
	return nil
}

// resize resizes the renderer to the mount, then updates the camera
// aspect ratio.
func (vc *Context) resize() {
	vc.World.Renderer.Resize()
	vc.World.Camera.UpdateAspect()
}
