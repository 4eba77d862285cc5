// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command bimview runs a headless BIM viewer: it loads models, applies
// selections, colors and visibility actions, and captures viewpoints,
// or serves the viewer over HTTP.
package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/bimview/headless"
	"cogentcore.org/bimview/server"
	"cogentcore.org/bimview/viewer"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/fsx"
	"cogentcore.org/core/base/logx"
	"cogentcore.org/core/cli"
)

// Config is the configuration information for the bimview cli.
type Config struct {

	// Files are the model files to load (.frag or .ifc).
	Files []string `posarg:"leftover" required:"-"`

	// Width is the width of the viewport in pixels.
	Width int `default:"1280"`

	// Height is the height of the viewport in pixels.
	Height int `default:"720"`

	// Select are the elements to select, as model:id entries,
	// for example office:10.
	Select []string `cmd:"run" flag:"s,select"`

	// Color is a hex color to apply to the selected elements.
	Color string `cmd:"run" flag:"c,color"`

	// Isolate hides everything but the selected elements.
	Isolate bool `cmd:"run"`

	// Ghost turns on ghost mode.
	Ghost bool `cmd:"run"`

	// Projection is the camera projection: Perspective or Orthographic.
	Projection string `cmd:"run" default:"Perspective"`

	// Viewpoints is the viewpoint file to add a captured viewpoint to.
	// No viewpoint is captured if it is empty.
	Viewpoints string `cmd:"run" flag:"o,viewpoints"`

	// Addr is the address to serve on.
	Addr string `cmd:"serve" default:"localhost:8080"`

	// Watch is a directory to load new model files from while serving.
	Watch string `cmd:"serve" flag:"w,watch"`

	// Debug turns on debug logging.
	Debug bool

	// Viewer is the viewer configuration.
	Viewer viewer.Config
}

func main() { //types:skip
	opts := cli.DefaultOptions("bimview", "Bimview runs a headless BIM viewer.")
	opts.DefaultFiles = []string{"bimview.toml"}
	cli.Run(opts, &Config{}, Run, Serve)
}

// Run loads the given models, applies the requested actions and
// optionally captures a viewpoint.
func Run(c *Config) error { //cli:cmd -root
	ctx := context.Background()
	vc, err := open(ctx, c)
	if err != nil {
		return err
	}
	defer vc.Close()

	if len(c.Select) > 0 {
		sel, err := parseSelection(c.Select)
		if err != nil {
			return err
		}
		if err := vc.Select(ctx, sel, false); err != nil {
			return err
		}
	}
	if c.Isolate {
		if err := vc.Isolate(ctx); err != nil {
			return err
		}
	}
	if err := vc.Focus(ctx); err != nil {
		return err
	}
	if c.Color != "" {
		clr, err := bim.ParseColor(c.Color)
		if err != nil {
			return err
		}
		if err := vc.ApplyColor(ctx, clr); err != nil {
			return err
		}
	}
	if c.Ghost {
		if _, err := vc.ToggleGhost(); err != nil {
			return err
		}
	}
	var p bim.Projections
	if err := p.SetString(c.Projection); err != nil {
		return err
	}
	vc.SetProjection(p)

	if c.Viewpoints == "" {
		return nil
	}
	if errors.Log1(fsx.FileExists(c.Viewpoints)) {
		if err := vc.Viewpoints.Open(c.Viewpoints); err != nil {
			return err
		}
	}
	vp, err := vc.CaptureViewpoint(ctx)
	if err != nil {
		return err
	}
	slog.Info("captured viewpoint", "id", vp.ID, "name", vp.Name, "selected", len(vp.Selection), "colors", len(vp.Colors))
	return vc.Viewpoints.Save(c.Viewpoints)
}

// Serve loads the given models and serves the viewer over HTTP until interrupted.
func Serve(c *Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	vc, err := open(ctx, c)
	if err != nil {
		return err
	}
	defer vc.Close()

	s := server.New(vc)
	defer s.Close()
	if c.Watch != "" {
		w, err := server.Watch(vc, c.Watch, 500*time.Millisecond)
		if err != nil {
			return err
		}
		defer w.Close()
	}
	hs := &http.Server{Addr: c.Addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		errors.Log(hs.Shutdown(context.Background()))
	}()
	slog.Info("serving", "addr", c.Addr, "models", len(vc.Models.Models()))
	if err := hs.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// open brings up a headless viewer and loads the model files of the config.
func open(ctx context.Context, c *Config) (*viewer.Context, error) {
	if c.Debug {
		logx.UserLevel = slog.LevelDebug
	}
	m := headless.NewMount(image.Pt(c.Width, c.Height))
	vc, err := viewer.Init(ctx, m, headless.New(), &c.Viewer)
	if err != nil {
		return nil, err
	}
	for _, fn := range c.Files {
		b, err := os.ReadFile(fn)
		if err != nil {
			vc.Close()
			return nil, err
		}
		if _, err := vc.LoadModel(ctx, fn, b); err != nil {
			vc.Close()
			return nil, err
		}
	}
	return vc, nil
}

// parseSelection parses model:id entries into a selection. An entry
// may list several ids separated by commas, as in office:10,11.
func parseSelection(entries []string) (bim.Selection, error) {
	sel := bim.NewSelection()
	for _, e := range entries {
		model, ids, ok := strings.Cut(e, ":")
		if !ok || model == "" || ids == "" {
			return nil, fmt.Errorf("invalid selection %q: want model:id", e)
		}
		for _, s := range strings.Split(ids, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("invalid selection %q: %w", e, err)
			}
			sel.Add(model, id)
		}
	}
	return sel, nil
}
