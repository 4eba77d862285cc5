// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"time"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/reflectx"
)

// Config contains the settings of a viewer. Use [DefaultConfig]
// to get a Config with all default values set.
type Config struct {

	// Name is the name of the world.
	Name string `default:"Main"`

	// Background is the scene background color.
	Background string `default:"#1a1d23"`

	// SettleDelay is how long to wait, in milliseconds, for the mount
	// layout to settle before creating the renderer, when the mount
	// cannot report it itself.
	SettleDelay int `default:"100" min:"0"`

	// FinalSettleDelay is how long to wait, in milliseconds, after the
	// toolkit initialization pass before the final resize.
	FinalSettleDelay int `default:"150" min:"0"`

	// Near is the camera near plane distance.
	Near float32 `default:"0.01"`

	// RestThreshold is the camera speed below which the camera counts as resting.
	RestThreshold float32 `default:"0.05"`

	// GridColor is the color of the grid lines.
	GridColor string `default:"#494b50"`

	// GridSize1 is the primary grid cell size.
	GridSize1 float32 `default:"2"`

	// GridSize2 is the secondary grid cell size.
	GridSize2 float32 `default:"8"`

	// PostStyle is the post effects style: Basic, Pen, PenShadows or ColorShadows.
	PostStyle string `default:"ColorShadows"`

	// EdgeColor is the color of the post effects edges.
	EdgeColor string `default:"#494b50"`

	// AO are the ambient occlusion parameters.
	AO bim.AOParams

	// Denoise are the ambient occlusion denoise parameters.
	Denoise bim.DenoiseParams

	// WorkerPath overrides the worker bundle path if set.
	WorkerPath string

	// WorkerDev is the worker bundle path of development builds.
	WorkerDev string `default:"/node_modules/@thatopen/fragments/dist/Worker/worker.mjs"`

	// WorkerProd is the worker bundle path of release builds.
	WorkerProd string `default:"/worker.mjs"`

	// SelectColor is the color of the live selection.
	SelectColor string `default:"#bcf124"`

	// MeasureColor is the color of length and area measurements.
	MeasureColor string `default:"#6528d7"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	c := &Config{}
	errors.Log(reflectx.SetFromDefaultTags(c))
	return c
}

// Worker returns the worker bundle path for this build.
func (c *Config) Worker() string {
	if c.WorkerPath != "" {
		return c.WorkerPath
	}
	if Release {
		return c.WorkerProd
	}
	return c.WorkerDev
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
