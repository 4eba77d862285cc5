// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bim

import (
	"image/color"

	"cogentcore.org/core/colors"
)

// ColorName returns the canonical string form of the given color: #RRGGBB
// for opaque colors and #RRGGBBAA otherwise, in upper case. It is
// used both as the name of user-created highlight styles and as the key
// of viewpoint color groups, so it must stay stable across versions.
func ColorName(c color.RGBA) string {
	return colors.AsHex(c)
}

// ParseColor parses a hex color string such as "#ff0000".
func ParseColor(s string) (color.RGBA, error) {
	return colors.FromHex(s)
}
