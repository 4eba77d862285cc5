// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bim

import (
	"fmt"
	"strings"
)

// Projections are the camera projection modes.
type Projections int32

const (
	// Perspective is a standard perspective projection.
	Perspective Projections = iota

	// Orthographic is a parallel projection, mostly used for plans and sections.
	Orthographic
)

var projectionNames = []string{"Perspective", "Orthographic"}

func (p Projections) String() string {
	return enumString(int(p), projectionNames)
}

// SetString sets the projection from its name (case insensitive).
func (p *Projections) SetString(s string) error {
	i, err := enumSetString(s, projectionNames, "Projections")
	if err == nil {
		*p = Projections(i)
	}
	return err
}

// RenderedFaces determines which faces of highlighted geometry are drawn.
type RenderedFaces int32

const (
	// OneFace renders front faces only.
	OneFace RenderedFaces = iota

	// TwoFaces renders both front and back faces.
	TwoFaces
)

var renderedFacesNames = []string{"OneFace", "TwoFaces"}

func (rf RenderedFaces) String() string {
	return enumString(int(rf), renderedFacesNames)
}

// PostStyles are the visual styles of the post-render effects pass.
type PostStyles int32

const (
	// Basic renders plain shaded colors.
	Basic PostStyles = iota

	// Pen renders only outlines, like a pen drawing.
	Pen

	// PenShadows renders outlines plus ambient occlusion shadows.
	PenShadows

	// ColorShadows renders colors with ambient occlusion and edge outlines.
	ColorShadows
)

var postStylesNames = []string{"Basic", "Pen", "PenShadows", "ColorShadows"}

func (ps PostStyles) String() string {
	return enumString(int(ps), postStylesNames)
}

// SetString sets the style from its name (case insensitive).
func (ps *PostStyles) SetString(s string) error {
	i, err := enumSetString(s, postStylesNames, "PostStyles")
	if err == nil {
		*ps = PostStyles(i)
	}
	return err
}

// ModelFormats are the model file formats understood by a [ModelManager].
type ModelFormats int32

const (
	// Fragments is the toolkit's native, pre-converted geometry format.
	Fragments ModelFormats = iota

	// IFC is an Industry Foundation Classes STEP file, converted on load.
	IFC
)

var modelFormatsNames = []string{"Fragments", "IFC"}

func (mf ModelFormats) String() string {
	return enumString(int(mf), modelFormatsNames)
}

// Extension returns the file name extension of the format, including the dot.
func (mf ModelFormats) Extension() string {
	if mf == IFC {
		return ".ifc"
	}
	return ".frag"
}

// FormatFromFilename returns the format implied by the extension of the
// given file name, and the model id derived from it (the base name
// without the extension).
func FormatFromFilename(filename string) (ModelFormats, string, error) {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	lower := strings.ToLower(base)
	for _, mf := range []ModelFormats{IFC, Fragments} {
		ext := mf.Extension()
		if strings.HasSuffix(lower, ext) && len(base) > len(ext) {
			return mf, base[:len(base)-len(ext)], nil
		}
	}
	return Fragments, "", fmt.Errorf("bim: unknown model file type: %q", filename)
}

func enumString(i int, names []string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%d", i)
	}
	return names[i]
}

func enumSetString(s string, names []string, typ string) (int, error) {
	for i, nm := range names {
		if strings.EqualFold(nm, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("bim.%s: %q is not a valid value", typ, s)
}
