// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/colors"
	"cogentcore.org/core/math32"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Manifest is the headless fragments format: a YAML description of
// the materials and elements of a model, with element bounding boxes
// standing in for geometry.
type Manifest struct {
	Materials []ManifestMaterial `yaml:"materials"`
	Elements  []ManifestElement  `yaml:"elements"`
}

// ManifestMaterial is a material entry of a [Manifest].
type ManifestMaterial struct {
	Name        string   `yaml:"name"`
	Color       string   `yaml:"color"`
	Opacity     *float32 `yaml:"opacity,omitempty"`
	Transparent bool     `yaml:"transparent,omitempty"`
	LOD         bool     `yaml:"lod,omitempty"`
	Custom      bool     `yaml:"custom,omitempty"`
}

// ManifestElement is an element entry of a [Manifest].
type ManifestElement struct {
	ID       int       `yaml:"id"`
	GUID     string    `yaml:"guid,omitempty"`
	Category string    `yaml:"category,omitempty"`
	Material string    `yaml:"material,omitempty"`
	Min      []float32 `yaml:"min,flow,omitempty"`
	Max      []float32 `yaml:"max,flow,omitempty"`
}

// decoded is the result of decoding model data on the worker.
type decoded struct {
	elements  []*Element
	materials []*Material
}

// ElementGUID returns the durable GUID given to an element that has none:
// a name-based UUID of the model id and local id, so that it is the
// same on every load of the same model.
func ElementGUID(modelID string, id int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("bim:"+modelID+"/"+strconv.Itoa(id))).String()
}

func decode(data []byte, opts bim.LoadOptions) (*decoded, error) {
	switch opts.Format {
	case bim.IFC:
		return decodeIFC(data, opts.ModelID)
	default:
		return decodeManifest(data, opts.ModelID)
	}
}

func decodeManifest(data []byte, modelID string) (*decoded, error) {
	var mf Manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("fragments: %w", err)
	}
	dc := &decoded{}
	names := map[string]bool{}
	for _, mm := range mf.Materials {
		c, err := colors.FromHex(mm.Color)
		if err != nil {
			return nil, fmt.Errorf("fragments: material %q: %w", mm.Name, err)
		}
		mt := NewMaterial(mm.Name, c).SetLOD(mm.LOD).SetCustom(mm.Custom)
		if mm.Opacity != nil {
			mt.SetOpacity(*mm.Opacity)
		}
		mt.SetTransparent(mm.Transparent)
		names[mm.Name] = true
		dc.materials = append(dc.materials, mt)
	}
	seen := map[int]bool{}
	for _, me := range mf.Elements {
		if seen[me.ID] {
			return nil, fmt.Errorf("fragments: duplicate element id %d", me.ID)
		}
		seen[me.ID] = true
		if me.Material != "" && !names[me.Material] {
			return nil, fmt.Errorf("fragments: element %d: unknown material %q", me.ID, me.Material)
		}
		el := &Element{ID: me.ID, GUID: me.GUID, Category: me.Category, Material: me.Material, Bounds: math32.B3Empty()}
		if el.GUID == "" {
			el.GUID = ElementGUID(modelID, me.ID)
		}
		if len(me.Min) == 3 && len(me.Max) == 3 {
			el.Bounds.ExpandByPoint(math32.Vec3(me.Min[0], me.Min[1], me.Min[2]))
			el.Bounds.ExpandByPoint(math32.Vec3(me.Max[0], me.Max[1], me.Max[2]))
		}
		dc.elements = append(dc.elements, el)
	}
	return dc, nil
}

// ifcEntity matches STEP entity instances whose first attribute is an
// IFC GlobalId, which are exactly the rooted, addressable entities.
var ifcEntity = regexp.MustCompile(`(?m)^\s*#(\d+)\s*=\s*(IFC[A-Z0-9_]+)\s*\(\s*'([0-9A-Za-z_$]{22})'`)

// decodeIFC extracts the rooted entities of an IFC STEP file as
// elements. Geometry is not converted, so the elements have no bounds.
func decodeIFC(data []byte, modelID string) (*decoded, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("ISO-10303-21")) {
		return nil, fmt.Errorf("ifc: %s: not a STEP file", modelID)
	}
	dc := &decoded{materials: []*Material{NewMaterial("default", colors.FromRGB(200, 200, 200))}}
	for _, m := range ifcEntity.FindAllSubmatch(data, -1) {
		id, err := strconv.Atoi(string(m[1]))
		if err != nil {
			return nil, fmt.Errorf("ifc: %s: %w", modelID, err)
		}
		dc.elements = append(dc.elements, &Element{ID: id, GUID: string(m[3]), Category: string(m[2]), Material: "default", Bounds: math32.B3Empty()})
	}
	return dc, nil
}
