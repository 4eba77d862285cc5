// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bim

import (
	"context"
	"image"
	"image/color"

	"cogentcore.org/core/events/key"
	"cogentcore.org/core/math32"
)

// Mount is the drawable surface that a viewer renders into,
// such as a canvas element on the web.
type Mount interface {

	// Size returns the current size of the surface in pixels.
	Size() image.Point

	// OnResize is emitted with the new size whenever the surface is resized.
	OnResize() *Signal[image.Point]

	// OnKey is emitted for every key press while the surface has focus.
	OnKey() *Signal[key.Codes]

	// OnDoubleClick is emitted with the pointer position on a double click.
	OnDoubleClick() *Signal[image.Point]
}

// ReadyNotifier is an optional [Mount] capability for hosts that know
// when the surface layout is stable. Without it, a viewer waits for
// a short settle delay instead.
type ReadyNotifier interface {

	// Ready returns a channel that is closed once the layout is stable.
	Ready() <-chan struct{}
}

// Object is a node that can be added to a [Scene].
type Object interface {
	ObjectName() string
}

// Scene is the scene graph root of a [World].
type Scene interface {
	SetBackground(c color.RGBA)
	Add(obj Object)
	Remove(obj Object)
}

// Camera is the camera of a [World], with orbit controls that emit
// [Camera.OnRest] when the camera motion settles.
type Camera interface {
	Projection() Projections

	// SetProjection switches the projection, emitting OnProjectionChanged
	// if it actually changed.
	SetProjection(p Projections)
	OnProjectionChanged() *Signal[Projections]

	// OnRest is emitted with the final transform when camera motion settles.
	OnRest() *Signal[CameraTransform]

	// SetNear sets the near clipping plane distance.
	SetNear(near float32)

	// SetRestThreshold sets the speed below which the controls are at rest.
	SetRestThreshold(threshold float32)

	// UpdateAspect recomputes the aspect ratio from the rendering surface.
	UpdateAspect()

	// Transform returns the current transform.
	Transform() CameraTransform

	// SetTransform moves the camera to the given transform.
	SetTransform(tr CameraTransform)

	// Snapshot returns the current transform as rendered, which can
	// require a round trip to the render thread.
	Snapshot(ctx context.Context) (CameraTransform, error)
}

// Fitter is an optional [Camera] capability for cameras that can frame
// a region of the world.
type Fitter interface {
	FitToBox(box math32.Box3)
	FitToSphere(sphere math32.Sphere)
}

// CameraTransform is the saved pose of a camera.
type CameraTransform struct {
	Position   math32.Vector3
	Target     math32.Vector3
	Up         math32.Vector3
	Projection Projections
}

// Renderer draws a [World] into its [Mount].
type Renderer interface {

	// Resize resizes the drawing buffers to the current mount size.
	Resize()

	// Size returns the current drawing buffer size.
	Size() image.Point
	PostEffects() PostEffects

	// ClippingPlanes returns the clipping planes currently applied.
	ClippingPlanes() []ClipPlane
}

// PostEffects controls the post-render pass (ambient occlusion, edges).
type PostEffects interface {
	SetEnabled(on bool)
	Enabled() bool
	SetStyle(st PostStyles)
	SetEdgeColor(c color.RGBA)
	SetAO(params AOParams)
	SetDenoise(params DenoiseParams)

	// IsolateMaterial excludes the given material from the base pass,
	// which level-of-detail materials require.
	IsolateMaterial(mat Material)

	// UpdateCamera recomputes the pass for the current camera projection.
	UpdateCamera()
}

// AOParams are the ambient occlusion parameters of [PostEffects].
type AOParams struct {
	Radius            float32 `default:"0.25"`
	DistanceExponent  float32 `default:"1"`
	Thickness         float32 `default:"1"`
	Scale             float32 `default:"1"`
	Samples           int     `default:"16"`
	DistanceFallOff   float32 `default:"1"`
	ScreenSpaceRadius bool    `default:"true"`
}

// DenoiseParams are the ambient occlusion denoise parameters of [PostEffects].
type DenoiseParams struct {
	LumaPhi        float32 `default:"10"`
	DepthPhi       float32 `default:"2"`
	NormalPhi      float32 `default:"3"`
	Radius         float32 `default:"4"`
	RadiusExponent float32 `default:"1"`
	Rings          int     `default:"2"`
	Samples        int     `default:"16"`
}

// Grid is a ground reference grid attached to a [World].
type Grid interface {
	SetVisible(visible bool)
	Visible() bool
	SetColor(c color.RGBA)
	SetSizes(primary, secondary float32)
}

// ClipPlane is a clipping plane: points p with Normal·p + Constant < 0 are cut.
type ClipPlane struct {
	Normal   math32.Vector3
	Constant float32
}

// Model is a loaded building model, owned by a [ModelManager].
type Model interface {

	// ID returns the caller-chosen model id.
	ID() string

	// Object returns the render object to add to the scene.
	Object() Object

	// UseCamera binds the camera used for culling and level of detail.
	UseCamera(cam Camera)

	// SetClippingPlanes sets the function that returns the clipping
	// planes the model must honor.
	SetClippingPlanes(planes func() []ClipPlane)
}

// Material is a live material of the loaded models. Implementations
// must be pointer types, since materials are keyed by identity.
type Material interface {

	// BaseColor returns the main color, or the level-of-detail color
	// for level-of-detail materials.
	BaseColor() color.RGBA
	SetBaseColor(c color.RGBA)
	Transparent() bool
	SetTransparent(transparent bool)
	Opacity() float32
	SetOpacity(opacity float32)

	// IsCustom returns whether the material was created by the user,
	// in which case global overrides must leave it alone.
	IsCustom() bool

	// IsLOD returns whether this is a level-of-detail material.
	IsLOD() bool

	// SetNeedsUpdate flags the material for upload to the GPU.
	SetNeedsUpdate()
}

// MaterialList is the list of all live materials.
type MaterialList interface {
	Values() []Material

	// OnItemSet is emitted for every material added to the list.
	OnItemSet() *Signal[Material]
}

// LoadOptions are the options of [ModelManager.Load].
type LoadOptions struct {

	// ModelID is the id of the new model, normally derived from the file name.
	ModelID string

	// Format is the format of the data.
	Format ModelFormats
}

// WorkerError is an error event reported by the geometry worker.
type WorkerError struct {
	Message  string
	Filename string
	Line     int
}

// Worker is the separate execution context that decodes geometry.
type Worker interface {

	// OnError is emitted for every error event of the worker.
	OnError() *Signal[WorkerError]
}

// ModelManager loads models through a worker and owns them.
type ModelManager interface {

	// Init starts the worker from the bundle at the given path.
	Init(ctx context.Context, workerPath string) error

	// Ready returns whether Init succeeded and models can be loaded.
	Ready() bool

	// Worker returns the worker, or nil if Init has not succeeded.
	Worker() Worker

	// Load decodes the given data on the worker and adds the model.
	Load(ctx context.Context, data []byte, opts LoadOptions) (Model, error)

	// Models returns the loaded models in load order.
	Models() []Model

	// OnModelAdded is emitted for every model added.
	OnModelAdded() *Signal[Model]

	// Materials returns the live material list, which is empty until a
	// model is loaded. It fails only if the toolkit has no material list.
	Materials() (MaterialList, error)

	// GUIDs translates a session selection into durable element GUIDs.
	GUIDs(ctx context.Context, sel Selection) ([]string, error)

	// SelectionFromGUIDs translates durable GUIDs into a session selection,
	// ignoring GUIDs that are not loaded.
	SelectionFromGUIDs(ctx context.Context, guids []string) (Selection, error)

	// Bounds returns the bounding box of the given elements, or of every
	// visible element if the selection is empty.
	Bounds(ctx context.Context, sel Selection) (math32.Box3, error)

	// Update schedules a recompute of the visible geometry sets; force
	// skips the coalescing delay. It does not block.
	Update(force bool)

	// Close stops the worker.
	Close() error
}

// SelectStyle is the reserved name of the live selection style.
const SelectStyle = "select"

// Style is a named highlight style.
type Style struct {
	Name        string
	Color       color.RGBA
	Opacity     float32
	Faces       RenderedFaces
	Transparent bool
}

// Highlighter applies highlight styles to sets of elements.
type Highlighter interface {

	// Styles returns all styles in creation order.
	Styles() []Style

	// Style returns the style with the given name.
	Style(name string) (Style, bool)

	// SetStyle adds or replaces the style with the name of the given style.
	SetStyle(st Style)

	// Selection returns a copy of the elements in the given style.
	Selection(name string) Selection

	// HighlightByID highlights the given elements with the given style.
	// If additive is false, the previous elements of the style are
	// replaced; if exclusive is true, the elements are removed from
	// every other style.
	HighlightByID(ctx context.Context, name string, sel Selection, additive, exclusive bool) error

	// Clear removes all elements from the given style.
	Clear(ctx context.Context, name string) error

	// OnHighlight is emitted with the style name after elements were highlighted.
	OnHighlight() *Signal[string]

	// OnClear is emitted with the style name after a style was cleared.
	OnClear() *Signal[string]
}

// Hider controls element visibility.
type Hider interface {

	// Set sets the visibility of the given elements, or of every element
	// if sel is nil.
	Set(ctx context.Context, visible bool, sel Selection) error

	// Isolate hides everything except the given elements.
	Isolate(ctx context.Context, sel Selection) error
}

// Clipper creates clipping planes in a world.
type Clipper interface {
	Enabled() bool
	SetEnabled(on bool)

	// Create creates a clipping plane at the current pointer location.
	Create(w *World) error

	// Delete deletes the most recently created clipping plane.
	Delete(w *World) error
	OnItemAdded() *Signal[ClipPlane]
}

// Line is a length measurement.
type Line struct {
	Start, End math32.Vector3
}

// Center returns the midpoint of the line.
func (ln Line) Center() math32.Vector3 {
	return ln.Start.Add(ln.End).MulScalar(0.5)
}

// Distance returns the length of the line.
func (ln Line) Distance() float32 {
	return ln.Start.DistanceTo(ln.End)
}

// Area is an area measurement.
type Area struct {
	Points []math32.Vector3

	// Bounds is the bounding box of the points; empty if unknown.
	Bounds math32.Box3
}

// LengthMeasurer creates length measurements.
type LengthMeasurer interface {
	SetColor(c color.RGBA)
	Create(w *World) error
	Delete(w *World) error
	OnItemAdded() *Signal[Line]
}

// AreaMeasurer creates area measurements.
type AreaMeasurer interface {
	SetColor(c color.RGBA)
	Create(w *World) error
	Delete(w *World) error

	// EndCreation finalizes the area measurement in progress.
	EndCreation() error
	OnItemAdded() *Signal[Area]
}

// Toolkit constructs the subsystems of a viewer. The methods are
// listed in the order in which a viewer calls them.
type Toolkit interface {
	NewScene() (Scene, error)
	NewRenderer(m Mount) (Renderer, error)
	NewCamera(m Mount) (Camera, error)
	NewGrid(w *World) (Grid, error)

	// Init runs the cross-subsystem initialization pass.
	Init() error

	// ModelManager returns the model manager, which is not usable
	// until its Init succeeds.
	ModelManager() ModelManager
	NewHighlighter(w *World, selectStyle Style) (Highlighter, error)
	NewHider() (Hider, error)
	NewClipper(w *World) (Clipper, error)
	NewLengthMeasurer(w *World) (LengthMeasurer, error)
	NewAreaMeasurer(w *World) (AreaMeasurer, error)
}
