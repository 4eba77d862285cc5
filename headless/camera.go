// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"context"
	"sync"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/math32"
)

// Camera is an orbit camera that looks from Pos at Target.
// It implements [bim.Camera] and [bim.Fitter].
type Camera struct {
	mount bim.Mount

	// mutex protecting camera data
	mu sync.RWMutex

	// position of the camera
	Pos math32.Vector3

	// target location for the camera, where it is pointing at
	Target math32.Vector3

	// up direction for camera, defaults to positive Y axis
	UpDir math32.Vector3

	// field of view in degrees
	FOV float32

	// aspect ratio (width/height)
	Aspect float32

	// near plane z coordinate
	Near float32

	// far plane z coordinate
	Far float32

	// speed below which the orbit controls count as resting
	RestThreshold float32

	projection        bim.Projections
	projectionChanged bim.Signal[bim.Projections]
	rest              bim.Signal[bim.CameraTransform]
}

// NewCamera returns a new camera with default parameters,
// taking its aspect ratio from the given mount.
func NewCamera(m bim.Mount) *Camera {
	cm := &Camera{mount: m}
	cm.Defaults()
	cm.UpdateAspect()
	return cm
}

// Defaults sets the default camera parameters and pose.
func (cm *Camera) Defaults() {
	cm.FOV = 60
	cm.Aspect = 1.5
	cm.Near = .1
	cm.Far = 1000
	cm.RestThreshold = 0.1
	cm.Pos = math32.Vec3(10, 10, 10)
	cm.Target = math32.Vector3{}
	cm.UpDir = math32.Vec3(0, 1, 0)
}

func (cm *Camera) Projection() bim.Projections {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.projection
}

func (cm *Camera) SetProjection(p bim.Projections) {
	cm.mu.Lock()
	if cm.projection == p {
		cm.mu.Unlock()
		return
	}
	cm.projection = p
	cm.mu.Unlock()
	cm.projectionChanged.Emit(p)
}

func (cm *Camera) OnProjectionChanged() *bim.Signal[bim.Projections] {
	return &cm.projectionChanged
}

func (cm *Camera) OnRest() *bim.Signal[bim.CameraTransform] {
	return &cm.rest
}

func (cm *Camera) SetNear(near float32) {
	cm.mu.Lock()
	cm.Near = near
	cm.mu.Unlock()
}

func (cm *Camera) SetRestThreshold(threshold float32) {
	cm.mu.Lock()
	cm.RestThreshold = threshold
	cm.mu.Unlock()
}

// UpdateAspect sets the aspect ratio from the mount size.
// Degenerate sizes are ignored.
func (cm *Camera) UpdateAspect() {
	sz := cm.mount.Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return
	}
	cm.mu.Lock()
	cm.Aspect = float32(sz.X) / float32(sz.Y)
	cm.mu.Unlock()
}

func (cm *Camera) Transform() bim.CameraTransform {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return bim.CameraTransform{Position: cm.Pos, Target: cm.Target, Up: cm.UpDir, Projection: cm.projection}
}

// SetTransform sets the pose and projection without emitting OnRest.
func (cm *Camera) SetTransform(tr bim.CameraTransform) {
	cm.mu.Lock()
	cm.Pos = tr.Position
	cm.Target = tr.Target
	if tr.Up.Length() == 0 {
		tr.Up = math32.Vec3(0, 1, 0)
	}
	cm.UpDir = tr.Up
	cm.mu.Unlock()
	cm.SetProjection(tr.Projection)
}

// Snapshot returns the current transform. There is no render thread,
// so it only fails if the context is done.
func (cm *Camera) Snapshot(ctx context.Context) (bim.CameraTransform, error) {
	if err := ctx.Err(); err != nil {
		return bim.CameraTransform{}, err
	}
	return cm.Transform(), nil
}

// Move moves the camera to the given transform as the orbit controls
// would, emitting OnRest once the motion has settled.
func (cm *Camera) Move(tr bim.CameraTransform) {
	cm.SetTransform(tr)
	cm.rest.Emit(cm.Transform())
}

// ViewVector is the vector between the camera position and target.
func (cm *Camera) ViewVector() math32.Vector3 {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.Pos.Sub(cm.Target)
}

// FitToBox frames the given box. Empty boxes are ignored.
func (cm *Camera) FitToBox(box math32.Box3) {
	if box.IsEmpty() {
		return
	}
	cm.FitToSphere(box.GetBoundingSphere())
}

// FitToSphere moves the camera along its current view direction so that
// the given sphere fills the field of view, then emits OnRest.
func (cm *Camera) FitToSphere(sphere math32.Sphere) {
	dir := cm.ViewVector()
	if dir.Length() == 0 {
		dir = math32.Vec3(1, 1, 1)
	}
	dir = dir.Normal()
	cm.mu.Lock()
	dist := sphere.Radius / math32.Sin(math32.DegToRad(cm.FOV*0.5))
	if dist < cm.Near {
		dist = cm.Near
	}
	cm.Target = sphere.Center
	cm.Pos = sphere.Center.Add(dir.MulScalar(dist))
	cm.mu.Unlock()
	cm.rest.Emit(cm.Transform())
}
