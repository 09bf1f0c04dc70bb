// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package stereo computes per-eye projection and view matrices for a
// head-mounted display.
//
// Each eye gets an asymmetric frustum whose center sits on its lens, and a
// view translated by half the interpupillary distance. Without a headset
// both offsets are zero and the camera renders the same image to both
// eyes.
package stereo

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/distortion"
	"github.com/gogpu/ovr/optics"
)

// Default clip planes in meters.
const (
	DefaultZNear = 0.3
	DefaultZFar  = 1000
)

// Camera is a stereo camera driven by a head orientation.
type Camera struct {
	// Position is the camera position in world space.
	Position mgl32.Vec3

	// ZNear and ZFar are the clip planes used by EyeView.
	ZNear, ZFar float32

	profile optics.DeviceOpticalProfile
	base    mgl32.Quat
	head    mgl32.Quat
}

// NewCamera creates a camera at position looking along orientation.
func NewCamera(profile optics.DeviceOpticalProfile, position mgl32.Vec3, orientation mgl32.Quat) *Camera {
	return &Camera{
		Position: position,
		ZNear:    DefaultZNear,
		ZFar:     DefaultZFar,
		profile:  profile,
		base:     orientation,
		head:     mgl32.QuatIdent(),
	}
}

func (c *Camera) Profile() optics.DeviceOpticalProfile     { return c.profile }
func (c *Camera) SetProfile(p optics.DeviceOpticalProfile) { c.profile = p }

// BaseOrientation returns the orientation set by the application,
// independent of head tracking.
func (c *Camera) BaseOrientation() mgl32.Quat { return c.base }

// SetBaseOrientation sets the application-controlled orientation.
func (c *Camera) SetBaseOrientation(q mgl32.Quat) { c.base = q }

// SetHeadOrientation records the tracked (usually predicted) headset
// orientation.
func (c *Camera) SetHeadOrientation(q mgl32.Quat) { c.head = q }

// Orientation returns the view orientation: the base orientation composed
// with the inverse of the head orientation.
func (c *Camera) Orientation() mgl32.Quat {
	return c.base.Mul(c.head.Conjugate())
}

// FieldOfView returns the vertical field of view in radians.
func (c *Camera) FieldOfView() float32 { return c.profile.FieldOfView() }

// AspectRatio returns the aspect ratio of one eye.
func (c *Camera) AspectRatio() float32 { return c.profile.AspectRatio() }

// Projection returns the projection matrix of eye. The left eye's frustum
// is shifted right by the projection center offset and the right eye's
// left; EyeMono gets the unshifted frustum.
func (c *Camera) Projection(eye ovr.Eye, near, far float32) mgl32.Mat4 {
	p := mgl32.Perspective(c.FieldOfView(), c.AspectRatio(), near, far)
	offset := eye.Sign() * c.profile.ProjectionCenterOffset()
	if offset == 0 {
		return p
	}
	return mgl32.Translate3D(offset, 0, 0).Mul4(p)
}

// HeadView returns the view matrix of the point between the eyes.
func (c *Camera) HeadView() mgl32.Mat4 {
	return c.Orientation().Mat4().Mul4(mgl32.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2]))
}

// View returns the view matrix of eye.
func (c *Camera) View(eye ovr.Eye) mgl32.Mat4 {
	head := c.HeadView()
	t := eye.Sign() * c.profile.EyeTranslation()
	if t == 0 {
		return head
	}
	return mgl32.Translate3D(t, 0, 0).Mul4(head)
}

// EyeView is everything needed to render and distort one eye.
type EyeView struct {
	Eye        ovr.Eye
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Viewport   distortion.Viewport
	Uniforms   distortion.Uniforms
}

// EyeView computes eye's matrices with the camera's clip planes and the
// distortion uniforms for viewport vp. scale is the distortion scale.
func (c *Camera) EyeView(eye ovr.Eye, vp distortion.Viewport, scale float32) EyeView {
	return EyeView{
		Eye:        eye,
		Projection: c.Projection(eye, c.ZNear, c.ZFar),
		View:       c.View(eye),
		Viewport:   vp,
		Uniforms:   distortion.ComputeUniforms(eye, c.profile, vp, scale),
	}
}
