// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package distortion

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/optics"
)

// Viewport is an eye's rectangle in normalized framebuffer units: the
// output spans [0,1] in both directions with y pointing down.
type Viewport struct {
	X, Y, W, H float32
}

// EyeViewport returns the half of the framebuffer an eye is drawn to.
// EyeMono covers the whole framebuffer.
func EyeViewport(eye ovr.Eye) Viewport {
	switch eye {
	case ovr.EyeLeft:
		return Viewport{X: 0, Y: 0, W: 0.5, H: 1}
	case ovr.EyeRight:
		return Viewport{X: 0.5, Y: 0, W: 0.5, H: 1}
	default:
		return Viewport{X: 0, Y: 0, W: 1, H: 1}
	}
}

// Aspect returns W/H.
func (vp Viewport) Aspect() float32 { return vp.W / vp.H }

// Empty reports whether the viewport has no area.
func (vp Viewport) Empty() bool { return !(vp.W > 0) || !(vp.H > 0) }

// Pixels returns the viewport in pixels of a width x height framebuffer.
func (vp Viewport) Pixels(width, height int) (x0, y0, x1, y1 int) {
	fw, fh := float32(width), float32(height)
	x0 = int(vp.X*fw + 0.5)
	y0 = int(vp.Y*fh + 0.5)
	x1 = int((vp.X+vp.W)*fw + 0.5)
	y1 = int((vp.Y+vp.H)*fh + 0.5)
	return min(max(x0, 0), width), min(max(y0, 0), height), min(max(x1, 0), width), min(max(y1, 0), height)
}

// EyeCoord maps a framebuffer coordinate to the eye texture's [0,1]²
// space. ok is false when the coordinate falls outside the eye texture.
func (vp Viewport) EyeCoord(s mgl32.Vec2) (c mgl32.Vec2, ok bool) {
	c = mgl32.Vec2{(s[0] - vp.X) / vp.W, (s[1] - vp.Y) / vp.H}
	ok = c[0] >= 0 && c[0] <= 1 && c[1] >= 0 && c[1] <= 1
	return c, ok
}

// XCenterOffset is the horizontal lens center shift applied to an eye.
func XCenterOffset(eye ovr.Eye) float32 {
	return 0.25 * eye.Sign()
}

// Uniforms are the per-eye inputs of the barrel warp.
type Uniforms struct {
	LensCenter   mgl32.Vec2
	ScreenCenter mgl32.Vec2
	InputScale   mgl32.Vec2
	OutputScale  mgl32.Vec2

	// K are the radial distortion coefficients.
	K mgl32.Vec4

	// A are the chromatic aberration coefficients.
	A mgl32.Vec4
}

// ComputeUniforms derives the warp uniforms for eye drawn into vp.
// scale multiplies InputScale, so it also grows the radius the K and A
// polynomials see; values <= 0 mean 1.
func ComputeUniforms(eye ovr.Eye, p optics.DeviceOpticalProfile, vp Viewport, scale float32) Uniforms {
	if !(scale > 0) {
		scale = 1
	}
	dxc := XCenterOffset(eye)
	aspect := vp.Aspect()
	return Uniforms{
		LensCenter:   mgl32.Vec2{vp.X + (vp.W+dxc*0.5)*0.5, vp.Y + vp.H*0.5},
		ScreenCenter: mgl32.Vec2{vp.X + vp.W*0.5, vp.Y + vp.H*0.5},
		InputScale:   mgl32.Vec2{vp.W * scale * 0.5, vp.H * scale * aspect * 0.5},
		OutputScale:  mgl32.Vec2{2 / vp.W, (2 / vp.H) / aspect},
		K:            mgl32.Vec4(p.K),
		A:            mgl32.Vec4(p.A),
	}
}

// Warp returns the radially scaled offset of tex from the lens center and
// the squared radius it was scaled by.
func (u Uniforms) Warp(tex mgl32.Vec2) (warp mgl32.Vec2, r2 float32) {
	theta := mul2(tex.Sub(u.LensCenter), u.InputScale)
	r2 = theta.Dot(theta)
	k := u.K
	return theta.Mul(k[0] + r2*(k[1]+r2*(k[2]+r2*k[3]))), r2
}

// SampleCoord returns the framebuffer coordinate sampled for tex.
func (u Uniforms) SampleCoord(tex mgl32.Vec2) mgl32.Vec2 {
	warp, _ := u.Warp(tex)
	return u.ScreenCenter.Add(mul2(warp, u.OutputScale))
}

// ChannelCoords returns the coordinates sampled for the red, green and
// blue channels of tex. Red and blue scale the warp by A0 + A1·r2 and
// A2 + A3·r2; green uses the unscaled warp.
func (u Uniforms) ChannelCoords(tex mgl32.Vec2) [3]mgl32.Vec2 {
	warp, r2 := u.Warp(tex)
	a := u.A
	at := func(w mgl32.Vec2) mgl32.Vec2 {
		return u.ScreenCenter.Add(mul2(w, u.OutputScale))
	}
	return [3]mgl32.Vec2{
		at(warp.Mul(a[0] + a[1]*r2)),
		at(warp),
		at(warp.Mul(a[2] + a[3]*r2)),
	}
}

func mul2(a, b mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{a[0] * b[0], a[1] * b[1]}
}
