// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package distortion

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/optics"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

var viewports = []Viewport{
	EyeViewport(ovr.EyeLeft),
	EyeViewport(ovr.EyeRight),
	EyeViewport(ovr.EyeMono),
	{X: 0.1, Y: 0.2, W: 0.3, H: 0.6},
}

func TestEyeViewport(t *testing.T) {
	tests := []struct {
		eye  ovr.Eye
		want Viewport
	}{
		{ovr.EyeLeft, Viewport{0, 0, 0.5, 1}},
		{ovr.EyeRight, Viewport{0.5, 0, 0.5, 1}},
		{ovr.EyeMono, Viewport{0, 0, 1, 1}},
	}
	for _, tt := range tests {
		if got := EyeViewport(tt.eye); got != tt.want {
			t.Errorf("EyeViewport(%v) = %v, want %v", tt.eye, got, tt.want)
		}
	}
}

func TestXCenterOffset(t *testing.T) {
	for eye, want := range map[ovr.Eye]float32{ovr.EyeLeft: 0.25, ovr.EyeRight: -0.25, ovr.EyeMono: 0} {
		if got := XCenterOffset(eye); got != want {
			t.Errorf("XCenterOffset(%v) = %v, want %v", eye, got, want)
		}
	}
}

func TestLensCenterDiffersOnlyByXCenterOffset(t *testing.T) {
	p := optics.Fallback()
	for _, vp := range viewports {
		mono := ComputeUniforms(ovr.EyeMono, p, vp, 1)
		for _, eye := range ovr.Eyes {
			u := ComputeUniforms(eye, p, vp, 1)
			if u.ScreenCenter != mono.ScreenCenter {
				t.Errorf("%v %v: ScreenCenter = %v, want %v independent of eye", eye, vp, u.ScreenCenter, mono.ScreenCenter)
			}
			got := u.LensCenter.Sub(u.ScreenCenter)
			want := mgl32.Vec2{XCenterOffset(eye) * 0.25, 0}
			if diff := cmp.Diff(want, got, approx); diff != "" {
				t.Errorf("%v %v: LensCenter-ScreenCenter mismatch (-want +got):\n%s", eye, vp, diff)
			}
		}
	}
}

func TestWarpIsZeroAtLensCenter(t *testing.T) {
	p := optics.Fallback()
	for _, vp := range viewports {
		for _, eye := range []ovr.Eye{ovr.EyeLeft, ovr.EyeRight, ovr.EyeMono} {
			u := ComputeUniforms(eye, p, vp, 1)
			if got := u.SampleCoord(u.LensCenter); got != u.ScreenCenter {
				t.Errorf("%v %v: SampleCoord(LensCenter) = %v, want %v", eye, vp, got, u.ScreenCenter)
			}
			for _, c := range u.ChannelCoords(u.LensCenter) {
				if c != u.ScreenCenter {
					t.Errorf("%v %v: ChannelCoords(LensCenter) = %v, want %v", eye, vp, c, u.ScreenCenter)
				}
			}
		}
	}
}

func TestIdentityCoefficientsRemapAffinely(t *testing.T) {
	p := optics.Fallback()
	p.K = [4]float32{1, 0, 0, 0}
	for _, vp := range viewports {
		u := ComputeUniforms(ovr.EyeLeft, p, vp, 1)
		prod := mul2(u.InputScale, u.OutputScale)
		if diff := cmp.Diff(mgl32.Vec2{1, 1}, prod, approx); diff != "" {
			t.Fatalf("%v: InputScale*OutputScale (-want +got):\n%s", vp, diff)
		}
		for _, tex := range []mgl32.Vec2{{0, 0}, {0.3, 0.7}, {1, 1}, {vp.X + vp.W, vp.Y}} {
			want := u.ScreenCenter.Add(tex.Sub(u.LensCenter))
			if diff := cmp.Diff(want, u.SampleCoord(tex), approx); diff != "" {
				t.Errorf("%v: SampleCoord(%v) (-want +got):\n%s", vp, tex, diff)
			}
		}
	}
}

func TestBarrelWarpIsMonotonic(t *testing.T) {
	u := ComputeUniforms(ovr.EyeRight, optics.Fallback(), EyeViewport(ovr.EyeRight), 1)
	for _, dir := range []mgl32.Vec2{{1, 0}, {0, 1}, {-0.6, 0.8}} {
		prev := float32(-1)
		for step := 1; step <= 50; step++ {
			tex := u.LensCenter.Add(dir.Mul(float32(step) * 0.02))
			warp, _ := u.Warp(tex)
			l := warp.Len()
			if !(l > prev) {
				t.Fatalf("dir %v step %d: |warp| = %v, not greater than %v", dir, step, l, prev)
			}
			prev = l
		}
	}
}

func TestBarrelWarpExceedsLinear(t *testing.T) {
	linear := optics.Fallback()
	linear.K = [4]float32{1, 0, 0, 0}
	barrel := optics.Fallback()
	vp := EyeViewport(ovr.EyeMono)
	ul := ComputeUniforms(ovr.EyeMono, linear, vp, 1)
	ub := ComputeUniforms(ovr.EyeMono, barrel, vp, 1)
	tex := mgl32.Vec2{0.9, 0.5}
	wl, _ := ul.Warp(tex)
	wb, _ := ub.Warp(tex)
	if !(wb.Len() > wl.Len()) {
		t.Errorf("barrel |warp| = %v, want > linear %v", wb.Len(), wl.Len())
	}
}

func TestChannelCoords(t *testing.T) {
	p := optics.Fallback()
	p.A = [4]float32{1, 0, 1, 0}
	u := ComputeUniforms(ovr.EyeLeft, p, EyeViewport(ovr.EyeLeft), 1)
	tex := mgl32.Vec2{0.05, 0.1}
	cc := u.ChannelCoords(tex)
	want := u.SampleCoord(tex)
	for i, c := range cc {
		if diff := cmp.Diff(want, c, approx); diff != "" {
			t.Errorf("channel %d with unit A (-want +got):\n%s", i, diff)
		}
	}

	// Fallback A pulls red in and pushes blue out.
	u = ComputeUniforms(ovr.EyeLeft, optics.Fallback(), EyeViewport(ovr.EyeLeft), 1)
	cc = u.ChannelCoords(tex)
	dist := func(c mgl32.Vec2) float32 { return c.Sub(u.ScreenCenter).Len() }
	if !(dist(cc[0]) < dist(cc[1]) && dist(cc[1]) < dist(cc[2])) {
		t.Errorf("channel distances r=%v g=%v b=%v, want r < g < b", dist(cc[0]), dist(cc[1]), dist(cc[2]))
	}
}

func TestScaleMultipliesInputScale(t *testing.T) {
	p := optics.Fallback()
	vp := EyeViewport(ovr.EyeRight)
	u1 := ComputeUniforms(ovr.EyeRight, p, vp, 1)
	u2 := ComputeUniforms(ovr.EyeRight, p, vp, 2)
	if diff := cmp.Diff(u1.InputScale.Mul(2), u2.InputScale, approx); diff != "" {
		t.Errorf("InputScale at scale 2 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(u1.OutputScale, u2.OutputScale, approx); diff != "" {
		t.Errorf("OutputScale at scale 2 (-want +got):\n%s", diff)
	}

	// The radius grows with the scale, so a barrel warp more than doubles.
	tex := u1.LensCenter.Add(mgl32.Vec2{0.1, 0.1})
	w1, r1 := u1.Warp(tex)
	w2, r2 := u2.Warp(tex)
	if diff := cmp.Diff(r1*4, r2, approx); diff != "" {
		t.Errorf("r2 at scale 2 (-want +got):\n%s", diff)
	}
	if !(w2.Len() > 2*w1.Len()) {
		t.Errorf("|warp| at scale 2 = %v, want more than %v", w2.Len(), 2*w1.Len())
	}

	if u0 := ComputeUniforms(ovr.EyeRight, p, vp, 0); u0 != u1 {
		t.Errorf("ComputeUniforms(scale 0) = %v, want scale 1 result %v", u0, u1)
	}
}

func TestEyeCoord(t *testing.T) {
	vp := EyeViewport(ovr.EyeRight)
	tests := []struct {
		s    mgl32.Vec2
		want mgl32.Vec2
		ok   bool
	}{
		{mgl32.Vec2{0.5, 0}, mgl32.Vec2{0, 0}, true},
		{mgl32.Vec2{0.75, 0.5}, mgl32.Vec2{0.5, 0.5}, true},
		{mgl32.Vec2{1, 1}, mgl32.Vec2{1, 1}, true},
		{mgl32.Vec2{0.25, 0.5}, mgl32.Vec2{-0.5, 0.5}, false},
		{mgl32.Vec2{0.75, 1.5}, mgl32.Vec2{0.5, 1.5}, false},
	}
	for _, tt := range tests {
		got, ok := vp.EyeCoord(tt.s)
		if ok != tt.ok || cmp.Diff(tt.want, got, approx) != "" {
			t.Errorf("EyeCoord(%v) = %v, %v, want %v, %v", tt.s, got, ok, tt.want, tt.ok)
		}
	}
}

func TestViewportPixels(t *testing.T) {
	x0, y0, x1, y1 := EyeViewport(ovr.EyeRight).Pixels(1280, 800)
	if x0 != 640 || y0 != 0 || x1 != 1280 || y1 != 800 {
		t.Errorf("Pixels() = %d,%d,%d,%d, want 640,0,1280,800", x0, y0, x1, y1)
	}
}
