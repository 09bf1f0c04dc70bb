// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package distortion

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/optics"
	"github.com/gogpu/ovr/target"
)

var border = color.RGBA{R: 10, G: 20, B: 30, A: 255}

type gpuOnlyTexture struct{}

func (gpuOnlyTexture) Width() int                     { return 4 }
func (gpuOnlyTexture) Height() int                    { return 4 }
func (gpuOnlyTexture) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

func gradient(w, h int) *target.Canvas {
	c := target.NewCanvas(w, h)
	img := c.Image()
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / (w - 1)), G: uint8(y * 255 / (h - 1)), B: 128, A: 255})
		}
	}
	return c
}

func newPass(t *testing.T, w, h int, opts Options) *Software {
	t.Helper()
	s, err := NewSoftware(w, h, opts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func drawFrame(t *testing.T, s *Software, eyes map[ovr.Eye]target.Texture, p optics.DeviceOpticalProfile) *image.RGBA {
	t.Helper()
	if err := s.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	for eye, tex := range eyes {
		s.SetEyeUniforms(eye, p, EyeViewport(eye))
		if err := s.Draw(tex); err != nil {
			t.Fatalf("Draw(%v) = %v", eye, err)
		}
	}
	img, err := s.EndFrame()
	if err != nil {
		t.Fatal(err)
	}
	return img.(*image.RGBA)
}

func TestSoftwareIdentityMono(t *testing.T) {
	p := optics.Fallback()
	p.K = [4]float32{1, 0, 0, 0}
	src := gradient(8, 8)
	s := newPass(t, 8, 8, Options{Border: border})
	out := drawFrame(t, s, map[ovr.Eye]target.Texture{ovr.EyeMono: src}, p)
	for y := range 8 {
		for x := range 8 {
			if got, want := out.RGBAAt(x, y), src.At(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSoftwareBorderOutsideEyeTexture(t *testing.T) {
	white := target.NewCanvas(16, 16)
	white.Clear(color.RGBA{255, 255, 255, 255})
	s := newPass(t, 32, 16, Options{Border: border})
	out := drawFrame(t, s, map[ovr.Eye]target.Texture{ovr.EyeLeft: white, ovr.EyeRight: white}, optics.Fallback())

	// The left lens sits right of its viewport center, so the warp
	// samples past the left edge of the left eye texture.
	if got := out.RGBAAt(0, 8); got != border {
		t.Errorf("left edge = %v, want border %v", got, border)
	}
	if got := out.RGBAAt(31, 8); got != border {
		t.Errorf("right edge = %v, want border %v", got, border)
	}
	for _, x := range []int{8, 24} {
		if got := out.RGBAAt(x, 8); got != (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("eye center x=%d = %v, want white", x, got)
		}
	}
}

func TestSoftwareChromatic(t *testing.T) {
	white := target.NewCanvas(16, 16)
	white.Clear(color.RGBA{255, 255, 255, 255})
	s := newPass(t, 1024, 16, Options{Chromatic: true, Border: color.RGBA{A: 255}})
	out := drawFrame(t, s, map[ovr.Eye]target.Texture{ovr.EyeLeft: white}, optics.Fallback())
	if got := out.RGBAAt(256, 8); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("center = %v, want white", got)
	}

	// Blue is warped furthest, so it leaves the texture first.
	var fringe bool
	for x := range 512 {
		c := out.RGBAAt(x, 8)
		if c.B == 0 && c.G == 255 {
			fringe = true
			break
		}
	}
	if !fringe {
		t.Error("no pixel with green inside and blue outside the eye texture")
	}
}

func TestSoftwareRightEyeLeavesLeftHalf(t *testing.T) {
	white := target.NewCanvas(16, 16)
	white.Clear(color.RGBA{255, 255, 255, 255})
	s := newPass(t, 32, 16, Options{Border: border})
	out := drawFrame(t, s, map[ovr.Eye]target.Texture{ovr.EyeRight: white}, optics.Fallback())
	if got := out.RGBAAt(8, 8); got != border {
		t.Errorf("left half = %v, want untouched border %v", got, border)
	}
}

func TestSoftwareErrors(t *testing.T) {
	tex := target.NewCanvas(4, 4)
	s := newPass(t, 8, 8, Options{})

	if err := s.Draw(tex); !errors.Is(err, ErrFrameOrder) {
		t.Errorf("Draw() before BeginFrame = %v, want ErrFrameOrder", err)
	}
	if _, err := s.EndFrame(); !errors.Is(err, ErrFrameOrder) {
		t.Errorf("EndFrame() before BeginFrame = %v, want ErrFrameOrder", err)
	}
	if err := s.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(tex); !errors.Is(err, ErrNoUniforms) {
		t.Errorf("Draw() before SetEyeUniforms = %v, want ErrNoUniforms", err)
	}
	s.SetEyeUniforms(ovr.EyeLeft, optics.Fallback(), EyeViewport(ovr.EyeLeft))
	if err := s.Draw(gpuOnlyTexture{}); !errors.Is(err, target.ErrCapability) {
		t.Errorf("Draw(gpu texture) = %v, want ErrCapability", err)
	}
	if err := s.Destroy(); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(tex); !errors.Is(err, target.ErrDestroyed) {
		t.Errorf("Draw() after Destroy = %v, want ErrDestroyed", err)
	}
	if err := s.Destroy(); !errors.Is(err, target.ErrDestroyed) {
		t.Errorf("second Destroy() = %v, want ErrDestroyed", err)
	}
}

func TestNewSoftwareRejectsEmptyOutput(t *testing.T) {
	if _, err := NewSoftware(0, 8, Options{}); !errors.Is(err, target.ErrIncompleteTarget) {
		t.Errorf("NewSoftware(0, 8) = %v, want ErrIncompleteTarget", err)
	}
}

func TestBilinear(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 200, A: 255})
	tests := []struct {
		u    float32
		want uint8
	}{
		{0, 0},
		{0.25, 0},
		{0.5, 100},
		{0.75, 200},
		{1, 200},
	}
	for _, tt := range tests {
		if got := bilinear(img, tt.u, 0.5); got.R != tt.want {
			t.Errorf("bilinear(u=%v).R = %d, want %d", tt.u, got.R, tt.want)
		}
	}
}
