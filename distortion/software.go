// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package distortion

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/optics"
	"github.com/gogpu/ovr/target"
)

// Software runs the distortion pass on the CPU.
type Software struct {
	opts      Options
	out       *target.Canvas
	eye       ovr.Eye
	vp        Viewport
	uniforms  Uniforms
	hasEye    bool
	inFrame   bool
	destroyed bool
}

// NewSoftware creates a CPU distortion pass with a width x height output.
func NewSoftware(width, height int, opts Options) (*Software, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: output %dx%d", target.ErrIncompleteTarget, width, height)
	}
	ovr.Logger().Debug("distortion: software pass", "width", width, "height", height, "chromatic", opts.Chromatic)
	return &Software{opts: opts, out: target.NewCanvas(width, height)}, nil
}

// Output returns the output canvas.
func (s *Software) Output() *target.Canvas { return s.out }

// Uniforms returns the uniforms of the current eye.
func (s *Software) Uniforms() Uniforms { return s.uniforms }

func (s *Software) SetEyeUniforms(eye ovr.Eye, profile optics.DeviceOpticalProfile, vp Viewport) {
	s.eye = eye
	s.vp = vp
	s.uniforms = ComputeUniforms(eye, profile, vp, s.opts.Scale)
	s.hasEye = true
}

func (s *Software) BeginFrame() error {
	if s.destroyed {
		return target.ErrDestroyed
	}
	s.out.Clear(s.opts.Border)
	s.inFrame = true
	return nil
}

// Draw warps tex into the current viewport. tex must be a
// target.CPUTexture.
func (s *Software) Draw(tex target.Texture) error {
	switch {
	case s.destroyed:
		return target.ErrDestroyed
	case !s.inFrame:
		return ErrFrameOrder
	case !s.hasEye:
		return ErrNoUniforms
	case s.vp.Empty():
		return fmt.Errorf("distortion: empty viewport for %v eye", s.eye)
	}
	cpu, ok := tex.(target.CPUTexture)
	if !ok {
		return fmt.Errorf("%w: software distortion needs CPU pixels, got %T", target.ErrCapability, tex)
	}
	src := cpu.Image()

	dst := s.out.Image()
	w, h := s.out.Width(), s.out.Height()
	x0, y0, x1, y1 := s.vp.Pixels(w, h)
	u := s.uniforms
	for y := y0; y < y1; y++ {
		row := dst.Pix[y*dst.Stride:]
		ty := (float32(y) + 0.5) / float32(h)
		for x := x0; x < x1; x++ {
			tc := mgl32.Vec2{(float32(x) + 0.5) / float32(w), ty}
			var c color.RGBA
			if s.opts.Chromatic {
				cc := u.ChannelCoords(tc)
				r := s.fetch(src, cc[0])
				g := s.fetch(src, cc[1])
				b := s.fetch(src, cc[2])
				c = color.RGBA{R: r.R, G: g.G, B: b.B, A: g.A}
			} else {
				c = s.fetch(src, u.SampleCoord(tc))
			}
			p := row[x*4 : x*4+4 : x*4+4]
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		}
	}
	return nil
}

func (s *Software) EndFrame() (image.Image, error) {
	if s.destroyed {
		return nil, target.ErrDestroyed
	}
	if !s.inFrame {
		return nil, ErrFrameOrder
	}
	s.inFrame = false
	return s.out.Image(), nil
}

func (s *Software) Destroy() error {
	if s.destroyed {
		return target.ErrDestroyed
	}
	s.destroyed = true
	s.out = nil
	return nil
}

// fetch samples src bilinearly at framebuffer coordinate at, returning
// the border color outside the current eye texture.
func (s *Software) fetch(src *image.RGBA, at mgl32.Vec2) color.RGBA {
	c, ok := s.vp.EyeCoord(at)
	if !ok {
		return s.opts.Border
	}
	return bilinear(src, c[0], c[1])
}

// bilinear samples img at normalized (u, v), clamping to the edge texels.
func bilinear(img *image.RGBA, u, v float32) color.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return color.RGBA{}
	}
	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5
	ix, iy := floor(fx), floor(fy)
	ax, ay := fx-float32(ix), fy-float32(iy)

	x0, x1 := clampInt(ix, 0, w-1), clampInt(ix+1, 0, w-1)
	y0, y1 := clampInt(iy, 0, h-1), clampInt(iy+1, 0, h-1)
	p00 := img.PixOffset(b.Min.X+x0, b.Min.Y+y0)
	p10 := img.PixOffset(b.Min.X+x1, b.Min.Y+y0)
	p01 := img.PixOffset(b.Min.X+x0, b.Min.Y+y1)
	p11 := img.PixOffset(b.Min.X+x1, b.Min.Y+y1)

	var out [4]uint8
	for i := range out {
		top := float32(img.Pix[p00+i])*(1-ax) + float32(img.Pix[p10+i])*ax
		bot := float32(img.Pix[p01+i])*(1-ax) + float32(img.Pix[p11+i])*ax
		out[i] = uint8(top*(1-ay) + bot*ay + 0.5)
	}
	return color.RGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

func floor(f float32) int {
	i := int(f)
	if f < float32(i) {
		i--
	}
	return i
}

func clampInt(v, lo, hi int) int { return min(max(v, lo), hi) }

var _ Pass = (*Software)(nil)
