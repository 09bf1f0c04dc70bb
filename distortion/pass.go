// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package distortion implements the lens distortion post-process.
//
// Each eye's resolved texture is drawn into its half of the output through
// a barrel warp centered on the lens, which cancels the pincushion
// distortion of the headset optics. With chromatic correction enabled the
// red and blue channels are warped by slightly different amounts to undo
// the lens's chromatic aberration.
//
// The warp is defined by Uniforms, derived per eye from the optical
// profile and the eye's Viewport. Software evaluates it on the CPU; GPU
// backends run the WGSL shader returned by ShaderSource.
package distortion

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/optics"
	"github.com/gogpu/ovr/target"
)

var (
	// ErrNoUniforms is returned by Draw before SetEyeUniforms.
	ErrNoUniforms = errors.New("distortion: eye uniforms not set")

	// ErrFrameOrder is returned when Draw or EndFrame is called outside a
	// BeginFrame/EndFrame bracket.
	ErrFrameOrder = errors.New("distortion: draw outside frame")
)

// Options configure a distortion pass.
type Options struct {
	// Chromatic enables per-channel aberration correction.
	Chromatic bool

	// Scale multiplies the lens input scale. Zero means 1.
	Scale float32

	// Border is the color of output pixels whose warped coordinate falls
	// outside the eye texture.
	Border color.RGBA
}

// Pass draws distorted eye textures into an output framebuffer.
//
// A frame is BeginFrame, then SetEyeUniforms and Draw once per eye, then
// EndFrame, which returns the finished output.
type Pass interface {
	// SetEyeUniforms selects the eye drawn by the next Draw.
	SetEyeUniforms(eye ovr.Eye, profile optics.DeviceOpticalProfile, vp Viewport)

	// BeginFrame clears the output to the border color.
	BeginFrame() error

	// Draw warps tex into the current eye's viewport.
	Draw(tex target.Texture) error

	// EndFrame finishes the frame and returns the output image.
	EndFrame() (image.Image, error)

	// Destroy releases the pass.
	Destroy() error
}

// PassFactory is implemented by backends that run the distortion pass
// themselves. Backends without it are paired with Software.
type PassFactory interface {
	NewDistortionPass(width, height int, opts Options) (Pass, error)
}
