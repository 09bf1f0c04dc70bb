// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ovr/target"
)

// Texture is a single-sample RGBA8 texture on the device. It is the
// resolved eye image handed to the distortion pass.
type Texture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

// newTexture creates a 2D RGBA8 texture and its default view.
func newTexture(device hal.Device, label string, w, h, samples uint32, usage gputypes.TextureUsage) (*Texture, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s texture: %w", label, err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: label + "_view",
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return &Texture{tex: tex, view: view, width: w, height: h}, nil
}

func (t *Texture) Width() int  { return int(t.width) }
func (t *Texture) Height() int { return int(t.height) }

// Format returns RGBA8Unorm.
func (t *Texture) Format() gputypes.TextureFormat { return colorFormat }

// View returns the texture view.
func (t *Texture) View() hal.TextureView { return t.view }

func (t *Texture) destroy(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

var _ target.Texture = (*Texture)(nil)
