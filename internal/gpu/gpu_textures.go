// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// sampleCount is the MSAA sample count of multisampled eye targets.
// WebGPU supports only 1 and 4.
const sampleCount = 4

// colorFormat is the format of every color texture the backend creates.
const colorFormat = gputypes.TextureFormatRGBA8Unorm

// depthFormat is the eye depth attachment format.
const depthFormat = gputypes.TextureFormatDepth24Plus

// textureSet holds the attachments of one eye target:
//   - color: MSAA color at render size (4x), or the display texture itself
//     when single-sampled
//   - depth: Depth24Plus matching color's size and sample count
//   - resolve: single-sample render-size MSAA resolve target; nil when the
//     MSAA color resolves straight into display
//   - display: single-sample display-size texture sampled by distortion
type textureSet struct {
	colorTex    hal.Texture
	colorView   hal.TextureView
	depthTex    hal.Texture
	depthView   hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView
	display     *Texture
	samples     uint32
}

// ensureTextures allocates the attachments for an eye target. On error
// everything created so far is destroyed.
func (ts *textureSet) ensureTextures(device hal.Device, renderW, renderH, displayW, displayH uint32, samples uint32, labelPrefix string) error {
	ts.destroyTextures(device)
	ts.samples = samples

	display, err := newTexture(device, labelPrefix+"_display", displayW, displayH, 1,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopySrc)
	if err != nil {
		return err
	}
	ts.display = display

	if samples < 2 {
		ts.colorTex, ts.colorView = display.tex, display.view
		return ts.createDepth(device, displayW, displayH, 1, labelPrefix)
	}

	msaa, err := newTexture(device, labelPrefix+"_msaa_color", renderW, renderH, samples,
		gputypes.TextureUsageRenderAttachment)
	if err != nil {
		ts.destroyTextures(device)
		return err
	}
	ts.colorTex, ts.colorView = msaa.tex, msaa.view

	if err := ts.createDepth(device, renderW, renderH, samples, labelPrefix); err != nil {
		ts.destroyTextures(device)
		return err
	}

	if renderW == displayW && renderH == displayH {
		return nil
	}
	resolve, err := newTexture(device, labelPrefix+"_resolve", renderW, renderH, 1,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding)
	if err != nil {
		ts.destroyTextures(device)
		return err
	}
	ts.resolveTex, ts.resolveView = resolve.tex, resolve.view
	return nil
}

func (ts *textureSet) createDepth(device hal.Device, w, h, samples uint32, labelPrefix string) error {
	depthTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         labelPrefix + "_depth",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	ts.depthTex = depthTex

	depthView, err := device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
		Label: labelPrefix + "_depth_view",
	})
	if err != nil {
		return fmt.Errorf("create depth view: %w", err)
	}
	ts.depthView = depthView
	return nil
}

// resolveTarget returns the view the MSAA color resolves into, or nil when
// the target is single-sampled.
func (ts *textureSet) resolveTarget() hal.TextureView {
	switch {
	case ts.samples < 2:
		return nil
	case ts.resolveView != nil:
		return ts.resolveView
	}
	return ts.display.view
}

// needsBlit reports whether Resolve must scale the resolve texture down
// to the display texture.
func (ts *textureSet) needsBlit() bool { return ts.resolveView != nil }

// destroyTextures releases all textures. Safe to call with partial sets.
func (ts *textureSet) destroyTextures(device hal.Device) {
	if ts.display != nil && ts.colorTex == ts.display.tex {
		ts.colorTex, ts.colorView = nil, nil
	}
	if ts.colorView != nil {
		device.DestroyTextureView(ts.colorView)
		ts.colorView = nil
	}
	if ts.colorTex != nil {
		device.DestroyTexture(ts.colorTex)
		ts.colorTex = nil
	}
	if ts.depthView != nil {
		device.DestroyTextureView(ts.depthView)
		ts.depthView = nil
	}
	if ts.depthTex != nil {
		device.DestroyTexture(ts.depthTex)
		ts.depthTex = nil
	}
	if ts.resolveView != nil {
		device.DestroyTextureView(ts.resolveView)
		ts.resolveView = nil
	}
	if ts.resolveTex != nil {
		device.DestroyTexture(ts.resolveTex)
		ts.resolveTex = nil
	}
	if ts.display != nil {
		ts.display.destroy(device)
		ts.display = nil
	}
}
