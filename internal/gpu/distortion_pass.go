// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/distortion"
	"github.com/gogpu/ovr/optics"
	"github.com/gogpu/ovr/target"
)

// distortionPass runs the distortion shader into a display-size texture.
// Every eye draw is its own render pass limited to the eye's viewport and
// is submitted before Draw returns, so the eye texture may be reused once
// Draw succeeds. EndFrame reads the output back.
type distortionPass struct {
	device hal.Device
	queue  hal.Queue
	pipes  *pipelines
	opts   distortion.Options
	output *Texture
	memory *memoryBudget
	bytes  uint64

	eye      ovr.Eye
	vp       distortion.Viewport
	uniforms distortion.Uniforms
	hasEye   bool

	frame     frameResources
	inFrame   bool
	cleared   bool
	destroyed bool
}

func newDistortionPass(h *deviceHandle, pipes *pipelines, memory *memoryBudget, width, height int, opts distortion.Options) (*distortionPass, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: output %dx%d", target.ErrIncompleteTarget, width, height)
	}
	bytes := uint64(width) * uint64(height) * colorTexelBytes
	if err := memory.reserve("distortion_output", bytes); err != nil {
		return nil, fmt.Errorf("%w: %w", target.ErrIncompleteTarget, err)
	}
	out, err := newTexture(h.device, "distortion_output", uint32(width), uint32(height), 1,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)
	if err != nil {
		memory.release(bytes)
		return nil, fmt.Errorf("%w: %w", target.ErrIncompleteTarget, err)
	}
	slogger().Debug("gpu: distortion pass", "width", width, "height", height, "chromatic", opts.Chromatic)
	return &distortionPass{device: h.device, queue: h.queue, pipes: pipes, opts: opts, output: out,
		memory: memory, bytes: bytes}, nil
}

func (p *distortionPass) SetEyeUniforms(eye ovr.Eye, profile optics.DeviceOpticalProfile, vp distortion.Viewport) {
	p.eye = eye
	p.vp = vp
	p.uniforms = distortion.ComputeUniforms(eye, profile, vp, p.opts.Scale)
	p.hasEye = true
}

func (p *distortionPass) BeginFrame() error {
	if p.destroyed {
		return target.ErrDestroyed
	}
	p.frame.release(p.device)
	p.inFrame = true
	p.cleared = false
	return nil
}

// Draw warps tex, which must come from this backend, into the current
// eye's viewport and waits for the GPU to finish reading tex.
func (p *distortionPass) Draw(tex target.Texture) error {
	switch {
	case p.destroyed:
		return target.ErrDestroyed
	case !p.inFrame:
		return distortion.ErrFrameOrder
	case !p.hasEye:
		return distortion.ErrNoUniforms
	case p.vp.Empty():
		return fmt.Errorf("distortion: empty viewport for %v eye", p.eye)
	}
	src, ok := tex.(*Texture)
	if !ok || src.view == nil {
		return fmt.Errorf("%w: GPU distortion needs a device texture, got %T", target.ErrCapability, tex)
	}
	x0, y0, x1, y1 := p.vp.Pixels(p.output.Width(), p.output.Height())
	if x1 <= x0 || y1 <= y0 {
		return nil
	}
	defer p.frame.release(p.device)

	uniform, err := p.frame.createAndUploadBuffer(p.device, p.queue, "distortion_uniforms_"+p.eye.String(),
		distortion.Pack(p.uniforms, p.vp, p.opts.Border, p.opts.Chromatic), gputypes.BufferUsageUniform)
	if err != nil {
		return err
	}
	bg, err := p.frame.createBindGroup(p.device, &hal.BindGroupDescriptor{
		Label:  "distortion_bind_group_" + p.eye.String(),
		Layout: p.pipes.distortionLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: distortion.BindingUniforms, Resource: gputypes.BufferBinding{Buffer: uniform.NativeHandle(), Offset: 0, Size: distortion.UniformSize}},
			{Binding: distortion.BindingTexture, Resource: gputypes.TextureViewBinding{TextureView: src.view.NativeHandle()}},
			{Binding: distortion.BindingSampler, Resource: gputypes.SamplerBinding{Sampler: p.pipes.linear.NativeHandle()}},
		},
	})
	if err != nil {
		return err
	}

	encoder, err := beginEncoder(p.device, "distortion_"+p.eye.String())
	if err != nil {
		return err
	}
	rp := encoder.BeginRenderPass(p.passDescriptor())
	rp.SetPipeline(p.pipes.distortion)
	rp.SetBindGroup(0, bg, nil)
	rp.SetViewport(float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 0, 1)
	rp.SetScissorRect(uint32(x0), uint32(y0), uint32(x1-x0), uint32(y1-y0))
	rp.Draw(4, 1, 0, 0)
	rp.End()
	if err := submitAndWait(p.device, p.queue, encoder); err != nil {
		return err
	}
	p.cleared = true
	return nil
}

// passDescriptor clears to the border color on the frame's first pass.
func (p *distortionPass) passDescriptor() *hal.RenderPassDescriptor {
	load := gputypes.LoadOpLoad
	if !p.cleared {
		load = gputypes.LoadOpClear
	}
	return &hal.RenderPassDescriptor{
		Label: "distortion_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       p.output.view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: toGPUColor(p.opts.Border),
		}},
	}
}

// EndFrame returns the output as an *image.RGBA.
func (p *distortionPass) EndFrame() (image.Image, error) {
	switch {
	case p.destroyed:
		return nil, target.ErrDestroyed
	case !p.inFrame:
		return nil, distortion.ErrFrameOrder
	}
	p.inFrame = false

	encoder, err := beginEncoder(p.device, "distortion_readback")
	if err != nil {
		return nil, err
	}
	if !p.cleared {
		encoder.BeginRenderPass(p.passDescriptor()).End()
	}
	staging, alignedBytesPerRow, err := encodeReadback(p.device, encoder, p.output, "distortion")
	if err != nil {
		encoder.DiscardEncoding()
		return nil, err
	}
	defer p.device.DestroyBuffer(staging)

	if err := submitAndWait(p.device, p.queue, encoder); err != nil {
		return nil, err
	}
	return readStaging(p.device, staging, p.output.width, p.output.height, alignedBytesPerRow)
}

func (p *distortionPass) Destroy() error {
	if p.destroyed {
		return target.ErrDestroyed
	}
	p.inFrame = false
	p.frame.release(p.device)
	p.output.destroy(p.device)
	p.memory.release(p.bytes)
	p.destroyed = true
	return nil
}

var _ distortion.Pass = (*distortionPass)(nil)
