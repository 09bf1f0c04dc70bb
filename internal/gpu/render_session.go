// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the WebGPU requirement for bytesPerRow in
// texture-to-buffer copies.
const copyPitchAlignment = 256

// frameResources collects the transient buffers and bind groups one
// command buffer references. They are released after the GPU finishes.
type frameResources struct {
	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
}

// release destroys every collected resource.
func (r *frameResources) release(device hal.Device) {
	for _, bg := range r.bindGroups {
		device.DestroyBindGroup(bg)
	}
	for _, buf := range r.buffers {
		device.DestroyBuffer(buf)
	}
	r.bindGroups = r.bindGroups[:0]
	r.buffers = r.buffers[:0]
}

// createAndUploadBuffer creates a buffer and writes data into it. The
// buffer size is rounded up to a multiple of 4 as copies require.
func (r *frameResources) createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := (uint64(len(data)) + 3) &^ 3
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.buffers = append(r.buffers, buf)
	if uint64(len(data)) != size {
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// createBindGroup creates a bind group and tracks it for release.
func (r *frameResources) createBindGroup(device hal.Device, desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	bg, err := device.CreateBindGroup(desc)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", desc.Label, err)
	}
	r.bindGroups = append(r.bindGroups, bg)
	return bg, nil
}

// beginEncoder creates a command encoder and starts recording.
func beginEncoder(device hal.Device, label string) (hal.CommandEncoder, error) {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	return encoder, nil
}

// submitAndWait finishes encoding, submits the command buffer and blocks
// until the device is idle.
func submitAndWait(device hal.Device, queue hal.Queue, encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	if _, err := queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	return nil
}

// encodeReadback records a copy of tex into a new staging buffer with
// 256-byte aligned rows. tex is transitioned to CopySrc for the copy and
// back to RenderAttachment afterwards. The caller destroys the buffer.
func encodeReadback(device hal.Device, encoder hal.CommandEncoder, tex *Texture, label string) (hal.Buffer, uint32, error) {
	w, h := tex.width, tex.height
	alignedBytesPerRow := (w*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)

	stagingBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_staging",
		Size:  uint64(alignedBytesPerRow) * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create staging buffer: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(tex.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	// Back to RenderAttachment so the next frame's pass starts from the
	// state it expects.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	return stagingBuf, alignedBytesPerRow, nil
}

// readStaging maps a staging buffer filled by encodeReadback and copies
// its rows into an image, stripping the row padding.
func readStaging(device hal.Device, buf hal.Buffer, w, h, alignedBytesPerRow uint32) (*image.RGBA, error) {
	size := uint64(alignedBytesPerRow) * uint64(h)
	mapping, err := device.MapBuffer(buf, 0, size)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	src := unsafe.Slice((*byte)(mapping.Ptr), size)

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	bytesPerRow := int(w) * 4
	for row := range int(h) {
		srcOff := row * int(alignedBytesPerRow)
		copy(img.Pix[row*img.Stride:row*img.Stride+bytesPerRow], src[srcOff:srcOff+bytesPerRow])
	}
	if err := device.UnmapBuffer(buf); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return img, nil
}
