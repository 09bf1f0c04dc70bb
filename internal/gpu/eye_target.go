// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ovr/scene"
	"github.com/gogpu/ovr/target"
)

// clipFix maps OpenGL clip-space depth [-w, w] to the WebGPU range [0, w].
var clipFix = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// eyeTarget records one eye's frame into a command encoder that Resolve
// submits.
type eyeTarget struct {
	spec     target.Spec
	device   hal.Device
	queue    hal.Queue
	pipes    *pipelines
	memory   *memoryBudget
	bytes    uint64
	textures textureSet

	encoder   hal.CommandEncoder
	frame     frameResources
	clear     gputypes.Color
	cleared   bool
	destroyed bool
}

func newEyeTarget(h *deviceHandle, pipes *pipelines, memory *memoryBudget, spec target.Spec) (*eyeTarget, error) {
	samples := uint32(1)
	if spec.Multisampled() {
		samples = sampleCount
	}
	renderW, renderH := uint32(spec.RenderWidth), uint32(spec.RenderHeight)
	if samples < 2 {
		renderW, renderH = uint32(spec.DisplayWidth), uint32(spec.DisplayHeight)
	}
	displayW, displayH := uint32(spec.DisplayWidth), uint32(spec.DisplayHeight)
	bytes := eyeTargetBytes(renderW, renderH, displayW, displayH, samples)
	if err := memory.reserve(spec.Label, bytes); err != nil {
		return nil, fmt.Errorf("%w: %w", target.ErrIncompleteTarget, err)
	}

	t := &eyeTarget{spec: spec, device: h.device, queue: h.queue, pipes: pipes, memory: memory, bytes: bytes}
	err := t.textures.ensureTextures(h.device, renderW, renderH, displayW, displayH, samples, spec.Label)
	if err != nil {
		memory.release(bytes)
		return nil, fmt.Errorf("%w: %s: %w", target.ErrIncompleteTarget, spec.Label, err)
	}
	slogger().Debug("gpu: eye target",
		"label", spec.Label, "render", fmt.Sprintf("%dx%d", renderW, renderH),
		"display", fmt.Sprintf("%dx%d", spec.DisplayWidth, spec.DisplayHeight), "samples", samples)
	return t, nil
}

func (t *eyeTarget) Spec() target.Spec { return t.spec }

// Begin starts recording. The attachments are cleared by the first render
// pass of the frame.
func (t *eyeTarget) Begin(clear color.RGBA) error {
	if t.destroyed {
		return target.ErrDestroyed
	}
	if t.encoder != nil {
		t.encoder.DiscardEncoding()
		t.frame.release(t.device)
	}
	encoder, err := beginEncoder(t.device, t.spec.Label)
	if err != nil {
		return err
	}
	t.encoder = encoder
	t.clear = toGPUColor(clear)
	t.cleared = false
	return nil
}

// Draw records one render pass drawing every mesh of s.
func (t *eyeTarget) Draw(s *scene.Scene, view, projection mgl32.Mat4) error {
	switch {
	case t.destroyed:
		return target.ErrDestroyed
	case t.encoder == nil:
		return fmt.Errorf("%w: draw before begin", target.ErrPassOrder)
	}

	viewProj := clipFix.Mul4(projection).Mul4(view)
	draws := make([]meshBuffers, 0, len(s.Meshes))
	for i, m := range s.Meshes {
		if len(m.Indices) == 0 || len(m.Vertices) == 0 {
			continue
		}
		d, err := t.uploadMesh(i, m, viewProj.Mul4(m.Model))
		if err != nil {
			return err
		}
		draws = append(draws, d)
	}

	rp := t.encoder.BeginRenderPass(t.passDescriptor())
	rp.SetPipeline(t.pipes.mesh[t.textures.samples])
	for _, d := range draws {
		rp.SetBindGroup(0, d.bindGroup, nil)
		rp.SetVertexBuffer(0, d.vertex, 0)
		rp.SetIndexBuffer(d.index, gputypes.IndexFormatUint16, 0)
		rp.DrawIndexed(d.indexCount, 1, 0, 0, 0)
	}
	rp.End()
	t.cleared = true
	return nil
}

type meshBuffers struct {
	bindGroup     hal.BindGroup
	vertex, index hal.Buffer
	indexCount    uint32
}

// uploadMesh creates the uniform, vertex and index buffers for one mesh.
func (t *eyeTarget) uploadMesh(i int, m *scene.Mesh, mvp mgl32.Mat4) (meshBuffers, error) {
	label := fmt.Sprintf("%s_mesh%d", t.spec.Label, i)
	uniform, err := t.frame.createAndUploadBuffer(t.device, t.queue, label+"_uniform",
		packFloats(mvp[:]...), gputypes.BufferUsageUniform)
	if err != nil {
		return meshBuffers{}, err
	}
	vertex, err := t.frame.createAndUploadBuffer(t.device, t.queue, label+"_vertices",
		packVertices(m.Vertices), gputypes.BufferUsageVertex)
	if err != nil {
		return meshBuffers{}, err
	}
	index, err := t.frame.createAndUploadBuffer(t.device, t.queue, label+"_indices",
		packIndices(m.Indices), gputypes.BufferUsageIndex)
	if err != nil {
		return meshBuffers{}, err
	}
	bg, err := t.frame.createBindGroup(t.device, &hal.BindGroupDescriptor{
		Label:  label + "_bind_group",
		Layout: t.pipes.meshLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniform.NativeHandle(), Offset: 0, Size: meshUniformSize}},
		},
	})
	if err != nil {
		return meshBuffers{}, err
	}
	return meshBuffers{bindGroup: bg, vertex: vertex, index: index, indexCount: uint32(len(m.Indices))}, nil
}

// passDescriptor clears on the frame's first pass and loads afterwards.
// Multisampled color resolves at the end of every pass.
func (t *eyeTarget) passDescriptor() *hal.RenderPassDescriptor {
	load := gputypes.LoadOpLoad
	if !t.cleared {
		load = gputypes.LoadOpClear
	}
	return &hal.RenderPassDescriptor{
		Label: t.spec.Label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:          t.textures.colorView,
			ResolveTarget: t.textures.resolveTarget(),
			LoadOp:        load,
			StoreOp:       gputypes.StoreOpStore,
			ClearValue:    t.clear,
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:            t.textures.depthView,
			DepthLoadOp:     load,
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: 1.0,
		},
	}
}

// Resolve submits the frame. With a render size above the display size
// the resolved image is scaled down with a linear-filtered blit.
func (t *eyeTarget) Resolve() error {
	switch {
	case t.destroyed:
		return target.ErrDestroyed
	case t.encoder == nil:
		return target.ErrPassOrder
	}
	if !t.cleared {
		t.encoder.BeginRenderPass(t.passDescriptor()).End()
		t.cleared = true
	}
	if t.textures.needsBlit() {
		if err := t.encodeBlit(); err != nil {
			t.encoder.DiscardEncoding()
			t.encoder = nil
			t.frame.release(t.device)
			return err
		}
	}
	err := submitAndWait(t.device, t.queue, t.encoder)
	t.encoder = nil
	t.frame.release(t.device)
	return err
}

func (t *eyeTarget) encodeBlit() error {
	bg, err := t.frame.createBindGroup(t.device, &hal.BindGroupDescriptor{
		Label:  t.spec.Label + "_blit_bind_group",
		Layout: t.pipes.textureLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: t.textures.resolveView.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: t.pipes.linear.NativeHandle()}},
		},
	})
	if err != nil {
		return err
	}
	rp := t.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: t.spec.Label + "_blit_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    t.textures.display.view,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	rp.SetPipeline(t.pipes.blit)
	rp.SetBindGroup(0, bg, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()
	return nil
}

// Texture returns the display-size texture.
func (t *eyeTarget) Texture() target.Texture { return t.textures.display }

func (t *eyeTarget) Destroy() error {
	if t.destroyed {
		return target.ErrDestroyed
	}
	if t.encoder != nil {
		t.encoder.DiscardEncoding()
		t.encoder = nil
	}
	t.frame.release(t.device)
	t.textures.destroyTextures(t.device)
	t.memory.release(t.bytes)
	t.destroyed = true
	return nil
}

func toGPUColor(c color.RGBA) gputypes.Color {
	return gputypes.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

func packFloats(v ...float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// packVertices lays out vertices as scene.VertexStride-byte records.
func packVertices(vs []scene.Vertex) []byte {
	buf := make([]byte, 0, len(vs)*scene.VertexStride)
	for _, v := range vs {
		buf = append(buf, packFloats(v.Position[0], v.Position[1], v.Position[2],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3])...)
	}
	return buf
}

func packIndices(idx []uint16) []byte {
	buf := make([]byte, 2*len(idx))
	for i, v := range idx {
		binary.LittleEndian.PutUint16(buf[2*i:], v)
	}
	return buf
}

var _ target.EyeTarget = (*eyeTarget)(nil)
