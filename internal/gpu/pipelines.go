// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ovr/distortion"
	"github.com/gogpu/ovr/scene"
)

// meshUniformSize is the byte size of the mesh uniform buffer: one
// column-major mat4x4<f32>.
const meshUniformSize = 64

// pipelines holds the render pipelines shared by every eye target and
// distortion pass of a backend.
//
// Mesh pipelines are keyed by sample count since the multisample state is
// baked into a pipeline.
type pipelines struct {
	device hal.Device

	meshShader     hal.ShaderModule
	meshLayout     hal.BindGroupLayout
	meshPipeLayout hal.PipelineLayout
	mesh           map[uint32]hal.RenderPipeline

	blitShader     hal.ShaderModule
	textureLayout  hal.BindGroupLayout
	blitPipeLayout hal.PipelineLayout
	blit           hal.RenderPipeline
	linear         hal.Sampler

	distortionShader     hal.ShaderModule
	distortionLayout     hal.BindGroupLayout
	distortionPipeLayout hal.PipelineLayout
	distortion           hal.RenderPipeline
}

// createPipelines compiles the shaders and creates the single-sample and
// 4x mesh pipelines, the blit pipeline and the distortion pipeline. On
// error everything created so far is destroyed.
func createPipelines(device hal.Device) (*pipelines, error) {
	p := &pipelines{device: device, mesh: make(map[uint32]hal.RenderPipeline, 2)}
	if err := p.create(); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *pipelines) create() error { //nolint:funlen // GPU pipeline descriptors are inherently verbose
	var err error
	if p.meshShader, err = createShaderModule(p.device, "mesh_shader", meshShaderSource); err != nil {
		return err
	}
	if p.blitShader, err = createShaderModule(p.device, "blit_shader", blitShaderSource); err != nil {
		return err
	}
	if p.distortionShader, err = createShaderModule(p.device, "distortion_shader", distortion.ShaderSource()); err != nil {
		return err
	}

	// Mesh: one uniform buffer (MVP) at group(0) binding(0).
	p.meshLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "mesh_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create mesh bind group layout: %w", err)
	}
	p.meshPipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "mesh_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.meshLayout},
	})
	if err != nil {
		return fmt.Errorf("create mesh pipeline layout: %w", err)
	}
	for _, samples := range []uint32{1, sampleCount} {
		pipeline, err := p.createMeshPipeline(samples)
		if err != nil {
			return err
		}
		p.mesh[samples] = pipeline
	}

	// Blit: texture at binding(0), sampler at binding(1).
	p.textureLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "blit_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create blit bind group layout: %w", err)
	}
	p.blitPipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("create blit pipeline layout: %w", err)
	}
	p.blit, err = p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "blit_pipeline",
		Layout: p.blitPipeLayout,
		Vertex: hal.VertexState{
			Module:     p.blitShader,
			EntryPoint: vertexEntry,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Fragment: &hal.FragmentState{
			Module:     p.blitShader,
			EntryPoint: fragmentEntry,
			Targets:    []gputypes.ColorTargetState{{Format: colorFormat, WriteMask: gputypes.ColorWriteMaskAll}},
		},
	})
	if err != nil {
		return fmt.Errorf("create blit pipeline: %w", err)
	}
	p.linear, err = p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "linear_clamp_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMinClamp:  0,
		LodMaxClamp:  1,
		Anisotropy:   1,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}

	// Distortion: uniforms, eye texture and sampler in group(0).
	p.distortionLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "distortion_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    distortion.BindingUniforms,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    distortion.BindingTexture,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    distortion.BindingSampler,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create distortion bind group layout: %w", err)
	}
	p.distortionPipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "distortion_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.distortionLayout},
	})
	if err != nil {
		return fmt.Errorf("create distortion pipeline layout: %w", err)
	}
	p.distortion, err = p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "distortion_pipeline",
		Layout: p.distortionPipeLayout,
		Vertex: hal.VertexState{
			Module:     p.distortionShader,
			EntryPoint: distortion.VertexEntry,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Fragment: &hal.FragmentState{
			Module:     p.distortionShader,
			EntryPoint: distortion.FragmentEntry,
			Targets:    []gputypes.ColorTargetState{{Format: colorFormat, WriteMask: gputypes.ColorWriteMaskAll}},
		},
	})
	if err != nil {
		return fmt.Errorf("create distortion pipeline: %w", err)
	}
	return nil
}

// createMeshPipeline creates the depth-tested mesh pipeline for one
// sample count. Vertices are scene.Vertex: float32x3 position followed by
// float32x4 color.
func (p *pipelines) createMeshPipeline(samples uint32) (hal.RenderPipeline, error) {
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("mesh_pipeline_%dx", samples),
		Layout: p.meshPipeLayout,
		Vertex: hal.VertexState{
			Module:     p.meshShader,
			EntryPoint: vertexEntry,
			Buffers: []gputypes.VertexBufferLayout{
				{
					ArrayStride: scene.VertexStride,
					StepMode:    gputypes.VertexStepModeVertex,
					Attributes: []gputypes.VertexAttribute{
						{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
		},
		Multisample: gputypes.MultisampleState{Count: samples, Mask: 0xFFFFFFFF},
		Fragment: &hal.FragmentState{
			Module:     p.meshShader,
			EntryPoint: fragmentEntry,
			Targets:    []gputypes.ColorTargetState{{Format: colorFormat, WriteMask: gputypes.ColorWriteMaskAll}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create mesh pipeline (%dx): %w", samples, err)
	}
	return pipeline, nil
}

// destroy releases all pipeline resources. Safe to call on a partially
// created set.
func (p *pipelines) destroy() {
	d := p.device
	for k, pipeline := range p.mesh {
		d.DestroyRenderPipeline(pipeline)
		delete(p.mesh, k)
	}
	if p.blit != nil {
		d.DestroyRenderPipeline(p.blit)
		p.blit = nil
	}
	if p.distortion != nil {
		d.DestroyRenderPipeline(p.distortion)
		p.distortion = nil
	}
	if p.linear != nil {
		d.DestroySampler(p.linear)
		p.linear = nil
	}
	for _, layout := range []*hal.PipelineLayout{&p.meshPipeLayout, &p.blitPipeLayout, &p.distortionPipeLayout} {
		if *layout != nil {
			d.DestroyPipelineLayout(*layout)
			*layout = nil
		}
	}
	for _, layout := range []*hal.BindGroupLayout{&p.meshLayout, &p.textureLayout, &p.distortionLayout} {
		if *layout != nil {
			d.DestroyBindGroupLayout(*layout)
			*layout = nil
		}
	}
	for _, module := range []*hal.ShaderModule{&p.meshShader, &p.blitShader, &p.distortionShader} {
		if *module != nil {
			d.DestroyShaderModule(*module)
			*module = nil
		}
	}
}
