// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ovr/distortion"
)

// meshShaderSource draws vertex-colored triangles transformed by one MVP
// matrix.
//
//go:embed shaders/mesh.wgsl
var meshShaderSource string

// blitShaderSource copies a texture onto a full-screen triangle with the
// bound sampler's filtering.
//
//go:embed shaders/blit.wgsl
var blitShaderSource string

// Shader entry points shared by every WGSL module in this package.
const (
	vertexEntry   = "vs_main"
	fragmentEntry = "fs_main"
)

// createShaderModule compiles WGSL to SPIR-V and creates a shader module.
func createShaderModule(device hal.Device, label, source string) (hal.ShaderModule, error) {
	spirv, err := distortion.CompileWGSL(source)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s module: %w", label, err)
	}
	return module, nil
}
