// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package distortion

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/naga"
)

//go:embed shaders/distortion.wgsl
var shaderSource string

// ErrShaderCompile is returned when the distortion shader fails to compile.
var ErrShaderCompile = errors.New("distortion: shader compile failed")

// Shader entry points.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Binding slots in bind group 0.
const (
	BindingUniforms = 0
	BindingTexture  = 1
	BindingSampler  = 2
)

// UniformSize is the size in bytes of the packed uniform block.
const UniformSize = 112

// ShaderSource returns the WGSL source of the distortion shader.
func ShaderSource() string { return shaderSource }

// CompileShader compiles the distortion shader to SPIR-V words.
func CompileShader() ([]uint32, error) {
	return CompileWGSL(shaderSource)
}

// CompileWGSL validates and compiles WGSL source to SPIR-V words. Errors
// wrap ErrShaderCompile.
func CompileWGSL(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("%w: SPIR-V length %d not a multiple of 4", ErrShaderCompile, len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// Pack lays out the uniform block read by the shader.
func Pack(u Uniforms, vp Viewport, border color.RGBA, chromatic bool) []byte {
	buf := make([]byte, UniformSize)
	put := func(off int, v ...float32) {
		for i, f := range v {
			binary.LittleEndian.PutUint32(buf[off+4*i:], math.Float32bits(f))
		}
	}
	put(0, u.LensCenter[0], u.LensCenter[1])
	put(8, u.ScreenCenter[0], u.ScreenCenter[1])
	put(16, u.InputScale[0], u.InputScale[1])
	put(24, u.OutputScale[0], u.OutputScale[1])
	put(32, u.K[:]...)
	put(48, u.A[:]...)
	put(64, vp.X, vp.Y, vp.W, vp.H)
	put(80, float32(border.R)/255, float32(border.G)/255, float32(border.B)/255, float32(border.A)/255)
	if chromatic {
		binary.LittleEndian.PutUint32(buf[96:], 1)
	}
	return buf
}
