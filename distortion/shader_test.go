// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package distortion

import (
	"encoding/binary"
	"errors"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestShaderSourceContainsEntryPoints(t *testing.T) {
	src := ShaderSource()
	for _, want := range []string{"@vertex", "@fragment", VertexEntry, FragmentEntry, "texture_2d<f32>", "var<uniform>"} {
		if !strings.Contains(src, want) {
			t.Errorf("shader source missing %q", want)
		}
	}
}

func TestCompileShader(t *testing.T) {
	words, err := CompileShader()
	if err != nil {
		t.Fatalf("CompileShader() = %v", err)
	}
	if len(words) < 5 {
		t.Fatalf("SPIR-V output is %d words, want a full header", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x, want 0x07230203", words[0])
	}
}

func TestCompileInvalidShader(t *testing.T) {
	_, err := CompileWGSL("@fragment fn fs_main( -> {")
	if !errors.Is(err, ErrShaderCompile) {
		t.Errorf("CompileWGSL(invalid) = %v, want ErrShaderCompile", err)
	}
}

func TestPack(t *testing.T) {
	u := Uniforms{
		LensCenter:   mgl32.Vec2{0.3125, 0.5},
		ScreenCenter: mgl32.Vec2{0.25, 0.5},
		InputScale:   mgl32.Vec2{0.25, 0.25},
		OutputScale:  mgl32.Vec2{4, 4},
		K:            mgl32.Vec4{1, 0.22, 0.24, 0},
		A:            mgl32.Vec4{0.996, -0.004, 1.014, 0},
	}
	vp := Viewport{0, 0, 0.5, 1}
	buf := Pack(u, vp, color.RGBA{R: 255, A: 255}, true)
	if len(buf) != UniformSize {
		t.Fatalf("len(Pack()) = %d, want %d", len(buf), UniformSize)
	}
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	tests := []struct {
		name string
		off  int
		want float32
	}{
		{"lens_center.x", 0, 0.3125},
		{"screen_center.x", 8, 0.25},
		{"input_scale.y", 20, 0.25},
		{"output_scale.x", 24, 4},
		{"k.y", 36, 0.22},
		{"a.z", 56, 1.014},
		{"viewport.w", 72, 0.5},
		{"border.r", 80, 1},
		{"border.g", 84, 0},
	}
	for _, tt := range tests {
		if got := f(tt.off); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
	if got := binary.LittleEndian.Uint32(buf[96:]); got != 1 {
		t.Errorf("chromatic = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(Pack(u, vp, color.RGBA{}, false)[96:]); got != 0 {
		t.Errorf("chromatic off = %d, want 0", got)
	}
}
