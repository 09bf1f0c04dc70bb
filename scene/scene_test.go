// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCube(t *testing.T) {
	m := Cube("c", 2, color.RGBA{R: 255, A: 255})
	if len(m.Vertices) != 24 || m.Triangles() != 12 {
		t.Fatalf("Cube() has %d vertices, %d triangles, want 24, 12", len(m.Vertices), m.Triangles())
	}
	for _, v := range m.Vertices {
		for i := range 3 {
			if a := v.Position[i]; a != 1 && a != -1 {
				t.Fatalf("vertex %v not on a unit cube of edge 2", v.Position)
			}
		}
		if v.Color[1] != 0 || v.Color[3] != 1 || v.Color[0] <= 0 || v.Color[0] > 1 {
			t.Errorf("vertex color %v not a shade of opaque red", v.Color)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestCubeFacesWindOutward(t *testing.T) {
	for _, f := range cubeFaces {
		e1 := f.corners[1].Sub(f.corners[0])
		e2 := f.corners[2].Sub(f.corners[0])
		if n := e1.Cross(e2).Normalize(); !n.ApproxEqual(f.normal) {
			t.Errorf("face %v winds toward %v", f.normal, n)
		}
	}
}

func TestFloor(t *testing.T) {
	a := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	b := color.RGBA{A: 255}
	m := Floor("f", 4, 0.5, a, b)
	if m.Triangles() != 32 {
		t.Fatalf("Triangles() = %d, want 32", m.Triangles())
	}
	var minX, maxX float32
	for _, v := range m.Vertices {
		if v.Position.Y() != 0 {
			t.Fatalf("vertex %v off the floor plane", v.Position)
		}
		minX = min(minX, v.Position.X())
		maxX = max(maxX, v.Position.X())
	}
	if minX != -1 || maxX != 1 {
		t.Errorf("floor spans x [%v, %v], want [-1, 1]", minX, maxX)
	}
	if m.Vertices[0].Color == m.Vertices[4].Color {
		t.Error("adjacent tiles share a color")
	}
}

func TestDemo(t *testing.T) {
	s := Demo()
	if len(s.Meshes) < 2 || s.Meshes[0].Name != "floor" {
		t.Fatalf("Demo() meshes = %d, want floor first", len(s.Meshes))
	}
	if s.Triangles() != 800+12*(len(s.Meshes)-1) {
		t.Errorf("Triangles() = %d", s.Triangles())
	}
	center := s.Meshes[1]
	if got := center.Model.Mul4x1(mgl32.Vec4{0, 0, 0, 1}); got != (mgl32.Vec4{0, 0.5, 0, 1}) {
		t.Errorf("center box at %v, want (0, 0.5, 0)", got)
	}
}
