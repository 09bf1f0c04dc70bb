// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene holds backend-neutral triangle meshes and the demo scene
// rendered for each eye.
package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is the size of a Vertex in bytes when packed for the GPU.
const VertexStride = 7 * 4

// Vertex is a colored point. Color components are in [0, 1].
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
}

// Mesh is an indexed triangle list placed in the world by Model.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint16
	Model    mgl32.Mat4
}

// Triangles returns the number of triangles in m.
func (m *Mesh) Triangles() int { return len(m.Indices) / 3 }

// Scene is an ordered list of meshes with a background color.
type Scene struct {
	Meshes     []*Mesh
	Background color.RGBA
}

// Add appends meshes to s.
func (s *Scene) Add(meshes ...*Mesh) {
	s.Meshes = append(s.Meshes, meshes...)
}

// Triangles returns the number of triangles in s.
func (s *Scene) Triangles() int {
	n := 0
	for _, m := range s.Meshes {
		n += m.Triangles()
	}
	return n
}

// RGBA converts c to a float color.
func RGBA(c color.RGBA) mgl32.Vec4 {
	return mgl32.Vec4{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

// shade scales the RGB channels of c by f.
func shade(c mgl32.Vec4, f float32) mgl32.Vec4 {
	return mgl32.Vec4{c[0] * f, c[1] * f, c[2] * f, c[3]}
}
