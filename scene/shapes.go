// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// cubeFaces lists each face's outward normal and its four corners,
// counter-clockwise seen from outside, on the unit cube centered at the origin.
var cubeFaces = []struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
}{
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
}

// light is the direction faces are shaded against.
var light = mgl32.Vec3{0.3, 0.8, 0.5}.Normalize()

// Cube returns an axis-aligned cube with edge length size centered at the
// origin. Faces are flat-shaded from a fixed light direction.
func Cube(name string, size float32, c color.RGBA) *Mesh {
	base := RGBA(c)
	half := size / 2
	m := &Mesh{Name: name, Model: mgl32.Ident4()}
	for _, f := range cubeFaces {
		lum := 0.35 + 0.65*max(0, f.normal.Dot(light))
		col := shade(base, lum)
		first := uint16(len(m.Vertices))
		for _, p := range f.corners {
			m.Vertices = append(m.Vertices, Vertex{Position: p.Mul(half), Color: col})
		}
		m.Indices = append(m.Indices, first, first+1, first+2, first, first+2, first+3)
	}
	return m
}

// Floor returns a checkerboard on the y=0 plane with tiles×tiles squares of
// edge length tile, centered at the origin.
func Floor(name string, tiles int, tile float32, a, b color.RGBA) *Mesh {
	ca, cb := RGBA(a), RGBA(b)
	m := &Mesh{Name: name, Model: mgl32.Ident4()}
	origin := -float32(tiles) * tile / 2
	for i := range tiles {
		for j := range tiles {
			col := ca
			if (i+j)%2 == 1 {
				col = cb
			}
			x0 := origin + float32(i)*tile
			z0 := origin + float32(j)*tile
			first := uint16(len(m.Vertices))
			m.Vertices = append(m.Vertices,
				Vertex{Position: mgl32.Vec3{x0, 0, z0 + tile}, Color: col},
				Vertex{Position: mgl32.Vec3{x0 + tile, 0, z0 + tile}, Color: col},
				Vertex{Position: mgl32.Vec3{x0 + tile, 0, z0}, Color: col},
				Vertex{Position: mgl32.Vec3{x0, 0, z0}, Color: col},
			)
			m.Indices = append(m.Indices, first, first+1, first+2, first, first+2, first+3)
		}
	}
	return m
}
