// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Viewer placement in the demo scene.
var (
	ViewerPosition = mgl32.Vec3{0, 1.6, 5}
	EyeHeight      = float32(1.6)
)

// Demo returns the demo scene: a checkerboard floor and a ring of colored
// boxes around the origin, seen from ViewerPosition.
func Demo() *Scene {
	s := &Scene{Background: color.RGBA{R: 24, G: 28, B: 40, A: 255}}
	s.Add(Floor("floor", 20, 1,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		color.RGBA{R: 90, G: 90, B: 90, A: 255}))

	boxes := []struct {
		name string
		pos  mgl32.Vec3
		size float32
		col  color.RGBA
	}{
		{"center", mgl32.Vec3{0, 0.5, 0}, 1, color.RGBA{R: 220, G: 60, B: 60, A: 255}},
		{"left", mgl32.Vec3{-2.5, 0.75, -1}, 1.5, color.RGBA{R: 60, G: 200, B: 80, A: 255}},
		{"right", mgl32.Vec3{2.5, 0.4, 0.5}, 0.8, color.RGBA{R: 60, G: 110, B: 230, A: 255}},
		{"far", mgl32.Vec3{0.5, 1.5, -6}, 3, color.RGBA{R: 230, G: 190, B: 50, A: 255}},
		{"eye-level", mgl32.Vec3{-1, EyeHeight, 1.5}, 0.3, color.RGBA{R: 240, G: 240, B: 240, A: 255}},
	}
	for _, b := range boxes {
		m := Cube(b.name, b.size, b.col)
		m.Model = mgl32.Translate3D(b.pos.X(), b.pos.Y(), b.pos.Z())
		s.Add(m)
	}
	return s
}
