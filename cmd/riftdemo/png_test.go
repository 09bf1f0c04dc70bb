// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestPNGWriter(t *testing.T) {
	dir := t.TempDir()
	w := &pngWriter{dir: dir, prefix: "eye"}

	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.Set(1, 1, color.RGBA{R: 200, A: 255})
	if err := w.write(7, src); err != nil {
		t.Fatalf("write() = %v", err)
	}

	path := filepath.Join(dir, "eye-0007.png")
	if got := w.path(7); got != path {
		t.Errorf("path(7) = %q, want %q", got, path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() = %v", err)
	}
	if img.Bounds() != src.Bounds() {
		t.Errorf("bounds = %v, want %v", img.Bounds(), src.Bounds())
	}
	if r, _, _, _ := img.At(1, 1).RGBA(); r>>8 != 200 {
		t.Errorf("pixel red = %d, want 200", r>>8)
	}
}

func TestPNGWriterMissingDir(t *testing.T) {
	w := &pngWriter{dir: filepath.Join(t.TempDir(), "missing"), prefix: "frame"}
	if err := w.write(0, image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("write() into a missing directory = nil")
	}
}
