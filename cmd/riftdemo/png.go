// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/gogpu/ovr"
)

// pngWriter saves frames as <dir>/<prefix>-NNNN.png.
type pngWriter struct {
	dir    string
	prefix string
}

func (w *pngWriter) path(frame uint32) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%04d.png", w.prefix, frame))
}

func (w *pngWriter) write(frame uint32, img image.Image) (err error) {
	path := w.path(frame)
	f, err := os.Create(path) //nolint:gosec // path is built from user configuration
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	ovr.Logger().Debug("riftdemo: frame written", "path", path)
	return nil
}
