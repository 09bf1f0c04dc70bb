// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !((linux || darwin) && (amd64 || arm64))

package native

import "github.com/gogpu/ovr/hmd"

// SDK is unavailable on this platform. Load always fails.
type SDK struct {
	hmd.SDK
}

// Load returns ErrUnsupported.
func Load(string) (*SDK, error) {
	return nil, ErrUnsupported
}

// Close does nothing.
func (s *SDK) Close() error { return nil }
