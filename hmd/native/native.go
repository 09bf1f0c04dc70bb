// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native loads libOVR 0.3 at run time and exposes it as an hmd.SDK.
//
// The library is opened and called through goffi, the same cgo-free FFI
// the GPU backend links, so no C toolchain is needed to build programs
// that use it. libOVR must be available as a shared library exporting the
// ovr_* and ovrHmd_* C entry points.
package native

import (
	"errors"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/hmd"
)

// ErrUnsupported is returned by Load on platforms without a native binding.
var ErrUnsupported = errors.New("native: libOVR binding not supported on this platform")

// LoadOrNull loads libOVR from path, or from the platform's default library
// names when path is empty. When the library cannot be loaded it logs the
// reason and returns hmd.NewNullSDK, so callers always get a working SDK
// that falls back to debug devices.
func LoadOrNull(path string) hmd.SDK {
	sdk, err := Load(path)
	if err != nil {
		ovr.Logger().Warn("native: libOVR unavailable, running without hardware", "err", err)
		return hmd.NewNullSDK()
	}
	return sdk
}

// cString copies a NUL-terminated C string. A nil pointer yields "".
func cString(p *byte) string {
	if p == nil {
		return ""
	}
	var buf []byte
	for i := 0; ; i++ {
		b := *ptrAdd(p, i)
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}

// fixedString converts a NUL-padded fixed-size C char array.
func fixedString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// unpackSizei splits an ovrSizei returned in one 64-bit register.
func unpackSizei(v uint64) hmd.Sizei {
	return hmd.Sizei{W: int32(uint32(v)), H: int32(uint32(v >> 32))} //nolint:gosec // bit reinterpretation
}
