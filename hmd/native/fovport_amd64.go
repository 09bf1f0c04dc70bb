// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux || darwin

package native

import (
	"unsafe"

	"github.com/go-webgpu/goffi/types"

	"github.com/gogpu/ovr/hmd"
)

// A by-value ovrFovPort is four floats in two SSE eightbytes. Each double
// argument carries the raw bits of one float pair.
var fovPortArgs = []*types.TypeDescriptor{types.DoubleTypeDescriptor, types.DoubleTypeDescriptor}

func fovPortValues(f *hmd.FovPort) []unsafe.Pointer {
	return []unsafe.Pointer{unsafe.Pointer(&f.UpTan), unsafe.Pointer(&f.LeftTan)}
}
