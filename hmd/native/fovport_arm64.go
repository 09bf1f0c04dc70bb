// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux || darwin

package native

import (
	"unsafe"

	"github.com/go-webgpu/goffi/types"

	"github.com/gogpu/ovr/hmd"
)

// A by-value ovrFovPort is a four-float homogeneous aggregate.
var fovPortArgs = []*types.TypeDescriptor{{
	Size: 16, Alignment: 4, Kind: types.StructType,
	Members: []*types.TypeDescriptor{
		types.FloatTypeDescriptor, types.FloatTypeDescriptor,
		types.FloatTypeDescriptor, types.FloatTypeDescriptor,
	},
}}

func fovPortValues(f *hmd.FovPort) []unsafe.Pointer {
	return []unsafe.Pointer{unsafe.Pointer(f)}
}
