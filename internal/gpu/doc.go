// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu is the GPU eye-target and distortion backend.
//
// It renders through the gogpu/wgpu HAL (Pure Go WebGPU, zero CGO) on
// Vulkan. Importing the package registers the backend with package target
// under the name "vulkan":
//
//	import _ "github.com/gogpu/ovr/internal/gpu"
//
// # Eye targets
//
// Each eye target owns a 4x multisampled RGBA8 color attachment and a
// Depth24Plus depth attachment at the render size, plus a single-sample
// display-size texture the distortion pass samples. Resolve performs the
// MSAA resolve and, when the render size is larger than the display size,
// a linear-filtered blit down to the display texture. WebGPU only offers
// sample counts 1 and 4, so any multisampled request uses 4.
//
// # Distortion
//
// The distortion pass runs the WGSL shader from package distortion into a
// display-size texture and reads it back into an image.RGBA in EndFrame.
//
// # Shared devices
//
// NewBackendFromProvider renders with a device owned by the host
// application (any gpucontext.DeviceProvider exposing a hal.Device). The
// backend never destroys a device it did not open.
//
// Build with -tags nogpu to leave the backend out.
package gpu
