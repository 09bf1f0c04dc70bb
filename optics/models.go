// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package optics

import "github.com/gogpu/ovr/hmd"

// DefaultIPD is the average adult interpupillary distance in meters.
const DefaultIPD = 0.064

// modelOptics holds the physical constants libOVR 0.2 reported for each
// headset model. Resolutions are replaced by the device's description.
var modelOptics = map[hmd.HmdType]DeviceOpticalProfile{
	hmd.HmdDK1: {
		Model:                  "DK1",
		HResolution:            1280,
		VResolution:            800,
		HScreenSize:            0.14976,
		VScreenSize:            0.0936,
		VScreenCenter:          0.0468,
		EyeToScreenDistance:    0.041,
		LensSeparationDistance: 0.0635,
		InterpupillaryDistance: DefaultIPD,
		K:                      [4]float32{1, 0.22, 0.24, 0},
		A:                      [4]float32{0.996, -0.004, 1.014, 0},
	},
	hmd.HmdDKHD: {
		Model:                  "DKHD",
		HResolution:            1920,
		VResolution:            1080,
		HScreenSize:            0.12096,
		VScreenSize:            0.0756,
		VScreenCenter:          0.0378,
		EyeToScreenDistance:    0.040,
		LensSeparationDistance: 0.0635,
		InterpupillaryDistance: DefaultIPD,
		K:                      [4]float32{1, 0.18, 0.115, 0},
		A:                      [4]float32{0.996, -0.004, 1.014, 0},
	},
	hmd.HmdCrystalCoveProto: {
		Model:                  "CrystalCove",
		HResolution:            1920,
		VResolution:            1080,
		HScreenSize:            0.12576,
		VScreenSize:            0.07074,
		VScreenCenter:          0.03537,
		EyeToScreenDistance:    0.040,
		LensSeparationDistance: 0.0635,
		InterpupillaryDistance: DefaultIPD,
		K:                      [4]float32{1, 0.21, 0.26, 0},
		A:                      [4]float32{0.995, -0.003, 1.013, 0},
	},
	hmd.HmdDK2: {
		Model:                  "DK2",
		HResolution:            1920,
		VResolution:            1080,
		HScreenSize:            0.12576,
		VScreenSize:            0.07074,
		VScreenCenter:          0.03537,
		EyeToScreenDistance:    0.040,
		LensSeparationDistance: 0.0635,
		InterpupillaryDistance: DefaultIPD,
		K:                      [4]float32{1, 0.21, 0.26, 0},
		A:                      [4]float32{0.995, -0.003, 1.013, 0},
	},
}

// ForModel returns the connected profile of headset model t. Unknown
// models, including HmdOther, use DK1 optics.
func ForModel(t hmd.HmdType) DeviceOpticalProfile {
	p, ok := modelOptics[t]
	if !ok {
		p = modelOptics[hmd.HmdDK1]
	}
	p.Connected = true
	return p
}
