// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package optics supplies the optical constants of a head-mounted display:
// screen geometry, lens placement and the lens distortion coefficients the
// post-process needs to undo pincushion distortion.
package optics

import (
	"math"

	"github.com/gogpu/ovr/hmd"
)

// Fallback constants used when no headset is connected.
const (
	FallbackFieldOfView = math.Pi / 4 // 45° vertical
	FallbackAspectRatio = 16.0 / 9.0
)

var (
	// FallbackK is the radial distortion polynomial used without a headset.
	FallbackK = [4]float32{1, 0.22, 0.24, 0}

	// FallbackA is the chromatic aberration model used without a headset.
	FallbackA = [4]float32{0.996, -0.004, 1.014, 0}
)

// DeviceOpticalProfile is an immutable snapshot of a headset's optics.
// Distances are in meters and resolutions in pixels; HResolution and
// HScreenSize span both eyes.
type DeviceOpticalProfile struct {
	Model     string
	Connected bool

	HResolution int
	VResolution int

	HScreenSize            float32
	VScreenSize            float32
	VScreenCenter          float32
	EyeToScreenDistance    float32
	LensSeparationDistance float32
	InterpupillaryDistance float32

	// K holds the radial distortion coefficients k0..k3.
	K [4]float32
	// A holds the chromatic aberration coefficients: red scale and red
	// radial term, then blue scale and blue radial term.
	A [4]float32
}

// Fallback returns the profile used when no headset is connected. Its
// physical sizes describe a DK1 so that derived quantities stay finite,
// but FieldOfView, AspectRatio and ProjectionCenterOffset report the
// monoscopic defaults.
func Fallback() DeviceOpticalProfile {
	p := modelOptics[hmd.HmdDK1]
	p.Model = "fallback"
	p.Connected = false
	p.HResolution, p.VResolution = 1280, 720
	p.K = FallbackK
	p.A = FallbackA
	return p
}

// FieldOfView returns the vertical field of view in radians,
// 2·atan(0.5·VScreenSize/EyeToScreenDistance).
func (p DeviceOpticalProfile) FieldOfView() float32 {
	if !p.Connected || p.EyeToScreenDistance <= 0 {
		return FallbackFieldOfView
	}
	return float32(2 * math.Atan(0.5*float64(p.VScreenSize)/float64(p.EyeToScreenDistance)))
}

// AspectRatio returns the aspect ratio of one eye: half the horizontal
// resolution over the vertical resolution.
func (p DeviceOpticalProfile) AspectRatio() float32 {
	if !p.Connected || p.VResolution == 0 {
		return FallbackAspectRatio
	}
	return 0.5 * float32(p.HResolution) / float32(p.VResolution)
}

// ViewCenter returns the horizontal center of one eye's half of the
// screen, HScreenSize/4.
func (p DeviceOpticalProfile) ViewCenter() float32 {
	return p.HScreenSize * 0.25
}

// ProjectionCenterOffset returns the horizontal shift, in normalized device
// units, that moves the left eye's projection center onto its lens center.
// The right eye uses the negated value. It is zero without a headset.
func (p DeviceOpticalProfile) ProjectionCenterOffset() float32 {
	if !p.Connected || p.HScreenSize == 0 {
		return 0
	}
	shift := p.ViewCenter() - p.LensSeparationDistance*0.5
	return 4 * shift / p.HScreenSize
}

// EyeTranslation returns the magnitude of the view-space eye offset,
// halfIPD·viewCenter. It is zero without a headset.
func (p DeviceOpticalProfile) EyeTranslation() float32 {
	if !p.Connected {
		return 0
	}
	return p.InterpupillaryDistance * 0.5 * p.ViewCenter()
}
