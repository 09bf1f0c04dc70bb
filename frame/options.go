// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/ovr/hmd"
	"github.com/gogpu/ovr/scene"
	"github.com/gogpu/ovr/target"
)

// Defaults for zero Options fields.
const (
	DefaultDisplayWidth    = 1280
	DefaultDisplayHeight   = 800
	DefaultPredictionDelta = 0.03
)

// PresentFunc receives each finished frame. img is only valid until the
// next frame.
type PresentFunc func(frame uint32, img image.Image) error

// Options configure a Driver. The zero value renders the demo scene on the
// default backend with no multisampling.
type Options struct {
	// Backend names a registered target backend. Empty picks
	// target.Default and falls back to software if it fails to start.
	Backend string

	// Device, when set, is a host GPU device the GPU backend renders with.
	Device target.DeviceHandle

	// Samples is the requested multisample count.
	Samples int

	// RequireMultisample fails Init when Samples > 1 cannot be honored.
	RequireMultisample bool

	// Shared renders both eyes through one target set.
	Shared bool

	// Oversample scales the render size relative to the display size.
	// Values <= 0 use the device's recommended texture size.
	Oversample float32

	// Chromatic enables chromatic aberration correction.
	Chromatic bool

	// DistortionScale multiplies the lens input scale; values above 1 fit
	// more of the eye image into the output. Zero means 1.
	DistortionScale float32

	// Border colors output pixels outside the eye images.
	Border color.RGBA

	// DisplayWidth and DisplayHeight size the output when no headset
	// reports a resolution.
	DisplayWidth, DisplayHeight int

	// ZNear and ZFar bound the eye projections.
	ZNear, ZFar float32

	// DebugType is the virtual headset opened when none is attached.
	DebugType hmd.HmdType

	// DebugOptics uses the debug headset's optics instead of the
	// monoscopic fallback.
	DebugOptics bool

	// IPD overrides the interpupillary distance in meters.
	IPD float32

	// PredictionDelta is how far ahead orientation is predicted, in
	// seconds, when frame timing reports no scanout time.
	PredictionDelta float64

	// RequiredSensorCaps fail Init when the sensor cannot provide them.
	RequiredSensorCaps hmd.SensorCaps

	// Scene is drawn for each eye. Nil draws scene.Demo.
	Scene *scene.Scene

	// Position and Orientation place the viewer. A zero Orientation
	// means identity.
	Position    mgl32.Vec3
	Orientation mgl32.Quat

	// MaxFrames stops Run after this many frames; zero runs until the
	// context is done.
	MaxFrames int

	// Present receives each distorted frame.
	Present PresentFunc
}

func (o Options) withDefaults() Options {
	if o.DisplayWidth <= 0 || o.DisplayHeight <= 0 {
		o.DisplayWidth, o.DisplayHeight = DefaultDisplayWidth, DefaultDisplayHeight
	}
	if o.DebugType == hmd.HmdNone {
		o.DebugType = hmd.HmdDK1
	}
	if !(o.PredictionDelta > 0) {
		o.PredictionDelta = DefaultPredictionDelta
	}
	if o.Scene == nil {
		o.Scene = scene.Demo()
		if o.Position == (mgl32.Vec3{}) {
			o.Position = scene.ViewerPosition
		}
	}
	if o.Orientation == (mgl32.Quat{}) {
		o.Orientation = mgl32.QuatIdent()
	}
	return o
}
