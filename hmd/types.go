// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hmd

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// HmdType identifies the headset model.
type HmdType int32

// Headset models known to libOVR 0.3.
const (
	HmdNone             HmdType = 0
	HmdDK1              HmdType = 3
	HmdDKHD             HmdType = 4
	HmdCrystalCoveProto HmdType = 5
	HmdDK2              HmdType = 6
	HmdOther            HmdType = 7
)

func (t HmdType) String() string {
	switch t {
	case HmdNone:
		return "None"
	case HmdDK1:
		return "DK1"
	case HmdDKHD:
		return "DKHD"
	case HmdCrystalCoveProto:
		return "CrystalCoveProto"
	case HmdDK2:
		return "DK2"
	case HmdOther:
		return "Other"
	default:
		return fmt.Sprintf("HmdType(%d)", int32(t))
	}
}

// ParseHmdType returns the model named s, as printed by HmdType.String.
func ParseHmdType(s string) (HmdType, error) {
	for _, t := range []HmdType{HmdNone, HmdDK1, HmdDKHD, HmdCrystalCoveProto, HmdDK2, HmdOther} {
		if t.String() == s {
			return t, nil
		}
	}
	return HmdNone, fmt.Errorf("hmd: unknown headset type %q", s)
}

// HmdCaps describes headset capabilities. Only the bits in
// HmdCapsWritableMask may be changed through SetEnabledCaps.
type HmdCaps uint32

const (
	HmdCapsPresent           HmdCaps = 0x0001
	HmdCapsAvailable         HmdCaps = 0x0002
	HmdCapsLowPersistence    HmdCaps = 0x0080
	HmdCapsLatencyTest       HmdCaps = 0x0100
	HmdCapsDynamicPrediction HmdCaps = 0x0200
	HmdCapsNoVSync           HmdCaps = 0x1000
	HmdCapsNoRestore         HmdCaps = 0x4000

	HmdCapsWritableMask HmdCaps = 0x1380
)

// SensorCaps describes the tracking features a sensor supports.
type SensorCaps uint32

const (
	SensorCapsOrientation   SensorCaps = 0x0010
	SensorCapsYawCorrection SensorCaps = 0x0020
	SensorCapsPosition      SensorCaps = 0x0040
)

// DistortionCaps describes SDK-side distortion features.
type DistortionCaps uint32

const (
	DistortionCapsChromatic DistortionCaps = 0x01
	DistortionCapsTimeWarp  DistortionCaps = 0x02
	DistortionCapsVignette  DistortionCaps = 0x08
)

// StatusFlags reports the tracking state of a sensor sample.
type StatusFlags uint32

const (
	StatusOrientationTracked StatusFlags = 0x0001
	StatusPositionTracked    StatusFlags = 0x0002
	StatusPositionConnected  StatusFlags = 0x0020
	StatusHmdConnected       StatusFlags = 0x0080
)

// The value types below mirror the libOVR 0.3 C structs field for field.
// Go's natural alignment on 64-bit targets reproduces the C padding, so
// hmd/native passes pointers to them straight through.

// Vector2i is an integer 2D vector.
type Vector2i struct {
	X, Y int32
}

// Sizei is an integer size.
type Sizei struct {
	W, H int32
}

// Vector3f is a float 3D vector.
type Vector3f struct {
	X, Y, Z float32
}

// Vec3 converts v to a mathgl vector.
func (v Vector3f) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// Quatf is a rotation quaternion stored as x, y, z, w.
type Quatf struct {
	X, Y, Z, W float32
}

// IdentityQuat is the zero rotation.
var IdentityQuat = Quatf{W: 1}

// Quat converts q to a mathgl quaternion.
func (q Quatf) Quat() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

// QuatFrom converts a mathgl quaternion.
func QuatFrom(q mgl32.Quat) Quatf {
	return Quatf{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// Posef is an orientation and a position.
type Posef struct {
	Orientation Quatf
	Position    Vector3f
}

// PoseState is a pose with its derivatives at a point in time.
type PoseState struct {
	Pose                Posef
	AngularVelocity     Vector3f
	LinearVelocity      Vector3f
	AngularAcceleration Vector3f
	LinearAcceleration  Vector3f
	TimeInSeconds       float64
}

// SensorState holds the predicted and the last recorded sensor sample.
type SensorState struct {
	Predicted   PoseState
	Recorded    PoseState
	Temperature float32
	StatusFlags StatusFlags
}

// Tracked reports whether orientation tracking is active.
func (s SensorState) Tracked() bool {
	return s.StatusFlags&StatusOrientationTracked != 0
}

// FovPort describes a field of view as tangents of the half angles.
type FovPort struct {
	UpTan, DownTan, LeftTan, RightTan float32
}

// SensorDesc identifies the tracking sensor.
type SensorDesc struct {
	VendorID     int16
	ProductID    int16
	SerialNumber string
}

// FrameTiming is the SDK's timing prediction for a frame.
type FrameTiming struct {
	DeltaSeconds           float32
	ThisFrameSeconds       float64
	TimewarpPointSeconds   float64
	NextFrameSeconds       float64
	ScanoutMidpointSeconds float64
	EyeScanoutSeconds      [2]float64
}

// HmdDesc describes an opened headset.
type HmdDesc struct {
	Type           HmdType
	ProductName    string
	Manufacturer   string
	HmdCaps        HmdCaps
	SensorCaps     SensorCaps
	DistortionCaps DistortionCaps
	Resolution     Sizei
	WindowsPos     Vector2i
	DefaultEyeFov  [2]FovPort
	MaxEyeFov      [2]FovPort
	// EyeRenderOrder lists eye indices (0 left, 1 right) in the order the
	// display scans them out.
	EyeRenderOrder    [2]int32
	DisplayDeviceName string
	DisplayID         int32
}

// Present reports whether the description belongs to an attached display.
func (d HmdDesc) Present() bool {
	return d.Type != HmdNone && d.HmdCaps&HmdCapsPresent != 0
}
