// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hmd

import "errors"

// Handle is an opaque native headset handle. Zero is the invalid handle.
type Handle uintptr

// SDK is the libOVR 0.3 C API surface, one method per native entry point.
//
// Implementations perform no bookkeeping: they do not track handles and do
// not guard against use after destroy. Applications go through Runtime and
// Device, which add ownership, leak tracking and disposed-object checks on
// top of an SDK.
type SDK interface {
	// Initialize starts the SDK. It returns false on failure.
	Initialize() bool
	// Shutdown stops the SDK. Every handle must be destroyed first.
	Shutdown()

	// Detect returns the number of attached headsets.
	Detect() int
	// Create opens the headset at index. It returns 0 on failure.
	Create(index int) Handle
	// CreateDebug opens a virtual headset of the given model.
	CreateDebug(t HmdType) Handle
	// Destroy closes a handle.
	Destroy(h Handle)
	// LastError returns the last error for h, or the global error when h is 0.
	LastError(h Handle) string

	Desc(h Handle) HmdDesc
	EnabledCaps(h Handle) HmdCaps
	SetEnabledCaps(h Handle, caps HmdCaps)

	StartSensor(h Handle, supported, required SensorCaps) bool
	StopSensor(h Handle)
	ResetSensor(h Handle)
	SensorState(h Handle, absTime float64) SensorState
	SensorDesc(h Handle) (SensorDesc, bool)

	// FovTextureSize returns the recommended render size for one eye.
	FovTextureSize(h Handle, eye int32, fov FovPort, pixelsPerDisplayPixel float32) Sizei

	BeginFrameTiming(h Handle, frameIndex uint32) FrameTiming
	EndFrameTiming(h Handle)
	FrameTiming(h Handle, frameIndex uint32) FrameTiming
	ResetFrameTiming(h Handle, frameIndex uint32)

	// TimeInSeconds returns the SDK's monotonic clock.
	TimeInSeconds() float64
}

// Errors returned by Runtime and Device.
var (
	// ErrInitialize is returned when the SDK refuses to start.
	ErrInitialize = errors.New("hmd: SDK initialization failed")

	// ErrNotInitialized is returned when a Runtime is used without a
	// matching Acquire.
	ErrNotInitialized = errors.New("hmd: runtime not acquired")

	// ErrShutdown is returned when a device is used after the SDK was shut down.
	ErrShutdown = errors.New("hmd: SDK already shut down")

	// ErrDisposed is returned when a device is used after Destroy.
	ErrDisposed = errors.New("hmd: device already destroyed")

	// ErrCreateFailed is returned when the SDK returns an invalid handle.
	ErrCreateFailed = errors.New("hmd: create device failed")

	// ErrNoDevice is returned by Detect-based opening when no headset is attached.
	ErrNoDevice = errors.New("hmd: no device attached")

	// ErrSensorUnavailable is returned when the required sensor
	// capabilities cannot be started.
	ErrSensorUnavailable = errors.New("hmd: sensor unavailable")

	// ErrLeakedHandles is returned by AssertReleased.
	ErrLeakedHandles = errors.New("hmd: handles not released")
)
