// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hmd

import (
	"fmt"

	"github.com/gogpu/ovr"
)

// Device is an open headset handle owned by a Runtime.
//
// Every method fails with ErrDisposed after Destroy and with ErrShutdown
// once the owning Runtime has shut the SDK down; the native library is
// never called with a dead handle.
type Device struct {
	rt        *Runtime
	handle    Handle
	debug     bool
	desc      HmdDesc
	destroyed bool // guarded by rt.mu
}

// Handle returns the native handle.
func (d *Device) Handle() Handle { return d.handle }

// IsDebug reports whether d is a virtual headset created by the fallback path.
func (d *Device) IsDebug() bool { return d.debug }

// Desc returns the description captured when the device was opened.
func (d *Device) Desc() (HmdDesc, error) {
	if err := d.rt.call(d, func(SDK, Handle) {}); err != nil {
		return HmdDesc{}, err
	}
	return d.desc, nil
}

// Destroy closes the handle. A second Destroy returns ErrDisposed and a
// Destroy after the SDK shut down returns ErrShutdown; neither touches the
// native library.
func (d *Device) Destroy() error {
	if err := d.rt.destroy(d); err != nil {
		return err
	}
	ovr.Logger().Info("hmd: device destroyed", "type", d.desc.Type)
	return nil
}

// LastError returns the SDK's last error message for this device.
func (d *Device) LastError() (string, error) {
	var msg string
	err := d.rt.call(d, func(s SDK, h Handle) { msg = s.LastError(h) })
	return msg, err
}

// EnabledCaps returns the currently enabled headset capabilities.
func (d *Device) EnabledCaps() (HmdCaps, error) {
	var caps HmdCaps
	err := d.rt.call(d, func(s SDK, h Handle) { caps = s.EnabledCaps(h) })
	return caps, err
}

// SetEnabledCaps enables caps. Bits outside HmdCapsWritableMask are ignored.
func (d *Device) SetEnabledCaps(caps HmdCaps) error {
	return d.rt.call(d, func(s SDK, h Handle) { s.SetEnabledCaps(h, caps&HmdCapsWritableMask) })
}

// StartSensor starts tracking with the supported capabilities, failing
// with ErrSensorUnavailable when the required ones cannot be provided.
func (d *Device) StartSensor(supported, required SensorCaps) error {
	var ok bool
	if err := d.rt.call(d, func(s SDK, h Handle) { ok = s.StartSensor(h, supported|required, required) }); err != nil {
		return err
	}
	if !ok {
		msg, _ := d.LastError()
		return fmt.Errorf("%w: required %#x: %s", ErrSensorUnavailable, uint32(required), msg)
	}
	return nil
}

// StopSensor stops tracking.
func (d *Device) StopSensor() error {
	return d.rt.call(d, func(s SDK, h Handle) { s.StopSensor(h) })
}

// ResetSensor re-centers the sensor's yaw.
func (d *Device) ResetSensor() error {
	return d.rt.call(d, func(s SDK, h Handle) { s.ResetSensor(h) })
}

// SensorState returns the sensor state predicted for absTime, in SDK seconds.
func (d *Device) SensorState(absTime float64) (SensorState, error) {
	var st SensorState
	err := d.rt.call(d, func(s SDK, h Handle) { st = s.SensorState(h, absTime) })
	return st, err
}

// SensorDesc returns the tracking sensor description. ok is false when
// the sensor has not been started.
func (d *Device) SensorDesc() (desc SensorDesc, ok bool, err error) {
	err = d.rt.call(d, func(s SDK, h Handle) { desc, ok = s.SensorDesc(h) })
	return desc, ok, err
}

// FovTextureSize returns the recommended render target size for eye.
func (d *Device) FovTextureSize(eye ovr.Eye, fov FovPort, pixelsPerDisplayPixel float32) (Sizei, error) {
	var size Sizei
	err := d.rt.call(d, func(s SDK, h Handle) {
		size = s.FovTextureSize(h, int32(eye.Index()), fov, pixelsPerDisplayPixel)
	})
	return size, err
}

// BeginFrameTiming marks the start of frame frameIndex.
func (d *Device) BeginFrameTiming(frameIndex uint32) (FrameTiming, error) {
	var ft FrameTiming
	err := d.rt.call(d, func(s SDK, h Handle) { ft = s.BeginFrameTiming(h, frameIndex) })
	return ft, err
}

// EndFrameTiming marks the end of the current frame.
func (d *Device) EndFrameTiming() error {
	return d.rt.call(d, func(s SDK, h Handle) { s.EndFrameTiming(h) })
}

// FrameTiming returns timing predictions for frameIndex without starting it.
func (d *Device) FrameTiming(frameIndex uint32) (FrameTiming, error) {
	var ft FrameTiming
	err := d.rt.call(d, func(s SDK, h Handle) { ft = s.FrameTiming(h, frameIndex) })
	return ft, err
}

// ResetFrameTiming restarts timing at frameIndex.
func (d *Device) ResetFrameTiming(frameIndex uint32) error {
	return d.rt.call(d, func(s SDK, h Handle) { s.ResetFrameTiming(h, frameIndex) })
}

// Time returns the SDK clock in seconds.
func (d *Device) Time() (float64, error) {
	var now float64
	err := d.rt.call(d, func(s SDK, _ Handle) { now = s.TimeInSeconds() })
	return now, err
}
