// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package legacy exposes the libOVR 0.2 device interface (a single Rift
// object with screen geometry getters and a sensor-fusion prediction delta)
// on top of the 0.3 API in package hmd.
package legacy

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"

	"github.com/gogpu/ovr/hmd"
	"github.com/gogpu/ovr/optics"
)

// DefaultPredictionDelta is the 0.2 sensor fusion default, in seconds.
const DefaultPredictionDelta = 0.03

// ErrInvalidPrediction is returned for a prediction delta that is not positive.
var ErrInvalidPrediction = errors.New("legacy: prediction delta must be positive")

// Rift is a headset in the 0.2 style. Open one with Open and release it
// with Close.
type Rift struct {
	rt      *hmd.Runtime
	dev     *hmd.Device
	profile optics.DeviceOpticalProfile
	delta   float64
	closed  bool
}

// Open acquires rt, opens the first headset (or a DK1 debug device), and
// starts orientation tracking. opts configure how the optical profile is
// read.
func Open(rt *hmd.Runtime, opts ...optics.Option) (*Rift, error) {
	if err := rt.Acquire(); err != nil {
		return nil, err
	}
	dev, err := rt.OpenDevice(hmd.HmdDK1)
	if err != nil {
		return nil, multierr.Append(err, rt.Release())
	}
	caps := hmd.SensorCapsOrientation | hmd.SensorCapsYawCorrection
	if err := dev.StartSensor(caps, 0); err != nil {
		return nil, multierr.Combine(err, dev.Destroy(), rt.Release())
	}
	return &Rift{
		rt:      rt,
		dev:     dev,
		profile: optics.NewProvider(dev, opts...).GetProfile(),
		delta:   DefaultPredictionDelta,
	}, nil
}

// Close stops the sensor, destroys the device and releases the runtime,
// in that order. Closing twice returns hmd.ErrDisposed.
func (r *Rift) Close() error {
	if r.closed {
		return hmd.ErrDisposed
	}
	r.closed = true
	return multierr.Combine(r.dev.StopSensor(), r.dev.Destroy(), r.rt.Release())
}

// Device returns the underlying 0.3 device.
func (r *Rift) Device() *hmd.Device { return r.dev }

// Profile returns the optical profile read when the Rift was opened.
func (r *Rift) Profile() optics.DeviceOpticalProfile { return r.profile }

// IsConnected reports whether a real headset's optics are in use.
func (r *Rift) IsConnected() bool { return r.profile.Connected }

// HResolution is the horizontal resolution of the whole screen.
func (r *Rift) HResolution() int { return r.profile.HResolution }

// VResolution is the vertical resolution of the screen.
func (r *Rift) VResolution() int { return r.profile.VResolution }

// HScreenSize is the horizontal size of the whole screen in meters.
func (r *Rift) HScreenSize() float32 { return r.profile.HScreenSize }

// VScreenSize is the vertical size of the screen in meters.
func (r *Rift) VScreenSize() float32 { return r.profile.VScreenSize }

// VScreenCenter is the distance from the top of the screen to the eye
// center in meters.
func (r *Rift) VScreenCenter() float32 { return r.profile.VScreenCenter }

func (r *Rift) EyeToScreenDistance() float32    { return r.profile.EyeToScreenDistance }
func (r *Rift) LensSeparationDistance() float32 { return r.profile.LensSeparationDistance }
func (r *Rift) InterpupillaryDistance() float32 { return r.profile.InterpupillaryDistance }

// DistortionK returns the radial distortion coefficients.
func (r *Rift) DistortionK() mgl32.Vec4 { return mgl32.Vec4(r.profile.K) }

// ChromaAbAberration returns the chromatic aberration coefficients.
func (r *Rift) ChromaAbAberration() mgl32.Vec4 { return mgl32.Vec4(r.profile.A) }

// DisplayDeviceName returns the OS name of the headset's display.
func (r *Rift) DisplayDeviceName() (string, error) {
	desc, err := r.dev.Desc()
	return desc.DisplayDeviceName, err
}

// PredictionDelta returns how far ahead PredictedOrientation looks, in seconds.
func (r *Rift) PredictionDelta() float32 { return float32(r.delta) }

// SetPredictionDelta sets the prediction interval in seconds.
func (r *Rift) SetPredictionDelta(seconds float32) error {
	if !(seconds > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPrediction, seconds)
	}
	r.delta = float64(seconds)
	return nil
}

// Orientation returns the last recorded orientation.
func (r *Rift) Orientation() (mgl32.Quat, error) {
	st, err := r.state(0)
	return st.Recorded.Pose.Orientation.Quat(), err
}

// PredictedOrientation returns the orientation predicted PredictionDelta
// seconds ahead.
func (r *Rift) PredictedOrientation() (mgl32.Quat, error) {
	st, err := r.state(r.delta)
	return st.Predicted.Pose.Orientation.Quat(), err
}

// Acceleration returns the last linear acceleration reading in m/s².
func (r *Rift) Acceleration() (mgl32.Vec3, error) {
	st, err := r.state(0)
	return st.Recorded.LinearAcceleration.Vec3(), err
}

// AngularVelocity returns the last angular velocity reading in rad/s.
func (r *Rift) AngularVelocity() (mgl32.Vec3, error) {
	st, err := r.state(0)
	return st.Recorded.AngularVelocity.Vec3(), err
}

// ResetSensor re-centers yaw.
func (r *Rift) ResetSensor() error { return r.dev.ResetSensor() }

func (r *Rift) state(ahead float64) (hmd.SensorState, error) {
	now, err := r.dev.Time()
	if err != nil {
		return hmd.SensorState{}, err
	}
	return r.dev.SensorState(now + ahead)
}
