// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package frame drives the stereo render loop.
//
// A Driver acquires the HMD runtime and a device (a debug device when no
// headset is attached), allocates eye targets on a backend, and then per
// frame renders the scene once per eye, resolves each eye, and warps both
// into the output through the distortion pass:
//
//	Init -> RenderFrame... -> Shutdown
//
// Shutdown releases GPU resources before destroying the device and the
// device before shutting the SDK down.
package frame

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"go.uber.org/multierr"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/distortion"
	"github.com/gogpu/ovr/hmd"
	"github.com/gogpu/ovr/optics"
	"github.com/gogpu/ovr/stereo"
	"github.com/gogpu/ovr/target"
)

var (
	// ErrNotInitialized is returned by RenderFrame and Run before Init.
	ErrNotInitialized = errors.New("frame: driver not initialized")

	// ErrShutDown is returned for any use after Shutdown.
	ErrShutDown = errors.New("frame: driver shut down")
)

// State is the lifecycle state of a Driver.
type State int

const (
	StateNew State = iota
	StateRunning
	StateShutDown
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRunning:
		return "running"
	case StateShutDown:
		return "shut down"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// supportedSensorCaps are requested from every sensor.
const supportedSensorCaps = hmd.SensorCapsOrientation | hmd.SensorCapsYawCorrection | hmd.SensorCapsPosition

// Driver runs the per-frame stereo pipeline. It is not safe for concurrent
// use; one goroutine drives it.
type Driver struct {
	rt   *hmd.Runtime
	opts Options

	state    State
	acquired bool
	sensor   bool

	dev     *hmd.Device
	desc    hmd.HmdDesc
	profile optics.DeviceOpticalProfile
	camera  *stereo.Camera

	backend target.Backend
	targets *target.Manager
	pass    distortion.Pass
	order   [2]ovr.Eye

	displayW, displayH int
	frame              uint32
}

// New returns a Driver that will use rt. Nothing is acquired until Init.
func New(rt *hmd.Runtime, opts Options) *Driver {
	return &Driver{rt: rt, opts: opts.withDefaults()}
}

// State returns the lifecycle state.
func (d *Driver) State() State { return d.state }

// Device returns the open headset, nil before Init.
func (d *Driver) Device() *hmd.Device { return d.dev }

// Profile returns the optical profile in use.
func (d *Driver) Profile() optics.DeviceOpticalProfile { return d.profile }

// Camera returns the stereo camera.
func (d *Driver) Camera() *stereo.Camera { return d.camera }

// Backend returns the target backend.
func (d *Driver) Backend() target.Backend { return d.backend }

// Targets returns the eye target manager.
func (d *Driver) Targets() *target.Manager { return d.targets }

// EyeOrder returns the order eyes are rendered in.
func (d *Driver) EyeOrder() [2]ovr.Eye { return d.order }

// DisplaySize returns the size of the distorted output.
func (d *Driver) DisplaySize() (w, h int) { return d.displayW, d.displayH }

// Frames returns the number of frames rendered.
func (d *Driver) Frames() uint32 { return d.frame }

// Init acquires the runtime and a device, starts the sensor, reads the
// optics and allocates the eye targets and the distortion pass. On
// failure everything acquired so far is released.
func (d *Driver) Init(ctx context.Context) (err error) {
	switch d.state {
	case StateRunning:
		return nil
	case StateShutDown:
		return ErrShutDown
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, d.release())
		}
	}()

	if err := d.rt.Acquire(); err != nil {
		return fmt.Errorf("frame: acquire runtime: %w", err)
	}
	d.acquired = true

	if d.dev, err = d.rt.OpenDevice(d.opts.DebugType); err != nil {
		return fmt.Errorf("frame: open device: %w", err)
	}
	if d.desc, err = d.dev.Desc(); err != nil {
		return fmt.Errorf("frame: device description: %w", err)
	}
	if err := d.dev.StartSensor(supportedSensorCaps, d.opts.RequiredSensorCaps); err != nil {
		if d.opts.RequiredSensorCaps != 0 {
			return fmt.Errorf("frame: %w", err)
		}
		ovr.Logger().Warn("frame: sensor not started, orientation is fixed", "err", err)
	} else {
		d.sensor = true
	}

	var popts []optics.Option
	if d.opts.DebugOptics {
		popts = append(popts, optics.WithDebugOptics())
	}
	if d.opts.IPD > 0 {
		popts = append(popts, optics.WithIPD(d.opts.IPD))
	}
	d.profile = optics.NewProvider(d.dev, popts...).GetProfile()

	d.camera = stereo.NewCamera(d.profile, d.opts.Position, d.opts.Orientation)
	if d.opts.ZNear > 0 {
		d.camera.ZNear = d.opts.ZNear
	}
	if d.opts.ZFar > d.camera.ZNear {
		d.camera.ZFar = d.opts.ZFar
	}
	d.order = eyeOrder(d.desc.EyeRenderOrder)

	d.displayW, d.displayH = d.opts.DisplayWidth, d.opts.DisplayHeight
	if d.profile.Connected {
		d.displayW, d.displayH = d.profile.HResolution, d.profile.VResolution
	}

	if d.backend, err = d.openBackend(); err != nil {
		return err
	}

	d.targets = target.NewManager(d.backend, target.Options{
		Samples:            d.opts.Samples,
		RequireMultisample: d.opts.RequireMultisample,
		Shared:             d.opts.Shared,
		Clear:              d.opts.Scene.Background,
	})
	eyeW, eyeH := d.displayW/2, d.displayH
	renderW, renderH := d.renderSize(eyeW, eyeH)
	if err := d.targets.Allocate(renderW, renderH, eyeW, eyeH); err != nil {
		return fmt.Errorf("frame: allocate eye targets: %w", err)
	}

	if d.pass, err = d.newPass(); err != nil {
		return fmt.Errorf("frame: distortion pass: %w", err)
	}

	d.state = StateRunning
	ovr.Logger().Info("frame: initialized",
		"device", d.desc.ProductName, "connected", d.profile.Connected,
		"backend", d.backend.Name(), "display", fmt.Sprintf("%dx%d", d.displayW, d.displayH),
		"order", fmt.Sprintf("%v,%v", d.order[0], d.order[1]))
	return nil
}

// openBackend initializes the configured backend. With no backend named,
// a default backend that fails to start is replaced by software.
func (d *Driver) openBackend() (target.Backend, error) {
	var (
		b   target.Backend
		err error
	)
	switch {
	case d.opts.Device != nil:
		b, err = providerBackend(d.opts.Device)
	case d.opts.Backend != "":
		b, err = target.Get(d.opts.Backend)
	default:
		b = target.Default()
		if b == nil {
			err = fmt.Errorf("%w: no backend registered", target.ErrBackendNotAvailable)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}

	err = b.Init()
	if err == nil && !b.Capabilities().RenderTargets {
		_ = b.Close()
		err = fmt.Errorf("%w: %s: render targets", target.ErrCapability, b.Name())
	}
	if err == nil {
		return b, nil
	}
	if d.opts.Backend != "" || d.opts.Device != nil || b.Name() == target.BackendSoftware {
		return nil, fmt.Errorf("frame: init %s backend: %w", b.Name(), err)
	}

	ovr.Logger().Warn("frame: backend unavailable, using software", "backend", b.Name(), "err", err)
	sw := target.NewSoftwareBackend()
	if err := sw.Init(); err != nil {
		return nil, fmt.Errorf("frame: init software backend: %w", err)
	}
	return sw, nil
}

// renderSize returns the eye render size: the display size scaled by
// Oversample, or the device's recommended size when Oversample is not
// set. It is never below the display size.
func (d *Driver) renderSize(eyeW, eyeH int) (int, int) {
	w, h := eyeW, eyeH
	if d.opts.Oversample > 0 {
		w = int(math.Ceil(float64(float32(eyeW) * d.opts.Oversample)))
		h = int(math.Ceil(float64(float32(eyeH) * d.opts.Oversample)))
	} else if d.profile.Connected {
		for i, eye := range []ovr.Eye{ovr.EyeLeft, ovr.EyeRight} {
			size, err := d.dev.FovTextureSize(eye, d.desc.DefaultEyeFov[i], 1)
			if err != nil {
				ovr.Logger().Warn("frame: recommended texture size", "eye", eye, "err", err)
				continue
			}
			w, h = max(w, int(size.W)), max(h, int(size.H))
		}
	}
	return max(w, eyeW), max(h, eyeH)
}

func (d *Driver) newPass() (distortion.Pass, error) {
	opts := distortion.Options{
		Chromatic: d.opts.Chromatic,
		Scale:     d.opts.DistortionScale,
		Border:    d.opts.Border,
	}
	if pf, ok := d.backend.(distortion.PassFactory); ok {
		return pf.NewDistortionPass(d.displayW, d.displayH, opts)
	}
	return distortion.NewSoftware(d.displayW, d.displayH, opts)
}

// eyeOrder converts the device's eye render order, falling back to left
// then right when it does not name both eyes.
func eyeOrder(order [2]int32) [2]ovr.Eye {
	if (order == [2]int32{0, 1}) || (order == [2]int32{1, 0}) {
		return [2]ovr.Eye{ovr.Eyes[order[0]], ovr.Eyes[order[1]]}
	}
	return [2]ovr.Eye{ovr.EyeLeft, ovr.EyeRight}
}

// RenderFrame renders, resolves and distorts both eyes and hands the
// result to Options.Present. Frame timing is ended even when a step fails.
func (d *Driver) RenderFrame(ctx context.Context) (err error) {
	switch d.state {
	case StateNew:
		return ErrNotInitialized
	case StateShutDown:
		return ErrShutDown
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	index := d.frame
	timing, err := d.dev.BeginFrameTiming(index)
	if err != nil {
		return fmt.Errorf("frame %d: begin timing: %w", index, err)
	}
	defer func() {
		if eerr := d.dev.EndFrameTiming(); eerr != nil {
			err = multierr.Append(err, fmt.Errorf("frame %d: end timing: %w", index, eerr))
		}
		if err == nil {
			d.frame++
		}
	}()

	if err := d.updateHead(timing); err != nil {
		return fmt.Errorf("frame %d: %w", index, err)
	}
	img, err := d.renderEyes()
	if err != nil {
		return fmt.Errorf("frame %d: %w", index, err)
	}
	if d.opts.Present != nil {
		if err := d.opts.Present(index, img); err != nil {
			return fmt.Errorf("frame %d: present: %w", index, err)
		}
	}
	return nil
}

// updateHead predicts the head orientation at the frame's scanout
// midpoint.
func (d *Driver) updateHead(timing hmd.FrameTiming) error {
	if !d.sensor {
		return nil
	}
	at := timing.ScanoutMidpointSeconds
	if at == 0 {
		now, err := d.dev.Time()
		if err != nil {
			return err
		}
		at = now + d.opts.PredictionDelta
	}
	st, err := d.dev.SensorState(at)
	if err != nil {
		return fmt.Errorf("sensor state: %w", err)
	}
	d.camera.SetHeadOrientation(st.Predicted.Pose.Orientation.Quat())
	return nil
}

func (d *Driver) renderEyes() (image.Image, error) {
	if err := d.pass.BeginFrame(); err != nil {
		return nil, fmt.Errorf("distortion: %w", err)
	}
	for _, eye := range d.order {
		vp := distortion.EyeViewport(eye)
		view := d.camera.EyeView(eye, vp, d.opts.DistortionScale)

		et, err := d.targets.BeginEyePass(eye)
		if err != nil {
			return nil, err
		}
		if err := et.Draw(d.opts.Scene, view.View, view.Projection); err != nil {
			return nil, fmt.Errorf("draw %v eye: %w", eye, err)
		}
		if err := d.targets.Resolve(eye); err != nil {
			return nil, err
		}
		tex, err := d.targets.GetResolvedTexture(eye)
		if err != nil {
			return nil, err
		}
		d.pass.SetEyeUniforms(eye, d.profile, vp)
		if err := d.pass.Draw(tex); err != nil {
			return nil, fmt.Errorf("distort %v eye: %w", eye, err)
		}
	}
	return d.pass.EndFrame()
}

// Run renders frames until ctx is done or MaxFrames frames have been
// rendered. Both end the loop after the current frame and return nil.
func (d *Driver) Run(ctx context.Context) error {
	for d.opts.MaxFrames <= 0 || int(d.frame) < d.opts.MaxFrames {
		if ctx.Err() != nil {
			ovr.Logger().Info("frame: stopped", "frames", d.frame, "reason", ctx.Err())
			return nil
		}
		if err := d.RenderFrame(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		}
	}
	ovr.Logger().Info("frame: done", "frames", d.frame)
	return nil
}

// Shutdown releases the distortion pass, the eye targets and the backend,
// then destroys the device, then releases the runtime. Every step runs;
// their errors are combined. A second Shutdown returns ErrShutDown.
func (d *Driver) Shutdown() error {
	if d.state == StateShutDown {
		return ErrShutDown
	}
	err := d.release()
	d.state = StateShutDown
	ovr.Logger().Info("frame: shut down", "frames", d.frame, "err", err)
	return err
}

func (d *Driver) release() error {
	var err error
	if d.pass != nil {
		err = multierr.Append(err, d.pass.Destroy())
		d.pass = nil
	}
	if d.targets != nil {
		err = multierr.Append(err, d.targets.Destroy())
		d.targets = nil
	}
	if d.backend != nil {
		err = multierr.Append(err, d.backend.Close())
		d.backend = nil
	}
	if d.dev != nil {
		if d.sensor {
			err = multierr.Append(err, d.dev.StopSensor())
			d.sensor = false
		}
		err = multierr.Append(err, d.dev.Destroy())
		d.dev = nil
	}
	if d.acquired {
		err = multierr.Append(err, d.rt.Release())
		d.acquired = false
	}
	return err
}
