// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hmd

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/gogpu/ovr"
)

// Runtime owns the SDK's global state. Every user calls Acquire before
// opening devices and Release when done; the first Acquire initializes the
// SDK and the last Release shuts it down. A Runtime may be re-acquired after
// it was fully released.
//
// Runtime also tracks every open Device so that teardown destroys handles
// before the SDK shuts down, and so that tests can assert nothing leaked.
type Runtime struct {
	sdk SDK

	mu          sync.Mutex
	refs        int
	initialized bool
	live        map[Handle]*Device
}

// NewRuntime returns a Runtime over sdk. Nothing is initialized until Acquire.
func NewRuntime(sdk SDK) *Runtime {
	return &Runtime{
		sdk:  sdk,
		live: make(map[Handle]*Device),
	}
}

// SDK returns the underlying SDK.
func (r *Runtime) SDK() SDK { return r.sdk }

// Acquire takes a reference, initializing the SDK on the first one.
func (r *Runtime) Acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		if !r.sdk.Initialize() {
			return fmt.Errorf("%w: %s", ErrInitialize, r.sdk.LastError(0))
		}
		r.initialized = true
		ovr.Logger().Info("hmd: SDK initialized")
	}
	r.refs++
	return nil
}

// Release drops a reference. The last release destroys any devices still
// open, in handle order, and then shuts the SDK down. Devices destroyed this
// way are logged as leaks and reported through the returned error.
func (r *Runtime) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		return ErrNotInitialized
	}
	r.refs--
	if r.refs > 0 {
		return nil
	}

	var err error
	if n := len(r.live); n > 0 {
		err = fmt.Errorf("%w: %d device(s) destroyed at shutdown", ErrLeakedHandles, n)
		for _, h := range slices.Sorted(maps.Keys(r.live)) {
			d := r.live[h]
			ovr.Logger().Warn("hmd: device not destroyed before shutdown", "handle", uint64(h), "type", d.desc.Type)
			r.sdk.Destroy(h)
			d.destroyed = true
			delete(r.live, h)
		}
	}
	r.sdk.Shutdown()
	r.initialized = false
	ovr.Logger().Info("hmd: SDK shut down")
	return err
}

// Initialized reports whether the SDK is currently running.
func (r *Runtime) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// Detect returns the number of attached headsets.
func (r *Runtime) Detect() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return 0, ErrNotInitialized
	}
	return r.sdk.Detect(), nil
}

// Time returns the SDK clock in seconds.
func (r *Runtime) Time() (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return 0, ErrNotInitialized
	}
	return r.sdk.TimeInSeconds(), nil
}

// Open opens the headset at index.
func (r *Runtime) Open(index int) (*Device, error) {
	return r.open(func() Handle { return r.sdk.Create(index) }, false)
}

// OpenDebug opens a virtual headset of type t.
func (r *Runtime) OpenDebug(t HmdType) (*Device, error) {
	return r.open(func() Handle { return r.sdk.CreateDebug(t) }, true)
}

// OpenDevice opens the first attached headset. When none is attached or the
// native create fails, it falls back to a debug headset of type debugType so
// that callers keep a usable device without hardware.
func (r *Runtime) OpenDevice(debugType HmdType) (*Device, error) {
	n, err := r.Detect()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		d, err := r.Open(0)
		if err == nil {
			return d, nil
		}
		ovr.Logger().Warn("hmd: falling back to debug device", "err", err)
	} else {
		ovr.Logger().Info("hmd: no headset detected, using debug device", "type", debugType)
	}
	d, err := r.OpenDebug(debugType)
	if err != nil {
		return nil, errors.Join(ErrNoDevice, err)
	}
	return d, nil
}

func (r *Runtime) open(create func() Handle, debug bool) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return nil, ErrNotInitialized
	}
	h := create()
	if h == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCreateFailed, r.sdk.LastError(0))
	}
	d := &Device{
		rt:     r,
		handle: h,
		debug:  debug,
		desc:   r.sdk.Desc(h),
	}
	r.live[h] = d
	ovr.Logger().Info("hmd: device opened",
		"type", d.desc.Type, "product", d.desc.ProductName, "debug", debug)
	return d, nil
}

// LiveHandles returns the number of devices not yet destroyed.
func (r *Runtime) LiveHandles() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// AssertReleased returns ErrLeakedHandles when devices are still open or
// references are still held. Call it at process exit in debug builds and at
// the end of tests.
func (r *Runtime) AssertReleased() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.live) == 0 && r.refs == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d device(s), %d reference(s)", ErrLeakedHandles, len(r.live), r.refs)
}

// destroy closes d. Called by Device.Destroy.
func (r *Runtime) destroy(d *Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return ErrShutdown
	}
	if d.destroyed {
		return ErrDisposed
	}
	r.sdk.Destroy(d.handle)
	d.destroyed = true
	delete(r.live, d.handle)
	return nil
}

// call runs fn with the SDK if d is still usable.
func (r *Runtime) call(d *Device, fn func(SDK, Handle)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return ErrShutdown
	}
	if d.destroyed {
		return ErrDisposed
	}
	fn(r.sdk, d.handle)
	return nil
}
