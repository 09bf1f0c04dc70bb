// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hmd_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/hmd"
	"github.com/gogpu/ovr/hmd/hmdtest"
)

func acquire(t *testing.T, sdk hmd.SDK) *hmd.Runtime {
	t.Helper()
	rt := hmd.NewRuntime(sdk)
	if err := rt.Acquire(); err != nil {
		t.Fatalf("Acquire() = %v", err)
	}
	return rt
}

func TestRuntimeRefcount(t *testing.T) {
	sdk := hmdtest.New()
	rt := hmd.NewRuntime(sdk)

	for range 3 {
		if err := rt.Acquire(); err != nil {
			t.Fatalf("Acquire() = %v", err)
		}
	}
	for i := range 2 {
		if err := rt.Release(); err != nil {
			t.Fatalf("Release() #%d = %v", i, err)
		}
		if !rt.Initialized() {
			t.Fatalf("Initialized() = false after release #%d, want true", i)
		}
	}
	if err := rt.Release(); err != nil {
		t.Fatalf("last Release() = %v", err)
	}
	if rt.Initialized() {
		t.Error("Initialized() = true after last release, want false")
	}
	if err := rt.Release(); !errors.Is(err, hmd.ErrNotInitialized) {
		t.Errorf("extra Release() = %v, want ErrNotInitialized", err)
	}

	want := []string{"Initialize", "Shutdown"}
	if diff := cmp.Diff(want, sdk.Calls()); diff != "" {
		t.Errorf("SDK calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRuntimeReacquire(t *testing.T) {
	sdk := hmdtest.New()
	rt := acquire(t, sdk)
	if err := rt.Release(); err != nil {
		t.Fatal(err)
	}
	if err := rt.Acquire(); err != nil {
		t.Fatalf("re-Acquire() = %v", err)
	}
	defer rt.Release()
	if n, err := rt.Detect(); err != nil || n != 1 {
		t.Errorf("Detect() = %d, %v, want 1, nil", n, err)
	}
}

func TestRuntimeInitializeFailure(t *testing.T) {
	sdk := hmdtest.New()
	sdk.FailInit = true
	rt := hmd.NewRuntime(sdk)
	err := rt.Acquire()
	if !errors.Is(err, hmd.ErrInitialize) {
		t.Fatalf("Acquire() = %v, want ErrInitialize", err)
	}
	if _, err := rt.Detect(); !errors.Is(err, hmd.ErrNotInitialized) {
		t.Errorf("Detect() = %v, want ErrNotInitialized", err)
	}
}

func TestDestroyBeforeShutdown(t *testing.T) {
	sdk := hmdtest.New()
	rt := acquire(t, sdk)
	dev, err := rt.Open(0)
	if err != nil {
		t.Fatalf("Open(0) = %v", err)
	}
	if err := dev.Destroy(); err != nil {
		t.Fatalf("Destroy() = %v", err)
	}
	if err := rt.Release(); err != nil {
		t.Fatalf("Release() = %v", err)
	}

	want := []string{"Initialize", "Create(0)", "Destroy(1)", "Shutdown"}
	if diff := cmp.Diff(want, sdk.Calls()); diff != "" {
		t.Errorf("SDK calls mismatch (-want +got):\n%s", diff)
	}
	if m := sdk.Misuses(); len(m) != 0 {
		t.Errorf("Misuses() = %v, want none", m)
	}
	if err := rt.AssertReleased(); err != nil {
		t.Errorf("AssertReleased() = %v", err)
	}
}

func TestReleaseDestroysLeaksInHandleOrder(t *testing.T) {
	sdk := hmdtest.New()
	rt := acquire(t, sdk)
	for range 4 {
		if _, err := rt.OpenDebug(hmd.HmdDK1); err != nil {
			t.Fatalf("OpenDebug() = %v", err)
		}
	}
	if err := rt.Release(); !errors.Is(err, hmd.ErrLeakedHandles) {
		t.Fatalf("Release() = %v, want ErrLeakedHandles", err)
	}
	calls := sdk.Calls()
	want := []string{"Destroy(1)", "Destroy(2)", "Destroy(3)", "Destroy(4)", "Shutdown"}
	if len(calls) < len(want) {
		t.Fatalf("Calls() = %v", calls)
	}
	if diff := cmp.Diff(want, calls[len(calls)-len(want):]); diff != "" {
		t.Errorf("shutdown calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDeviceTime(t *testing.T) {
	sdk := hmdtest.New()
	sdk.Clock = 12.5
	rt := acquire(t, sdk)
	dev, err := rt.Open(0)
	if err != nil {
		t.Fatalf("Open(0) = %v", err)
	}
	if now, err := dev.Time(); err != nil || now != 12.5 {
		t.Errorf("Time() = %v, %v, want 12.5, nil", now, err)
	}
	if err := dev.Destroy(); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.Time(); !errors.Is(err, hmd.ErrDisposed) {
		t.Errorf("Time() after Destroy = %v, want ErrDisposed", err)
	}
	if err := rt.Release(); err != nil {
		t.Fatal(err)
	}
}

func TestDestroyAfterShutdownRejected(t *testing.T) {
	sdk := hmdtest.New()
	rt := acquire(t, sdk)
	dev, err := rt.Open(0)
	if err != nil {
		t.Fatalf("Open(0) = %v", err)
	}

	// Releasing with the device still open destroys it first and reports the leak.
	if err := rt.Release(); !errors.Is(err, hmd.ErrLeakedHandles) {
		t.Fatalf("Release() = %v, want ErrLeakedHandles", err)
	}
	if err := dev.Destroy(); !errors.Is(err, hmd.ErrShutdown) {
		t.Errorf("Destroy() after shutdown = %v, want ErrShutdown", err)
	}
	if _, err := dev.SensorState(0); !errors.Is(err, hmd.ErrShutdown) {
		t.Errorf("SensorState() after shutdown = %v, want ErrShutdown", err)
	}

	want := []string{"Initialize", "Create(0)", "Destroy(1)", "Shutdown"}
	if diff := cmp.Diff(want, sdk.Calls()); diff != "" {
		t.Errorf("SDK calls mismatch (-want +got):\n%s", diff)
	}
	if m := sdk.Misuses(); len(m) != 0 {
		t.Errorf("Misuses() = %v, want none", m)
	}
}

func TestDisposedDeviceRejected(t *testing.T) {
	sdk := hmdtest.New()
	rt := acquire(t, sdk)
	defer rt.Release()

	dev, err := rt.Open(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Destroy(); err != nil {
		t.Fatal(err)
	}

	checks := map[string]func() error{
		"Destroy":     dev.Destroy,
		"StartSensor": func() error { return dev.StartSensor(hmd.SensorCapsOrientation, 0) },
		"ResetSensor": dev.ResetSensor,
		"StopSensor":  dev.StopSensor,
		"Desc":        func() error { _, err := dev.Desc(); return err },
		"EnabledCaps": func() error { _, err := dev.EnabledCaps(); return err },
		"FrameTiming": func() error { _, err := dev.BeginFrameTiming(1); return err },
		"FovTextureSize": func() error {
			_, err := dev.FovTextureSize(ovr.EyeLeft, hmd.FovPort{}, 1)
			return err
		},
	}
	for name, fn := range checks {
		if err := fn(); !errors.Is(err, hmd.ErrDisposed) {
			t.Errorf("%s() after Destroy = %v, want ErrDisposed", name, err)
		}
	}
	if m := sdk.Misuses(); len(m) != 0 {
		t.Errorf("Misuses() = %v, want none", m)
	}
}

func TestOpenDeviceFallsBackToDebug(t *testing.T) {
	tests := []struct {
		name      string
		attached  int
		failCreat bool
		wantCalls []string
	}{
		{"no headset", 0, false, []string{"Initialize", "Detect", "CreateDebug(DK2)"}},
		{"create fails", 1, true, []string{"Initialize", "Detect", "Create(0)", "CreateDebug(DK2)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sdk := hmdtest.New()
			sdk.Attached = tt.attached
			sdk.FailCreate = tt.failCreat
			rt := acquire(t, sdk)

			dev, err := rt.OpenDevice(hmd.HmdDK2)
			if err != nil {
				t.Fatalf("OpenDevice() = %v", err)
			}
			if !dev.IsDebug() {
				t.Error("IsDebug() = false, want true")
			}
			if diff := cmp.Diff(tt.wantCalls, sdk.Calls()); diff != "" {
				t.Errorf("SDK calls mismatch (-want +got):\n%s", diff)
			}
			if err := dev.Destroy(); err != nil {
				t.Fatal(err)
			}
			if err := rt.Release(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestOpenDeviceNoFallback(t *testing.T) {
	sdk := hmdtest.New()
	sdk.Attached = 0
	sdk.FailDebug = true
	rt := acquire(t, sdk)
	defer rt.Release()

	_, err := rt.OpenDevice(hmd.HmdDK1)
	if !errors.Is(err, hmd.ErrNoDevice) || !errors.Is(err, hmd.ErrCreateFailed) {
		t.Errorf("OpenDevice() = %v, want ErrNoDevice and ErrCreateFailed", err)
	}
}

func TestOpenBeforeAcquire(t *testing.T) {
	rt := hmd.NewRuntime(hmdtest.New())
	if _, err := rt.Open(0); !errors.Is(err, hmd.ErrNotInitialized) {
		t.Errorf("Open() = %v, want ErrNotInitialized", err)
	}
}

func TestStartSensor(t *testing.T) {
	sdk := hmdtest.New()
	rt := acquire(t, sdk)
	defer rt.Release()
	dev, err := rt.Open(0)
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Destroy()

	if err := dev.StartSensor(hmd.SensorCapsOrientation|hmd.SensorCapsYawCorrection, hmd.SensorCapsOrientation); err != nil {
		t.Errorf("StartSensor(orientation) = %v", err)
	}
	if err := dev.StartSensor(0, hmd.SensorCapsPosition); !errors.Is(err, hmd.ErrSensorUnavailable) {
		t.Errorf("StartSensor(position) = %v, want ErrSensorUnavailable", err)
	}
}

func TestSetEnabledCapsMasksReadOnlyBits(t *testing.T) {
	sdk := hmdtest.New()
	rt := acquire(t, sdk)
	defer rt.Release()
	dev, err := rt.Open(0)
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Destroy()

	if err := dev.SetEnabledCaps(hmd.HmdCapsNoVSync | hmd.HmdCapsPresent | hmd.HmdCapsNoRestore); err != nil {
		t.Fatal(err)
	}
	calls := sdk.Calls()
	if got, want := calls[len(calls)-1], "SetEnabledCaps(0x1000)"; got != want {
		t.Errorf("last call = %q, want %q", got, want)
	}
}

func TestAssertReleased(t *testing.T) {
	sdk := hmdtest.New()
	rt := acquire(t, sdk)
	dev, err := rt.Open(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := rt.LiveHandles(); got != 1 {
		t.Errorf("LiveHandles() = %d, want 1", got)
	}
	if err := rt.AssertReleased(); !errors.Is(err, hmd.ErrLeakedHandles) {
		t.Errorf("AssertReleased() with open device = %v, want ErrLeakedHandles", err)
	}
	if err := dev.Destroy(); err != nil {
		t.Fatal(err)
	}
	if err := rt.AssertReleased(); !errors.Is(err, hmd.ErrLeakedHandles) {
		t.Errorf("AssertReleased() with reference held = %v, want ErrLeakedHandles", err)
	}
	if err := rt.Release(); err != nil {
		t.Fatal(err)
	}
	if err := rt.AssertReleased(); err != nil {
		t.Errorf("AssertReleased() = %v, want nil", err)
	}
}
