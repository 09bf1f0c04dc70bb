// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package optics_test

import (
	"math"
	"testing"

	"github.com/gogpu/ovr/hmd"
	"github.com/gogpu/ovr/hmd/hmdtest"
	"github.com/gogpu/ovr/optics"
)

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func openDevice(t *testing.T, sdk *hmdtest.SDK) (*hmd.Runtime, *hmd.Device) {
	t.Helper()
	rt := hmd.NewRuntime(sdk)
	if err := rt.Acquire(); err != nil {
		t.Fatal(err)
	}
	dev, err := rt.OpenDevice(hmd.HmdDK1)
	if err != nil {
		t.Fatal(err)
	}
	return rt, dev
}

func TestFallbackConstants(t *testing.T) {
	p := optics.NewProvider(nil).GetProfile()
	if p.Connected {
		t.Fatal("Connected = true, want false")
	}
	if deg := float64(p.FieldOfView()) * 180 / math.Pi; !approx(deg, 45, 1e-4) {
		t.Errorf("FieldOfView() = %v°, want 45°", deg)
	}
	if got := p.AspectRatio(); got != float32(16.0/9.0) {
		t.Errorf("AspectRatio() = %v, want 16/9", got)
	}
	if want := [4]float32{1, 0.22, 0.24, 0}; p.K != want {
		t.Errorf("K = %v, want %v", p.K, want)
	}
	if want := [4]float32{0.996, -0.004, 1.014, 0}; p.A != want {
		t.Errorf("A = %v, want %v", p.A, want)
	}
	if p.ProjectionCenterOffset() != 0 || p.EyeTranslation() != 0 {
		t.Errorf("offset/translation = %v/%v, want 0/0", p.ProjectionCenterOffset(), p.EyeTranslation())
	}
}

func TestConnectedDK1(t *testing.T) {
	rt, dev := openDevice(t, hmdtest.New())
	defer rt.Release()
	defer dev.Destroy()

	p := optics.NewProvider(dev).GetProfile()
	if !p.Connected || p.Model != "DK1" {
		t.Fatalf("GetProfile() = %+v, want connected DK1", p)
	}
	tests := []struct {
		name string
		got  float32
		want float64
	}{
		{"FieldOfView", p.FieldOfView(), 1.70276},
		{"AspectRatio", p.AspectRatio(), 0.8},
		{"ViewCenter", p.ViewCenter(), 0.03744},
		{"ProjectionCenterOffset", p.ProjectionCenterOffset(), 0.151977},
		{"EyeTranslation", p.EyeTranslation(), 0.00119808},
	}
	for _, tt := range tests {
		if !approx(float64(tt.got), tt.want, 1e-4) {
			t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestProviderFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*hmdtest.SDK)
		opts      []optics.Option
		destroy   bool
		connected bool
	}{
		{"attached", func(*hmdtest.SDK) {}, nil, false, true},
		{"debug device", func(s *hmdtest.SDK) { s.Attached = 0 }, nil, false, false},
		{"trusted debug device", func(s *hmdtest.SDK) { s.Attached = 0 }, []optics.Option{optics.WithDebugOptics()}, false, true},
		{"destroyed device", func(*hmdtest.SDK) {}, nil, true, false},
		{"no display", func(s *hmdtest.SDK) { s.Description.Resolution = hmd.Sizei{} }, nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sdk := hmdtest.New()
			tt.setup(sdk)
			rt, dev := openDevice(t, sdk)
			defer rt.Release()
			if tt.destroy {
				if err := dev.Destroy(); err != nil {
					t.Fatal(err)
				}
			} else {
				defer dev.Destroy()
			}
			p := optics.NewProvider(dev, tt.opts...).GetProfile()
			if p.Connected != tt.connected {
				t.Errorf("Connected = %v, want %v", p.Connected, tt.connected)
			}
		})
	}
}

func TestProviderUsesDeviceResolution(t *testing.T) {
	sdk := hmdtest.New()
	sdk.Description = hmd.DebugDesc(hmd.HmdDK2)
	rt, dev := openDevice(t, sdk)
	defer rt.Release()
	defer dev.Destroy()

	p := optics.NewProvider(dev, optics.WithIPD(0.07)).GetProfile()
	if p.Model != "DK2" || p.HResolution != 1920 || p.VResolution != 1080 {
		t.Errorf("GetProfile() = %s %dx%d, want DK2 1920x1080", p.Model, p.HResolution, p.VResolution)
	}
	if p.InterpupillaryDistance != 0.07 {
		t.Errorf("InterpupillaryDistance = %v, want 0.07", p.InterpupillaryDistance)
	}
}

func TestForModelUnknownUsesDK1(t *testing.T) {
	p := optics.ForModel(hmd.HmdOther)
	if p.Model != "DK1" || !p.Connected {
		t.Errorf("ForModel(Other) = %s connected=%v, want DK1 connected", p.Model, p.Connected)
	}
}
