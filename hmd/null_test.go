// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hmd

import (
	"errors"
	"testing"
)

func TestNullSDKOpenDevice(t *testing.T) {
	rt := NewRuntime(NewNullSDK())
	if err := rt.Acquire(); err != nil {
		t.Fatal(err)
	}
	if _, err := rt.Open(0); !errors.Is(err, ErrCreateFailed) {
		t.Errorf("Open(0) = %v, want ErrCreateFailed", err)
	}

	dev, err := rt.OpenDevice(HmdDK1)
	if err != nil {
		t.Fatalf("OpenDevice() = %v", err)
	}
	desc, err := dev.Desc()
	if err != nil {
		t.Fatal(err)
	}
	if desc.Type != HmdDK1 || desc.Resolution != (Sizei{W: 1280, H: 800}) {
		t.Errorf("Desc() = %v %v, want DK1 1280x800", desc.Type, desc.Resolution)
	}
	st, err := dev.SensorState(2.5)
	if err != nil {
		t.Fatal(err)
	}
	if st.Predicted.Pose.Orientation != IdentityQuat || st.Predicted.TimeInSeconds != 2.5 {
		t.Errorf("SensorState(2.5) = %+v, want identity at 2.5", st.Predicted)
	}
	if err := dev.Destroy(); err != nil {
		t.Fatal(err)
	}
	if err := rt.Release(); err != nil {
		t.Fatal(err)
	}
}

func TestNullSDKFrameTiming(t *testing.T) {
	s := NewNullSDK()
	s.Initialize()
	h := s.CreateDebug(HmdDK2)
	ft := s.BeginFrameTiming(h, 1)
	if ft.DeltaSeconds <= 0 {
		t.Fatalf("DeltaSeconds = %v, want > 0", ft.DeltaSeconds)
	}
	if !(ft.ThisFrameSeconds < ft.NextFrameSeconds && ft.NextFrameSeconds < ft.ScanoutMidpointSeconds) {
		t.Errorf("timing not ordered: %+v", ft)
	}
	if got, want := 1/float64(ft.DeltaSeconds), 75.0; got < want-0.01 || got > want+0.01 {
		t.Errorf("refresh = %v Hz, want %v", got, want)
	}
}

func TestFovTextureSize(t *testing.T) {
	dk1 := DebugDesc(HmdDK1)
	tests := []struct {
		name string
		ppd  float32
		want Sizei
	}{
		{"native", 1, Sizei{W: 640, H: 800}},
		{"oversampled", 2, Sizei{W: 1280, H: 1600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FovTextureSize(dk1, dk1.DefaultEyeFov[0], tt.ppd)
			if got != tt.want {
				t.Errorf("FovTextureSize() = %v, want %v", got, tt.want)
			}
		})
	}
	if got := FovTextureSize(HmdDesc{}, FovPort{}, 1); got != (Sizei{}) {
		t.Errorf("FovTextureSize(empty) = %v, want zero", got)
	}
}

func TestDebugDesc(t *testing.T) {
	tests := []struct {
		typ     HmdType
		present bool
		width   int32
		order   [2]int32
	}{
		{HmdNone, false, 0, [2]int32{}},
		{HmdDK1, true, 1280, [2]int32{0, 1}},
		{HmdDK2, true, 1920, [2]int32{1, 0}},
		{HmdOther, true, 1280, [2]int32{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			d := DebugDesc(tt.typ)
			if d.Present() != tt.present {
				t.Errorf("Present() = %v, want %v", d.Present(), tt.present)
			}
			if d.Resolution.W != tt.width {
				t.Errorf("Resolution.W = %d, want %d", d.Resolution.W, tt.width)
			}
			if d.EyeRenderOrder != tt.order {
				t.Errorf("EyeRenderOrder = %v, want %v", d.EyeRenderOrder, tt.order)
			}
		})
	}
}

func TestParseHmdType(t *testing.T) {
	for _, want := range []HmdType{HmdDK1, HmdDKHD, HmdCrystalCoveProto, HmdDK2, HmdOther} {
		got, err := ParseHmdType(want.String())
		if err != nil || got != want {
			t.Errorf("ParseHmdType(%q) = %v, %v, want %v", want.String(), got, err, want)
		}
	}
	if _, err := ParseHmdType("Vive"); err == nil {
		t.Error("ParseHmdType(\"Vive\") = nil error, want error")
	}
}
