// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hmd

import (
	"math"
	"sync"
	"time"
)

// NullSDK is an SDK without hardware. Detect always reports zero headsets
// and Create always fails, while CreateDebug returns virtual headsets with
// a stationary sensor and a synthetic refresh clock. It stands in for
// libOVR when the native library is not installed.
type NullSDK struct {
	mu      sync.Mutex
	start   time.Time
	next    Handle
	devices map[Handle]HmdType
	frame   map[Handle]uint32
}

// NewNullSDK returns an SDK with no attached headsets.
func NewNullSDK() *NullSDK {
	return &NullSDK{
		devices: make(map[Handle]HmdType),
		frame:   make(map[Handle]uint32),
	}
}

var _ SDK = (*NullSDK)(nil)

func (s *NullSDK) Initialize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = time.Now()
	return true
}

func (s *NullSDK) Shutdown() {}

func (s *NullSDK) Detect() int { return 0 }

func (s *NullSDK) Create(int) Handle { return 0 }

func (s *NullSDK) CreateDebug(t HmdType) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == HmdNone {
		return 0
	}
	s.next++
	s.devices[s.next] = t
	return s.next
}

func (s *NullSDK) Destroy(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.devices, h)
	delete(s.frame, h)
}

func (s *NullSDK) LastError(h Handle) string {
	if h == 0 {
		return "no HMD detected"
	}
	return ""
}

func (s *NullSDK) Desc(h Handle) HmdDesc {
	s.mu.Lock()
	t := s.devices[h]
	s.mu.Unlock()
	return DebugDesc(t)
}

func (s *NullSDK) EnabledCaps(Handle) HmdCaps { return HmdCapsPresent | HmdCapsAvailable }

func (s *NullSDK) SetEnabledCaps(Handle, HmdCaps) {}

// StartSensor succeeds when only orientation tracking is required.
func (s *NullSDK) StartSensor(_ Handle, _, required SensorCaps) bool {
	return required&^(SensorCapsOrientation|SensorCapsYawCorrection) == 0
}

func (s *NullSDK) StopSensor(Handle) {}

func (s *NullSDK) ResetSensor(Handle) {}

func (s *NullSDK) SensorState(_ Handle, absTime float64) SensorState {
	pose := PoseState{
		Pose:          Posef{Orientation: IdentityQuat},
		TimeInSeconds: absTime,
	}
	return SensorState{Predicted: pose, Recorded: pose}
}

func (s *NullSDK) SensorDesc(Handle) (SensorDesc, bool) {
	return SensorDesc{SerialNumber: "DEBUG"}, true
}

func (s *NullSDK) FovTextureSize(h Handle, _ int32, fov FovPort, pixelsPerDisplayPixel float32) Sizei {
	desc := s.Desc(h)
	return FovTextureSize(desc, fov, pixelsPerDisplayPixel)
}

func (s *NullSDK) BeginFrameTiming(h Handle, frameIndex uint32) FrameTiming {
	s.mu.Lock()
	s.frame[h] = frameIndex
	s.mu.Unlock()
	return s.FrameTiming(h, frameIndex)
}

func (s *NullSDK) EndFrameTiming(Handle) {}

// FrameTiming assumes frames are presented back to back at the model's
// refresh rate, counting from the frame most recently begun or reset.
func (s *NullSDK) FrameTiming(h Handle, frameIndex uint32) FrameTiming {
	s.mu.Lock()
	t := s.devices[h]
	ahead := float64(int64(frameIndex) - int64(s.frame[h]))
	s.mu.Unlock()
	period := 1 / refreshRate(t)
	now := s.TimeInSeconds() + ahead*period
	return FrameTiming{
		DeltaSeconds:           float32(period),
		ThisFrameSeconds:       now,
		TimewarpPointSeconds:   now + 0.8*period,
		NextFrameSeconds:       now + period,
		ScanoutMidpointSeconds: now + 1.5*period,
		EyeScanoutSeconds:      [2]float64{now + 1.25*period, now + 1.75*period},
	}
}

func (s *NullSDK) ResetFrameTiming(h Handle, frameIndex uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame[h] = frameIndex
}

func (s *NullSDK) TimeInSeconds() float64 {
	s.mu.Lock()
	start := s.start
	s.mu.Unlock()
	if start.IsZero() {
		return 0
	}
	return time.Since(start).Seconds()
}

// DebugDesc returns the description libOVR reports for a virtual headset
// of type t. Unknown models describe a DK1.
func DebugDesc(t HmdType) HmdDesc {
	desc := HmdDesc{
		Type:           t,
		ProductName:    "Oculus Rift DK1",
		Manufacturer:   "Oculus VR",
		HmdCaps:        HmdCapsPresent | HmdCapsAvailable,
		SensorCaps:     SensorCapsOrientation | SensorCapsYawCorrection,
		DistortionCaps: DistortionCapsChromatic,
		Resolution:     Sizei{W: 1280, H: 800},
		DefaultEyeFov: [2]FovPort{
			{UpTan: 1.3316, DownTan: 1.3316, LeftTan: 1.0586, RightTan: 1.0920},
			{UpTan: 1.3316, DownTan: 1.3316, LeftTan: 1.0920, RightTan: 1.0586},
		},
		EyeRenderOrder:    [2]int32{0, 1},
		DisplayDeviceName: "DEBUG",
	}
	switch t {
	case HmdNone:
		return HmdDesc{}
	case HmdDK2, HmdCrystalCoveProto:
		desc.ProductName = "Oculus Rift DK2"
		desc.Resolution = Sizei{W: 1920, H: 1080}
		desc.HmdCaps |= HmdCapsLowPersistence | HmdCapsDynamicPrediction
		desc.SensorCaps |= SensorCapsPosition
		desc.DistortionCaps |= DistortionCapsTimeWarp | DistortionCapsVignette
		desc.DefaultEyeFov = [2]FovPort{
			{UpTan: 1.3287, DownTan: 1.3287, LeftTan: 1.0580, RightTan: 1.0923},
			{UpTan: 1.3287, DownTan: 1.3287, LeftTan: 1.0923, RightTan: 1.0580},
		}
		desc.EyeRenderOrder = [2]int32{1, 0}
	case HmdDKHD:
		desc.ProductName = "Oculus Rift DK HD"
		desc.Resolution = Sizei{W: 1920, H: 1080}
	}
	desc.MaxEyeFov = desc.DefaultEyeFov
	return desc
}

// FovTextureSize computes the render size that keeps one render pixel per
// display pixel at the center of the field of view, scaled by
// pixelsPerDisplayPixel.
func FovTextureSize(desc HmdDesc, fov FovPort, pixelsPerDisplayPixel float32) Sizei {
	if desc.Resolution.W == 0 || desc.Resolution.H == 0 {
		return Sizei{}
	}
	def := desc.DefaultEyeFov[0]
	pxPerTanX := float64(desc.Resolution.W) * 0.5 / float64(def.LeftTan+def.RightTan)
	pxPerTanY := float64(desc.Resolution.H) / float64(def.UpTan+def.DownTan)
	w := float64(fov.LeftTan+fov.RightTan) * pxPerTanX * float64(pixelsPerDisplayPixel)
	h := float64(fov.UpTan+fov.DownTan) * pxPerTanY * float64(pixelsPerDisplayPixel)
	return Sizei{W: int32(math.Ceil(w - 1e-3)), H: int32(math.Ceil(h - 1e-3))}
}

func refreshRate(t HmdType) float64 {
	if t == HmdDK2 || t == HmdCrystalCoveProto {
		return 75
	}
	return 60
}
