// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package hmdtest provides a scriptable hmd.SDK for tests.
package hmdtest

import (
	"fmt"
	"sync"

	"github.com/gogpu/ovr/hmd"
)

// SDK is a fake hmd.SDK. Exported fields script its behavior and must be
// set before use; Calls records every method invoked, in order.
type SDK struct {
	// Attached is the number of headsets Detect reports.
	Attached int
	// Description is returned by Desc for every handle.
	Description hmd.HmdDesc
	// FailInit makes Initialize return false.
	FailInit bool
	// FailCreate makes Create return 0.
	FailCreate bool
	// FailDebug makes CreateDebug return 0.
	FailDebug bool
	// SensorCaps are the capabilities StartSensor can satisfy.
	SensorCaps hmd.SensorCaps
	// State is returned by SensorState, with TimeInSeconds set to the query time.
	State hmd.SensorState
	// Clock is returned by TimeInSeconds and advanced by Tick.
	Clock float64

	mu      sync.Mutex
	calls   []string
	next    hmd.Handle
	open    map[hmd.Handle]bool
	inited  bool
	misuses []string
}

// New returns a fake with one attached DK1 whose sensor supports orientation
// and yaw correction.
func New() *SDK {
	desc := hmd.DebugDesc(hmd.HmdDK1)
	desc.DisplayDeviceName = `\\.\DISPLAY2`
	return &SDK{
		Attached:    1,
		Description: desc,
		SensorCaps:  hmd.SensorCapsOrientation | hmd.SensorCapsYawCorrection,
		State: hmd.SensorState{
			Predicted: hmd.PoseState{Pose: hmd.Posef{Orientation: hmd.IdentityQuat}},
			Recorded:  hmd.PoseState{Pose: hmd.Posef{Orientation: hmd.IdentityQuat}},
		},
	}
}

var _ hmd.SDK = (*SDK)(nil)

func (s *SDK) record(format string, args ...any) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

// checkHandle notes calls made with a handle that is not open or while the
// SDK is not initialized. Callers hold s.mu.
func (s *SDK) checkHandle(op string, h hmd.Handle) {
	if !s.inited {
		s.misuses = append(s.misuses, fmt.Sprintf("%s after shutdown", op))
		return
	}
	if !s.open[h] {
		s.misuses = append(s.misuses, fmt.Sprintf("%s on closed handle %d", op, h))
	}
}

// Calls returns the recorded call log.
func (s *SDK) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Misuses returns every call that reached the SDK with a dead handle or
// after Shutdown. A correct owner never produces any.
func (s *SDK) Misuses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.misuses...)
}

// Open returns the number of handles not yet destroyed.
func (s *SDK) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

// Tick advances the clock.
func (s *SDK) Tick(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clock += seconds
}

func (s *SDK) Initialize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Initialize")
	if s.FailInit {
		return false
	}
	s.inited = true
	if s.open == nil {
		s.open = make(map[hmd.Handle]bool)
	}
	return true
}

func (s *SDK) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Shutdown")
	if len(s.open) > 0 {
		s.misuses = append(s.misuses, fmt.Sprintf("Shutdown with %d open handle(s)", len(s.open)))
	}
	s.inited = false
}

func (s *SDK) Detect() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Detect")
	return s.Attached
}

func (s *SDK) Create(index int) hmd.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Create(%d)", index)
	if s.FailCreate || index >= s.Attached {
		return 0
	}
	return s.newHandle()
}

func (s *SDK) CreateDebug(t hmd.HmdType) hmd.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("CreateDebug(%s)", t)
	if s.FailDebug {
		return 0
	}
	return s.newHandle()
}

func (s *SDK) newHandle() hmd.Handle {
	s.next++
	s.open[s.next] = true
	return s.next
}

func (s *SDK) Destroy(h hmd.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Destroy(%d)", h)
	s.checkHandle("Destroy", h)
	delete(s.open, h)
}

func (s *SDK) LastError(h hmd.Handle) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == 0 && (s.FailCreate || s.Attached == 0) {
		return "no HMD detected"
	}
	if s.FailInit {
		return "initialization failed"
	}
	return ""
}

func (s *SDK) Desc(h hmd.Handle) hmd.HmdDesc {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkHandle("Desc", h)
	return s.Description
}

func (s *SDK) EnabledCaps(h hmd.Handle) hmd.HmdCaps {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkHandle("EnabledCaps", h)
	return s.Description.HmdCaps
}

func (s *SDK) SetEnabledCaps(h hmd.Handle, caps hmd.HmdCaps) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("SetEnabledCaps(%#x)", uint32(caps))
	s.checkHandle("SetEnabledCaps", h)
	s.Description.HmdCaps = s.Description.HmdCaps&^hmd.HmdCapsWritableMask | caps
}

func (s *SDK) StartSensor(h hmd.Handle, _, required hmd.SensorCaps) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("StartSensor(%#x)", uint32(required))
	s.checkHandle("StartSensor", h)
	return required&^s.SensorCaps == 0
}

func (s *SDK) StopSensor(h hmd.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("StopSensor")
	s.checkHandle("StopSensor", h)
}

func (s *SDK) ResetSensor(h hmd.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ResetSensor")
	s.checkHandle("ResetSensor", h)
}

func (s *SDK) SensorState(h hmd.Handle, absTime float64) hmd.SensorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkHandle("SensorState", h)
	st := s.State
	st.Predicted.TimeInSeconds = absTime
	return st
}

func (s *SDK) SensorDesc(h hmd.Handle) (hmd.SensorDesc, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkHandle("SensorDesc", h)
	return hmd.SensorDesc{VendorID: 0x2833, ProductID: 0x0001, SerialNumber: "FAKE0001"}, true
}

func (s *SDK) FovTextureSize(h hmd.Handle, _ int32, fov hmd.FovPort, ppd float32) hmd.Sizei {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkHandle("FovTextureSize", h)
	return hmd.FovTextureSize(s.Description, fov, ppd)
}

func (s *SDK) BeginFrameTiming(h hmd.Handle, frameIndex uint32) hmd.FrameTiming {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("BeginFrameTiming(%d)", frameIndex)
	s.checkHandle("BeginFrameTiming", h)
	return s.timing()
}

func (s *SDK) EndFrameTiming(h hmd.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("EndFrameTiming")
	s.checkHandle("EndFrameTiming", h)
}

func (s *SDK) FrameTiming(h hmd.Handle, _ uint32) hmd.FrameTiming {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkHandle("FrameTiming", h)
	return s.timing()
}

func (s *SDK) ResetFrameTiming(h hmd.Handle, frameIndex uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ResetFrameTiming(%d)", frameIndex)
	s.checkHandle("ResetFrameTiming", h)
}

func (s *SDK) timing() hmd.FrameTiming {
	const period = 1.0 / 60
	return hmd.FrameTiming{
		DeltaSeconds:           period,
		ThisFrameSeconds:       s.Clock,
		NextFrameSeconds:       s.Clock + period,
		ScanoutMidpointSeconds: s.Clock + 1.5*period,
	}
}

func (s *SDK) TimeInSeconds() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Clock
}
