// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build (linux || darwin) && (amd64 || arm64)

package native

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/hmd"
)

// cHmdDesc mirrors ovrHmdDesc. Natural Go alignment reproduces the C
// padding after Type and EyeRenderOrder; long is 64 bits on the supported
// targets.
type cHmdDesc struct {
	Handle            uintptr
	Type              int32
	ProductName       *byte
	Manufacturer      *byte
	HmdCaps           uint32
	SensorCaps        uint32
	DistortionCaps    uint32
	Resolution        hmd.Sizei
	WindowsPos        hmd.Vector2i
	DefaultEyeFov     [2]hmd.FovPort
	MaxEyeFov         [2]hmd.FovPort
	EyeRenderOrder    [2]int32
	DisplayDeviceName *byte
	DisplayID         int64
}

// cSensorDesc mirrors ovrSensorDesc.
type cSensorDesc struct {
	VendorID     int16
	ProductID    int16
	SerialNumber [24]byte
}

// Return types of the by-value struct results. Both are larger than two
// registers, so they come back through a hidden result pointer.
var (
	sensorStateType = &types.TypeDescriptor{
		Size: unsafe.Sizeof(hmd.SensorState{}), Alignment: 8, Kind: types.StructType,
	}
	frameTimingType = &types.TypeDescriptor{
		Size: unsafe.Sizeof(hmd.FrameTiming{}), Alignment: 8, Kind: types.StructType,
	}
)

// proc is one resolved entry point with its prepared call interface.
type proc struct {
	name string
	sym  unsafe.Pointer
	cif  types.CallInterface
}

// call invokes p. ret points at storage for the result, or is nil for
// void functions.
func (p *proc) call(ret unsafe.Pointer, args ...unsafe.Pointer) {
	if err := ffi.CallFunction(&p.cif, p.sym, ret, args); err != nil {
		ovr.Logger().Error("native: call failed", "func", p.name, "err", err)
	}
}

// SDK is the libOVR binding. Create it with Load.
type SDK struct {
	lib unsafe.Pointer

	initialize, shutdown                    proc
	detect, create, createDebug, destroy    proc
	lastError                               proc
	getDesc, getEnabledCaps, setEnabledCaps proc
	startSensor, stopSensor, resetSensor    proc
	getSensorState, getSensorDesc           proc
	getFovTextureSize                       proc
	beginFrameTiming, endFrameTiming        proc
	getFrameTiming, resetFrameTiming        proc
	getTimeInSeconds                        proc
}

var _ hmd.SDK = (*SDK)(nil)

func defaultLibraries() []string {
	if runtime.GOOS == "darwin" {
		return []string{"libOVR.dylib", "libovr.dylib"}
	}
	return []string{"libOVR.so", "libovr.so", "libOVR.so.0"}
}

// Load opens libOVR and resolves every entry point. A missing symbol fails
// the load instead of failing on first use.
func Load(path string) (*SDK, error) {
	names := defaultLibraries()
	if path != "" {
		names = []string{path}
	}

	var (
		lib unsafe.Pointer
		err error
	)
	for _, name := range names {
		lib, err = ffi.LoadLibrary(name)
		if err == nil {
			ovr.Logger().Info("native: loaded libOVR", "path", name)
			break
		}
	}
	if lib == nil {
		return nil, fmt.Errorf("native: open libOVR: %w", err)
	}

	var (
		void   = types.VoidTypeDescriptor
		boolT  = types.UInt8TypeDescriptor // ovrBool is a char
		intT   = types.SInt32TypeDescriptor
		uintT  = types.UInt32TypeDescriptor
		double = types.DoubleTypeDescriptor
		ptr    = types.PointerTypeDescriptor
	)
	s := &SDK{lib: lib}
	procs := []struct {
		p    *proc
		name string
		ret  *types.TypeDescriptor
		args []*types.TypeDescriptor
	}{
		{&s.initialize, "ovr_Initialize", boolT, nil},
		{&s.shutdown, "ovr_Shutdown", void, nil},
		{&s.detect, "ovrHmd_Detect", intT, nil},
		{&s.create, "ovrHmd_Create", ptr, []*types.TypeDescriptor{intT}},
		{&s.createDebug, "ovrHmd_CreateDebug", ptr, []*types.TypeDescriptor{intT}},
		{&s.destroy, "ovrHmd_Destroy", void, []*types.TypeDescriptor{ptr}},
		{&s.lastError, "ovrHmd_GetLastError", ptr, []*types.TypeDescriptor{ptr}},
		{&s.getDesc, "ovrHmd_GetDesc", void, []*types.TypeDescriptor{ptr, ptr}},
		{&s.getEnabledCaps, "ovrHmd_GetEnabledCaps", uintT, []*types.TypeDescriptor{ptr}},
		{&s.setEnabledCaps, "ovrHmd_SetEnabledCaps", void, []*types.TypeDescriptor{ptr, uintT}},
		{&s.startSensor, "ovrHmd_StartSensor", boolT, []*types.TypeDescriptor{ptr, uintT, uintT}},
		{&s.stopSensor, "ovrHmd_StopSensor", void, []*types.TypeDescriptor{ptr}},
		{&s.resetSensor, "ovrHmd_ResetSensor", void, []*types.TypeDescriptor{ptr}},
		{&s.getSensorState, "ovrHmd_GetSensorState", sensorStateType, []*types.TypeDescriptor{ptr, double}},
		{&s.getSensorDesc, "ovrHmd_GetSensorDesc", boolT, []*types.TypeDescriptor{ptr, ptr}},
		// ovrSizei is two ints and comes back in one register.
		{&s.getFovTextureSize, "ovrHmd_GetFovTextureSize", types.UInt64TypeDescriptor,
			append(append([]*types.TypeDescriptor{ptr, intT}, fovPortArgs...), types.FloatTypeDescriptor)},
		{&s.beginFrameTiming, "ovrHmd_BeginFrameTiming", frameTimingType, []*types.TypeDescriptor{ptr, uintT}},
		{&s.endFrameTiming, "ovrHmd_EndFrameTiming", void, []*types.TypeDescriptor{ptr}},
		{&s.getFrameTiming, "ovrHmd_GetFrameTiming", frameTimingType, []*types.TypeDescriptor{ptr, uintT}},
		{&s.resetFrameTiming, "ovrHmd_ResetFrameTiming", void, []*types.TypeDescriptor{ptr, uintT}},
		{&s.getTimeInSeconds, "ovr_GetTimeInSeconds", double, nil},
	}
	for _, pr := range procs {
		sym, err := ffi.GetSymbol(lib, pr.name)
		if err == nil {
			err = ffi.PrepareCallInterface(&pr.p.cif, types.DefaultCall, pr.ret, pr.args)
		}
		if err != nil {
			_ = ffi.FreeLibrary(lib)
			return nil, fmt.Errorf("native: resolve %s: %w", pr.name, err)
		}
		pr.p.name, pr.p.sym = pr.name, sym
	}
	return s, nil
}

// Close unloads the library. No SDK method may be called afterwards.
func (s *SDK) Close() error {
	return ffi.FreeLibrary(s.lib)
}

func handleArg(h *hmd.Handle) unsafe.Pointer { return unsafe.Pointer(h) }

func (s *SDK) Initialize() bool {
	var ok uint8
	s.initialize.call(unsafe.Pointer(&ok))
	return ok != 0
}

func (s *SDK) Shutdown() { s.shutdown.call(nil) }

func (s *SDK) Detect() int {
	var n int32
	s.detect.call(unsafe.Pointer(&n))
	return int(n)
}

func (s *SDK) Create(index int) hmd.Handle {
	var h hmd.Handle
	i := int32(index)
	s.create.call(unsafe.Pointer(&h), unsafe.Pointer(&i))
	return h
}

func (s *SDK) CreateDebug(t hmd.HmdType) hmd.Handle {
	var h hmd.Handle
	i := int32(t)
	s.createDebug.call(unsafe.Pointer(&h), unsafe.Pointer(&i))
	return h
}

func (s *SDK) Destroy(h hmd.Handle) { s.destroy.call(nil, handleArg(&h)) }

func (s *SDK) LastError(h hmd.Handle) string {
	var msg *byte
	s.lastError.call(unsafe.Pointer(&msg), handleArg(&h))
	return cString(msg)
}

func (s *SDK) Desc(h hmd.Handle) hmd.HmdDesc {
	var c cHmdDesc
	p := &c
	s.getDesc.call(nil, handleArg(&h), unsafe.Pointer(&p))
	return hmd.HmdDesc{
		Type:              hmd.HmdType(c.Type),
		ProductName:       cString(c.ProductName),
		Manufacturer:      cString(c.Manufacturer),
		HmdCaps:           hmd.HmdCaps(c.HmdCaps),
		SensorCaps:        hmd.SensorCaps(c.SensorCaps),
		DistortionCaps:    hmd.DistortionCaps(c.DistortionCaps),
		Resolution:        c.Resolution,
		WindowsPos:        c.WindowsPos,
		DefaultEyeFov:     c.DefaultEyeFov,
		MaxEyeFov:         c.MaxEyeFov,
		EyeRenderOrder:    c.EyeRenderOrder,
		DisplayDeviceName: cString(c.DisplayDeviceName),
		DisplayID:         int32(c.DisplayID),
	}
}

func (s *SDK) EnabledCaps(h hmd.Handle) hmd.HmdCaps {
	var caps uint32
	s.getEnabledCaps.call(unsafe.Pointer(&caps), handleArg(&h))
	return hmd.HmdCaps(caps)
}

func (s *SDK) SetEnabledCaps(h hmd.Handle, caps hmd.HmdCaps) {
	c := uint32(caps)
	s.setEnabledCaps.call(nil, handleArg(&h), unsafe.Pointer(&c))
}

func (s *SDK) StartSensor(h hmd.Handle, supported, required hmd.SensorCaps) bool {
	var ok uint8
	sup, req := uint32(supported), uint32(required)
	s.startSensor.call(unsafe.Pointer(&ok), handleArg(&h), unsafe.Pointer(&sup), unsafe.Pointer(&req))
	return ok != 0
}

func (s *SDK) StopSensor(h hmd.Handle)  { s.stopSensor.call(nil, handleArg(&h)) }
func (s *SDK) ResetSensor(h hmd.Handle) { s.resetSensor.call(nil, handleArg(&h)) }

func (s *SDK) SensorState(h hmd.Handle, absTime float64) hmd.SensorState {
	var st hmd.SensorState
	s.getSensorState.call(unsafe.Pointer(&st), handleArg(&h), unsafe.Pointer(&absTime))
	return st
}

func (s *SDK) SensorDesc(h hmd.Handle) (hmd.SensorDesc, bool) {
	var (
		c  cSensorDesc
		ok uint8
	)
	p := &c
	s.getSensorDesc.call(unsafe.Pointer(&ok), handleArg(&h), unsafe.Pointer(&p))
	if ok == 0 {
		return hmd.SensorDesc{}, false
	}
	return hmd.SensorDesc{
		VendorID:     c.VendorID,
		ProductID:    c.ProductID,
		SerialNumber: fixedString(c.SerialNumber[:]),
	}, true
}

func (s *SDK) FovTextureSize(h hmd.Handle, eye int32, fov hmd.FovPort, ppd float32) hmd.Sizei {
	var packed uint64
	args := append([]unsafe.Pointer{handleArg(&h), unsafe.Pointer(&eye)}, fovPortValues(&fov)...)
	args = append(args, unsafe.Pointer(&ppd))
	s.getFovTextureSize.call(unsafe.Pointer(&packed), args...)
	return unpackSizei(packed)
}

func (s *SDK) BeginFrameTiming(h hmd.Handle, frameIndex uint32) hmd.FrameTiming {
	var ft hmd.FrameTiming
	s.beginFrameTiming.call(unsafe.Pointer(&ft), handleArg(&h), unsafe.Pointer(&frameIndex))
	return ft
}

func (s *SDK) EndFrameTiming(h hmd.Handle) { s.endFrameTiming.call(nil, handleArg(&h)) }

func (s *SDK) FrameTiming(h hmd.Handle, frameIndex uint32) hmd.FrameTiming {
	var ft hmd.FrameTiming
	s.getFrameTiming.call(unsafe.Pointer(&ft), handleArg(&h), unsafe.Pointer(&frameIndex))
	return ft
}

func (s *SDK) ResetFrameTiming(h hmd.Handle, frameIndex uint32) {
	s.resetFrameTiming.call(nil, handleArg(&h), unsafe.Pointer(&frameIndex))
}

func (s *SDK) TimeInSeconds() float64 {
	var now float64
	s.getTimeInSeconds.call(unsafe.Pointer(&now))
	return now
}
