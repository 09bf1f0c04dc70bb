// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan HAL backend.
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/ovr/target"
)

// ErrNoGPU is returned when no usable adapter is found.
var ErrNoGPU = errors.New("gpu: no GPU adapter found")

// deviceHandle bundles the HAL objects a backend renders with.
type deviceHandle struct {
	instance hal.Instance
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue
	name     string
	limits   gputypes.Limits

	// owned is set when the backend opened the device and must destroy it.
	owned bool
}

// openDevice creates an instance of the HAL backend variant and opens the
// first discrete or integrated GPU, falling back to the first adapter.
func openDevice(variant gputypes.Backend) (*deviceHandle, error) {
	backend, ok := hal.GetBackend(variant)
	if !ok {
		return nil, fmt.Errorf("%w: HAL backend %v not registered", ErrNoGPU, variant)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoGPU, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open %s: %w", ErrNoGPU, selected.Info.Name, err)
	}
	slogger().Info("gpu: device opened", "adapter", selected.Info.Name, "type", selected.Info.DeviceType)
	return &deviceHandle{
		instance: instance,
		adapter:  selected.Adapter,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
		limits:   selected.Capabilities.Limits,
		owned:    true,
	}, nil
}

// halDevicer is implemented by device providers that wrap a HAL device.
type halDevicer interface {
	HalDevice() any
	HalQueue() any
}

// deviceFromProvider extracts HAL objects from a host device provider.
// The device and queue are used directly when they are HAL objects, or
// through HalDevice and HalQueue otherwise.
func deviceFromProvider(p target.DeviceHandle) (*deviceHandle, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil device provider", target.ErrCapability)
	}
	device, _ := p.Device().(hal.Device)
	queue, _ := p.Queue().(hal.Queue)
	if hd, ok := p.(halDevicer); ok && (device == nil || queue == nil) {
		device, _ = hd.HalDevice().(hal.Device)
		queue, _ = hd.HalQueue().(hal.Queue)
	}
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: provider %T has no HAL device", target.ErrCapability, p)
	}
	adapter, _ := p.Adapter().(hal.Adapter)
	name := "shared"
	if ai, ok := p.(interface{ AdapterInfo() gpucontext.AdapterInfo }); ok && ai.AdapterInfo().Name != "" {
		name = ai.AdapterInfo().Name
	}
	return &deviceHandle{
		adapter: adapter,
		device:  device,
		queue:   queue,
		name:    name,
		limits:  gputypes.DefaultLimits(),
	}, nil
}

// destroy releases the device and instance if they are owned.
func (h *deviceHandle) destroy() {
	if !h.owned {
		return
	}
	if h.device != nil {
		h.device.Destroy()
	}
	if h.instance != nil {
		h.instance.Destroy()
	}
	h.device, h.queue, h.instance = nil, nil, nil
}
