// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ovr/distortion"
	"github.com/gogpu/ovr/target"
)

// ErrNotInitialized is returned when allocating before Init.
var ErrNotInitialized = errors.New("gpu: backend not initialized")

func init() {
	target.Register(target.BackendVulkan, func() target.Backend {
		return NewBackend()
	})
}

// Backend allocates eye targets and distortion passes on a wgpu HAL
// device. It implements target.Backend and distortion.PassFactory.
type Backend struct {
	mu sync.RWMutex

	handle *deviceHandle
	pipes  *pipelines
	memory *memoryBudget

	initialized bool
}

// NewBackend creates a backend that opens its own Vulkan device in Init.
func NewBackend() *Backend {
	return &Backend{memory: newMemoryBudget(DefaultMaxMemoryMB)}
}

// NewBackendFromDevice creates a backend that renders with an existing
// device. adapter may be nil; it is only used to query multisample
// support. The device is not destroyed by Close.
func NewBackendFromDevice(device hal.Device, queue hal.Queue, adapter hal.Adapter) *Backend {
	return &Backend{
		handle: &deviceHandle{
			adapter: adapter,
			device:  device,
			queue:   queue,
			name:    "shared",
			limits:  gputypes.DefaultLimits(),
		},
		memory: newMemoryBudget(DefaultMaxMemoryMB),
	}
}

// NewBackendFromProvider creates a backend that renders with the device
// of a host application. It fails with target.ErrCapability when the
// provider has no HAL device.
func NewBackendFromProvider(p target.DeviceHandle) (*Backend, error) {
	h, err := deviceFromProvider(p)
	if err != nil {
		return nil, err
	}
	return &Backend{handle: h, memory: newMemoryBudget(DefaultMaxMemoryMB)}, nil
}

// Name returns target.BackendVulkan.
func (b *Backend) Name() string { return target.BackendVulkan }

// Init opens the device, unless one was supplied, and creates the render
// pipelines. Calling Init again is a no-op.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if b.handle == nil {
		h, err := openDevice(gputypes.BackendVulkan)
		if err != nil {
			return err
		}
		b.handle = h
	}
	pipes, err := createPipelines(b.handle.device)
	if err != nil {
		if b.handle.owned {
			b.handle.destroy()
			b.handle = nil
		}
		return fmt.Errorf("gpu: init: %w", err)
	}
	b.pipes = pipes
	b.initialized = true
	slogger().Info("gpu: backend initialized", "device", b.handle.name, "owned", b.handle.owned)
	return nil
}

// Close releases the pipelines and, if the backend opened it, the device.
// Eye targets and distortion passes must be destroyed first.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil
	}
	if err := b.handle.device.WaitIdle(); err != nil {
		slogger().Warn("gpu: wait idle on close", "err", err)
	}
	b.pipes.destroy()
	b.pipes = nil
	if b.handle.owned {
		b.handle.destroy()
		b.handle = nil
	}
	b.initialized = false
	slogger().Info("gpu: backend closed")
	return nil
}

// IsInitialized reports whether Init succeeded and Close has not been
// called.
func (b *Backend) IsInitialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

// Capabilities reports render target support once initialized. MaxSamples
// is 4 when the color format supports multisampling, 1 otherwise.
func (b *Backend) Capabilities() target.Capabilities {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return target.Capabilities{}
	}
	maxSamples := sampleCount
	if a := b.handle.adapter; a != nil {
		flags := a.TextureFormatCapabilities(colorFormat).Flags
		if flags&hal.TextureFormatCapabilityMultisample == 0 ||
			flags&hal.TextureFormatCapabilityMultisampleResolve == 0 {
			maxSamples = 1
		}
	}
	return target.Capabilities{
		RenderTargets:  true,
		MaxSamples:     maxSamples,
		MaxTextureSize: int(b.handle.limits.MaxTextureDimension2D),
		DeviceName:     b.handle.name,
	}
}

// SetMemoryBudget limits the texture memory of eye targets and distortion
// passes to megabytes. The default is DefaultMaxMemoryMB.
func (b *Backend) SetMemoryBudget(megabytes int) error {
	return b.memory.setBudget(megabytes)
}

// MemoryStats reports the texture memory in use.
func (b *Backend) MemoryStats() MemoryStats {
	return b.memory.stats()
}

// NewEyeTarget allocates the attachments for one eye. Any multisampled
// spec is allocated with 4 samples.
func (b *Backend) NewEyeTarget(spec target.Spec) (target.EyeTarget, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, fmt.Errorf("%w: %w", target.ErrCapability, ErrNotInitialized)
	}
	t, err := newEyeTarget(b.handle, b.pipes, b.memory, spec)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// NewDistortionPass creates a GPU distortion pass with a width x height
// output.
func (b *Backend) NewDistortionPass(width, height int, opts distortion.Options) (distortion.Pass, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, fmt.Errorf("%w: %w", target.ErrCapability, ErrNotInitialized)
	}
	p, err := newDistortionPass(b.handle, b.pipes, b.memory, width, height, opts)
	if err != nil {
		return nil, err
	}
	return p, nil
}

var (
	_ target.Backend         = (*Backend)(nil)
	_ distortion.PassFactory = (*Backend)(nil)
)
