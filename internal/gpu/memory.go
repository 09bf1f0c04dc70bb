// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"sync"
)

// ErrMemoryBudgetExceeded is returned when an allocation would exceed the
// backend's texture memory budget.
var ErrMemoryBudgetExceeded = errors.New("gpu: memory budget exceeded")

// Default memory limits.
const (
	// DefaultMaxMemoryMB is the default texture memory budget. A DK2 at
	// 1.7x oversampling with 4x MSAA needs about 220 MB for both eyes.
	DefaultMaxMemoryMB = 512

	// MinMemoryMB is the smallest budget SetMemoryBudget accepts.
	MinMemoryMB = 16
)

// MemoryStats contains texture memory usage statistics.
type MemoryStats struct {
	// TotalBytes is the budget in bytes.
	TotalBytes uint64

	// UsedBytes is the memory reserved by live eye targets and passes.
	UsedBytes uint64

	// AvailableBytes is the remaining budget.
	AvailableBytes uint64

	// Allocations is the number of live reservations.
	Allocations int

	// Utilization is UsedBytes / TotalBytes.
	Utilization float64
}

// String returns a human-readable summary.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%.1f%% used, %d/%d MB, %d allocations]",
		s.Utilization*100,
		s.UsedBytes/(1024*1024),
		s.TotalBytes/(1024*1024),
		s.Allocations)
}

// memoryBudget accounts for the textures owned by eye targets and
// distortion passes. Targets cannot be evicted, so an allocation that does
// not fit fails.
//
// memoryBudget is safe for concurrent use.
type memoryBudget struct {
	mu     sync.Mutex
	budget uint64
	used   uint64
	allocs int
}

func newMemoryBudget(maxMB int) *memoryBudget {
	if maxMB < MinMemoryMB {
		maxMB = DefaultMaxMemoryMB
	}
	return &memoryBudget{budget: uint64(maxMB) * 1024 * 1024} //nolint:gosec // maxMB >= MinMemoryMB
}

// reserve accounts for bytes or fails without changing the usage.
func (m *memoryBudget) reserve(label string, bytes uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.used+bytes > m.budget {
		return fmt.Errorf("%w: %s needs %d MB, %d of %d MB free", ErrMemoryBudgetExceeded,
			label, bytes/(1024*1024), (m.budget-m.used)/(1024*1024), m.budget/(1024*1024))
	}
	m.used += bytes
	m.allocs++
	return nil
}

func (m *memoryBudget) release(bytes uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used -= min(bytes, m.used)
	if m.allocs > 0 {
		m.allocs--
	}
}

// setBudget changes the budget. It fails when live reservations already
// exceed the new budget.
func (m *memoryBudget) setBudget(maxMB int) error {
	if maxMB < MinMemoryMB {
		return fmt.Errorf("gpu: memory budget %d MB below minimum %d MB", maxMB, MinMemoryMB)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	budget := uint64(maxMB) * 1024 * 1024 //nolint:gosec // maxMB >= MinMemoryMB
	if m.used > budget {
		return fmt.Errorf("%w: %d MB in use", ErrMemoryBudgetExceeded, m.used/(1024*1024))
	}
	m.budget = budget
	return nil
}

func (m *memoryBudget) stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := MemoryStats{
		TotalBytes:     m.budget,
		UsedBytes:      m.used,
		AvailableBytes: m.budget - m.used,
		Allocations:    m.allocs,
	}
	if m.budget > 0 {
		s.Utilization = float64(m.used) / float64(m.budget)
	}
	return s
}

// Bytes per texel of colorFormat and depthFormat.
const (
	colorTexelBytes = 4
	depthTexelBytes = 4
)

// eyeTargetBytes is the memory of the attachments ensureTextures creates.
func eyeTargetBytes(renderW, renderH, displayW, displayH, samples uint32) uint64 {
	display := uint64(displayW) * uint64(displayH)
	if samples < 2 {
		return display * (colorTexelBytes + depthTexelBytes)
	}
	render := uint64(renderW) * uint64(renderH)
	bytes := display*colorTexelBytes + render*uint64(samples)*(colorTexelBytes+depthTexelBytes)
	if renderW != displayW || renderH != displayH {
		bytes += render * colorTexelBytes
	}
	return bytes
}
