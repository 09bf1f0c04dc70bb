// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package frame

import (
	"github.com/gogpu/ovr/internal/gpu"
	"github.com/gogpu/ovr/target"
)

func providerBackend(p target.DeviceHandle) (target.Backend, error) {
	b, err := gpu.NewBackendFromProvider(p)
	if err != nil {
		return nil, err
	}
	return b, nil
}
