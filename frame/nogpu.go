// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package frame

import (
	"fmt"

	"github.com/gogpu/ovr/target"
)

func providerBackend(target.DeviceHandle) (target.Backend, error) {
	return nil, fmt.Errorf("%w: built without GPU support", target.ErrBackendNotAvailable)
}
