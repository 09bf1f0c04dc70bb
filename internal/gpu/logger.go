// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/ovr"
)

// slogger returns the current package logger.
// All logging in internal/gpu goes through this function so that
// ovr.SetLogger reaches the GPU backend.
func slogger() *slog.Logger { return ovr.Logger() }
