// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ovr

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while the render loop is logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ovr and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used by ovr:
//   - [slog.LevelDebug]: per-frame diagnostics (eye passes, resolves, uniforms)
//   - [slog.LevelInfo]: lifecycle events (SDK initialized, device opened, backend selected)
//   - [slog.LevelWarn]: degraded operation (debug device fallback, no multisampling)
//
// Example:
//
//	ovr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by ovr.
// Sub-packages call this to share one logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
