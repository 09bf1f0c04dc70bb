// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/gogpu/ovr"
)

// watchKeys switches stdin to raw mode and reports each key press. When
// stdin is not a terminal the channel never fires. restore puts the
// terminal back.
func watchKeys(ctx context.Context) (keys <-chan struct{}, restore func()) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, func() {}
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		ovr.Logger().Warn("riftconsole: raw mode unavailable", "err", err)
		return nil, func() {}
	}
	return readKeys(ctx, os.Stdin), func() {
		if err := term.Restore(fd, old); err != nil {
			ovr.Logger().Warn("riftconsole: restore terminal", "err", err)
		}
	}
}

// readKeys reports each byte read from r. The channel is closed once r
// fails or ctx is done. A terminal read cannot be interrupted, so after
// ctx is done the reader still waits for one more key or process exit.
func readKeys(ctx context.Context, r io.Reader) <-chan struct{} {
	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		buf := make([]byte, 1)
		for {
			if _, err := r.Read(buf); err != nil || ctx.Err() != nil {
				return
			}
			select {
			case ch <- struct{}{}:
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return ch
}
