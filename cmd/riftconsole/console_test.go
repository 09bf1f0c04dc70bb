// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/ovr/hmd"
	"github.com/gogpu/ovr/hmd/hmdtest"
	"github.com/gogpu/ovr/hmd/legacy"
)

func newConsole(t *testing.T, lang language.Tag) (*console, *bytes.Buffer) {
	t.Helper()
	rt := hmd.NewRuntime(hmdtest.New())
	rift, err := legacy.Open(rt)
	if err != nil {
		t.Fatalf("legacy.Open() = %v", err)
	}
	t.Cleanup(func() {
		if err := rift.Close(); err != nil {
			t.Errorf("Close() = %v", err)
		}
		if err := rt.AssertReleased(); err != nil {
			t.Error(err)
		}
	})
	var buf bytes.Buffer
	return &console{w: &buf, p: message.NewPrinter(lang), rift: rift}, &buf
}

func TestConsoleHeader(t *testing.T) {
	con, buf := newConsole(t, language.English)
	if err := con.header(); err != nil {
		t.Fatalf("header() = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"DK1", "connected: true", "1,280 x 800", "Distortion K:", "Press any key"} {
		if !strings.Contains(out, want) {
			t.Errorf("header() output missing %q:\n%s", want, out)
		}
	}
}

func TestConsolePollLimit(t *testing.T) {
	con, buf := newConsole(t, language.English)
	if err := con.poll(context.Background(), nil, time.Millisecond, 3); err != nil {
		t.Fatalf("poll() = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("poll() printed %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "orientation=(1.000 0.000 0.000 0.000)") {
		t.Errorf("report line = %q, want identity orientation", lines[0])
	}
}

func TestConsolePollStopsOnKey(t *testing.T) {
	con, buf := newConsole(t, language.English)
	keys := make(chan struct{}, 1)
	keys <- struct{}{}
	if err := con.poll(context.Background(), keys, time.Hour, 0); err != nil {
		t.Fatalf("poll() = %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Errorf("poll() printed %d lines before the key, want 1", n)
	}
}

func TestConsolePollContinuesAfterKeysClosed(t *testing.T) {
	con, buf := newConsole(t, language.English)
	keys := make(chan struct{})
	close(keys)
	if err := con.poll(context.Background(), keys, time.Millisecond, 2); err != nil {
		t.Fatalf("poll() = %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("poll() printed %d lines, want 2", n)
	}
}

func TestReadKeys(t *testing.T) {
	pr, pw := io.Pipe()
	keys := readKeys(context.Background(), pr)
	if _, err := pw.Write([]byte("q")); err != nil {
		t.Fatal(err)
	}
	select {
	case _, ok := <-keys:
		if !ok {
			t.Fatal("keys closed before the first key")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no key reported")
	}

	pw.Close()
	select {
	case _, ok := <-keys:
		if ok {
			t.Error("key reported after the reader closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("keys not closed after the reader failed")
	}
}

func TestNewlineWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := newlineWriter{&buf}.Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("Write() = %d, %v, want 4, nil", n, err)
	}
	if got := buf.String(); got != "a\r\nb\r\n" {
		t.Errorf("output = %q, want %q", got, "a\r\nb\r\n")
	}
}
