// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command riftconsole prints the headset's sensor state and optical
// parameters until a key is pressed.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/hmd"
	"github.com/gogpu/ovr/hmd/legacy"
	"github.com/gogpu/ovr/hmd/native"
	"github.com/gogpu/ovr/optics"
)

func main() {
	app := &cli.App{
		Name:  "riftconsole",
		Usage: "print headset orientation and optics until a key is pressed",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
			&cli.StringFlag{Name: "library", Usage: "libOVR shared library `PATH`", EnvVars: []string{"OVR_LIBRARY"}},
			&cli.DurationFlag{Name: "interval", Value: 250 * time.Millisecond, Usage: "poll interval"},
			&cli.IntFlag{Name: "polls", Usage: "stop after `N` polls, 0 polls until a key is pressed"},
			&cli.Float64Flag{Name: "prediction", Value: legacy.DefaultPredictionDelta, Usage: "prediction delta in seconds"},
			&cli.BoolFlag{Name: "debug-optics", Usage: "use the debug headset's optics instead of the fallback"},
			&cli.StringFlag{Name: "lang", Value: "en", Usage: "number formatting `LANGUAGE`"},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelWarn
			if c.Bool("debug") {
				level = slog.LevelDebug
			}
			ovr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "riftconsole:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) (err error) {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	rt := hmd.NewRuntime(native.LoadOrNull(c.String("library")))
	defer func() {
		err = multierr.Append(err, rt.AssertReleased())
	}()

	var opts []optics.Option
	if c.Bool("debug-optics") {
		opts = append(opts, optics.WithDebugOptics())
	}
	rift, err := legacy.Open(rt, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, rift.Close())
	}()
	if err := rift.SetPredictionDelta(float32(c.Float64("prediction"))); err != nil {
		return err
	}

	keys, restore := watchKeys(ctx)
	defer restore()

	con := &console{
		w:    newlineWriter{os.Stdout},
		p:    message.NewPrinter(language.Make(c.String("lang"))),
		rift: rift,
	}
	if err := con.header(); err != nil {
		return err
	}
	return con.poll(ctx, keys, c.Duration("interval"), c.Int("polls"))
}

// console prints reports from rift.
type console struct {
	w    io.Writer
	p    *message.Printer
	rift *legacy.Rift
}

// poll reports every interval until a key arrives, ctx is done, or limit
// polls have been printed. A closed keys channel stops key checks only.
func (con *console) poll(ctx context.Context, keys <-chan struct{}, interval time.Duration, limit int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 0; limit <= 0 || n < limit; n++ {
		if err := con.report(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-keys:
			if ok {
				return nil
			}
			keys = nil
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		case <-ticker.C:
		}
	}
	return nil
}
