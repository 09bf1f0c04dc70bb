// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command riftdemo renders the demo scene through the stereo pipeline and
// writes each distorted frame as a PNG.
//
// Without a headset or libOVR it renders for a debug DK1 with fallback
// optics:
//
//	riftdemo --frames 10 --samples 4 --out frames
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/config"
	"github.com/gogpu/ovr/frame"
	"github.com/gogpu/ovr/hmd"
	"github.com/gogpu/ovr/hmd/native"
	"github.com/gogpu/ovr/target"
)

const (
	flagConfig     = "config"
	flagDebug      = "debug"
	flagBackend    = "backend"
	flagSamples    = "samples"
	flagOversample = "oversample"
	flagChromatic  = "chromatic"
	flagShared     = "shared"
	flagFrames     = "frames"
	flagOut        = "out"
	flagLibrary    = "library"
	flagDebugType  = "debug-type"
)

func main() {
	app := &cli.App{
		Name:  "riftdemo",
		Usage: "render distorted stereo frames to PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Usage: "load configuration from `FILE`"},
			&cli.BoolFlag{Name: flagDebug, Usage: "enable debug logging"},
			&cli.StringFlag{Name: flagBackend, Usage: fmt.Sprintf("render backend %v", target.Available())},
			&cli.IntFlag{Name: flagSamples, Usage: "multisample count"},
			&cli.Float64Flag{Name: flagOversample, Usage: "render size relative to display size, 0 for the headset's recommendation"},
			&cli.BoolFlag{Name: flagChromatic, Usage: "correct chromatic aberration"},
			&cli.BoolFlag{Name: flagShared, Usage: "render both eyes through one target"},
			&cli.IntFlag{Name: flagFrames, Aliases: []string{"n"}, Usage: "number of frames to render"},
			&cli.StringFlag{Name: flagOut, Aliases: []string{"o"}, Usage: "output `DIR`"},
			&cli.StringFlag{Name: flagLibrary, Usage: "libOVR shared library `PATH`", EnvVars: []string{"OVR_LIBRARY"}},
			&cli.StringFlag{Name: flagDebugType, Usage: "headset emulated when none is attached (DK1, DK2, ...)"},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelInfo
			if c.Bool(flagDebug) {
				level = slog.LevelDebug
			}
			ovr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "riftdemo:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flags set on the
// command line over it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if c.IsSet(flagBackend) {
		cfg.Render.Backend = c.String(flagBackend)
	}
	if c.IsSet(flagSamples) {
		cfg.Render.Samples = c.Int(flagSamples)
	}
	if c.IsSet(flagOversample) {
		cfg.Render.Oversample = float32(c.Float64(flagOversample))
	}
	if c.IsSet(flagChromatic) {
		cfg.Render.Chromatic = c.Bool(flagChromatic)
	}
	if c.IsSet(flagShared) {
		cfg.Render.SharedTarget = c.Bool(flagShared)
	}
	if c.IsSet(flagFrames) {
		cfg.Output.Frames = c.Int(flagFrames)
	}
	if c.IsSet(flagOut) {
		cfg.Output.Directory = c.String(flagOut)
	}
	if c.IsSet(flagLibrary) {
		cfg.HMD.Library = c.String(flagLibrary)
	}
	if c.IsSet(flagDebugType) {
		cfg.HMD.DebugType = c.String(flagDebugType)
	}
	return cfg, cfg.Validate()
}

func run(c *cli.Context) (err error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Directory, 0o755); err != nil {
		return err
	}
	w := &pngWriter{dir: cfg.Output.Directory, prefix: cfg.Output.Prefix}
	opts.Present = w.write
	opts.MaxFrames = cfg.Output.Frames

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	rt := hmd.NewRuntime(native.LoadOrNull(cfg.HMD.Library))
	defer func() {
		err = multierr.Append(err, rt.AssertReleased())
	}()

	d := frame.New(rt, opts)
	if err := d.Init(ctx); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, d.Shutdown())
	}()

	if err := d.Run(ctx); err != nil {
		return err
	}
	ovr.Logger().Info("riftdemo: done", "frames", d.Frames(), "dir", cfg.Output.Directory,
		"backend", d.Backend().Name(), "device", d.Profile().Model)
	return nil
}
