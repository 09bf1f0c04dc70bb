// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ovr binds the libOVR head-mounted display SDK and renders stereo
// scenes with manual lens distortion correction.
//
// # Overview
//
// The module is split into a binding half and a rendering half:
//
//   - hmd: the SDK surface (initialize, detect, create, sensor polling,
//     frame timing), an explicit Runtime ownership object and a Device
//     wrapper that rejects use after Destroy
//   - hmd/native: libOVR loaded at run time, no cgo
//   - optics: per-device optical constants with fallback defaults
//   - stereo: per-eye projection and view matrices
//   - target: off-screen render targets with optional multisampling
//   - distortion: the barrel warp and chromatic correction post-process
//   - frame: the per-frame driver tying everything together
//   - config: TOML configuration for the frame driver
//
// # Quick Start
//
//	rt := hmd.NewRuntime(native.LoadOrNull(""))
//	d := frame.New(rt, frame.Options{
//	    Samples:   4,
//	    Chromatic: true,
//	    MaxFrames: 60,
//	    Present: func(n uint32, img image.Image) error {
//	        return save(n, img)
//	    },
//	})
//	if err := d.Init(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Shutdown()
//	if err := d.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Without a headset attached the driver renders with fallback optics and
// monoscopic eye offsets, so every stage stays exercised.
//
// # Logging
//
// Nothing is logged by default. Install a logger with [SetLogger].
package ovr
