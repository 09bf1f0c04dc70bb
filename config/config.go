// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the TOML configuration of the demo commands and
// converts it to frame.Options.
//
// Example:
//
//	[render]
//	backend = "vulkan"
//	samples = 4
//	chromatic = true
//	clear_color = [24, 28, 40, 255]
//
//	[hmd]
//	debug_type = "DK1"
//	required_sensor_caps = ["orientation"]
//
//	[output]
//	directory = "frames"
//	frames = 60
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/ovr/frame"
	"github.com/gogpu/ovr/hmd"
	"github.com/gogpu/ovr/scene"
	"github.com/gogpu/ovr/target"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete configuration.
type Config struct {
	Render  Render  `toml:"render"`
	Display Display `toml:"display"`
	HMD     HMD     `toml:"hmd"`
	Output  Output  `toml:"output"`
}

// Render configures eye targets and distortion.
type Render struct {
	// Backend is a registered target backend name; empty picks the best
	// available one.
	Backend string `toml:"backend"`
	Samples int    `toml:"samples"`
	// Oversample scales the render size; 0 uses the headset's
	// recommended size.
	Oversample      float32  `toml:"oversample"`
	SharedTarget    bool     `toml:"shared_target"`
	Chromatic       bool     `toml:"chromatic"`
	DistortionScale float32  `toml:"distortion_scale"`
	ClearColor      [4]uint8 `toml:"clear_color"`
	BorderColor     [4]uint8 `toml:"border_color"`
	ZNear           float32  `toml:"znear"`
	ZFar            float32  `toml:"zfar"`
}

// Display is the output size used when no headset reports one.
type Display struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// HMD configures the SDK binding.
type HMD struct {
	// Library is the libOVR path; empty searches the default names.
	Library string `toml:"library"`
	// DebugType is the headset emulated when none is attached.
	DebugType          string   `toml:"debug_type"`
	DebugOptics        bool     `toml:"debug_optics"`
	IPD                float32  `toml:"ipd"`
	PredictionDelta    float64  `toml:"prediction_delta"`
	RequiredSensorCaps []string `toml:"required_sensor_caps"`
}

// Output configures where frames are written.
type Output struct {
	Directory string `toml:"directory"`
	Frames    int    `toml:"frames"`
	Prefix    string `toml:"prefix"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Render: Render{
			Samples:         4,
			Chromatic:       true,
			DistortionScale: 1,
			ClearColor:      [4]uint8{24, 28, 40, 255},
			BorderColor:     [4]uint8{0, 0, 0, 255},
			ZNear:           0.3,
			ZFar:            1000,
		},
		Display: Display{Width: frame.DefaultDisplayWidth, Height: frame.DefaultDisplayHeight},
		HMD: HMD{
			DebugType:       hmd.HmdDK1.String(),
			PredictionDelta: frame.DefaultPredictionDelta,
		},
		Output: Output{Directory: ".", Frames: 1, Prefix: "frame"},
	}
}

// Load reads path over Default and validates the result. Unknown keys
// fail with ErrInvalid.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			keys := make([]string, 0, len(strict.Errors))
			for _, e := range strict.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	r := c.Render
	switch {
	case r.Backend != "" && !target.IsRegistered(r.Backend):
		return fmt.Errorf("%w: render.backend %q not in %v", ErrInvalid, r.Backend, target.Available())
	case r.Samples < 0 || r.Samples > 16:
		return fmt.Errorf("%w: render.samples %d outside 0..16", ErrInvalid, r.Samples)
	case r.Oversample < 0:
		return fmt.Errorf("%w: render.oversample %v is negative", ErrInvalid, r.Oversample)
	case r.DistortionScale < 0:
		return fmt.Errorf("%w: render.distortion_scale %v is negative", ErrInvalid, r.DistortionScale)
	case r.ZNear <= 0 || r.ZFar <= r.ZNear:
		return fmt.Errorf("%w: render.znear %v and zfar %v must satisfy 0 < znear < zfar", ErrInvalid, r.ZNear, r.ZFar)
	case c.Display.Width <= 0 || c.Display.Height <= 0:
		return fmt.Errorf("%w: display %dx%d", ErrInvalid, c.Display.Width, c.Display.Height)
	case c.Display.Width%2 != 0:
		return fmt.Errorf("%w: display.width %d must be even", ErrInvalid, c.Display.Width)
	case c.HMD.PredictionDelta <= 0:
		return fmt.Errorf("%w: hmd.prediction_delta %v must be positive", ErrInvalid, c.HMD.PredictionDelta)
	case c.HMD.IPD < 0:
		return fmt.Errorf("%w: hmd.ipd %v is negative", ErrInvalid, c.HMD.IPD)
	case c.Output.Frames < 0:
		return fmt.Errorf("%w: output.frames %d is negative", ErrInvalid, c.Output.Frames)
	}
	if _, err := c.debugType(); err != nil {
		return err
	}
	if _, err := c.sensorCaps(); err != nil {
		return err
	}
	return nil
}

func (c Config) debugType() (hmd.HmdType, error) {
	t, err := hmd.ParseHmdType(c.HMD.DebugType)
	if err != nil || t == hmd.HmdNone {
		return hmd.HmdNone, fmt.Errorf("%w: hmd.debug_type %q", ErrInvalid, c.HMD.DebugType)
	}
	return t, nil
}

var sensorCapNames = map[string]hmd.SensorCaps{
	"orientation":    hmd.SensorCapsOrientation,
	"yaw_correction": hmd.SensorCapsYawCorrection,
	"position":       hmd.SensorCapsPosition,
}

func (c Config) sensorCaps() (hmd.SensorCaps, error) {
	var caps hmd.SensorCaps
	for _, name := range c.HMD.RequiredSensorCaps {
		bit, ok := sensorCapNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("%w: hmd.required_sensor_caps: unknown capability %q", ErrInvalid, name)
		}
		caps |= bit
	}
	return caps, nil
}

// Options converts c to frame options rendering the demo scene. Present
// and MaxFrames are left to the caller.
func (c Config) Options() (frame.Options, error) {
	if err := c.Validate(); err != nil {
		return frame.Options{}, err
	}
	debugType, _ := c.debugType()
	caps, _ := c.sensorCaps()

	sc := scene.Demo()
	sc.Background = rgba(c.Render.ClearColor)
	return frame.Options{
		Backend:            c.Render.Backend,
		Samples:            c.Render.Samples,
		Shared:             c.Render.SharedTarget,
		Oversample:         c.Render.Oversample,
		Chromatic:          c.Render.Chromatic,
		DistortionScale:    c.Render.DistortionScale,
		Border:             rgba(c.Render.BorderColor),
		DisplayWidth:       c.Display.Width,
		DisplayHeight:      c.Display.Height,
		ZNear:              c.Render.ZNear,
		ZFar:               c.Render.ZFar,
		DebugType:          debugType,
		DebugOptics:        c.HMD.DebugOptics,
		IPD:                c.HMD.IPD,
		PredictionDelta:    c.HMD.PredictionDelta,
		RequiredSensorCaps: caps,
		Scene:              sc,
		Position:           scene.ViewerPosition,
	}, nil
}

func rgba(c [4]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}
