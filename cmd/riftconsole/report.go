// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// header prints the optical parameters once.
func (con *console) header() error {
	r := con.rift
	name, err := r.DisplayDeviceName()
	if err != nil {
		return err
	}
	p := con.p
	prof := r.Profile()
	lines := []string{
		p.Sprintf("Device:             %s (%s, connected: %t)", prof.Model, name, r.IsConnected()),
		p.Sprintf("Resolution:         %d x %d", r.HResolution(), r.VResolution()),
		p.Sprintf("Screen size:        %.4f x %.4f m, center %.4f m", r.HScreenSize(), r.VScreenSize(), r.VScreenCenter()),
		p.Sprintf("Eye to screen:      %.4f m", r.EyeToScreenDistance()),
		p.Sprintf("Lens separation:    %.4f m", r.LensSeparationDistance()),
		p.Sprintf("IPD:                %.4f m", r.InterpupillaryDistance()),
		p.Sprintf("Distortion K:       %s", con.vec4(r.DistortionK())),
		p.Sprintf("Chromatic A:        %s", con.vec4(r.ChromaAbAberration())),
		p.Sprintf("Prediction:         %.3f s", r.PredictionDelta()),
		"Press any key to stop.",
		"",
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(con.w, l); err != nil {
			return err
		}
	}
	return nil
}

// report prints one sensor sample.
func (con *console) report() error {
	r := con.rift
	orient, err := r.Orientation()
	if err != nil {
		return err
	}
	predicted, err := r.PredictedOrientation()
	if err != nil {
		return err
	}
	accel, err := r.Acceleration()
	if err != nil {
		return err
	}
	gyro, err := r.AngularVelocity()
	if err != nil {
		return err
	}
	dev := r.Device()
	now, err := dev.Time()
	if err != nil {
		return err
	}
	st, err := dev.SensorState(now)
	if err != nil {
		return err
	}

	p := con.p
	_, err = fmt.Fprintln(con.w, p.Sprintf(
		"t=%.3f tracked=%t temp=%.1f°C orientation=%s predicted=%s position=%s accel=%s gyro=%s",
		now, st.Tracked(), st.Temperature,
		con.quat(orient), con.quat(predicted), con.vec3(st.Recorded.Pose.Position.Vec3()),
		con.vec3(accel), con.vec3(gyro)))
	return err
}

func (con *console) quat(q mgl32.Quat) string {
	return con.p.Sprintf("(%.3f %.3f %.3f %.3f)", q.W, q.V[0], q.V[1], q.V[2])
}

func (con *console) vec3(v mgl32.Vec3) string {
	return con.p.Sprintf("(%.3f %.3f %.3f)", v[0], v[1], v[2])
}

func (con *console) vec4(v mgl32.Vec4) string {
	return con.p.Sprintf("(%.4f %.4f %.4f %.4f)", v[0], v[1], v[2], v[3])
}

// newlineWriter writes "\r\n" for every "\n", as a terminal in raw mode
// needs.
type newlineWriter struct {
	w io.Writer
}

func (nw newlineWriter) Write(b []byte) (int, error) {
	if _, err := nw.w.Write(bytes.ReplaceAll(b, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(b), nil
}
