// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package optics

import (
	"github.com/gogpu/ovr"
	"github.com/gogpu/ovr/hmd"
)

// Provider reads the optical profile of an open headset.
//
// A Provider never fails: a nil device, a destroyed device, a device whose
// description reports no display, and (by default) a debug device all
// yield Fallback.
type Provider struct {
	dev        *hmd.Device
	trustDebug bool
	ipd        float32
	warned     bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithDebugOptics makes debug devices report their model's optics instead
// of the fallback profile. Use it to exercise the stereo path without
// hardware.
func WithDebugOptics() Option {
	return func(p *Provider) {
		p.trustDebug = true
	}
}

// WithIPD overrides the interpupillary distance, in meters. Non-positive
// values are ignored.
func WithIPD(meters float32) Option {
	return func(p *Provider) {
		if meters > 0 {
			p.ipd = meters
		}
	}
}

// NewProvider returns a Provider for dev, which may be nil.
func NewProvider(dev *hmd.Device, opts ...Option) *Provider {
	p := &Provider{dev: dev}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetProfile returns the current optical profile.
func (p *Provider) GetProfile() DeviceOpticalProfile {
	if p.dev == nil {
		return p.fallback("no device")
	}
	if p.dev.IsDebug() && !p.trustDebug {
		return p.fallback("debug device")
	}
	desc, err := p.dev.Desc()
	if err != nil {
		return p.fallback(err.Error())
	}
	if !desc.Present() || desc.Resolution.W <= 0 || desc.Resolution.H <= 0 {
		return p.fallback("device reports no display")
	}

	prof := ForModel(desc.Type)
	prof.HResolution = int(desc.Resolution.W)
	prof.VResolution = int(desc.Resolution.H)
	if p.ipd > 0 {
		prof.InterpupillaryDistance = p.ipd
	}
	return prof
}

func (p *Provider) fallback(reason string) DeviceOpticalProfile {
	if !p.warned {
		ovr.Logger().Info("optics: using fallback profile", "reason", reason)
		p.warned = true
	}
	prof := Fallback()
	if p.ipd > 0 {
		prof.InterpupillaryDistance = p.ipd
	}
	return prof
}
