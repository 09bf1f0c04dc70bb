// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ovr

// Eye selects which half of a stereo frame an operation applies to.
type Eye int

const (
	// EyeLeft is the left eye.
	EyeLeft Eye = iota
	// EyeRight is the right eye.
	EyeRight
	// EyeMono renders a single centered view.
	EyeMono
)

// Eyes is the default stereo render order.
var Eyes = [2]Eye{EyeLeft, EyeRight}

// String returns the eye name.
func (e Eye) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	case EyeMono:
		return "mono"
	default:
		return "unknown"
	}
}

// Sign returns +1 for the left eye, -1 for the right eye and 0 for mono.
func (e Eye) Sign() float32 {
	switch e {
	case EyeLeft:
		return 1
	case EyeRight:
		return -1
	default:
		return 0
	}
}

// Valid reports whether e is one of the defined eyes.
func (e Eye) Valid() bool {
	return e >= EyeLeft && e <= EyeMono
}

// Index returns 0 for the left eye and 1 for the right eye.
// Mono shares slot 0.
func (e Eye) Index() int {
	if e == EyeRight {
		return 1
	}
	return 0
}
