// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "unsafe"

func ptrAdd(p *byte, off int) *byte {
	return (*byte)(unsafe.Add(unsafe.Pointer(p), off))
}
