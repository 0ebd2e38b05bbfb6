// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

import "unsafe"

// Align is the size, in bytes, of one cell. It is pointer-sized so that a
// callbacks pointer fits in exactly one cell on every build target.
const Align = int(unsafe.Sizeof(uintptr(0)))

// cellIdx is an index of a cell within a region, counted from the region's
// first cell. A valid index is never negative; noRef (-1) is the one
// negative value, used as a sentinel.
type cellIdx int

// region is the caller-supplied byte slice reinterpreted as an array of
// cells. All unsafe pointer arithmetic in the package is confined to this
// file, keeping it a single small, auditable module.
type region struct {
	buf []byte // aligned/truncated to a whole number of cells by alignRegion
}

// alignRegion aligns buf's start up and its usable length down so the
// result spans a whole number of cells.
func alignRegion(buf []byte) []byte {
	if len(buf) == 0 {
		return nil
	}
	p := uintptr(unsafe.Pointer(&buf[0]))
	pad := 0
	if rem := int(p) % Align; rem != 0 {
		pad = Align - rem
	}
	if pad > len(buf) {
		return nil
	}
	buf = buf[pad:]
	n := len(buf) / Align * Align
	return buf[:n]
}

func (r *region) cells() int { return len(r.buf) / Align }

func (r *region) cellAddr(i cellIdx) unsafe.Pointer {
	return unsafe.Pointer(&r.buf[int(i)*Align])
}

// val reads the numeric ("int64-ish") interpretation of cell i: a length
// (positive for allocated, negative for free), a name-length trailer, or a
// small tag value. It is stored native-width (int, Align bytes).
func (r *region) val(i cellIdx) int {
	return *(*int)(r.cellAddr(i))
}

func (r *region) setVal(i cellIdx, v int) {
	*(*int)(r.cellAddr(i)) = v
}

// noRef is the decoded refPtr value meaning "no reference" — the encoding
// writeHole uses to mark a compaction-synthesized hole's absent handle slot.
const noRef cellIdx = -1

// refPtr reads cell i as a reference to another cell in the same region,
// encoded as 1 + the target index (0 is reserved to mean "no reference"),
// avoiding ambiguity with a legitimate reference to cell 0. It is used for
// a block header's pointer to its owning handle-table slot.
func (r *region) refPtr(i cellIdx) cellIdx {
	return cellIdx(r.val(i) - 1)
}

func (r *region) setRefPtr(i cellIdx, target cellIdx) {
	r.setVal(i, int(target)+1)
}

// cbPtr reads cell i as a pointer to a caller-owned Callbacks record, never
// a reference into the region itself.
func (r *region) cbPtr(i cellIdx) *Callbacks {
	return *(**Callbacks)(r.cellAddr(i))
}

func (r *region) setCBPtr(i cellIdx, cb *Callbacks) {
	*(**Callbacks)(r.cellAddr(i)) = cb
}

// A handle-table slot holds one of three states: a pointer to the
// allocation's current data start, the sentinel -1 ("reserved but not yet
// pointed"), or 0 ("free"). This is a distinct tri-state encoding from
// refPtr's two-state one, because a slot can be legitimately "reserved."
func (r *region) slotIsFree(i cellIdx) bool { return r.val(i) == 0 }
func (r *region) slotIsReserved(i cellIdx) bool { return r.val(i) == -1 }

func (r *region) slotData(i cellIdx) cellIdx {
	return cellIdx(r.val(i) - 1)
}

func (r *region) setSlotData(i cellIdx, data cellIdx) {
	r.setVal(i, int(data)+1)
}

func (r *region) setSlotReserved(i cellIdx) { r.setVal(i, -1) }
func (r *region) setSlotFree(i cellIdx)     { r.setVal(i, 0) }

// moveCells moves n cells starting at src to dst, permitting overlap.
func (r *region) moveCells(dst, src cellIdx, n int) {
	if n == 0 || dst == src {
		return
	}
	d := r.buf[int(dst)*Align : (int(dst)+n)*Align]
	s := r.buf[int(src)*Align : (int(src)+n)*Align]
	copy(d, s) // copy() permits overlap like memmove
}

// bytesAt returns a byte window spanning n bytes starting at cell i,
// byte-offset off into it. Used for packing/unpacking names.
func (r *region) bytesAt(i cellIdx, off, n int) []byte {
	start := int(i)*Align + off
	return r.buf[start : start+n]
}
