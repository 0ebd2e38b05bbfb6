// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

import "github.com/cznic/mathutil"

// BufferOut shifts the arena's live contents up within the region by up
// to sizeBytes, after first ensuring the arena is compact, and reports
// the number of bytes actually freed at the bottom of the region. The
// caller is responsible for the safety of whatever now occupies the
// vacated space at the old buf_start.
func (c *Context) BufferOut(sizeBytes int) int {
	if !c.compact {
		c.runCompact()
	}

	shift := mathutil.Min(sizeBytes/Align, int(c.lastHandle-c.allocEnd))
	if shift <= 0 {
		return 0
	}

	c.shiftArena(cellIdx(shift))
	return shift * Align
}

// BufferIn shifts the arena's live contents down within the region by up
// to sizeBytes. The caller is responsible for the safety of whatever
// previously occupied the vacated space at the new location.
func (c *Context) BufferIn(sizeBytes int) {
	shift := mathutil.Min(sizeBytes/Align, int(c.bufStart))
	if shift <= 0 {
		return
	}

	c.shiftArena(cellIdx(-shift))
}

// shiftArena moves the whole arena span [buf_start, alloc_end) by shift
// cells and adjusts every pointer into it: buf_start, first_free_block,
// alloc_end, and every live handle slot's data pointer.
func (c *Context) shiftArena(shift cellIdx) {
	if shift == 0 {
		return
	}

	c.r.moveCells(c.bufStart+shift, c.bufStart, int(c.allocEnd-c.bufStart))

	for slot := c.lastHandle; slot < c.handleTable; slot++ {
		if c.r.slotIsFree(slot) || c.r.slotIsReserved(slot) {
			continue
		}
		c.r.setSlotData(slot, c.r.slotData(slot)+shift)
	}

	c.bufStart += shift
	c.firstFreeBlock += shift
	c.allocEnd += shift
}
