// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

// handleAlloc reserves a free handle-table slot. It scans downward from
// firstFreeHandle to lastHandle for a free slot; failing that, it extends
// the table by one slot if there is at least one free cell separating
// allocEnd from lastHandle, so the table can never grow into live arena
// space. It returns the reserved slot and true, or false if no slot is
// available.
func (c *Context) handleAlloc() (cellIdx, bool) {
	slot := c.firstFreeHandle
	for slot >= c.lastHandle {
		if c.r.slotIsFree(slot) {
			break
		}
		slot--
	}

	if slot < c.lastHandle {
		if slot >= c.allocEnd {
			c.lastHandle--
			slot = c.lastHandle
		} else {
			return 0, false
		}
	}

	c.r.setSlotReserved(slot)
	return slot, true
}

// handleFree releases slot.
func (c *Context) handleFree(slot cellIdx) {
	c.r.setSlotFree(slot)
	if slot > c.firstFreeHandle {
		c.firstFreeHandle = slot
	}
	if slot == c.lastHandle {
		c.lastHandle++
	} else {
		c.compact = false
	}
}

// handleTableShrink advances lastHandle over any prefix of free slots. It
// reports whether any slots were reclaimed.
func (c *Context) handleTableShrink() bool {
	slot := c.lastHandle
	for slot < c.handleTable && c.r.slotIsFree(slot) {
		slot++
	}
	if slot > c.firstFreeHandle {
		c.firstFreeHandle = slot - 1
	}
	shrank := slot != c.lastHandle
	c.lastHandle = slot
	return shrank
}

// handleSlot resolves the handle-table slot cell for handle h.
func (c *Context) handleSlot(h Handle) cellIdx {
	return c.handleTable - cellIdx(h)
}

// handleOf returns the handle for a handle-table slot.
func (c *Context) handleOf(slot cellIdx) Handle {
	return Handle(c.handleTable - slot)
}
