// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

// writeHole marks a non-free obstacle of cells cells, synthesized by the
// compactor where an immovable block could not be shifted over. Holes
// carry no owning slot; refPtr reads noRef at their handle-slot field,
// which is how the arena walk in runCompact and compactAndShrink tells a
// hole apart from a live block without touching its callbacks record.
func (c *Context) writeHole(header cellIdx, cells int) {
	c.r.setVal(header, cells)
	c.r.setRefPtr(header+1, noRef)
	c.r.setCBPtr(header+2, defaultCallbacks)
}

// runCompact walks the arena from first_free_block to alloc_end, sliding
// every movable allocated block down over the free space ahead of it. It
// reports whether the handle table shrank or any block moved.
func (c *Context) runCompact() bool {
	shrankTable := c.handleTableShrink()
	if shrankTable {
		c.logCompact(CompactEvent{Kind: "handle-table-shrink"})
	}

	shift := 0
	moved := false
	newFirstFree := c.firstFreeBlock

	for pos := c.firstFreeBlock; pos < c.allocEnd; {
		length := c.r.val(pos)
		if length < 0 {
			shift += length
			pos += cellIdx(-length)
			continue
		}

		if shift == 0 {
			pos += cellIdx(length)
			continue
		}

		slot := c.r.refPtr(pos + 1)
		cb := c.r.cbPtr(pos + 2)
		immovable := slot == noRef || (cb != defaultCallbacks && cb.MoveFunc == nil)

		if immovable {
			holePos := pos + cellIdx(shift)
			h := Handle(0)
			if slot != noRef {
				h = c.handleOf(slot)
			}
			c.writeHole(holePos, -shift)
			if holePos < newFirstFree {
				newFirstFree = holePos
			}
			c.logCompact(CompactEvent{Kind: "hole", Handle: h, Shift: shift})
			shift = 0
			pos += cellIdx(length)
			continue
		}

		data := c.r.slotData(slot)
		newData := data + cellIdx(shift)
		if cb != defaultCallbacks {
			b := c.blockFromData(data)
			oldPtr := c.dataBytes(b)
			newPtr := c.r.bytesAt(newData, 0, b.payloadCells()*Align)
			cb.MoveFunc(c.handleOf(slot), oldPtr, newPtr)
		}

		c.r.setSlotData(slot, newData)
		c.r.moveCells(pos+cellIdx(shift), pos, length)
		c.logCompact(CompactEvent{Kind: "move", Handle: c.handleOf(slot), Shift: shift})
		moved = true
		pos += cellIdx(length)
	}

	c.firstFreeBlock = newFirstFree
	c.allocEnd += cellIdx(shift)
	if c.firstFreeBlock > c.allocEnd {
		c.firstFreeBlock = c.allocEnd
	}
	c.compact = true
	return shrankTable || moved
}

// compactAndShrink is the fallback for when a plain compaction makes no
// progress: it asks every shrinkable block to give some of its payload
// back, then compacts once more if anything did.
func (c *Context) compactAndShrink(hints ShrinkHints) bool {
	progress := false
	if !c.compact {
		progress = c.runCompact()
	}
	if progress {
		return true
	}

	shrunkAny := false
	for pos := c.bufStart; pos < c.allocEnd; {
		length := c.r.val(pos)
		if length < 0 {
			pos += cellIdx(-length)
			continue
		}

		slot := c.r.refPtr(pos + 1)
		if slot == noRef {
			pos += cellIdx(length)
			continue
		}

		cb := c.r.cbPtr(pos + 2)
		if cb == defaultCallbacks || cb.ShrinkFunc == nil {
			pos += cellIdx(length)
			continue
		}

		h := c.handleOf(slot)
		b := c.blockFromData(c.r.slotData(slot))
		status := cb.ShrinkFunc(h, hints, c.dataBytes(b), b.payloadCells()*Align)
		if status == StatusOK {
			shrunkAny = true
		}

		// The callback may have relocated or resized the block; re-read
		// its current header via the handle before continuing the walk.
		b = c.blockFromHandle(h)
		pos = b.header + cellIdx(b.cells)
	}

	if shrunkAny {
		return c.runCompact()
	}
	return false
}
