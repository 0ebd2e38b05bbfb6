// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

// Shrink reduces the payload of the block identified by h to the
// newSize bytes starting newStart bytes into its current payload.
// Because blocks are whole cells, the new payload starts at newStart
// rounded down to a cell boundary and ends at newStart+newSize rounded up
// to one. newStart must lie within the current payload; newStart+newSize
// must not exceed it. It returns false, without mutating anything, for an
// out-of-range request.
//
// If h holds the outstanding AllocMaximum lock, Shrink clears it on every
// exit, successful or not, and wakes any AllocEx waiting on it.
func (c *Context) Shrink(h Handle, newStart, newSize int) (bool, error) {
	b, err := c.resolveHandle(h)
	if err != nil {
		return false, err
	}
	slot := c.handleSlot(h)

	defer func() {
		if c.handleLock == h {
			c.handleLock = 0
			c.yielder.Broadcast()
		}
	}()

	oldPayload := b.payloadCells() * Align
	if newStart < 0 || newSize < 0 || newStart > oldPayload || newStart+newSize > oldPayload {
		return false, nil
	}

	deltaCells := newStart / Align
	if deltaCells > 0 {
		b = c.shrinkFront(b, slot, deltaCells)
	}

	// The payload now starts at newStart rounded down to a cell; keep
	// enough of it to reach newStart+newSize.
	c.shrinkTail(b, newStart-deltaCells*Align+newSize)
	return true, nil
}

// shrinkFront implements the front-shrink half of Shrink: it relocates a
// block's metadata and name forward by deltaCells cells, marks the
// vacated prefix free, and updates the owning handle slot. It returns the
// block descriptor at its new position.
func (c *Context) shrinkFront(b block, slot cellIdx, deltaCells int) block {
	metaLen := metaCells + b.nameLen
	newHeader := b.header + cellIdx(deltaCells)
	oldEnd := b.header + cellIdx(b.cells)

	c.r.moveCells(newHeader, b.header, metaLen)
	c.r.setVal(newHeader, int(oldEnd-newHeader))
	c.r.setSlotData(slot, newHeader+cellIdx(metaLen))

	freeStart := b.header
	if pred, ok := c.predecessorOf(b.header); ok && c.r.val(pred) < 0 {
		c.r.setVal(pred, c.r.val(pred)-deltaCells)
		freeStart = pred
	} else {
		c.r.setVal(b.header, -deltaCells)
	}
	if freeStart < c.firstFreeBlock {
		c.firstFreeBlock = freeStart
	}
	// The vacated prefix always precedes the shrunk (still allocated)
	// block, so it is never at alloc_end: the arena is no longer compact.
	c.compact = false

	return c.blockFromData(c.r.slotData(slot))
}

// shrinkTail implements the tail-shrink half of Shrink: it rewrites b's
// header to cover exactly newSize payload bytes and either contracts
// alloc_end, enlarges a following free block, or synthesizes a new one
// with the cells reclaimed.
func (c *Context) shrinkTail(b block, newSize int) {
	newPayloadCells := (newSize + Align - 1) / Align
	newCells := metaCells + b.nameLen + newPayloadCells
	reclaimed := b.cells - newCells
	if reclaimed <= 0 {
		return
	}

	c.r.setVal(b.header, newCells)

	oldNext := b.header + cellIdx(b.cells)
	newNext := b.header + cellIdx(newCells)

	switch {
	case oldNext == c.allocEnd:
		c.allocEnd = newNext
	case c.r.val(oldNext) < 0:
		c.r.setVal(newNext, c.r.val(oldNext)-reclaimed)
	default:
		c.r.setVal(newNext, -reclaimed)
		c.compact = false
	}

	if oldNext != c.allocEnd && newNext < c.firstFreeBlock {
		c.firstFreeBlock = newNext
	}
}
