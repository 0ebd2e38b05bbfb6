// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

// Alloc allocates sizeBytes anonymously with default callbacks; it is
// shorthand for AllocEx with an empty name and DefaultCallbacks().
func (c *Context) Alloc(sizeBytes int) (Handle, error) {
	return c.AllocEx(sizeBytes, "", DefaultCallbacks())
}

// AllocEx reserves a new block of at least sizeBytes bytes under name and
// cb. It returns the zero Handle, not an error, when the region has no
// room for the request even after compaction and shrink callbacks have
// been given a chance to make space; an error return means sizeBytes
// itself could never succeed, regardless of the context's state.
func (c *Context) AllocEx(sizeBytes int, name string, cb *Callbacks) (Handle, error) {
	if sizeBytes < 0 {
		return 0, &ErrInvalid{Msg: "hmem.AllocEx: negative size", Arg: sizeBytes}
	}
	if cb == nil {
		cb = DefaultCallbacks()
	}

	for c.handleLock != 0 {
		c.yielder.Yield()
	}

	needCells := blockCells(sizeBytes, name)

	slot, ok := c.reserveHandleSlot()
	if !ok {
		return 0, nil
	}

	for {
		fit, ok := c.scanFit(needCells)
		if ok {
			return c.commitAlloc(fit, needCells, slot, cb, name), nil
		}

		if c.compactAndShrink(hintBack(needCells)) {
			continue
		}

		c.handleFree(slot)
		return 0, nil
	}
}

// AllocMaximum allocates essentially the entire remaining arena tail under
// name. On success it sets the handle-lock to the returned handle: a
// concurrently-initiated AllocEx yields until a Shrink call against this
// same handle clears the lock. It returns the payload size, in bytes,
// actually granted.
func (c *Context) AllocMaximum(name string, cb *Callbacks) (Handle, int, error) {
	if cb == nil {
		cb = DefaultCallbacks()
	}

	for c.handleLock != 0 {
		c.yielder.Yield()
	}

	nameCells := nameCellsFor(name)
	tail := int(c.lastHandle - c.allocEnd)
	payloadCells := tail - (metaCells + 1) - nameCells
	if payloadCells <= 0 {
		return 0, 0, nil
	}

	slot, ok := c.reserveHandleSlot()
	if !ok {
		return 0, 0, nil
	}

	needCells := metaCells + nameCells + payloadCells
	fit := fitResult{block: c.allocEnd, cells: tail, last: true}
	h := c.commitAlloc(fit, needCells, slot, cb, name)
	c.handleLock = h
	return h, payloadCells * Align, nil
}

// commitAlloc writes a new block's metadata into the free span fit
// describes and updates the arena bookkeeping that follows from taking
// it.
func (c *Context) commitAlloc(fit fitResult, needCells int, slot cellIdx, cb *Callbacks, name string) Handle {
	tookFirst := fit.block == c.firstFreeBlock

	c.writeBlockHeader(fit.block, needCells, slot, cb, name)

	if fit.last {
		c.allocEnd = fit.block + cellIdx(needCells)
	} else if excess := fit.cells - needCells; excess > 0 {
		c.r.setVal(fit.block+cellIdx(needCells), -excess)
	}

	if tookFirst {
		c.firstFreeBlock = fit.block + cellIdx(needCells)
	}

	return c.handleOf(slot)
}

// reserveHandleSlot reserves a handle slot, compacting or asking the
// topmost block to give back a few cells if the table is full.
func (c *Context) reserveHandleSlot() (cellIdx, bool) {
	slot, ok := c.handleAlloc()
	if ok {
		return slot, true
	}

	if !c.compact {
		c.runCompact()
		return c.handleAlloc()
	}

	if c.shrinkTopmostBack() {
		return c.handleAlloc()
	}

	return 0, false
}

// shrinkTopmostBack asks the allocated block nearest alloc_end to give
// back roughly 10 cells from its back.
func (c *Context) shrinkTopmostBack() bool {
	header, ok := c.topmostAllocated()
	if !ok {
		return false
	}

	_, slot, cb := c.allocHeaderInfo(header)
	if cb == defaultCallbacks || cb.ShrinkFunc == nil {
		return false
	}

	h := c.handleOf(slot)
	b := c.blockFromData(c.r.slotData(slot))
	status := cb.ShrinkFunc(h, hintBack(10), c.dataBytes(b), b.payloadCells()*Align)
	return status == StatusOK
}

// topmostAllocated returns the header of the allocated block nearest
// alloc_end, or false if the arena holds no allocated block.
func (c *Context) topmostAllocated() (cellIdx, bool) {
	var found cellIdx
	ok := false
	for pos := c.bufStart; pos < c.allocEnd; {
		length := c.r.val(pos)
		if length < 0 {
			pos += cellIdx(-length)
			continue
		}
		if c.r.refPtr(pos+1) != noRef {
			found, ok = pos, true
		}
		pos += cellIdx(length)
	}
	return found, ok
}
