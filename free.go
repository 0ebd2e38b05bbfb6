// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

// Free releases the block identified by h. It merges the freed
// block into an adjacent free block on either side where possible, and
// contracts alloc_end if the freed block was the last one in the arena.
func (c *Context) Free(h Handle) error {
	b, err := c.resolveHandle(h)
	if err != nil {
		return err
	}
	slot := c.handleSlot(h)
	freedBlock := b.header

	pred, havePred := c.predecessorOf(freedBlock)

	mergedStart := freedBlock
	if havePred && c.r.val(pred) < 0 {
		c.r.setVal(pred, c.r.val(pred)-b.cells)
		mergedStart = pred
	} else {
		c.r.setVal(freedBlock, -b.cells)
	}

	mergedVal := c.r.val(mergedStart)
	tail := mergedStart + cellIdx(-mergedVal)

	if tail == c.allocEnd {
		c.allocEnd = mergedStart
	} else {
		// A free block left mid-arena, whether or not it absorbed the
		// block ahead of it, disqualifies the arena from being compact.
		c.compact = false
		if c.r.val(tail) < 0 {
			c.r.setVal(mergedStart, mergedVal+c.r.val(tail))
		}
	}

	c.handleFree(slot)
	if freedBlock < c.firstFreeBlock {
		c.firstFreeBlock = freedBlock
	}

	return nil
}
