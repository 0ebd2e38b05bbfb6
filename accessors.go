// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

import "github.com/cznic/mathutil"

// GetData returns a byte slice over the current payload of h's block via
// an O(1) table lookup. The slice is invalidated by any
// call that may compact (AllocEx, AllocMaximum, BufferOut, BufferIn, a
// front Shrink) or by any cooperative yield; callers must re-fetch it
// after any such call.
func (c *Context) GetData(h Handle) ([]byte, error) {
	b, err := c.resolveHandle(h)
	if err != nil {
		return nil, err
	}
	return c.dataBytes(b), nil
}

// GetName returns the name h's block was allocated with, recovered from
// the block's name cells.
func (c *Context) GetName(h Handle) (string, error) {
	b, err := c.resolveHandle(h)
	if err != nil {
		return "", err
	}
	return c.nameOf(b), nil
}

// Available reports the number of bytes AllocEx can be expected to
// satisfy without first needing to compact or shrink anything: the tail
// region between alloc_end and last_handle, less a 128-cell slack
// reserved for handle-table growth. This is a heuristic, not an
// invariant — it never reports fewer than 0.
func (c *Context) Available() int {
	cells := mathutil.Max(int(c.lastHandle-c.allocEnd)-slack, 0)
	return cells * Align
}

// resolveHandle validates h and returns the block it currently refers to.
func (c *Context) resolveHandle(h Handle) (block, error) {
	if h <= 0 {
		return block{}, &ErrInvalid{Msg: "hmem: invalid handle", Arg: h}
	}
	slot := c.handleSlot(h)
	if slot < c.lastHandle || slot >= c.handleTable || c.r.slotIsFree(slot) || c.r.slotIsReserved(slot) {
		return block{}, &ErrInvalid{Msg: "hmem: handle not live", Arg: h}
	}
	return c.blockFromData(c.r.slotData(slot)), nil
}
