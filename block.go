// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

// block describes an allocated block's layout, resolved from either its
// header cell or its data pointer. All fields are cell indices relative to
// the region.
type block struct {
	header  cellIdx
	slot    cellIdx // handle-table slot owning this block
	nameLen int     // name length in cells, NUL included (1 if unnamed)
	data    cellIdx
	cells   int // total block length in cells, including metadata
}

// nameCellsFor returns how many whole cells the NUL-terminated, padded
// form of name occupies.
func nameCellsFor(name string) int {
	n := len(name) + 1 // NUL terminator
	return (n + Align - 1) / Align
}

// blockCells returns the total cell length of a block holding a payload of
// payloadBytes bytes and the given name: pad the name, add the payload,
// round up to cells, add the 4 metadata cells.
func blockCells(payloadBytes int, name string) int {
	nameCells := nameCellsFor(name)
	payloadCells := (payloadBytes + Align - 1) / Align
	return metaCells + nameCells + payloadCells
}

// writeBlockHeader initializes an allocated block of length cells cells
// at header, owned by slot, using cb as its callbacks record and name as
// its name. It returns the resolved block descriptor.
func (c *Context) writeBlockHeader(header cellIdx, cells int, slot cellIdx, cb *Callbacks, name string) block {
	nameCells := nameCellsFor(name)
	c.r.setVal(header, cells)
	c.r.setRefPtr(header+1, slot)
	c.r.setCBPtr(header+2, cb)

	nameStart := header + 3
	nb := c.r.bytesAt(nameStart, 0, nameCells*Align)
	for i := range nb {
		nb[i] = 0
	}
	copy(nb, name)

	trailer := nameStart + cellIdx(nameCells)
	c.r.setVal(trailer, 1+nameCells)

	data := trailer + 1
	c.r.setSlotData(slot, data)

	return block{header: header, slot: slot, nameLen: nameCells, data: data, cells: cells}
}

// blockFromData resolves a block descriptor starting from a data pointer
// (a handle's current slot value): the cell at data-1 is the trailer,
// holding 1+padded-name-cells; the header sits nlen+3 cells before data.
func (c *Context) blockFromData(data cellIdx) block {
	trailer := data - 1
	nlen := c.r.val(trailer) // 1 + padded-name-cells
	nameLen := nlen - 1
	header := data - cellIdx(nlen) - 3
	cells := c.r.val(header)
	slot := c.r.refPtr(header + 1)
	return block{header: header, slot: slot, nameLen: nameLen, data: data, cells: cells}
}

// allocHeaderInfo reads just the three fixed fields of an allocated
// block's header — its length, owning slot and callbacks record — without
// resolving the name length or data pointer. The compactor's arena walk
// uses this: it never needs a block's name, and it reads the data pointer
// indirectly through the slot anyway.
func (c *Context) allocHeaderInfo(header cellIdx) (cells int, slot cellIdx, cb *Callbacks) {
	return c.r.val(header), c.r.refPtr(header + 1), c.r.cbPtr(header + 2)
}

// predecessorOf returns the header of the block immediately preceding pos
// in arena order, scanning forward from first_free_block (which must lie
// at or before pos). ok is false if pos is itself first_free_block, i.e.
// there is no tracked predecessor.
func (c *Context) predecessorOf(pos cellIdx) (cellIdx, bool) {
	pred := cellIdx(-1)
	for cur := c.firstFreeBlock; cur < pos; {
		length := c.r.val(cur)
		if length < 0 {
			length = -length
		}
		pred = cur
		cur += cellIdx(length)
	}
	return pred, pred >= 0
}

// blockFromHandle resolves a block descriptor starting from a handle.
func (c *Context) blockFromHandle(h Handle) block {
	slot := c.handleSlot(h)
	data := c.r.slotData(slot)
	return c.blockFromData(data)
}

// payloadCells returns how many cells of b are the user-visible payload
// (total cells minus metadata and name cells).
func (b block) payloadCells() int { return b.cells - metaCells - b.nameLen }

// callbacksOf returns the block's registered Callbacks record.
func (c *Context) callbacksOf(b block) *Callbacks { return c.r.cbPtr(b.header + 2) }

// nameOf returns the block's registered name.
func (c *Context) nameOf(b block) string {
	raw := c.r.bytesAt(b.header+3, 0, b.nameLen*Align)
	for i, ch := range raw {
		if ch == 0 {
			return string(raw[:i])
		}
	}
	return string(raw)
}

// dataBytes returns a byte slice over b's full payload capacity.
func (c *Context) dataBytes(b block) []byte {
	return c.r.bytesAt(b.data, 0, b.payloadCells()*Align)
}
