// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

// CheckInvariants walks the context's internal structures and reports any
// violation of the allocator's universal invariants. log, if
// non-nil, is called with each violation found; log returning false stops
// the walk and CheckInvariants returns that error. A nil log stops and
// returns on the first violation found.
func (c *Context) CheckInvariants(log func(error) bool) error {
	report := func(err error) error {
		if log != nil && log(err) {
			return nil
		}
		return err
	}

	if !(c.bufStart <= c.firstFreeBlock && c.firstFreeBlock <= c.allocEnd &&
		c.allocEnd <= c.lastHandle && c.lastHandle <= c.handleTable) {
		if err := report(&ErrCorrupt{Msg: "hmem: cell pointer ordering violated"}); err != nil {
			return err
		}
	}

	lastWasFree := false
	sum := 0
	for pos := c.bufStart; pos < c.allocEnd; {
		length := c.r.val(pos)
		if length == 0 {
			if err := report(&ErrCorrupt{Msg: "hmem: zero-length header", Arg: pos}); err != nil {
				return err
			}
			break
		}

		if length < 0 {
			if lastWasFree {
				if err := report(&ErrCorrupt{Msg: "hmem: adjacent free blocks", Arg: pos}); err != nil {
					return err
				}
			}
			if c.compact {
				if err := report(&ErrCorrupt{Msg: "hmem: free block present while compact", Arg: pos}); err != nil {
					return err
				}
			}
			lastWasFree = true
			sum += -length
			pos += cellIdx(-length)
			continue
		}

		lastWasFree = false
		if slot := c.r.refPtr(pos + 1); slot != noRef {
			b := c.blockFromData(c.r.slotData(slot))
			if b.header != pos {
				if err := report(&ErrCorrupt{Msg: "hmem: handle slot does not reference its block", Arg: slot}); err != nil {
					return err
				}
			}
			trailer := b.data - 1
			if b.header != b.data-cellIdx(c.r.val(trailer)+3) {
				if err := report(&ErrCorrupt{Msg: "hmem: trailer does not resolve to header", Arg: pos}); err != nil {
					return err
				}
			}
		}

		sum += length
		pos += cellIdx(length)
	}

	if sum != int(c.allocEnd-c.bufStart) {
		if err := report(&ErrCorrupt{Msg: "hmem: arena walk length mismatch", Arg: sum}); err != nil {
			return err
		}
	}

	for slot := c.lastHandle; slot < c.handleTable; slot++ {
		if c.r.slotIsFree(slot) || c.r.slotIsReserved(slot) {
			continue
		}
		b := c.blockFromData(c.r.slotData(slot))
		if c.r.refPtr(b.header+1) != slot {
			if err := report(&ErrCorrupt{Msg: "hmem: live handle slot not referenced by its block", Arg: slot}); err != nil {
				return err
			}
		}
	}

	return nil
}
