// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

// fitResult describes a free span the scanner accepted.
type fitResult struct {
	block cellIdx
	cells int  // size of the free span found (>= requested)
	last  bool // true if the span is the virtual tail, not a tagged block
}

// scanFit performs a first-fit walk starting at firstFreeBlock: advance
// over allocated (positive-length) blocks, accept
// the first free (negative-length) block of sufficient size, or fall
// through to the virtual tail region between allocEnd and lastHandle.
func (c *Context) scanFit(need int) (fitResult, bool) {
	for block := c.firstFreeBlock; ; {
		if block == c.allocEnd {
			tail := int(c.lastHandle - block)
			if tail >= need {
				return fitResult{block: block, cells: tail, last: true}, true
			}
			return fitResult{}, false
		}

		length := c.r.val(block)
		if length > 0 {
			block += cellIdx(length)
			continue
		}

		free := -length
		if free >= need {
			return fitResult{block: block, cells: free}, true
		}
		block += cellIdx(free)
	}
}
