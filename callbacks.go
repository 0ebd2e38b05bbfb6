// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

// Status is the result of a ShrinkFunc callback.
type Status int

const (
	// StatusOK indicates the callback made the requested progress.
	StatusOK Status = 0
	// StatusCannotShrink indicates the callback refused or could not
	// shrink its allocation; the allocator treats this as no progress.
	StatusCannotShrink Status = 1
)

// ShrinkHints is a bitfield passed to a ShrinkFunc suggesting which end of
// the allocation to shrink from and by roughly how much.
type ShrinkHints uint32

const (
	// HintFront asks the owner to shrink from the front (low address end)
	// of its allocation.
	HintFront ShrinkHints = 1 << 31
	// HintBack asks the owner to shrink from the back (high address end)
	// of its allocation.
	HintBack ShrinkHints = 1 << 30
	// HintSizeMask isolates the suggested size, in bytes, carried in the
	// low 30 bits of a ShrinkHints value.
	HintSizeMask ShrinkHints = ^(HintFront | HintBack)
)

// Size returns the suggested size, in bytes, carried by h.
func (h ShrinkHints) Size() int { return int(h & HintSizeMask) }

// hintBack builds a ShrinkHints requesting a shrink from the back of the
// given size, in cells.
func hintBack(cells int) ShrinkHints {
	return HintBack | ShrinkHints(cells*Align)&HintSizeMask
}

// MoveFunc is invoked by the compactor immediately before it relocates a
// block, with the handle identifying the block, the block's current data
// pointer, and the data pointer it is about to receive. A nil MoveFunc
// makes the owning allocation immovable: the compactor routes around it
// instead of calling anything.
type MoveFunc func(h Handle, oldPtr, newPtr []byte)

// ShrinkFunc is invoked when the allocator is under pressure and asks the
// owner of a block to voluntarily give some of it back. hints suggests
// which end and how much; start and oldSize describe the allocation's
// current payload. A nil ShrinkFunc makes the allocation unshrinkable.
type ShrinkFunc func(h Handle, hints ShrinkHints, start []byte, oldSize int) Status

// Callbacks bundles the two optional hooks an allocation can register.
// Pass DefaultCallbacks() when neither hook is needed: its address, not
// its contents, is what tells the allocator to skip callback dispatch
// entirely, so constructing an equivalent-but-distinct zero value does
// not have the same effect.
type Callbacks struct {
	MoveFunc   MoveFunc
	ShrinkFunc ShrinkFunc
}

// defaultCallbacks is the process-wide sentinel "no callbacks" record.
// Its address, not its (zero) contents, is the signal the compactor and
// driver test for.
var defaultCallbacks = &Callbacks{}

// DefaultCallbacks returns the sentinel Callbacks value meaning "no
// callbacks registered." Every call returns the same pointer.
func DefaultCallbacks() *Callbacks { return defaultCallbacks }
