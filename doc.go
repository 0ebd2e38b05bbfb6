// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package hmem implements a handle-based, compacting memory allocator over a
single caller-supplied, fixed-size byte region.

Consumers request named allocations and receive stable integer handles; a
handle yields the current base address of its allocation through an O(1)
table lookup. Unlike a conventional allocator, hmem is free to physically
relocate allocations within the region between calls in order to coalesce
free space. Because of that, a data pointer returned by GetData is only
valid until the next call that may trigger compaction (AllocEx,
AllocMaximum, Shrink, BufferOut, BufferIn) — callers must re-fetch it
afterwards.

Region layout

The region is treated as an array of cells, each cell being a
pointer-sized slot. All arithmetic inside the package is in cells; the
caller-supplied byte region is aligned up and truncated down to a whole
number of cells by Init.

A block is a contiguous run of cells. Free blocks carry a negative cell
count in their first cell; allocated blocks carry a positive cell count
followed by a pointer to their handle-table slot, a pointer to a
Callbacks record (never nil — DefaultCallbacks is used in the common
case), a NUL-terminated, cell-padded name, a trailer cell recording how
many cells the name occupied, and finally the user-visible payload.

Allocations grow up from the start of the region. The handle table grows
down from the top of the region. Between them lies the implicit free
space that no block header currently covers.

Handles

A handle is a positive integer identifying a slot in the handle table. It
remains valid until Free(handle); the slot's address never moves, only
its content (the current data pointer) does. Handle 0 is reserved and is
never returned by a successful call.

Movability and shrinking

An allocation may supply a Callbacks value with a MoveFunc (invoked
before compaction relocates the block) and/or a ShrinkFunc (invoked when
the allocator is under pressure and asks the owner to voluntarily shrink
its allocation). A nil MoveFunc makes a block immovable: compaction
routes around it by synthesizing a hole rather than relocating it. A nil
ShrinkFunc makes a block unshrinkable.
*/
package hmem
