// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

import "sync"

// Handle identifies a live allocation. The zero Handle never refers to a
// live allocation; it is the value AllocEx/Alloc/AllocMaximum return on
// failure.
type Handle int

// metaCells is the number of cells of fixed metadata prefixed to every
// allocated block's name+payload: the length header, the pointer to the
// owning handle-table slot, the pointer to the block's Callbacks record,
// and the name-length trailer.
const metaCells = 4

// slack is the number of cells Available reserves so a caller who checks
// Available before allocating still has room left for the handle table to
// grow into. It is a heuristic, not an invariant.
const slack = 128

// Yielder is the cooperative reschedule primitive AllocEx calls while
// waiting for an outstanding AllocMaximum's handle lock to clear. It is
// the seam a caller plugs a scheduling primitive into.
type Yielder interface {
	// Yield blocks the calling goroutine until it is woken by Broadcast,
	// or returns immediately if there is nothing to wait for.
	Yield()
	// Broadcast wakes every goroutine blocked in Yield.
	Broadcast()
}

// condYielder is the default Yielder: a sync.Cond-backed blocking wait,
// chosen over a busy runtime.Gosched() spin.
type condYielder struct {
	mu   sync.Mutex
	cond *sync.Cond
}

func newCondYielder() *condYielder {
	y := &condYielder{}
	y.cond = sync.NewCond(&y.mu)
	return y
}

func (y *condYielder) Yield() {
	y.mu.Lock()
	y.cond.Wait()
	y.mu.Unlock()
}

func (y *condYielder) Broadcast() {
	y.mu.Lock()
	y.cond.Broadcast()
	y.mu.Unlock()
}

// CompactEvent is reported to an optional WithCompactLog observer while
// compact runs. It is a structured hook, not a logging facility — hmem
// itself never imports a logging package; this is an observability seam
// for a caller's own structured logger, not a built-in printer.
type CompactEvent struct {
	Kind   string // "move", "hole", "handle-table-shrink"
	Handle Handle // zero for events with no associated handle
	Shift  int    // cells moved (negative is toward buf_start)
}

// Context is one allocator instance bound to a single caller-supplied
// region. A zero Context is not usable; construct one with Init.
type Context struct {
	r region

	bufStart       cellIdx
	allocEnd       cellIdx
	firstFreeBlock cellIdx
	handleTable    cellIdx // one past the highest handle slot
	lastHandle     cellIdx // lowest currently-reserved slot
	firstFreeHandle cellIdx

	compact    bool
	handleLock Handle

	yielder    Yielder
	compactLog func(CompactEvent)
}

// Option configures a Context at construction time.
type Option func(*Context)

// WithYielder overrides the cooperative reschedule primitive used while an
// AllocEx call waits for an outstanding AllocMaximum lock to clear.
func WithYielder(y Yielder) Option {
	return func(c *Context) { c.yielder = y }
}

// WithCompactLog registers an observer invoked for each notable compaction
// event (a block moved, a hole was synthesized opposite an immovable
// block, the handle table shrank).
func WithCompactLog(f func(CompactEvent)) Option {
	return func(c *Context) { c.compactLog = f }
}

func (c *Context) logCompact(ev CompactEvent) {
	if c.compactLog != nil {
		c.compactLog(ev)
	}
}

// Init binds a new Context to buf. buf is aligned up and
// truncated down to a whole number of cells; the usable capacity is
// therefore slightly less than len(buf) in the general case. Init fails
// only if, after alignment, buf does not span even one whole cell.
func Init(buf []byte, opts ...Option) (*Context, error) {
	aligned := alignRegion(buf)
	if aligned == nil || len(aligned) < Align {
		return nil, &ErrInvalid{Msg: "hmem.Init: region too small to align to a single cell", Arg: len(buf)}
	}

	c := &Context{r: region{buf: aligned}}
	n := cellIdx(c.r.cells())
	c.bufStart = 0
	c.allocEnd = 0
	c.firstFreeBlock = 0
	c.handleTable = n
	c.lastHandle = n
	c.firstFreeHandle = n - 1
	c.compact = true
	c.handleLock = 0

	for _, opt := range opts {
		opt(c)
	}
	if c.yielder == nil {
		c.yielder = newCondYielder()
	}
	return c, nil
}
