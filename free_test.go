// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

import "testing"

func TestFreeInvalidHandle(t *testing.T) {
	c := newTestContext(t, 4096)
	if err := c.Free(0); err == nil {
		t.Fatal("expected an error freeing the zero handle")
	}
	if err := c.Free(999); err == nil {
		t.Fatal("expected an error freeing a handle that was never allocated")
	}
}

func TestFreeDoubleFree(t *testing.T) {
	c := newTestContext(t, 4096)
	h := mustAlloc(t, c, 32, "")
	if err := c.Free(h); err != nil {
		t.Fatal(err)
	}
	if err := c.Free(h); err == nil {
		t.Fatal("expected an error double-freeing a handle")
	}
}

// Allocating a run of blocks and then freeing them back in the reverse
// (topmost-first) order restores the context to its post-init state:
// each free removes the current tail block, so neither the arena nor the
// handle table ever goes through a mid-arena hole.
func TestFreeEverythingRestoresFreshState(t *testing.T) {
	c := newTestContext(t, 8192)

	var handles []Handle
	for i, size := range []int{64, 128, 256, 32, 512} {
		handles = append(handles, mustAlloc(t, c, size, string(rune('a'+i))))
	}

	for i := len(handles) - 1; i >= 0; i-- {
		if err := c.Free(handles[i]); err != nil {
			t.Fatal(err)
		}
	}

	if !c.compact {
		t.Fatal("expected compact == true after freeing everything")
	}
	if c.allocEnd != c.bufStart {
		t.Fatalf("expected allocEnd == bufStart, got allocEnd=%d bufStart=%d", c.allocEnd, c.bufStart)
	}
	if c.lastHandle != c.handleTable {
		t.Fatalf("expected lastHandle == handleTable == %d, got %d", c.handleTable, c.lastHandle)
	}
	if err := c.CheckInvariants(nil); err != nil {
		t.Fatal(err)
	}
}

func TestFreeMergesAdjacentFreeBlocks(t *testing.T) {
	c := newTestContext(t, 8192)

	a := mustAlloc(t, c, 64, "a")
	b := mustAlloc(t, c, 64, "b")
	d := mustAlloc(t, c, 64, "d")
	_ = d

	if err := c.Free(a); err != nil {
		t.Fatal(err)
	}
	if err := c.Free(b); err != nil {
		t.Fatal(err)
	}

	if err := c.CheckInvariants(nil); err != nil {
		t.Fatal(err)
	}
}

// Freeing one handle must not move a third, unrelated allocation's data.
func TestFreeLeavesUnrelatedDataStable(t *testing.T) {
	c := newTestContext(t, 8192)

	a := mustAlloc(t, c, 64, "a")
	b := mustAlloc(t, c, 64, "b")
	keep := mustAlloc(t, c, 64, "keep")

	data, err := c.GetData(keep)
	if err != nil {
		t.Fatal(err)
	}
	copy(data, "hello")

	if err := c.Free(a); err != nil {
		t.Fatal(err)
	}
	if err := c.Free(b); err != nil {
		t.Fatal(err)
	}

	data2, err := c.GetData(keep)
	if err != nil {
		t.Fatal(err)
	}
	if string(data2[:5]) != "hello" {
		t.Fatalf("data mutated unexpectedly: %q", data2[:5])
	}
}
