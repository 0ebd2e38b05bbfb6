// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

import "testing"

func TestShrinkTailReclaimsSpace(t *testing.T) {
	c := newTestContext(t, 4096)

	h := mustAlloc(t, c, 256, "tail")
	before := c.Available()

	ok, err := c.Shrink(h, 0, 64)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected Shrink to succeed")
	}

	data, err := c.GetData(h)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 64 {
		t.Fatalf("expected at least 64 bytes remaining, got %d", len(data))
	}
	if c.Available() <= before {
		t.Fatalf("expected Available to grow after a tail shrink: before=%d after=%d", before, c.Available())
	}
	if err := c.CheckInvariants(nil); err != nil {
		t.Fatal(err)
	}
}

func TestShrinkFrontAdvancesData(t *testing.T) {
	c := newTestContext(t, 4096)

	h := mustAlloc(t, c, 256, "front")
	data, err := c.GetData(h)
	if err != nil {
		t.Fatal(err)
	}
	copy(data, "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

	ok, err := c.Shrink(h, Align*4, 256-Align*4)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected Shrink to succeed")
	}

	data2, err := c.GetData(h)
	if err != nil {
		t.Fatal(err)
	}
	want := "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"[Align*4:]
	if len(data2) < len(want) || string(data2[:len(want)]) != want {
		t.Fatalf("front shrink did not preserve the retained suffix: got %q want prefix %q", data2[:len(want)], want)
	}
	if err := c.CheckInvariants(nil); err != nil {
		t.Fatal(err)
	}
}

func TestShrinkOutOfRangeFails(t *testing.T) {
	c := newTestContext(t, 4096)
	h := mustAlloc(t, c, 64, "x")

	ok, err := c.Shrink(h, 0, 10000)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected an out-of-range shrink to report false")
	}

	ok, err = c.Shrink(h, -1, 64)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected a negative newStart to report false")
	}
}

// Shrinking a block to exactly its current payload is a no-op and
// reports true.
func TestShrinkToCurrentSizeIsNoop(t *testing.T) {
	c := newTestContext(t, 4096)
	h := mustAlloc(t, c, 200, "stable")

	data, err := c.GetData(h)
	if err != nil {
		t.Fatal(err)
	}
	size := len(data)

	before, err := c.resolveHandle(h)
	if err != nil {
		t.Fatal(err)
	}

	ok, err := c.Shrink(h, 0, size)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected shrink-to-current-size to report true")
	}

	after, err := c.resolveHandle(h)
	if err != nil {
		t.Fatal(err)
	}
	if before.header != after.header || before.cells != after.cells {
		t.Fatalf("shrink-to-current-size mutated the block: before=%+v after=%+v", before, after)
	}
}

func TestShrinkClearsHandleLockOnFailure(t *testing.T) {
	c := newTestContext(t, 4096)
	h := mustAlloc(t, c, 64, "locked")
	c.handleLock = h

	ok, err := c.Shrink(h, 0, 100000)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected the out-of-range shrink to fail")
	}
	if c.handleLock != 0 {
		t.Fatal("expected Shrink to clear handleLock even when it reports false")
	}
}
