// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

import "testing"

func newTestContext(t *testing.T, size int) *Context {
	t.Helper()
	c, err := Init(make([]byte, size))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mustAlloc(t *testing.T, c *Context, size int, name string) Handle {
	t.Helper()
	h, err := c.AllocEx(size, name, DefaultCallbacks())
	if err != nil {
		t.Fatal(err)
	}
	if h == 0 {
		t.Fatalf("AllocEx(%d, %q) unexpectedly failed", size, name)
	}
	return h
}

// Three differently-sized, differently-named allocations against a
// 10 KiB buffer all succeed with positive handles.
func TestAllocMultipleSizedAndNamedBlocks(t *testing.T) {
	c := newTestContext(t, 10*1024)

	foo := mustAlloc(t, c, 512, "foo")
	bar := mustAlloc(t, c, 1024, "bar")
	big := mustAlloc(t, c, 8192, "8K")

	for _, h := range []Handle{foo, bar, big} {
		if h <= 0 {
			t.Fatalf("expected a positive handle, got %d", h)
		}
	}
	if c.Available() < 0 {
		t.Fatalf("Available reported a negative size: %d", c.Available())
	}
	if err := c.CheckInvariants(nil); err != nil {
		t.Fatal(err)
	}
}

func TestAllocNegativeSize(t *testing.T) {
	c := newTestContext(t, 4096)
	if _, err := c.AllocEx(-1, "", nil); err == nil {
		t.Fatal("expected an error for a negative size")
	}
}

func TestAllocDefaultsCallbacks(t *testing.T) {
	c := newTestContext(t, 4096)
	h, err := c.AllocEx(16, "x", nil)
	if err != nil || h == 0 {
		t.Fatalf("AllocEx failed: h=%d err=%v", h, err)
	}
	data, err := c.GetData(h)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 16 {
		t.Fatalf("expected at least 16 bytes of payload, got %d", len(data))
	}
}

func TestAllocExhaustsSpace(t *testing.T) {
	c := newTestContext(t, 2048)

	var last Handle
	for i := 0; i < 1000; i++ {
		h, err := c.AllocEx(64, "", DefaultCallbacks())
		if err != nil {
			t.Fatal(err)
		}
		if h == 0 {
			return
		}
		last = h
	}
	t.Fatalf("expected allocation to eventually fail; last handle %d still succeeded", last)
}

func TestAllocNameRoundTrip(t *testing.T) {
	c := newTestContext(t, 4096)
	h := mustAlloc(t, c, 32, "named-block")
	name, err := c.GetName(h)
	if err != nil {
		t.Fatal(err)
	}
	if name != "named-block" {
		t.Fatalf("GetName = %q, want %q", name, "named-block")
	}
}

func TestAllocMaximumSetsLock(t *testing.T) {
	c := newTestContext(t, 4096)

	h, size, err := c.AllocMaximum("big", DefaultCallbacks())
	if err != nil {
		t.Fatal(err)
	}
	if h == 0 {
		t.Fatal("AllocMaximum unexpectedly failed")
	}
	if size <= 0 {
		t.Fatalf("expected a positive granted size, got %d", size)
	}
	if c.handleLock != h {
		t.Fatalf("expected handleLock == %d, got %d", h, c.handleLock)
	}

	if _, err := c.Shrink(h, 0, size); err != nil {
		t.Fatal(err)
	}
	if c.handleLock != 0 {
		t.Fatal("expected Shrink on the locked handle to clear handleLock")
	}
}

// fakeYielder lets a test observe and react to a yield without involving
// real goroutine scheduling.
type fakeYielder struct {
	onYield func()
}

func (y *fakeYielder) Yield()     { y.onYield() }
func (y *fakeYielder) Broadcast() {}

func TestAllocWaitsOnHandleLock(t *testing.T) {
	c := newTestContext(t, 4096)

	h := mustAlloc(t, c, 16, "locked")
	c.handleLock = h

	yields := 0
	c.yielder = &fakeYielder{onYield: func() {
		yields++
		c.handleLock = 0 // simulate a concurrent Shrink clearing the lock
	}}

	h2, err := c.Alloc(8)
	if err != nil {
		t.Fatal(err)
	}
	if h2 == 0 {
		t.Fatal("expected Alloc to succeed once the lock clears")
	}
	if yields == 0 {
		t.Fatal("expected AllocEx to yield at least once while the handle lock was held")
	}
}
