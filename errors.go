// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmem

import "fmt"

// ErrInvalid reports a caller mistake: an argument that can never succeed
// regardless of the context's state (a negative AllocEx size, a handle that
// is zero or not live, a region too small to hold even one cell). A Shrink
// range outside the current payload is not an error: Shrink reports false.
// It is distinct from an ordinary allocation failure, which
// is reported by a zero Handle, not an error — see AllocEx.
type ErrInvalid struct {
	Msg string
	Arg interface{}
}

func (e *ErrInvalid) Error() string {
	if e.Arg == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Arg)
}

// ErrCorrupt reports that an internal invariant of the arena or handle
// table did not hold. It should never occur from normal use of the public
// API; only CheckInvariants returns it. A handle that was never returned by
// AllocEx is reported as ErrInvalid instead.
type ErrCorrupt struct {
	Msg string
	Arg interface{}
}

func (e *ErrCorrupt) Error() string {
	if e.Arg == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Arg)
}
