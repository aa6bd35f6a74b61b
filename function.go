// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

// FunctionKind distinguishes a managed-language function from a native
// one.
type FunctionKind uint8

const (
	FunctionManaged FunctionKind = iota
	FunctionNative
)

// absentLineno marks a Function or Location whose line number is not
// known, per spec.md §3 ("start_lineno (>= 0 or absent)").
const absentLineno int32 = -1

// Function is a canonical description of a callable (spec.md §3).
//
// Function is comparable and used directly as a map key by the
// function intern table: two Functions are equal — and therefore
// interned to the same index — iff Kind, Name, Filename, StartLine and
// StartAddr all match, exactly the equality spec.md §3 documents.
type Function struct {
	Kind      FunctionKind
	Name      string
	Filename  string // empty string means absent, per spec.md §3
	StartLine int32  // absentLineno means absent
	StartAddr uintptr
}

// Location is a call site within a function (spec.md §3). Like
// Function, it is comparable and interned by direct use as a map key.
type Location struct {
	FunctionIndex int
	Lineno        int32   // managed call sites; 0 for native
	Address       uintptr // native call sites; 0 for managed
}
