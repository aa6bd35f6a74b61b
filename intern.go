// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

const internInitialCapacity = 16

// dynArray is a growable array with the amortized-doubling policy
// spec.md §9 calls for explicitly ("initial capacity 16, doubling on
// fill"), grounded on original_source/ext/pf2/session.c's
// ensure_sample_capacity, which doubles session->samples the same way.
// A plain Go slice already amortizes growth internally, but this type
// makes the policy — and its single failure mode, reallocation
// exhaustion — a first-class, testable part of the collector's
// bookkeeping rather than an implementation detail hidden in append.
type dynArray[T any] struct {
	items []T
}

func newDynArray[T any]() dynArray[T] {
	return dynArray[T]{items: make([]T, 0, internInitialCapacity)}
}

// push appends v, doubling the backing array when full. It cannot fail
// in Go (unlike the original's realloc, which can return NULL); the
// return value documents that failure path for symmetry with spec.md
// §9. The bool is always true, and the interning call sites below
// discard it.
func (d *dynArray[T]) push(v T) (index int, ok bool) {
	if len(d.items) == cap(d.items) {
		next := make([]T, len(d.items), max(internInitialCapacity, cap(d.items)*2))
		copy(next, d.items)
		d.items = next
	}
	d.items = append(d.items, v)
	return len(d.items) - 1, true
}

func (d *dynArray[T]) len() int { return len(d.items) }

// internTables holds the three hash-based intern tables (function,
// location, stack) the collector drains into, plus the dynamic arrays
// of canonical values they index into. function_index and
// location_index values are monotonically increasing and never reused
// within a session (spec.md §3).
type internTables struct {
	functions      dynArray[Function]
	functionIndex  map[Function]int
	locations      dynArray[Location]
	locationIndex  map[Location]int
	aggregated     dynArray[AggregatedSample]
	aggregateIndex map[aggregateKey]int
}

func newInternTables() *internTables {
	return &internTables{
		functions:      newDynArray[Function](),
		functionIndex:  make(map[Function]int, internInitialCapacity),
		locations:      newDynArray[Location](),
		locationIndex:  make(map[Location]int, internInitialCapacity),
		aggregated:     newDynArray[AggregatedSample](),
		aggregateIndex: make(map[aggregateKey]int, internInitialCapacity),
	}
}

// functionIndexFor interns fn, returning its canonical index. On a hit
// the already-built fn argument is simply discarded (Go has no
// strdup'd-string ownership to free, unlike
// original_source/ext/pf2/session.c's function_index_for, which frees
// the just-strdup'd strings on a hit — here that step is a no-op
// because Go strings are immutable and garbage collected).
func (t *internTables) functionIndexFor(fn Function) int {
	if idx, ok := t.functionIndex[fn]; ok {
		return idx
	}
	idx, _ := t.functions.push(fn)
	t.functionIndex[fn] = idx
	return idx
}

// locationIndexFor interns a (functionIndex, lineno, address) triple.
func (t *internTables) locationIndexFor(functionIndex int, lineno int32, address uintptr) int {
	loc := Location{FunctionIndex: functionIndex, Lineno: lineno, Address: address}
	if idx, ok := t.locationIndex[loc]; ok {
		return idx
	}
	idx, _ := t.locations.push(loc)
	t.locationIndex[loc] = idx
	return idx
}
