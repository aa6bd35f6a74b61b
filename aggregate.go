// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import "strings"

// AggregatedSample is a (thread, stack) pair folded across every sample
// that shared it, per spec.md §3.
type AggregatedSample struct {
	Thread ThreadID

	// Stack and NativeStack are ordered sequences of location indices,
	// innermost frame first.
	Stack       []int
	NativeStack []int

	Count         uint64
	MaxElapsedNS  int64 // running max, per spec.md §9 Open Question 1
	MaxConsumedNS int64 // diagnostic running max; see SPEC_FULL.md supplement
}

// aggregateKey is the lookup key for folding identical stacks: thread
// id, plus a byte-encoding of the managed location-index sequence only.
// Two candidate samples with the same key are guaranteed — by
// construction, since the encoding is injective over the index sequence
// — to satisfy spec.md §4.D step 4's match rule ("matched by thread id,
// stack length, and a byte-wise compare of location indices"). The
// native stack is not part of the key: original_source/ext/pf2/
// indexed_maps.h's pf2_stack_key/pf2_stack_key_equal fold solely on
// ruby_thread_id + the managed stack, so a native-only divergence (e.g.
// a different interpreter dispatch or inlining path underneath an
// identical managed stack) still folds into one aggregated sample.
type aggregateKey struct {
	thread ThreadID
	key    string
}

// encodeStackKey builds the string half of an aggregateKey from the
// managed location-index sequence. A length-prefixed encoding (rather
// than a plain delimiter) keeps the mapping injective regardless of the
// index values. encoding/binary into a builder would work identically;
// this avoids the import and writes the length and each index as a
// fixed 8-byte block (see writeUvarintLen).
func encodeStackKey(stack []int) string {
	var b strings.Builder
	b.Grow(8 + len(stack)*8)
	writeUvarintLen(&b, len(stack))
	for _, idx := range stack {
		writeUvarintLen(&b, idx)
	}
	return b.String()
}

// writeUvarintLen writes n (always >= 0 here: a slice length or an
// intern-table index) as a little-endian 8-byte block. Fixed-width
// rather than a true varint: simplicity over density, since this key is
// built once per drained sample at collector cadence (~100 Hz), never
// on the signal-handler fast path.
func writeUvarintLen(b *strings.Builder, n int) {
	var buf [8]byte
	u := uint64(n)
	for i := range buf {
		buf[i] = byte(u)
		u >>= 8
	}
	b.Write(buf[:])
}

// aggregate folds candidate into the intern tables' aggregated-sample
// array, per spec.md §4.D step 4 ("Aggregate"). On a hit it increments
// Count and raises MaxElapsedNS/MaxConsumedNS to the max of old and new,
// discarding candidate's stacks (including its NativeStack, which is
// payload, not part of the fold key — see aggregateKey); on a miss it
// appends candidate.
func (t *internTables) aggregate(candidate AggregatedSample) {
	key := aggregateKey{
		thread: candidate.Thread,
		key:    encodeStackKey(candidate.Stack),
	}

	if idx, ok := t.aggregateIndex[key]; ok {
		existing := &t.aggregated.items[idx]
		existing.Count++
		if candidate.MaxElapsedNS > existing.MaxElapsedNS {
			existing.MaxElapsedNS = candidate.MaxElapsedNS
		}
		if candidate.MaxConsumedNS > existing.MaxConsumedNS {
			existing.MaxConsumedNS = candidate.MaxConsumedNS
		}
		return
	}

	idx, _ := t.aggregated.push(candidate)
	t.aggregateIndex[key] = idx
}
