// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import "code.hybscloud.com/atomix"

// pad is cache-line padding to prevent false sharing between the
// producer's and consumer's cached indices, the same technique
// code.hybscloud.com/lfq uses throughout its queue implementations
// (see spsc.go).
type pad [64]byte

// ring is a lock-free single-producer/single-consumer ring buffer of
// pre-constructed Sample records (spec.md §4.B).
//
// Unlike code.hybscloud.com/lfq's SPSC, which masks a power-of-2 sized
// buffer, ring follows spec.md §3's explicit invariant: size == capacity
// + 1, with fullness and emptiness decided by plain modulo arithmetic
// ((tail+1) % size == head), not a bitmask. That invariant is part of
// this package's tested contract (spec.md §8, "Ring of capacity K: after
// K pushes without popping, the (K+1)th push returns false"), so it is
// preserved exactly rather than optimized away.
//
// The producer (signal context) only ever calls reserve/commit; the
// consumer (collector goroutine) only ever calls pop. visitPending is
// called from the GC barrier hook (Session.VisitBuffered), on whatever
// goroutine the runtime drives it from. Memory ordering is load-acquire on the peer's index and
// store-release on one's own, exactly as in spsc.go.
type ring struct {
	_    pad
	head atomix.Uint64 // consumer-owned
	_    pad
	cachedTail uint64 // consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // producer-owned
	_          pad
	cachedHead uint64 // producer's cached view of head
	_          pad
	slots      []Sample
	size       uint64 // capacity + 1
}

// newRing allocates a ring of capacity pre-constructed samples (size
// slots = capacity + 1, per spec.md §3) each sized to the given depth
// caps.
func newRing(capacity, maxManagedDepth, maxNativeDepth int) *ring {
	if capacity < 1 {
		capacity = 1
	}
	size := uint64(capacity) + 1
	slots := make([]Sample, size)
	for i := range slots {
		slots[i] = newSample(maxManagedDepth, maxNativeDepth)
	}
	return &ring{slots: slots, size: size}
}

// reserve hands the producer a borrowed pointer into the ring's backing
// array for slot tail, and the value it must later pass to commit to
// publish it. It never blocks and never allocates. ok is false when the
// ring is full.
//
// Async-signal-safe.
func (r *ring) reserve() (slot *Sample, nextTail uint64, ok bool) {
	tail := r.tail.LoadRelaxed()
	next := (tail + 1) % r.size

	if next == r.cachedHead {
		r.cachedHead = r.head.LoadAcquire()
		if next == r.cachedHead {
			return nil, 0, false
		}
	}

	return &r.slots[tail], next, true
}

// commit publishes a slot previously handed out by reserve, making it
// visible to the consumer's pop. next must be the nextTail value reserve
// returned alongside that slot.
//
// Async-signal-safe.
func (r *ring) commit(next uint64) {
	r.tail.StoreRelease(next)
}

// pop copies the oldest unread sample into out and advances head. It
// returns false without modifying out when the ring is empty.
//
// Deep-copies the managed/native frame contents (bounded by each
// sample's recorded depth) rather than reassigning slice headers, so
// out keeps its own backing storage and the freed ring slot can be
// reused by the producer without aliasing out.
func (r *ring) pop(out *Sample) bool {
	head := r.head.LoadRelaxed()

	if head == r.cachedTail {
		r.cachedTail = r.tail.LoadAcquire()
		if head == r.cachedTail {
			return false
		}
	}

	slot := &r.slots[head]
	out.TimestampNS = slot.TimestampNS
	out.Thread = slot.Thread
	out.ConsumedTimeNS = slot.ConsumedTimeNS
	out.ManagedDepth = slot.ManagedDepth
	out.NativeDepth = slot.NativeDepth
	copy(out.ManagedFrames, slot.ManagedFrames[:slot.ManagedDepth])
	copy(out.ManagedLines, slot.ManagedLines[:slot.ManagedDepth])
	copy(out.NativeFrames, slot.NativeFrames[:slot.NativeDepth])

	next := (head + 1) % r.size
	r.head.StoreRelease(next)
	return true
}

// tryPop is pop expressed as the ecosystem's non-blocking-drain idiom:
// nil on success, ErrWouldBlock when the ring is empty, exactly as
// code.hybscloud.com/lfq's own Dequeue reports an empty queue. The
// collector's drain loops use this form so "keep draining until
// ErrWouldBlock" reads the same way it would against any
// code.hybscloud.com queue.
func (r *ring) tryPop(out *Sample) error {
	if !r.pop(out) {
		return ErrWouldBlock
	}
	return nil
}

// visitPending calls visit for every sample between the consumer's head
// and the producer's tail, inclusive of head and exclusive of tail,
// without disturbing either index. It is the non-consuming iterator the
// GC barrier hook uses to report every buffered managed-frame handle as
// reachable (spec.md §4.D, "GC barrier protocol"; §9, "GC enumeration of
// in-flight handles").
//
// Safe to call concurrently with the producer's reserve/commit (it only
// ever reads slots the producer has already committed). It does not
// synchronize with the consumer's pop, which runs on the collector
// goroutine: head and tail are each read once, and a concurrent pop may
// advance head past slots this call still visits.
func (r *ring) visitPending(visit func(*Sample)) {
	head := r.head.LoadAcquire()
	tail := r.tail.LoadAcquire()
	for i := head; i != tail; i = (i + 1) % r.size {
		visit(&r.slots[i])
	}
}

// capacity returns the number of samples the ring can hold at once
// (size - 1, the reserved sentinel slot excluded).
func (r *ring) capacity() int {
	return int(r.size - 1)
}
