// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// collectorDrainInterval is how long the collector sleeps between drain
// passes (spec.md §4.D, "Sleep ~10 ms").
const collectorDrainInterval = 10 * time.Millisecond

// defaultRingCapacity bounds how many samples may be buffered between
// collector drain passes before the producer starts dropping. Sized so
// a full 10ms drain interval at the fastest documented interval_ms (1ms)
// still fits comfortably.
const defaultRingCapacity = 4096

type sessionState int32

const (
	stateCreated sessionState = iota
	stateRunning
	stateStopped
)

// Session is the lifecycle owner described by spec.md §3 ("Session") and
// §4.D. At most one Session may be running at a time per process; see
// activesession.go.
type Session struct {
	opts Options

	ring   *ring
	intern *internTables

	isMarking            atomix.Bool
	collectedSampleCount atomix.Uint64
	droppedSampleCount   atomix.Uint64

	state atomic.Int32 // sessionState

	startRealtime  time.Time
	startMonotonic time.Time
	durationNS     atomic.Int64

	timer timer

	collectorWG   sync.WaitGroup
	stopCollector chan struct{}
	scratch       Sample // collector-owned reusable pop destination
}

// NewSession constructs a Session. Options are validated and defaulted
// (spec.md §4.D); buffers are allocated but no samples are produced
// until Start.
func NewSession(opts Options) (*Session, error) {
	normalized, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	s := &Session{
		opts:   normalized,
		ring:   newRing(defaultRingCapacity, normalized.MaxManagedDepth, normalized.MaxNativeDepth),
		intern: newInternTables(),
	}
	s.scratch = newSample(normalized.MaxManagedDepth, normalized.MaxNativeDepth)
	s.state.Store(int32(stateCreated))
	return s, nil
}

// Configuration returns the effective, normalized configuration this
// session was constructed with (spec.md §6, "configuration()").
func (s *Session) Configuration() Options {
	return s.opts
}

// Start arms the timer, installs the signal producer, spawns the
// collector, and publishes this session as the process-wide active one.
// Starting an already-started (or already-stopped) session is an error.
//
// Order of operations follows spec.md §4.D exactly: snapshot start time,
// mark running, spawn collector, install signal handlers, arm the
// timer, and only then publish the active-session pointer.
func (s *Session) Start() error {
	if !s.state.CompareAndSwap(int32(stateCreated), int32(stateRunning)) {
		return stateErrorf("session cannot be started from its current state")
	}

	// Fail fast on an obvious conflict before doing any setup work; the
	// authoritative check is the CompareAndSwap publish below.
	if currentActive() != nil {
		s.state.Store(int32(stateCreated))
		return stateErrorf("another session is already active in this process")
	}

	s.startRealtime = time.Now()
	s.startMonotonic = s.startRealtime

	s.stopCollector = make(chan struct{})
	s.collectorWG.Add(1)
	go s.collectorLoop()

	if !s.opts.testNoInstallTimer {
		t, err := installTimer(s.opts.TimeMode, s.opts.IntervalMS, producerTick)
		if err != nil {
			close(s.stopCollector)
			s.collectorWG.Wait()
			s.state.Store(int32(stateCreated))
			s.opts.Logger.Error("sampler: failed to install timer", "time_mode", s.opts.TimeMode.String(), "interval_ms", s.opts.IntervalMS, "error", err)
			return resourceError(err, "failed to install sampling timer")
		}
		s.timer = t
	}

	if !publishActive(s) {
		if s.timer != nil {
			s.timer.stop()
		}
		close(s.stopCollector)
		s.collectorWG.Wait()
		s.state.Store(int32(stateCreated))
		s.opts.Logger.Error("sampler: session start raced another active session")
		return stateErrorf("another session became active while starting")
	}

	s.opts.Logger.Info("sampler: session started", "time_mode", s.opts.TimeMode.String(), "interval_ms", s.opts.IntervalMS)
	return nil
}

// Stop disarms the timer, clears the active-session pointer, joins the
// collector, performs one final drain, and returns the serialized
// profile. It reverses Start's order exactly, per spec.md §4.D.
func (s *Session) Stop() (*Profile, error) {
	if !s.state.CompareAndSwap(int32(stateRunning), int32(stateStopped)) {
		return nil, stateErrorf("session is not running")
	}

	var stopErr error
	if s.timer != nil {
		if err := s.timer.stop(); err != nil {
			stopErr = stopError(err, "failed to disarm sampling timer")
			s.opts.Logger.Error("sampler: failed to disarm timer", "error", err)
		}
	}

	clearActive(s)

	close(s.stopCollector)
	s.collectorWG.Wait()

	s.finalDrain()

	s.durationNS.Store(time.Since(s.startMonotonic).Nanoseconds())

	profile := s.serialize()
	s.opts.Logger.Info("sampler: session stopped",
		"duration_ns", profile.DurationNS,
		"collected_samples", profile.CollectedSampleCount,
		"dropped_samples", profile.DroppedSampleCount,
		"distinct_aggregates", len(profile.Samples),
	)
	return profile, stopErr
}

// collectorLoop is the dedicated worker described in spec.md §4.D
// ("Collector loop"): drain, sleep, repeat; exit then final-drain when
// signaled.
func (s *Session) collectorLoop() {
	defer s.collectorWG.Done()
	for {
		s.drainAll()
		select {
		case <-s.stopCollector:
			s.drainAll()
			return
		case <-time.After(collectorDrainInterval):
		}
	}
}

// drainAll repeatedly pops samples until the ring reports ErrWouldBlock,
// interning and aggregating each one (spec.md §4.D, "Drain step").
func (s *Session) drainAll() {
	for {
		if errors.Is(s.ring.tryPop(&s.scratch), ErrWouldBlock) {
			return
		}
		s.collectedSampleCount.AddAcqRel(1)
		s.drainSample(&s.scratch)
	}
}

// finalDrain is Stop's last drain (spec.md §4.D, "drain any residual
// samples from the ring before returning"). The timer is already
// disarmed and the collector already joined, so no new reserve should
// land after this point — but a producer tick whose reserve() happened
// just before disarm may still be mid-capture. A few short spins
// (code.hybscloud.com/spin, the same primitive
// code.hybscloud.com/lfq uses for its own CAS retries) give that commit
// a chance to land before the ring is declared empty for good.
func (s *Session) finalDrain() {
	s.drainAll()
	sw := spin.Wait{}
	for i := 0; i < 8; i++ {
		sw.Once()
		if !errors.Is(s.ring.tryPop(&s.scratch), ErrWouldBlock) {
			s.collectedSampleCount.AddAcqRel(1)
			s.drainSample(&s.scratch)
			s.drainAll()
		}
	}
}

// MarkStart implements GCCooperator. It sets the GC barrier with
// release ordering: a producer tick that subsequently loads isMarking
// with acquire ordering is guaranteed to observe it (spec.md §4.D, "GC
// barrier protocol").
func (s *Session) MarkStart() {
	s.isMarking.StoreRelease(true)
}

// VisitBuffered implements GCCooperator, reporting every managed-frame
// handle in every not-yet-drained sample as reachable. Valid only
// between MarkStart and MarkEnd.
func (s *Session) VisitBuffered(visit func(ManagedFrame)) {
	s.ring.visitPending(func(sample *Sample) {
		for i := 0; i < sample.ManagedDepth; i++ {
			visit(sample.ManagedFrames[i])
		}
	})
}

// MarkEnd implements GCCooperator, clearing the GC barrier.
func (s *Session) MarkEnd() {
	s.isMarking.StoreRelease(false)
}

// producerTick is invoked by the installed timer on every tick (from
// whatever goroutine/thread the platform timer package uses to deliver
// it — see timer_unix.go and timer_fallback.go). It implements spec.md
// §4.C's handler protocol exactly: resolve active session, check the GC
// barrier, reserve a ring slot, capture, commit.
//
// Async-signal-safe in intent: no allocation on any path below (ring
// reservation hands back a pre-allocated slot; capture writes in
// place), no lock shared with application code, no re-entrant call into
// anything that can suspend.
func producerTick() {
	s := currentActive()
	if s == nil {
		return
	}

	if s.isMarking.LoadAcquire() {
		s.droppedSampleCount.AddAcqRel(1)
		return
	}

	slot, nextTail, ok := s.ring.reserve()
	if !ok {
		s.droppedSampleCount.AddAcqRel(1)
		return
	}

	if !slot.capture(s.opts.Runtime, s.startMonotonic) {
		return
	}

	s.ring.commit(nextTail)
}
