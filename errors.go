// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import (
	"fmt"

	"code.hybscloud.com/iox"
	"github.com/agilira/go-errors"
)

// Error classification, per spec.md §7.
//
// Configuration and Resource errors are surfaced to the caller (from
// NewSession and Start respectively); Stop-path errors are surfaced from
// Stop but never prevent the already-collected profile from being
// returned. Capture drops and aggregation drops are never surfaced as Go
// errors — they only increment Profile.DroppedSampleCount.
const (
	// ErrCodeConfiguration marks an invalid option type or an
	// out-of-range value, detected at NewSession.
	ErrCodeConfiguration errors.ErrorCode = "SAMPLER_CONFIGURATION"

	// ErrCodeResource marks allocation failure, timer creation/arming
	// failure, collector spawn failure, or signal-handler install
	// failure, detected at Start.
	ErrCodeResource errors.ErrorCode = "SAMPLER_RESOURCE"

	// ErrCodeStop marks a timer-teardown or collector-join failure,
	// detected at Stop. The profile for whatever was collected is still
	// returned alongside the error.
	ErrCodeStop errors.ErrorCode = "SAMPLER_STOP"

	// ErrCodeState marks a session lifecycle misuse: starting a session
	// that is already running, or stopping one that never started.
	ErrCodeState errors.ErrorCode = "SAMPLER_STATE"
)

// ErrWouldBlock is the ring buffer's internal empty sentinel. It never
// reaches a caller of the Session API — ring.tryPop returns it only to
// the collector's non-blocking drain helpers, where it is the expected,
// non-failure signal to stop draining for this pass. reserve and pop
// report full/empty with a bool instead.
//
// This is an alias for iox.ErrWouldBlock for ecosystem consistency with
// code.hybscloud.com/lfq, which does the same in its own errors.go.
var ErrWouldBlock = iox.ErrWouldBlock

func configErrorf(format string, args ...any) error {
	return errors.New(ErrCodeConfiguration, fmt.Sprintf(format, args...))
}

func resourceError(cause error, msg string) error {
	return errors.Wrap(cause, ErrCodeResource, msg)
}

func stopError(cause error, msg string) error {
	return errors.Wrap(cause, ErrCodeStop, msg)
}

func stateErrorf(format string, args ...any) error {
	return errors.New(ErrCodeState, fmt.Sprintf(format, args...))
}
