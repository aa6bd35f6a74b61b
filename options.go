// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import (
	"log/slog"

	"github.com/hybscloud/sampler/internal/diag"
)

// TimeMode selects the clock the session's timer is driven by.
type TimeMode int

const (
	// TimeModeCPU uses the process-CPU-time clock (ITIMER_PROF on unix).
	// This is the default: samples are only taken while this process is
	// actually consuming CPU.
	TimeModeCPU TimeMode = iota

	// TimeModeWall uses the monotonic/real clock (ITIMER_REAL on unix),
	// sampling at fixed wall-clock intervals regardless of CPU usage.
	TimeModeWall
)

// String implements fmt.Stringer.
func (m TimeMode) String() string {
	switch m {
	case TimeModeCPU:
		return "cpu"
	case TimeModeWall:
		return "wall"
	default:
		return "unknown"
	}
}

const (
	defaultIntervalMS      = 9
	defaultMaxManagedDepth = 1024
	defaultMaxNativeDepth  = 512

	minIntervalMS      = 1
	minManagedDepth    = 1
	maxManagedDepthCap = 1024
	minNativeDepth     = 1
	maxNativeDepthCap  = 512
)

// Options configures a Session. Zero-valued fields are replaced with the
// documented defaults by NewSession, except Runtime, which is required.
//
// See spec.md §4.D for the authoritative option table.
type Options struct {
	// Runtime is the managed-runtime binding samples are captured
	// against. Required.
	Runtime Runtime

	// Symbolizer resolves native instruction pointers. Optional; when
	// nil, native frames are interned with an absent name (spec.md §6).
	Symbolizer Symbolizer

	// IntervalMS is the period between timer ticks, in milliseconds.
	// Must be >= 1. Defaults to 9.
	IntervalMS int

	// TimeMode selects the clock driving the timer. Defaults to
	// TimeModeCPU.
	TimeMode TimeMode

	// MaxManagedDepth caps the number of managed frames captured per
	// sample, in [1, 1024]. Defaults to 1024.
	MaxManagedDepth int

	// MaxNativeDepth caps the number of native frames captured per
	// sample, in [1, 512]. Defaults to 512.
	MaxNativeDepth int

	// Logger receives lifecycle diagnostics (session start/stop, timer
	// install and disarm failures). Never written to from the signal
	// producer. Defaults to a
	// discard logger when nil.
	Logger *slog.Logger

	// DiagnosticsFile, if set, rotates lifecycle diagnostics to this path
	// via an internal/diag file sink instead of whatever Logger is
	// configured. Ignored when Logger is explicitly set.
	DiagnosticsFile string

	// testNoInstallTimer skips all timer/signal syscalls at Start and
	// Stop. It exists only for this package's own test suite — see
	// spec.md §4.D — and is set with withTestNoInstallTimer, which is
	// unexported and unreachable outside package sampler.
	testNoInstallTimer bool
}

// withTestNoInstallTimer returns a copy of o with the test-only timer
// hook set. Only sampler's own tests, compiled into this package, can
// reach this function.
func withTestNoInstallTimer(o Options) Options {
	o.testNoInstallTimer = true
	return o
}

// normalize applies defaults and validates o, returning the effective
// configuration or a classified configuration error (spec.md §7).
func (o Options) normalize() (Options, error) {
	out := o

	if out.Runtime == nil {
		return Options{}, configErrorf("Runtime binding is required")
	}

	if out.IntervalMS == 0 {
		out.IntervalMS = defaultIntervalMS
	}
	if out.IntervalMS < minIntervalMS {
		return Options{}, configErrorf("interval_ms must be >= %d, got %d", minIntervalMS, out.IntervalMS)
	}

	switch out.TimeMode {
	case TimeModeCPU, TimeModeWall:
	default:
		return Options{}, configErrorf("time_mode %d is not one of {cpu, wall}", out.TimeMode)
	}

	if out.MaxManagedDepth == 0 {
		out.MaxManagedDepth = defaultMaxManagedDepth
	}
	if out.MaxManagedDepth < minManagedDepth || out.MaxManagedDepth > maxManagedDepthCap {
		return Options{}, configErrorf("max_managed_depth must be in [%d, %d], got %d", minManagedDepth, maxManagedDepthCap, out.MaxManagedDepth)
	}

	if out.MaxNativeDepth == 0 {
		out.MaxNativeDepth = defaultMaxNativeDepth
	}
	if out.MaxNativeDepth < minNativeDepth || out.MaxNativeDepth > maxNativeDepthCap {
		return Options{}, configErrorf("max_native_depth must be in [%d, %d], got %d", minNativeDepth, maxNativeDepthCap, out.MaxNativeDepth)
	}

	if out.Logger == nil {
		if out.DiagnosticsFile != "" {
			sink, err := diag.NewFileSink(diag.FileSinkConfig{Filename: out.DiagnosticsFile})
			if err != nil {
				return Options{}, configErrorf("failed to open diagnostics_file %q: %v", out.DiagnosticsFile, err)
			}
			out.Logger = diag.NewLogger(sink)
		} else {
			out.Logger = slog.New(slog.NewTextHandler(discardWriter{}, nil))
		}
	}

	return out, nil
}

// discardWriter is an io.Writer that discards everything written to it,
// used as the default Logger sink so diagnostics are free unless a
// caller opts in (e.g. by pointing Logger at a github.com/agilira/lethe
// rotated-file sink, see internal/diag).
type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
