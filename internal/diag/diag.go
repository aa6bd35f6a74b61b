// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package diag provides the optional rotated-file logging sink used for
// a Session's lifecycle diagnostics (resource errors, start/stop
// timing). It is never on the sampling fast path: the signal producer
// and the collector never write to it; only Start and Stop log.
package diag

import (
	"io"
	"log/slog"
	"time"

	"github.com/agilira/go-timecache"
	"github.com/agilira/lethe"
)

// FileSinkConfig configures a rotated-file logging sink.
type FileSinkConfig struct {
	// Filename is the log file path. Required.
	Filename string

	// MaxSizeMB is the rotation size threshold, in megabytes. Defaults
	// to 100 when zero.
	MaxSizeMB int64

	// MaxBackups caps the number of retained rotated files. Zero
	// retains all of them.
	MaxBackups int

	// Compress gzips rotated backups.
	Compress bool
}

// NewFileSink builds an io.Writer backed by a rotating log file, grounded
// on agilira-lethe's Logger. Callers close it via the returned
// io.Closer when the session's logger is no longer needed.
func NewFileSink(cfg FileSinkConfig) (io.WriteCloser, error) {
	maxSize := cfg.MaxSizeMB
	if maxSize == 0 {
		maxSize = 100
	}
	return lethe.NewWithConfig(&lethe.LoggerConfig{
		Filename:   cfg.Filename,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}

// NewLogger wraps sink (or a discard writer when sink is nil) in a
// structured slog.Logger, the same handler family
// code.hybscloud.com/lfq's own tooling favors for diagnostics. Record
// timestamps are stamped from Now, the cached clock below, rather than
// time.Now, since a log line's timestamp only needs millisecond
// precision.
func NewLogger(sink io.Writer) *slog.Logger {
	if sink == nil {
		sink = io.Discard
	}
	opts := &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				a.Value = slog.TimeValue(Now())
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(sink, opts))
}

// clock is a coarse, cached timestamp source for diagnostic log lines
// only. The sampling hot path never reads from it — capture uses
// time.Since against the session's own monotonic epoch directly, since
// that measurement is the product being profiled, not a log
// annotation.
var clock = timecache.NewWithResolution(time.Millisecond)

// Now returns the cached diagnostic timestamp. Safe for concurrent use;
// resolution is capped at clock's configured granularity.
func Now() time.Time {
	return clock.CachedTime()
}
