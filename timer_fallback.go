// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package sampler

import "time"

// tickerTimer backs installTimer on platforms without a POSIX per-process
// interval timer (spec.md §4.C's note that platforms lacking ITIMER_PROF
// /ITIMER_REAL fall back to a lower-resolution approximation). A
// time.Ticker cannot distinguish CPU time from wall time, so both
// TimeMode values drive the same wall-clock ticker here; TimeMode is
// otherwise ignored on this path.
type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
}

func installTimer(_ TimeMode, intervalMS int, tick tickFunc) (timer, error) {
	t := &tickerTimer{
		ticker: time.NewTicker(time.Duration(intervalMS) * time.Millisecond),
		done:   make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-t.ticker.C:
				tick()
			case <-t.done:
				return
			}
		}
	}()

	return t, nil
}

func (t *tickerTimer) stop() error {
	t.ticker.Stop()
	// An unbuffered send completes only once the delivery goroutine is
	// back in its select, so no tick is in flight when stop returns.
	t.done <- struct{}{}
	return nil
}
