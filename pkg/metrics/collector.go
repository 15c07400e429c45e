// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package metrics

import (
	"context"
	"runtime"
	"time"
)

// ResourceCollector keeps the process-level gauges fresh: goroutine
// count, heap usage, GC pause time and server uptime. The relying party
// server runs one for the lifetime of the listener.
type ResourceCollector struct {
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
	started  time.Time
}

// NewResourceCollector creates a resource collector that refreshes the
// gauges at the given interval (10-60 seconds is reasonable). Uptime is
// measured from this call.
func NewResourceCollector(ctx context.Context, interval time.Duration) *ResourceCollector {
	collectorCtx, cancel := context.WithCancel(ctx)
	return &ResourceCollector{
		ctx:      collectorCtx,
		cancel:   cancel,
		interval: interval,
		started:  time.Now(),
	}
}

// Start refreshes the gauges until Stop is called or the parent context
// is cancelled. It blocks, so run it in a goroutine.
func (rc *ResourceCollector) Start() {
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	// First refresh happens immediately, not one interval in.
	rc.collect()

	for {
		select {
		case <-rc.ctx.Done():
			return
		case <-ticker.C:
			rc.collect()
		}
	}
}

// Stop halts the collector.
func (rc *ResourceCollector) Stop() {
	rc.cancel()
}

// collect refreshes the runtime gauges and the uptime gauge.
func (rc *ResourceCollector) collect() {
	if !IsEnabled() {
		return
	}
	snapshotRuntime()
	ServerUptime.Set(time.Since(rc.started).Seconds())
}

// CollectOnce refreshes the runtime gauges immediately, outside any
// periodic cycle. The uptime gauge is owned by the running collector
// and is left untouched.
func CollectOnce() {
	if !IsEnabled() {
		return
	}
	snapshotRuntime()
}

// snapshotRuntime reads the runtime counters into the gauges.
func snapshotRuntime() {
	Goroutines.Set(float64(runtime.NumGoroutine()))

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	MemoryAllocBytes.Set(float64(memStats.Alloc))
	MemorySysBytes.Set(float64(memStats.Sys))
	GCPauseTotalSeconds.Set(float64(memStats.PauseTotalNs) / 1e9)
}

// StartResourceCollector creates a collector and starts it in the
// background. It stops when ctx is cancelled or Stop is called on the
// returned collector.
func StartResourceCollector(ctx context.Context, interval time.Duration) *ResourceCollector {
	collector := NewResourceCollector(ctx, interval)
	go collector.Start()
	return collector
}
