// Package profiler tracks frame rate and memory statistics for performance
// monitoring during development.
package profiler

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Profiler samples frame timing and Go runtime memory statistics, emitting a
// structured log line at a fixed interval. One instance per loop (tick loop
// and render loop each get their own).
type Profiler struct {
	name           string
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a profiler that logs under the given name.
//
// Parameters:
//   - name: the loop name included in each log line (e.g., "render")
//   - interval: how often stats are logged; non-positive defaults to 1 second
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(name string, interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		name:           name,
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// Tick should be called once per frame. When the update interval has elapsed
// it logs FPS, heap usage, allocation rate, and GC pause stats, then resets
// the window.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap bytes. TotalAlloc: cumulative heap bytes (tracks churn).
	// Sys: bytes obtained from the OS (actual process footprint).
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses; scan the pauses
	// that landed inside this window for the max.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	zap.L().Info("profiler stats",
		zap.String("loop", p.name),
		zap.Float64("fps", fps),
		zap.Float64("heap_mb", allocMB),
		zap.Float64("alloc_rate_mb_s", allocRateMB),
		zap.Uint32("gc_count", gcCount),
		zap.Uint64("gc_last_pause_us", lastPauseUs),
		zap.Uint64("gc_max_pause_us", maxPauseUs),
		zap.Float64("sys_mb", sysMB))

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
