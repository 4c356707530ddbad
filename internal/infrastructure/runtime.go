package infrastructure

import (
	"runtime"
	"time"
)

// RuntimeStats is a point-in-time snapshot of the Go runtime, reported by
// the health endpoint.
type RuntimeStats struct {
	GoRoutines      int     `json:"goroutines"`
	HeapAllocBytes  uint64  `json:"heap_alloc_bytes"`
	SystemBytes     uint64  `json:"system_bytes"`
	GCCount         uint32  `json:"gc_count"`
	LastGCPauseMs   float64 `json:"last_gc_pause_ms"`
	CPUCount        int     `json:"cpu_count"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	CollectedAtUnix int64   `json:"collected_at"`
}

// CollectRuntimeStats reads the runtime counters. startTime is the process
// start used to compute uptime.
func CollectRuntimeStats(startTime time.Time) RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := RuntimeStats{
		GoRoutines:      runtime.NumGoroutine(),
		HeapAllocBytes:  mem.HeapAlloc,
		SystemBytes:     mem.Sys,
		GCCount:         mem.NumGC,
		CPUCount:        runtime.NumCPU(),
		UptimeSeconds:   time.Since(startTime).Seconds(),
		CollectedAtUnix: time.Now().Unix(),
	}
	if mem.NumGC > 0 {
		pause := time.Duration(mem.PauseNs[(mem.NumGC+255)%256])
		stats.LastGCPauseMs = float64(pause) / float64(time.Millisecond)
	}
	return stats
}
