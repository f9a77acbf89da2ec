package utils

import (
	"fmt"
	"runtime"
	"time"
)

// RunStats is the wall time and memory use of a run
type RunStats struct {
	Elapsed             time.Duration
	AllocMiB, SysMiB    uint64
	TotalAllocMiB       uint64
	NumGC, NumGoroutine int
}

func NewRunStats(start time.Time) (rs RunStats) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	rs = RunStats{
		Elapsed:       time.Since(start),
		AllocMiB:      bToMb(m.Alloc),
		SysMiB:        bToMb(m.Sys),
		TotalAllocMiB: bToMb(m.TotalAlloc),
		NumGC:         int(m.NumGC),
		NumGoroutine:  runtime.NumGoroutine(),
	}
	return
}

func (rs RunStats) String() string {
	return fmt.Sprintf("Elapsed = %v, Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		rs.Elapsed.Round(time.Millisecond), rs.AllocMiB, rs.TotalAllocMiB, rs.SysMiB, rs.NumGC)
}
