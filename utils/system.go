package utils

import (
	"log/slog"
	"runtime"
)

// MemUsage reports the heap state in MiB as a log attribute.
func MemUsage() slog.Attr {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return slog.Group("mem",
		"allocMiB", bToMb(m.Alloc),
		"totalAllocMiB", bToMb(m.TotalAlloc),
		"sysMiB", bToMb(m.Sys),
		"numGC", m.NumGC)
}
