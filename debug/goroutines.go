package debug

// Debug goroutine metrics logger. Started only when config.Debug is true.
// Emits goroutine count (runtime metrics) and stack usage at a fixed interval,
// which is enough to spot a leaked actor or watcher goroutine.

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// StartGoroutineLogger launches a ticker that logs goroutine count and stack memory
// for the lifetime of the process.
func StartGoroutineLogger(interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for range t.C {
			metrics.Read(samples)
			logger.Info("goroutine-stacks", goroutineAttrs(samples[0])...)
		}
	}()
}

func goroutineAttrs(sample metrics.Sample) []any {
	var goroutines uint64
	if sample.Value.Kind() == metrics.KindUint64 {
		goroutines = sample.Value.Uint64()
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return []any{
		slog.Uint64("goroutines", goroutines),
		slog.String("stack_inuse", humanize.Bytes(ms.StackInuse)),
		slog.String("stack_sys", humanize.Bytes(ms.StackSys)),
		slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
	}
}
