package debug

import (
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"strings"
)

// LogPanic records a recovered panic value together with the goroutine name,
// the panicking source location and the full stack. It is a no-op for nil values
// so callers can write `defer func() { debug.LogPanic(logger, "x", recover()) }()`.
func LogPanic(logger *slog.Logger, goroutine string, r any) {
	if r == nil || logger == nil {
		return
	}
	if goroutine == "" {
		goroutine = "unnamed"
	}
	logger.Error("goroutine panicked",
		slog.String("goroutine", goroutine),
		slog.String("payload", payloadString(r)),
		slog.String("location", panicLocation()),
		slog.String("stack", string(debug.Stack())),
	)
}

func payloadString(r any) string {
	switch v := r.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// panicLocation walks the stack to the first frame below runtime.gopanic,
// which is where the panic was raised.
func panicLocation() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	sawPanic := false
	for {
		f, more := frames.Next()
		if sawPanic && !strings.HasPrefix(f.Function, "runtime.") {
			return fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		if f.Function == "runtime.gopanic" {
			sawPanic = true
		}
		if !more {
			break
		}
	}
	return "?"
}
