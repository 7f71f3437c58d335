package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type handlerBox struct{ h ErrorHandler }

var current atomic.Pointer[handlerBox]

func init() {
	current.Store(&handlerBox{h: &LogHandler{}})
}

// Handler returns the handler receiving reports.
func Handler() ErrorHandler {
	return current.Load().h
}

// SetHandler installs h and returns the previous handler. A nil h restores a
// LogHandler. Tests swap handlers with
//
//	defer errors.SetHandler(errors.SetHandler(h))
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	return current.Swap(&handlerBox{h: h}).h
}

// Report routes err to the handler, stamping it if needed.
func Report(err *ClickError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic routes a recovered panic to the handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// NewPanicError wraps a recovered value with the stack of the panicking
// goroutine. Call it from the deferred function that recovered.
func NewPanicError(op string, value any) *PanicError {
	return &PanicError{
		Op:         op,
		Value:      value,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// Recover must be deferred directly. A panic is reported and then passed to
// onPanic when it is non-nil:
//
//	defer errors.Recover("engine.ServeHTTP", func(pe *errors.PanicError) { ... })
func Recover(op string, onPanic func(*PanicError)) {
	r := recover()
	if r == nil {
		return
	}
	pe := NewPanicError(op, r)
	ReportPanic(pe)
	if onPanic != nil {
		onPanic(pe)
	}
}

// Guard runs fn and returns a panic as a *PanicError without reporting it.
func Guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(op, r)
		}
	}()
	fn()
	return nil
}

// CaptureStack formats the caller's stack, innermost first, leaving out
// the runtime frames of the panic machinery.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if f.Function != "" && !strings.HasPrefix(f.Function, "runtime.") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
