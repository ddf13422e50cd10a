package routine

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// Recover is meant to be deferred. It recovers a panic and passes the
// panic value to each cleanup function in order.
func Recover(cleanups ...func(r any)) {
	if r := recover(); r != nil {
		for _, cleanup := range cleanups {
			cleanup(r)
		}
	}
}

// Recovered holds a panic value together with the call stack captured at
// the recovery site.
type Recovered struct {
	Value   any
	Callers []uintptr
}

// NewRecovered captures the current call stack, skipping skip frames
// above the caller, and pairs it with the panic value.
func NewRecovered(skip int, value any) *Recovered {
	var callers [32]uintptr
	n := runtime.Callers(skip+1, callers[:])
	return &Recovered{
		Value:   value,
		Callers: callers[:n],
	}
}

// AsError returns the recovered panic as an error, or nil for a nil
// receiver.
func (p *Recovered) AsError() error {
	if p == nil {
		return nil
	}
	return &RecoveredError{p}
}

// RecoveredError adapts a Recovered panic to the error interface while
// exposing the captured stack in the github.com/pkg/errors format.
type RecoveredError struct {
	*Recovered
}

func (e *RecoveredError) Error() string {
	return fmt.Sprintf("panic: %v\nstacktrace:%+v", e.Value, e.StackTrace())
}

// StackTrace returns the captured stack as pkg/errors frames, so %+v
// formatting and stack-aware error handling work on recovered panics.
func (e *RecoveredError) StackTrace() errors.StackTrace {
	if e == nil {
		return nil
	}
	frames := make([]errors.Frame, len(e.Callers))
	for i, pc := range e.Callers {
		frames[i] = errors.Frame(pc)
	}
	return frames
}
