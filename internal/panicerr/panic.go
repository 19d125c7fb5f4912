package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// recoverPanicError fires on any panic during f, capturing the stack at the
// point of the panic (not the point of recover) so cmd/triad's -trace flag
// can print it for a genuine programmer-bug panic without ever doing so
// for one of §7's intentional halts — those return a plain error from f
// and never reach recover() at all.
func recoverPanicError(name string, errch chan<- error) {
	var pe panicError
	if pe.e = recover(); pe.e != nil {
		pe.name = name
		pe.stack = debug.Stack()
		select {
		case errch <- pe:
		default:
		}
	}
}

type panicError struct {
	name  string
	e     interface{}
	stack []byte
}

func (pe panicError) Error() string {
	return fmt.Sprint(pe)
}

func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "paniced: %v", pe.e)
	} else {
		fmt.Fprintf(f, "%v paniced: %v", pe.name, pe.e)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

// IsPanic reports whether err came from a recovered goroutine panic rather
// than a normal error return; cmd/triad uses this to decide whether a
// stack trace belongs in its -trace output.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// PanicStack returns the stack captured at the point of the panic err
// wraps, or "" if err isn't a recovered panic.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
