package panicerr

import (
	"errors"
	"fmt"
)

// recoverExitError fires only on the runtime.Goexit path: Recover's happy
// path always sends a (possibly nil) error itself first, filling errch's
// one-slot buffer, so this send only lands when that never happened.
func recoverExitError(name string, errch chan<- error) {
	select {
	case errch <- exitError(name):
	default:
	}
}

type exitError string

func (name exitError) Error() string {
	if name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", string(name))
}

// IsExit reports whether err came from a recovered runtime.Goexit rather
// than a normal return or panic.
func IsExit(err error) bool {
	var xe exitError
	return errors.As(err, &xe)
}
