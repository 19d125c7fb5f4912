// Package panicerr isolates a fallible call in its own goroutine so that a
// Go panic or runtime.Goexit — a programmer bug, not one of §7's
// intentional halts — surfaces as a regular error instead of taking the
// whole process down uninspected. cmd/triad wraps the pipeline's run in
// exactly one of these.
package panicerr

// Recover runs f in a new goroutine, turning any panic or runtime.Goexit
// during f into a non-nil error return instead of propagating it raw.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExitError(name, errch)
		defer recoverPanicError(name, errch)
		errch <- f()
	}()
	return <-errch
}
