package forth

import (
	"errors"
	"fmt"
)

// Sentinel errors, per §7. Interpret recovers from only one of them: an
// unknown word met in Interpret mode clears both stacks and interpretation
// continues with the next word. Every other one is fatal and propagates out
// of Interpret.
var (
	ErrStackUnderflow  = errors.New("forth: stack underflow")
	ErrStackOverflow   = errors.New("forth: stack overflow")
	ErrReturnUnderflow = errors.New("forth: return stack underflow")
	ErrReturnOverflow  = errors.New("forth: return stack overflow")
	ErrDictOverflow    = errors.New("forth: dictionary space exhausted")
	ErrUnknownWord     = errors.New("forth: unknown word")
	ErrCompileOnly     = errors.New("forth: word is compile-only")
	ErrInterpretOnly   = errors.New("forth: word is interpret-only outside a definition")
	ErrBadAddress      = errors.New("forth: address out of range")
	ErrUnterminatedDef = errors.New("forth: unterminated colon definition")

	// ErrBye is returned by BYE (§4.F) to end the session cleanly; it is
	// not a fault: Interpret stops reading on it and returns nil.
	ErrBye = errors.New("forth: bye")
)

// UnknownWordError names the offending token, matching how the teacher's
// panicerr-wrapped errors carry context for logio to print.
type UnknownWordError struct {
	Word string
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnknownWord, e.Word)
}

func (e *UnknownWordError) Unwrap() error { return ErrUnknownWord }
