// Package loader implements §4.L: it reads a hex+comment encoded byte stream
// from an io.Reader, appends the decoded bytes into a JIT region, and on the
// sentinel byte (or EOF) finalizes that region and branches into it.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/hexforth/triad/internal/jit"
)

// Sentinel is the single byte that ends hex mode (§2, §6).
const Sentinel = 0x60

// State is the Loader's lifecycle, per §4.L.
type State int

const (
	Init State = iota
	Reading
	Finalized
	Executing
)

func (s State) String() string {
	switch s {
	case Init:
		return "Init"
	case Reading:
		return "Reading"
	case Finalized:
		return "Finalized"
	case Executing:
		return "Executing"
	default:
		return "State(?)"
	}
}

// ErrBufferExhausted indicates the JIT region could not hold the hex stream.
var ErrBufferExhausted = errors.New("loader: JIT region exhausted")

// Loader decodes a hex+comment byte stream into a JIT region per §4.L.
type Loader struct {
	RegionSize int // defaults to jit.MinSize if zero

	state  State
	region *jit.Writable
}

// State reports the Loader's current lifecycle state.
func (l *Loader) State() State { return l.state }

// Run reads r until the sentinel byte (or EOF), decoding hex pairs into a
// freshly allocated JIT region, then finalizes and branches into it with
// arg as the platform calling-convention argument. Run never reads past the
// sentinel; it returns the byte-oriented reader that pipeline's next stage
// (the Forth VM) must keep reading from — if r did not already support
// ReadByte, Run has wrapped it in a buffer, and that same buffer (not a
// fresh one over r) holds whatever was read ahead but not yet consumed.
func (l *Loader) Run(r io.Reader, arg uintptr) (next io.Reader, result uintptr, err error) {
	size := l.RegionSize
	if size == 0 {
		size = jit.MinSize
	}
	l.region = jit.New(size)
	l.state = Reading

	br := bufioReader(r)
	if err := l.read(br); err != nil {
		return br, 0, err
	}

	l.state = Finalized
	exec, err := l.region.Seal()
	if err != nil {
		return br, 0, err
	}
	defer exec.Close()

	l.state = Executing
	result, err = exec.Branch(arg)
	return br, result, err
}

func bufioReader(r io.Reader) byteReader {
	if br, ok := r.(byteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

type byteReader interface {
	io.Reader
	ReadByte() (byte, error)
}

// read performs the classify-and-decode loop of §4.L: whitespace is
// ignored, `;` and `#` start a comment consumed to end of line, the
// sentinel ends hex mode, and hex digit pairs (case-insensitive) are
// appended to the region. A malformed single hex digit left dangling at EOF
// is discarded silently, matching the spec's failure semantics.
func (l *Loader) read(br byteReader) error {
	var pending byte
	havePending := false

	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		switch {
		case isWhitespace(b):
			continue
		case b == ';' || b == '#':
			if err := skipComment(br); err != nil && err != io.EOF {
				return err
			}
			continue
		case b == Sentinel:
			return nil
		}

		digit, ok := hexValue(b)
		if !ok {
			// Not whitespace, not a comment, not the sentinel, and not a
			// hex digit: per §4.L this byte simply contributes nothing
			// (the only named failures are allocation/buffer exhaustion
			// and dangling single digits at EOF).
			continue
		}

		if !havePending {
			pending = digit
			havePending = true
			continue
		}

		if err := l.region.WriteByte(pending<<4 | digit); err != nil {
			return fmt.Errorf("%w: %v", ErrBufferExhausted, err)
		}
		havePending = false
	}
}

func skipComment(br byteReader) error {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return err
		}
		if b == '\n' {
			return nil
		}
	}
}

func isWhitespace(b byte) bool {
	switch b {
	case 0x20, 0x09, 0x0a, 0x0d:
		return true
	default:
		return false
	}
}

func hexValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
