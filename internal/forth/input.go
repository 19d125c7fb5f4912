package forth

import (
	"bufio"
	"io"
)

// input is a byte-oriented source reader with one-byte pushback and line
// tracking, adapted from the teacher's ioCore for raw bytes instead of
// runes: §1 and §8's Non-goals rule out Unicode source handling, so there's
// no rune decoding step here.
type input struct {
	r      byteReader
	line   int
	pushed bool
	last   byte
}

type byteReader interface {
	io.Reader
	ReadByte() (byte, error)
}

func newInput(r io.Reader) *input {
	var br byteReader
	if b, ok := r.(byteReader); ok {
		br = b
	} else {
		br = bufio.NewReader(r)
	}
	return &input{r: br, line: 1}
}

func (in *input) readByte() (byte, error) {
	if in.pushed {
		in.pushed = false
		return in.last, nil
	}
	b, err := in.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b == '\n' {
		in.line++
	}
	in.last = b
	return b, nil
}

func (in *input) unread(b byte) {
	in.last = b
	in.pushed = true
}

func (in *input) Line() int { return in.line }

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// word scans the next whitespace-delimited token, skipping leading
// whitespace and `\` line comments (§4.F). It returns io.EOF only when no
// token could be formed because the input is exhausted.
func (in *input) word() (string, error) {
	var buf []byte
	for {
		b, err := in.readByte()
		if err != nil {
			if len(buf) > 0 {
				return string(buf), nil
			}
			return "", err
		}
		if isSpace(b) {
			if len(buf) > 0 {
				return string(buf), nil
			}
			continue
		}
		if b == '\\' && len(buf) == 0 {
			for {
				c, err := in.readByte()
				if err != nil || c == '\n' {
					break
				}
			}
			continue
		}
		buf = append(buf, b)
	}
}

// skipToByte discards input up to and including the first occurrence of
// delim, supporting `(` ... `)` stack comments (§4.F).
func (in *input) skipToByte(delim byte) error {
	for {
		b, err := in.readByte()
		if err != nil {
			return err
		}
		if b == delim {
			return nil
		}
	}
}

// readChar returns the next single raw byte, whitespace included — used by
// KEY.
func (in *input) readChar() (byte, error) {
	return in.readByte()
}

// Read adapts input to io.Reader, preserving any pushed-back byte, so the
// remaining stream can be handed to another stage (the C compiler, per
// §4.F's COMPILE-C bridge) without losing look-ahead.
func (in *input) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := 0
	if in.pushed {
		p[0] = in.last
		in.pushed = false
		n = 1
		if len(p) == 1 {
			return n, nil
		}
	}
	m, err := in.r.Read(p[n:])
	return n + m, err
}
