package logio

import (
	"bytes"
	"sync"
)

// Writer adapts a leveled logging function into an io.Writer, buffering
// partial lines until a newline completes them. cmd/triad's -dump flag
// routes a forth.Dumper's multi-line report through one of these, so every
// line of the dump gets the logger's level prefix.
type Writer struct {
	Logf func(string, ...interface{})

	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p and flushes any newline-terminated lines through Logf.
func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.Write(p)
	lw.flushLines(false)
	return len(p), nil
}

// Close flushes whatever partial line remains buffered.
func (lw *Writer) Close() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.flushLines(true)
	return nil
}

func (lw *Writer) flushLines(all bool) {
	for lw.buf.Len() > 0 {
		i := bytes.IndexByte(lw.buf.Bytes(), '\n')
		if i >= 0 {
			lw.Logf("%s", lw.buf.Next(i))
			lw.buf.Next(1)
			continue
		}
		if !all {
			return
		}
		lw.Logf("%s", lw.buf.Next(lw.buf.Len()))
	}
}
