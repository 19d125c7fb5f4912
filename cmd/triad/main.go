// Command triad runs the full L -> F -> (E) -> C pipeline: it reads the
// loader's hex+comment preamble from stdin (§4.L), branches into whatever
// machine code that preamble assembled, then hands the remainder of stdin
// to the Forth VM (§4.F) with the control-structure extensions (§4.E)
// loaded on top. A defining word reaching COMPILE-C bridges the rest of
// the stream to the C-to-ARM64 compiler (§4.C).
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/hexforth/triad/internal/forth"
	"github.com/hexforth/triad/internal/jit"
	"github.com/hexforth/triad/internal/loader"
	"github.com/hexforth/triad/internal/logio"
	"github.com/hexforth/triad/internal/panicerr"
)

func main() {
	var (
		memLimit uint
		timeout  time.Duration
		trace    bool
		dump     bool
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "enable dictionary/stack memory limit")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&dump, "dump", false, "print a dump after execution")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := panicerr.Recover("triad", func() error {
		return run(ctx, &log, memLimit, trace, dump)
	})
	if trace && panicerr.IsPanic(err) {
		log.Printf("TRACE", "panic stack:\n%s", panicerr.PanicStack(err))
	}
	log.ErrorIf(err)
}

// run wires the pipeline: the loader consumes the hex preamble and
// branches into the region it built (§4.L), then the remaining stdin bytes
// — whatever the loader didn't need to look ahead at — feed the Forth VM.
func run(ctx context.Context, log *logio.Logger, memLimit uint, trace, dump bool) error {
	ld := loader.Loader{}
	next, _, err := ld.Run(os.Stdin, 0)
	if err != nil {
		if !errors.Is(err, jit.ErrUnsupportedArch) {
			return err
		}
		// This host can't safely branch into JIT-compiled code; the hex
		// preamble was still fully decoded and consumed, so the pipeline
		// continues straight into the Forth VM.
		log.Printf("WARN", "loader: %v", err)
	}

	opts := []forth.Option{
		forth.WithOutput(os.Stdout),
		forth.WithContext(ctx),
	}
	if memLimit != 0 {
		n := int(memLimit)
		opts = append(opts, forth.WithMemCap(n), forth.WithParamCap(n), forth.WithReturnCap(n))
	}
	if trace {
		opts = append(opts, forth.WithTrace(log.Leveledf("TRACE")))
	}

	m := forth.New(opts...)
	if err := forth.LoadExtensions(m); err != nil {
		return err
	}

	if dump {
		lw := &logio.Writer{Logf: log.Leveledf("DUMP")}
		defer lw.Close()
		defer forth.NewDumper(m, lw).Dump()
	}
	defer m.Flush()

	return m.Interpret(next)
}
