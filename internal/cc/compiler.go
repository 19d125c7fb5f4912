package cc

import "io"

// Compile reads C-subset source from r and writes ARM64 Mach-O assembly
// text to w, per §4.C.7. This is the single entry point the Forth VM's
// COMPILE-C bridge calls once it hands the remainder of its input stream
// over to the compiler.
//
// On any parse or codegen error, Compile writes the three-byte `ERR\n`
// diagnostic of §4.C.6 in place of (or appended after) whatever partial
// assembly was already flushed, and returns the error. There is no
// recovery: one compiler instance handles exactly one source stream.
func Compile(r io.Reader, w io.Writer) error {
	c := &Compiler{lex: NewLexer(r), emit: NewEmitter(w)}

	err := c.run()
	if err != nil {
		c.emit.Raw("ERR\n")
		c.emit.Flush()
		return err
	}
	return c.emit.Flush()
}

func (c *Compiler) run() error {
	if err := c.advance(); err != nil {
		return err
	}
	for c.cur.Kind != EOF {
		if err := c.compileFunction(); err != nil {
			return err
		}
	}
	return nil
}
