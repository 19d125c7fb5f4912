package forth

import (
	"fmt"
	"io"
)

// Dumper renders a Machine's state for the -dump flag (SPEC_FULL.md's
// ambient stack), in the spirit of the teacher's vmDumper: a plain-text
// report of the stacks and dictionary, not a structured encoding.
type Dumper struct {
	m   *Machine
	out io.Writer
}

// NewDumper builds a Dumper writing to out.
func NewDumper(m *Machine, out io.Writer) *Dumper {
	return &Dumper{m: m, out: out}
}

// Dump writes the current machine state: mode, base, both stacks, and the
// dictionary from LATEST back to the oldest entry.
func (d *Dumper) Dump() {
	fmt.Fprintf(d.out, "# Machine Dump\n")
	fmt.Fprintf(d.out, "  mode: %v\n", d.m.mode)
	fmt.Fprintf(d.out, "  base: %v\n", d.m.base)
	fmt.Fprintf(d.out, "  here: %v\n", d.m.here())
	fmt.Fprintf(d.out, "  param: %v\n", d.m.param)
	fmt.Fprintf(d.out, "  return: %v\n", d.m.ret)
	d.dumpWords()
}

func (d *Dumper) dumpWords() {
	fmt.Fprintf(d.out, "  dict:\n")
	for i := len(d.m.words) - 1; i >= 0; i-- {
		w := d.m.words[i]
		flags := ""
		if w.immediate() {
			flags += " immediate"
		}
		if w.hidden() {
			flags += " hidden"
		}
		fmt.Fprintf(d.out, "    %-16s xt=%d%s\n", w.Name, w.Addr, flags)
	}
}
