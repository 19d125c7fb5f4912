package forth

import (
	"errors"
	"io"
)

// Execute runs the word whose execution token is xt to completion: a
// primitive runs as a single Go call, a colon word runs the inner
// threaded-code loop until its EXIT unwinds back to the synthetic
// sentinel return address this call pushes first.
func (m *Machine) Execute(xt int64) error {
	if isPrimitive(xt) {
		return primDefs[xt].fn(m)
	}
	if err := m.pushReturn(sentinelAddr); err != nil {
		return err
	}
	m.ip = xt
	for {
		if err := m.step(); err != nil {
			return err
		}
		if m.ip == sentinelAddr {
			return nil
		}
	}
}

func isPrimitive(xt int64) bool {
	return xt >= 0 && xt < int64(len(primDefs))
}

// step fetches the cell at the current IP and dispatches it, advancing IP
// to the following cell first so LIT/BRANCH/0BRANCH (which themselves read
// further operand cells at the new IP) see the right address.
func (m *Machine) step() error {
	if m.ctx != nil {
		if err := m.ctx.Err(); err != nil {
			return err
		}
	}
	addr := m.ip
	xt, err := m.fetch(addr)
	if err != nil {
		return err
	}
	m.ip = addr + 8
	if m.trace != nil {
		m.trace("step addr=%d xt=%d", addr, xt)
	}
	return m.dispatch(int64(xt))
}

func (m *Machine) dispatch(xt int64) error {
	if isPrimitive(xt) {
		return primDefs[xt].fn(m)
	}
	if err := m.pushReturn(m.ip); err != nil {
		return err
	}
	m.ip = xt
	return nil
}

// compileOrExecute implements the text interpreter's core dispatch rule
// (§3, §4.F): in Interpret mode every token runs immediately; in Compile
// mode, ordinary words are compiled as calls and Immediate words still run
// immediately (this is how `;`, `[`, `(` and §4.E's IF/THEN etc. work).
func (m *Machine) compileOrExecute(w *Word) error {
	if m.mode == Interpret || w.immediate() {
		return m.Execute(w.Addr)
	}
	return m.comma(w.Addr)
}

func (m *Machine) compileLiteral(v Cell) error {
	if err := m.comma(primCode("LIT")); err != nil {
		return err
	}
	return m.comma(v)
}

// Interpret runs the text interpreter (§3, §4.F) over r until EOF or BYE:
// each whitespace-delimited token is looked up; if found it's compiled or
// executed per mode, otherwise it's parsed as a number (literal in Compile
// mode, pushed directly in Interpret mode); anything that's neither is an
// unknown-word fault. Per §7's error table, that is the *only* recoverable
// fault: an unknown word reached in Interpret mode clears both stacks and
// interpretation continues with the next word. Interpret writes no
// diagnostic for it; the error is dropped. Every other fault — stack or
// return-stack under/overflow, dictionary exhaustion, an unknown word
// reached while compiling a colon definition, a compile error, an I/O
// error from r itself — is fatal and propagates, so the caller can exit
// nonzero. ErrBye (from BYE or COMPILE-C) ends interpretation as a clean
// stop: Interpret returns nil.
func (m *Machine) Interpret(r io.Reader) error {
	m.in = newInput(r)
	for {
		tok, err := m.in.word()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		if err := m.interpretToken(tok); err != nil {
			if errors.Is(err, ErrBye) {
				return nil
			}
			var uwe *UnknownWordError
			if m.mode == Interpret && errors.As(err, &uwe) {
				m.reset()
				continue
			}
			return err
		}
	}
}

func (m *Machine) interpretToken(tok string) error {
	if w, ok := m.find(tok); ok {
		return m.compileOrExecute(w)
	}
	if v, ok := parseNumber(tok, m.base); ok {
		if m.mode == Compile {
			return m.compileLiteral(v)
		}
		return m.pushParam(v)
	}
	return &UnknownWordError{Word: tok}
}

