package forth

import (
	"fmt"

	"github.com/hexforth/triad/internal/cc"
)

type primFunc func(m *Machine) error

type primDef struct {
	name      string
	immediate bool
	fn        primFunc
}

// primDefs is the ordered primitive table of §4.F; a word's XT for a
// primitive is its index here, so the order is append-only once any build
// has shipped (adding new primitives at the end never renumbers the rest).
var primDefs []primDef

var primIndex map[string]int64

// Both tables are filled in init rather than by variable initializers:
// primitives such as `;` call primCode, which reads primIndex, so an
// initializer chain would form an initialization cycle.
func init() {
	primDefs = buildPrimDefs()
	primIndex = make(map[string]int64, len(primDefs))
	for i, d := range primDefs {
		primIndex[d.name] = int64(i)
	}
}

func primCode(name string) int64 {
	code, ok := primIndex[name]
	if !ok {
		panic("forth: no such primitive " + name)
	}
	return code
}

// installPrimitives registers every primitive as a dictionary word, so
// lookups, ['], and EXECUTE all see them uniformly alongside colon words.
func (m *Machine) installPrimitives() {
	for i, d := range primDefs {
		w := &Word{Link: m.latest, Name: d.name, Addr: int64(i)}
		if d.immediate {
			w.Flags |= FlagImmediate
		}
		m.words = append(m.words, w)
		m.latest = len(m.words) - 1
	}
}

func buildPrimDefs() []primDef {
	return []primDef{
		// --- control & meta: LIT/BRANCH/0BRANCH/EXIT first so their codes
		// are small and stable regardless of later additions.
		{"LIT", false, primLit},
		{"BRANCH", false, primBranch},
		{"0BRANCH", false, prim0Branch},
		{"EXIT", false, primExit},

		// --- stack
		{"DROP", false, func(m *Machine) error { _, err := m.popParam(); return err }},
		{"DUP", false, primDup},
		{"?DUP", false, primQDup},
		{"SWAP", false, primSwap},
		{"OVER", false, primOver},
		{"ROT", false, primRot},
		{"NIP", false, primNip},
		{"TUCK", false, primTuck},
		{"2DUP", false, prim2Dup},
		{"2DROP", false, prim2Drop},
		{"PICK", false, primPick},
		{"DEPTH", false, func(m *Machine) error { return m.pushParam(Cell(m.Depth())) }},
		{">R", false, primToR},
		{"R>", false, primRFrom},
		{"R@", false, primRFetch},
		{"RDROP", false, func(m *Machine) error { _, err := m.popReturn(); return err }},

		// --- arithmetic / bitwise
		{"+", false, binOp(func(a, b Cell) Cell { return a + b })},
		{"-", false, binOp(func(a, b Cell) Cell { return a - b })},
		{"*", false, binOp(func(a, b Cell) Cell { return a * b })},
		{"/", false, primDiv},
		{"MOD", false, primMod},
		{"/MOD", false, primDivMod},
		{"NEGATE", false, unOp(func(a Cell) Cell { return -a })},
		{"2*", false, unOp(func(a Cell) Cell { return a * 2 })},
		{"2/", false, unOp(func(a Cell) Cell { return a / 2 })},
		{"CELLS", false, unOp(func(a Cell) Cell { return a * 8 })},
		{"MIN", false, binOp(func(a, b Cell) Cell {
			if a < b {
				return a
			}
			return b
		})},
		{"MAX", false, binOp(func(a, b Cell) Cell {
			if a > b {
				return a
			}
			return b
		})},
		{"1+", false, unOp(func(a Cell) Cell { return a + 1 })},
		{"1-", false, unOp(func(a Cell) Cell { return a - 1 })},
		{"AND", false, binOp(func(a, b Cell) Cell { return a & b })},
		{"OR", false, binOp(func(a, b Cell) Cell { return a | b })},
		{"XOR", false, binOp(func(a, b Cell) Cell { return a ^ b })},
		{"INVERT", false, unOp(func(a Cell) Cell { return ^a })},
		{"LSHIFT", false, binOp(func(a, b Cell) Cell { return a << uint(b) })},
		{"RSHIFT", false, binOp(func(a, b Cell) Cell { return Cell(uint64(a) >> uint(b)) })},

		// --- comparison (canonical Forth booleans: -1 true, 0 false)
		{"<", false, cmpOp(func(a, b Cell) bool { return a < b })},
		{">", false, cmpOp(func(a, b Cell) bool { return a > b })},
		{"=", false, cmpOp(func(a, b Cell) bool { return a == b })},
		{"<>", false, cmpOp(func(a, b Cell) bool { return a != b })},
		{"<=", false, cmpOp(func(a, b Cell) bool { return a <= b })},
		{">=", false, cmpOp(func(a, b Cell) bool { return a >= b })},
		{"0=", false, cmp1Op(func(a Cell) bool { return a == 0 })},
		{"0<", false, cmp1Op(func(a Cell) bool { return a < 0 })},
		{"0>", false, cmp1Op(func(a Cell) bool { return a > 0 })},
		{"0<>", false, cmp1Op(func(a Cell) bool { return a != 0 })},

		// --- memory
		{"@", false, primFetch},
		{"!", false, primStore},
		{"C@", false, primCFetch},
		{"C!", false, primCStore},
		{"+!", false, primPlusStore},
		{"FILL", false, primFill},
		{"CMOVE", false, primCMove},

		// --- I/O
		{"EMIT", false, primEmit},
		{"KEY", false, primKey},
		{"TYPE", false, primType},
		{".", false, primDot},
		{"SPACE", false, func(m *Machine) error { _, err := m.out.Write([]byte{' '}); return err }},
		{"CR", false, func(m *Machine) error { _, err := m.out.Write([]byte{'\n'}); return err }},

		// --- dictionary / compilation
		{"HERE", false, func(m *Machine) error { return m.pushParam(Cell(m.here())) }},
		{"LATEST", false, primLatest},
		{"STATE", false, func(m *Machine) error {
			if m.mode == Compile {
				return m.pushParam(1)
			}
			return m.pushParam(0)
		}},
		{"BASE", false, func(m *Machine) error { return m.pushParam(Cell(m.base)) }},
		{",", false, primComma},
		{"C,", false, primCComma},
		{"ALLOT", false, primAllot},
		{"ALIGN", false, func(m *Machine) error { return m.align() }},

		// --- control & meta
		{":", false, primColon},
		{";", true, primSemi},
		{"IMMEDIATE", false, primImmediate},
		{"'", false, primTick},
		{"[']", true, primBracketTick},
		{"EXECUTE", false, primExecute},
		{"[", true, func(m *Machine) error { m.mode = Interpret; return nil }},
		{"]", false, func(m *Machine) error { m.mode = Compile; return nil }},
		{"(", true, func(m *Machine) error { return m.in.skipToByte(')') }},
		{"BYE", false, func(m *Machine) error { return ErrBye }},

		// --- C compiler bridge (appended last: preserves existing XTs)
		{"COMPILE-C", false, primCompileC},
	}
}

func binOp(f func(a, b Cell) Cell) primFunc {
	return func(m *Machine) error {
		b, err := m.popParam()
		if err != nil {
			return err
		}
		a, err := m.popParam()
		if err != nil {
			return err
		}
		return m.pushParam(f(a, b))
	}
}

func unOp(f func(a Cell) Cell) primFunc {
	return func(m *Machine) error {
		a, err := m.popParam()
		if err != nil {
			return err
		}
		return m.pushParam(f(a))
	}
}

func cmpOp(f func(a, b Cell) bool) primFunc {
	return func(m *Machine) error {
		b, err := m.popParam()
		if err != nil {
			return err
		}
		a, err := m.popParam()
		if err != nil {
			return err
		}
		if f(a, b) {
			return m.pushParam(-1)
		}
		return m.pushParam(0)
	}
}

func cmp1Op(f func(a Cell) bool) primFunc {
	return func(m *Machine) error {
		a, err := m.popParam()
		if err != nil {
			return err
		}
		if f(a) {
			return m.pushParam(-1)
		}
		return m.pushParam(0)
	}
}

func primDup(m *Machine) error {
	v, err := m.peekParam(0)
	if err != nil {
		return err
	}
	return m.pushParam(v)
}

func primQDup(m *Machine) error {
	v, err := m.peekParam(0)
	if err != nil {
		return err
	}
	if v == 0 {
		return nil
	}
	return m.pushParam(v)
}

func primSwap(m *Machine) error {
	b, err := m.popParam()
	if err != nil {
		return err
	}
	a, err := m.popParam()
	if err != nil {
		return err
	}
	if err := m.pushParam(b); err != nil {
		return err
	}
	return m.pushParam(a)
}

func primOver(m *Machine) error {
	v, err := m.peekParam(1)
	if err != nil {
		return err
	}
	return m.pushParam(v)
}

func primRot(m *Machine) error {
	c, err := m.popParam()
	if err != nil {
		return err
	}
	b, err := m.popParam()
	if err != nil {
		return err
	}
	a, err := m.popParam()
	if err != nil {
		return err
	}
	if err := m.pushParam(b); err != nil {
		return err
	}
	if err := m.pushParam(c); err != nil {
		return err
	}
	return m.pushParam(a)
}

func primNip(m *Machine) error {
	b, err := m.popParam()
	if err != nil {
		return err
	}
	if _, err := m.popParam(); err != nil {
		return err
	}
	return m.pushParam(b)
}

func primTuck(m *Machine) error {
	b, err := m.popParam()
	if err != nil {
		return err
	}
	a, err := m.popParam()
	if err != nil {
		return err
	}
	if err := m.pushParam(b); err != nil {
		return err
	}
	if err := m.pushParam(a); err != nil {
		return err
	}
	return m.pushParam(b)
}

func prim2Dup(m *Machine) error {
	b, err := m.peekParam(0)
	if err != nil {
		return err
	}
	a, err := m.peekParam(1)
	if err != nil {
		return err
	}
	if err := m.pushParam(a); err != nil {
		return err
	}
	return m.pushParam(b)
}

func prim2Drop(m *Machine) error {
	if _, err := m.popParam(); err != nil {
		return err
	}
	_, err := m.popParam()
	return err
}

func primPick(m *Machine) error {
	n, err := m.popParam()
	if err != nil {
		return err
	}
	v, err := m.peekParam(int(n))
	if err != nil {
		return err
	}
	return m.pushParam(v)
}

func primToR(m *Machine) error {
	v, err := m.popParam()
	if err != nil {
		return err
	}
	return m.pushReturn(int64(v))
}

func primRFrom(m *Machine) error {
	v, err := m.popReturn()
	if err != nil {
		return err
	}
	return m.pushParam(Cell(v))
}

func primRFetch(m *Machine) error {
	if len(m.ret) == 0 {
		return ErrReturnUnderflow
	}
	return m.pushParam(Cell(m.ret[len(m.ret)-1]))
}

func primDiv(m *Machine) error {
	b, err := m.popParam()
	if err != nil {
		return err
	}
	a, err := m.popParam()
	if err != nil {
		return err
	}
	if b == 0 {
		return fmt.Errorf("forth: division by zero")
	}
	return m.pushParam(a / b)
}

func primMod(m *Machine) error {
	b, err := m.popParam()
	if err != nil {
		return err
	}
	a, err := m.popParam()
	if err != nil {
		return err
	}
	if b == 0 {
		return fmt.Errorf("forth: division by zero")
	}
	return m.pushParam(a % b)
}

func primDivMod(m *Machine) error {
	b, err := m.popParam()
	if err != nil {
		return err
	}
	a, err := m.popParam()
	if err != nil {
		return err
	}
	if b == 0 {
		return fmt.Errorf("forth: division by zero")
	}
	if err := m.pushParam(a % b); err != nil {
		return err
	}
	return m.pushParam(a / b)
}

func primFetch(m *Machine) error {
	addr, err := m.popParam()
	if err != nil {
		return err
	}
	v, err := m.fetch(int64(addr))
	if err != nil {
		return err
	}
	return m.pushParam(v)
}

func primStore(m *Machine) error {
	addr, err := m.popParam()
	if err != nil {
		return err
	}
	v, err := m.popParam()
	if err != nil {
		return err
	}
	return m.store(int64(addr), v)
}

func primCFetch(m *Machine) error {
	addr, err := m.popParam()
	if err != nil {
		return err
	}
	b, err := m.fetchByte(int64(addr))
	if err != nil {
		return err
	}
	return m.pushParam(Cell(b))
}

func primCStore(m *Machine) error {
	addr, err := m.popParam()
	if err != nil {
		return err
	}
	v, err := m.popParam()
	if err != nil {
		return err
	}
	return m.storeByte(int64(addr), byte(v))
}

func primPlusStore(m *Machine) error {
	addr, err := m.popParam()
	if err != nil {
		return err
	}
	v, err := m.popParam()
	if err != nil {
		return err
	}
	cur, err := m.fetch(int64(addr))
	if err != nil {
		return err
	}
	return m.store(int64(addr), cur+v)
}

func primFill(m *Machine) error {
	b, err := m.popParam()
	if err != nil {
		return err
	}
	n, err := m.popParam()
	if err != nil {
		return err
	}
	addr, err := m.popParam()
	if err != nil {
		return err
	}
	for i := int64(0); i < int64(n); i++ {
		if err := m.storeByte(int64(addr)+i, byte(b)); err != nil {
			return err
		}
	}
	return nil
}

func primCMove(m *Machine) error {
	n, err := m.popParam()
	if err != nil {
		return err
	}
	dst, err := m.popParam()
	if err != nil {
		return err
	}
	src, err := m.popParam()
	if err != nil {
		return err
	}
	for i := int64(0); i < int64(n); i++ {
		b, err := m.fetchByte(int64(src) + i)
		if err != nil {
			return err
		}
		if err := m.storeByte(int64(dst)+i, b); err != nil {
			return err
		}
	}
	return nil
}

func primEmit(m *Machine) error {
	v, err := m.popParam()
	if err != nil {
		return err
	}
	_, err = m.out.Write([]byte{byte(v)})
	return err
}

func primKey(m *Machine) error {
	if m.in == nil {
		return fmt.Errorf("forth: KEY with no active input")
	}
	b, err := m.in.readChar()
	if err != nil {
		return err
	}
	return m.pushParam(Cell(b))
}

func primType(m *Machine) error {
	n, err := m.popParam()
	if err != nil {
		return err
	}
	addr, err := m.popParam()
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	for i := range buf {
		b, err := m.fetchByte(int64(addr) + int64(i))
		if err != nil {
			return err
		}
		buf[i] = b
	}
	_, err = m.out.Write(buf)
	return err
}

func primDot(m *Machine) error {
	v, err := m.popParam()
	if err != nil {
		return err
	}
	_, err = m.out.Write([]byte(formatNumber(v, m.base) + " "))
	return err
}

func primLatest(m *Machine) error {
	w := m.latestWord()
	if w == nil {
		return m.pushParam(0)
	}
	return m.pushParam(w.Addr)
}

func primComma(m *Machine) error {
	v, err := m.popParam()
	if err != nil {
		return err
	}
	return m.comma(v)
}

func primCComma(m *Machine) error {
	v, err := m.popParam()
	if err != nil {
		return err
	}
	return m.cComma(byte(v))
}

func primAllot(m *Machine) error {
	n, err := m.popParam()
	if err != nil {
		return err
	}
	return m.allot(int64(n))
}

func primColon(m *Machine) error {
	name, err := m.in.word()
	if err != nil {
		return fmt.Errorf("forth: %w reading definition name", err)
	}
	if len(name) > MaxNameLen {
		name = name[:MaxNameLen]
	}
	m.define(name)
	m.mode = Compile
	return nil
}

func primSemi(m *Machine) error {
	if err := m.comma(primCode("EXIT")); err != nil {
		return err
	}
	w := m.latestWord()
	if w == nil {
		return ErrUnterminatedDef
	}
	w.Flags &^= FlagHidden
	m.mode = Interpret
	return nil
}

func primImmediate(m *Machine) error {
	w := m.latestWord()
	if w == nil {
		return ErrUnterminatedDef
	}
	w.Flags |= FlagImmediate
	return nil
}

func primTick(m *Machine) error {
	tok, err := m.in.word()
	if err != nil {
		return err
	}
	w, ok := m.find(tok)
	if !ok {
		return &UnknownWordError{Word: tok}
	}
	return m.pushParam(w.Addr)
}

func primBracketTick(m *Machine) error {
	tok, err := m.in.word()
	if err != nil {
		return err
	}
	w, ok := m.find(tok)
	if !ok {
		return &UnknownWordError{Word: tok}
	}
	if err := m.comma(primCode("LIT")); err != nil {
		return err
	}
	return m.comma(w.Addr)
}

func primExecute(m *Machine) error {
	xt, err := m.popParam()
	if err != nil {
		return err
	}
	return m.Execute(int64(xt))
}

func primLit(m *Machine) error {
	v, err := m.fetch(m.ip)
	if err != nil {
		return err
	}
	m.ip += 8
	return m.pushParam(v)
}

func primBranch(m *Machine) error {
	deltaAddr := m.ip
	delta, err := m.fetch(deltaAddr)
	if err != nil {
		return err
	}
	m.ip = deltaAddr + int64(delta)
	return nil
}

func prim0Branch(m *Machine) error {
	flag, err := m.popParam()
	if err != nil {
		return err
	}
	deltaAddr := m.ip
	if flag == 0 {
		delta, err := m.fetch(deltaAddr)
		if err != nil {
			return err
		}
		m.ip = deltaAddr + int64(delta)
		return nil
	}
	m.ip = deltaAddr + 8
	return nil
}

func primExit(m *Machine) error {
	ip, err := m.popReturn()
	if err != nil {
		return err
	}
	m.ip = ip
	return nil
}

// primCompileC is the bridge between the Forth VM and the C-subset
// compiler: it hands the remainder of the current input stream to
// cc.Compile and writes the resulting assembly (or the ERR diagnostic) to
// the machine's own output. Once called, this word never returns to
// ordinary word interpretation — whatever follows it in the input was
// already consumed as C source, matching the pipeline's one-shot handoff
// from E to C.
func primCompileC(m *Machine) error {
	if m.in == nil {
		return fmt.Errorf("forth: COMPILE-C with no active input")
	}
	if err := cc.Compile(m.in, m.out); err != nil {
		return fmt.Errorf("forth: COMPILE-C: %w", err)
	}
	return ErrBye
}
