package cc

import "fmt"

// FrameSize is the fixed per-function stack frame reserved after the
// fp/lr pair, per §4.C.3.
const FrameSize = 512

// MaxParams is the hard cap on integer arguments/parameters (§4.C.3).
const MaxParams = 8

// Compiler drives the single-pass recursive-descent parse-and-emit of
// §4.C: one token of lookahead, direct codegen with no intermediate IR,
// register x9 as the expression accumulator (or, for an lvalue, the
// address of the value), x10/x11 as scratch for the right-hand operand of
// a binary operation.
type Compiler struct {
	lex  *Lexer
	emit *Emitter
	sym  SymbolTable

	frameCursor  int
	returnLabel  int
	labelCounter int

	cur Token
}

func (c *Compiler) advance() error {
	t, err := c.lex.Next()
	if err != nil {
		return err
	}
	c.cur = t
	return nil
}

func (c *Compiler) atPunct(s string) bool {
	return c.cur.Kind == Punct && c.cur.Text == s
}

func (c *Compiler) atKeyword(s string) bool {
	return c.cur.Kind == Keyword && c.cur.Text == s
}

func (c *Compiler) expectPunct(s string) error {
	if !c.atPunct(s) {
		return fmt.Errorf("cc: expected %q, got %v %q", s, c.cur.Kind, c.cur.Text)
	}
	return c.advance()
}

func (c *Compiler) expectKeyword(s string) error {
	if !c.atKeyword(s) {
		return fmt.Errorf("cc: expected keyword %q, got %v %q", s, c.cur.Kind, c.cur.Text)
	}
	return c.advance()
}

func (c *Compiler) expectIdent() (string, error) {
	if c.cur.Kind != Ident {
		return "", fmt.Errorf("cc: expected identifier, got %v %q", c.cur.Kind, c.cur.Text)
	}
	name := c.cur.Text
	return name, c.advance()
}

func (c *Compiler) nextLabel() int {
	n := c.labelCounter
	c.labelCounter++
	return n
}

// --- frame allocation ---------------------------------------------------

func (c *Compiler) allocLocal(size int) int {
	c.frameCursor -= size
	return c.frameCursor
}

func xReg(i int) string { return fmt.Sprintf("x%d", i) }
func wReg(i int) string { return fmt.Sprintf("w%d", i) }

func (c *Compiler) loadFrameAddr(dst string, offset int) {
	if offset < 0 {
		c.emit.emit3("sub", dst, "x29", Imm(int64(-offset)))
		return
	}
	c.emit.emit3("add", dst, "x29", Imm(int64(offset)))
}

func (c *Compiler) push(reg string) { c.emit.emit2("str", reg, addr("sp", -16)+"!") }
func (c *Compiler) pop(reg string)  { c.emit.emit2("ldr", reg, "[sp], "+Imm(16)) }

// --- functions -----------------------------------------------------------

func (c *Compiler) compileFunction() error {
	if err := c.expectKeyword("int"); err != nil {
		return err
	}
	name, err := c.expectIdent()
	if err != nil {
		return err
	}
	if err := c.expectPunct("("); err != nil {
		return err
	}

	var params []string
	if !c.atPunct(")") {
		for {
			if err := c.expectKeyword("int"); err != nil {
				return err
			}
			pname, err := c.expectIdent()
			if err != nil {
				return err
			}
			params = append(params, pname)
			if c.atPunct(",") {
				if err := c.advance(); err != nil {
					return err
				}
				continue
			}
			break
		}
	}
	if len(params) > MaxParams {
		return fmt.Errorf("cc: too many parameters in %s (max %d)", name, MaxParams)
	}
	if err := c.expectPunct(")"); err != nil {
		return err
	}
	if err := c.expectPunct("{"); err != nil {
		return err
	}

	c.sym.reset()
	c.frameCursor = 0
	c.returnLabel = c.nextLabel()

	offsets := make([]int, len(params))
	for i, pname := range params {
		off := c.allocLocal(8)
		offsets[i] = off
		if err := c.sym.declare(&Symbol{Name: pname, Offset: off, Type: TypeInt}); err != nil {
			return err
		}
	}

	c.emit.Global(name)
	c.emit.Align()
	c.emit.FuncLabel(name)
	c.emit.Prologue(FrameSize)
	for i, off := range offsets {
		c.emit.emit2("str", wReg(i), addr("x29", int64(off)))
	}

	for !c.atPunct("}") {
		if c.cur.Kind == EOF {
			return fmt.Errorf("cc: unexpected EOF in body of %s", name)
		}
		if err := c.compileStatement(); err != nil {
			return err
		}
	}
	if err := c.expectPunct("}"); err != nil {
		return err
	}

	c.emit.emit2("mov", "x0", Imm(0))
	c.emit.Label(c.returnLabel)
	c.emit.Epilogue()
	return nil
}

// --- statements ----------------------------------------------------------

func (c *Compiler) compileStatement() error {
	switch {
	case c.atPunct("{"):
		return c.compileCompound()
	case c.atPunct(";"):
		return c.advance()
	case c.atKeyword("int"):
		return c.compileDecl()
	case c.atKeyword("return"):
		return c.compileReturn()
	case c.atKeyword("if"):
		return c.compileIf()
	case c.atKeyword("while"):
		return c.compileWhile()
	case c.atKeyword("for"):
		return c.compileFor()
	default:
		if _, err := c.parseExpr(); err != nil {
			return err
		}
		return c.expectPunct(";")
	}
}

func (c *Compiler) compileCompound() error {
	if err := c.expectPunct("{"); err != nil {
		return err
	}
	for !c.atPunct("}") {
		if c.cur.Kind == EOF {
			return fmt.Errorf("cc: unexpected EOF in compound statement")
		}
		if err := c.compileStatement(); err != nil {
			return err
		}
	}
	return c.expectPunct("}")
}

func (c *Compiler) compileDecl() error {
	if err := c.expectKeyword("int"); err != nil {
		return err
	}
	isPtr := false
	for c.atPunct("*") {
		isPtr = true
		if err := c.advance(); err != nil {
			return err
		}
	}
	name, err := c.expectIdent()
	if err != nil {
		return err
	}

	if c.atPunct("[") {
		if isPtr {
			return fmt.Errorf("cc: pointer-to-array locals are unsupported (%s)", name)
		}
		if err := c.advance(); err != nil {
			return err
		}
		if c.cur.Kind != Number {
			return fmt.Errorf("cc: expected array size, got %v %q", c.cur.Kind, c.cur.Text)
		}
		count := int(c.cur.Value)
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.expectPunct("]"); err != nil {
			return err
		}
		size := ((count*4 + 7) / 8) * 8
		off := c.allocLocal(size)
		if err := c.sym.declare(&Symbol{Name: name, Offset: off, Type: TypeArray, Count: count}); err != nil {
			return err
		}
		return c.expectPunct(";")
	}

	typ := TypeInt
	if isPtr {
		typ = TypePointer
	}
	off := c.allocLocal(8)
	if err := c.sym.declare(&Symbol{Name: name, Offset: off, Type: typ}); err != nil {
		return err
	}
	return c.expectPunct(";")
}

func (c *Compiler) compileReturn() error {
	if err := c.expectKeyword("return"); err != nil {
		return err
	}
	cat, err := c.parseExpr()
	if err != nil {
		return err
	}
	if err := c.materialize(cat); err != nil {
		return err
	}
	c.emit.emit2("mov", "x0", "x9")
	c.emit.emit1("b", LabelName(c.returnLabel))
	return c.expectPunct(";")
}

func (c *Compiler) compileIf() error {
	if err := c.expectKeyword("if"); err != nil {
		return err
	}
	if err := c.expectPunct("("); err != nil {
		return err
	}
	if err := c.parseExprInto(); err != nil {
		return err
	}
	if err := c.expectPunct(")"); err != nil {
		return err
	}

	elseLabel := c.nextLabel()
	endLabel := elseLabel
	c.emit.emit2("cbz", "x9", LabelName(elseLabel))

	if err := c.compileStatement(); err != nil {
		return err
	}

	if c.atKeyword("else") {
		if err := c.advance(); err != nil {
			return err
		}
		endLabel = c.nextLabel()
		c.emit.emit1("b", LabelName(endLabel))
		c.emit.Label(elseLabel)
		if err := c.compileStatement(); err != nil {
			return err
		}
	}
	c.emit.Label(endLabel)
	return nil
}

func (c *Compiler) compileWhile() error {
	if err := c.expectKeyword("while"); err != nil {
		return err
	}
	if err := c.expectPunct("("); err != nil {
		return err
	}
	topLabel := c.nextLabel()
	endLabel := c.nextLabel()
	c.emit.Label(topLabel)
	if err := c.parseExprInto(); err != nil {
		return err
	}
	if err := c.expectPunct(")"); err != nil {
		return err
	}
	c.emit.emit2("cbz", "x9", LabelName(endLabel))
	if err := c.compileStatement(); err != nil {
		return err
	}
	c.emit.emit1("b", LabelName(topLabel))
	c.emit.Label(endLabel)
	return nil
}

func (c *Compiler) compileFor() error {
	if err := c.expectKeyword("for"); err != nil {
		return err
	}
	if err := c.expectPunct("("); err != nil {
		return err
	}
	if !c.atPunct(";") {
		if _, err := c.parseExpr(); err != nil {
			return err
		}
	}
	if err := c.expectPunct(";"); err != nil {
		return err
	}

	topLabel := c.nextLabel()
	endLabel := c.nextLabel()
	c.emit.Label(topLabel)
	if !c.atPunct(";") {
		if err := c.parseExprInto(); err != nil {
			return err
		}
		c.emit.emit2("cbz", "x9", LabelName(endLabel))
	}
	if err := c.expectPunct(";"); err != nil {
		return err
	}

	var update []Token
	depth := 0
	for {
		if c.atPunct(")") && depth == 0 {
			break
		}
		if c.cur.Kind == EOF {
			return fmt.Errorf("cc: unexpected EOF in for-loop update clause")
		}
		if c.atPunct("(") {
			depth++
		}
		if c.atPunct(")") {
			depth--
		}
		if len(update) >= MaxTokenBuffer {
			return fmt.Errorf("cc: for-loop update clause exceeds token buffer capacity")
		}
		update = append(update, c.cur)
		if err := c.advance(); err != nil {
			return err
		}
	}
	if err := c.expectPunct(")"); err != nil {
		return err
	}

	if err := c.compileStatement(); err != nil {
		return err
	}

	if len(update) > 0 {
		update = append(update, Token{Kind: EOF})
		saved := c.cur
		c.lex.EnterReplay(update)
		if err := c.advance(); err != nil {
			return err
		}
		if _, err := c.parseExpr(); err != nil {
			return err
		}
		c.lex.ExitReplay()
		c.cur = saved
	}

	c.emit.emit1("b", LabelName(topLabel))
	c.emit.Label(endLabel)
	return nil
}

// --- expressions -----------------------------------------------------------

// parseExpr parses a full assignment-level expression, leaving its value
// (or, for an lvalue result the caller didn't ask to be materialized, its
// address) in x9.
func (c *Compiler) parseExpr() (Category, error) {
	return c.parseAssignment()
}

// parseExprInto parses an expression and materializes it to a usable
// rvalue in x9 (every caller uses this for a branch condition).
func (c *Compiler) parseExprInto() error {
	cat, err := c.parseExpr()
	if err != nil {
		return err
	}
	return c.materialize(cat)
}

func (c *Compiler) materialize(cat Category) error {
	switch cat {
	case IntLV:
		// Sign-extend: every subsequent binary op, comparison, division, and
		// call-arg path treats x9 as a full 64-bit signed value, so a plain
		// "ldr w9" (which zero-extends) would turn a negative int into a
		// large positive 64-bit number.
		c.emit.emit2("ldrsw", "x9", "[x9]")
	case PtrLV:
		c.emit.emit2("ldr", "x9", "[x9]")
	}
	return nil
}

func (c *Compiler) parseAssignment() (Category, error) {
	cat, err := c.parseEquality()
	if err != nil {
		return 0, err
	}
	if !c.atPunct("=") {
		return cat, nil
	}
	if !cat.IsLvalue() {
		return 0, fmt.Errorf("cc: assignment target is not an lvalue")
	}
	targetBase := cat.base()
	c.push("x9")
	if err := c.advance(); err != nil {
		return 0, err
	}
	rcat, err := c.parseAssignment()
	if err != nil {
		return 0, err
	}
	if err := c.materialize(rcat); err != nil {
		return 0, err
	}
	c.pop("x10")
	if targetBase == PtrRV {
		c.emit.emit2("str", "x9", "[x10]")
	} else {
		c.emit.emit2("str", "w9", "[x10]")
	}
	return targetBase, nil
}

func (c *Compiler) parseEquality() (Category, error) {
	return c.parseBinary(c.parseRelational, map[string]string{"==": "eq", "!=": "ne"})
}

func (c *Compiler) parseRelational() (Category, error) {
	return c.parseBinary(c.parseAdditive, map[string]string{"<": "lt", "<=": "le", ">": "gt", ">=": "ge"})
}

// parseBinary implements one precedence level of comparison operators,
// which all lower to cmp + cset per §4.C.2.
func (c *Compiler) parseBinary(next func() (Category, error), ccs map[string]string) (Category, error) {
	cat, err := next()
	if err != nil {
		return 0, err
	}
	for {
		cc, ok := ccs[c.cur.Text]
		if !ok || c.cur.Kind != Punct {
			return cat, nil
		}
		if err := c.materialize(cat); err != nil {
			return 0, err
		}
		c.push("x9")
		if err := c.advance(); err != nil {
			return 0, err
		}
		rcat, err := next()
		if err != nil {
			return 0, err
		}
		if err := c.materialize(rcat); err != nil {
			return 0, err
		}
		c.pop("x10")
		c.emit.emit2("cmp", "x10", "x9")
		c.emit.emit2("cset", "x9", cc)
		cat = IntRV
	}
}

func (c *Compiler) parseAdditive() (Category, error) {
	cat, err := c.parseMultiplicative()
	if err != nil {
		return 0, err
	}
	for {
		var mnemonic string
		switch {
		case c.atPunct("+"):
			mnemonic = "add"
		case c.atPunct("-"):
			mnemonic = "sub"
		default:
			return cat, nil
		}
		if err := c.materialize(cat); err != nil {
			return 0, err
		}
		c.push("x9")
		if err := c.advance(); err != nil {
			return 0, err
		}
		rcat, err := c.parseMultiplicative()
		if err != nil {
			return 0, err
		}
		if err := c.materialize(rcat); err != nil {
			return 0, err
		}
		c.pop("x10")
		c.emit.emit3(mnemonic, "x9", "x10", "x9")
		cat = IntRV
	}
}

func (c *Compiler) parseMultiplicative() (Category, error) {
	cat, err := c.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op := c.cur.Text
		if !c.atPunct("*") && !c.atPunct("/") && !c.atPunct("%") {
			return cat, nil
		}
		if err := c.materialize(cat); err != nil {
			return 0, err
		}
		c.push("x9")
		if err := c.advance(); err != nil {
			return 0, err
		}
		rcat, err := c.parseUnary()
		if err != nil {
			return 0, err
		}
		if err := c.materialize(rcat); err != nil {
			return 0, err
		}
		c.pop("x10")
		switch op {
		case "*":
			c.emit.emit3("mul", "x9", "x10", "x9")
		case "/":
			c.emit.emit3("sdiv", "x9", "x10", "x9")
		case "%":
			c.emit.emit3("sdiv", "x11", "x10", "x9")
			c.emit.emit("msub", "x9", "x11", "x9", "x10")
		}
		cat = IntRV
	}
}

func (c *Compiler) parseUnary() (Category, error) {
	switch {
	case c.atPunct("-"):
		if err := c.advance(); err != nil {
			return 0, err
		}
		cat, err := c.parseUnary()
		if err != nil {
			return 0, err
		}
		if err := c.materialize(cat); err != nil {
			return 0, err
		}
		c.emit.emit2("neg", "x9", "x9")
		return IntRV, nil
	case c.atPunct("&"):
		if err := c.advance(); err != nil {
			return 0, err
		}
		cat, err := c.parseUnary()
		if err != nil {
			return 0, err
		}
		if !cat.IsLvalue() {
			return 0, fmt.Errorf("cc: '&' requires an lvalue operand")
		}
		return PtrRV, nil
	case c.atPunct("*"):
		if err := c.advance(); err != nil {
			return 0, err
		}
		cat, err := c.parseUnary()
		if err != nil {
			return 0, err
		}
		if err := c.materialize(cat); err != nil {
			return 0, err
		}
		if cat.base() != PtrRV {
			return 0, fmt.Errorf("cc: '*' requires a pointer operand")
		}
		return IntLV, nil
	default:
		return c.parsePostfix()
	}
}

func (c *Compiler) parsePostfix() (Category, error) {
	cat, err := c.parsePrimary()
	if err != nil {
		return 0, err
	}
	for c.atPunct("[") {
		if err := c.materialize(cat); err != nil {
			return 0, err
		}
		if cat.base() != PtrRV {
			return 0, fmt.Errorf("cc: indexing requires a pointer or array operand")
		}
		c.push("x9")
		if err := c.advance(); err != nil {
			return 0, err
		}
		icat, err := c.parseExpr()
		if err != nil {
			return 0, err
		}
		if err := c.materialize(icat); err != nil {
			return 0, err
		}
		if err := c.expectPunct("]"); err != nil {
			return 0, err
		}
		c.pop("x10")
		// base (x10) + sign-extended index (x9) scaled by the fixed
		// 4-byte int element size (§4.C.2, and §9's note that the
		// symbol table never distinguishes array-base from
		// pointer-base element size).
		c.emit.emit("add", "x9", "x10", "x9", "sxtw #2")
		cat = IntLV
	}
	return cat, nil
}

func (c *Compiler) parsePrimary() (Category, error) {
	switch {
	case c.cur.Kind == Number:
		v := c.cur.Value
		if err := c.advance(); err != nil {
			return 0, err
		}
		c.emit.emit2("mov", "x9", Imm(v))
		return IntRV, nil

	case c.cur.Kind == Ident:
		name := c.cur.Text
		if err := c.advance(); err != nil {
			return 0, err
		}
		if c.atPunct("(") {
			return c.parseCall(name)
		}
		sym, ok := c.sym.lookup(name)
		if !ok {
			return 0, fmt.Errorf("cc: unresolved identifier %q", name)
		}
		c.loadFrameAddr("x9", sym.Offset)
		switch sym.Type {
		case TypeArray:
			return PtrRV, nil
		case TypePointer:
			return PtrLV, nil
		default:
			return IntLV, nil
		}

	case c.atPunct("("):
		if err := c.advance(); err != nil {
			return 0, err
		}
		cat, err := c.parseExpr()
		if err != nil {
			return 0, err
		}
		if err := c.expectPunct(")"); err != nil {
			return 0, err
		}
		return cat, nil

	default:
		return 0, fmt.Errorf("cc: unexpected token %v %q", c.cur.Kind, c.cur.Text)
	}
}

func (c *Compiler) parseCall(name string) (Category, error) {
	if err := c.expectPunct("("); err != nil {
		return 0, err
	}
	n := 0
	if !c.atPunct(")") {
		for {
			cat, err := c.parseExpr()
			if err != nil {
				return 0, err
			}
			if err := c.materialize(cat); err != nil {
				return 0, err
			}
			c.push("x9")
			n++
			if n > MaxParams {
				return 0, fmt.Errorf("cc: call to %s passes more than %d arguments", name, MaxParams)
			}
			if c.atPunct(",") {
				if err := c.advance(); err != nil {
					return 0, err
				}
				continue
			}
			break
		}
	}
	if err := c.expectPunct(")"); err != nil {
		return 0, err
	}
	for i := n - 1; i >= 0; i-- {
		c.pop(xReg(i))
	}
	c.emit.emit1("bl", "_"+name)
	c.emit.emit2("mov", "x9", "x0")
	return IntRV, nil
}
