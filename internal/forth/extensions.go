package forth

import "strings"

// extensionsSource defines §4.E's control-structure words as ordinary
// Forth, on top of the primitives §4.F already provides (HERE, `,`,
// BRANCH, 0BRANCH, ['], LATEST). Because those primitives already exist,
// this bootstrap is considerably shorter than a from-scratch Forth's: it
// never needs to build `,` or HERE out of more primitive pieces first.
//
// IF, ELSE and WHILE leave on the parameter stack the address of a
// not-yet-filled branch-offset cell, patched later by ELSE/THEN/REPEAT;
// BEGIN leaves its own address, the target UNTIL/AGAIN/REPEAT branch back
// to. Every offset is `delta = target - addressOfOffsetCell` — the same
// convention BRANCH/0BRANCH use to interpret that cell at runtime.
const extensionsSource = `
: IF ['] 0BRANCH , HERE 0 , ; IMMEDIATE
: THEN HERE OVER - SWAP ! ; IMMEDIATE
: ELSE ['] BRANCH , HERE 0 , SWAP HERE OVER - SWAP ! ; IMMEDIATE

: BEGIN HERE ; IMMEDIATE
: UNTIL ['] 0BRANCH , HERE - , ; IMMEDIATE
: AGAIN ['] BRANCH , HERE - , ; IMMEDIATE
: WHILE ['] 0BRANCH , HERE 0 , ; IMMEDIATE
: REPEAT ['] BRANCH , SWAP HERE - , HERE OVER - SWAP ! ; IMMEDIATE

: RECURSE LATEST , ; IMMEDIATE
: [COMPILE] ' , ; IMMEDIATE
`

// LoadExtensions compiles extensionsSource into m, installing §4.E's
// control-structure words. It must run once, after primitives are
// installed (New does this already) and before any E- or C-stage input.
func LoadExtensions(m *Machine) error {
	return m.Interpret(strings.NewReader(extensionsSource))
}
