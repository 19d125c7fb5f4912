// Package forth implements §4.F: a threaded-code Forth virtual machine with
// a dictionary, parameter and return stacks, interpret/compile modes,
// immediate words, and branch back-patching. §4.E's control-structure words
// are loaded as ordinary Forth source (extensions.go) once the machine's
// primitives are in place, mirroring how the teacher project layers THIRD
// on top of FIRST.
package forth

// Cell is the machine word: a signed integer, per §3's "ordered sequence of
// signed machine words".
type Cell = int64

// Flags holds a dictionary entry's IMMEDIATE/HIDDEN bits, per §3 and §6.
type Flags byte

const (
	FlagImmediate Flags = 1 << 7
	FlagHidden    Flags = 1 << 6

	// MaxNameLen preserves the source system's 5-bit name-length field
	// (§9 Open Questions: "word names up to 31 characters due to the
	// five-bit length field; implementations may raise this if the flags
	// bits are relocated"). We don't relocate it, so the limit stays.
	MaxNameLen = 31
)

// Mode is the interpreter's Interpret/Compile state (§3).
type Mode int

const (
	Interpret Mode = iota
	Compile
)

func (m Mode) String() string {
	if m == Compile {
		return "Compile"
	}
	return "Interpret"
}

// Default capacities, all at or above the spec's §3/§6 minimums.
const (
	DefaultParamCap  = 256
	DefaultReturnCap = 256
	DefaultMemCap    = 48 * 1024 // dictionary space, §6
	DefaultBase      = 10
)
