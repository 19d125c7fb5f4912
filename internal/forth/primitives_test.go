package forth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depthAndTop(t *testing.T, src string) (int, Cell) {
	t.Helper()
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader(src)))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	return m.Depth(), v
}

func Test_Primitives_stackShuffling(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want Cell
	}{
		{"swap", "1 2 SWAP", 1},
		{"over", "1 2 OVER", 1},
		{"rot", "1 2 3 ROT", 1},
		{"nip", "1 2 NIP", 2},
		{"tuck", "1 2 TUCK", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, top := depthAndTop(t, tc.src)
			assert.Equal(t, tc.want, top)
		})
	}
}

func Test_Primitives_comparisonsYieldCanonicalBooleans(t *testing.T) {
	_, top := depthAndTop(t, "3 5 <")
	assert.Equal(t, Cell(-1), top)
	_, top = depthAndTop(t, "5 3 <")
	assert.Equal(t, Cell(0), top)
}

func Test_Primitives_divisionByZeroIsFatal(t *testing.T) {
	m := New()
	err := m.Interpret(strings.NewReader("1 0 /\n9"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
	// the second line never runs: both operands were already popped by the
	// failed division, so the stack is left empty rather than reset.
	assert.Equal(t, 0, m.Depth())
}

func Test_Primitives_memoryFetchStore(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader("HERE 8 ALLOT 42 OVER ! @")))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(42), v)
}

func Test_Primitives_tickAndExecute(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader(": INC 1 + ; 41 ' INC EXECUTE")))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(42), v)
}

func Test_Primitives_bracketTickCompilesLiteralXT(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader(`
: INC 1 + ;
: RUN-INC ['] INC EXECUTE ;
41 RUN-INC`)))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(42), v)
}

func Test_Primitives_recursiveFactorial(t *testing.T) {
	m := New()
	require.NoError(t, LoadExtensions(m))
	require.NoError(t, m.Interpret(strings.NewReader(`
: FACT DUP 1 > IF DUP 1 - RECURSE * ELSE DROP 1 THEN ;
5 FACT`)))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(120), v)
}
