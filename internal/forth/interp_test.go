package forth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Interp_threadedCallsNestColonWords(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader(`
: TWICE DUP + ;
: QUADRUPLE TWICE TWICE ;
3 QUADRUPLE`)))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(12), v)
}

func Test_Interp_literalsCompileAndExecute(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader(": FORTYTWO 42 ; FORTYTWO")))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(42), v)
}

func Test_Interp_executeOnColonWordUsesSentinelReturn(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader(": INC 1 + ;")))
	w, ok := m.find("INC")
	require.True(t, ok)
	require.NoError(t, m.pushParam(41))
	require.NoError(t, m.Execute(w.Addr))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(42), v)
	assert.Equal(t, 0, len(m.ret))
}

func Test_Interp_compileModeReflectedInState(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader(": X STATE ;")))
	// STATE reflects the mode active when X itself runs, not when it was
	// defined: called from top-level Interpret mode, it reads 0.
	require.NoError(t, m.Interpret(strings.NewReader("X")))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(0), v)
}
