package forth

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Machine_stackArithmetic(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader("2 3 + 4 *")))
	assert.Equal(t, 1, m.Depth())
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(20), v)
}

func Test_Machine_stackUnderflowIsFatal(t *testing.T) {
	m := New()
	err := m.Interpret(strings.NewReader("DROP\n1 2 +"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStackUnderflow)
	// the second line never runs: the fault propagates out of Interpret
	// instead of resetting and resuming at the next line.
	assert.Equal(t, 0, m.Depth())
}

func Test_Machine_unknownWordIsSkippedAndInterpretationContinues(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader("FROB\n5")))
	assert.Equal(t, 1, m.Depth())
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(5), v)
}

func Test_Machine_colonDefinitionRoundTrip(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader(": SQUARE DUP * ; 7 SQUARE")))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(49), v)
}

func Test_Machine_caseInsensitiveWordLookup(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader(": Double dup + ; 5 double")))
	v, err := m.peekParam(0)
	require.NoError(t, err)
	assert.Equal(t, Cell(10), v)
}

func Test_Machine_numberParsingAcrossBases(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader("#10 $FF %101")))
	assert.Equal(t, 3, m.Depth())
	binVal, err := m.peekParam(0)
	require.NoError(t, err)
	hexVal, err := m.peekParam(1)
	require.NoError(t, err)
	decVal, err := m.peekParam(2)
	require.NoError(t, err)
	assert.Equal(t, Cell(5), binVal)
	assert.Equal(t, Cell(255), hexVal)
	assert.Equal(t, Cell(10), decVal)
}

func Test_Machine_emitAndTypeWriteToOutput(t *testing.T) {
	var out bytes.Buffer
	m := New(WithOutput(&out))
	require.NoError(t, m.Interpret(strings.NewReader("65 EMIT")))
	assert.Equal(t, "A", out.String())
}

func Test_Machine_byeStopsInterpretation(t *testing.T) {
	var out bytes.Buffer
	m := New(WithOutput(&out))
	require.NoError(t, m.Interpret(strings.NewReader("65 EMIT BYE 66 EMIT")))
	assert.Equal(t, "A", out.String())
}

func Test_Machine_dictOverflowIsFatal(t *testing.T) {
	m := New(WithMemCap(8))
	err := m.Interpret(strings.NewReader(": A 1 , 2 , ;"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDictOverflow)
	// the colon definition never completed, so its name never resolves.
	_, ok := m.find("A")
	assert.False(t, ok)
}
