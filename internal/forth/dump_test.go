package forth

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Dumper_reportsStacksAndLatestWord(t *testing.T) {
	m := New()
	require.NoError(t, m.Interpret(strings.NewReader(": FOO 1 2 3 ;\nFOO")))

	var out bytes.Buffer
	NewDumper(m, &out).Dump()

	report := out.String()
	assert.Contains(t, report, "# Machine Dump")
	assert.Contains(t, report, "param: [1 2 3]")
	assert.Contains(t, report, "FOO")
}
