package forth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseNumber(t *testing.T) {
	cases := []struct {
		tok     string
		base    int
		want    Cell
		wantOk  bool
		altBase bool
	}{
		{"42", 10, 42, true, false},
		{"-42", 10, -42, true, false},
		{"+42", 10, 42, true, false},
		{"$FF", 10, 255, true, true},
		{"#101", 16, 101, true, true}, // decimal override regardless of base
		{"%101", 10, 5, true, true},
		{"ff", 16, 255, true, false},
		{"z9", 10, 0, false, false},
		{"", 10, 0, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.tok, func(t *testing.T) {
			v, ok := parseNumber(tc.tok, tc.base)
			assert.Equal(t, tc.wantOk, ok)
			if ok {
				assert.Equal(t, tc.want, v)
			}
		})
	}
}

func Test_FormatNumber(t *testing.T) {
	assert.Equal(t, "42", formatNumber(42, 10))
	assert.Equal(t, "-42", formatNumber(-42, 10))
	assert.Equal(t, "ff", formatNumber(255, 16))
	assert.Equal(t, "0", formatNumber(0, 10))
}
