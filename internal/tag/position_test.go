package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in        string
		number    uint16
		hasNumber bool
		total     uint16
		hasTotal  bool
	}{
		{"3", 3, true, 0, false},
		{"3/12", 3, true, 12, true},
		{" 03 / 12 ", 3, true, 12, true},
		{"/12", 0, false, 12, true},
		{"0/5", 0, true, 5, true},
		{"", 0, false, 0, false},
		{"A1", 0, false, 0, false},
		{"70000", 0, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, hasN, total, hasTotal := ParsePosition(tt.in)
			assert.Equal(t, tt.number, n)
			assert.Equal(t, tt.hasNumber, hasN)
			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.hasTotal, hasTotal)
		})
	}
}

func TestFormatPosition(t *testing.T) {
	assert.Equal(t, "3/12", FormatPosition(3, true, 12, true))
	assert.Equal(t, "3", FormatPosition(3, true, 0, false))
	assert.Equal(t, "/12", FormatPosition(0, false, 12, true))
	assert.Equal(t, "", FormatPosition(0, false, 0, false))

	n, hasN, total, hasTotal := ParsePosition(FormatPosition(0, true, 9, true))
	assert.Equal(t, []any{uint16(0), true, uint16(9), true}, []any{n, hasN, total, hasTotal})
}
