package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/model"
)

func TestFormatVoucherID(t *testing.T) {
	assert.Equal(t, "PV-2025-01-007", FormatVoucherID(model.VoucherPayment, 2025, 1, 7))
	assert.Equal(t, "JV-2024-12-123", FormatVoucherID("Memo", 2024, 12, 123))
}

func TestFormatEntryID(t *testing.T) {
	assert.Equal(t, "RV-2025-03-001a", FormatEntryID("RV-2025-03-001", 0))
	assert.Equal(t, "RV-2025-03-001c", FormatEntryID("RV-2025-03-001", 2))
}

func TestParseVoucherID(t *testing.T) {
	tests := []struct {
		in     string
		prefix string
		year   int
		month  int
		seq    int
	}{
		{"PV-2025-01-007", "PV", 2025, 1, 7},
		{"SV-2025-11-042b", "SV", 2025, 11, 42},
	}
	for _, tt := range tests {
		prefix, y, m, s, err := ParseVoucherID(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.prefix, prefix)
		assert.Equal(t, tt.year, y)
		assert.Equal(t, tt.month, m)
		assert.Equal(t, tt.seq, s)
	}
}

func TestParseVoucherID_Invalid(t *testing.T) {
	for _, in := range []string{"", "2025-01-001", "PV-abcd-01-001", "PV-2025-13-001", "PV-2025-01-x"} {
		_, _, _, _, err := ParseVoucherID(in)
		assert.Error(t, err, "ParseVoucherID(%q)", in)
	}
}

func TestVoucherOf(t *testing.T) {
	assert.Equal(t, "JV-2025-01-001", VoucherOf("JV-2025-01-001a"))
	assert.Equal(t, "JV-2025-01-001", VoucherOf("JV-2025-01-001"))
	assert.Equal(t, "", VoucherOf(""))
}
