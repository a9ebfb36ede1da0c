package journal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/model"
)

// mockLedgers implements LedgerChecker for testing.
type mockLedgers map[string]bool

func (m mockLedgers) Exists(id string) bool {
	return m[id]
}

var defaultLedgers = mockLedgers{"cash": true, "hdfc": true, "rent": true, "sales": true}

func balancedVoucher(seq int, debitLedger, creditLedger, amount string) []model.VoucherEntry {
	voucherID := fmt.Sprintf("JV-2025-01-%03d", seq)
	return []model.VoucherEntry{
		{EntryID: voucherID + "a", VoucherID: voucherID, LedgerID: debitLedger, Debit: dec(amount), Date: date(2025, 1, 15)},
		{EntryID: voucherID + "b", VoucherID: voucherID, LedgerID: creditLedger, Credit: dec(amount), Date: date(2025, 1, 15)},
	}
}

func invariants(errs []ValidationError) []int {
	var out []int
	for _, e := range errs {
		out = append(out, e.Invariant)
	}
	return out
}

func TestValidate_Balanced(t *testing.T) {
	entries := append(balancedVoucher(1, "rent", "cash", "100.00"), balancedVoucher(2, "cash", "sales", "250.25")...)
	assert.Empty(t, ValidateEntries(entries, defaultLedgers, 2025, 1))
}

func TestValidate_Unbalanced(t *testing.T) {
	entries := balancedVoucher(1, "rent", "cash", "100.00")
	entries[1].Credit = dec("90.00")

	errs := ValidateEntries(entries, defaultLedgers, 2025, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Invariant)
	assert.Contains(t, errs[0].Error(), "debits (100.00) != credits (90.00)")
}

func TestValidate_BothSides(t *testing.T) {
	entries := balancedVoucher(1, "rent", "cash", "100.00")
	entries[0].Credit = dec("100.00")
	entries[1].Debit = dec("100.00")

	errs := ValidateEntries(entries, defaultLedgers, 2025, 1)
	assert.Equal(t, []int{2, 2}, invariants(errs))
}

func TestValidate_NegativeAmount(t *testing.T) {
	entries := balancedVoucher(1, "rent", "cash", "-5.00")
	assert.Equal(t, []int{2, 2}, invariants(ValidateEntries(entries, defaultLedgers, 2025, 1)))
}

func TestValidate_UnknownLedger(t *testing.T) {
	entries := balancedVoucher(1, "rent", "petty", "10.00")
	errs := ValidateEntries(entries, defaultLedgers, 2025, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].Invariant)
	assert.Contains(t, errs[0].Description, `"petty"`)
}

func TestValidate_DateOutsideMonth(t *testing.T) {
	entries := balancedVoucher(1, "rent", "cash", "10.00")
	entries[0].Date = date(2025, 2, 1)
	entries[1].Date = date(2025, 2, 1)

	assert.Equal(t, []int{4, 4}, invariants(ValidateEntries(entries, defaultLedgers, 2025, 1)))
	assert.Empty(t, ValidateEntries(entries, defaultLedgers, 0, 0), "year 0 skips month checks")
}

func TestValidate_MixedDates(t *testing.T) {
	entries := balancedVoucher(1, "rent", "cash", "10.00")
	entries[1].Date = date(2025, 1, 16)
	assert.Equal(t, []int{7}, invariants(ValidateEntries(entries, defaultLedgers, 2025, 1)))
}

func TestValidate_SequenceGap(t *testing.T) {
	entries := append(balancedVoucher(1, "rent", "cash", "1.00"), balancedVoucher(3, "rent", "cash", "1.00")...)
	errs := ValidateEntries(entries, defaultLedgers, 2025, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, 5, errs[0].Invariant)
	assert.Contains(t, errs[0].Description, "missing sequence 2")
}

func TestValidate_DuplicateSequence(t *testing.T) {
	dup := balancedVoucher(1, "rent", "cash", "1.00")
	for i := range dup {
		dup[i].EntryID = "PV" + dup[i].EntryID[2:]
		dup[i].VoucherID = "PV-2025-01-001"
	}
	entries := append(balancedVoucher(1, "rent", "cash", "1.00"), dup...)
	errs := ValidateEntries(entries, defaultLedgers, 2025, 1)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Description, "already used by JV-2025-01-001")
}

func TestValidate_TooManyDecimals(t *testing.T) {
	entries := balancedVoucher(1, "rent", "cash", "10.005")
	assert.Equal(t, []int{6, 6}, invariants(ValidateEntries(entries, defaultLedgers, 2025, 1)))
}
