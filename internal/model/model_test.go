package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBalanceOf(t *testing.T) {
	tests := []struct {
		signed string
		want   string
	}{
		{"800", "800.00 Dr"},
		{"-250.5", "250.50 Cr"},
		{"0", "0.00 Dr"},
	}
	for _, tt := range tests {
		b := BalanceOf(dec(tt.signed))
		assert.Equal(t, tt.want, b.String(), "BalanceOf(%s)", tt.signed)
		assert.True(t, b.Signed().Equal(dec(tt.signed)))
	}
}

func TestParseSide(t *testing.T) {
	for _, in := range []string{"Dr", "dr", "DEBIT", " debit "} {
		s, err := ParseSide(in)
		require.NoError(t, err)
		assert.Equal(t, Dr, s)
	}
	s, err := ParseSide("Credit")
	require.NoError(t, err)
	assert.Equal(t, Cr, s)

	_, err = ParseSide("x")
	assert.Error(t, err)
}

func TestInvoiceOutstanding(t *testing.T) {
	inv := Invoice{Total: dec("1000"), AmountPaid: dec("400")}
	assert.True(t, inv.Outstanding().Equal(dec("600")))

	due := dec("550")
	inv.BalanceDue = &due
	assert.True(t, inv.Outstanding().Equal(dec("550")), "explicit balance due wins")
}

func TestVoucherTotals(t *testing.T) {
	v := Voucher{Entries: []VoucherEntry{
		{LedgerID: "cash", Debit: dec("100")},
		{LedgerID: "sales", Credit: dec("60")},
		{LedgerID: "tax", Credit: dec("40")},
	}}
	dr, cr := v.Totals()
	assert.True(t, dr.Equal(cr))
	assert.True(t, v.Touches("tax"))
	assert.False(t, v.Touches("bank"))
	assert.Equal(t, Cr, v.Entries[1].Side())
	assert.True(t, v.Entries[2].Amount().Equal(dec("40")))
}

func TestLedgerPrimaryGroup(t *testing.T) {
	l := LedgerAccount{GroupPath: []string{"Current Assets", "Sundry Debtors"}}
	assert.Equal(t, "Current Assets", l.PrimaryGroup())
	assert.Equal(t, "", LedgerAccount{}.PrimaryGroup())

	l.OpeningBalance = dec("500")
	l.OpeningType = Cr
	assert.True(t, l.OpeningSigned().Equal(dec("-500")))
}
