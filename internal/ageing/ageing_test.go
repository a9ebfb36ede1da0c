package ageing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func invoice(client string, d time.Time, total, paid string) model.Invoice {
	return model.Invoice{ID: client + d.Format("0102"), ClientID: client, Date: d, Total: dec(total), AmountPaid: dec(paid)}
}

func TestBandFor_Boundaries(t *testing.T) {
	asOn := date(2025, 3, 31)
	tests := []struct {
		days int
		want Band
	}{
		{-3, Current},
		{0, Current},
		{1, Days30},
		{30, Days30},
		{31, Days60},
		{60, Days60},
		{61, Days90},
		{90, Days90},
		{91, Above90},
	}
	for _, tt := range tests {
		inv := asOn.AddDate(0, 0, -tt.days)
		assert.Equal(t, tt.days, DaysBetween(asOn, inv))
		assert.Equal(t, tt.want, BandFor(DaysBetween(asOn, inv)), "days %d", tt.days)
	}
}

func TestDaysBetween_Floors(t *testing.T) {
	asOn := date(2025, 3, 31)
	assert.Equal(t, 0, DaysBetween(asOn, asOn.Add(-23*time.Hour)))
	assert.Equal(t, -1, DaysBetween(asOn, asOn.Add(1*time.Hour)))
}

func TestCompute_Buckets(t *testing.T) {
	asOn := date(2025, 3, 31)
	due := dec("40")
	withDue := invoice("acme", date(2025, 1, 1), "100", "0")
	withDue.BalanceDue = &due

	rows := Compute([]Party{{
		LedgerID: "acme",
		Name:     "Acme",
		Invoices: []model.Invoice{
			invoice("acme", asOn, "100", "0"),              // 0 days
			invoice("acme", date(2025, 3, 1), "200", "50"), // 30 days
			invoice("acme", date(2025, 2, 28), "300", "0"), // 31 days
			withDue, // 89 days, explicit due
		},
	}}, asOn)

	require.Len(t, rows, 1)
	b := rows[0].Buckets
	assert.Equal(t, "100", b[Current].String())
	assert.Equal(t, "150", b[Days30].String())
	assert.Equal(t, "300", b[Days60].String())
	assert.Equal(t, "40", b[Days90].String())
	assert.Equal(t, "0", b[Above90].String())
	assert.Equal(t, "590", rows[0].Total.String())
	assert.Equal(t, 4, rows[0].Invoices)
}

func TestCompute_NoInvoicesGoesCurrent(t *testing.T) {
	rows := Compute([]Party{{LedgerID: "b", Name: "Beta", Balance: dec("75")}}, date(2025, 1, 1))
	require.Len(t, rows, 1)
	assert.Equal(t, "75", rows[0].Buckets[Current].String())
	assert.Equal(t, "75", rows[0].Total.String())
}

func TestCompute_DropsAndSorts(t *testing.T) {
	asOn := date(2025, 1, 31)
	rows := Compute([]Party{
		{LedgerID: "small", Balance: dec("10")},
		{LedgerID: "settled", Invoices: []model.Invoice{invoice("settled", asOn, "10", "10")}},
		{LedgerID: "dust", Balance: dec("0.009")},
		{LedgerID: "big", Balance: dec("500")},
		{LedgerID: "small2", Balance: dec("10")},
	}, asOn)

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.LedgerID)
	}
	assert.Equal(t, []string{"big", "small", "small2"}, ids)
	assert.Equal(t, "520", Totals(rows)[Current].String())
}

func TestPartiesFrom(t *testing.T) {
	parties := PartiesFrom(
		[]model.LedgerAccount{{ID: "acme", Name: "Acme", CurrentBalance: dec("100")}},
		[]model.Invoice{
			invoice("acme", date(2025, 1, 10), "100", "0"),
			invoice("acme", date(2025, 2, 10), "100", "0"),
			invoice("other", date(2025, 1, 10), "100", "0"),
		},
	)
	require.Len(t, parties, 1)
	assert.Len(t, parties[0].Invoices, 2)
	assert.Equal(t, "100", parties[0].Balance.String())
}

func TestCompute_FutureInvoiceIsCurrent(t *testing.T) {
	asOn := date(2025, 1, 31)
	parties := PartiesFrom(
		[]model.LedgerAccount{{ID: "acme", Name: "Acme", CurrentBalance: dec("300")}},
		[]model.Invoice{
			invoice("acme", date(2025, 1, 21), "100", "0"),
			invoice("acme", date(2025, 2, 2), "200", "0"),
		},
	)
	rows := Compute(parties, asOn)
	require.Len(t, rows, 1)
	assert.Equal(t, "200", rows[0].Buckets[Current].String())
	assert.Equal(t, "100", rows[0].Buckets[Days30].String())
	assert.Equal(t, "300", rows[0].Total.String())
}

func TestCompute_OnlyFutureInvoicesUseInvoices(t *testing.T) {
	parties := PartiesFrom(
		[]model.LedgerAccount{{ID: "acme", Name: "Acme", CurrentBalance: dec("900")}},
		[]model.Invoice{invoice("acme", date(2025, 2, 5), "250", "50")},
	)
	rows := Compute(parties, date(2025, 1, 31))
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Invoices)
	assert.Equal(t, "200", rows[0].Total.String())
	assert.Equal(t, "200", rows[0].Buckets[Current].String())
}

func TestBand_String(t *testing.T) {
	assert.Equal(t, "current", Current.String())
	assert.Equal(t, "90+", Above90.String())
}
