package report_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/ageing"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/report"
	"github.com/cleared-dev/books/internal/source"
	"github.com/cleared-dev/books/internal/source/sourcetest"
)

var (
	date = sourcetest.Date
	dec  = sourcetest.Dec
)

func TestTrialBalance(t *testing.T) {
	snap := sourcetest.Snapshot(t)

	tb, err := report.TrialBalance(snap, date(2025, 1, 31), report.Options{})
	require.NoError(t, err)

	assert.Equal(t, "2180.00", tb.TotalDebit.StringFixed(2))
	assert.Equal(t, "2180.00", tb.TotalCredit.StringFixed(2))
	assert.True(t, tb.Difference.IsZero())
	assert.Nil(t, tb.Warning)

	var ids []string
	for _, r := range tb.Rows {
		ids = append(ids, r.LedgerID)
	}
	assert.Equal(t, []string{"capital", "gst", "hdfc", "cash", "acme", "sales", "rent"}, ids)

	hdfc := tb.Rows[2]
	assert.Equal(t, "Current Assets > Bank Accounts", hdfc.Group)
	assert.Equal(t, "600", hdfc.Debit.String())
	assert.True(t, hdfc.Credit.IsZero())
}

func TestTrialBalance_ShowZero(t *testing.T) {
	snap := sourcetest.Snapshot(t)

	tb, err := report.TrialBalance(snap, date(2025, 1, 31), report.Options{ShowZero: true})
	require.NoError(t, err)
	assert.Len(t, tb.Rows, 8)
}

func TestTrialBalance_AsOn(t *testing.T) {
	snap := sourcetest.Snapshot(t)

	// only openings and the sales voucher
	tb, err := report.TrialBalance(snap, date(2025, 1, 3), report.Options{})
	require.NoError(t, err)
	assert.Equal(t, "2180.00", tb.TotalDebit.StringFixed(2))

	sec, ok := tb.View.Section("Current Assets")
	require.True(t, ok)
	assert.Equal(t, "2180", sec.Net(model.Dr).String())
}

func TestTrialBalance_Unbalanced(t *testing.T) {
	base := sourcetest.Snapshot(t)
	ledgers := append([]model.LedgerAccount(nil), base.Ledgers...)
	for i := range ledgers {
		if ledgers[i].ID == "cash" {
			ledgers[i].OpeningBalance = dec("1000.50")
		}
	}
	snap := source.NewSnapshot(base.Groups, ledgers, base.Vouchers, base.Invoices)

	tb, err := report.TrialBalance(snap, date(2025, 1, 31), report.Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.5", tb.Difference.String())
	require.NotNil(t, tb.Warning)
	assert.Equal(t, report.CheckTrialBalance, tb.Warning.Check)
	assert.Contains(t, tb.Warning.String(), "0.50")
}

func TestProfitLoss(t *testing.T) {
	snap := sourcetest.Snapshot(t)

	pl, err := report.ProfitLoss(snap, date(2025, 1, 1), date(2025, 1, 31), report.Options{})
	require.NoError(t, err)

	assert.Equal(t, "1000", pl.Income.Total.String())
	assert.Equal(t, "200", pl.Expense.Total.String())
	assert.Equal(t, "800", pl.NetProfit.String())
	assert.False(t, pl.IsLoss())

	sec, ok := pl.Income.View.Section("Sales Accounts")
	require.True(t, ok)
	require.Len(t, sec.Ledgers, 1)
	assert.Equal(t, "sales", sec.Ledgers[0].LedgerID)

	_, ok = pl.Expense.View.Section("Indirect Expenses")
	assert.True(t, ok)
}

func TestProfitLoss_EmptyPeriod(t *testing.T) {
	snap := sourcetest.Snapshot(t)

	pl, err := report.ProfitLoss(snap, date(2025, 2, 1), date(2025, 2, 28), report.Options{})
	require.NoError(t, err)
	assert.True(t, pl.NetProfit.IsZero())
	assert.Empty(t, pl.Income.View.Sections)
}

func TestBalanceSheet(t *testing.T) {
	snap := sourcetest.Snapshot(t)

	bs, err := report.BalanceSheet(snap, date(2025, 1, 31), report.Options{})
	require.NoError(t, err)

	assert.Equal(t, "1980", bs.Assets.Total.String())
	assert.Equal(t, "1180", bs.Liabilities.Total.String())
	assert.Equal(t, "800", bs.ProfitLoss.String())
	assert.Equal(t, "1980", bs.LiabilitiesTotal.String())
	assert.True(t, bs.Difference.IsZero())
	assert.Nil(t, bs.Warning)

	var names []string
	for _, s := range bs.Liabilities.View.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Capital Account", "Current Liabilities"}, names)
}

func TestBalanceSheet_LossStillOnLiabilitySide(t *testing.T) {
	base := sourcetest.Snapshot(t)
	vouchers := append([]model.Voucher(nil), base.Vouchers...)
	vouchers = append(vouchers, model.Voucher{
		ID: "PV-2025-01-099", Date: date(2025, 1, 30), Type: model.VoucherPayment,
		Entries: []model.VoucherEntry{
			{EntryID: "PV-2025-01-099a", VoucherID: "PV-2025-01-099", LedgerID: "rent", Debit: dec("1000"), Credit: dec("0"), Date: date(2025, 1, 30)},
			{EntryID: "PV-2025-01-099b", VoucherID: "PV-2025-01-099", LedgerID: "cash", Debit: dec("0"), Credit: dec("1000"), Date: date(2025, 1, 30)},
		},
	})
	snap := source.NewSnapshot(base.Groups, base.Ledgers, vouchers, base.Invoices)

	bs, err := report.BalanceSheet(snap, date(2025, 1, 31), report.Options{})
	require.NoError(t, err)

	assert.Equal(t, "-200", bs.NetProfit.String())
	assert.Equal(t, "200", bs.ProfitLoss.String())
	// cash is 300 Cr now but its account type keeps it on the asset side
	assert.Equal(t, "980", bs.Assets.Total.String())
	assert.Equal(t, "1380", bs.LiabilitiesTotal.String())
	assert.True(t, bs.Difference.IsZero())
}

func TestLedgerStatement(t *testing.T) {
	snap := sourcetest.Snapshot(t)

	stmt, err := report.LedgerStatement(snap, "hdfc", date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	require.Len(t, stmt.Rows, 4)
	assert.Equal(t, "Acme Traders", stmt.Rows[1].Particulars)
	assert.Equal(t, "600.00 Dr", stmt.Closing().String())

	_, err = report.LedgerStatement(snap, "nope", date(2025, 1, 1), date(2025, 1, 31))
	assert.ErrorIs(t, err, report.ErrUnknownLedger)
}

func TestAgeing(t *testing.T) {
	snap := sourcetest.Snapshot(t)

	a := report.Ageing(snap, date(2025, 1, 31))
	require.Len(t, a.Rows, 1)
	assert.Equal(t, "acme", a.Rows[0].LedgerID)
	assert.Equal(t, "680", a.Rows[0].Buckets[ageing.Days30].String())
	assert.Equal(t, "680", a.Totals.Total().String())

	later := report.Ageing(snap, date(2025, 4, 15))
	require.Len(t, later.Rows, 1)
	assert.Equal(t, "680", later.Rows[0].Buckets[ageing.Above90].String())
}

func TestBundle(t *testing.T) {
	snap := sourcetest.Snapshot(t)

	set, err := report.Bundle(context.Background(), snap, report.Period{To: date(2025, 1, 31)}, report.Options{})
	require.NoError(t, err)

	assert.Equal(t, "800", set.ProfitLoss.NetProfit.String())
	assert.Equal(t, set.ProfitLoss.NetProfit.String(), set.BalanceSheet.NetProfit.String())
	assert.Equal(t, "2180", set.TrialBalance.TotalDebit.String())
	assert.Len(t, set.Ageing.Rows, 1)
	assert.Empty(t, set.Warnings())
}

func TestBundle_Cancelled(t *testing.T) {
	snap := sourcetest.Snapshot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := report.Bundle(ctx, snap, report.Period{}, report.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
