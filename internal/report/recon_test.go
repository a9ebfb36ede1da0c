package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/model"
)

func TestReconciliation(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC) }
	amt := decimal.RequireFromString

	sess := &model.ReconciliationSession{
		ID:               "s1",
		BankLedgerID:     "hdfc",
		StatementClosing: amt("1300"),
		BookBalance:      amt("1100"),
		Items: []model.ReconciliationItem{
			{ID: "b1", Source: model.SourceBook, Date: d(20), Amount: amt("200"), Side: model.Cr},
			{ID: "b2", Source: model.SourceBook, Date: d(5), Amount: amt("500"), Side: model.Dr, IsReconciled: true},
			{ID: "b3", Source: model.SourceBook, Date: d(29), Amount: amt("100"), Side: model.Dr},
			{ID: "b4", Source: model.SourceBook, Date: d(10), Amount: amt("50"), Side: model.Cr},
			{ID: "k1", Source: model.SourceBank, Date: d(6), Amount: amt("500"), Side: model.Dr, IsReconciled: true},
			{ID: "k2", Source: model.SourceBank, Date: d(28), Amount: amt("15"), Side: model.Cr},
		},
	}

	r := Reconciliation(sess)
	require.Len(t, r.Deposits, 1)
	assert.Equal(t, "b3", r.Deposits[0].ID)
	require.Len(t, r.Payments, 2)
	assert.Equal(t, "b4", r.Payments[0].ID)
	assert.Equal(t, "b1", r.Payments[1].ID)
	require.Len(t, r.Unmatched, 1)
	assert.Equal(t, "k2", r.Unmatched[0].ID)

	assert.Equal(t, 2, r.Summary.ReconciledCount)
	assert.Equal(t, "250", r.Summary.UnreconciledCredits.String())
	assert.Equal(t, "100", r.Summary.UnreconciledDebits.String())
}

func TestWarn(t *testing.T) {
	assert.Nil(t, warn(CheckTrialBalance, decimal.RequireFromString("0.01")))
	w := warn(CheckBalanceSheet, decimal.RequireFromString("0.02"))
	require.NotNil(t, w)
	assert.Equal(t, "balance sheet does not agree: difference 0.02", w.String())
}

func TestBalanceSheetDifference(t *testing.T) {
	amt := decimal.RequireFromString
	assert.True(t, BalanceSheetDifference(amt("980"), amt("1180"), amt("-200")).IsZero())
	assert.Equal(t, "5", BalanceSheetDifference(amt("985"), amt("1180"), amt("-200")).String())
}
