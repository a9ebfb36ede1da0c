// Package sourcetest writes a small, balanced books directory for tests.
//
// Closing balances of the sample books:
//
//	cash     700 Dr   Cash-in-Hand
//	hdfc     600 Dr   Bank Accounts
//	acme     680 Dr   Sundry Debtors
//	globex     0      Sundry Debtors
//	capital 1000 Cr   Capital Account
//	gst      180 Cr   Duties & Taxes
//	sales   1000 Cr   Sales Accounts
//	rent     200 Dr   Indirect Expenses
package sourcetest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/invoices"
	"github.com/cleared-dev/books/internal/journal"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/source"
)

// Date is a UTC calendar date.
func Date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// Dec parses a decimal literal.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Ledgers returns the sample ledgers.
func Ledgers() []model.LedgerAccount {
	l := func(id, name, group string, nature model.Side, opening string, at model.AccountType) model.LedgerAccount {
		return model.LedgerAccount{
			ID: id, Name: name, GroupID: group, Nature: nature,
			OpeningBalance: Dec(opening), OpeningType: nature, AccountType: at,
		}
	}
	return []model.LedgerAccount{
		l("cash", "Cash", "cash-in-hand", model.Dr, "1000", model.AccountTypeCash),
		l("hdfc", "HDFC Bank", "bank-accounts", model.Dr, "0", model.AccountTypeBank),
		l("acme", "Acme Traders", "sundry-debtors", model.Dr, "0", model.AccountTypeDebtor),
		l("globex", "Globex Ltd", "sundry-debtors", model.Dr, "0", model.AccountTypeDebtor),
		l("capital", "Owner's Capital", "capital", model.Cr, "1000", model.AccountTypeCapital),
		l("gst", "GST Output", "duties-taxes", model.Cr, "0", ""),
		l("sales", "Sales", "sales", model.Cr, "0", model.AccountTypeIncome),
		l("rent", "Office Rent", "indirect-expenses", model.Dr, "0", ""),
	}
}

func line(ledgerID, debit, credit string) journal.Line {
	ln := journal.Line{LedgerID: ledgerID}
	if debit != "" {
		ln.Debit = Dec(debit)
	}
	if credit != "" {
		ln.Credit = Dec(credit)
	}
	return ln
}

// Postings returns the sample vouchers in posting order.
func Postings() []journal.PostParams {
	return []journal.PostParams{
		{
			Date: Date(2025, 1, 2), Type: model.VoucherSales, Narration: "INV-001 consulting", Reference: "INV-001",
			Lines: []journal.Line{line("acme", "1180", ""), line("sales", "", "1000"), line("gst", "", "180")},
		},
		{
			Date: Date(2025, 1, 5), Type: model.VoucherReceipt, Narration: "Acme part payment", Reference: "N123",
			Lines: []journal.Line{line("hdfc", "500", ""), line("acme", "", "500")},
		},
		{
			Date: Date(2025, 1, 20), Type: model.VoucherPayment, Narration: "January rent", Reference: "1042",
			Lines: []journal.Line{line("rent", "200", ""), line("hdfc", "", "200")},
		},
		{
			Date: Date(2025, 1, 25), Type: model.VoucherContra, Narration: "Cash deposited",
			Lines: []journal.Line{line("hdfc", "300", ""), line("cash", "", "300")},
		},
	}
}

// Invoices returns the sample invoices.
func Invoices() []model.Invoice {
	return []model.Invoice{
		{ID: "INV-001", ClientID: "acme", Date: Date(2025, 1, 2), Total: Dec("1180"), AmountPaid: Dec("500")},
	}
}

// WriteBooks writes the sample books, config included, into root.
func WriteBooks(t testing.TB, root string) {
	t.Helper()

	accts, err := accounts.NewService(accounts.DefaultGroups(), Ledgers())
	require.NoError(t, err)
	require.NoError(t, accts.Save(root))

	svc := journal.NewService(root, accts)
	for _, p := range Postings() {
		_, err := svc.Post(p)
		require.NoError(t, err)
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(invoices.Path(root)), 0o755))
	f, err := os.Create(invoices.Path(root))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, invoices.WriteInvoices(f, Invoices()))

	cfg := config.Default("Sample Books", "proprietorship")
	cfg.BankAccounts = []config.BankAccount{{Name: "HDFC Current", LedgerID: "hdfc", Format: "generic"}}
	require.NoError(t, config.Save(filepath.Join(root, config.FileName), cfg))
}

// Snapshot writes the sample books to a temp dir and fetches them.
func Snapshot(t testing.TB) *source.Snapshot {
	t.Helper()
	root := t.TempDir()
	WriteBooks(t, root)
	snap, err := source.NewDir(root).Fetch(context.Background())
	require.NoError(t, err)
	return snap
}
