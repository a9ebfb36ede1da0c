// Package ledger derives running balances for a single ledger from the
// vouchers that post to it.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

const (
	// OpeningLabel is the particulars text of the synthetic first row.
	OpeningLabel = "Opening Balance"
	// MultipleLabel replaces the counter-party when several ledgers are involved.
	MultipleLabel = "Multiple Accounts"
)

// Row is one line of a ledger statement.
type Row struct {
	Date        time.Time
	VoucherID   string
	VoucherType model.VoucherType
	Particulars string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     model.Balance
	Opening     bool
}

// Statement is the chronological running-balance view of one ledger.
type Statement struct {
	Ledger model.LedgerAccount
	From   time.Time
	To     time.Time
	Rows   []Row
}

// HasActivity reports whether any entry fell inside the period.
func (s Statement) HasActivity() bool {
	return len(s.Rows) > 1
}

// Closing returns the balance on the last row.
func (s Statement) Closing() model.Balance {
	if len(s.Rows) == 0 {
		return model.BalanceOf(s.Ledger.OpeningSigned())
	}
	return s.Rows[len(s.Rows)-1].Balance
}

// Totals returns the summed debits and credits of the period rows.
func (s Statement) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, r := range s.Rows {
		if r.Opening {
			continue
		}
		debit = debit.Add(r.Debit)
		credit = credit.Add(r.Credit)
	}
	return debit, credit
}

type posting struct {
	entry   model.VoucherEntry
	voucher *model.Voucher
}

// Compute builds the statement of acct over the inclusive range [from, to].
// Entries dated before from are folded into the opening row; entries after
// to are ignored. A zero from or to leaves that end unbounded. names maps
// ledger IDs to display names for the counter-party column.
func Compute(acct model.LedgerAccount, vouchers []model.Voucher, names map[string]string, from, to time.Time) Statement {
	postings := collect(acct.ID, vouchers)

	balance := acct.OpeningSigned()
	i := 0
	for ; i < len(postings) && !from.IsZero() && postings[i].entry.Date.Before(from); i++ {
		balance = balance.Add(postings[i].entry.Debit).Sub(postings[i].entry.Credit)
	}

	stmt := Statement{Ledger: acct, From: from, To: to}
	stmt.Rows = append(stmt.Rows, Row{
		Date:        from,
		Particulars: OpeningLabel,
		Balance:     model.BalanceOf(balance),
		Opening:     true,
	})

	for ; i < len(postings); i++ {
		p := postings[i]
		if !to.IsZero() && p.entry.Date.After(to) {
			break
		}
		balance = balance.Add(p.entry.Debit).Sub(p.entry.Credit)
		stmt.Rows = append(stmt.Rows, Row{
			Date:        p.entry.Date,
			VoucherID:   p.voucher.ID,
			VoucherType: p.voucher.Type,
			Particulars: counterParty(acct.ID, p.voucher, names),
			Debit:       p.entry.Debit,
			Credit:      p.entry.Credit,
			Balance:     model.BalanceOf(balance),
		})
	}
	return stmt
}

// collect returns the entries posting to ledgerID, stably ordered by date.
func collect(ledgerID string, vouchers []model.Voucher) []posting {
	var out []posting
	for vi := range vouchers {
		v := &vouchers[vi]
		for _, e := range v.Entries {
			if e.LedgerID != ledgerID {
				continue
			}
			if e.Date.IsZero() {
				e.Date = v.Date
			}
			out = append(out, posting{entry: e, voucher: v})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].entry.Date.Before(out[b].entry.Date)
	})
	return out
}

// counterParty names the other side of a voucher: the single other ledger,
// MultipleLabel when there are several, else the narration. Other entries
// are counted by distinct ledger, so a voucher splitting one counter ledger
// over several lines still shows that ledger's name.
func counterParty(ledgerID string, v *model.Voucher, names map[string]string) string {
	var others []string
	seen := make(map[string]bool)
	for _, e := range v.Entries {
		if e.LedgerID == ledgerID || seen[e.LedgerID] {
			continue
		}
		seen[e.LedgerID] = true
		others = append(others, e.LedgerID)
	}

	switch len(others) {
	case 0:
		return v.Narration
	case 1:
		if name, ok := names[others[0]]; ok && name != "" {
			return name
		}
		return others[0]
	default:
		return MultipleLabel
	}
}
