package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Replay returns the closing balance of acct as on asOn (inclusive; zero
// means every entry).
func Replay(acct model.LedgerAccount, vouchers []model.Voucher, asOn time.Time) model.Balance {
	balance := acct.OpeningSigned()
	for _, v := range vouchers {
		for _, e := range v.Entries {
			if e.LedgerID != acct.ID || after(entryDate(e, v), asOn) {
				continue
			}
			balance = balance.Add(e.Debit).Sub(e.Credit)
		}
	}
	return model.BalanceOf(balance)
}

// ReplayAll returns a copy of ledgers with CurrentBalance set to the
// balance as on asOn, in a single pass over the vouchers.
func ReplayAll(ledgers []model.LedgerAccount, vouchers []model.Voucher, asOn time.Time) []model.LedgerAccount {
	movement := make(map[string]decimal.Decimal, len(ledgers))
	for _, v := range vouchers {
		for _, e := range v.Entries {
			if after(entryDate(e, v), asOn) {
				continue
			}
			movement[e.LedgerID] = movement[e.LedgerID].Add(e.Debit).Sub(e.Credit)
		}
	}

	out := make([]model.LedgerAccount, len(ledgers))
	for i, l := range ledgers {
		l.CurrentBalance = l.OpeningSigned().Add(movement[l.ID])
		out[i] = l
	}
	return out
}

// Movement returns each ledger's debit-minus-credit total for entries dated
// within [from, to]; opening balances are not included.
func Movement(vouchers []model.Voucher, from, to time.Time) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, v := range vouchers {
		for _, e := range v.Entries {
			d := entryDate(e, v)
			if (!from.IsZero() && d.Before(from)) || after(d, to) {
				continue
			}
			out[e.LedgerID] = out[e.LedgerID].Add(e.Debit).Sub(e.Credit)
		}
	}
	return out
}

func entryDate(e model.VoucherEntry, v model.Voucher) time.Time {
	if e.Date.IsZero() {
		return v.Date
	}
	return e.Date
}

func after(d, limit time.Time) bool {
	return !limit.IsZero() && d.After(limit)
}
