package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType names the kind of transaction a voucher records.
type VoucherType string

const (
	VoucherJournal  VoucherType = "Journal"
	VoucherPayment  VoucherType = "Payment"
	VoucherReceipt  VoucherType = "Receipt"
	VoucherContra   VoucherType = "Contra"
	VoucherSales    VoucherType = "Sales"
	VoucherPurchase VoucherType = "Purchase"
)

// VoucherEntry is one leg of a voucher.
type VoucherEntry struct {
	EntryID     string // "2025-01-001a" style; voucher number plus leg suffix
	VoucherID   string
	LedgerID    string
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
	Date        time.Time
	VoucherType VoucherType
	Narration   string
	Reference   string
}

// Side returns the side carrying the entry's amount.
func (e VoucherEntry) Side() Side {
	if !e.Credit.IsZero() {
		return Cr
	}
	return Dr
}

// Amount returns the non-zero amount of the entry.
func (e VoucherEntry) Amount() decimal.Decimal {
	if !e.Credit.IsZero() {
		return e.Credit
	}
	return e.Debit
}

// Voucher is a posted transaction composed of balanced entries.
type Voucher struct {
	ID        string
	Date      time.Time
	Type      VoucherType
	Narration string
	Reference string
	Entries   []VoucherEntry
}

// Touches reports whether any entry posts to ledgerID.
func (v Voucher) Touches(ledgerID string) bool {
	for _, e := range v.Entries {
		if e.LedgerID == ledgerID {
			return true
		}
	}
	return false
}

// Totals returns the voucher's summed debits and credits.
func (v Voucher) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range v.Entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}
