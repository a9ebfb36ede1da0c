package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankLine is one parsed bank-statement row. Debit is money leaving the
// account (withdrawal), Credit is money coming in (deposit).
type BankLine struct {
	Row         int // 1-based line in the source file
	Date        time.Time
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Reference   string
}

// Side returns the statement side of the line.
func (b BankLine) Side() Side {
	if !b.Credit.IsZero() {
		return Cr
	}
	return Dr
}

// Amount returns the non-zero amount of the line.
func (b BankLine) Amount() decimal.Decimal {
	if !b.Credit.IsZero() {
		return b.Credit
	}
	return b.Debit
}
