package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a sales invoice raised against a client ledger.
type Invoice struct {
	ID         string
	ClientID   string
	Date       time.Time
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	BalanceDue *decimal.Decimal // nil = derive from Total - AmountPaid
}

// Outstanding returns BalanceDue when supplied, otherwise Total - AmountPaid.
func (inv Invoice) Outstanding() decimal.Decimal {
	if inv.BalanceDue != nil {
		return *inv.BalanceDue
	}
	return inv.Total.Sub(inv.AmountPaid)
}
