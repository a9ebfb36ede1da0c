package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a reconciliation session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// ItemSource tells whether a reconciliation item came from the books or the bank.
type ItemSource string

const (
	SourceBook ItemSource = "book"
	SourceBank ItemSource = "bank"
)

// ReconciliationItem is one book entry or bank line under reconciliation.
// Side is expressed from the item's own point of view: a book debit to the
// bank ledger is a deposit, a bank-statement debit is a withdrawal.
type ReconciliationItem struct {
	ID           string
	Source       ItemSource
	Ref          string // book entry ID or bank line reference
	Date         time.Time
	Description  string
	Amount       decimal.Decimal
	Side         Side
	IsReconciled bool
}

// ReconciliationSession is the working state for one statement period.
type ReconciliationSession struct {
	ID               string
	BankLedgerID     string
	StatementDate    time.Time
	StatementOpening decimal.Decimal
	StatementClosing decimal.Decimal
	BookBalance      decimal.Decimal
	Status           SessionStatus
	Version          int64
	Items            []ReconciliationItem
}

// Item returns the item with the given ID.
func (s *ReconciliationSession) Item(id string) (*ReconciliationItem, bool) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i], true
		}
	}
	return nil, false
}
