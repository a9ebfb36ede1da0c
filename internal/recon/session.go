package recon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// SessionParams describes a new reconciliation session.
type SessionParams struct {
	BankLedgerID     string
	StatementDate    time.Time
	StatementOpening decimal.Decimal
	StatementClosing decimal.Decimal
	BookBalance      decimal.Decimal // Dr-positive book balance of the bank ledger on StatementDate
	BookEntries      []model.VoucherEntry
	BankLines        []model.BankLine

	// PeriodFrom is the first day of the statement period. Book entries
	// dated earlier are left out unless listed in Outstanding.
	PeriodFrom time.Time
	// Cleared holds book entry IDs reconciled in earlier completed sessions.
	Cleared map[string]bool
	// Outstanding holds book entry IDs the previous session left uncleared.
	Outstanding map[string]bool
}

// NewSession builds an in-progress session. Book items are the bank
// ledger's entries in the statement period (PeriodFrom through the
// statement date) plus outstanding entries carried from the previous
// session, minus anything already cleared. Bank items are the imported
// lines. Every item gets a fresh UUID.
func NewSession(p SessionParams) (*model.ReconciliationSession, error) {
	if p.BankLedgerID == "" {
		return nil, fmt.Errorf("bank ledger is required")
	}
	if p.StatementDate.IsZero() {
		return nil, fmt.Errorf("statement date is required")
	}

	s := &model.ReconciliationSession{
		ID:               uuid.NewString(),
		BankLedgerID:     p.BankLedgerID,
		StatementDate:    p.StatementDate,
		StatementOpening: p.StatementOpening,
		StatementClosing: p.StatementClosing,
		BookBalance:      p.BookBalance,
		Status:           model.SessionInProgress,
		Version:          1,
	}

	for _, e := range p.BookEntries {
		if e.LedgerID != p.BankLedgerID || e.Date.After(p.StatementDate) || p.Cleared[e.EntryID] {
			continue
		}
		if e.Date.Before(p.PeriodFrom) && !p.Outstanding[e.EntryID] {
			continue
		}
		s.Items = append(s.Items, model.ReconciliationItem{
			ID:          uuid.NewString(),
			Source:      model.SourceBook,
			Ref:         e.EntryID,
			Date:        e.Date,
			Description: e.Narration,
			Amount:      e.Amount(),
			Side:        e.Side(),
		})
	}

	for _, l := range p.BankLines {
		ref := l.Reference
		if ref == "" {
			ref = fmt.Sprintf("row %d", l.Row)
		}
		s.Items = append(s.Items, model.ReconciliationItem{
			ID:          uuid.NewString(),
			Source:      model.SourceBank,
			Ref:         ref,
			Date:        l.Date,
			Description: l.Description,
			Amount:      l.Amount(),
			Side:        l.Side(),
		})
	}
	return s, nil
}

// Carry is what earlier completed sessions of one bank ledger hand to the
// next one.
type Carry struct {
	From        time.Time // day after the latest completed statement date
	Cleared     map[string]bool
	Outstanding map[string]bool
}

// Carryover collects the book entries cleared by completed sessions of
// ledgerID and the ones the latest of them left outstanding.
func Carryover(sessions []*model.ReconciliationSession, ledgerID string) Carry {
	c := Carry{Cleared: map[string]bool{}, Outstanding: map[string]bool{}}
	var latest *model.ReconciliationSession
	for _, s := range sessions {
		if s.BankLedgerID != ledgerID || s.Status != model.SessionCompleted {
			continue
		}
		for _, it := range s.Items {
			if it.Source == model.SourceBook && it.IsReconciled {
				c.Cleared[it.Ref] = true
			}
		}
		if latest == nil || s.StatementDate.After(latest.StatementDate) {
			latest = s
		}
	}
	if latest == nil {
		return c
	}
	c.From = latest.StatementDate.AddDate(0, 0, 1)
	for _, it := range latest.Items {
		if it.Source == model.SourceBook && !it.IsReconciled && !c.Cleared[it.Ref] {
			c.Outstanding[it.Ref] = true
		}
	}
	return c
}

// Apply fills the carried state into p. A PeriodFrom already set by the
// caller is kept.
func (c Carry) Apply(p SessionParams) SessionParams {
	if p.PeriodFrom.IsZero() {
		p.PeriodFrom = c.From
	}
	p.Cleared = union(p.Cleared, c.Cleared)
	p.Outstanding = union(p.Outstanding, c.Outstanding)
	return p
}

func union(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Summary is the bookkeeping view of a session.
type Summary struct {
	ReconciledAmount    decimal.Decimal
	ReconciledCount     int
	UnreconciledDebits  decimal.Decimal // book deposits not yet on the statement
	UnreconciledCredits decimal.Decimal // book payments not yet on the statement
	UnmatchedBank       int
	AdjustedBookBalance decimal.Decimal
	Difference          decimal.Decimal // AdjustedBookBalance − BookBalance
}

// Balanced reports whether the adjusted balance agrees with the books
// within model.Epsilon.
func (s Summary) Balanced() bool {
	return s.Difference.Abs().LessThan(model.Epsilon)
}

// Summarize computes
//
//	adjustedBookBalance = statementClosing − unreconciledCredits + unreconciledDebits
//
// over the session's book items, and the sum of every reconciled item.
func Summarize(s *model.ReconciliationSession) Summary {
	sum := Summary{
		ReconciledAmount:    decimal.Zero,
		UnreconciledDebits:  decimal.Zero,
		UnreconciledCredits: decimal.Zero,
	}
	for _, it := range s.Items {
		switch {
		case it.IsReconciled:
			sum.ReconciledAmount = sum.ReconciledAmount.Add(it.Amount)
			sum.ReconciledCount++
		case it.Source == model.SourceBank:
			sum.UnmatchedBank++
		case it.Side == model.Cr:
			sum.UnreconciledCredits = sum.UnreconciledCredits.Add(it.Amount)
		default:
			sum.UnreconciledDebits = sum.UnreconciledDebits.Add(it.Amount)
		}
	}
	sum.AdjustedBookBalance = s.StatementClosing.Sub(sum.UnreconciledCredits).Add(sum.UnreconciledDebits)
	sum.Difference = sum.AdjustedBookBalance.Sub(s.BookBalance)
	return sum
}
