package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/id"
	"github.com/cleared-dev/books/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// LedgerChecker tests whether a ledger ID exists.
type LedgerChecker interface {
	Exists(id string) bool
}

// ValidateEntries enforces the posting invariants on a set of voucher
// entries. When year is zero the month-scoped checks (4 and 5) are skipped.
func ValidateEntries(entries []model.VoucherEntry, ledgers LedgerChecker, year, month int) []ValidationError {
	var errs []ValidationError

	vouchers := GroupVouchers(entries)

	// Invariant 1: vouchers balance; Invariant 7: legs share one date.
	for _, v := range vouchers {
		debit, credit := v.Totals()
		if !debit.Equal(credit) {
			errs = append(errs, ValidationError{
				Invariant:   1,
				EntryID:     v.ID,
				Description: fmt.Sprintf("debits (%s) != credits (%s)", debit.StringFixed(2), credit.StringFixed(2)),
			})
		}
		for _, e := range v.Entries[1:] {
			if !e.Date.Equal(v.Date) {
				errs = append(errs, ValidationError{
					Invariant:   7,
					EntryID:     e.EntryID,
					Description: fmt.Sprintf("date %s differs from voucher date %s", e.Date.Format(dateFormat), v.Date.Format(dateFormat)),
				})
			}
		}
	}

	hundred := decimal.NewFromInt(100)
	for _, e := range entries {
		// Invariant 2: exactly one positive amount per entry.
		hasDebit := !e.Debit.IsZero()
		hasCredit := !e.Credit.IsZero()
		if hasDebit == hasCredit {
			errs = append(errs, ValidationError{
				Invariant:   2,
				EntryID:     e.EntryID,
				Description: "entry must have exactly one of debit or credit",
			})
		} else if e.Amount().IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   2,
				EntryID:     e.EntryID,
				Description: fmt.Sprintf("negative amount %s", e.Amount()),
			})
		}

		// Invariant 3: known ledger.
		if ledgers != nil && !ledgers.Exists(e.LedgerID) {
			errs = append(errs, ValidationError{
				Invariant:   3,
				EntryID:     e.EntryID,
				Description: fmt.Sprintf("unknown ledger %q", e.LedgerID),
			})
		}

		// Invariant 4: date within month.
		if year != 0 && (e.Date.Year() != year || int(e.Date.Month()) != month) {
			errs = append(errs, ValidationError{
				Invariant:   4,
				EntryID:     e.EntryID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", e.Date.Format(dateFormat), year, month),
			})
		}

		// Invariant 6: no more than 2 decimal places.
		amt := e.Amount()
		if !amt.Mul(hundred).Equal(amt.Mul(hundred).Truncate(0)) {
			errs = append(errs, ValidationError{
				Invariant:   6,
				EntryID:     e.EntryID,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", amt),
			})
		}
	}

	if year == 0 {
		return errs
	}

	// Invariant 5: unique, contiguous sequence numbers 1..N within the month.
	seqOwner := make(map[int]string)
	for _, v := range vouchers {
		_, _, _, seq, err := id.ParseVoucherID(v.ID)
		if err != nil {
			errs = append(errs, ValidationError{
				Invariant:   5,
				EntryID:     v.ID,
				Description: fmt.Sprintf("invalid voucher ID: %v", err),
			})
			continue
		}
		if owner, ok := seqOwner[seq]; ok && owner != v.ID {
			errs = append(errs, ValidationError{
				Invariant:   5,
				EntryID:     v.ID,
				Description: fmt.Sprintf("sequence %d already used by %s", seq, owner),
			})
			continue
		}
		seqOwner[seq] = v.ID
	}
	for i := 1; i <= len(seqOwner); i++ {
		if _, ok := seqOwner[i]; !ok {
			errs = append(errs, ValidationError{
				Invariant:   5,
				EntryID:     fmt.Sprintf("seq %d", i),
				Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqOwner)),
			})
		}
	}

	return errs
}
