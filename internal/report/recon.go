package report

import (
	"sort"

	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/recon"
)

// ReconciliationReport is a bank reconciliation statement.
type ReconciliationReport struct {
	Session *model.ReconciliationSession
	Summary recon.Summary

	// Outstanding book items, deposits then payments, each by date.
	Deposits []model.ReconciliationItem
	Payments []model.ReconciliationItem
	// Bank lines with no reconciled counterpart in the books.
	Unmatched []model.ReconciliationItem
}

// Reconciliation lays out a session as a reconciliation statement.
func Reconciliation(sess *model.ReconciliationSession) *ReconciliationReport {
	r := &ReconciliationReport{Session: sess, Summary: recon.Summarize(sess)}
	for _, it := range sess.Items {
		if it.IsReconciled {
			continue
		}
		switch {
		case it.Source == model.SourceBank:
			r.Unmatched = append(r.Unmatched, it)
		case it.Side == model.Dr:
			r.Deposits = append(r.Deposits, it)
		default:
			r.Payments = append(r.Payments, it)
		}
	}
	for _, items := range [][]model.ReconciliationItem{r.Deposits, r.Payments, r.Unmatched} {
		sort.SliceStable(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	}
	return r
}
