package report

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/books/internal/source"
)

// Period is an inclusive date range; a zero bound is open.
type Period struct {
	From time.Time
	To   time.Time
}

// Set is every statement for one snapshot.
type Set struct {
	TrialBalance *TrialBalanceReport
	ProfitLoss   *ProfitLossReport
	BalanceSheet *BalanceSheetReport
	Ageing       *AgeingReport
}

// Warnings collects the cross-check warnings of the set.
func (s *Set) Warnings() []Warning {
	var out []Warning
	for _, w := range []*Warning{s.TrialBalance.Warning, s.BalanceSheet.Warning} {
		if w != nil {
			out = append(out, *w)
		}
	}
	return out
}

// Bundle builds all statements concurrently from one snapshot. The
// balance sheet, trial balance and ageing are as on p.To; profit and loss
// covers p. The snapshot is only read.
func Bundle(ctx context.Context, snap *source.Snapshot, p Period, opts Options) (*Set, error) {
	g, ctx := errgroup.WithContext(ctx)
	set := &Set{}

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := TrialBalance(snap, p.To, opts)
		set.TrialBalance = r
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := ProfitLoss(snap, p.From, p.To, opts)
		set.ProfitLoss = r
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := BalanceSheet(snap, p.To, opts)
		set.BalanceSheet = r
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		set.Ageing = Ageing(snap, p.To)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}
