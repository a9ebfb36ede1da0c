package classify

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over rules, or DefaultRules when none are given.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Bucket classifies one ledger and names the rule that decided it.
func (c *Classifier) Bucket(l model.LedgerAccount) (Bucket, Rule) {
	for _, r := range c.rules {
		if b, ok := r.Match(l); ok {
			return b, r
		}
	}
	return Asset, DefaultRule{Bucket: Asset}
}

// Result is the classification of a ledger list.
type Result struct {
	Buckets map[string]Bucket // ledger ID → bucket
	Ledgers map[Bucket][]model.LedgerAccount

	// Totals on each bucket's natural side: income and liabilities are
	// Cr − Dr, expenses and assets Dr − Cr.
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
}

// NetProfit is TotalIncome − TotalExpense; negative is a loss.
func (r Result) NetProfit() decimal.Decimal {
	return r.TotalIncome.Sub(r.TotalExpense)
}

// Classify buckets every ledger with a balance of at least model.Epsilon
// using its CurrentBalance.
func (c *Classifier) Classify(ledgers []model.LedgerAccount) Result {
	res := Result{
		Buckets:          make(map[string]Bucket),
		Ledgers:          make(map[Bucket][]model.LedgerAccount),
		TotalIncome:      decimal.Zero,
		TotalExpense:     decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}
	for _, l := range ledgers {
		if l.Current().IsZero() {
			continue
		}
		b, _ := c.Bucket(l)
		res.Buckets[l.ID] = b
		res.Ledgers[b] = append(res.Ledgers[b], l)

		switch b {
		case Income:
			res.TotalIncome = res.TotalIncome.Sub(l.CurrentBalance)
		case Expense:
			res.TotalExpense = res.TotalExpense.Add(l.CurrentBalance)
		case Liability:
			res.TotalLiabilities = res.TotalLiabilities.Sub(l.CurrentBalance)
		default:
			res.TotalAssets = res.TotalAssets.Add(l.CurrentBalance)
		}
	}
	return res
}

// Classify runs the default classifier.
func Classify(ledgers []model.LedgerAccount) Result {
	return New().Classify(ledgers)
}
