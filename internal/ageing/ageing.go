// Package ageing buckets a party's outstanding invoices by days elapsed.
package ageing

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Band is an ageing bucket.
type Band int

const (
	Current Band = iota
	Days30
	Days60
	Days90
	Above90
)

var bandNames = [...]string{"current", "1-30", "31-60", "61-90", "90+"}

func (b Band) String() string {
	if b < Current || b > Above90 {
		return "unknown"
	}
	return bandNames[b]
}

// BandFor places daysDiff into a band: ≤0 current, ≤30, ≤60, ≤90, else above 90.
func BandFor(daysDiff int) Band {
	switch {
	case daysDiff <= 0:
		return Current
	case daysDiff <= 30:
		return Days30
	case daysDiff <= 60:
		return Days60
	case daysDiff <= 90:
		return Days90
	}
	return Above90
}

// DaysBetween returns floor((asOn − invoiceDate) / 1 day).
func DaysBetween(asOn, invoiceDate time.Time) int {
	return int(math.Floor(asOn.Sub(invoiceDate).Hours() / 24))
}

// Buckets holds the outstanding amount per band.
type Buckets [5]decimal.Decimal

// Total sums every band.
func (b Buckets) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range b {
		sum = sum.Add(v)
	}
	return sum
}

func (b *Buckets) add(band Band, amount decimal.Decimal) {
	b[band] = b[band].Add(amount)
}

// Party is a receivable ledger with its invoices.
type Party struct {
	LedgerID string
	Name     string
	Balance  decimal.Decimal // ledger outstanding, used when there are no invoices
	Invoices []model.Invoice
}

// Row is one party's ageing line.
type Row struct {
	LedgerID string
	Name     string
	Buckets  Buckets
	Total    decimal.Decimal
	Invoices int
}

// Compute ages every party as on asOn. A party with no invoices has its
// whole ledger balance in the current band. Parties whose total is below
// model.Epsilon are dropped. Rows are sorted by total descending, ties in
// input order.
func Compute(parties []Party, asOn time.Time) []Row {
	rows := make([]Row, 0, len(parties))
	for _, p := range parties {
		row := Row{LedgerID: p.LedgerID, Name: p.Name, Invoices: len(p.Invoices)}
		for i := range row.Buckets {
			row.Buckets[i] = decimal.Zero
		}

		if len(p.Invoices) == 0 {
			row.Buckets.add(Current, p.Balance)
		}
		for _, inv := range p.Invoices {
			row.Buckets.add(BandFor(DaysBetween(asOn, inv.Date)), inv.Outstanding())
		}

		row.Total = row.Buckets.Total()
		if row.Total.LessThan(model.Epsilon) {
			continue
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.GreaterThan(rows[j].Total)
	})
	return rows
}

// Totals sums the bands across rows.
func Totals(rows []Row) Buckets {
	var sum Buckets
	for i := range sum {
		sum[i] = decimal.Zero
	}
	for _, r := range rows {
		for i, v := range r.Buckets {
			sum[i] = sum[i].Add(v)
		}
	}
	return sum
}

// PartiesFrom joins ledgers with invoices by client ID. Every invoice is
// kept; one dated after the ageing date lands in the current band.
func PartiesFrom(ledgers []model.LedgerAccount, invoices []model.Invoice) []Party {
	byClient := make(map[string][]model.Invoice)
	for _, inv := range invoices {
		byClient[inv.ClientID] = append(byClient[inv.ClientID], inv)
	}

	parties := make([]Party, 0, len(ledgers))
	for _, l := range ledgers {
		parties = append(parties, Party{
			LedgerID: l.ID,
			Name:     l.Name,
			Balance:  l.CurrentBalance,
			Invoices: byClient[l.ID],
		})
	}
	return parties
}
