// Package recon matches bank-statement lines against book entries and
// keeps reconciliation sessions.
package recon

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Mode selects the matching algorithm.
type Mode string

const (
	// ModeGreedy pairs each bank line with the first eligible book entry.
	ModeGreedy Mode = "greedy"
	// ModeBipartite finds a maximum-cardinality pairing over the same edges.
	ModeBipartite Mode = "bipartite"
)

// ParseMode accepts "greedy", "bipartite", or "" (greedy).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeGreedy:
		return ModeGreedy, nil
	case ModeBipartite:
		return ModeBipartite, nil
	}
	return "", fmt.Errorf("unknown match mode %q", s)
}

// Options controls which pairs are eligible.
type Options struct {
	Mode          Mode
	DateTolerance int             // days; 0 means the default of 5
	Epsilon       decimal.Decimal // zero means model.Epsilon
}

// DefaultDateTolerance is the widest date gap, in days, between matched items.
const DefaultDateTolerance = 5

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeGreedy
	}
	if o.DateTolerance <= 0 {
		o.DateTolerance = DefaultDateTolerance
	}
	if o.Epsilon.IsZero() {
		o.Epsilon = model.Epsilon
	}
	return o
}

// Pair is a matched bank item and book item.
type Pair struct {
	BankItemID string
	BookItemID string
}

// eligible reports whether bank and book may be paired: opposite sides,
// amounts within epsilon, dates within the tolerance.
func (o Options) eligible(bank, book model.ReconciliationItem) bool {
	if bank.Side == book.Side {
		return false
	}
	if bank.Amount.Sub(book.Amount).Abs().GreaterThan(o.Epsilon) {
		return false
	}
	gap := bank.Date.Sub(book.Date)
	if gap < 0 {
		gap = -gap
	}
	return gap <= time.Duration(o.DateTolerance)*24*time.Hour
}

// Match pairs the unreconciled bank items with unreconciled book items.
// Items already reconciled are left alone. Pairs are returned in bank
// item order.
func Match(items []model.ReconciliationItem, opts Options) []Pair {
	opts = opts.withDefaults()

	var bank, book []model.ReconciliationItem
	for _, it := range items {
		if it.IsReconciled {
			continue
		}
		switch it.Source {
		case model.SourceBank:
			bank = append(bank, it)
		case model.SourceBook:
			book = append(book, it)
		}
	}

	if opts.Mode == ModeBipartite {
		return matchBipartite(bank, book, opts)
	}
	return matchGreedy(bank, book, opts)
}

// matchGreedy walks bank lines in order and takes the first unmatched book
// entry that is eligible. It never revisits an earlier choice.
func matchGreedy(bank, book []model.ReconciliationItem, opts Options) []Pair {
	used := make([]bool, len(book))
	var pairs []Pair
	for _, b := range bank {
		for j, e := range book {
			if used[j] || !opts.eligible(b, e) {
				continue
			}
			used[j] = true
			pairs = append(pairs, Pair{BankItemID: b.ID, BookItemID: e.ID})
			break
		}
	}
	return pairs
}

// matchBipartite finds a maximum matching with augmenting paths (Kuhn).
// Candidate edges are tried in book order, so on inputs where greedy is
// already maximal the result agrees with it.
func matchBipartite(bank, book []model.ReconciliationItem, opts Options) []Pair {
	adj := make([][]int, len(bank))
	for i, b := range bank {
		for j, e := range book {
			if opts.eligible(b, e) {
				adj[i] = append(adj[i], j)
			}
		}
	}

	owner := make([]int, len(book)) // book index → bank index, -1 if free
	for j := range owner {
		owner[j] = -1
	}

	var try func(i int, seen []bool) bool
	try = func(i int, seen []bool) bool {
		for _, j := range adj[i] {
			if seen[j] {
				continue
			}
			seen[j] = true
			if owner[j] < 0 || try(owner[j], seen) {
				owner[j] = i
				return true
			}
		}
		return false
	}

	for i := range bank {
		try(i, make([]bool, len(book)))
	}

	matched := make([]int, len(bank))
	for i := range matched {
		matched[i] = -1
	}
	for j, i := range owner {
		if i >= 0 {
			matched[i] = j
		}
	}

	var pairs []Pair
	for i, j := range matched {
		if j >= 0 {
			pairs = append(pairs, Pair{BankItemID: bank[i].ID, BookItemID: book[j].ID})
		}
	}
	return pairs
}
