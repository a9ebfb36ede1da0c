package recon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func bankItem(id string, day int, amount string, side model.Side) model.ReconciliationItem {
	return model.ReconciliationItem{ID: id, Source: model.SourceBank, Date: date(2025, 1, day), Amount: dec(amount), Side: side}
}

func bookItem(id string, day int, amount string, side model.Side) model.ReconciliationItem {
	return model.ReconciliationItem{ID: id, Source: model.SourceBook, Date: date(2025, 1, day), Amount: dec(amount), Side: side}
}

func TestMatch_ThreeDaysApart(t *testing.T) {
	pairs := Match([]model.ReconciliationItem{
		bankItem("bank1", 10, "100", model.Cr),
		bookItem("book1", 7, "100", model.Dr),
	}, Options{})
	assert.Equal(t, []Pair{{BankItemID: "bank1", BookItemID: "book1"}}, pairs)
}

func TestMatch_SixDaysApart(t *testing.T) {
	pairs := Match([]model.ReconciliationItem{
		bankItem("bank1", 10, "100", model.Cr),
		bookItem("book1", 4, "100", model.Dr),
	}, Options{})
	assert.Empty(t, pairs)
}

func TestMatch_Rules(t *testing.T) {
	tests := []struct {
		name  string
		book  model.ReconciliationItem
		match bool
	}{
		{"same side", bookItem("b", 10, "100", model.Cr), false},
		{"within epsilon", bookItem("b", 10, "100.01", model.Dr), true},
		{"beyond epsilon", bookItem("b", 10, "100.02", model.Dr), false},
		{"five days later", bookItem("b", 15, "100", model.Dr), true},
		{"exact", bookItem("b", 10, "100", model.Dr), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := Match([]model.ReconciliationItem{bankItem("x", 10, "100", model.Cr), tt.book}, Options{})
			assert.Equal(t, tt.match, len(pairs) == 1)
		})
	}
}

func TestMatch_SkipsReconciled(t *testing.T) {
	done := bookItem("done", 10, "100", model.Dr)
	done.IsReconciled = true
	pairs := Match([]model.ReconciliationItem{
		bankItem("bank1", 10, "100", model.Cr),
		done,
		bookItem("open", 11, "100", model.Dr),
	}, Options{})
	require.Len(t, pairs, 1)
	assert.Equal(t, "open", pairs[0].BookItemID)
}

func TestMatch_GreedyTakesFirstCandidate(t *testing.T) {
	items := []model.ReconciliationItem{
		bankItem("bank1", 10, "100", model.Cr),
		bankItem("bank2", 15, "100", model.Cr),
		bookItem("bookA", 12, "100", model.Dr),
		bookItem("bookB", 6, "100", model.Dr),
	}

	greedy := Match(items, Options{Mode: ModeGreedy})
	assert.Equal(t, []Pair{{BankItemID: "bank1", BookItemID: "bookA"}}, greedy)

	best := Match(items, Options{Mode: ModeBipartite})
	assert.ElementsMatch(t, []Pair{
		{BankItemID: "bank1", BookItemID: "bookB"},
		{BankItemID: "bank2", BookItemID: "bookA"},
	}, best)
}

func TestMatch_BipartiteAgreesWhenGreedyIsMaximal(t *testing.T) {
	items := []model.ReconciliationItem{
		bankItem("w1", 3, "50", model.Dr),
		bankItem("d1", 5, "200", model.Cr),
		bookItem("c1", 2, "50", model.Cr),
		bookItem("c2", 4, "200", model.Dr),
	}
	assert.Equal(t, Match(items, Options{}), Match(items, Options{Mode: ModeBipartite}))
}

func TestMatch_CustomTolerance(t *testing.T) {
	items := []model.ReconciliationItem{
		bankItem("bank1", 10, "100", model.Cr),
		bookItem("book1", 4, "100", model.Dr),
	}
	assert.Len(t, Match(items, Options{DateTolerance: 7}), 1)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeGreedy, m)

	m, err = ParseMode("Bipartite")
	require.NoError(t, err)
	assert.Equal(t, ModeBipartite, m)

	_, err = ParseMode("optimal")
	assert.Error(t, err)
}
