package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/model"
)

func TestSections_Order(t *testing.T) {
	tree, err := Build(nil, sampleLines(), Options{})
	require.NoError(t, err)

	view := tree.Sections([]string{"Capital Account", "Current Assets"})
	var names []string
	for _, s := range view.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Capital Account", "Current Assets", "Indirect Expenses", "Sales Accounts"}, names)
}

func TestSections_Subgroups(t *testing.T) {
	tree, err := Build(nil, sampleLines(), Options{})
	require.NoError(t, err)

	sec, ok := tree.Sections(nil).Section("current assets")
	require.True(t, ok)
	require.Len(t, sec.Ledgers, 1)
	assert.Equal(t, "prepaid", sec.Ledgers[0].LedgerID)

	var labels []string
	total := sec.Ledgers[0].Balance.Amount
	for _, sg := range sec.Subgroups {
		labels = append(labels, sg.Label)
		total = total.Add(sg.TotalDr)
	}
	assert.Equal(t, []string{"Bank Accounts", "Cash-in-Hand", "Sundry Debtors"}, labels)
	assert.True(t, sec.TotalDr.Equal(total))
	assert.Equal(t, "2050", sec.Net(model.Dr).String())
}

func TestSections_NestedLabel(t *testing.T) {
	tree, err := Build(nil, []Line{
		line("fd", "100", model.Dr, "Current Assets", "Deposits", "Fixed Deposits"),
	}, Options{})
	require.NoError(t, err)

	sec, ok := tree.Sections(nil).Section("Current Assets")
	require.True(t, ok)
	require.Len(t, sec.Subgroups, 1)
	assert.Equal(t, "Deposits > Fixed Deposits", sec.Subgroups[0].Label)
}

func TestSections_OmitsEmptySeededGroups(t *testing.T) {
	groups := []model.AccountGroup{
		{ID: "fixed-assets", Name: "Fixed Assets", IsPrimary: true},
		{ID: "current-assets", Name: "Current Assets", IsPrimary: true},
	}
	tree := FromChart(groups)
	require.NoError(t, tree.Add(Line{LedgerID: "cash", GroupID: "current-assets", Balance: model.Balance{Amount: dec("1"), Side: model.Dr}}))

	view := tree.Sections(nil)
	require.Len(t, view.Sections, 1)
	assert.Equal(t, "Current Assets", view.Sections[0].Name)
}

func TestSections_Idempotent(t *testing.T) {
	order := []string{"Capital Account", "Current Assets"}
	a, err := Build(nil, sampleLines(), Options{})
	require.NoError(t, err)
	b, err := Build(nil, sampleLines(), Options{})
	require.NoError(t, err)

	assert.Equal(t, a.Sections(order), b.Sections(order))
	assert.Equal(t, a.Sections(order), a.Sections(order))
}

func TestView_Difference(t *testing.T) {
	tree, err := Build(nil, []Line{
		line("a", "100", model.Dr, "X"),
		line("b", "90", model.Cr, "Y"),
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "10", tree.Sections(nil).Difference().String())
}
