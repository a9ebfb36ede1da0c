package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/model"
)

func TestDefaultChartIsValid(t *testing.T) {
	chart, err := NewChart(DefaultGroups())
	require.NoError(t, err)

	path, err := chart.Path("sundry-debtors")
	require.NoError(t, err)
	assert.Equal(t, []string{GroupCurrentAssets, GroupSundryDebtors}, path)

	primary, ok := chart.Primary("bank-od")
	require.True(t, ok)
	assert.Equal(t, GroupLoansLiab, primary.Name)

	assert.Len(t, chart.Children("current-assets"), 6)
}

func TestNewChart_UnknownParent(t *testing.T) {
	_, err := NewChart([]model.AccountGroup{{ID: "a", Name: "A", ParentID: "missing"}})
	assert.ErrorContains(t, err, "unknown parent")
}

func TestNewChart_Cycle(t *testing.T) {
	_, err := NewChart([]model.AccountGroup{
		{ID: "a", Name: "A", ParentID: "b"},
		{ID: "b", Name: "B", ParentID: "a"},
	})
	assert.ErrorContains(t, err, "cycle")
}

func TestNewChart_Duplicate(t *testing.T) {
	_, err := NewChart([]model.AccountGroup{{ID: "a", Name: "A"}, {ID: "a", Name: "A2"}})
	assert.ErrorContains(t, err, "duplicate group")
}

func TestNewService_ResolvesPaths(t *testing.T) {
	svc, err := NewService(DefaultGroups(), DefaultLedgers())
	require.NoError(t, err)

	cash, ok := svc.Ledger("cash")
	require.True(t, ok)
	assert.Equal(t, []string{GroupCurrentAssets, GroupCashInHand}, cash.GroupPath)
	assert.Equal(t, GroupCurrentAssets, cash.PrimaryGroup())

	assert.True(t, svc.Exists("sales"))
	assert.False(t, svc.Exists("nope"))
	assert.Len(t, svc.Ledgers(), len(DefaultLedgers()))
}

func TestNewService_UnknownGroup(t *testing.T) {
	_, err := NewService(DefaultGroups(), []model.LedgerAccount{{ID: "x", GroupID: "nowhere"}})
	assert.ErrorContains(t, err, `ledger "x"`)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(DefaultGroups(), DefaultLedgers())
	require.NoError(t, err)
	require.NoError(t, svc.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, loaded.Chart().Groups(), len(DefaultGroups()))
	assert.Len(t, loaded.Ledgers(), len(DefaultLedgers()))

	sales, ok := loaded.Ledger("sales")
	require.True(t, ok)
	assert.Equal(t, []string{GroupSales}, sales.GroupPath)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "opening groups.csv")
}
