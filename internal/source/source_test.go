package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/source"
	"github.com/cleared-dev/books/internal/source/sourcetest"
)

func TestDir_Fetch(t *testing.T) {
	snap := sourcetest.Snapshot(t)

	assert.Len(t, snap.Ledgers, len(sourcetest.Ledgers()))
	require.Len(t, snap.Vouchers, 4)
	assert.Equal(t, "SV-2025-01-001", snap.Vouchers[0].ID)
	assert.Len(t, snap.Vouchers[0].Entries, 3)
	assert.Len(t, snap.Invoices, 1)
	assert.NotEmpty(t, snap.Groups)

	want := map[string]string{
		"cash":    "700.00 Dr",
		"hdfc":    "600.00 Dr",
		"acme":    "680.00 Dr",
		"capital": "1000.00 Cr",
		"gst":     "180.00 Cr",
		"sales":   "1000.00 Cr",
		"rent":    "200.00 Dr",
	}
	for id, w := range want {
		l, ok := snap.Ledger(id)
		require.True(t, ok, id)
		assert.Equal(t, w, l.Current().String(), id)
	}

	acme, _ := snap.Ledger("acme")
	assert.Equal(t, []string{"Current Assets", "Sundry Debtors"}, acme.GroupPath)

	assert.Equal(t, "HDFC Bank", snap.Names()["hdfc"])
	assert.Len(t, snap.Entries(), 9)
}

func TestDir_MissingBooks(t *testing.T) {
	_, err := source.NewDir(filepath.Join(t.TempDir(), "nope")).Fetch(context.Background())
	require.Error(t, err)

	var fe *source.DataFetchError
	require.True(t, errors.As(err, &fe))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDir_UnbalancedVoucher(t *testing.T) {
	root := t.TempDir()
	sourcetest.WriteBooks(t, root)

	path := filepath.Join(root, "vouchers", "2025", "01", "vouchers.csv")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("JV-2025-01-005a,2025-01-31,Journal,cash,10.00,,broken,\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = source.NewDir(root).Fetch(context.Background())
	var fe *source.DataFetchError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), "invalid vouchers")
}

func TestDir_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := source.NewDir(t.TempDir()).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatic(t *testing.T) {
	snap := source.NewSnapshot(nil, []model.LedgerAccount{{
		ID: "cash", OpeningBalance: sourcetest.Dec("5"), OpeningType: model.Dr,
	}}, nil, nil)

	got, err := source.Static{Snapshot: snap}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, got)
	assert.Equal(t, "5", got.Ledgers[0].CurrentBalance.String())

	_, err = source.Static{}.Fetch(context.Background())
	var fe *source.DataFetchError
	assert.ErrorAs(t, err, &fe)
}
