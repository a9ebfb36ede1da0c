package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/auditlog"
	"github.com/cleared-dev/books/internal/recon"
)

const statementCSV = `Date,Narration,Withdrawal,Deposit,Ref
06/01/2025,NEFT ACME TRADERS,,500.00,N123
22/01/2025,CHQ 1042 RENT,200.00,,1042
not a date,junk,1,,
`

func TestReconWorkflow(t *testing.T) {
	dir := sampleBooks(t)
	stmt := filepath.Join(dir, "import", "hdfc-jan.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(stmt), 0o755))
	require.NoError(t, os.WriteFile(stmt, []byte(statementCSV), 0o644))

	out, err := runBooks(t, "recon", "pending", "--books", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "hdfc-jan.csv")

	out, err = runBooks(t, "recon", "import", stmt, "--books", dir,
		"--ledger", "hdfc", "--statement-date", "2025-01-31", "--closing", "300", "--auto")
	require.NoError(t, err)
	assert.Contains(t, out, "2 bank lines imported, 1 skipped")
	assert.Contains(t, out, "Auto-matched 2 pairs")

	sessionID := strings.TrimSuffix(strings.Fields(out)[1], ":")
	require.NotEmpty(t, sessionID)

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "hdfc-jan.csv"))
	require.NoError(t, err, "statement should move to processed")

	out, err = runBooks(t, "recon", "list", "--books", dir)
	require.NoError(t, err)
	assert.Contains(t, out, sessionID)
	assert.Contains(t, out, "in_progress")

	out, err = runBooks(t, "recon", "show", sessionID, "--books", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Add: deposits not yet credited  300.00 (1)")
	assert.Contains(t, out, "Balance as per books            600.00")
	assert.Contains(t, out, "Difference                      0.00")

	out, err = runBooks(t, "recon", "complete", sessionID, "--books", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
	assert.NotContains(t, out, "WARNING")

	store, err := recon.OpenSQLite(filepath.Join(dir, "recon", "sessions.db"))
	require.NoError(t, err)
	sess, err := store.Get(context.Background(), sessionID)
	require.NoError(t, store.Close())
	require.NoError(t, err)

	_, err = runBooks(t, "recon", "toggle", sessionID, sess.Items[0].ID, "--books", dir, "--off")
	assert.ErrorIs(t, err, recon.ErrConflict)

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	var actions []string
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{auditlog.ActionCreate, auditlog.ActionAutoMatch, auditlog.ActionComplete}, actions)
}

func TestReconToggle(t *testing.T) {
	dir := sampleBooks(t)
	stmt := filepath.Join(t.TempDir(), "stmt.csv")
	require.NoError(t, os.WriteFile(stmt, []byte(statementCSV), 0o644))

	out, err := runBooks(t, "recon", "import", stmt, "--books", dir, "--ledger", "hdfc", "--statement-date", "2025-01-31")
	require.NoError(t, err)
	sessionID := strings.TrimSuffix(strings.Fields(out)[1], ":")

	store, err := recon.OpenSQLite(filepath.Join(dir, "recon", "sessions.db"))
	require.NoError(t, err)
	sess, err := store.Get(context.Background(), sessionID)
	require.NoError(t, store.Close())
	require.NoError(t, err)
	item := sess.Items[0].ID

	out, err = runBooks(t, "recon", "toggle", sessionID, item, "--books", dir, "--expected-version", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "reconciled=true (session version 2)")

	_, err = runBooks(t, "recon", "toggle", sessionID, item, "--books", dir, "--expected-version", "1", "--off")
	assert.ErrorIs(t, err, recon.ErrConflict)

	_, err = runBooks(t, "recon", "toggle", sessionID, "missing", "--books", dir)
	assert.ErrorIs(t, err, recon.ErrNotFound)

	out, err = runBooks(t, "recon", "delete", sessionID, "--books", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
}

func TestReconImport_UnknownLedger(t *testing.T) {
	dir := sampleBooks(t)
	stmt := filepath.Join(t.TempDir(), "stmt.csv")
	require.NoError(t, os.WriteFile(stmt, []byte(statementCSV), 0o644))

	_, err := runBooks(t, "recon", "import", stmt, "--books", dir, "--ledger", "sbi", "--statement-date", "2025-01-31")
	require.Error(t, err)
}

func TestReconImport_PeriodFrom(t *testing.T) {
	dir := sampleBooks(t)
	stmt := filepath.Join(t.TempDir(), "stmt.csv")
	require.NoError(t, os.WriteFile(stmt, []byte(statementCSV), 0o644))

	out, err := runBooks(t, "recon", "import", stmt, "--books", dir,
		"--ledger", "hdfc", "--statement-date", "2025-01-31", "--from", "2025-01-21")
	require.NoError(t, err)
	sessionID := strings.TrimSuffix(strings.Fields(out)[1], ":")

	// only the cash deposit of the 25th falls in the period
	out, err = runBooks(t, "recon", "show", sessionID, "--books", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Add: deposits not yet credited  300.00 (1)")

	_, err = runBooks(t, "recon", "import", stmt, "--books", dir,
		"--ledger", "hdfc", "--statement-date", "2025-01-31", "--from", "2025-02-01")
	assert.ErrorContains(t, err, "after --statement-date")
}
