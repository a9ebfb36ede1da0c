package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz", "proprietorship")
	cfg.BankAccounts = []BankAccount{
		{Name: "HDFC Current", LedgerID: "hdfc", Format: "generic", LastFour: "1234"},
	}
	cfg.Reports.ShowZero = true

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company", "proprietorship")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "INR", cfg.Business.Currency)
	assert.Equal(t, "04-01", cfg.Fiscal.YearStart)
	assert.Equal(t, 5, cfg.Reconciliation.DateToleranceDays)
	assert.Equal(t, "greedy", cfg.Reconciliation.Mode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Reports.ShowZero)
	assert.Empty(t, cfg.BankAccounts)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Books", cfg.Git.AuthorName)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Partial\nlog:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Partial", cfg.Business.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Reconciliation.DateToleranceDays)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Biz", "proprietorship")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "year_start: 04-01")
	assert.Contains(t, contents, "date_tolerance_days: 5")
	assert.Contains(t, contents, "store_path: recon/sessions.db")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default("X", "")
	env := map[string]string{
		EnvLogLevel:   "debug",
		EnvServerAddr: "127.0.0.1:9000",
		EnvShowZero:   "true",
	}
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.True(t, cfg.Reports.ShowZero)
	assert.Equal(t, "recon/sessions.db", cfg.Reconciliation.StorePath)

	env[EnvShowZero] = "sometimes"
	assert.Error(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
}

func TestLoadEnv(t *testing.T) {
	const key = "BOOKS_TEST_ONLY_RECON_STORE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=/tmp/recon.db\n"), 0o644))

	require.NoError(t, LoadEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "/tmp/recon.db", os.Getenv(key))
}

func TestEpsilonValue(t *testing.T) {
	cfg := Default("", "")
	eps, err := cfg.EpsilonValue()
	require.NoError(t, err)
	assert.Equal(t, "0.01", eps.String())

	cfg.Reports.Epsilon = "-1"
	_, err = cfg.EpsilonValue()
	assert.Error(t, err)
}

func TestBankAccountLookup(t *testing.T) {
	cfg := Default("", "")
	cfg.BankAccounts = []BankAccount{{Name: "Chase", LedgerID: "chase", Format: "chase"}}

	b, ok := cfg.BankAccount("chase")
	require.True(t, ok)
	assert.Equal(t, "chase", b.Format)

	_, ok = cfg.BankAccount("hdfc")
	assert.False(t, ok)
}

func TestFiscalStartOf(t *testing.T) {
	f := FiscalConfig{YearStart: "04-01"}

	s, err := f.StartOf(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", s.Format("2006-01-02"))

	s, err = f.StartOf(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", s.Format("2006-01-02"))

	_, err = FiscalConfig{YearStart: "13-01"}.StartOf(time.Now())
	assert.Error(t, err)
}
