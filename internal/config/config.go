package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a books directory.
const FileName = "books.yaml"

// Environment overrides, applied after the YAML file.
const (
	EnvLogLevel   = "BOOKS_LOG_LEVEL"
	EnvLogFormat  = "BOOKS_LOG_FORMAT"
	EnvReconStore = "BOOKS_RECON_STORE"
	EnvReconMode  = "BOOKS_RECON_MODE"
	EnvServerAddr = "BOOKS_SERVER_ADDR"
	EnvShowZero   = "BOOKS_SHOW_ZERO"
)

// Config represents the top-level books.yaml configuration.
type Config struct {
	Business       BusinessConfig `yaml:"business"`
	Fiscal         FiscalConfig   `yaml:"fiscal"`
	BankAccounts   []BankAccount  `yaml:"bank_accounts,omitempty"`
	Reports        ReportsConfig  `yaml:"reports"`
	Reconciliation ReconConfig    `yaml:"reconciliation"`
	Log            LogConfig      `yaml:"log"`
	Server         ServerConfig   `yaml:"server"`
	Git            GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
	Currency   string `yaml:"currency"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "04-01"
}

// BankAccount maps a bank ledger to the statement format its exports use.
type BankAccount struct {
	Name     string `yaml:"name"`
	LedgerID string `yaml:"ledger_id"`
	Format   string `yaml:"format"` // importer format: generic, chase
	LastFour string `yaml:"last_four,omitempty"`
}

// ReportsConfig controls statement building.
type ReportsConfig struct {
	ShowZero bool   `yaml:"show_zero"`
	Epsilon  string `yaml:"epsilon"`
}

// ReconConfig controls bank reconciliation.
type ReconConfig struct {
	DateToleranceDays int    `yaml:"date_tolerance_days"`
	Mode              string `yaml:"mode"`       // greedy or bipartite
	StorePath         string `yaml:"store_path"` // relative to the books directory
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// GitConfig controls committing the books directory after writes.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a books.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new books directory.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
			Currency:   "INR",
		},
		Fiscal: FiscalConfig{
			YearStart: "04-01",
		},
		Reports: ReportsConfig{
			Epsilon: "0.01",
		},
		Reconciliation: ReconConfig{
			DateToleranceDays: 5,
			Mode:              "greedy",
			StorePath:         "recon/sessions.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Books",
			AuthorEmail: "books@localhost",
		},
	}
}

// LoadEnv loads KEY=VALUE pairs from the given .env files (or ./.env)
// into the process environment. Missing files are ignored; variables that
// are already set win.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from BOOKS_* variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(EnvLogLevel, &c.Log.Level)
	set(EnvLogFormat, &c.Log.Format)
	set(EnvReconStore, &c.Reconciliation.StorePath)
	set(EnvReconMode, &c.Reconciliation.Mode)
	set(EnvServerAddr, &c.Server.Addr)

	if v := getenv(EnvShowZero); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvShowZero, err)
		}
		c.Reports.ShowZero = b
	}
	return nil
}

// EpsilonValue returns Reports.Epsilon as a decimal, defaulting to 0.01.
func (c *Config) EpsilonValue() (decimal.Decimal, error) {
	if c.Reports.Epsilon == "" {
		return decimal.RequireFromString("0.01"), nil
	}
	d, err := decimal.NewFromString(c.Reports.Epsilon)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid reports.epsilon %q", c.Reports.Epsilon)
	}
	return d, nil
}

// BankAccount returns the configured bank account for a ledger.
func (c *Config) BankAccount(ledgerID string) (BankAccount, bool) {
	for _, b := range c.BankAccounts {
		if b.LedgerID == ledgerID {
			return b, true
		}
	}
	return BankAccount{}, false
}

// StartOf returns the first day of the fiscal year containing asOn.
func (f FiscalConfig) StartOf(asOn time.Time) (time.Time, error) {
	start := f.YearStart
	if start == "" {
		start = "01-01"
	}
	md, err := time.Parse("01-02", start)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid fiscal.year_start %q: %w", f.YearStart, err)
	}
	s := time.Date(asOn.Year(), md.Month(), md.Day(), 0, 0, 0, 0, asOn.Location())
	if s.After(asOn) {
		s = s.AddDate(-1, 0, 0)
	}
	return s, nil
}
