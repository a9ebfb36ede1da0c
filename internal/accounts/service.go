package accounts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cleared-dev/books/internal/model"
)

const (
	accountsDir = "accounts"
	groupsFile  = "groups.csv"
	ledgersFile = "ledgers.csv"
)

// Service provides in-memory lookup over groups and ledgers.
type Service struct {
	chart   *Chart
	ledgers []model.LedgerAccount
	byID    map[string]int
}

// NewService builds the chart and resolves every ledger's group path.
func NewService(groups []model.AccountGroup, ledgers []model.LedgerAccount) (*Service, error) {
	chart, err := NewChart(groups)
	if err != nil {
		return nil, err
	}

	resolved := make([]model.LedgerAccount, len(ledgers))
	byID := make(map[string]int, len(ledgers))
	for i, l := range ledgers {
		if _, dup := byID[l.ID]; dup {
			return nil, fmt.Errorf("duplicate ledger %q", l.ID)
		}
		path, err := chart.Path(l.GroupID)
		if err != nil {
			return nil, fmt.Errorf("ledger %q: %w", l.ID, err)
		}
		l.GroupPath = path
		resolved[i] = l
		byID[l.ID] = i
	}
	return &Service{chart: chart, ledgers: resolved, byID: byID}, nil
}

// Load reads accounts/groups.csv and accounts/ledgers.csv from a books directory.
func Load(root string) (*Service, error) {
	groups, err := readFile(filepath.Join(root, accountsDir, groupsFile), ReadGroups)
	if err != nil {
		return nil, err
	}
	ledgers, err := readFile(filepath.Join(root, accountsDir, ledgersFile), ReadLedgers)
	if err != nil {
		return nil, err
	}
	return NewService(groups, ledgers)
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// Chart returns the group tree.
func (s *Service) Chart() *Chart {
	return s.chart
}

// Ledgers returns all ledgers with resolved group paths.
func (s *Service) Ledgers() []model.LedgerAccount {
	return s.ledgers
}

// Ledger returns a ledger by ID.
func (s *Service) Ledger(id string) (model.LedgerAccount, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.LedgerAccount{}, false
	}
	return s.ledgers[i], true
}

// Exists reports whether a ledger ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Save writes groups.csv and ledgers.csv under root/accounts.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, accountsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	gf, err := os.Create(filepath.Join(dir, groupsFile))
	if err != nil {
		return fmt.Errorf("creating groups file: %w", err)
	}
	defer gf.Close()
	if err := WriteGroups(gf, s.chart.Groups()); err != nil {
		return fmt.Errorf("writing groups: %w", err)
	}

	lf, err := os.Create(filepath.Join(dir, ledgersFile))
	if err != nil {
		return fmt.Errorf("creating ledgers file: %w", err)
	}
	defer lf.Close()
	if err := WriteLedgers(lf, s.ledgers); err != nil {
		return fmt.Errorf("writing ledgers: %w", err)
	}
	return nil
}
