package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/id"
	"github.com/cleared-dev/books/internal/model"
)

const (
	vouchersDir  = "vouchers"
	vouchersFile = "vouchers.csv"
)

// Service posts and reads vouchers stored as one CSV per month.
type Service struct {
	root    string
	ledgers LedgerChecker
}

// NewService creates a journal Service rooted at a books directory.
func NewService(root string, ledgers LedgerChecker) *Service {
	return &Service{root: root, ledgers: ledgers}
}

// Line is one debit or credit of a voucher being posted.
type Line struct {
	LedgerID string
	Debit    decimal.Decimal
	Credit   decimal.Decimal
}

// PostParams holds parameters for posting a voucher.
type PostParams struct {
	Date      time.Time
	Type      model.VoucherType
	Narration string
	Reference string
	Lines     []Line
}

// Post numbers a voucher, validates it together with the rest of its
// month, and appends it to the month's vouchers.csv. Returns the voucher ID.
// Posted vouchers are never rewritten.
func (s *Service) Post(params PostParams) (string, error) {
	if len(params.Lines) < 2 {
		return "", fmt.Errorf("voucher needs at least two lines, got %d", len(params.Lines))
	}

	year := params.Date.Year()
	month := int(params.Date.Month())

	seq, err := s.NextSeq(year, month)
	if err != nil {
		return "", err
	}
	voucherID := id.FormatVoucherID(params.Type, year, month, seq)

	newEntries := make([]model.VoucherEntry, len(params.Lines))
	for i, line := range params.Lines {
		newEntries[i] = model.VoucherEntry{
			EntryID:     id.FormatEntryID(voucherID, i),
			VoucherID:   voucherID,
			LedgerID:    line.LedgerID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Date:        params.Date,
			VoucherType: params.Type,
			Narration:   params.Narration,
			Reference:   params.Reference,
		}
	}

	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return "", err
	}

	all := append(existing, newEntries...)
	if verrs := ValidateEntries(all, s.ledgers, year, month); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return "", fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating vouchers dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening vouchers file: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendEntries(f, newEntries); err != nil {
		return "", fmt.Errorf("appending entries: %w", err)
	}

	return voucherID, nil
}

// ReadMonth reads all entries for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.VoucherEntry, error) {
	return readPath(s.monthPath(year, month))
}

// ReadAll reads every month under vouchers/ in chronological order.
func (s *Service) ReadAll() ([]model.VoucherEntry, error) {
	pattern := filepath.Join(s.root, vouchersDir, "[0-9][0-9][0-9][0-9]", "[0-9][0-9]", vouchersFile)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("listing voucher files: %w", err)
	}
	sort.Strings(paths)

	var all []model.VoucherEntry
	for _, p := range paths {
		entries, err := readPath(p)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// NextSeq returns the next available voucher sequence number for a month.
func (s *Service) NextSeq(year, month int) (int, error) {
	entries, err := s.ReadMonth(year, month)
	if err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, e := range entries {
		_, _, _, seq, err := id.ParseVoucherID(e.EntryID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.root, vouchersDir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), vouchersFile)
}

func readPath(path string) ([]model.VoucherEntry, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening vouchers %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading vouchers %s: %w", path, err)
	}
	return entries, nil
}
