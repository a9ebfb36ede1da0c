package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/id"
	"github.com/cleared-dev/books/internal/model"
)

// Header is the CSV header for vouchers.csv.
const Header = "entry_id,date,voucher_type,ledger_id,debit,credit,narration,reference"

const (
	numFields    = 8
	dateFormat   = "2006-01-02"
	colEntryID   = 0
	colDate      = 1
	colType      = 2
	colLedgerID  = 3
	colDebit     = 4
	colCredit    = 5
	colNarration = 6
	colRef       = 7
)

// ReadEntries reads all entries from a vouchers.csv reader.
func ReadEntries(r io.Reader) ([]model.VoucherEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading vouchers CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.VoucherEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries to a vouchers.csv writer (including header).
func WriteEntries(w io.Writer, entries []model.VoucherEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendEntries appends entries to an existing vouchers.csv writer (no header).
func AppendEntries(w io.Writer, entries []model.VoucherEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalEntry converts a VoucherEntry to a CSV row.
func MarshalEntry(e model.VoucherEntry) []string {
	row := make([]string, numFields)
	row[colEntryID] = e.EntryID
	row[colDate] = e.Date.Format(dateFormat)
	row[colType] = string(e.VoucherType)
	row[colLedgerID] = e.LedgerID

	if !e.Debit.IsZero() {
		row[colDebit] = e.Debit.StringFixed(2)
	}
	if !e.Credit.IsZero() {
		row[colCredit] = e.Credit.StringFixed(2)
	}

	row[colNarration] = e.Narration
	row[colRef] = e.Reference
	return row
}

// UnmarshalEntry converts a CSV row to a VoucherEntry. The voucher ID is
// derived from the entry ID.
func UnmarshalEntry(record []string) (model.VoucherEntry, error) {
	if len(record) != numFields {
		return model.VoucherEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.VoucherEntry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	var debit, credit decimal.Decimal
	if record[colDebit] != "" {
		debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return model.VoucherEntry{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}
	if record[colCredit] != "" {
		credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return model.VoucherEntry{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	return model.VoucherEntry{
		EntryID:     record[colEntryID],
		VoucherID:   id.VoucherOf(record[colEntryID]),
		LedgerID:    record[colLedgerID],
		Debit:       debit,
		Credit:      credit,
		Date:        date,
		VoucherType: model.VoucherType(record[colType]),
		Narration:   record[colNarration],
		Reference:   record[colRef],
	}, nil
}

// GroupVouchers folds entries into vouchers, keeping the order in which
// each voucher first appears. Voucher-level fields come from the first leg.
func GroupVouchers(entries []model.VoucherEntry) []model.Voucher {
	index := make(map[string]int)
	var vouchers []model.Voucher
	for _, e := range entries {
		i, ok := index[e.VoucherID]
		if !ok {
			i = len(vouchers)
			index[e.VoucherID] = i
			vouchers = append(vouchers, model.Voucher{
				ID:        e.VoucherID,
				Date:      e.Date,
				Type:      e.VoucherType,
				Narration: e.Narration,
				Reference: e.Reference,
			})
		}
		vouchers[i].Entries = append(vouchers[i].Entries, e)
	}
	return vouchers
}
