package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports, whose single signed
// Amount column is negative for withdrawals.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColCheck   = 6
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV. Rows with the wrong field count, a bad date or a
// bad amount are skipped.
func (p *ChaseParser) Parse(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("reading chase CSV: %w", err)
	}

	var res Result
	if len(records) <= 1 {
		return res, nil
	}
	for i, rec := range records[1:] {
		row := i + 2
		line, err := parseChaseRow(rec)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: row, Reason: err.Error()})
			continue
		}
		line.Row = row
		res.Lines = append(res.Lines, line)
	}
	return res, nil
}

func parseChaseRow(rec []string) (model.BankLine, error) {
	if len(rec) != chaseNumFields {
		return model.BankLine{}, fmt.Errorf("expected %d fields, got %d", chaseNumFields, len(rec))
	}

	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return model.BankLine{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return model.BankLine{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	desc := rec[chaseColDesc]
	ref := strings.TrimSpace(rec[chaseColCheck])
	if ref == "" {
		ref = makeChaseRef(date, desc)
	}

	line := model.BankLine{Date: date, Description: desc, Reference: ref}
	if amount.IsNegative() {
		line.Debit = amount.Neg()
	} else {
		line.Credit = amount
	}
	return line, nil
}

// makeChaseRef creates a reference like chase_20250103_GITHUB.
func makeChaseRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("chase_%s_%s", date.Format("20060102"), prefix)
}
