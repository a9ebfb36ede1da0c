package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Role is the meaning of a statement column.
type Role int

const (
	RoleDate Role = iota
	RoleDescription
	RoleDebit
	RoleCredit
	RoleReference
	RoleAmount
	numRoles
)

// Header keywords per role, matched as case-insensitive substrings.
// Roles are resolved in declaration order and each column takes at most
// one role, so "Description" is never read as a credit ("cr") column.
var roleKeywords = [numRoles][]string{
	RoleDate:        {"date"},
	RoleDescription: {"description", "narration", "particulars"},
	RoleDebit:       {"debit", "withdrawal", "dr"},
	RoleCredit:      {"credit", "deposit", "cr"},
	RoleReference:   {"ref", "cheque", "chq"},
	RoleAmount:      {"amount"},
}

// DateLayouts are tried in order; the first that parses wins.
var DateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

// Columns maps roles to column indexes; -1 means absent.
type Columns [numRoles]int

// Has reports whether the role was found.
func (c Columns) Has(r Role) bool { return c[r] >= 0 }

// DetectColumns assigns roles to header cells. A file needs a date column
// and either a debit/credit column or a single signed amount column; the
// amount column is only used when neither debit nor credit exists.
func DetectColumns(header []string) (Columns, error) {
	var cols Columns
	for i := range cols {
		cols[i] = -1
	}
	taken := make([]bool, len(header))

	for role := RoleDate; role < numRoles; role++ {
		if role == RoleAmount && (cols.Has(RoleDebit) || cols.Has(RoleCredit)) {
			break
		}
		for i, cell := range header {
			if taken[i] || !containsAny(strings.ToLower(cell), roleKeywords[role]) {
				continue
			}
			cols[role] = i
			taken[i] = true
			break
		}
	}

	if !cols.Has(RoleDate) {
		return cols, errors.New("no date column in header")
	}
	if !cols.Has(RoleDebit) && !cols.Has(RoleCredit) && !cols.Has(RoleAmount) {
		return cols, errors.New("no debit, credit or amount column in header")
	}
	return cols, nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ParseDate tries DateLayouts in order.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseAmount strips everything outside [0-9.-] and parses the rest.
// An empty result is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if clean == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q", s)
	}
	return d, nil
}

// GenericParser reads any statement whose header names its columns.
type GenericParser struct{}

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse detects the columns from the first row and reads the rest.
func (p *GenericParser) Parse(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return Result{}, errors.New("empty file")
	}
	if err != nil {
		return Result{}, fmt.Errorf("reading header: %w", err)
	}
	cols, err := DetectColumns(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Skipped = append(res.Skipped, RowError{Row: row, Reason: perr.Err.Error()})
				continue
			}
			return Result{}, fmt.Errorf("reading row %d: %w", row, err)
		}
		if blank(rec) {
			continue
		}

		line, err := parseRow(rec, cols)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: row, Reason: err.Error()})
			continue
		}
		line.Row = row
		res.Lines = append(res.Lines, line)
	}
	return res, nil
}

func parseRow(rec []string, cols Columns) (model.BankLine, error) {
	cell := func(r Role) string {
		if !cols.Has(r) || cols[r] >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[cols[r]])
	}

	if cols[RoleDate] >= len(rec) {
		return model.BankLine{}, fmt.Errorf("expected at least %d fields, got %d", cols[RoleDate]+1, len(rec))
	}
	date, err := ParseDate(cell(RoleDate))
	if err != nil {
		return model.BankLine{}, err
	}

	line := model.BankLine{
		Date:        date,
		Description: cell(RoleDescription),
		Reference:   cell(RoleReference),
	}

	if cols.Has(RoleAmount) {
		amt, err := ParseAmount(cell(RoleAmount))
		if err != nil {
			return model.BankLine{}, err
		}
		if amt.IsNegative() {
			line.Debit = amt.Neg()
		} else {
			line.Credit = amt
		}
	} else {
		if line.Debit, err = ParseAmount(cell(RoleDebit)); err != nil {
			return model.BankLine{}, err
		}
		if line.Credit, err = ParseAmount(cell(RoleCredit)); err != nil {
			return model.BankLine{}, err
		}
		line.Debit, line.Credit = line.Debit.Abs(), line.Credit.Abs()
	}

	switch {
	case line.Debit.IsZero() && line.Credit.IsZero():
		return model.BankLine{}, errors.New("no amount")
	case !line.Debit.IsZero() && !line.Credit.IsZero():
		return model.BankLine{}, errors.New("both debit and credit set")
	}
	return line, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
