package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// GroupsHeader is the CSV header for groups.csv.
const GroupsHeader = "group_id,name,parent_id,nature,is_primary"

// LedgersHeader is the CSV header for ledgers.csv.
const LedgersHeader = "ledger_id,name,group_id,nature,opening_balance,opening_type,account_type"

const (
	groupFields   = 5
	colGroupID    = 0
	colGroupName  = 1
	colParentID   = 2
	colNature     = 3
	colIsPrimary  = 4
	ledgerFields  = 7
	colLedgerID   = 0
	colLedgerName = 1
	colLedgerGrp  = 2
	colLedgerNat  = 3
	colOpening    = 4
	colOpenType   = 5
	colAcctType   = 6
)

// ReadGroups reads groups.csv.
func ReadGroups(r io.Reader) ([]model.AccountGroup, error) {
	records, err := readRecords(r, groupFields)
	if err != nil {
		return nil, fmt.Errorf("reading groups CSV: %w", err)
	}

	var groups []model.AccountGroup
	for i, rec := range records {
		g, err := UnmarshalGroup(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// WriteGroups writes groups.csv including the header.
func WriteGroups(w io.Writer, groups []model.AccountGroup) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(GroupsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, g := range groups {
		if err := cw.Write(MarshalGroup(g)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalGroup converts an AccountGroup to a CSV row.
func MarshalGroup(g model.AccountGroup) []string {
	row := make([]string, groupFields)
	row[colGroupID] = g.ID
	row[colGroupName] = g.Name
	row[colParentID] = g.ParentID
	row[colNature] = string(g.Nature)
	row[colIsPrimary] = strconv.FormatBool(g.IsPrimary)
	return row
}

// UnmarshalGroup converts a CSV row to an AccountGroup.
func UnmarshalGroup(record []string) (model.AccountGroup, error) {
	if len(record) != groupFields {
		return model.AccountGroup{}, fmt.Errorf("expected %d fields, got %d", groupFields, len(record))
	}
	if record[colGroupID] == "" {
		return model.AccountGroup{}, fmt.Errorf("missing group_id")
	}

	nature, err := model.ParseSide(record[colNature])
	if err != nil {
		return model.AccountGroup{}, fmt.Errorf("parsing nature: %w", err)
	}

	isPrimary := record[colParentID] == ""
	if record[colIsPrimary] != "" {
		isPrimary, err = strconv.ParseBool(record[colIsPrimary])
		if err != nil {
			return model.AccountGroup{}, fmt.Errorf("parsing is_primary %q: %w", record[colIsPrimary], err)
		}
	}

	return model.AccountGroup{
		ID:        record[colGroupID],
		Name:      record[colGroupName],
		ParentID:  record[colParentID],
		Nature:    nature,
		IsPrimary: isPrimary,
	}, nil
}

// ReadLedgers reads ledgers.csv. Group paths are left empty; see Service.
func ReadLedgers(r io.Reader) ([]model.LedgerAccount, error) {
	records, err := readRecords(r, ledgerFields)
	if err != nil {
		return nil, fmt.Errorf("reading ledgers CSV: %w", err)
	}

	var ledgers []model.LedgerAccount
	for i, rec := range records {
		l, err := UnmarshalLedger(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, nil
}

// WriteLedgers writes ledgers.csv including the header.
func WriteLedgers(w io.Writer, ledgers []model.LedgerAccount) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(LedgersHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, l := range ledgers {
		if err := cw.Write(MarshalLedger(l)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalLedger converts a LedgerAccount to a CSV row.
func MarshalLedger(l model.LedgerAccount) []string {
	row := make([]string, ledgerFields)
	row[colLedgerID] = l.ID
	row[colLedgerName] = l.Name
	row[colLedgerGrp] = l.GroupID
	row[colLedgerNat] = string(l.Nature)
	row[colOpening] = l.OpeningBalance.StringFixed(2)
	row[colOpenType] = string(l.OpeningType)
	row[colAcctType] = string(l.AccountType)
	return row
}

// UnmarshalLedger converts a CSV row to a LedgerAccount.
func UnmarshalLedger(record []string) (model.LedgerAccount, error) {
	if len(record) != ledgerFields {
		return model.LedgerAccount{}, fmt.Errorf("expected %d fields, got %d", ledgerFields, len(record))
	}
	if record[colLedgerID] == "" {
		return model.LedgerAccount{}, fmt.Errorf("missing ledger_id")
	}

	nature, err := model.ParseSide(record[colLedgerNat])
	if err != nil {
		return model.LedgerAccount{}, fmt.Errorf("parsing nature: %w", err)
	}

	opening := decimal.Zero
	if record[colOpening] != "" {
		opening, err = decimal.NewFromString(record[colOpening])
		if err != nil {
			return model.LedgerAccount{}, fmt.Errorf("parsing opening_balance %q: %w", record[colOpening], err)
		}
	}

	openType := nature
	if record[colOpenType] != "" {
		openType, err = model.ParseSide(record[colOpenType])
		if err != nil {
			return model.LedgerAccount{}, fmt.Errorf("parsing opening_type: %w", err)
		}
	}

	return model.LedgerAccount{
		ID:             record[colLedgerID],
		Name:           record[colLedgerName],
		GroupID:        record[colLedgerGrp],
		Nature:         nature,
		OpeningBalance: opening,
		OpeningType:    openType,
		AccountType:    model.AccountType(strings.ToLower(record[colAcctType])),
	}, nil
}

// readRecords reads all rows after the header.
func readRecords(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}
