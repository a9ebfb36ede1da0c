package invoices

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Header is the CSV header for invoices.csv.
const Header = "invoice_id,client_id,date,total,amount_paid,balance_due"

const (
	numFields  = 6
	dateFormat = "2006-01-02"
	colID      = 0
	colClient  = 1
	colDate    = 2
	colTotal   = 3
	colPaid    = 4
	colDue     = 5
)

// Path returns the location of invoices.csv inside a books directory.
func Path(root string) string {
	return filepath.Join(root, "invoices", "invoices.csv")
}

// Load reads invoices.csv from a books directory. A missing file means no invoices.
func Load(root string) ([]model.Invoice, error) {
	f, err := os.Open(Path(root))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening invoices: %w", err)
	}
	defer f.Close()
	return ReadInvoices(f)
}

// ReadInvoices reads all invoices from a CSV reader.
func ReadInvoices(r io.Reader) ([]model.Invoice, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading invoices CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var out []model.Invoice
	for i, rec := range records[1:] {
		inv, err := UnmarshalInvoice(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, inv)
	}
	return out, nil
}

// WriteInvoices writes invoices including the header.
func WriteInvoices(w io.Writer, invoices []model.Invoice) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, inv := range invoices {
		if err := cw.Write(MarshalInvoice(inv)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalInvoice converts an Invoice to a CSV row. An absent balance due
// stays an empty cell.
func MarshalInvoice(inv model.Invoice) []string {
	row := make([]string, numFields)
	row[colID] = inv.ID
	row[colClient] = inv.ClientID
	row[colDate] = inv.Date.Format(dateFormat)
	row[colTotal] = inv.Total.StringFixed(2)
	row[colPaid] = inv.AmountPaid.StringFixed(2)
	if inv.BalanceDue != nil {
		row[colDue] = inv.BalanceDue.StringFixed(2)
	}
	return row
}

// UnmarshalInvoice converts a CSV row to an Invoice.
func UnmarshalInvoice(record []string) (model.Invoice, error) {
	if len(record) != numFields {
		return model.Invoice{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Invoice{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	total, err := parseAmount("total", record[colTotal])
	if err != nil {
		return model.Invoice{}, err
	}
	paid, err := parseAmount("amount_paid", record[colPaid])
	if err != nil {
		return model.Invoice{}, err
	}

	inv := model.Invoice{
		ID:         record[colID],
		ClientID:   record[colClient],
		Date:       date,
		Total:      total,
		AmountPaid: paid,
	}
	if record[colDue] != "" {
		due, err := parseAmount("balance_due", record[colDue])
		if err != nil {
			return model.Invoice{}, err
		}
		inv.BalanceDue = &due
	}
	return inv, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}
