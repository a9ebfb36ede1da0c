// Package source supplies the immutable snapshot every report is computed
// from.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/invoices"
	"github.com/cleared-dev/books/internal/journal"
	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/logger"
	"github.com/cleared-dev/books/internal/model"
)

// Snapshot is one consistent read of the books. Ledgers carry their
// closing CurrentBalance over every voucher in the snapshot.
type Snapshot struct {
	FetchedAt time.Time
	Groups    []model.AccountGroup
	Ledgers   []model.LedgerAccount
	Vouchers  []model.Voucher
	Invoices  []model.Invoice
}

// NewSnapshot replays ledger balances over vouchers and returns the snapshot.
func NewSnapshot(groups []model.AccountGroup, ledgers []model.LedgerAccount, vouchers []model.Voucher, invs []model.Invoice) *Snapshot {
	return &Snapshot{
		FetchedAt: time.Now(),
		Groups:    groups,
		Ledgers:   ledger.ReplayAll(ledgers, vouchers, time.Time{}),
		Vouchers:  vouchers,
		Invoices:  invs,
	}
}

// Ledger looks up a ledger by ID.
func (s *Snapshot) Ledger(id string) (model.LedgerAccount, bool) {
	for _, l := range s.Ledgers {
		if l.ID == id {
			return l, true
		}
	}
	return model.LedgerAccount{}, false
}

// Names maps ledger IDs to display names.
func (s *Snapshot) Names() map[string]string {
	names := make(map[string]string, len(s.Ledgers))
	for _, l := range s.Ledgers {
		names[l.ID] = l.Name
	}
	return names
}

// Entries flattens the vouchers into their entries, in voucher order.
func (s *Snapshot) Entries() []model.VoucherEntry {
	var out []model.VoucherEntry
	for _, v := range s.Vouchers {
		out = append(out, v.Entries...)
	}
	return out
}

// Source fetches snapshots.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// DataFetchError means the books could not be read or failed validation.
// No partial snapshot accompanies it.
type DataFetchError struct {
	Source string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("fetching books from %s: %v", e.Source, e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}

// Dir reads a books directory from disk.
type Dir struct {
	Root string
}

// NewDir returns a Source reading root.
func NewDir(root string) *Dir {
	return &Dir{Root: root}
}

// Fetch loads the chart, ledgers, every month of vouchers and the invoices,
// validates the vouchers and replays ledger balances.
func (d *Dir) Fetch(ctx context.Context) (*Snapshot, error) {
	log := logger.FromContext(ctx).With(zap.String("root", d.Root))
	fail := func(err error) (*Snapshot, error) {
		log.Error("fetch failed", zap.Error(err))
		return nil, &DataFetchError{Source: d.Root, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	accts, err := accounts.Load(d.Root)
	if err != nil {
		return fail(err)
	}

	entries, err := journal.NewService(d.Root, accts).ReadAll()
	if err != nil {
		return fail(err)
	}
	if verrs := journal.ValidateEntries(entries, accts, 0, 0); len(verrs) > 0 {
		return fail(joinValidation(verrs))
	}

	invs, err := invoices.Load(d.Root)
	if err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	snap := NewSnapshot(accts.Chart().Groups(), accts.Ledgers(), journal.GroupVouchers(entries), invs)
	log.Debug("books fetched",
		zap.Int("ledgers", len(snap.Ledgers)),
		zap.Int("vouchers", len(snap.Vouchers)),
		zap.Int("invoices", len(snap.Invoices)))
	return snap, nil
}

func joinValidation(verrs []journal.ValidationError) error {
	msgs := make([]string, len(verrs))
	for i, v := range verrs {
		msgs[i] = v.Error()
	}
	return errors.New("invalid vouchers: " + strings.Join(msgs, "; "))
}

// Static serves a fixed snapshot.
type Static struct {
	Snapshot *Snapshot
}

// Fetch returns the snapshot, or a DataFetchError when none is set.
func (s Static) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, &DataFetchError{Source: "static", Err: err}
	}
	if s.Snapshot == nil {
		return nil, &DataFetchError{Source: "static", Err: errors.New("no snapshot")}
	}
	return s.Snapshot, nil
}
