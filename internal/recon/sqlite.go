package recon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

const dateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS recon_sessions (
	id                TEXT PRIMARY KEY,
	bank_ledger_id    TEXT NOT NULL,
	statement_date    TEXT NOT NULL,
	statement_opening TEXT NOT NULL,
	statement_closing TEXT NOT NULL,
	book_balance      TEXT NOT NULL,
	status            TEXT NOT NULL,
	version           INTEGER NOT NULL,
	created_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recon_items (
	id            TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL REFERENCES recon_sessions(id) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	source        TEXT NOT NULL,
	ref           TEXT NOT NULL,
	date          TEXT NOT NULL,
	description   TEXT NOT NULL,
	amount        TEXT NOT NULL,
	side          TEXT NOT NULL,
	is_reconciled INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_recon_items_session ON recon_items(session_id, position);
`

// SQLiteStore persists sessions in a SQLite database. Toggles run in an
// immediate transaction guarded by the session status and version.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, sess *model.ReconciliationSession) error {
	return s.transaction(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM recon_sessions WHERE id = ?`, sess.ID).Scan(&exists)
		if err == nil {
			return ErrConflict
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking session: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO recon_sessions
				(id, bank_ledger_id, statement_date, statement_opening, statement_closing, book_balance, status, version, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sess.ID, sess.BankLedgerID, sess.StatementDate.Format(dateLayout),
			sess.StatementOpening.String(), sess.StatementClosing.String(), sess.BookBalance.String(),
			string(sess.Status), sess.Version, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting session: %w", err)
		}

		for i, it := range sess.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO recon_items
					(id, session_id, position, source, ref, date, description, amount, side, is_reconciled)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				it.ID, sess.ID, i, string(it.Source), it.Ref, it.Date.Format(dateLayout),
				it.Description, it.Amount.String(), string(it.Side), it.IsReconciled)
			if err != nil {
				return fmt.Errorf("inserting item %d: %w", i, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.ReconciliationSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, bank_ledger_id, statement_date, statement_opening, statement_closing, book_balance, status, version
		FROM recon_sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*model.ReconciliationSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bank_ledger_id, statement_date, statement_opening, statement_closing, book_balance, status, version
		FROM recon_sessions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []*model.ReconciliationSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	for _, sess := range out {
		if err := s.loadItems(ctx, sess); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLiteStore) SetReconciled(ctx context.Context, cmd ToggleCommand) (*model.ReconciliationSession, error) {
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		var status string
		var version int64
		err := tx.QueryRowContext(ctx, `SELECT status, version FROM recon_sessions WHERE id = ?`, cmd.SessionID).
			Scan(&status, &version)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("reading session: %w", err)
		}
		if model.SessionStatus(status) != model.SessionInProgress {
			return ErrConflict
		}
		if cmd.ExpectedVersion != 0 && cmd.ExpectedVersion != version {
			return ErrConflict
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE recon_items SET is_reconciled = ?
			WHERE id = ? AND session_id = ? AND is_reconciled <> ?`,
			cmd.Reconciled, cmd.ItemID, cmd.SessionID, cmd.Reconciled)
		if err != nil {
			return fmt.Errorf("updating item: %w", err)
		}
		changed, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("updating item: %w", err)
		}

		if changed == 0 {
			var exists int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM recon_items WHERE id = ? AND session_id = ?`,
				cmd.ItemID, cmd.SessionID).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		res, err = tx.ExecContext(ctx, `
			UPDATE recon_sessions SET version = version + 1
			WHERE id = ? AND version = ? AND status = ?`,
			cmd.SessionID, version, string(model.SessionInProgress))
		if err != nil {
			return fmt.Errorf("bumping version: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil || n != 1 {
			return ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, cmd.SessionID)
}

func (s *SQLiteStore) Complete(ctx context.Context, id string) error {
	return s.transaction(ctx, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM recon_sessions WHERE id = ?`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("reading session: %w", err)
		}
		if model.SessionStatus(status) == model.SessionCompleted {
			return ErrConflict
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE recon_sessions SET status = ?, version = version + 1 WHERE id = ?`,
			string(model.SessionCompleted), id)
		if err != nil {
			return fmt.Errorf("completing session: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recon_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*model.ReconciliationSession, error) {
	var (
		sess                     model.ReconciliationSession
		stmtDate, status         string
		opening, closing, booked string
	)
	err := row.Scan(&sess.ID, &sess.BankLedgerID, &stmtDate, &opening, &closing, &booked, &status, &sess.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if sess.StatementDate, err = time.Parse(dateLayout, stmtDate); err != nil {
		return nil, fmt.Errorf("session %s: statement date: %w", sess.ID, err)
	}
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{{&sess.StatementOpening, opening}, {&sess.StatementClosing, closing}, {&sess.BookBalance, booked}} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return nil, fmt.Errorf("session %s: amount %q: %w", sess.ID, f.src, err)
		}
	}
	sess.Status = model.SessionStatus(status)
	return &sess, nil
}

func (s *SQLiteStore) loadItems(ctx context.Context, sess *model.ReconciliationSession) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, ref, date, description, amount, side, is_reconciled
		FROM recon_items WHERE session_id = ? ORDER BY position`, sess.ID)
	if err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it                         model.ReconciliationItem
			source, date, amount, side string
		)
		if err := rows.Scan(&it.ID, &source, &it.Ref, &date, &it.Description, &amount, &side, &it.IsReconciled); err != nil {
			return fmt.Errorf("scanning item: %w", err)
		}
		if it.Date, err = time.Parse(dateLayout, date); err != nil {
			return fmt.Errorf("item %s: date: %w", it.ID, err)
		}
		if it.Amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("item %s: amount: %w", it.ID, err)
		}
		it.Source = model.ItemSource(source)
		it.Side = model.Side(side)
		sess.Items = append(sess.Items, it)
	}
	return rows.Err()
}
