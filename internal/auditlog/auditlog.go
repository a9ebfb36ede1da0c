// Package auditlog keeps the append-only reconciliation trail in
// <books>/logs/recon-log.csv.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Actions recorded by the reconciliation service.
const (
	ActionCreate    = "create_session"
	ActionToggle    = "set_reconciled"
	ActionAutoMatch = "auto_match"
	ActionComplete  = "complete_session"
	ActionDelete    = "delete_session"
)

// Entry is one row in the reconciliation log.
type Entry struct {
	Timestamp  time.Time
	Actor      string
	Action     string
	SessionID  string
	ItemID     string
	Reconciled bool
	Version    int64
	Details    string
}

// Header is the CSV header for recon-log.csv.
const Header = "timestamp,actor,action,session_id,item_id,reconciled,version,details"

const (
	numFields     = 8
	logDir        = "logs"
	logFile       = "logs/recon-log.csv"
	colTimestamp  = 0
	colActor      = 1
	colAction     = 2
	colSessionID  = 3
	colItemID     = 4
	colReconciled = 5
	colVersion    = 6
	colDetails    = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colActor] = e.Actor
	row[colAction] = e.Action
	row[colSessionID] = e.SessionID
	row[colItemID] = e.ItemID
	row[colReconciled] = strconv.FormatBool(e.Reconciled)
	row[colVersion] = strconv.FormatInt(e.Version, 10)
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	reconciled, err := strconv.ParseBool(record[colReconciled])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing reconciled %q: %w", record[colReconciled], err)
	}
	version, err := strconv.ParseInt(record[colVersion], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing version %q: %w", record[colVersion], err)
	}

	return Entry{
		Timestamp:  ts,
		Actor:      record[colActor],
		Action:     record[colAction],
		SessionID:  record[colSessionID],
		ItemID:     record[colItemID],
		Reconciled: reconciled,
		Version:    version,
		Details:    record[colDetails],
	}, nil
}

// Append writes entries to <root>/logs/recon-log.csv, creating the file and
// header if needed.
func Append(root string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(root, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening recon log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/recon-log.csv, or nil if the
// file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening recon log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading recon log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Log appends to the trail of one books directory.
type Log struct {
	root string
	now  func() time.Time
}

// New returns a Log rooted at a books directory.
func New(root string) *Log {
	return &Log{root: root, now: time.Now}
}

// Record stamps e with the current time when unset and appends it.
func (l *Log) Record(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	return Append(l.root, []Entry{e})
}
