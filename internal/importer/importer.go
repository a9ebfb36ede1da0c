// Package importer parses bank-statement CSV files into model.BankLine
// values. Parsing never commits anything; rows that cannot be read are
// skipped and reported.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/books/internal/model"
)

// RowError records a skipped row.
type RowError struct {
	Row    int // 1-based line in the file, header is row 1
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Result is the outcome of parsing one file.
type Result struct {
	Lines   []model.BankLine
	Skipped []RowError
}

// Imported returns the number of rows parsed.
func (r Result) Imported() int { return len(r.Lines) }

// SkippedCount returns the number of rows skipped.
func (r Result) SkippedCount() int { return len(r.Skipped) }

// Parser converts a bank CSV file into bank lines. An error is returned
// only when the file as a whole is unusable (unreadable, no usable header).
type Parser interface {
	Parse(r io.Reader) (Result, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&GenericParser{})
	r.Register(&ChaseParser{})
	return r
}

// ParseFile opens path and runs the parser registered for format.
func (r *Registry) ParseFile(path, format string) (Result, error) {
	p := r.Get(format)
	if p == nil {
		return Result{}, fmt.Errorf("unknown import format %q", format)
	}
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	res, err := p.Parse(f)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return res, nil
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	dstDir := filepath.Join(root, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	src := filepath.Join(root, importDir, fileName)
	if err := os.Rename(src, filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
