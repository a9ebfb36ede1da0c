package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/books/internal/auditlog"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/gitops"
	"github.com/cleared-dev/books/internal/logger"
	"github.com/cleared-dev/books/internal/recon"
	"github.com/cleared-dev/books/internal/report"
	"github.com/cleared-dev/books/internal/source"
)

// app is the state shared by commands that work on an existing books
// directory.
type app struct {
	dir      string
	logLevel string

	cfg *config.Config
	log *zap.Logger
}

// open resolves the books directory, loads .env and books.yaml, and puts a
// logger in the command context.
func (a *app) open(cmd *cobra.Command) error {
	dir, err := filepath.Abs(a.dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	a.dir = dir

	if err := config.LoadEnv(filepath.Join(dir, ".env")); err != nil {
		return err
	}
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		return fmt.Errorf("%s is not a books directory: %w", dir, err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	l, err := logger.NewWriter(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = l.With(zap.String("books", filepath.Base(dir)))
	cmd.SetContext(logger.WithContext(cmd.Context(), a.log))
	return nil
}

func (a *app) snapshot(ctx context.Context) (*source.Snapshot, error) {
	return source.NewDir(a.dir).Fetch(ctx)
}

func (a *app) reportOptions() report.Options {
	return report.Options{ShowZero: a.cfg.Reports.ShowZero}
}

func (a *app) reconOptions() (recon.Options, error) {
	mode, err := recon.ParseMode(a.cfg.Reconciliation.Mode)
	if err != nil {
		return recon.Options{}, err
	}
	eps, err := a.cfg.EpsilonValue()
	if err != nil {
		return recon.Options{}, err
	}
	return recon.Options{
		Mode:          mode,
		DateTolerance: a.cfg.Reconciliation.DateToleranceDays,
		Epsilon:       eps,
	}, nil
}

// reconService opens the session store named in the config. The caller
// must call the returned close func.
func (a *app) reconService() (*recon.Service, func() error, error) {
	opts, err := a.reconOptions()
	if err != nil {
		return nil, nil, err
	}

	path := a.cfg.Reconciliation.StorePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.dir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating store dir: %w", err)
	}
	store, err := recon.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}

	actor := os.Getenv("USER")
	if actor == "" {
		actor = "books"
	}
	return recon.NewService(store, auditlog.New(a.dir), opts, actor), store.Close, nil
}

// commit records the books directory in git when auto-commit is on and
// the directory is a repository.
func (a *app) commit(ctx context.Context, message string) {
	if !a.cfg.Git.AutoCommit || !gitops.IsRepo(a.dir) {
		return
	}
	hash, err := gitops.CommitAll(ctx, a.dir, message, gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail})
	if err != nil {
		a.log.Warn("git commit failed", zap.Error(err))
		return
	}
	if hash != "" {
		a.log.Info("committed", zap.String("hash", hash), zap.String("message", message))
	}
}

func parseDateFlag(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", name, v)
	}
	return t, nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
