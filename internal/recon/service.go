package recon

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cleared-dev/books/internal/auditlog"
	"github.com/cleared-dev/books/internal/logger"
	"github.com/cleared-dev/books/internal/model"
)

// Auditor records reconciliation actions. *auditlog.Log implements it.
type Auditor interface {
	Record(e auditlog.Entry) error
}

// Service runs reconciliation commands against a Store.
type Service struct {
	store Store
	audit Auditor
	opts  Options
	actor string
}

// NewService returns a Service. audit may be nil.
func NewService(store Store, audit Auditor, opts Options, actor string) *Service {
	return &Service{store: store, audit: audit, opts: opts.withDefaults(), actor: actor}
}

// Store returns the underlying store.
func (s *Service) Store() Store {
	return s.store
}

// Start builds and stores a new session. Entries cleared by earlier
// completed sessions of the same ledger are left out and the ones they
// left outstanding are carried in. Without a previous session or an
// explicit PeriodFrom, the period starts DateTolerance days before the
// earliest bank line.
func (s *Service) Start(ctx context.Context, p SessionParams) (*model.ReconciliationSession, error) {
	prior, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	p = Carryover(prior, p.BankLedgerID).Apply(p)
	if p.PeriodFrom.IsZero() {
		p.PeriodFrom = s.earliestLine(p.BankLines)
	}

	sess, err := NewSession(p)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	logger.FromContext(ctx).Info("reconciliation started",
		zap.String("session_id", sess.ID),
		zap.String("bank_ledger", sess.BankLedgerID),
		zap.Int("items", len(sess.Items)),
		zap.Time("period_from", p.PeriodFrom))
	s.record(ctx, auditlog.Entry{
		Action:    auditlog.ActionCreate,
		SessionID: sess.ID,
		Version:   sess.Version,
		Details:   fmt.Sprintf("%s as on %s", sess.BankLedgerID, sess.StatementDate.Format(dateLayout)),
	})
	return sess, nil
}

// Get returns a session.
func (s *Service) Get(ctx context.Context, id string) (*model.ReconciliationSession, error) {
	return s.store.Get(ctx, id)
}

// SetReconciled applies one toggle. Conflicts are returned to the caller
// unchanged and never retried.
func (s *Service) SetReconciled(ctx context.Context, cmd ToggleCommand) (*model.ReconciliationSession, error) {
	log := logger.FromContext(ctx).With(
		zap.String("session_id", cmd.SessionID),
		zap.String("item_id", cmd.ItemID),
		zap.Bool("reconciled", cmd.Reconciled))

	sess, err := s.store.SetReconciled(ctx, cmd)
	if err != nil {
		log.Warn("toggle rejected", zap.Error(err))
		return nil, err
	}
	log.Debug("item toggled", zap.Int64("version", sess.Version))
	s.record(ctx, auditlog.Entry{
		Action:     auditlog.ActionToggle,
		SessionID:  cmd.SessionID,
		ItemID:     cmd.ItemID,
		Reconciled: cmd.Reconciled,
		Version:    sess.Version,
	})
	return sess, nil
}

func (s *Service) earliestLine(lines []model.BankLine) time.Time {
	var first time.Time
	for _, l := range lines {
		if first.IsZero() || l.Date.Before(first) {
			first = l.Date
		}
	}
	if first.IsZero() {
		return first
	}
	return first.AddDate(0, 0, -s.opts.DateTolerance)
}

// AutoMatch runs the matcher over the session's unreconciled items and
// marks every pair reconciled, one toggle per item. If a toggle fails the
// half-marked pair is unmarked again and the error reports how many pairs
// were applied; the caller should refetch the session.
func (s *Service) AutoMatch(ctx context.Context, sessionID string) ([]Pair, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.SessionInProgress {
		return nil, ErrConflict
	}

	pairs := Match(sess.Items, s.opts)
	for i, p := range pairs {
		if err := s.markPair(ctx, sessionID, p); err != nil {
			if i > 0 {
				s.record(ctx, auditlog.Entry{
					Action:    auditlog.ActionAutoMatch,
					SessionID: sessionID,
					Details:   fmt.Sprintf("%d of %d pairs (%s), stopped", i, len(pairs), s.opts.Mode),
				})
			}
			return pairs[:i], fmt.Errorf("auto-match applied %d of %d pairs: %w", i, len(pairs), err)
		}
	}

	logger.FromContext(ctx).Info("auto-match finished",
		zap.String("session_id", sessionID),
		zap.String("mode", string(s.opts.Mode)),
		zap.Int("pairs", len(pairs)))
	s.record(ctx, auditlog.Entry{
		Action:    auditlog.ActionAutoMatch,
		SessionID: sessionID,
		Details:   fmt.Sprintf("%d pairs (%s)", len(pairs), s.opts.Mode),
	})
	return pairs, nil
}

func (s *Service) markPair(ctx context.Context, sessionID string, p Pair) error {
	toggle := func(itemID string, on bool) error {
		_, err := s.store.SetReconciled(ctx, ToggleCommand{SessionID: sessionID, ItemID: itemID, Reconciled: on})
		return err
	}
	if err := toggle(p.BankItemID, true); err != nil {
		return fmt.Errorf("marking %s: %w", p.BankItemID, err)
	}
	if err := toggle(p.BookItemID, true); err != nil {
		if undoErr := toggle(p.BankItemID, false); undoErr != nil {
			logger.FromContext(ctx).Error("unmarking bank item",
				zap.String("session_id", sessionID),
				zap.String("item_id", p.BankItemID),
				zap.Error(undoErr))
		}
		return fmt.Errorf("marking %s: %w", p.BookItemID, err)
	}
	return nil
}

// Complete closes a session; later toggles fail with ErrConflict.
func (s *Service) Complete(ctx context.Context, id string) (Summary, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	if err := s.store.Complete(ctx, id); err != nil {
		return Summary{}, err
	}
	sum := Summarize(sess)
	s.record(ctx, auditlog.Entry{
		Action:    auditlog.ActionComplete,
		SessionID: id,
		Details:   "adjusted " + sum.AdjustedBookBalance.StringFixed(2),
	})
	return sum, nil
}

// Delete discards a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, auditlog.Entry{Action: auditlog.ActionDelete, SessionID: id})
	return nil
}

func (s *Service) record(ctx context.Context, e auditlog.Entry) {
	if s.audit == nil {
		return
	}
	e.Actor = s.actor
	if err := s.audit.Record(e); err != nil {
		logger.FromContext(ctx).Error("writing recon log", zap.Error(err))
	}
}
