package commands

import (
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/books/internal/importer"
	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/recon"
	"github.com/cleared-dev/books/internal/report"
)

func newReconCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recon",
		Short: "Bank reconciliation",
	}
	cmd.AddCommand(
		newReconImportCommand(a),
		newReconPendingCommand(a),
		newReconListCommand(a),
		newReconShowCommand(a),
		newReconToggleCommand(a),
		newReconMatchCommand(a),
		newReconCompleteCommand(a),
		newReconDeleteCommand(a),
	)
	return cmd
}

// withRecon opens the books and the session store around fn.
func withRecon(a *app, cmd *cobra.Command, fn func(*recon.Service) error) error {
	if err := a.open(cmd); err != nil {
		return err
	}
	svc, closeStore, err := a.reconService()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.log.Warn("closing session store", zap.Error(err))
		}
	}()
	return fn(svc)
}

func newReconImportCommand(a *app) *cobra.Command {
	var (
		ledgerID      string
		format        string
		statementDate string
		opening       string
		closing       string
		autoMatch     bool
		periodFrom    string
	)

	cmd := &cobra.Command{
		Use:   "import <statement.csv>",
		Short: "Import a bank statement and start a reconciliation session",
		Long: "Parse a bank statement CSV and open a session against the bank ledger. " +
			"Files under <books>/import/ are moved to import/processed/ once the session is stored.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecon(a, cmd, func(svc *recon.Service) error {
				ctx := cmd.Context()
				bank, ok := a.cfg.BankAccount(ledgerID)
				if format == "" {
					format = "generic"
					if ok && bank.Format != "" {
						format = bank.Format
					}
				}
				stmtDate, err := parseDateFlag("statement-date", statementDate)
				if err != nil {
					return err
				}
				if stmtDate.IsZero() {
					return fmt.Errorf("--statement-date is required")
				}
				from, err := parseDateFlag("from", periodFrom)
				if err != nil {
					return err
				}
				if from.After(stmtDate) {
					return fmt.Errorf("--from %s is after --statement-date %s", periodFrom, statementDate)
				}
				openBal, err := optionalAmount("opening", opening)
				if err != nil {
					return err
				}
				closeBal, err := optionalAmount("closing", closing)
				if err != nil {
					return err
				}

				path, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
				res, err := importer.DefaultRegistry().ParseFile(path, format)
				if err != nil {
					return err
				}
				for _, rowErr := range res.Skipped {
					a.log.Warn("skipped statement row", zap.Int("row", rowErr.Row), zap.String("reason", rowErr.Reason))
				}

				snap, err := a.snapshot(ctx)
				if err != nil {
					return err
				}
				acct, found := snap.Ledger(ledgerID)
				if !found {
					return fmt.Errorf("%w: %q", report.ErrUnknownLedger, ledgerID)
				}
				sess, err := svc.Start(ctx, recon.SessionParams{
					BankLedgerID:     ledgerID,
					StatementDate:    stmtDate,
					StatementOpening: openBal,
					StatementClosing: closeBal,
					BookBalance:      ledger.Replay(acct, snap.Vouchers, stmtDate).Signed(),
					BookEntries:      snap.Entries(),
					BankLines:        res.Lines,
					PeriodFrom:       from,
				})
				if err != nil {
					return err
				}

				if filepath.Dir(path) == filepath.Join(a.dir, "import") {
					if err := importer.MarkProcessed(a.dir, filepath.Base(path)); err != nil {
						return err
					}
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Session %s: %d bank lines imported, %d skipped\n", sess.ID, res.Imported(), res.SkippedCount())
				if autoMatch {
					pairs, err := svc.AutoMatch(ctx, sess.ID)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Auto-matched %d pairs\n", len(pairs))
				}
				a.commit(ctx, "recon: import "+filepath.Base(path))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&ledgerID, "ledger", "", "bank ledger ID (required)")
	_ = cmd.MarkFlagRequired("ledger")
	cmd.Flags().StringVar(&format, "format", "", "statement format (default from bank_accounts, else generic)")
	cmd.Flags().StringVar(&statementDate, "statement-date", "", "statement closing date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&periodFrom, "from", "", "first day of the statement period (default: day after the last completed session)")
	cmd.Flags().StringVar(&opening, "opening", "", "statement opening balance")
	cmd.Flags().StringVar(&closing, "closing", "", "statement closing balance")
	cmd.Flags().BoolVar(&autoMatch, "auto", false, "auto-match after import")
	return cmd
}

func optionalAmount(name, v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: invalid amount %q", name, v)
	}
	return d, nil
}

func newReconPendingCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List statement files waiting in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			files, err := importer.Scan(a.dir)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", f.Name, f.Size)
			}
			return nil
		},
	}
}

func newReconListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reconciliation sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecon(a, cmd, func(svc *recon.Service) error {
				sessions, err := svc.Store().List(cmd.Context())
				if err != nil {
					return err
				}
				r := newRenderer(cmd.OutOrStdout(), a.cfg.Business.Currency)
				tw := r.table()
				fmt.Fprintln(tw, "Session\tLedger\tStatement date\tStatus\tItems\t")
				for _, s := range sessions {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t\n", s.ID, s.BankLedgerID, s.StatementDate.Format("2006-01-02"), s.Status, len(s.Items))
				}
				return tw.Flush()
			})
		},
	}
}

func newReconShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session's items and reconciliation statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecon(a, cmd, func(svc *recon.Service) error {
				sess, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSession(newRenderer(cmd.OutOrStdout(), a.cfg.Business.Currency), sess)
				return nil
			})
		},
	}
}

func printSession(r *renderer, sess *model.ReconciliationSession) {
	rep := report.Reconciliation(sess)
	r.heading("Session %s (%s, version %d)", sess.ID, sess.Status, sess.Version)
	r.heading("Bank ledger %s, statement as on %s", sess.BankLedgerID, sess.StatementDate.Format("2006-01-02"))

	tw := r.table()
	fmt.Fprintln(tw, "Item\tSource\tDate\tRef\tDescription\tAmount\tReconciled\t")
	for _, it := range sess.Items {
		mark := ""
		if it.IsReconciled {
			mark = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s %s\t%s\t\n",
			it.ID, it.Source, it.Date.Format("2006-01-02"), it.Ref, it.Description, r.amount(it.Amount), it.Side, mark)
	}
	tw.Flush()

	sum := rep.Summary
	r.heading("")
	r.heading("Balance as per bank statement   %s", r.amount(sess.StatementClosing))
	r.heading("Less: payments not yet cleared  %s (%d)", r.amount(sum.UnreconciledCredits), len(rep.Payments))
	r.heading("Add: deposits not yet credited  %s (%d)", r.amount(sum.UnreconciledDebits), len(rep.Deposits))
	r.heading("Adjusted balance                %s", r.amount(sum.AdjustedBookBalance))
	r.heading("Balance as per books            %s", r.amount(sess.BookBalance))
	r.heading("Difference                      %s", r.amount(sum.Difference))
	if sum.UnmatchedBank > 0 {
		r.heading("%d bank lines have no reconciled book entry", sum.UnmatchedBank)
	}
}

func newReconToggleCommand(a *app) *cobra.Command {
	var (
		off     bool
		version int64
	)

	cmd := &cobra.Command{
		Use:   "toggle <session-id> <item-id>",
		Short: "Mark an item reconciled (or not, with --off)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecon(a, cmd, func(svc *recon.Service) error {
				sess, err := svc.SetReconciled(cmd.Context(), recon.ToggleCommand{
					SessionID:       args[0],
					ItemID:          args[1],
					Reconciled:      !off,
					ExpectedVersion: version,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %s reconciled=%t (session version %d)\n", args[1], !off, sess.Version)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "clear the reconciled flag")
	cmd.Flags().Int64Var(&version, "expected-version", 0, "fail unless the session is at this version")
	return cmd
}

func newReconMatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "match <session-id>",
		Short: "Auto-match bank lines to book entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecon(a, cmd, func(svc *recon.Service) error {
				pairs, err := svc.AutoMatch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Auto-matched %d pairs\n", len(pairs))
				return nil
			})
		},
	}
}

func newReconCompleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <session-id>",
		Short: "Complete a session; its items can no longer be toggled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecon(a, cmd, func(svc *recon.Service) error {
				sum, err := svc.Complete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				r := newRenderer(cmd.OutOrStdout(), a.cfg.Business.Currency)
				r.heading("Session %s completed", args[0])
				r.heading("Adjusted balance %s, difference %s", r.amount(sum.AdjustedBookBalance), r.amount(sum.Difference))
				if !sum.Balanced() {
					r.heading("WARNING: reconciliation does not agree with the books")
				}
				a.commit(cmd.Context(), "recon: complete "+args[0])
				return nil
			})
		},
	}
}

func newReconDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Discard a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecon(a, cmd, func(svc *recon.Service) error {
				if err := svc.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s deleted\n", args[0])
				return nil
			})
		},
	}
}
