package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/ageing"
	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/report"
)

func newLedgerCommand(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "ledger <ledger-id>",
		Short: "Print a ledger statement with running balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			fromDate, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			toDate, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			stmt, err := report.LedgerStatement(snap, args[0], fromDate, toDate)
			if err != nil {
				return err
			}
			printStatement(newRenderer(cmd.OutOrStdout(), a.cfg.Business.Currency), stmt)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD)")
	return cmd
}

func printStatement(r *renderer, s ledger.Statement) {
	r.heading("Ledger: %s (%s)", s.Ledger.Name, s.Ledger.ID)
	tw := r.table()
	fmt.Fprintln(tw, "Date\tVoucher\tParticulars\tDebit\tCredit\tBalance\t")
	for _, row := range s.Rows {
		date := ""
		if !row.Date.IsZero() {
			date = row.Date.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			date, row.VoucherID, row.Particulars, r.blank(row.Debit), r.blank(row.Credit), r.balance(row.Balance))
	}
	debit, credit := s.Totals()
	fmt.Fprintf(tw, "\t\tTotal\t%s\t%s\t%s\t\n", r.amount(debit), r.amount(credit), r.balance(s.Closing()))
	tw.Flush()
	if !s.HasActivity() {
		r.heading("No entries in this period.")
	}
}

func newTrialBalanceCommand(a *app) *cobra.Command {
	var asOn string

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			date, err := parseDateFlag("as-on", asOn)
			if err != nil {
				return err
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			tb, err := report.TrialBalance(snap, date, a.reportOptions())
			if err != nil {
				return err
			}
			printTrialBalance(newRenderer(cmd.OutOrStdout(), a.cfg.Business.Currency), tb)
			return nil
		},
	}
	cmd.Flags().StringVar(&asOn, "as-on", "", "balance date (YYYY-MM-DD, default all entries)")
	return cmd
}

func printTrialBalance(r *renderer, tb *report.TrialBalanceReport) {
	r.heading("Trial Balance%s", asOnSuffix(tb.AsOn.IsZero(), tb.AsOn.Format("2006-01-02")))
	tw := r.table()
	fmt.Fprintln(tw, "Ledger\tGroup\tDebit\tCredit\t")
	for _, row := range tb.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", row.Name, row.Group, r.blank(row.Debit), r.blank(row.Credit))
	}
	fmt.Fprintf(tw, "Total\t\t%s\t%s\t\n", r.amount(tb.TotalDebit), r.amount(tb.TotalCredit))
	tw.Flush()
	r.warning(tb.Warning)
}

func asOnSuffix(zero bool, date string) string {
	if zero {
		return ""
	}
	return " as on " + date
}

func newBalanceSheetCommand(a *app) *cobra.Command {
	var asOn string

	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Print the balance sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			date, err := parseDateFlag("as-on", asOn)
			if err != nil {
				return err
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			bs, err := report.BalanceSheet(snap, date, a.reportOptions())
			if err != nil {
				return err
			}
			printBalanceSheet(newRenderer(cmd.OutOrStdout(), a.cfg.Business.Currency), bs)
			return nil
		},
	}
	cmd.Flags().StringVar(&asOn, "as-on", "", "balance date (YYYY-MM-DD, default all entries)")
	return cmd
}

func printBalanceSheet(r *renderer, bs *report.BalanceSheetReport) {
	r.heading("Balance Sheet%s", asOnSuffix(bs.AsOn.IsZero(), bs.AsOn.Format("2006-01-02")))
	r.heading("\nLiabilities")
	r.sections(bs.Liabilities.View, model.Cr)
	label := report.ProfitLossLabel
	if bs.NetProfit.IsNegative() {
		label += " (loss)"
	}
	r.heading("%s  %s", label, r.amount(bs.ProfitLoss))
	r.heading("Total liabilities  %s", r.amount(bs.LiabilitiesTotal))

	r.heading("\nAssets")
	r.sections(bs.Assets.View, model.Dr)
	r.heading("Total assets  %s", r.amount(bs.Assets.Total))
	r.warning(bs.Warning)
}

func newProfitLossCommand(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "profit-loss",
		Short: "Print the profit and loss statement",
		Long:  "Print income against expenses. Without --from the period starts at the fiscal year containing --to.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			toDate, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}
			if toDate.IsZero() {
				toDate = today()
			}
			fromDate, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			if fromDate.IsZero() {
				if fromDate, err = a.cfg.Fiscal.StartOf(toDate); err != nil {
					return err
				}
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			pl, err := report.ProfitLoss(snap, fromDate, toDate, a.reportOptions())
			if err != nil {
				return err
			}
			printProfitLoss(newRenderer(cmd.OutOrStdout(), a.cfg.Business.Currency), pl)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD, default today)")
	return cmd
}

func printProfitLoss(r *renderer, pl *report.ProfitLossReport) {
	r.heading("Profit & Loss %s to %s", pl.From.Format("2006-01-02"), pl.To.Format("2006-01-02"))
	r.heading("\nIncome")
	r.sections(pl.Income.View, model.Cr)
	r.heading("Total income  %s", r.amount(pl.Income.Total))
	r.heading("\nExpenses")
	r.sections(pl.Expense.View, model.Dr)
	r.heading("Total expenses  %s", r.amount(pl.Expense.Total))
	if pl.IsLoss() {
		r.heading("\nNet loss  %s", r.amount(pl.NetProfit.Abs()))
	} else {
		r.heading("\nNet profit  %s", r.amount(pl.NetProfit))
	}
}

func newAgeingCommand(a *app) *cobra.Command {
	var asOn string

	cmd := &cobra.Command{
		Use:   "ageing",
		Short: "Print receivables ageing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			date, err := parseDateFlag("as-on", asOn)
			if err != nil {
				return err
			}
			if date.IsZero() {
				date = today()
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			printAgeing(newRenderer(cmd.OutOrStdout(), a.cfg.Business.Currency), report.Ageing(snap, date))
			return nil
		},
	}
	cmd.Flags().StringVar(&asOn, "as-on", "", "ageing date (YYYY-MM-DD, default today)")
	return cmd
}

func printAgeing(r *renderer, rep *report.AgeingReport) {
	r.heading("Receivables ageing as on %s", rep.AsOn.Format("2006-01-02"))
	tw := r.table()
	fmt.Fprint(tw, "Party\t")
	for b := ageing.Current; b <= ageing.Above90; b++ {
		fmt.Fprintf(tw, "%s\t", r.title.String(b.String()))
	}
	fmt.Fprintln(tw, "Total\t")
	for _, row := range rep.Rows {
		fmt.Fprintf(tw, "%s\t", row.Name)
		for _, v := range row.Buckets {
			fmt.Fprintf(tw, "%s\t", r.amount(v))
		}
		fmt.Fprintf(tw, "%s\t\n", r.amount(row.Total))
	}
	fmt.Fprint(tw, "Total\t")
	for _, v := range rep.Totals {
		fmt.Fprintf(tw, "%s\t", r.amount(v))
	}
	fmt.Fprintf(tw, "%s\t\n", r.amount(rep.Totals.Total()))
	tw.Flush()
}

func newReportCommand(a *app) *cobra.Command {
	var asOn, from string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print every statement, computed in parallel from one read of the books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			date, err := parseDateFlag("as-on", asOn)
			if err != nil {
				return err
			}
			if date.IsZero() {
				date = today()
			}
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			if start.IsZero() {
				if start, err = a.cfg.Fiscal.StartOf(date); err != nil {
					return err
				}
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			set, err := report.Bundle(cmd.Context(), snap, report.Period{From: start, To: date}, a.reportOptions())
			if err != nil {
				return err
			}

			r := newRenderer(cmd.OutOrStdout(), a.cfg.Business.Currency)
			r.heading("%s", a.cfg.Business.Name)
			printTrialBalance(r, set.TrialBalance)
			r.heading("")
			printProfitLoss(r, set.ProfitLoss)
			r.heading("")
			printBalanceSheet(r, set.BalanceSheet)
			r.heading("")
			printAgeing(r, set.Ageing)
			return nil
		},
	}
	cmd.Flags().StringVar(&asOn, "as-on", "", "statement date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&from, "from", "", "profit and loss start (default fiscal year start)")
	return cmd
}
