// Package report builds the statement tables handed to the presentation
// layer: trial balance, profit and loss, balance sheet, ledger statement,
// ageing and reconciliation.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/ageing"
	"github.com/cleared-dev/books/internal/classify"
	"github.com/cleared-dev/books/internal/hierarchy"
	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/source"
)

// ProfitLossLabel is the balance-sheet line carrying net profit or loss.
const ProfitLossLabel = "Profit & Loss A/c"

// ErrUnknownLedger is returned for a ledger ID not in the snapshot.
var ErrUnknownLedger = errors.New("unknown ledger")

// Options controls statement building.
type Options struct {
	ShowZero bool
}

// Row is one ledger line of a statement.
type Row struct {
	LedgerID string
	Name     string
	Group    string // "Primary > Sub" path
	Debit    decimal.Decimal
	Credit   decimal.Decimal
}

// Side is one side of a two-sided statement.
type Side struct {
	View  hierarchy.View
	Total decimal.Decimal // on the side's natural Dr/Cr direction
}

// TrialBalanceReport lists every ledger's closing balance.
type TrialBalanceReport struct {
	AsOn        time.Time
	Rows        []Row
	View        hierarchy.View
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
	Warning     *Warning
}

// TrialBalanceOrder is the primary-group display order of the trial balance.
func TrialBalanceOrder() []string {
	return concat(classify.LiabilityGroups, classify.AssetGroups, classify.IncomeGroups, classify.ExpenseGroups)
}

// TrialBalance computes closing balances as on asOn (zero = everything).
func TrialBalance(snap *source.Snapshot, asOn time.Time, opts Options) (*TrialBalanceReport, error) {
	ledgers := ledger.ReplayAll(snap.Ledgers, snap.Vouchers, asOn)
	tree, err := hierarchy.Build(snap.Groups, hierarchy.LinesFrom(ledgers), hierarchy.Options{ShowZero: opts.ShowZero})
	if err != nil {
		return nil, fmt.Errorf("building trial balance: %w", err)
	}

	view := tree.Sections(TrialBalanceOrder())
	r := &TrialBalanceReport{
		AsOn:        asOn,
		Rows:        rowsOf(view),
		View:        view,
		TotalDebit:  view.TotalDr,
		TotalCredit: view.TotalCr,
		Difference:  TrialBalanceDifference(view.TotalDr, view.TotalCr),
	}
	r.Warning = warn(CheckTrialBalance, r.Difference)
	return r, nil
}

// ProfitLossReport is income against expenses over a period.
type ProfitLossReport struct {
	From, To  time.Time
	Income    Side
	Expense   Side
	NetProfit decimal.Decimal // negative is a loss
}

// IsLoss reports whether expenses exceeded income.
func (r *ProfitLossReport) IsLoss() bool {
	return r.NetProfit.IsNegative()
}

// ProfitLoss computes income and expenses from entries dated in [from, to].
// With a zero from, opening balances are included.
func ProfitLoss(snap *source.Snapshot, from, to time.Time, opts Options) (*ProfitLossReport, error) {
	ledgers := periodBalances(snap, from, to)
	res := classify.Classify(ledgers)

	income, err := side(snap.Groups, res.Ledgers[classify.Income], classify.IncomeGroups, opts, res.TotalIncome)
	if err != nil {
		return nil, fmt.Errorf("building income: %w", err)
	}
	expense, err := side(snap.Groups, res.Ledgers[classify.Expense], classify.ExpenseGroups, opts, res.TotalExpense)
	if err != nil {
		return nil, fmt.Errorf("building expenses: %w", err)
	}
	return &ProfitLossReport{
		From:      from,
		To:        to,
		Income:    income,
		Expense:   expense,
		NetProfit: res.NetProfit(),
	}, nil
}

// BalanceSheetReport is liabilities against assets as on a date.
type BalanceSheetReport struct {
	AsOn        time.Time
	Liabilities Side
	Assets      Side

	// ProfitLoss is |NetProfit|, always shown on the liabilities side.
	ProfitLoss       decimal.Decimal
	NetProfit        decimal.Decimal
	LiabilitiesTotal decimal.Decimal // Liabilities.Total + ProfitLoss, as displayed
	Difference       decimal.Decimal
	Warning          *Warning
}

// BalanceSheet classifies closing balances as on asOn. Net profit to date
// is carried as a ProfitLossLabel line on the liabilities side using its
// magnitude, including when it is a loss.
func BalanceSheet(snap *source.Snapshot, asOn time.Time, opts Options) (*BalanceSheetReport, error) {
	ledgers := ledger.ReplayAll(snap.Ledgers, snap.Vouchers, asOn)
	res := classify.Classify(ledgers)

	liab, err := side(snap.Groups, res.Ledgers[classify.Liability], classify.LiabilityGroups, opts, res.TotalLiabilities)
	if err != nil {
		return nil, fmt.Errorf("building liabilities: %w", err)
	}
	assets, err := side(snap.Groups, res.Ledgers[classify.Asset], classify.AssetGroups, opts, res.TotalAssets)
	if err != nil {
		return nil, fmt.Errorf("building assets: %w", err)
	}

	np := res.NetProfit()
	r := &BalanceSheetReport{
		AsOn:             asOn,
		Liabilities:      liab,
		Assets:           assets,
		ProfitLoss:       np.Abs(),
		NetProfit:        np,
		LiabilitiesTotal: liab.Total.Add(np.Abs()),
		Difference:       BalanceSheetDifference(res.TotalAssets, res.TotalLiabilities, np),
	}
	r.Warning = warn(CheckBalanceSheet, r.Difference)
	return r, nil
}

// LedgerStatement returns the running-balance statement of one ledger.
func LedgerStatement(snap *source.Snapshot, ledgerID string, from, to time.Time) (ledger.Statement, error) {
	acct, ok := snap.Ledger(ledgerID)
	if !ok {
		return ledger.Statement{}, fmt.Errorf("%w: %q", ErrUnknownLedger, ledgerID)
	}
	return ledger.Compute(acct, snap.Vouchers, snap.Names(), from, to), nil
}

// AgeingReport is the receivables ageing table.
type AgeingReport struct {
	AsOn   time.Time
	Rows   []ageing.Row
	Totals ageing.Buckets
}

// Ageing ages every receivable party: ledgers under the Sundry Debtors
// group or tagged as debtors.
func Ageing(snap *source.Snapshot, asOn time.Time) *AgeingReport {
	var parties []model.LedgerAccount
	for _, l := range ledger.ReplayAll(snap.Ledgers, snap.Vouchers, asOn) {
		if isReceivable(l) {
			parties = append(parties, l)
		}
	}
	rows := ageing.Compute(ageing.PartiesFrom(parties, snap.Invoices), asOn)
	return &AgeingReport{AsOn: asOn, Rows: rows, Totals: ageing.Totals(rows)}
}

func isReceivable(l model.LedgerAccount) bool {
	if l.AccountType == model.AccountTypeDebtor {
		return true
	}
	for _, g := range l.GroupPath {
		if strings.EqualFold(g, accounts.GroupSundryDebtors) {
			return true
		}
	}
	return false
}

func periodBalances(snap *source.Snapshot, from, to time.Time) []model.LedgerAccount {
	if from.IsZero() {
		return ledger.ReplayAll(snap.Ledgers, snap.Vouchers, to)
	}
	mv := ledger.Movement(snap.Vouchers, from, to)
	out := make([]model.LedgerAccount, len(snap.Ledgers))
	for i, l := range snap.Ledgers {
		l.CurrentBalance = mv[l.ID]
		out[i] = l
	}
	return out
}

func side(groups []model.AccountGroup, ledgers []model.LedgerAccount, order []string, opts Options, total decimal.Decimal) (Side, error) {
	tree, err := hierarchy.Build(groups, hierarchy.LinesFrom(ledgers), hierarchy.Options{ShowZero: opts.ShowZero})
	if err != nil {
		return Side{}, err
	}
	return Side{View: tree.Sections(order), Total: total}, nil
}

// rowsOf flattens a view into ledger rows in display order.
func rowsOf(view hierarchy.View) []Row {
	var rows []Row
	add := func(path []string, lines []hierarchy.Line) {
		for _, l := range lines {
			r := Row{LedgerID: l.LedgerID, Name: l.Name, Group: hierarchy.JoinPath(path), Debit: decimal.Zero, Credit: decimal.Zero}
			if l.Balance.Side == model.Cr {
				r.Credit = l.Balance.Amount
			} else {
				r.Debit = l.Balance.Amount
			}
			rows = append(rows, r)
		}
	}
	for _, s := range view.Sections {
		add([]string{s.Name}, s.Ledgers)
		for _, sg := range s.Subgroups {
			add(append([]string{s.Name}, sg.Path...), sg.Ledgers)
		}
	}
	return rows
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
