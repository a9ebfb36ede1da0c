package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/ageing"
	"github.com/cleared-dev/books/internal/hierarchy"
	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/recon"
	"github.com/cleared-dev/books/internal/report"
)

const dateLayout = "2006-01-02"

// Amounts travel as fixed two-place strings; balances carry their Dr/Cr suffix.
func amount(d decimal.Decimal) string { return d.StringFixed(2) }

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

type warningJSON struct {
	Check      string `json:"check"`
	Difference string `json:"difference"`
	Message    string `json:"message"`
}

func toWarning(w *report.Warning) *warningJSON {
	if w == nil {
		return nil
	}
	return &warningJSON{Check: w.Check, Difference: amount(w.Difference), Message: w.String()}
}

type lineJSON struct {
	LedgerID string `json:"ledger_id"`
	Name     string `json:"name"`
	Balance  string `json:"balance"`
}

type subgroupJSON struct {
	Label   string     `json:"label"`
	Ledgers []lineJSON `json:"ledgers"`
	TotalDr string     `json:"total_dr"`
	TotalCr string     `json:"total_cr"`
}

type sectionJSON struct {
	Name      string         `json:"name"`
	Ledgers   []lineJSON     `json:"ledgers"`
	Subgroups []subgroupJSON `json:"subgroups"`
	TotalDr   string         `json:"total_dr"`
	TotalCr   string         `json:"total_cr"`
}

func toLines(lines []hierarchy.Line) []lineJSON {
	out := make([]lineJSON, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineJSON{LedgerID: l.LedgerID, Name: l.Name, Balance: l.Balance.String()})
	}
	return out
}

func toSections(v hierarchy.View) []sectionJSON {
	out := make([]sectionJSON, 0, len(v.Sections))
	for _, s := range v.Sections {
		sj := sectionJSON{
			Name:      s.Name,
			Ledgers:   toLines(s.Ledgers),
			Subgroups: make([]subgroupJSON, 0, len(s.Subgroups)),
			TotalDr:   amount(s.TotalDr),
			TotalCr:   amount(s.TotalCr),
		}
		for _, sg := range s.Subgroups {
			sj.Subgroups = append(sj.Subgroups, subgroupJSON{
				Label:   sg.Label,
				Ledgers: toLines(sg.Ledgers),
				TotalDr: amount(sg.TotalDr),
				TotalCr: amount(sg.TotalCr),
			})
		}
		out = append(out, sj)
	}
	return out
}

type sideJSON struct {
	Sections []sectionJSON `json:"sections"`
	Total    string        `json:"total"`
}

func toSide(s report.Side) sideJSON {
	return sideJSON{Sections: toSections(s.View), Total: amount(s.Total)}
}

type trialBalanceRowJSON struct {
	LedgerID string `json:"ledger_id"`
	Name     string `json:"name"`
	Group    string `json:"group"`
	Debit    string `json:"debit"`
	Credit   string `json:"credit"`
}

type trialBalanceJSON struct {
	AsOn        string                `json:"as_on,omitempty"`
	Rows        []trialBalanceRowJSON `json:"rows"`
	TotalDebit  string                `json:"total_debit"`
	TotalCredit string                `json:"total_credit"`
	Difference  string                `json:"difference"`
	Warning     *warningJSON          `json:"warning,omitempty"`
}

func toTrialBalance(r *report.TrialBalanceReport) trialBalanceJSON {
	out := trialBalanceJSON{
		AsOn:        dateString(r.AsOn),
		Rows:        make([]trialBalanceRowJSON, 0, len(r.Rows)),
		TotalDebit:  amount(r.TotalDebit),
		TotalCredit: amount(r.TotalCredit),
		Difference:  amount(r.Difference),
		Warning:     toWarning(r.Warning),
	}
	for _, row := range r.Rows {
		out.Rows = append(out.Rows, trialBalanceRowJSON{
			LedgerID: row.LedgerID,
			Name:     row.Name,
			Group:    row.Group,
			Debit:    amount(row.Debit),
			Credit:   amount(row.Credit),
		})
	}
	return out
}

type profitLossJSON struct {
	From      string   `json:"from,omitempty"`
	To        string   `json:"to,omitempty"`
	Income    sideJSON `json:"income"`
	Expense   sideJSON `json:"expense"`
	NetProfit string   `json:"net_profit"`
	IsLoss    bool     `json:"is_loss"`
}

func toProfitLoss(r *report.ProfitLossReport) profitLossJSON {
	return profitLossJSON{
		From:      dateString(r.From),
		To:        dateString(r.To),
		Income:    toSide(r.Income),
		Expense:   toSide(r.Expense),
		NetProfit: amount(r.NetProfit),
		IsLoss:    r.IsLoss(),
	}
}

type profitLossLineJSON struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
	IsLoss bool   `json:"is_loss"`
}

type balanceSheetJSON struct {
	AsOn             string             `json:"as_on,omitempty"`
	Liabilities      sideJSON           `json:"liabilities"`
	ProfitLoss       profitLossLineJSON `json:"profit_loss"`
	LiabilitiesTotal string             `json:"liabilities_total"`
	Assets           sideJSON           `json:"assets"`
	Difference       string             `json:"difference"`
	Warning          *warningJSON       `json:"warning,omitempty"`
}

func toBalanceSheet(r *report.BalanceSheetReport) balanceSheetJSON {
	return balanceSheetJSON{
		AsOn:        dateString(r.AsOn),
		Liabilities: toSide(r.Liabilities),
		ProfitLoss: profitLossLineJSON{
			Label:  report.ProfitLossLabel,
			Amount: amount(r.ProfitLoss),
			IsLoss: r.NetProfit.IsNegative(),
		},
		LiabilitiesTotal: amount(r.LiabilitiesTotal),
		Assets:           toSide(r.Assets),
		Difference:       amount(r.Difference),
		Warning:          toWarning(r.Warning),
	}
}

type ageingRowJSON struct {
	LedgerID string            `json:"ledger_id"`
	Name     string            `json:"name"`
	Buckets  map[string]string `json:"buckets"`
	Total    string            `json:"total"`
	Invoices int               `json:"invoices"`
}

type ageingJSON struct {
	AsOn   string            `json:"as_on,omitempty"`
	Rows   []ageingRowJSON   `json:"rows"`
	Totals map[string]string `json:"totals"`
}

func toBuckets(b ageing.Buckets) map[string]string {
	out := make(map[string]string, len(b))
	for i, v := range b {
		out[ageing.Band(i).String()] = amount(v)
	}
	return out
}

func toAgeing(r *report.AgeingReport) ageingJSON {
	out := ageingJSON{AsOn: dateString(r.AsOn), Rows: make([]ageingRowJSON, 0, len(r.Rows)), Totals: toBuckets(r.Totals)}
	for _, row := range r.Rows {
		out.Rows = append(out.Rows, ageingRowJSON{
			LedgerID: row.LedgerID,
			Name:     row.Name,
			Buckets:  toBuckets(row.Buckets),
			Total:    amount(row.Total),
			Invoices: row.Invoices,
		})
	}
	return out
}

type statementRowJSON struct {
	Date        string `json:"date"`
	VoucherID   string `json:"voucher_id,omitempty"`
	VoucherType string `json:"voucher_type,omitempty"`
	Particulars string `json:"particulars"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Balance     string `json:"balance"`
}

type statementJSON struct {
	LedgerID string             `json:"ledger_id"`
	Name     string             `json:"name"`
	From     string             `json:"from,omitempty"`
	To       string             `json:"to,omitempty"`
	Rows     []statementRowJSON `json:"rows"`
	Closing  string             `json:"closing"`
}

func toStatement(s ledger.Statement) statementJSON {
	out := statementJSON{
		LedgerID: s.Ledger.ID,
		Name:     s.Ledger.Name,
		From:     dateString(s.From),
		To:       dateString(s.To),
		Rows:     make([]statementRowJSON, 0, len(s.Rows)),
		Closing:  s.Closing().String(),
	}
	for _, r := range s.Rows {
		out.Rows = append(out.Rows, statementRowJSON{
			Date:        dateString(r.Date),
			VoucherID:   r.VoucherID,
			VoucherType: string(r.VoucherType),
			Particulars: r.Particulars,
			Debit:       amount(r.Debit),
			Credit:      amount(r.Credit),
			Balance:     r.Balance.String(),
		})
	}
	return out
}

type itemJSON struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Ref         string `json:"ref"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Side        string `json:"side"`
	Reconciled  bool   `json:"reconciled"`
}

type summaryJSON struct {
	ReconciledAmount    string `json:"reconciled_amount"`
	ReconciledCount     int    `json:"reconciled_count"`
	UnreconciledDebits  string `json:"unreconciled_debits"`
	UnreconciledCredits string `json:"unreconciled_credits"`
	UnmatchedBank       int    `json:"unmatched_bank"`
	AdjustedBookBalance string `json:"adjusted_book_balance"`
	Difference          string `json:"difference"`
	Balanced            bool   `json:"balanced"`
}

type sessionJSON struct {
	ID               string      `json:"id"`
	BankLedgerID     string      `json:"bank_ledger_id"`
	StatementDate    string      `json:"statement_date"`
	StatementOpening string      `json:"statement_opening"`
	StatementClosing string      `json:"statement_closing"`
	BookBalance      string      `json:"book_balance"`
	Status           string      `json:"status"`
	Version          int64       `json:"version"`
	Items            []itemJSON  `json:"items"`
	Summary          summaryJSON `json:"summary"`
}

func toSummary(s recon.Summary) summaryJSON {
	return summaryJSON{
		ReconciledAmount:    amount(s.ReconciledAmount),
		ReconciledCount:     s.ReconciledCount,
		UnreconciledDebits:  amount(s.UnreconciledDebits),
		UnreconciledCredits: amount(s.UnreconciledCredits),
		UnmatchedBank:       s.UnmatchedBank,
		AdjustedBookBalance: amount(s.AdjustedBookBalance),
		Difference:          amount(s.Difference),
		Balanced:            s.Balanced(),
	}
}

func toSession(s *model.ReconciliationSession) sessionJSON {
	out := sessionJSON{
		ID:               s.ID,
		BankLedgerID:     s.BankLedgerID,
		StatementDate:    dateString(s.StatementDate),
		StatementOpening: amount(s.StatementOpening),
		StatementClosing: amount(s.StatementClosing),
		BookBalance:      amount(s.BookBalance),
		Status:           string(s.Status),
		Version:          s.Version,
		Items:            make([]itemJSON, 0, len(s.Items)),
		Summary:          toSummary(recon.Summarize(s)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, itemJSON{
			ID:          it.ID,
			Source:      string(it.Source),
			Ref:         it.Ref,
			Date:        dateString(it.Date),
			Description: it.Description,
			Amount:      amount(it.Amount),
			Side:        string(it.Side),
			Reconciled:  it.IsReconciled,
		})
	}
	return out
}
