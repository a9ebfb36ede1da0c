package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Checks reported in a Warning.
const (
	CheckTrialBalance = "trial_balance"
	CheckBalanceSheet = "balance_sheet"
)

// Warning reports a cross-check difference above model.Epsilon. It never
// stops a report from being produced and nothing is corrected.
type Warning struct {
	Check      string
	Difference decimal.Decimal
}

func (w Warning) String() string {
	switch w.Check {
	case CheckTrialBalance:
		return fmt.Sprintf("trial balance does not agree: difference %s", w.Difference.StringFixed(2))
	case CheckBalanceSheet:
		return fmt.Sprintf("balance sheet does not agree: difference %s", w.Difference.StringFixed(2))
	}
	return fmt.Sprintf("%s: difference %s", w.Check, w.Difference.StringFixed(2))
}

// TrialBalanceDifference is |Σ debit balances − Σ credit balances|.
func TrialBalanceDifference(totalDr, totalCr decimal.Decimal) decimal.Decimal {
	return totalDr.Sub(totalCr).Abs()
}

// BalanceSheetDifference is |totalAssets − (totalLiabilities + netProfit)|.
func BalanceSheetDifference(totalAssets, totalLiabilities, netProfit decimal.Decimal) decimal.Decimal {
	return totalAssets.Sub(totalLiabilities.Add(netProfit)).Abs()
}

// warn returns a Warning when diff exceeds model.Epsilon, else nil.
func warn(check string, diff decimal.Decimal) *Warning {
	if !diff.GreaterThan(model.Epsilon) {
		return nil
	}
	return &Warning{Check: check, Difference: diff}
}
