// Package classify places ledgers into financial-statement buckets.
package classify

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/model"
)

// Bucket is a financial-statement classification.
type Bucket string

const (
	Income    Bucket = "income"
	Expense   Bucket = "expense"
	Asset     Bucket = "asset"
	Liability Bucket = "liability"
)

// IsProfitLoss reports whether the bucket belongs on the P&L statement.
func (b Bucket) IsProfitLoss() bool {
	return b == Income || b == Expense
}

// Canonical primary group names per bucket, in statement display order.
var (
	IncomeGroups = []string{
		accounts.GroupSales,
		accounts.GroupDirectIncomes,
		accounts.GroupIndirectIncomes,
	}
	ExpenseGroups = []string{
		accounts.GroupPurchases,
		accounts.GroupDirectExpenses,
		accounts.GroupIndirectExpenses,
	}
	LiabilityGroups = []string{
		accounts.GroupCapital,
		accounts.GroupCurrentLiab,
		accounts.GroupLoansLiab,
		accounts.GroupSuspense,
		accounts.GroupBranch,
	}
	AssetGroups = []string{
		accounts.GroupFixedAssets,
		accounts.GroupInvestments,
		accounts.GroupCurrentAssets,
		accounts.GroupMiscExpenses,
	}
)

// Rule is one classification step. Match reports the bucket and true when
// the rule decides the ledger.
type Rule interface {
	Match(l model.LedgerAccount) (Bucket, bool)
	String() string
}

// AccountTypeRule matches the ledger's explicit account_type tag.
type AccountTypeRule struct {
	Bucket Bucket
	Types  []model.AccountType
}

func (r AccountTypeRule) Match(l model.LedgerAccount) (Bucket, bool) {
	for _, t := range r.Types {
		if l.AccountType != model.AccountTypeNone && l.AccountType == t {
			return r.Bucket, true
		}
	}
	return "", false
}

func (r AccountTypeRule) String() string {
	return fmt.Sprintf("account_type→%s", r.Bucket)
}

// GroupNameRule matches when the primary group name equals or contains one
// of Names, ignoring case.
type GroupNameRule struct {
	Bucket Bucket
	Names  []string
}

func (r GroupNameRule) Match(l model.LedgerAccount) (Bucket, bool) {
	group := strings.ToLower(strings.TrimSpace(l.PrimaryGroup()))
	if group == "" {
		return "", false
	}
	for _, name := range r.Names {
		if strings.Contains(group, strings.ToLower(name)) {
			return r.Bucket, true
		}
	}
	return "", false
}

func (r GroupNameRule) String() string {
	return fmt.Sprintf("group→%s", r.Bucket)
}

// NatureRule falls back on the ledger's nature: Dr → asset, Cr → liability.
type NatureRule struct{}

func (NatureRule) Match(l model.LedgerAccount) (Bucket, bool) {
	switch l.Nature {
	case model.Dr:
		return Asset, true
	case model.Cr:
		return Liability, true
	}
	return "", false
}

func (NatureRule) String() string { return "nature" }

// DefaultRule always matches.
type DefaultRule struct {
	Bucket Bucket
}

func (r DefaultRule) Match(model.LedgerAccount) (Bucket, bool) {
	return r.Bucket, true
}

func (r DefaultRule) String() string {
	return fmt.Sprintf("default→%s", r.Bucket)
}

// DefaultRules is the statement precedence: P&L classification first, then
// liabilities, then assets, then nature, then asset.
func DefaultRules() []Rule {
	return []Rule{
		AccountTypeRule{Bucket: Income, Types: []model.AccountType{model.AccountTypeIncome}},
		AccountTypeRule{Bucket: Expense, Types: []model.AccountType{model.AccountTypeExpense}},
		GroupNameRule{Bucket: Income, Names: IncomeGroups},
		GroupNameRule{Bucket: Expense, Names: ExpenseGroups},
		AccountTypeRule{Bucket: Liability, Types: []model.AccountType{
			model.AccountTypeLiability, model.AccountTypeCreditor, model.AccountTypeCapital,
		}},
		GroupNameRule{Bucket: Liability, Names: LiabilityGroups},
		AccountTypeRule{Bucket: Asset, Types: []model.AccountType{
			model.AccountTypeAsset, model.AccountTypeDebtor, model.AccountTypeBank, model.AccountTypeCash,
		}},
		GroupNameRule{Bucket: Asset, Names: AssetGroups},
		NatureRule{},
		DefaultRule{Bucket: Asset},
	}
}
