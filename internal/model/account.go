package model

import "github.com/shopspring/decimal"

// AccountGroup is a node in the chart of account groups.
type AccountGroup struct {
	ID        string
	Name      string
	ParentID  string // "" = primary (root) group
	Nature    Side
	IsPrimary bool
}

// AccountType is an optional explicit classification tag on a ledger.
type AccountType string

const (
	AccountTypeNone      AccountType = ""
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeCapital   AccountType = "capital"
	AccountTypeCreditor  AccountType = "creditor"
	AccountTypeDebtor    AccountType = "debtor"
	AccountTypeBank      AccountType = "bank"
	AccountTypeCash      AccountType = "cash"
)

// LedgerAccount is a row in ledgers.csv with its resolved group path.
type LedgerAccount struct {
	ID             string
	Name           string
	GroupID        string
	GroupPath      []string // primary group first
	Nature         Side
	OpeningBalance decimal.Decimal
	OpeningType    Side
	CurrentBalance decimal.Decimal // Dr-positive, filled by replaying vouchers
	AccountType    AccountType
}

// PrimaryGroup returns the first element of the group path.
func (l LedgerAccount) PrimaryGroup() string {
	if len(l.GroupPath) == 0 {
		return ""
	}
	return l.GroupPath[0]
}

// OpeningSigned returns the opening balance as a Dr-positive amount.
func (l LedgerAccount) OpeningSigned() decimal.Decimal {
	return Balance{Amount: l.OpeningBalance, Side: l.OpeningType}.Signed()
}

// Current returns CurrentBalance with its Dr/Cr suffix.
func (l LedgerAccount) Current() Balance {
	return BalanceOf(l.CurrentBalance)
}
