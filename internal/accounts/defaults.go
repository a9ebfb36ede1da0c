package accounts

import "github.com/cleared-dev/books/internal/model"

// Canonical primary group names.
const (
	GroupCapital          = "Capital Account"
	GroupCurrentLiab      = "Current Liabilities"
	GroupLoansLiab        = "Loans (Liability)"
	GroupSuspense         = "Suspense A/c"
	GroupBranch           = "Branch / Divisions"
	GroupFixedAssets      = "Fixed Assets"
	GroupInvestments      = "Investments"
	GroupCurrentAssets    = "Current Assets"
	GroupMiscExpenses     = "Misc. Expenses (ASSET)"
	GroupSales            = "Sales Accounts"
	GroupDirectIncomes    = "Direct Incomes"
	GroupIndirectIncomes  = "Indirect Incomes"
	GroupPurchases        = "Purchase Accounts"
	GroupDirectExpenses   = "Direct Expenses"
	GroupIndirectExpenses = "Indirect Expenses"

	GroupSundryDebtors   = "Sundry Debtors"
	GroupSundryCreditors = "Sundry Creditors"
	GroupBankAccounts    = "Bank Accounts"
	GroupCashInHand      = "Cash-in-Hand"
)

// DefaultGroups returns the standard chart of groups for a new books
// directory: fifteen primary groups and the common subgroups.
func DefaultGroups() []model.AccountGroup {
	p := func(id, name string, nature model.Side) model.AccountGroup {
		return model.AccountGroup{ID: id, Name: name, Nature: nature, IsPrimary: true}
	}
	sub := func(id, name, parent string, nature model.Side) model.AccountGroup {
		return model.AccountGroup{ID: id, Name: name, ParentID: parent, Nature: nature}
	}

	return []model.AccountGroup{
		p("capital", GroupCapital, model.Cr),
		sub("reserves", "Reserves & Surplus", "capital", model.Cr),
		p("current-liabilities", GroupCurrentLiab, model.Cr),
		sub("duties-taxes", "Duties & Taxes", "current-liabilities", model.Cr),
		sub("provisions", "Provisions", "current-liabilities", model.Cr),
		sub("sundry-creditors", GroupSundryCreditors, "current-liabilities", model.Cr),
		p("loans-liability", GroupLoansLiab, model.Cr),
		sub("bank-od", "Bank OD A/c", "loans-liability", model.Cr),
		sub("secured-loans", "Secured Loans", "loans-liability", model.Cr),
		sub("unsecured-loans", "Unsecured Loans", "loans-liability", model.Cr),
		p("suspense", GroupSuspense, model.Cr),
		p("branch", GroupBranch, model.Cr),
		p("fixed-assets", GroupFixedAssets, model.Dr),
		p("investments", GroupInvestments, model.Dr),
		p("current-assets", GroupCurrentAssets, model.Dr),
		sub("bank-accounts", GroupBankAccounts, "current-assets", model.Dr),
		sub("cash-in-hand", GroupCashInHand, "current-assets", model.Dr),
		sub("deposits", "Deposits (Asset)", "current-assets", model.Dr),
		sub("loans-advances", "Loans & Advances (Asset)", "current-assets", model.Dr),
		sub("stock-in-hand", "Stock-in-Hand", "current-assets", model.Dr),
		sub("sundry-debtors", GroupSundryDebtors, "current-assets", model.Dr),
		p("misc-expenses", GroupMiscExpenses, model.Dr),
		p("sales", GroupSales, model.Cr),
		p("direct-incomes", GroupDirectIncomes, model.Cr),
		p("indirect-incomes", GroupIndirectIncomes, model.Cr),
		p("purchases", GroupPurchases, model.Dr),
		p("direct-expenses", GroupDirectExpenses, model.Dr),
		p("indirect-expenses", GroupIndirectExpenses, model.Dr),
	}
}

// DefaultLedgers returns the ledgers every new books directory starts with.
func DefaultLedgers() []model.LedgerAccount {
	return []model.LedgerAccount{
		{ID: "cash", Name: "Cash", GroupID: "cash-in-hand", Nature: model.Dr, OpeningType: model.Dr, AccountType: model.AccountTypeCash},
		{ID: "capital", Name: "Owner's Capital", GroupID: "capital", Nature: model.Cr, OpeningType: model.Cr, AccountType: model.AccountTypeCapital},
		{ID: "sales", Name: "Sales", GroupID: "sales", Nature: model.Cr, OpeningType: model.Cr, AccountType: model.AccountTypeIncome},
		{ID: "purchases", Name: "Purchases", GroupID: "purchases", Nature: model.Dr, OpeningType: model.Dr, AccountType: model.AccountTypeExpense},
	}
}
