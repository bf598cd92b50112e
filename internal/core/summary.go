package core

import "github.com/shopspring/decimal"

// Totals is the aggregate view over a transaction set, expressed in a
// single display currency.
type Totals struct {
	Currency          string          `json:"currency"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	TotalDebtBalance  decimal.Decimal `json:"totalDebtBalance"`
	TotalDebtPayments decimal.Decimal `json:"totalDebtPayments"`
	RemainingBalance  decimal.Decimal `json:"remainingBalance"`
}

// BudgetStatus pairs a category's configured limit with what is left of it.
type BudgetStatus struct {
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Remaining decimal.Decimal `json:"remaining"`
}
