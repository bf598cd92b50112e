// Package report computes aggregate views over a transaction set. The
// engine is pure: it keeps no state of its own and derives everything
// from the transactions (and a display currency) it is handed.
package report

import (
	"context"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
)

// Converter is the currency boundary the engine reads through. A
// conversion degrades to identity on failure, so it never errors.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal
}

// ComputeTotals aggregates in native amounts, without conversion.
func ComputeTotals(txs []core.Transaction) core.Totals {
	return totals(txs, func(tx core.Transaction) decimal.Decimal { return tx.Amount })
}

// ComputeTotalsIn aggregates with every amount converted to the target
// display currency.
func ComputeTotalsIn(ctx context.Context, conv Converter, txs []core.Transaction, target string) core.Totals {
	out := totals(txs, func(tx core.Transaction) decimal.Decimal {
		return conv.Convert(ctx, tx.Amount, tx.CurrencyOrDefault(), target)
	})
	out.Currency = target
	return out
}

func totals(txs []core.Transaction, amount func(core.Transaction) decimal.Decimal) core.Totals {
	var income, expenses, debts, payments decimal.Decimal
	for _, tx := range txs {
		v := amount(tx)
		switch tx.Type {
		case core.Income:
			income = income.Add(v)
		case core.Expense:
			expenses = expenses.Add(v)
		case core.Debt:
			debts = debts.Add(v)
		case core.DebtPayment:
			payments = payments.Add(v)
		}
	}

	// Debt payments reduce the spendable balance but are tracked apart
	// from the owed amount: the balance answers "how much income is
	// unallocated", the debt balance answers "how much is still owed".
	return core.Totals{
		TotalIncome:       income,
		TotalExpenses:     expenses,
		TotalDebtBalance:  debts.Sub(payments).Abs(),
		TotalDebtPayments: payments,
		RemainingBalance:  income.Sub(expenses).Sub(payments),
	}
}

// CategoryBreakdown sums absolute amounts per category key for chart
// and report consumption. Income collapses into a single "Income" key;
// debt and debt-payment categories get distinguished prefixes so they
// never collide with expense categories.
func CategoryBreakdown(txs []core.Transaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		var key string
		switch tx.Type {
		case core.Income:
			key = "Income"
		case core.Expense:
			key = tx.Category
		case core.Debt:
			key = "Debt - " + tx.Category
		case core.DebtPayment:
			key = "Debt Payment - " + tx.Category
		default:
			continue
		}
		out[key] = out[key].Add(tx.Amount.Abs())
	}
	return out
}
