// Package aggregate derives per-currency totals from a transaction
// snapshot. Results are recomputed from scratch on every call; nothing
// is cached or stored.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/models"
)

// Totals holds the income and expense sums for one currency.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net returns income minus expense, computed on demand.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// ByCurrency groups transactions by currency code in a single pass.
// Records without a currency count under models.DefaultCurrency.
func ByCurrency(txs []models.Transaction) map[string]Totals {
	totals := make(map[string]Totals)
	for _, tx := range txs {
		code := tx.Currency
		if code == "" {
			code = models.DefaultCurrency
		}

		t := totals[code]
		if tx.Mode == models.ModeIncome {
			t.Income = t.Income.Add(tx.Amount)
		} else {
			t.Expense = t.Expense.Add(tx.Amount)
		}
		totals[code] = t
	}
	return totals
}

// For returns the totals for one currency code, zero-valued when the
// currency has no transactions.
func For(totals map[string]Totals, currency string) Totals {
	return totals[currency]
}
