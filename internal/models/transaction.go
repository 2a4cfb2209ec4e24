package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mode is the income/expense polarity of a transaction.
type Mode string

const (
	ModeExpense Mode = "expense"
	ModeIncome  Mode = "income"
)

func (m Mode) Valid() bool {
	return m == ModeExpense || m == ModeIncome
}

// Frequency tags a recurring transaction template. It records how often
// the obligation recurs; materializing actual occurrences is the
// backend's job.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

func ParseFrequency(s string) (Frequency, bool) {
	switch Frequency(s) {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly,
		FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return Frequency(s), true
	}
	return "", false
}

// DefaultCurrency is assumed when a record carries no currency code.
const DefaultCurrency = "USD"

var currencies = []string{"USD", "EUR", "GBP", "AUD"}

// Currencies returns the supported currency codes in display order.
func Currencies() []string {
	out := make([]string, len(currencies))
	copy(out, currencies)
	return out
}

func ValidCurrency(code string) bool {
	for _, c := range currencies {
		if c == code {
			return true
		}
	}
	return false
}

// Transaction is a single income or expense record. The ID is assigned
// by the server; until a create round-trip confirms, it holds a
// client-temporary value.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Mode        Mode            `json:"mode"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	IsRecurring bool            `json:"isRecurring"`
	Frequency   Frequency       `json:"recurrenceFrequency,omitempty"` // set only when IsRecurring
}
