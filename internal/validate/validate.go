// Package validate checks form candidates against field constraints.
// All checks are synchronous and side-effect free; a non-empty result
// blocks submission before any network call.
package validate

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/dto"
	"github.com/homeledger/homeledger/internal/models"
	"github.com/homeledger/homeledger/internal/taxonomy"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate accepts the formats records move around in: plain calendar
// dates and full timestamps.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Transaction validates a candidate and returns a field-keyed error
// map; an empty map means the candidate may be submitted.
func Transaction(d dto.TransactionDraft) map[string]string {
	errors := map[string]string{}

	if strings.TrimSpace(d.Description) == "" {
		errors["description"] = "Description is required"
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(d.Amount))
	if d.Amount == "" || err != nil || !amount.IsPositive() {
		errors["amount"] = "Amount must be greater than 0"
	}

	mode := models.Mode(d.Mode)
	if !mode.Valid() {
		errors["mode"] = "Mode must be expense or income"
	}

	if d.Category == "" {
		errors["category"] = "Category is required"
	} else if mode.Valid() && !taxonomy.Valid(mode, d.Category) {
		errors["category"] = "Category is not valid for the selected mode"
	}

	if d.Currency != "" && !models.ValidCurrency(d.Currency) {
		errors["currency"] = "Currency is not supported"
	}

	if d.Date == "" {
		errors["date"] = "Date is required"
	} else if _, err := ParseDate(d.Date); err != nil {
		errors["date"] = "Date is not a valid date"
	}

	if d.IsRecurring {
		if _, ok := models.ParseFrequency(d.Frequency); !ok {
			errors["frequency"] = "Recurrence frequency is required for recurring transactions"
		}
	}

	return errors
}

// Goal validates a savings goal candidate.
func Goal(d dto.GoalDraft) map[string]string {
	errors := map[string]string{}

	if strings.TrimSpace(d.Name) == "" {
		errors["name"] = "Goal name is required"
	}

	target, err := decimal.NewFromString(strings.TrimSpace(d.TargetAmount))
	targetValid := d.TargetAmount != "" && err == nil && target.IsPositive()
	if !targetValid {
		errors["targetAmount"] = "Target amount must be greater than 0"
	}

	if d.CurrentAmount != "" {
		current, err := decimal.NewFromString(strings.TrimSpace(d.CurrentAmount))
		switch {
		case err != nil:
			errors["currentAmount"] = "Current amount must be a number"
		case current.IsNegative() || (targetValid && current.GreaterThan(target)):
			errors["currentAmount"] = "Current amount must be between 0 and target amount"
		}
	}

	if d.Deadline == "" {
		errors["deadline"] = "Deadline is required"
	} else if _, err := ParseDate(d.Deadline); err != nil {
		errors["deadline"] = "Deadline is not a valid date"
	}

	return errors
}
