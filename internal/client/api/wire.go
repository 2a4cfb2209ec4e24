package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/dto"
	"github.com/homeledger/homeledger/internal/models"
	"github.com/homeledger/homeledger/pkg/helpers"
)

// Server vocabulary lives in this file and nowhere else. Everything
// crossing the wire is translated to or from internal model shapes
// here.

const wireDateLayout = "2006-01-02"

type wireCategory struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

type wireRecord struct {
	ExpenseID           int64           `json:"expenseId,omitempty"`
	Amount              json.RawMessage `json:"amount"`
	Currency            string          `json:"currency"`
	Category            wireCategory    `json:"category"`
	Description         string          `json:"description"`
	ExpenseDate         string          `json:"expenseDate"`
	TransactionType     string          `json:"transactionType"`
	IsRecurring         *bool           `json:"isRecurring"`
	RecurrenceFrequency string          `json:"recurrenceFrequency,omitempty"`
}

type wireGoal struct {
	GoalID        int64           `json:"goalId,omitempty"`
	GoalName      string          `json:"goalName"`
	TargetAmount  json.RawMessage `json:"targetAmount"`
	CurrentAmount json.RawMessage `json:"currentAmount"`
	Category      string          `json:"category"`
	Deadline      string          `json:"deadline"`
}

type wireReportRow struct {
	Year         int             `json:"year"`
	PeriodValue  *int            `json:"periodValue"`
	CategoryName string          `json:"categoryName"`
	TotalAmount  json.RawMessage `json:"totalAmount"`
}

func parseWireDate(s string) (time.Time, error) {
	if t, err := time.Parse(wireDateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// coerceAmount turns a raw wire amount into a decimal, treating
// anything unparseable as zero so aggregation downstream never trips
// on malformed input.
func coerceAmount(raw json.RawMessage) decimal.Decimal {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toTransaction(w wireRecord) models.Transaction {
	tx := models.Transaction{
		ID:          strconv.FormatInt(w.ExpenseID, 10),
		Description: w.Description,
		Amount:      coerceAmount(w.Amount),
		Currency:    w.Currency,
		Category:    w.Category.Name,
		IsRecurring: helpers.Value(w.IsRecurring),
	}
	if tx.Currency == "" {
		tx.Currency = models.DefaultCurrency
	}

	if w.TransactionType == string(models.ModeIncome) {
		tx.Mode = models.ModeIncome
	} else {
		tx.Mode = models.ModeExpense
	}

	if date, err := parseWireDate(w.ExpenseDate); err == nil {
		tx.Date = date
	}

	if tx.IsRecurring {
		if freq, ok := models.ParseFrequency(w.RecurrenceFrequency); ok {
			tx.Frequency = freq
		}
	}

	return tx
}

func fromTransaction(tx models.Transaction) wireRecord {
	w := wireRecord{
		Amount:          json.RawMessage(tx.Amount.String()),
		Currency:        tx.Currency,
		Category:        wireCategory{Name: tx.Category},
		Description:     tx.Description,
		ExpenseDate:     tx.Date.Format(wireDateLayout),
		TransactionType: string(tx.Mode),
		IsRecurring:     helpers.Ptr(tx.IsRecurring),
	}
	if tx.IsRecurring {
		w.RecurrenceFrequency = string(tx.Frequency)
	}
	return w
}

func toGoal(w wireGoal) models.Goal {
	g := models.Goal{
		ID:            strconv.FormatInt(w.GoalID, 10),
		Name:          w.GoalName,
		TargetAmount:  coerceAmount(w.TargetAmount),
		CurrentAmount: coerceAmount(w.CurrentAmount),
		Category:      w.Category,
	}
	if deadline, err := parseWireDate(w.Deadline); err == nil {
		g.Deadline = deadline
	}
	return g
}

func fromGoal(g models.Goal) wireGoal {
	return wireGoal{
		GoalName:      g.Name,
		TargetAmount:  json.RawMessage(g.TargetAmount.String()),
		CurrentAmount: json.RawMessage(g.CurrentAmount.String()),
		Category:      g.Category,
		Deadline:      g.Deadline.Format(wireDateLayout),
	}
}

func toReportRow(w wireReportRow) dto.ReportRow {
	return dto.ReportRow{
		Year:         w.Year,
		PeriodValue:  w.PeriodValue,
		CategoryName: w.CategoryName,
		TotalAmount:  coerceAmount(w.TotalAmount),
	}
}
