package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings goal. CurrentAmount never exceeds TargetAmount at
// validation time; display-side progress is clamped regardless.
type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Category      string          `json:"category"`
	Deadline      time.Time       `json:"deadline"`
}
