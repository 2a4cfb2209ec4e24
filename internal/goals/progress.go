// Package goals derives display state for savings goals: percentage
// completion and deadline urgency.
package goals

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/models"
)

// Status classifies a goal's deadline urgency.
type Status int

const (
	StatusNormal Status = iota
	StatusUpcoming
	StatusUrgent
	StatusOverdue
	StatusCompleted
)

// Label maps every status to its display name. Adding a status without
// a label is a compile-visible omission here, not a silent fallback.
func (s Status) Label() string {
	switch s {
	case StatusNormal:
		return "Normal"
	case StatusUpcoming:
		return "Upcoming"
	case StatusUrgent:
		return "Urgent"
	case StatusOverdue:
		return "Overdue"
	case StatusCompleted:
		return "Completed"
	}
	return "Unknown"
}

func (s Status) String() string { return s.Label() }

// Deadline pairs a status with the whole days remaining until the
// goal's deadline. DaysLeft is negative once the deadline has passed.
type Deadline struct {
	Status   Status
	DaysLeft int
}

var hundred = decimal.NewFromInt(100)

// ProgressPercent returns completion as a number in [0,100]. A
// non-positive target yields 0; overshooting the target clamps to 100.
func ProgressPercent(g models.Goal) float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).Float64()
	return math.Min(math.Max(pct, 0), 100)
}

// DaysUntil counts days from today to the deadline, rounding partial
// days up.
func DaysUntil(deadline, today time.Time) int {
	return int(math.Ceil(deadline.Sub(today).Hours() / 24))
}

// Classify derives the deadline status for a goal as of today. A
// completed goal is Completed no matter how overdue its deadline is;
// only then does lateness apply.
func Classify(g models.Goal, today time.Time) Deadline {
	days := DaysUntil(g.Deadline, today)
	if ProgressPercent(g) >= 100 {
		return Deadline{Status: StatusCompleted, DaysLeft: days}
	}

	switch {
	case days < 0:
		return Deadline{Status: StatusOverdue, DaysLeft: days}
	case days <= 7:
		return Deadline{Status: StatusUrgent, DaysLeft: days}
	case days <= 30:
		return Deadline{Status: StatusUpcoming, DaysLeft: days}
	default:
		return Deadline{Status: StatusNormal, DaysLeft: days}
	}
}
