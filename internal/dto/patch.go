package dto

// TransactionPatch is a partial update for one transaction. Nil fields
// keep their current value.
type TransactionPatch struct {
	Description *string
	Amount      *string
	Currency    *string
	Mode        *string
	Category    *string
	Date        *string
	IsRecurring *bool
	Frequency   *string
}

// GoalPatch is a partial update for one goal.
type GoalPatch struct {
	Name          *string
	TargetAmount  *string
	CurrentAmount *string
	Category      *string
	Deadline      *string
}
