package dto

// TransactionDraft carries raw form input for a transaction candidate.
// Amounts and dates arrive as text and are parsed during validation.
type TransactionDraft struct {
	Description string
	Amount      string
	Currency    string
	Mode        string
	Category    string
	Date        string
	IsRecurring bool
	Frequency   string
}

// GoalDraft carries raw form input for a savings goal candidate. An
// empty CurrentAmount validates and defaults to zero.
type GoalDraft struct {
	Name          string
	TargetAmount  string
	CurrentAmount string
	Category      string
	Deadline      string
}
