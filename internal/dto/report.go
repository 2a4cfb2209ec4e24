package dto

import "github.com/shopspring/decimal"

// ReportRow is one per-category total inside a reporting period.
// PeriodValue is the week or month number; nil for yearly reports.
type ReportRow struct {
	Year         int
	PeriodValue  *int
	CategoryName string
	TotalAmount  decimal.Decimal
}

// Report is the shaped result of a reports call: the raw rows plus the
// per-category rollup the UI charts from.
type Report struct {
	Period     string
	Rows       []ReportRow
	ByCategory map[string]decimal.Decimal
	Total      decimal.Decimal
}
