package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/dto"
	"github.com/homeledger/homeledger/pkg/helpers"
)

type fakeReportsAPI struct {
	rows []dto.ReportRow
	err  error

	lastPeriod string
	lastYear   int
	lastValue  int
}

func (f *fakeReportsAPI) WeeklyReport(_ context.Context, year, week int) ([]dto.ReportRow, error) {
	f.lastPeriod, f.lastYear, f.lastValue = "weekly", year, week
	return f.rows, f.err
}

func (f *fakeReportsAPI) MonthlyReport(_ context.Context, year, month int) ([]dto.ReportRow, error) {
	f.lastPeriod, f.lastYear, f.lastValue = "monthly", year, month
	return f.rows, f.err
}

func (f *fakeReportsAPI) YearlyReport(_ context.Context, year int) ([]dto.ReportRow, error) {
	f.lastPeriod, f.lastYear = "yearly", year
	return f.rows, f.err
}

func row(category string, amount int64) dto.ReportRow {
	return dto.ReportRow{
		Year:         2026,
		CategoryName: category,
		TotalAmount:  decimal.NewFromInt(amount),
	}
}

func TestReportServiceMonthlyRollsUpCategories(t *testing.T) {
	api := &fakeReportsAPI{rows: []dto.ReportRow{
		row("Groceries", 120),
		row("Transport", 40),
		row("Groceries", 30),
	}}
	svc := NewReportService(api)

	report, err := svc.Monthly(helpers.TestCtx(), 2026, 8)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}

	if api.lastPeriod != "monthly" || api.lastYear != 2026 || api.lastValue != 8 {
		t.Fatalf("wrong call: %s %d %d", api.lastPeriod, api.lastYear, api.lastValue)
	}
	if report.Period != "monthly" {
		t.Fatalf("got period %q", report.Period)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(report.Rows))
	}
	if got := report.ByCategory["Groceries"]; got.String() != "150" {
		t.Fatalf("Groceries rollup: got %s, want 150", got)
	}
	if report.Total.String() != "190" {
		t.Fatalf("total: got %s, want 190", report.Total)
	}
}

func TestReportServiceWeeklyEmpty(t *testing.T) {
	svc := NewReportService(&fakeReportsAPI{})

	report, err := svc.Weekly(helpers.TestCtx(), 2026, 35)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(report.ByCategory) != 0 || !report.Total.IsZero() {
		t.Fatalf("empty report should have zero totals: %+v", report)
	}
}

func TestReportServiceYearlyPropagatesError(t *testing.T) {
	wantErr := errors.New("backend unavailable")
	svc := NewReportService(&fakeReportsAPI{err: wantErr})

	_, err := svc.Yearly(helpers.TestCtx(), 2026)
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want wrapped %v", err, wantErr)
	}
}
