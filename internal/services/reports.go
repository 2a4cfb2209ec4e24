// Package services shapes remote report data for display. Reports are
// computed server-side; this layer fetches the rows and rolls them up
// per category.
package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/dto"
	"github.com/homeledger/homeledger/pkg/logger"
)

type reportsAPI interface {
	WeeklyReport(ctx context.Context, year, week int) ([]dto.ReportRow, error)
	MonthlyReport(ctx context.Context, year, month int) ([]dto.ReportRow, error)
	YearlyReport(ctx context.Context, year int) ([]dto.ReportRow, error)
}

type reportService struct {
	api reportsAPI
}

func NewReportService(api reportsAPI) *reportService {
	return &reportService{api: api}
}

func (s *reportService) Weekly(ctx context.Context, year, week int) (dto.Report, error) {
	rows, err := s.api.WeeklyReport(ctx, year, week)
	if err != nil {
		return dto.Report{}, err
	}
	return s.shape(ctx, "weekly", rows), nil
}

func (s *reportService) Monthly(ctx context.Context, year, month int) (dto.Report, error) {
	rows, err := s.api.MonthlyReport(ctx, year, month)
	if err != nil {
		return dto.Report{}, err
	}
	return s.shape(ctx, "monthly", rows), nil
}

func (s *reportService) Yearly(ctx context.Context, year int) (dto.Report, error) {
	rows, err := s.api.YearlyReport(ctx, year)
	if err != nil {
		return dto.Report{}, err
	}
	return s.shape(ctx, "yearly", rows), nil
}

// shape rolls the rows up per category. Categories appearing in more
// than one row accumulate into a single bucket.
func (s *reportService) shape(ctx context.Context, period string, rows []dto.ReportRow) dto.Report {
	report := dto.Report{
		Period:     period,
		Rows:       rows,
		ByCategory: make(map[string]decimal.Decimal, len(rows)),
		Total:      decimal.Zero,
	}
	for _, row := range rows {
		report.ByCategory[row.CategoryName] = report.ByCategory[row.CategoryName].Add(row.TotalAmount)
		report.Total = report.Total.Add(row.TotalAmount)
	}

	logger.FromContext(ctx).Debug("report shaped",
		"period", period, "rows", len(rows), "categories", len(report.ByCategory))
	return report
}
