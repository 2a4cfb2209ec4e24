package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/homeledger/homeledger/internal/bootstrap"
	"github.com/homeledger/homeledger/internal/config"
	"github.com/homeledger/homeledger/internal/dto"
	"github.com/homeledger/homeledger/internal/errs"
	"github.com/homeledger/homeledger/internal/goals"
	"github.com/homeledger/homeledger/internal/recurrence"
	"github.com/homeledger/homeledger/internal/services"
	"github.com/homeledger/homeledger/internal/store"
	"github.com/homeledger/homeledger/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		fmt.Fprintln(os.Stderr, errs.UserMessage(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tracker <list|totals|goals|report> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ctx := logger.ToContext(context.Background(), bs.Log)

	// stores and services
	txStore := store.NewTransactionStore(bs.API)
	goalStore := store.NewGoalStore(bs.API)
	reportSvc := services.NewReportService(bs.API)

	// both collections load in parallel before any command runs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return txStore.Refresh(gctx) })
	g.Go(func() error { return goalStore.Refresh(gctx) })
	exitOnError("initial load failed", g.Wait(), bs.Log)

	switch os.Args[1] {
	case "list":
		runList(ctx, txStore, bs.Log)
	case "totals":
		runTotals(txStore, cfg.DefaultCurrency)
	case "goals":
		runGoals(goalStore)
	case "report":
		runReport(ctx, reportSvc, bs.Log)
	default:
		usage()
	}
}

func runList(ctx context.Context, txs *store.TransactionStore, log *slog.Logger) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	filterName := fs.String("filter", "all", "all, recurring, or one-time")
	fs.Parse(os.Args[2:])

	filter, ok := recurrence.ParseFilter(*filterName)
	if !ok {
		exitOnError("bad filter", fmt.Errorf("unknown filter %q", *filterName), log)
	}

	for _, tx := range txs.Filter(filter) {
		marker := " "
		if tx.IsRecurring {
			marker = "R"
		}
		fmt.Printf("%s  %s  %-7s  %8s %s  %-14s  %s\n",
			tx.Date.Format("2006-01-02"), marker, tx.Mode,
			tx.Amount.StringFixed(2), tx.Currency, tx.Category, tx.Description)
	}
}

func runTotals(txs *store.TransactionStore, defaultCurrency string) {
	fs := flag.NewFlagSet("totals", flag.ExitOnError)
	currency := fs.String("currency", "", "limit to one currency code")
	fs.Parse(os.Args[2:])

	totals := txs.Totals()
	if *currency != "" {
		t := totals[*currency]
		printTotals(*currency, t.Income.StringFixed(2), t.Expense.StringFixed(2), t.Net().StringFixed(2))
		return
	}

	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	if len(codes) == 0 {
		codes = []string{defaultCurrency}
	}
	for _, code := range codes {
		t := totals[code]
		printTotals(code, t.Income.StringFixed(2), t.Expense.StringFixed(2), t.Net().StringFixed(2))
	}
}

func printTotals(code, income, expense, net string) {
	fmt.Printf("%s  income %s  expense %s  net %s\n", code, income, expense, net)
}

func runGoals(gs *store.GoalStore) {
	today := time.Now()
	for _, g := range gs.List() {
		deadline := goals.Classify(g, today)
		fmt.Printf("%-20s  %5.1f%%  %8s / %-8s  %-9s  %s\n",
			g.Name, goals.ProgressPercent(g),
			g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2),
			deadline.Status, g.Deadline.Format("2006-01-02"))
	}

	sum := gs.Summary()
	fmt.Printf("overall  %5.1f%%  %s / %s\n",
		sum.Progress, sum.Saved.StringFixed(2), sum.Target.StringFixed(2))
}

type reporter interface {
	Weekly(ctx context.Context, year, week int) (dto.Report, error)
	Monthly(ctx context.Context, year, month int) (dto.Report, error)
	Yearly(ctx context.Context, year int) (dto.Report, error)
}

func runReport(ctx context.Context, svc reporter, log *slog.Logger) {
	now := time.Now()
	defaultYear, defaultWeek := now.ISOWeek()

	fs := flag.NewFlagSet("report", flag.ExitOnError)
	period := fs.String("period", "monthly", "weekly, monthly, or yearly")
	year := fs.Int("year", defaultYear, "report year")
	week := fs.Int("week", defaultWeek, "ISO week, weekly reports only")
	month := fs.Int("month", int(now.Month()), "month number, monthly reports only")
	fs.Parse(os.Args[2:])

	var (
		report dto.Report
		err    error
	)
	switch *period {
	case "weekly":
		report, err = svc.Weekly(ctx, *year, *week)
	case "monthly":
		report, err = svc.Monthly(ctx, *year, *month)
	case "yearly":
		report, err = svc.Yearly(ctx, *year)
	default:
		err = fmt.Errorf("unknown period %q", *period)
	}
	exitOnError("report failed", err, log)

	categories := make([]string, 0, len(report.ByCategory))
	for name := range report.ByCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	fmt.Printf("%s report, %d\n", report.Period, *year)
	for _, name := range categories {
		fmt.Printf("  %-20s  %s\n", name, report.ByCategory[name].StringFixed(2))
	}
	fmt.Printf("  %-20s  %s\n", "total", report.Total.StringFixed(2))
}
