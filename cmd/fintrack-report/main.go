// Command fintrack-report prints the dashboard report for the configured
// storage backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/stats"
)

func main() {
	format := flag.String("format", "text", "output format: text or json")
	window := flag.String("window", "", "only list expenses in this window (daily, weekly, monthly, yearly)")
	flag.Parse()

	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(applog.ComponentReport)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expenses, err := loadExpenses(ctx, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to load expenses", err)
	}
	budget, err := cfg.BudgetLimit()
	if err != nil {
		cli.Fatal(logger, "Invalid budget", err)
	}

	report, listed, err := buildReport(expenses, budget, *window, time.Now())
	if err != nil {
		cli.Fatal(logger, "Unknown window", err)
	}
	if err := render(os.Stdout, *format, report, listed); err != nil {
		cli.Fatal(logger, "Failed to render report", err)
	}
}

// loadExpenses reads the persisted snapshot. The memory backend has no
// snapshot, so it reports on the demo data when seeding is enabled.
func loadExpenses(ctx context.Context, cfg *config.Config) ([]core.Expense, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := backend.CreateStore(bcfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		if cfg.SeedDemo {
			return ledger.DemoExpenses(), nil
		}
		return nil, nil
	}
	defer store.Close()
	return store.Load(ctx)
}

// buildReport summarizes the whole snapshot. The window, when set, only
// restricts which records are listed under the report.
func buildReport(expenses []core.Expense, budget core.Money, window string, now time.Time) (stats.Report, []core.Expense, error) {
	report := stats.BuildReport(expenses, stats.Baseline(expenses, now), stats.Budget{Limit: budget}, now)
	listed := expenses
	if window != "" {
		w, ok := stats.WindowByName(window)
		if !ok {
			return stats.Report{}, nil, fmt.Errorf("unknown window %q", window)
		}
		listed = stats.FilterByWindow(expenses, w.Days, now)
	}
	return report, stats.SortByDateDesc(listed), nil
}

func render(w io.Writer, format string, report stats.Report, expenses []core.Expense) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Report   stats.Report   `json:"report"`
			Expenses []core.Expense `json:"expenses"`
		}{report, expenses})
	case "text":
		return renderText(w, report, expenses)
	}
	return fmt.Errorf("unknown format %q", format)
}

func renderText(w io.Writer, report stats.Report, expenses []core.Expense) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Generated\t%s\n", report.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(tw, "Transactions\t%d\n\n", report.Count)

	for _, c := range report.Summary.Cards() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Label, c.Value.Format(), c.Change)
	}
	fmt.Fprintln(tw)

	for _, wt := range report.Windows {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", wt.Label, wt.Total.Format(), wt.Count)
	}
	fmt.Fprintln(tw)

	for _, c := range report.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Amount.Format())
	}
	fmt.Fprintln(tw)

	b := report.Budget
	status := "within budget"
	if b.Exceeded {
		status = "exceeded"
	}
	fmt.Fprintf(tw, "Budget\t%s\tspent %s\tavailable %s\t%s\n",
		b.Limit.Format(), b.Spent.Format(), b.Available.Format(), status)
	fmt.Fprintln(tw)

	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Date.Format("2006-01-02"), e.Description, e.Category, e.Amount.Format())
	}
	return tw.Flush()
}
