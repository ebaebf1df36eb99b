package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dispend/internal/models"
	"dispend/internal/services"
)

var (
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	header  = color.New(color.Bold)
)

func spendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spending",
		Short: "Show spending against every active budget",
		Args:  cobra.NoArgs,
		RunE:  runSpending,
	}
	cmd.Flags().String("date", "", "reference date (YYYY-MM-DD, default today)")
	return cmd
}

func runSpending(cmd *cobra.Command, _ []string) error {
	cfg, mgr, err := openMigratedStore()
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var ref *time.Time
	if s, _ := cmd.Flags().GetString("date"); s != "" {
		t, err := time.ParseInLocation(models.DateLayout, s, loc)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", s)
		}
		ref = &t
	}

	rows, err := services.NewBudgetService(mgr.DB(), cfg.DefaultCurrency, loc).GetSpending(ref)
	if err != nil {
		return err
	}
	printSpending(cmd.OutOrStdout(), rows)
	return nil
}

// spendingLevel classifies a row for display. Thresholds never affect the
// stored figures.
type spendingLevel int

const (
	levelOK spendingLevel = iota
	levelAlert
	levelOver
)

func levelFor(row services.BudgetSpending) spendingLevel {
	switch {
	case row.BudgetAmount > 0 && row.Spent > row.BudgetAmount:
		return levelOver
	case row.AlertThreshold > 0 && row.PercentUsed >= row.AlertThreshold*100:
		return levelAlert
	default:
		return levelOK
	}
}

func printSpending(w io.Writer, rows []services.BudgetSpending) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No active budgets")
		return
	}

	nameWidth := len("Category")
	for _, r := range rows {
		if len(r.CategoryName) > nameWidth {
			nameWidth = len(r.CategoryName)
		}
	}

	format := fmt.Sprintf("%%-%ds  %%-9s  %%-24s  %%12s  %%12s  %%12s  %%7s\n", nameWidth)
	header.Fprintf(w, format, "Category", "Period", "Window", "Budget", "Spent", "Remaining", "Used")
	fmt.Fprintln(w, strings.Repeat("-", nameWidth+88))

	for _, r := range rows {
		line := fmt.Sprintf(format,
			r.CategoryName,
			r.Period,
			r.PeriodStart+" to "+r.PeriodEnd,
			fmt.Sprintf("%.2f %s", r.BudgetAmount, r.Currency),
			fmt.Sprintf("%.2f", r.Spent),
			fmt.Sprintf("%.2f", r.Remaining),
			fmt.Sprintf("%.1f%%", r.PercentUsed),
		)
		switch levelFor(r) {
		case levelOver:
			danger.Fprint(w, line)
		case levelAlert:
			warning.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
