package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"budgetdesk/collections"
	"budgetdesk/services"
)

// newRecalcTotalsCommand rewrites the stored totals of every budget from its
// items.
func newRecalcTotalsCommand(app core.App) *cobra.Command {
	return &cobra.Command{
		Use:   "recalc-totals",
		Short: "Recompute the stored totals of every budget from its items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			collections.Setup(app)
			n, err := collections.MigrateBudgetTotals(app)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d budget(s)\n", n)
			return nil
		},
	}
}

// newStatsCommand prints the dashboard figures.
func newStatsCommand(app core.App) *cobra.Command {
	var monthly bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print budget statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			collections.Setup(app)
			summaries, err := services.LoadBudgetSummaries(app, "", nil)
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), services.CalcBudgetStats(summaries))
			if monthly {
				fmt.Fprintln(cmd.OutOrStdout())
				writeMonthlyStats(cmd.OutOrStdout(), services.CalcMonthlyStats(summaries))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&monthly, "monthly", false, "also print the per-month breakdown")
	return cmd
}

func writeStats(w io.Writer, s services.BudgetStats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Budgets", fmt.Sprint(s.TotalBudgets)},
		{"Draft", fmt.Sprint(s.DraftCount)},
		{"Sent", fmt.Sprint(s.SentCount)},
		{"Approved", fmt.Sprint(s.ApprovedCount)},
		{"Rejected", fmt.Sprint(s.RejectedCount)},
		{"Cancelled", fmt.Sprint(s.CancelledCount)},
		{"Total value", services.FormatCurrency(s.TotalValue)},
		{"Average margin", services.FormatPercentage(s.AverageMargin)},
		{"Approved value", services.FormatCurrency(s.ApprovedValue)},
		{"Approved margin", services.FormatPercentage(s.ApprovedMargin)},
		{"Approved profit", services.FormatCurrency(s.TotalProfitApproved)},
		{"Customers", fmt.Sprint(s.TotalCustomers)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	tw.Flush()
}

func writeMonthlyStats(w io.Writer, months []services.MonthlyBudgetStats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Month\tBudgets\tApproved\tValue\tProfit\tAvg margin\tCustomers")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%d\n",
			m.Month, m.TotalBudgets, m.ApprovedCount,
			services.FormatCurrency(m.TotalValue),
			services.FormatCurrency(m.TotalProfit),
			services.FormatPercentage(m.AverageMargin),
			m.UniqueCustomers)
	}
	tw.Flush()
}
