package cli

import (
	"github.com/alexanderramin/buildflow/internal/cli/formatter"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/spf13/cobra"
)

func newBudgetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Record and review budget lines",
	}
	cmd.AddCommand(newBudgetAddCmd(app), newBudgetListCmd(app))
	return cmd
}

func newBudgetAddCmd(app *App) *cobra.Command {
	var kind, description, date string
	var amount float64

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a planned, actual or adjustment line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			when, err := dateOrToday("date", date)
			if err != nil {
				return err
			}
			line := &domain.BudgetLine{
				ProjectID:   p.ID,
				Kind:        domain.BudgetKind(kind),
				Amount:      amount,
				Description: description,
				Date:        when,
			}
			if err := app.Budget.Add(ctx, line); err != nil {
				return err
			}
			printf(cmd, "Added %s line of %s to %s\n", line.Kind, formatter.Money(line.Amount), p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(domain.BudgetActual), "Line kind (planned|actual|adjustment)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount (adjustments may be negative)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newBudgetListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List budget lines with totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			lines, err := app.Budget.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			summary, err := app.Budget.Summary(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(lines) > 0 {
				printf(cmd, "%s\n", formatter.FormatBudgetLines(lines))
			}
			printf(cmd, "%s", formatter.FormatBudgetSummary(summary))
			return nil
		},
	}
}
