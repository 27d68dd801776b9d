package cli

import (
	"github.com/alexanderramin/buildflow/internal/cli/formatter"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/spf13/cobra"
)

func newRiskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Manage the project risk register",
	}
	cmd.AddCommand(newRiskAddCmd(app), newRiskListCmd(app), newRiskResolveCmd(app))
	return cmd
}

func newRiskAddCmd(app *App) *cobra.Command {
	var name, description, level, impact, mitigation, identified string
	var probability int

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Register a risk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			when, err := dateOrToday("identified", identified)
			if err != nil {
				return err
			}
			r := &domain.Risk{
				ProjectID:    p.ID,
				Name:         name,
				Description:  description,
				Level:        domain.RiskLevel(level),
				Probability:  probability,
				Impact:       impact,
				Mitigation:   mitigation,
				IdentifiedAt: when,
			}
			if err := app.Risks.Add(ctx, r); err != nil {
				return err
			}
			printf(cmd, "Registered %s risk %s on %s\n", r.Level, r.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Risk name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&level, "level", string(domain.RiskMedium), "Level (low|medium|high|critical)")
	cmd.Flags().IntVar(&probability, "probability", 0, "Likelihood in percent (0-100)")
	cmd.Flags().StringVar(&impact, "impact", "", "Expected impact")
	cmd.Flags().StringVar(&mitigation, "mitigation", "", "Mitigation plan")
	cmd.Flags().StringVar(&identified, "identified", "", "Identification date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRiskListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List open risks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			risks, err := app.Risks.ListByProject(ctx, p.ID, all)
			if err != nil {
				return err
			}
			if len(risks) == 0 {
				printf(cmd, "No risks for %s.\n", p.ShortID)
				return nil
			}
			printf(cmd, "%s", formatter.FormatRiskTable(risks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include resolved risks")

	return cmd
}

func newRiskResolveCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "resolve PROJECT RISK",
		Short: "Mark a risk resolved (RISK is its ID prefix)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			r, err := resolveRisk(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			when, err := dateOrToday("at", at)
			if err != nil {
				return err
			}
			if _, err := app.Risks.Resolve(ctx, r.ID, when); err != nil {
				return err
			}
			printf(cmd, "Resolved risk %s\n", r.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Resolution date (YYYY-MM-DD, default today)")

	return cmd
}
