package cli

import (
	"github.com/alexanderramin/buildflow/internal/cli/formatter"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/spf13/cobra"
)

func newPhaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Manage project phases",
	}
	cmd.AddCommand(
		newPhaseAddCmd(app),
		newPhaseListCmd(app),
		newPhaseDoneCmd(app),
		newPhaseRemoveCmd(app),
	)
	return cmd
}

func newPhaseAddCmd(app *App) *cobra.Command {
	var name, description, start, end, status string
	var order int

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a phase to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			startDate, err := parseDate("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseDate("end", end)
			if err != nil {
				return err
			}

			ph := &domain.Phase{
				ProjectID:      p.ID,
				Name:           name,
				Description:    description,
				OrderIndex:     order,
				StartDate:      startDate,
				PlannedEndDate: endDate,
				Status:         domain.PhaseStatus(status),
			}
			if err := app.Phases.Add(ctx, ph); err != nil {
				return err
			}
			printf(cmd, "Added phase #%d %s to %s\n", ph.OrderIndex, ph.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Phase name")
	cmd.Flags().StringVar(&description, "description", "", "Phase description")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Planned end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Status (pending|in_progress|done)")
	cmd.Flags().IntVar(&order, "order", 0, "Position in the schedule (default: after the last phase)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newPhaseListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's phases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			phases, err := app.Phases.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(phases) == 0 {
				printf(cmd, "No phases for %s.\n", p.ShortID)
				return nil
			}
			printf(cmd, "%s", formatter.FormatPhaseTable(phases))
			return nil
		},
	}
}

func newPhaseDoneCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "done PROJECT PHASE",
		Short: "Mark a phase done (PHASE is its order number or ID prefix)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			ph, err := resolvePhase(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			when, err := dateOrToday("at", at)
			if err != nil {
				return err
			}
			if _, err := app.Phases.MarkDone(ctx, ph.ID, when); err != nil {
				return err
			}
			printf(cmd, "Phase #%d %s done on %s\n", ph.OrderIndex, ph.Name, when.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Completion date (YYYY-MM-DD, default today)")

	return cmd
}

func newPhaseRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT PHASE",
		Short: "Remove a phase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			ph, err := resolvePhase(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			if err := app.Phases.Delete(ctx, ph.ID); err != nil {
				return err
			}
			printf(cmd, "Removed phase %s\n", ph.Name)
			return nil
		},
	}
}
