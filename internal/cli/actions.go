package cli

import (
	"github.com/alexanderramin/buildflow/internal/cli/formatter"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/spf13/cobra"
)

func newActionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Track follow-up actions on a project",
	}
	cmd.AddCommand(newActionAddCmd(app), newActionListCmd(app), newActionDoneCmd(app), newActionCancelCmd(app))
	return cmd
}

func newActionAddCmd(app *App) *cobra.Command {
	var title, description, phaseRef, owner, start, end string
	var priority int

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add an action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			startDate, err := parseOptionalDate("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseOptionalDate("end", end)
			if err != nil {
				return err
			}
			a := &domain.Action{
				ProjectID:      p.ID,
				Title:          title,
				Description:    description,
				Owner:          owner,
				Priority:       priority,
				StartDate:      startDate,
				PlannedEndDate: endDate,
			}
			if phaseRef != "" {
				ph, err := resolvePhase(ctx, app, p.ID, phaseRef)
				if err != nil {
					return err
				}
				a.PhaseID = &ph.ID
			}
			if err := app.Actions.Add(ctx, a); err != nil {
				return err
			}
			printf(cmd, "Added P%d action %s on %s\n", a.Priority, a.Title, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Action title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&phaseRef, "phase", "", "Phase order number or ID prefix")
	cmd.Flags().StringVar(&owner, "owner", "", "Person responsible")
	cmd.Flags().IntVar(&priority, "priority", domain.ActionPriorityHighest, "Priority (1 highest, 5 lowest)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Planned end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newActionListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List open actions by priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			actions, err := app.Actions.ListByProject(ctx, p.ID, all)
			if err != nil {
				return err
			}
			if len(actions) == 0 {
				printf(cmd, "No actions for %s.\n", p.ShortID)
				return nil
			}
			printf(cmd, "%s", formatter.FormatActionTable(actions))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include done and cancelled actions")

	return cmd
}

func newActionDoneCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "done PROJECT ACTION",
		Short: "Mark an action done (ACTION is its ID prefix)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			a, err := resolveAction(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			when, err := dateOrToday("at", at)
			if err != nil {
				return err
			}
			if _, err := app.Actions.Complete(ctx, a.ID, when); err != nil {
				return err
			}
			printf(cmd, "Completed action %s\n", a.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Completion date (YYYY-MM-DD, default today)")

	return cmd
}

func newActionCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel PROJECT ACTION",
		Short: "Cancel an open action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			a, err := resolveAction(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			if _, err := app.Actions.Cancel(ctx, a.ID); err != nil {
				return err
			}
			printf(cmd, "Cancelled action %s\n", a.Title)
			return nil
		},
	}
}
