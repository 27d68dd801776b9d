package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/buildflow/internal/cli/formatter"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage construction projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
		newProjectImportCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var shortID, name, description, company, region, stage, start, end, weather string
	var plannedBudget, actualBudget float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if weather == "" {
				weather = app.Config.Estimate.DefaultWeather
			}
			if name == "" {
				if !app.interactive() {
					return fmt.Errorf("--name is required")
				}
				v := projectFormValues{ShortID: shortID, Start: start, End: end, Weather: weather}
				if err := projectForm(&v).Run(); err != nil {
					return err
				}
				shortID, name, company, region = v.ShortID, v.Name, v.Company, v.Region
				start, end, weather = v.Start, v.End, v.Weather
				plannedBudget = v.budget()
			}

			startDate, err := parseDate("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseOptionalDate("end", end)
			if err != nil {
				return err
			}

			p := &domain.Project{
				ShortID:        strings.ToUpper(shortID),
				Name:           name,
				Description:    description,
				Company:        company,
				Region:         region,
				Stage:          stage,
				StartDate:      startDate,
				PlannedEndDate: endDate,
				PlannedBudget:  plannedBudget,
				ActualBudget:   actualBudget,
				Weather:        domain.WeatherCondition(weather),
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			printf(cmd, "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. TWR01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name (omit on a terminal to open a form)")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&company, "company", "", "Contractor company")
	cmd.Flags().StringVar(&region, "region", "", "Region")
	cmd.Flags().StringVar(&stage, "stage", "", "Current stage")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Planned end date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&plannedBudget, "budget", 0, "Planned budget")
	cmd.Flags().Float64Var(&actualBudget, "spent", 0, "Tracked spend, used while no actual budget lines exist")
	cmd.Flags().StringVar(&weather, "weather", "", "Site weather (good|fair|severe)")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *domain.ProjectStatus
			if status != "" {
				st, err := domain.ParseProjectStatus(status)
				if err != nil {
					return err
				}
				filter = &st
			}
			projects, err := app.Projects.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				printf(cmd, "No projects found.\n")
				return nil
			}
			printf(cmd, "%s\n", formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (in_progress|done|on_hold|cancelled)")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show project details with phases, budget and risks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			detail, err := loadProjectDetail(ctx, app, p)
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", formatter.FormatProjectDetail(detail))
			return nil
		},
	}
}

func loadProjectDetail(ctx context.Context, app *App, p *domain.Project) (formatter.ProjectDetail, error) {
	phases, err := app.Phases.ListByProject(ctx, p.ID)
	if err != nil {
		return formatter.ProjectDetail{}, err
	}
	budget, err := app.Budget.Summary(ctx, p.ID)
	if err != nil {
		return formatter.ProjectDetail{}, err
	}
	risks, err := app.Risks.ListByProject(ctx, p.ID, true)
	if err != nil {
		return formatter.ProjectDetail{}, err
	}
	actions, err := app.Actions.ListByProject(ctx, p.ID, false)
	if err != nil {
		return formatter.ProjectDetail{}, err
	}
	return formatter.ProjectDetail{Project: p, Phases: phases, Budget: budget, Risks: risks, Actions: actions}, nil
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var shortID, name, description, company, region, stage, start, end, finished, status, weather string
	var plannedBudget, actualBudget float64

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("id") {
				p.ShortID = strings.ToUpper(shortID)
			}
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("description") {
				p.Description = description
			}
			if flags.Changed("company") {
				p.Company = company
			}
			if flags.Changed("region") {
				p.Region = region
			}
			if flags.Changed("stage") {
				p.Stage = stage
			}
			if flags.Changed("start") {
				if p.StartDate, err = parseDate("start", start); err != nil {
					return err
				}
			}
			if flags.Changed("end") {
				if p.PlannedEndDate, err = parseOptionalDate("end", end); err != nil {
					return err
				}
			}
			if flags.Changed("finished") {
				if p.ActualEndDate, err = parseOptionalDate("finished", finished); err != nil {
					return err
				}
			}
			if flags.Changed("status") {
				p.Status = domain.ProjectStatus(status)
			}
			if flags.Changed("weather") {
				p.Weather = domain.WeatherCondition(weather)
			}
			if flags.Changed("budget") {
				p.PlannedBudget = plannedBudget
			}
			if flags.Changed("spent") {
				p.ActualBudget = actualBudget
			}

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}
			printf(cmd, "Updated project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&company, "company", "", "Contractor company")
	cmd.Flags().StringVar(&region, "region", "", "Region")
	cmd.Flags().StringVar(&stage, "stage", "", "Current stage")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Planned end date (YYYY-MM-DD, empty to clear)")
	cmd.Flags().StringVar(&finished, "finished", "", "Actual end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Project status (in_progress|done|on_hold|cancelled)")
	cmd.Flags().StringVar(&weather, "weather", "", "Site weather (good|fair|severe)")
	cmd.Flags().Float64Var(&plannedBudget, "budget", 0, "Planned budget")
	cmd.Flags().Float64Var(&actualBudget, "spent", 0, "Tracked spend")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT",
		Short: "Remove a project with its phases, budget lines, risks and estimations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return err
			}
			printf(cmd, "Removed project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}
}

func newProjectImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a project from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd, "Imported project %s [%s]: %d phases, %d budget lines, %d risks\n",
				result.Project.Name, result.Project.ShortID,
				result.PhaseCount, result.BudgetLineCount, result.RiskCount)
			return nil
		},
	}
}
