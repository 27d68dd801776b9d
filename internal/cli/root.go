package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/buildflow/internal/config"
	"github.com/alexanderramin/buildflow/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects   service.ProjectService
	Phases     service.PhaseService
	Budget     service.BudgetService
	Risks      service.RiskService
	Actions    service.ActionService
	Estimation service.EstimationService
	Audit      service.AuditService
	Import     service.ImportService

	Config config.Config

	// ServeHTTP and ServeMCP block until ctx is cancelled. Nil disables the command.
	ServeHTTP func(ctx context.Context) error
	ServeMCP  func(ctx context.Context) error

	// IsInteractive reports whether stdin is a terminal; forms only run when it is.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "buildflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "buildflow",
		Short:         "Construction project risk and delay estimation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newPhaseCmd(app),
		newBudgetCmd(app),
		newRiskCmd(app),
		newActionCmd(app),
		newEstimateCmd(app),
		newHistoryCmd(app),
		newAuditCmd(app),
		newTrainCmd(app),
		newServeCmd(app),
		newMCPCmd(app),
	)

	return root
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
