package cli

import (
	"encoding/json"

	"github.com/alexanderramin/buildflow/internal/app"
	"github.com/alexanderramin/buildflow/internal/cli/formatter"
	"github.com/alexanderramin/buildflow/internal/estimate"
	"github.com/spf13/cobra"
)

// estimateJSON is the machine-readable shape of `estimate --json`.
type estimateJSON struct {
	ProjectID    string `json:"project_id"`
	ShortID      string `json:"short_id"`
	EstimationID string `json:"estimation_id,omitempty"`
	estimate.Result
}

type batchRowJSON struct {
	ProjectID string           `json:"project_id"`
	ShortID   string           `json:"short_id"`
	Result    *estimate.Result `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func newEstimateCmd(app *App) *cobra.Command {
	var asJSON, save, all bool

	cmd := &cobra.Command{
		Use:   "estimate [PROJECT]",
		Short: "Estimate delay probability and budget overrun",
		Long: `Estimate a project's delay probability and budget overrun.

PROJECT is a short ID, a full ID or a unique ID prefix. With --all every
in-progress project is scored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if len(args) > 0 {
					return errUsage(cmd, "--all takes no PROJECT argument")
				}
				return runEstimateAll(cmd, app, save, asJSON)
			}
			if len(args) == 0 {
				return errUsage(cmd, "PROJECT is required unless --all is set")
			}

			resp, err := app.Estimation.Estimate(cmd.Context(), appRequest(args[0], save))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, estimateJSON{
					ProjectID:    resp.Project.ID,
					ShortID:      resp.Project.ShortID,
					EstimationID: resp.EstimationID,
					Result:       resp.Result,
				})
			}
			printf(cmd, "%s\n", formatter.FormatEstimate(resp.Project, resp.Result))
			if resp.EstimationID != "" {
				printf(cmd, "%s\n", formatter.Dim("Saved as "+formatter.TruncID(resp.EstimationID)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Store the result in the estimation history")
	cmd.Flags().BoolVar(&all, "all", false, "Score every in-progress project")

	return cmd
}

func appRequest(ref string, save bool) app.EstimateRequest {
	return app.EstimateRequest{ProjectRef: ref, Save: save}
}

func runEstimateAll(cmd *cobra.Command, app *App, save, asJSON bool) error {
	rows, err := app.Estimation.EstimateAll(cmd.Context(), save)
	if err != nil {
		return err
	}
	if asJSON {
		out := make([]batchRowJSON, 0, len(rows))
		for _, r := range rows {
			row := batchRowJSON{ProjectID: r.Project.ID, ShortID: r.Project.ShortID, Result: r.Result}
			if r.Err != nil {
				row.Error = r.Err.Error()
			}
			out = append(out, row)
		}
		return writeJSON(cmd, out)
	}
	if len(rows) == 0 {
		printf(cmd, "No in-progress projects.\n")
		return nil
	}
	printf(cmd, "%s", formatter.FormatEstimateBatch(rows))
	return nil
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history PROJECT",
		Short: "Show saved estimations, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := app.Estimation.History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				printf(cmd, "No saved estimations.\n")
				return nil
			}
			printf(cmd, "%s", formatter.FormatHistory(history))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum entries to show")

	return cmd
}

func newAuditCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Audit.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printf(cmd, "Audit log is empty.\n")
				return nil
			}
			printf(cmd, "%s", formatter.FormatAuditLog(entries))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
