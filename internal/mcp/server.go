package mcp

import (
	"context"
	"fmt"

	"github.com/alexanderramin/buildflow/internal/app"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "buildflow"
	serverVersion = "0.1.0"
)

// Services contains the use cases exposed as tools.
type Services struct {
	Projects app.ProjectQueryUseCase
	Estimate app.EstimateUseCase
}

// NewServer creates an MCP server with the list_projects and
// estimate_project_risk tools.
func NewServer(svc Services) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	h := &handlers{svc: svc}
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List construction projects, optionally filtered by status",
	}, h.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "estimate_project_risk",
		Description: "Estimate delay probability and budget overrun for a project, with recommendations",
	}, h.estimateProjectRisk)
	return server
}

// ServeStdio runs the server over stdin/stdout until ctx is cancelled or the client disconnects.
func ServeStdio(ctx context.Context, server *sdkmcp.Server) error {
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}

type handlers struct {
	svc Services
}

type ListProjectsInput struct {
	Status string `json:"status,omitempty" jsonschema:"project status filter: in_progress, done, on_hold or cancelled"`
}

type ProjectSummary struct {
	ID      string `json:"id"`
	ShortID string `json:"short_id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Weather string `json:"weather"`
}

type ListProjectsOutput struct {
	Projects []ProjectSummary `json:"projects"`
}

func (h *handlers) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsInput) (*sdkmcp.CallToolResult, ListProjectsOutput, error) {
	var status *domain.ProjectStatus
	if in.Status != "" {
		st, err := domain.ParseProjectStatus(in.Status)
		if err != nil {
			return nil, ListProjectsOutput{}, err
		}
		status = &st
	}
	projects, err := h.svc.Projects.List(ctx, status)
	if err != nil {
		return nil, ListProjectsOutput{}, fmt.Errorf("listing projects: %w", err)
	}
	out := ListProjectsOutput{Projects: make([]ProjectSummary, 0, len(projects))}
	for _, p := range projects {
		out.Projects = append(out.Projects, ProjectSummary{
			ID:      p.ID,
			ShortID: p.ShortID,
			Name:    p.Name,
			Status:  string(p.Status),
			Weather: string(p.Weather),
		})
	}
	return nil, out, nil
}

type EstimateInput struct {
	Project string `json:"project" jsonschema:"project short ID, UUID or unique UUID prefix"`
}

type EstimateOutput struct {
	ProjectID             string            `json:"project_id"`
	ShortID               string            `json:"short_id"`
	DelayProbability      float64           `json:"delay_probability"`
	BudgetOverrunEstimate float64           `json:"budget_overrun_estimate"`
	Recommendations       []string          `json:"recommendations"`
	Features              estimate.Features `json:"features"`
	Source                string            `json:"source"`
	ModelStatus           string            `json:"model_status"`
}

func (h *handlers) estimateProjectRisk(ctx context.Context, _ *sdkmcp.CallToolRequest, in EstimateInput) (*sdkmcp.CallToolResult, EstimateOutput, error) {
	if in.Project == "" {
		return nil, EstimateOutput{}, fmt.Errorf("project is required")
	}
	resp, err := h.svc.Estimate.Estimate(ctx, app.EstimateRequest{ProjectRef: in.Project})
	if err != nil {
		return nil, EstimateOutput{}, err
	}
	res := resp.Result
	recs := res.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return nil, EstimateOutput{
		ProjectID:             resp.Project.ID,
		ShortID:               resp.Project.ShortID,
		DelayProbability:      res.DelayProbability,
		BudgetOverrunEstimate: res.BudgetOverrunEstimate,
		Recommendations:       recs,
		Features:              res.Features,
		Source:                string(res.Source),
		ModelStatus:           string(res.ModelStatus),
	}, nil
}
