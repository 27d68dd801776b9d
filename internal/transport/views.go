package transport

import (
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
)

const dateLayout = "2006-01-02"

type projectView struct {
	ID             string  `json:"id"`
	ShortID        string  `json:"short_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Company        string  `json:"company,omitempty"`
	Region         string  `json:"region,omitempty"`
	Stage          string  `json:"stage,omitempty"`
	StartDate      string  `json:"start_date"`
	PlannedEndDate string  `json:"planned_end_date,omitempty"`
	ActualEndDate  string  `json:"actual_end_date,omitempty"`
	Status         string  `json:"status"`
	PlannedBudget  float64 `json:"planned_budget"`
	ActualBudget   float64 `json:"actual_budget"`
	Weather        string  `json:"weather"`
}

func newProjectView(p *domain.Project) projectView {
	v := projectView{
		ID:            p.ID,
		ShortID:       p.ShortID,
		Name:          p.Name,
		Description:   p.Description,
		Company:       p.Company,
		Region:        p.Region,
		Stage:         p.Stage,
		StartDate:     p.StartDate.Format(dateLayout),
		Status:        string(p.Status),
		PlannedBudget: p.PlannedBudget,
		ActualBudget:  p.ActualBudget,
		Weather:       string(p.Weather),
	}
	if p.PlannedEndDate != nil {
		v.PlannedEndDate = p.PlannedEndDate.Format(dateLayout)
	}
	if p.ActualEndDate != nil {
		v.ActualEndDate = p.ActualEndDate.Format(dateLayout)
	}
	return v
}

type estimateView struct {
	ProjectID string `json:"project_id"`
	ShortID   string `json:"short_id"`
	estimate.Result
}

// analyticsView mirrors the per-metric analytics endpoints; each fills the
// fields it reports.
type analyticsView struct {
	ProjectID             string                `json:"project_id"`
	DelayProbability      *float64              `json:"delay_probability,omitempty"`
	BudgetOverrunEstimate *float64              `json:"budget_overrun_estimate,omitempty"`
	Recommendations       []string              `json:"recommendations"`
	Features              estimate.Features     `json:"features"`
	Source                domain.EstimateSource `json:"source"`
	ModelStatus           estimate.ModelStatus  `json:"model_status"`
}
