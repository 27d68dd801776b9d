package app

import (
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
)

// EstimateRequest asks for a fresh estimation of one project. ProjectRef is a
// short ID, a full UUID or a unique UUID prefix.
type EstimateRequest struct {
	ProjectRef string
	// Save persists the result to the project's estimation history.
	Save bool
	// Now overrides the clock; nil means the service clock.
	Now *time.Time
}

type EstimateResponse struct {
	Project *domain.Project
	Result  estimate.Result
	// EstimationID is set when the result was saved.
	EstimationID string
}

// ProjectEstimate is one row of a batch estimation. Err is set instead of
// Result when the project could not be scored.
type ProjectEstimate struct {
	Project *domain.Project
	Result  *estimate.Result
	Err     error
}

type BudgetSummary struct {
	ProjectID string
	Planned   float64
	// Actual is the actual-line total, or the tracked spend when there are no lines.
	Actual      float64
	Adjustments float64
	LineCount   int
	// Remaining is Planned + Adjustments - Actual.
	Remaining float64
}

type ImportResult struct {
	Project         *domain.Project
	PhaseCount      int
	BudgetLineCount int
	RiskCount       int
}
