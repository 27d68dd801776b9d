package domain

import "time"

// Estimation is a persisted copy of one estimation result, kept as project history.
type Estimation struct {
	ID                    string
	ProjectID             string
	DelayProbability      float64
	BudgetOverrunEstimate float64
	Source                EstimateSource
	ModelStatus           string
	// FeaturesJSON and Recommendations are stored verbatim for auditability.
	FeaturesJSON    string
	Recommendations []string
	CreatedAt       time.Time
}
