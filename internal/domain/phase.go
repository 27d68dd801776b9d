package domain

import "time"

// Phase is one construction stage of a project (foundations, structure, finishing...).
type Phase struct {
	ID             string
	ProjectID      string
	Name           string
	Description    string
	OrderIndex     int
	StartDate      time.Time
	PlannedEndDate time.Time
	ActualEndDate  *time.Time
	Status         PhaseStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Phase) IsDone() bool {
	return p.Status == PhaseDone
}
