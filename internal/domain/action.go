package domain

import (
	"fmt"
	"time"
)

const (
	ActionPriorityHighest = 1
	ActionPriorityLowest  = 5
)

// Action is a follow-up task on a project, optionally tied to one phase.
type Action struct {
	ID             string
	ProjectID      string
	PhaseID        *string
	Title          string
	Description    string
	Status         ActionStatus
	Owner          string
	Priority       int // 1 highest, 5 lowest
	StartDate      *time.Time
	PlannedEndDate *time.Time
	ActualEndDate  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a *Action) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("action title is required")
	}
	if a.Priority < ActionPriorityHighest || a.Priority > ActionPriorityLowest {
		return fmt.Errorf("action priority %d must be between %d and %d", a.Priority, ActionPriorityHighest, ActionPriorityLowest)
	}
	if a.StartDate != nil && a.PlannedEndDate != nil && a.PlannedEndDate.Before(*a.StartDate) {
		return fmt.Errorf("action planned end %s is before start %s",
			a.PlannedEndDate.Format("2006-01-02"), a.StartDate.Format("2006-01-02"))
	}
	return nil
}

// IsClosed reports whether the action is done or cancelled.
func (a *Action) IsClosed() bool {
	return a.Status == ActionDone || a.Status == ActionCancelled
}
