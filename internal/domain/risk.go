package domain

import (
	"fmt"
	"time"
)

// Risk is an entry of a project's risk register.
type Risk struct {
	ID           string
	ProjectID    string
	Name         string
	Description  string
	Level        RiskLevel
	Probability  int // percent, 0-100
	Impact       string
	Mitigation   string
	IdentifiedAt time.Time
	ResolvedAt   *time.Time
}

func (r *Risk) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("risk name is required")
	}
	if r.Probability < 0 || r.Probability > 100 {
		return fmt.Errorf("risk probability %d must be between 0 and 100", r.Probability)
	}
	return nil
}

func (r *Risk) IsResolved() bool {
	return r.ResolvedAt != nil
}
