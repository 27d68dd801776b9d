package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

type Project struct {
	ID             string
	ShortID        string
	Name           string
	Description    string
	Company        string
	Region         string
	Stage          string
	StartDate      time.Time
	PlannedEndDate *time.Time
	ActualEndDate  *time.Time
	Status         ProjectStatus
	PlannedBudget  float64
	// ActualBudget is the manually tracked spend, used when no actual budget lines exist.
	ActualBudget float64
	Weather      WeatherCondition
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. DKR01, BRIDGE0234).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. DKR01)", p.ShortID)
	}
	return nil
}

// Validate checks the fields every stored project must satisfy.
func (p *Project) Validate() error {
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if p.PlannedEndDate != nil && p.PlannedEndDate.Before(p.StartDate) {
		return fmt.Errorf("planned end date %s is before start date %s",
			p.PlannedEndDate.Format("2006-01-02"), p.StartDate.Format("2006-01-02"))
	}
	if p.PlannedBudget < 0 || p.ActualBudget < 0 {
		return fmt.Errorf("budgets must not be negative")
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
