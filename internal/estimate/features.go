package estimate

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
)

// Snapshot is the read-only aggregate of one project's state.
type Snapshot struct {
	StartDate       *time.Time
	PlannedEndDate  *time.Time
	PlannedBudget   float64
	ActualSpent     float64
	TotalPhases     int
	CompletedPhases int
	RiskCount       int
	Status          domain.ProjectStatus
	Weather         domain.WeatherCondition
}

// Features is the fixed-shape numeric summary consumed by both estimators.
// Weather is ancillary: it feeds the model input and the weather advisory only.
type Features struct {
	PlannedDays   int                     `json:"planned_days"`
	DaysElapsed   int                     `json:"days_elapsed"`
	DaysLeft      int                     `json:"days_left"`
	ProgressRatio float64                 `json:"progress_ratio"`
	BudgetRatio   float64                 `json:"budget_ratio"`
	RiskCount     int                     `json:"risk_count"`
	Weather       domain.WeatherCondition `json:"weather"`
}

// ExtractFeatures reduces a snapshot to a feature vector as of today.
func ExtractFeatures(s Snapshot, today time.Time) (Features, error) {
	if err := validateSnapshot(s); err != nil {
		return Features{}, err
	}

	start := civilDate(*s.StartDate)
	end := civilDate(*s.PlannedEndDate)
	now := civilDate(today)

	elapsedUntil := now
	if end.Before(now) {
		elapsedUntil = end
	}

	f := Features{
		PlannedDays: daysBetween(start, end),
		DaysElapsed: max(0, daysBetween(start, elapsedUntil)),
		DaysLeft:    daysBetween(now, end),
		RiskCount:   s.RiskCount,
		Weather:     s.Weather,
	}
	if s.TotalPhases > 0 {
		f.ProgressRatio = float64(s.CompletedPhases) / float64(max(s.TotalPhases, 1))
	}
	if s.PlannedBudget > 0 {
		f.BudgetRatio = s.ActualSpent / s.PlannedBudget
	}
	if f.Weather == "" {
		f.Weather = domain.WeatherFair
	}
	return f, nil
}

func validateSnapshot(s Snapshot) error {
	switch {
	case s.StartDate == nil || s.StartDate.IsZero():
		return fmt.Errorf("%w: start date is required", ErrInvalidSnapshot)
	case s.PlannedEndDate == nil || s.PlannedEndDate.IsZero():
		return fmt.Errorf("%w: planned end date is required", ErrInvalidSnapshot)
	case civilDate(*s.PlannedEndDate).Before(civilDate(*s.StartDate)):
		return fmt.Errorf("%w: planned end date %s precedes start date %s", ErrInvalidSnapshot,
			s.PlannedEndDate.Format(dateLayout), s.StartDate.Format(dateLayout))
	case s.TotalPhases < 0 || s.CompletedPhases < 0 || s.CompletedPhases > s.TotalPhases:
		return fmt.Errorf("%w: phase counts %d/%d are inconsistent", ErrInvalidSnapshot, s.CompletedPhases, s.TotalPhases)
	case s.PlannedBudget < 0 || s.ActualSpent < 0:
		return fmt.Errorf("%w: budget amounts must not be negative", ErrInvalidSnapshot)
	case s.RiskCount < 0:
		return fmt.Errorf("%w: risk count must not be negative", ErrInvalidSnapshot)
	case math.IsNaN(s.PlannedBudget) || math.IsNaN(s.ActualSpent) || math.IsInf(s.PlannedBudget, 0) || math.IsInf(s.ActualSpent, 0):
		return fmt.Errorf("%w: budget amounts must be finite", ErrInvalidSnapshot)
	}
	return nil
}

const dateLayout = "2006-01-02"

// civilDate drops the clock part, keeping the calendar date as seen in t's location.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
