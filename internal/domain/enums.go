package domain

import "fmt"

type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectDone       ProjectStatus = "done"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// ParseProjectStatus validates s against the known project statuses.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch st := ProjectStatus(s); st {
	case ProjectInProgress, ProjectDone, ProjectOnHold, ProjectCancelled:
		return st, nil
	}
	return "", fmt.Errorf("invalid project status %q (expected in_progress, done, on_hold or cancelled)", s)
}

type PhaseStatus string

const (
	PhasePending    PhaseStatus = "pending"
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseDone       PhaseStatus = "done"
)

func ParsePhaseStatus(s string) (PhaseStatus, error) {
	switch st := PhaseStatus(s); st {
	case PhasePending, PhaseInProgress, PhaseDone:
		return st, nil
	}
	return "", fmt.Errorf("invalid phase status %q (expected pending, in_progress or done)", s)
}

// BudgetKind classifies a budget line. Only actual lines count towards spend.
type BudgetKind string

const (
	BudgetPlanned    BudgetKind = "planned"
	BudgetActual     BudgetKind = "actual"
	BudgetAdjustment BudgetKind = "adjustment"
)

func ParseBudgetKind(s string) (BudgetKind, error) {
	switch k := BudgetKind(s); k {
	case BudgetPlanned, BudgetActual, BudgetAdjustment:
		return k, nil
	}
	return "", fmt.Errorf("invalid budget kind %q (expected planned, actual or adjustment)", s)
}

type ActionStatus string

const (
	ActionTodo       ActionStatus = "todo"
	ActionInProgress ActionStatus = "in_progress"
	ActionDone       ActionStatus = "done"
	ActionCancelled  ActionStatus = "cancelled"
)

func ParseActionStatus(s string) (ActionStatus, error) {
	switch st := ActionStatus(s); st {
	case ActionTodo, ActionInProgress, ActionDone, ActionCancelled:
		return st, nil
	}
	return "", fmt.Errorf("invalid action status %q (expected todo, in_progress, done or cancelled)", s)
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func ParseRiskLevel(s string) (RiskLevel, error) {
	switch l := RiskLevel(s); l {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return l, nil
	}
	return "", fmt.Errorf("invalid risk level %q (expected low, medium, high or critical)", s)
}

// WeatherCondition is the site weather category fed to the delay model.
type WeatherCondition string

const (
	WeatherGood   WeatherCondition = "good"
	WeatherFair   WeatherCondition = "fair"
	WeatherSevere WeatherCondition = "severe"
)

func ParseWeather(s string) (WeatherCondition, error) {
	switch w := WeatherCondition(s); w {
	case WeatherGood, WeatherFair, WeatherSevere:
		return w, nil
	}
	return "", fmt.Errorf("invalid weather %q (expected good, fair or severe)", s)
}

// Code returns the numeric encoding used by trained models: 0 good, 1 fair, 2 severe.
// Unknown values encode as fair.
func (w WeatherCondition) Code() int {
	switch w {
	case WeatherGood:
		return 0
	case WeatherSevere:
		return 2
	default:
		return 1
	}
}

type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

type EstimateSource string

const (
	SourceModel EstimateSource = "model"
	SourceRules EstimateSource = "rules"
)
