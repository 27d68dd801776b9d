package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Date returns midnight UTC on the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Project options
type ProjectOption func(*domain.Project)

func WithPlannedEnd(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.PlannedEndDate = &d
	}
}

func WithStartDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithBudget(planned, actual float64) ProjectOption {
	return func(p *domain.Project) {
		p.PlannedBudget = planned
		p.ActualBudget = actual
	}
}

func WithWeather(w domain.WeatherCondition) ProjectOption {
	return func(p *domain.Project) {
		p.Weather = w
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

// NewTestProject returns a valid in-progress project running Jan 1 to Apr 1 2024
// with a 1000 planned budget.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	end := Date(2024, 4, 1)
	p := &domain.Project{
		ID:             uuid.New().String(),
		ShortID:        defaultShortID(name),
		Name:           name,
		Company:        "Acme Construction",
		Region:         "North",
		StartDate:      Date(2024, 1, 1),
		PlannedEndDate: &end,
		Status:         domain.ProjectInProgress,
		PlannedBudget:  1000,
		Weather:        domain.WeatherFair,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phase options
type PhaseOption func(*domain.Phase)

func WithPhaseStatus(s domain.PhaseStatus) PhaseOption {
	return func(p *domain.Phase) {
		p.Status = s
	}
}

func WithPhaseOrder(i int) PhaseOption {
	return func(p *domain.Phase) {
		p.OrderIndex = i
	}
}

func NewTestPhase(projectID, name string, opts ...PhaseOption) *domain.Phase {
	now := time.Now().UTC()
	p := &domain.Phase{
		ID:             uuid.New().String(),
		ProjectID:      projectID,
		Name:           name,
		StartDate:      Date(2024, 1, 1),
		PlannedEndDate: Date(2024, 2, 1),
		Status:         domain.PhasePending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestBudgetLine(projectID string, kind domain.BudgetKind, amount float64) *domain.BudgetLine {
	return &domain.BudgetLine{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Kind:      kind,
		Amount:    amount,
		Date:      Date(2024, 1, 15),
		CreatedAt: time.Now().UTC(),
	}
}

// Risk options
type RiskOption func(*domain.Risk)

func WithRiskLevel(l domain.RiskLevel) RiskOption {
	return func(r *domain.Risk) {
		r.Level = l
	}
}

func WithResolvedAt(d time.Time) RiskOption {
	return func(r *domain.Risk) {
		r.ResolvedAt = &d
	}
}

func NewTestRisk(projectID, name string, opts ...RiskOption) *domain.Risk {
	r := &domain.Risk{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		Name:         name,
		Level:        domain.RiskMedium,
		Probability:  30,
		IdentifiedAt: Date(2024, 1, 10),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Action options
type ActionOption func(*domain.Action)

func WithActionPriority(p int) ActionOption {
	return func(a *domain.Action) {
		a.Priority = p
	}
}

func WithActionStatus(s domain.ActionStatus) ActionOption {
	return func(a *domain.Action) {
		a.Status = s
	}
}

func WithActionPhase(phaseID string) ActionOption {
	return func(a *domain.Action) {
		a.PhaseID = &phaseID
	}
}

func WithActionDue(d time.Time) ActionOption {
	return func(a *domain.Action) {
		a.PlannedEndDate = &d
	}
}

func NewTestAction(projectID, title string, opts ...ActionOption) *domain.Action {
	now := time.Now().UTC()
	a := &domain.Action{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Status:    domain.ActionTodo,
		Priority:  3,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
