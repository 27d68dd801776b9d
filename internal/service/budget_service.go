package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/buildflow/internal/app"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/google/uuid"
)

type budgetService struct {
	budget   repository.BudgetRepo
	projects repository.ProjectRepo
	audit    auditor
	observer UseCaseObserver
}

func NewBudgetService(budget repository.BudgetRepo, projects repository.ProjectRepo, audit repository.AuditRepo, observers ...UseCaseObserver) BudgetService {
	return &budgetService{
		budget:   budget,
		projects: projects,
		audit:    auditor{repo: audit},
		observer: useCaseObserverOrNoop(observers),
	}
}

// Add stores a budget line. Only adjustments may be negative.
func (s *budgetService) Add(ctx context.Context, b *domain.BudgetLine) (err error) {
	defer observe(ctx, s.observer, "budget.add", map[string]any{"project_id": b.ProjectID, "kind": string(b.Kind)}, &err)()

	if _, err := domain.ParseBudgetKind(string(b.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if b.Amount < 0 && b.Kind != domain.BudgetAdjustment {
		return fmt.Errorf("%w: %s amount must not be negative", ErrInvalidInput, b.Kind)
	}
	if _, err := s.projects.GetByID(ctx, b.ProjectID); err != nil {
		return fmt.Errorf("getting project %s: %w", b.ProjectID, err)
	}
	now := time.Now().UTC()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Date.IsZero() {
		b.Date = now
	}
	b.CreatedAt = now

	if err := s.budget.Create(ctx, b); err != nil {
		return fmt.Errorf("creating budget line: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditCreate, "budget_line", b.ID, fmt.Sprintf("%s %.2f", b.Kind, b.Amount), nil, b)
	return nil
}

func (s *budgetService) ListByProject(ctx context.Context, projectID string) ([]*domain.BudgetLine, error) {
	lines, err := s.budget.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing budget lines: %w", err)
	}
	return lines, nil
}

// Summary totals a project's lines. Planned falls back to the project's planned
// budget and Actual to its tracked spend when no lines of that kind exist.
func (s *budgetService) Summary(ctx context.Context, projectID string) (*app.BudgetSummary, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", projectID, err)
	}

	planned, plannedLines, err := s.budget.SumByKind(ctx, projectID, domain.BudgetPlanned)
	if err != nil {
		return nil, fmt.Errorf("summing planned lines: %w", err)
	}
	actual, actualLines, err := s.budget.SumByKind(ctx, projectID, domain.BudgetActual)
	if err != nil {
		return nil, fmt.Errorf("summing actual lines: %w", err)
	}
	adjustments, adjustmentLines, err := s.budget.SumByKind(ctx, projectID, domain.BudgetAdjustment)
	if err != nil {
		return nil, fmt.Errorf("summing adjustment lines: %w", err)
	}

	if plannedLines == 0 {
		planned = p.PlannedBudget
	}
	if actualLines == 0 {
		actual = p.ActualBudget
	}
	return &app.BudgetSummary{
		ProjectID:   projectID,
		Planned:     planned,
		Actual:      actual,
		Adjustments: adjustments,
		LineCount:   plannedLines + actualLines + adjustmentLines,
		Remaining:   planned + adjustments - actual,
	}, nil
}
