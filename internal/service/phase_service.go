package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/google/uuid"
)

type phaseService struct {
	phases   repository.PhaseRepo
	projects repository.ProjectRepo
	audit    auditor
	observer UseCaseObserver
}

func NewPhaseService(phases repository.PhaseRepo, projects repository.ProjectRepo, audit repository.AuditRepo, observers ...UseCaseObserver) PhaseService {
	return &phaseService{
		phases:   phases,
		projects: projects,
		audit:    auditor{repo: audit},
		observer: useCaseObserverOrNoop(observers),
	}
}

// Add stores a phase. A zero OrderIndex appends it after the project's last phase.
func (s *phaseService) Add(ctx context.Context, p *domain.Phase) (err error) {
	defer observe(ctx, s.observer, "phase.add", map[string]any{"project_id": p.ProjectID}, &err)()

	if p.Name == "" {
		return fmt.Errorf("%w: phase name is required", ErrInvalidInput)
	}
	if p.StartDate.IsZero() || p.PlannedEndDate.IsZero() {
		return fmt.Errorf("%w: phase start and planned end dates are required", ErrInvalidInput)
	}
	if p.PlannedEndDate.Before(p.StartDate) {
		return fmt.Errorf("%w: phase planned end is before its start", ErrInvalidInput)
	}
	if p.Status == "" {
		p.Status = domain.PhasePending
	}
	if _, err := domain.ParsePhaseStatus(string(p.Status)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := s.projects.GetByID(ctx, p.ProjectID); err != nil {
		return fmt.Errorf("getting project %s: %w", p.ProjectID, err)
	}
	if p.OrderIndex == 0 {
		next, err := s.phases.NextOrder(ctx, p.ProjectID)
		if err != nil {
			return fmt.Errorf("computing phase order: %w", err)
		}
		p.OrderIndex = next
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.phases.Create(ctx, p); err != nil {
		return fmt.Errorf("creating phase: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditCreate, "phase", p.ID, p.Name, nil, p)
	return nil
}

func (s *phaseService) ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error) {
	phases, err := s.phases.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	return phases, nil
}

func (s *phaseService) MarkDone(ctx context.Context, id string, at time.Time) (_ *domain.Phase, err error) {
	defer observe(ctx, s.observer, "phase.done", map[string]any{"phase_id": id}, &err)()

	p, err := s.phases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting phase %s: %w", id, err)
	}
	before := *p
	end := at.UTC()
	p.Status = domain.PhaseDone
	p.ActualEndDate = &end
	p.UpdatedAt = time.Now().UTC()
	if err := s.phases.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating phase: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditUpdate, "phase", p.ID, "done", before, p)
	return p, nil
}

func (s *phaseService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "phase.delete", map[string]any{"phase_id": id}, &err)()

	if err := s.phases.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting phase: %w", err)
	}
	s.audit.record(ctx, domain.AuditDelete, "phase", id, "")
	return nil
}
