package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/google/uuid"
)

type actionService struct {
	actions  repository.ActionRepo
	phases   repository.PhaseRepo
	projects repository.ProjectRepo
	audit    auditor
	observer UseCaseObserver
}

func NewActionService(actions repository.ActionRepo, phases repository.PhaseRepo, projects repository.ProjectRepo, audit repository.AuditRepo, observers ...UseCaseObserver) ActionService {
	return &actionService{
		actions:  actions,
		phases:   phases,
		projects: projects,
		audit:    auditor{repo: audit},
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *actionService) Add(ctx context.Context, a *domain.Action) (err error) {
	defer observe(ctx, s.observer, "action.add", map[string]any{"project_id": a.ProjectID}, &err)()

	if a.Status == "" {
		a.Status = domain.ActionTodo
	}
	if _, err := domain.ParseActionStatus(string(a.Status)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if a.Priority == 0 {
		a.Priority = domain.ActionPriorityHighest
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := s.projects.GetByID(ctx, a.ProjectID); err != nil {
		return fmt.Errorf("getting project %s: %w", a.ProjectID, err)
	}
	if a.PhaseID != nil {
		ph, err := s.phases.GetByID(ctx, *a.PhaseID)
		if err != nil {
			return fmt.Errorf("getting phase %s: %w", *a.PhaseID, err)
		}
		if ph.ProjectID != a.ProjectID {
			return fmt.Errorf("%w: phase %s belongs to another project", ErrInvalidInput, ph.Name)
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := s.actions.Create(ctx, a); err != nil {
		return fmt.Errorf("creating action: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditCreate, "action", a.ID, a.Title, nil, a)
	return nil
}

func (s *actionService) ListByProject(ctx context.Context, projectID string, includeClosed bool) ([]*domain.Action, error) {
	actions, err := s.actions.ListByProject(ctx, projectID, includeClosed)
	if err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	return actions, nil
}

// Complete marks an action done. Completing a done action is a no-op;
// a cancelled action cannot be completed.
func (s *actionService) Complete(ctx context.Context, id string, at time.Time) (_ *domain.Action, err error) {
	defer observe(ctx, s.observer, "action.complete", map[string]any{"action_id": id}, &err)()

	a, err := s.actions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting action %s: %w", id, err)
	}
	switch a.Status {
	case domain.ActionDone:
		return a, nil
	case domain.ActionCancelled:
		return nil, fmt.Errorf("%w: action %q is cancelled", ErrInvalidInput, a.Title)
	}
	if a.StartDate != nil && at.Before(*a.StartDate) {
		return nil, fmt.Errorf("%w: completion %s is before start %s",
			ErrInvalidInput, at.Format("2006-01-02"), a.StartDate.Format("2006-01-02"))
	}
	before := *a
	done := at.UTC()
	a.Status = domain.ActionDone
	a.ActualEndDate = &done
	a.UpdatedAt = time.Now().UTC()
	if err := s.actions.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating action: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditUpdate, "action", a.ID, "done", before, a)
	return a, nil
}

// Cancel closes an open action without completing it.
func (s *actionService) Cancel(ctx context.Context, id string) (_ *domain.Action, err error) {
	defer observe(ctx, s.observer, "action.cancel", map[string]any{"action_id": id}, &err)()

	a, err := s.actions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting action %s: %w", id, err)
	}
	switch a.Status {
	case domain.ActionCancelled:
		return a, nil
	case domain.ActionDone:
		return nil, fmt.Errorf("%w: action %q is already done", ErrInvalidInput, a.Title)
	}
	before := *a
	a.Status = domain.ActionCancelled
	a.UpdatedAt = time.Now().UTC()
	if err := s.actions.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating action: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditUpdate, "action", a.ID, "cancelled", before, a)
	return a, nil
}
