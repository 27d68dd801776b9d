package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/google/uuid"
)

type riskService struct {
	risks    repository.RiskRepo
	projects repository.ProjectRepo
	audit    auditor
	observer UseCaseObserver
}

func NewRiskService(risks repository.RiskRepo, projects repository.ProjectRepo, audit repository.AuditRepo, observers ...UseCaseObserver) RiskService {
	return &riskService{
		risks:    risks,
		projects: projects,
		audit:    auditor{repo: audit},
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *riskService) Add(ctx context.Context, r *domain.Risk) (err error) {
	defer observe(ctx, s.observer, "risk.add", map[string]any{"project_id": r.ProjectID}, &err)()

	if r.Level == "" {
		r.Level = domain.RiskMedium
	}
	if _, err := domain.ParseRiskLevel(string(r.Level)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := s.projects.GetByID(ctx, r.ProjectID); err != nil {
		return fmt.Errorf("getting project %s: %w", r.ProjectID, err)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.IdentifiedAt.IsZero() {
		r.IdentifiedAt = time.Now().UTC()
	}

	if err := s.risks.Create(ctx, r); err != nil {
		return fmt.Errorf("creating risk: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditCreate, "risk", r.ID, r.Name, nil, r)
	return nil
}

func (s *riskService) ListByProject(ctx context.Context, projectID string, includeResolved bool) ([]*domain.Risk, error) {
	risks, err := s.risks.ListByProject(ctx, projectID, includeResolved)
	if err != nil {
		return nil, fmt.Errorf("listing risks: %w", err)
	}
	return risks, nil
}

// Resolve closes a risk. The risk keeps counting towards the project's incidents.
func (s *riskService) Resolve(ctx context.Context, id string, at time.Time) (_ *domain.Risk, err error) {
	defer observe(ctx, s.observer, "risk.resolve", map[string]any{"risk_id": id}, &err)()

	r, err := s.risks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting risk %s: %w", id, err)
	}
	if r.IsResolved() {
		return r, nil
	}
	before := *r
	resolved := at.UTC()
	r.ResolvedAt = &resolved
	if err := s.risks.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("updating risk: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditUpdate, "risk", r.ID, "resolved", before, r)
	return r, nil
}
