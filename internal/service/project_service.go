package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/google/uuid"
)

// minPrefixLen keeps very short refs from matching half the table.
const minPrefixLen = 4

type projectService struct {
	projects repository.ProjectRepo
	audit    auditor
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, audit repository.AuditRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		projects: projects,
		audit:    auditor{repo: audit},
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "project.create", map[string]any{"short_id": p.ShortID}, &err)()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	if p.Status == "" {
		p.Status = domain.ProjectInProgress
	}
	if p.Weather == "" {
		p.Weather = domain.WeatherFair
	}
	if err := validateProject(p); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.projects.Create(ctx, p); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditCreate, "project", p.ID, p.ShortID, nil, p)
	return nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return p, nil
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: project reference is required", ErrInvalidInput)
	}

	p, err := s.projects.GetByShortID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("resolving project %q: %w", ref, err)
	}

	p, err = s.projects.GetByID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("resolving project %q: %w", ref, err)
	}

	if len(ref) < minPrefixLen {
		return nil, fmt.Errorf("project %q: %w", ref, repository.ErrNotFound)
	}
	matches, err := s.projects.FindByIDPrefix(ctx, strings.ToLower(ref))
	if err != nil {
		return nil, fmt.Errorf("resolving project %q: %w", ref, err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project %q: %w", ref, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d projects", ErrAmbiguousProject, ref, len(matches))
	}
}

func (s *projectService) List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error) {
	projects, err := s.projects.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "project.update", map[string]any{"project_id": p.ID}, &err)()

	if err := validateProject(p); err != nil {
		return err
	}
	before, err := s.projects.GetByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("getting project %s: %w", p.ID, err)
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.projects.Update(ctx, p); err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditUpdate, "project", p.ID, p.ShortID, before, p)
	return nil
}

func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "project.delete", map[string]any{"project_id": id}, &err)()

	before, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("getting project %s: %w", id, err)
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	s.audit.recordChange(ctx, domain.AuditDelete, "project", id, before.ShortID, before, nil)
	return nil
}

func validateProject(p *domain.Project) error {
	if _, err := domain.ParseProjectStatus(string(p.Status)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := domain.ParseWeather(string(p.Weather)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
