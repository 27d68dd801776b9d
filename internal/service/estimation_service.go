package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/buildflow/internal/app"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Estimator scores one project snapshot. *estimate.Engine satisfies it.
type Estimator interface {
	Estimate(s estimate.Snapshot, today time.Time) (estimate.Result, error)
}

type estimationService struct {
	projects    ProjectService
	snapshots   repository.SnapshotReader
	estimations repository.EstimationRepo
	engine      Estimator
	audit       auditor
	observer    UseCaseObserver
	now         func() time.Time
	concurrency int
}

type EstimationOption func(*estimationService)

// WithClock overrides the clock used when a request carries no date.
func WithClock(now func() time.Time) EstimationOption {
	return func(s *estimationService) { s.now = now }
}

// WithConcurrency bounds the number of projects scored at once by EstimateAll.
func WithConcurrency(n int) EstimationOption {
	return func(s *estimationService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithObserver(obs UseCaseObserver) EstimationOption {
	return func(s *estimationService) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// WithAudit records saved estimations in the audit log.
func WithAudit(repo repository.AuditRepo) EstimationOption {
	return func(s *estimationService) { s.audit = auditor{repo: repo} }
}

func NewEstimationService(
	projects ProjectService,
	snapshots repository.SnapshotReader,
	estimations repository.EstimationRepo,
	engine Estimator,
	opts ...EstimationOption,
) EstimationService {
	s := &estimationService{
		projects:    projects,
		snapshots:   snapshots,
		estimations: estimations,
		engine:      engine,
		observer:    NoopUseCaseObserver{},
		now:         time.Now,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *estimationService) Estimate(ctx context.Context, req app.EstimateRequest) (_ *app.EstimateResponse, err error) {
	fields := map[string]any{"project": req.ProjectRef, "save": req.Save}
	defer observe(ctx, s.observer, "estimate", fields, &err)()

	p, err := s.projects.Resolve(ctx, req.ProjectRef)
	if err != nil {
		return nil, err
	}
	today := s.now()
	if req.Now != nil {
		today = *req.Now
	}

	res, err := s.estimateProject(ctx, p, today)
	if err != nil {
		return nil, err
	}
	fields["source"] = string(res.Source)
	fields["model_status"] = string(res.ModelStatus)

	resp := &app.EstimateResponse{Project: p, Result: res}
	if req.Save {
		id, err := s.save(ctx, p.ID, res, today)
		if err != nil {
			return nil, err
		}
		resp.EstimationID = id
	}
	return resp, nil
}

func (s *estimationService) estimateProject(ctx context.Context, p *domain.Project, today time.Time) (estimate.Result, error) {
	snap, err := s.snapshots.Snapshot(ctx, p.ID)
	if err != nil {
		return estimate.Result{}, fmt.Errorf("loading snapshot for %s: %w", p.DisplayID(), err)
	}
	res, err := s.engine.Estimate(snap, today)
	if err != nil {
		return estimate.Result{}, fmt.Errorf("estimating %s: %w", p.DisplayID(), err)
	}
	return res, nil
}

func (s *estimationService) save(ctx context.Context, projectID string, res estimate.Result, at time.Time) (string, error) {
	features, err := json.Marshal(res.Features)
	if err != nil {
		return "", fmt.Errorf("encoding features: %w", err)
	}
	e := &domain.Estimation{
		ID:                    uuid.New().String(),
		ProjectID:             projectID,
		DelayProbability:      res.DelayProbability,
		BudgetOverrunEstimate: res.BudgetOverrunEstimate,
		Source:                res.Source,
		ModelStatus:           string(res.ModelStatus),
		FeaturesJSON:          string(features),
		Recommendations:       res.Recommendations,
		CreatedAt:             at.UTC(),
	}
	if err := s.estimations.Create(ctx, e); err != nil {
		return "", fmt.Errorf("saving estimation: %w", err)
	}
	s.audit.record(ctx, domain.AuditCreate, "estimation", e.ID, projectID)
	return e.ID, nil
}

func (s *estimationService) EstimateAll(ctx context.Context, save bool) (_ []app.ProjectEstimate, err error) {
	fields := map[string]any{"save": save}
	defer observe(ctx, s.observer, "estimate.all", fields, &err)()

	status := domain.ProjectInProgress
	projects, err := s.projects.List(ctx, &status)
	if err != nil {
		return nil, err
	}
	fields["projects"] = len(projects)

	today := s.now()
	rows := make([]app.ProjectEstimate, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range projects {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i].Project = p
			res, err := s.estimateProject(gctx, p, today)
			if err != nil {
				rows[i].Err = err
				return nil
			}
			if save {
				if _, err := s.save(gctx, p.ID, res, today); err != nil {
					rows[i].Err = err
					return nil
				}
			}
			rows[i].Result = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("estimating projects: %w", err)
	}
	return rows, nil
}

func (s *estimationService) History(ctx context.Context, projectRef string, limit int) ([]*domain.Estimation, error) {
	p, err := s.projects.Resolve(ctx, projectRef)
	if err != nil {
		return nil, err
	}
	history, err := s.estimations.ListByProject(ctx, p.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing estimations: %w", err)
	}
	return history, nil
}
