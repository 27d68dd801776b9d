package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/buildflow/internal/app"
	"github.com/alexanderramin/buildflow/internal/db"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/importer"
	"github.com/alexanderramin/buildflow/internal/repository"
)

type importService struct {
	uow            db.UnitOfWork
	audit          auditor
	defaultWeather domain.WeatherCondition
	observer       UseCaseObserver
}

// NewImportService imports a project with its phases, budget lines and risks
// in one transaction. defaultWeather applies to projects that omit it.
func NewImportService(uow db.UnitOfWork, audit repository.AuditRepo, defaultWeather domain.WeatherCondition, observers ...UseCaseObserver) ImportService {
	if defaultWeather == "" {
		defaultWeather = domain.WeatherFair
	}
	return &importService{
		uow:            uow,
		audit:          auditor{repo: audit},
		defaultWeather: defaultWeather,
		observer:       useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*app.ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (_ *app.ImportResult, err error) {
	defer observe(ctx, s.observer, "project.import", map[string]any{"short_id": schema.Project.ShortID}, &err)()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	converted, err := importer.Convert(schema, s.defaultWeather)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		phases := repository.NewSQLitePhaseRepo(tx)
		budget := repository.NewSQLiteBudgetRepo(tx)
		risks := repository.NewSQLiteRiskRepo(tx)

		if err := projects.Create(ctx, converted.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, ph := range converted.Phases {
			if err := phases.Create(ctx, ph); err != nil {
				return fmt.Errorf("creating phase %q: %w", ph.Name, err)
			}
		}
		for _, b := range converted.BudgetLines {
			if err := budget.Create(ctx, b); err != nil {
				return fmt.Errorf("creating %s budget line: %w", b.Kind, err)
			}
		}
		for _, r := range converted.Risks {
			if err := risks.Create(ctx, r); err != nil {
				return fmt.Errorf("creating risk %q: %w", r.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &app.ImportResult{
		Project:         converted.Project,
		PhaseCount:      len(converted.Phases),
		BudgetLineCount: len(converted.BudgetLines),
		RiskCount:       len(converted.Risks),
	}
	s.audit.record(ctx, domain.AuditCreate, "project", res.Project.ID,
		fmt.Sprintf("imported %s: %d phases, %d budget lines, %d risks",
			res.Project.ShortID, res.PhaseCount, res.BudgetLineCount, res.RiskCount))
	return res, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
