package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/buildflow/internal/cli"
	"github.com/alexanderramin/buildflow/internal/config"
	"github.com/alexanderramin/buildflow/internal/db"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
	"github.com/alexanderramin/buildflow/internal/logging"
	"github.com/alexanderramin/buildflow/internal/mcp"
	"github.com/alexanderramin/buildflow/internal/ml"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/alexanderramin/buildflow/internal/service"
	"github.com/alexanderramin/buildflow/internal/transport"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Logs go to stderr so stdout stays clean for command output and MCP frames.
	logger, closeLog, err := logging.Init(logging.Options{
		Verbose: cfg.Log.Verbose,
		Dir:     cfg.Log.Dir,
		Console: os.Stderr,
	})
	if err != nil {
		return err
	}
	defer closeLog.Close()

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	projectRepo := repository.NewSQLiteProjectRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	cache := estimate.NewModelCache(cfg.Model.Path, ml.LoadClassifier)
	engine := estimate.NewEngine(
		estimate.NewModelBacked(cache, estimate.RuleBased{}),
		estimate.RuleBased{},
		estimate.WithLogger(logger),
	)

	observer := service.NewLogUseCaseObserver(logger)
	projects := service.NewProjectService(projectRepo, auditRepo, observer)
	estimation := service.NewEstimationService(
		projects,
		repository.NewSQLiteSnapshotReader(database),
		repository.NewSQLiteEstimationRepo(database),
		engine,
		service.WithConcurrency(cfg.Estimate.Concurrency),
		service.WithObserver(observer),
		service.WithAudit(auditRepo),
	)

	phaseRepo := repository.NewSQLitePhaseRepo(database)
	app := &cli.App{
		Projects:   projects,
		Phases:     service.NewPhaseService(phaseRepo, projectRepo, auditRepo, observer),
		Budget:     service.NewBudgetService(repository.NewSQLiteBudgetRepo(database), projectRepo, auditRepo, observer),
		Risks:      service.NewRiskService(repository.NewSQLiteRiskRepo(database), projectRepo, auditRepo, observer),
		Actions:    service.NewActionService(repository.NewSQLiteActionRepo(database), phaseRepo, projectRepo, auditRepo, observer),
		Estimation: estimation,
		Audit:      service.NewAuditService(auditRepo),
		Import:     service.NewImportService(uow, auditRepo, domain.WeatherCondition(cfg.Estimate.DefaultWeather), observer),
		Config:     cfg,
	}

	app.ServeHTTP = func(ctx context.Context) error {
		addr := cfg.Server.Addr()
		logger.Info().Str("addr", addr).Str("model", cache.Path()).Msg("http server listening")
		return transport.ListenAndServe(ctx, addr, transport.NewServer(projects, estimation, logger))
	}
	app.ServeMCP = func(ctx context.Context) error {
		logger.Info().Msg("mcp server on stdio")
		return mcp.ServeStdio(ctx, mcp.NewServer(mcp.Services{Projects: projects, Estimate: estimation}))
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
