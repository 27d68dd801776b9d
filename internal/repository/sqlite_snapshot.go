package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/buildflow/internal/db"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
)

// SQLiteSnapshotReader builds estimation snapshots from the stored project rows.
type SQLiteSnapshotReader struct {
	projects *SQLiteProjectRepo
	db       db.DBTX
}

func NewSQLiteSnapshotReader(conn db.DBTX) *SQLiteSnapshotReader {
	return &SQLiteSnapshotReader{projects: NewSQLiteProjectRepo(conn), db: conn}
}

// Snapshot aggregates one project. Spend is the sum of its actual budget lines,
// or the project's tracked actual budget when it has none. Every risk counts,
// resolved or not.
func (r *SQLiteSnapshotReader) Snapshot(ctx context.Context, projectID string) (estimate.Snapshot, error) {
	p, err := r.projects.GetByID(ctx, projectID)
	if err != nil {
		return estimate.Snapshot{}, err
	}

	var spent float64
	var actualLines int
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM budget_lines WHERE project_id = ? AND kind = ?`,
		projectID, string(domain.BudgetActual)).Scan(&spent, &actualLines)
	if err != nil {
		return estimate.Snapshot{}, fmt.Errorf("summing actual spend: %w", err)
	}
	if actualLines == 0 {
		spent = p.ActualBudget
	}

	var totalPhases, donePhases int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) FROM phases WHERE project_id = ?`,
		string(domain.PhaseDone), projectID).Scan(&totalPhases, &donePhases)
	if err != nil {
		return estimate.Snapshot{}, fmt.Errorf("counting phases: %w", err)
	}

	var riskCount int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM risks WHERE project_id = ?`, projectID).Scan(&riskCount); err != nil {
		return estimate.Snapshot{}, fmt.Errorf("counting risks: %w", err)
	}

	start := p.StartDate
	return estimate.Snapshot{
		StartDate:       &start,
		PlannedEndDate:  p.PlannedEndDate,
		PlannedBudget:   p.PlannedBudget,
		ActualSpent:     spent,
		TotalPhases:     totalPhases,
		CompletedPhases: donePhases,
		RiskCount:       riskCount,
		Status:          p.Status,
		Weather:         p.Weather,
	}, nil
}
