package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/buildflow/internal/db"
	"github.com/alexanderramin/buildflow/internal/domain"
)

type SQLiteBudgetRepo struct {
	db db.DBTX
}

func NewSQLiteBudgetRepo(conn db.DBTX) *SQLiteBudgetRepo {
	return &SQLiteBudgetRepo{db: conn}
}

func (r *SQLiteBudgetRepo) Create(ctx context.Context, b *domain.BudgetLine) error {
	query := `INSERT INTO budget_lines (id, project_id, kind, amount, description, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.ProjectID,
		string(b.Kind),
		b.Amount,
		b.Description,
		b.Date.Format(dateLayout),
		timestamp(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting budget line: %w", err)
	}
	return nil
}

func (r *SQLiteBudgetRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.BudgetLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, kind, amount, description, date, created_at
		FROM budget_lines WHERE project_id = ? ORDER BY date, created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing budget lines: %w", err)
	}
	defer rows.Close()

	var lines []*domain.BudgetLine
	for rows.Next() {
		var b domain.BudgetLine
		var kindStr, dateStr, createdAtStr string
		if err := rows.Scan(&b.ID, &b.ProjectID, &kindStr, &b.Amount, &b.Description, &dateStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning budget line: %w", err)
		}
		b.Kind = domain.BudgetKind(kindStr)
		if b.Date, err = parseTime("date", dateStr, dateLayout); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = parseTime("created_at", createdAtStr, time.RFC3339); err != nil {
			return nil, err
		}
		lines = append(lines, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget lines: %w", err)
	}
	return lines, nil
}

func (r *SQLiteBudgetRepo) SumByKind(ctx context.Context, projectID string, kind domain.BudgetKind) (float64, int, error) {
	var sum float64
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM budget_lines WHERE project_id = ? AND kind = ?`,
		projectID, string(kind)).Scan(&sum, &n)
	if err != nil {
		return 0, 0, fmt.Errorf("summing %s budget lines: %w", kind, err)
	}
	return sum, n, nil
}

func (r *SQLiteBudgetRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budget_lines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting budget line: %w", err)
	}
	return requireAffected(res, "budget line")
}
