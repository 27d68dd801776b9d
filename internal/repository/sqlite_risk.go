package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/buildflow/internal/db"
	"github.com/alexanderramin/buildflow/internal/domain"
)

type SQLiteRiskRepo struct {
	db db.DBTX
}

func NewSQLiteRiskRepo(conn db.DBTX) *SQLiteRiskRepo {
	return &SQLiteRiskRepo{db: conn}
}

const riskColumns = `id, project_id, name, description, level, probability, impact, mitigation, identified_at, resolved_at`

func (r *SQLiteRiskRepo) Create(ctx context.Context, k *domain.Risk) error {
	query := `INSERT INTO risks (` + riskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		k.ID,
		k.ProjectID,
		k.Name,
		k.Description,
		string(k.Level),
		k.Probability,
		k.Impact,
		k.Mitigation,
		k.IdentifiedAt.Format(dateLayout),
		nullableTimeToString(k.ResolvedAt, dateLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting risk: %w", err)
	}
	return nil
}

func (r *SQLiteRiskRepo) GetByID(ctx context.Context, id string) (*domain.Risk, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+riskColumns+` FROM risks WHERE id = ?`, id)
	k, err := scanRisk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("risk: %w", ErrNotFound)
	}
	return k, err
}

func (r *SQLiteRiskRepo) ListByProject(ctx context.Context, projectID string, includeResolved bool) ([]*domain.Risk, error) {
	query := `SELECT ` + riskColumns + ` FROM risks WHERE project_id = ?`
	if !includeResolved {
		query += ` AND resolved_at IS NULL`
	}
	query += ` ORDER BY identified_at, name`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing risks: %w", err)
	}
	defer rows.Close()

	var risks []*domain.Risk
	for rows.Next() {
		k, err := scanRisk(rows)
		if err != nil {
			return nil, err
		}
		risks = append(risks, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating risks: %w", err)
	}
	return risks, nil
}

func (r *SQLiteRiskRepo) Update(ctx context.Context, k *domain.Risk) error {
	query := `UPDATE risks SET name = ?, description = ?, level = ?, probability = ?, impact = ?,
		mitigation = ?, identified_at = ?, resolved_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		k.Name,
		k.Description,
		string(k.Level),
		k.Probability,
		k.Impact,
		k.Mitigation,
		k.IdentifiedAt.Format(dateLayout),
		nullableTimeToString(k.ResolvedAt, dateLayout),
		k.ID,
	)
	if err != nil {
		return fmt.Errorf("updating risk: %w", err)
	}
	return requireAffected(res, "risk")
}

func (r *SQLiteRiskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM risks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting risk: %w", err)
	}
	return requireAffected(res, "risk")
}

func scanRisk(s scanner) (*domain.Risk, error) {
	var k domain.Risk
	var levelStr, identifiedStr string
	var resolvedStr sql.NullString

	err := s.Scan(&k.ID, &k.ProjectID, &k.Name, &k.Description, &levelStr, &k.Probability,
		&k.Impact, &k.Mitigation, &identifiedStr, &resolvedStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning risk: %w", err)
	}
	k.Level = domain.RiskLevel(levelStr)
	k.ResolvedAt = parseNullableTime(resolvedStr, dateLayout)
	if k.IdentifiedAt, err = parseTime("identified_at", identifiedStr, dateLayout); err != nil {
		return nil, err
	}
	return &k, nil
}
