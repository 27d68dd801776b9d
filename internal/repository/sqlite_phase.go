package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/buildflow/internal/db"
	"github.com/alexanderramin/buildflow/internal/domain"
)

type SQLitePhaseRepo struct {
	db db.DBTX
}

func NewSQLitePhaseRepo(conn db.DBTX) *SQLitePhaseRepo {
	return &SQLitePhaseRepo{db: conn}
}

const phaseColumns = `id, project_id, name, description, order_index, start_date, planned_end_date,
	actual_end_date, status, created_at, updated_at`

func (r *SQLitePhaseRepo) Create(ctx context.Context, p *domain.Phase) error {
	query := `INSERT INTO phases (` + phaseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ProjectID,
		p.Name,
		p.Description,
		p.OrderIndex,
		p.StartDate.Format(dateLayout),
		p.PlannedEndDate.Format(dateLayout),
		nullableTimeToString(p.ActualEndDate, dateLayout),
		string(p.Status),
		timestamp(p.CreatedAt),
		timestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting phase: %w", err)
	}
	return nil
}

func (r *SQLitePhaseRepo) GetByID(ctx context.Context, id string) (*domain.Phase, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+phaseColumns+` FROM phases WHERE id = ?`, id)
	p, err := scanPhase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("phase: %w", ErrNotFound)
	}
	return p, err
}

func (r *SQLitePhaseRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+phaseColumns+` FROM phases WHERE project_id = ? ORDER BY order_index, start_date`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	var phases []*domain.Phase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phases: %w", err)
	}
	return phases, nil
}

func (r *SQLitePhaseRepo) Update(ctx context.Context, p *domain.Phase) error {
	query := `UPDATE phases SET name = ?, description = ?, order_index = ?, start_date = ?,
		planned_end_date = ?, actual_end_date = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.OrderIndex,
		p.StartDate.Format(dateLayout),
		p.PlannedEndDate.Format(dateLayout),
		nullableTimeToString(p.ActualEndDate, dateLayout),
		string(p.Status),
		timestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating phase: %w", err)
	}
	return requireAffected(res, "phase")
}

func (r *SQLitePhaseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM phases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting phase: %w", err)
	}
	return requireAffected(res, "phase")
}

func (r *SQLitePhaseRepo) NextOrder(ctx context.Context, projectID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index), 0) + 1 FROM phases WHERE project_id = ?`, projectID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("computing next phase order: %w", err)
	}
	return next, nil
}

func scanPhase(s scanner) (*domain.Phase, error) {
	var p domain.Phase
	var startStr, plannedEndStr, statusStr, createdAtStr, updatedAtStr string
	var actualEndStr sql.NullString

	err := s.Scan(
		&p.ID, &p.ProjectID, &p.Name, &p.Description, &p.OrderIndex,
		&startStr, &plannedEndStr, &actualEndStr, &statusStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning phase: %w", err)
	}

	p.Status = domain.PhaseStatus(statusStr)
	p.ActualEndDate = parseNullableTime(actualEndStr, dateLayout)
	if p.StartDate, err = parseTime("start_date", startStr, dateLayout); err != nil {
		return nil, err
	}
	if p.PlannedEndDate, err = parseTime("planned_end_date", plannedEndStr, dateLayout); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime("created_at", createdAtStr, time.RFC3339); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime("updated_at", updatedAtStr, time.RFC3339); err != nil {
		return nil, err
	}
	return &p, nil
}
