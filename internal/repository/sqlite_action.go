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

type SQLiteActionRepo struct {
	db db.DBTX
}

func NewSQLiteActionRepo(conn db.DBTX) *SQLiteActionRepo {
	return &SQLiteActionRepo{db: conn}
}

const actionColumns = `id, project_id, phase_id, title, description, status, owner, priority,
	start_date, planned_end_date, actual_end_date, created_at, updated_at`

func (r *SQLiteActionRepo) Create(ctx context.Context, a *domain.Action) error {
	query := `INSERT INTO actions (` + actionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ProjectID,
		nullableString(a.PhaseID),
		a.Title,
		a.Description,
		string(a.Status),
		a.Owner,
		a.Priority,
		nullableTimeToString(a.StartDate, dateLayout),
		nullableTimeToString(a.PlannedEndDate, dateLayout),
		nullableTimeToString(a.ActualEndDate, dateLayout),
		timestamp(a.CreatedAt),
		timestamp(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting action: %w", err)
	}
	return nil
}

func (r *SQLiteActionRepo) GetByID(ctx context.Context, id string) (*domain.Action, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+actionColumns+` FROM actions WHERE id = ?`, id)
	a, err := scanAction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("action: %w", ErrNotFound)
	}
	return a, err
}

func (r *SQLiteActionRepo) ListByProject(ctx context.Context, projectID string, includeClosed bool) ([]*domain.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE project_id = ?`
	if !includeClosed {
		query += ` AND status NOT IN ('done', 'cancelled')`
	}
	// NULL planned ends sort last.
	query += ` ORDER BY priority, planned_end_date IS NULL, planned_end_date, title`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	defer rows.Close()

	var actions []*domain.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating actions: %w", err)
	}
	return actions, nil
}

func (r *SQLiteActionRepo) Update(ctx context.Context, a *domain.Action) error {
	query := `UPDATE actions SET phase_id = ?, title = ?, description = ?, status = ?, owner = ?,
		priority = ?, start_date = ?, planned_end_date = ?, actual_end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(a.PhaseID),
		a.Title,
		a.Description,
		string(a.Status),
		a.Owner,
		a.Priority,
		nullableTimeToString(a.StartDate, dateLayout),
		nullableTimeToString(a.PlannedEndDate, dateLayout),
		nullableTimeToString(a.ActualEndDate, dateLayout),
		timestamp(a.UpdatedAt),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating action: %w", err)
	}
	return requireAffected(res, "action")
}

func (r *SQLiteActionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM actions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting action: %w", err)
	}
	return requireAffected(res, "action")
}

func scanAction(s scanner) (*domain.Action, error) {
	var a domain.Action
	var phaseID, startStr, plannedEndStr, actualEndStr sql.NullString
	var statusStr, createdAtStr, updatedAtStr string

	err := s.Scan(
		&a.ID, &a.ProjectID, &phaseID, &a.Title, &a.Description, &statusStr, &a.Owner, &a.Priority,
		&startStr, &plannedEndStr, &actualEndStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning action: %w", err)
	}

	if phaseID.Valid {
		a.PhaseID = &phaseID.String
	}
	a.Status = domain.ActionStatus(statusStr)
	a.StartDate = parseNullableTime(startStr, dateLayout)
	a.PlannedEndDate = parseNullableTime(plannedEndStr, dateLayout)
	a.ActualEndDate = parseNullableTime(actualEndStr, dateLayout)
	if a.CreatedAt, err = parseTime("created_at", createdAtStr, time.RFC3339); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime("updated_at", updatedAtStr, time.RFC3339); err != nil {
		return nil, err
	}
	return &a, nil
}
