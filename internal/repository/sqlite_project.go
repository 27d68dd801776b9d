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

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, short_id, name, description, company, region, stage, start_date,
	planned_end_date, actual_end_date, status, planned_budget, actual_budget, weather, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ShortID,
		p.Name,
		p.Description,
		p.Company,
		p.Region,
		p.Stage,
		p.StartDate.Format(dateLayout),
		nullableTimeToString(p.PlannedEndDate, dateLayout),
		nullableTimeToString(p.ActualEndDate, dateLayout),
		string(p.Status),
		p.PlannedBudget,
		p.ActualBudget,
		string(p.Weather),
		timestamp(p.CreatedAt),
		timestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return r.scanOne(row)
}

func (r *SQLiteProjectRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE UPPER(short_id) = UPPER(?)`, shortID)
	return r.scanOne(row)
}

func (r *SQLiteProjectRepo) FindByIDPrefix(ctx context.Context, prefix string) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE substr(id, 1, ?) = ? ORDER BY created_at`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("finding projects by id prefix: %w", err)
	}
	return r.scanAll(rows)
}

// List returns projects in creation order, optionally filtered by status.
func (r *SQLiteProjectRepo) List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at, name`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return r.scanAll(rows)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET short_id = ?, name = ?, description = ?, company = ?, region = ?, stage = ?,
		start_date = ?, planned_end_date = ?, actual_end_date = ?, status = ?, planned_budget = ?,
		actual_budget = ?, weather = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.ShortID,
		p.Name,
		p.Description,
		p.Company,
		p.Region,
		p.Stage,
		p.StartDate.Format(dateLayout),
		nullableTimeToString(p.PlannedEndDate, dateLayout),
		nullableTimeToString(p.ActualEndDate, dateLayout),
		string(p.Status),
		p.PlannedBudget,
		p.ActualBudget,
		string(p.Weather),
		timestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project")
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireAffected(res, "project")
}

func (r *SQLiteProjectRepo) scanOne(row *sql.Row) (*domain.Project, error) {
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project: %w", ErrNotFound)
	}
	return p, err
}

func (r *SQLiteProjectRepo) scanAll(rows *sql.Rows) ([]*domain.Project, error) {
	defer rows.Close()
	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var startDateStr, createdAtStr, updatedAtStr, statusStr, weatherStr string
	var plannedEndStr, actualEndStr sql.NullString

	err := s.Scan(
		&p.ID, &p.ShortID, &p.Name, &p.Description, &p.Company, &p.Region, &p.Stage,
		&startDateStr, &plannedEndStr, &actualEndStr,
		&statusStr, &p.PlannedBudget, &p.ActualBudget, &weatherStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Status = domain.ProjectStatus(statusStr)
	p.Weather = domain.WeatherCondition(weatherStr)
	p.PlannedEndDate = parseNullableTime(plannedEndStr, dateLayout)
	p.ActualEndDate = parseNullableTime(actualEndStr, dateLayout)

	if p.StartDate, err = parseTime("start_date", startDateStr, dateLayout); err != nil {
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

// requireAffected turns a zero-row UPDATE or DELETE into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
