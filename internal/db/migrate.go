package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillPhaseOrder(db); err != nil {
		return fmt.Errorf("backfilling phase order: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id               TEXT PRIMARY KEY,
		short_id         TEXT NOT NULL DEFAULT '',
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		company          TEXT NOT NULL DEFAULT '',
		region           TEXT NOT NULL DEFAULT '',
		stage            TEXT NOT NULL DEFAULT '',
		start_date       TEXT NOT NULL,
		planned_end_date TEXT,
		actual_end_date  TEXT,
		status           TEXT NOT NULL DEFAULT 'in_progress'
		                 CHECK(status IN ('in_progress','done','on_hold','cancelled')),
		planned_budget   REAL NOT NULL DEFAULT 0 CHECK(planned_budget >= 0),
		actual_budget    REAL NOT NULL DEFAULT 0 CHECK(actual_budget >= 0),
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS phases (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		order_index      INTEGER NOT NULL DEFAULT 0,
		start_date       TEXT NOT NULL,
		planned_end_date TEXT NOT NULL,
		actual_end_date  TEXT,
		status           TEXT NOT NULL DEFAULT 'pending'
		                 CHECK(status IN ('pending','in_progress','done')),
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_phases_project ON phases(project_id)`,

	`CREATE TABLE IF NOT EXISTS budget_lines (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		kind        TEXT NOT NULL CHECK(kind IN ('planned','actual','adjustment')),
		amount      REAL NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date        TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_budget_lines_project ON budget_lines(project_id, kind)`,

	`CREATE TABLE IF NOT EXISTS risks (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		level         TEXT NOT NULL DEFAULT 'medium'
		              CHECK(level IN ('low','medium','high','critical')),
		probability   INTEGER NOT NULL DEFAULT 0 CHECK(probability BETWEEN 0 AND 100),
		impact        TEXT NOT NULL DEFAULT '',
		mitigation    TEXT NOT NULL DEFAULT '',
		identified_at TEXT NOT NULL,
		resolved_at   TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_risks_project ON risks(project_id)`,

	`CREATE TABLE IF NOT EXISTS estimations (
		id                      TEXT PRIMARY KEY,
		project_id              TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		delay_probability       REAL NOT NULL,
		budget_overrun_estimate REAL NOT NULL,
		source                  TEXT NOT NULL CHECK(source IN ('model','rules')),
		model_status            TEXT NOT NULL DEFAULT '',
		features_json           TEXT NOT NULL DEFAULT '{}',
		recommendations_json    TEXT NOT NULL DEFAULT '[]',
		created_at              TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_estimations_project ON estimations(project_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id            TEXT PRIMARY KEY,
		action        TEXT NOT NULL CHECK(action IN ('create','update','delete')),
		resource_type TEXT NOT NULL,
		resource_id   TEXT NOT NULL,
		details       TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at)`,

	// Site weather, reported by the project manager.
	`ALTER TABLE projects ADD COLUMN weather TEXT NOT NULL DEFAULT 'fair'`,

	// Resource snapshots around each audited change.
	`ALTER TABLE audit_log ADD COLUMN before_json TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE audit_log ADD COLUMN after_json TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS actions (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		phase_id         TEXT REFERENCES phases(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'todo'
		                 CHECK(status IN ('todo','in_progress','done','cancelled')),
		owner            TEXT NOT NULL DEFAULT '',
		priority         INTEGER NOT NULL DEFAULT 1 CHECK(priority BETWEEN 1 AND 5),
		start_date       TEXT,
		planned_end_date TEXT,
		actual_end_date  TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_actions_project ON actions(project_id, status)`,
}

// migrateBackfillPhaseOrder numbers phases that were created without an order
// (order_index = 0), per project, by start date. Idempotent: projects whose
// phases already carry distinct positive orders are left alone.
func migrateBackfillPhaseOrder(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `SELECT DISTINCT project_id FROM phases WHERE order_index = 0 ORDER BY project_id`)
	if err != nil {
		return fmt.Errorf("listing projects with unordered phases: %w", err)
	}
	var projectIDs []string
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			rows.Close()
			return fmt.Errorf("scanning project id: %w", err)
		}
		projectIDs = append(projectIDs, pid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating projects: %w", err)
	}

	for _, pid := range projectIDs {
		if err := backfillProjectPhaseOrder(ctx, db, pid); err != nil {
			return fmt.Errorf("backfilling phase order for project %s: %w", pid, err)
		}
	}
	return nil
}

func backfillProjectPhaseOrder(ctx context.Context, db *sql.DB, projectID string) error {
	rows, err := db.QueryContext(ctx,
		`SELECT id FROM phases WHERE project_id = ? ORDER BY start_date, created_at`, projectID)
	if err != nil {
		return fmt.Errorf("listing phases: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()

	for i, id := range ids {
		if _, err := db.ExecContext(ctx, `UPDATE phases SET order_index = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("updating phase order: %w", err)
		}
	}
	return nil
}
