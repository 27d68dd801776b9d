package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/buildflow/internal/db"
	"github.com/alexanderramin/buildflow/internal/domain"
)

type SQLiteEstimationRepo struct {
	db db.DBTX
}

func NewSQLiteEstimationRepo(conn db.DBTX) *SQLiteEstimationRepo {
	return &SQLiteEstimationRepo{db: conn}
}

func (r *SQLiteEstimationRepo) Create(ctx context.Context, e *domain.Estimation) error {
	recs, err := encodeStrings(e.Recommendations)
	if err != nil {
		return fmt.Errorf("encoding recommendations: %w", err)
	}
	features := e.FeaturesJSON
	if features == "" {
		features = "{}"
	}
	query := `INSERT INTO estimations (id, project_id, delay_probability, budget_overrun_estimate,
		source, model_status, features_json, recommendations_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		e.ID,
		e.ProjectID,
		e.DelayProbability,
		e.BudgetOverrunEstimate,
		string(e.Source),
		e.ModelStatus,
		features,
		recs,
		eventTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting estimation: %w", err)
	}
	return nil
}

// ListByProject returns the newest estimations first. limit <= 0 returns all of them.
func (r *SQLiteEstimationRepo) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.Estimation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, delay_probability, budget_overrun_estimate, source, model_status,
			features_json, recommendations_json, created_at
		FROM estimations WHERE project_id = ? ORDER BY created_at DESC LIMIT ?`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing estimations: %w", err)
	}
	defer rows.Close()

	var out []*domain.Estimation
	for rows.Next() {
		var e domain.Estimation
		var sourceStr, recsStr, createdAtStr string
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.DelayProbability, &e.BudgetOverrunEstimate,
			&sourceStr, &e.ModelStatus, &e.FeaturesJSON, &recsStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning estimation: %w", err)
		}
		e.Source = domain.EstimateSource(sourceStr)
		if e.Recommendations, err = decodeStrings(recsStr); err != nil {
			return nil, fmt.Errorf("decoding recommendations: %w", err)
		}
		if e.CreatedAt, err = parseTime("created_at", createdAtStr, eventLayout); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating estimations: %w", err)
	}
	return out, nil
}
