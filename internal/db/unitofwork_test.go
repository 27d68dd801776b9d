package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/buildflow/internal/db"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/alexanderramin/buildflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestWithinTx_ProjectAndPhases(t *testing.T) {
	errSiteClosed := errors.New("site closed")

	tests := []struct {
		name     string
		work     func(ctx context.Context, tx db.DBTX) error
		wantErr  error
		projects int
		phases   int
	}{
		{
			name: "commits project with phases",
			work: func(ctx context.Context, tx db.DBTX) error {
				p := testutil.NewTestProject("Library")
				if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, p); err != nil {
					return err
				}
				phases := repository.NewSQLitePhaseRepo(tx)
				if err := phases.Create(ctx, testutil.NewTestPhase(p.ID, "Foundations", testutil.WithPhaseOrder(1))); err != nil {
					return err
				}
				return phases.Create(ctx, testutil.NewTestPhase(p.ID, "Roof", testutil.WithPhaseOrder(2)))
			},
			projects: 1,
			phases:   2,
		},
		{
			name: "returned error drops the project",
			work: func(ctx context.Context, tx db.DBTX) error {
				p := testutil.NewTestProject("Library")
				if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, p); err != nil {
					return err
				}
				return errSiteClosed
			},
			wantErr: errSiteClosed,
		},
		{
			name: "orphan phase rolls back the earlier project",
			work: func(ctx context.Context, tx db.DBTX) error {
				p := testutil.NewTestProject("Library")
				if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, p); err != nil {
					return err
				}
				return repository.NewSQLitePhaseRepo(tx).Create(ctx, testutil.NewTestPhase("no-such-project", "Roof"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database := testutil.NewTestDB(t)
			uow := db.NewSQLiteUnitOfWork(database)

			err := uow.WithinTx(context.Background(), tt.work)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.projects == 0:
				require.Error(t, err)
			default:
				require.NoError(t, err)
			}
			assert.Equal(t, tt.projects, countRows(t, database, "projects"))
			assert.Equal(t, tt.phases, countRows(t, database, "phases"))
		})
	}
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)

	assert.PanicsWithValue(t, "crane down", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = repository.NewSQLiteProjectRepo(tx).Create(ctx, testutil.NewTestProject("Library"))
			panic("crane down")
		})
	})

	assert.Zero(t, countRows(t, database, "projects"))
}
