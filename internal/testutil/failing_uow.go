package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/buildflow/internal/db"
)

// FailingInsertUoW runs work in a real transaction but fails one INSERT into
// Table. The first After matching inserts succeed; the next returns Err.
// Reads and writes to other tables pass through.
type FailingInsertUoW struct {
	DB    *sql.DB
	Table string
	After int
	Err   error
}

func (u *FailingInsertUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failingInsert{DBTX: tx, prefix: "INSERT INTO " + u.Table + " ", after: u.After, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingInsert struct {
	db.DBTX
	prefix string
	after  int
	seen   int
	err    error
}

func (f *failingInsert) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.HasPrefix(strings.TrimSpace(query), f.prefix) {
		f.seen++
		if f.seen > f.after {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
