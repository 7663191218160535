package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

//goland:noinspection SqlWithoutWhere
var clearDatabaseStatements = []string{
	`DELETE FROM action_history;`,
}

func ClearDatabase(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database is not initialized")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear database tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range clearDatabaseStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear database tables: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear database tx: %w", err)
	}

	return nil
}

// PruneHistory keeps the newest keep records and drops anything started before cutoff.
func PruneHistory(ctx context.Context, db *sql.DB, keep int, cutoff time.Time) (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("database is not initialized")
	}
	if keep <= 0 {
		keep = 1
	}

	res, err := db.ExecContext(ctx, `
		DELETE FROM action_history
		WHERE started_at < ?
		   OR id NOT IN (SELECT id FROM action_history ORDER BY started_at DESC, id DESC LIMIT ?)
	`, toUnixMillis(cutoff), keep)
	if err != nil {
		return 0, fmt.Errorf("prune action history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned rows: %w", err)
	}

	return n, nil
}
