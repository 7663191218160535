package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ActionRecord is one dispatched intent and its outcome.
type ActionRecord struct {
	ID         int64
	ActionID   string
	Intent     string
	StartedAt  time.Time
	FinishedAt time.Time
	Err        string
}

func (r ActionRecord) Failed() bool {
	return r.Err != ""
}

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Insert(ctx context.Context, rec ActionRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO action_history(action_id, intent, started_at, finished_at, error)
		VALUES(?, ?, ?, ?, ?)
	`, rec.ActionID, rec.Intent, toUnixMillis(rec.StartedAt), toUnixMillis(rec.FinishedAt), rec.Err)
	if err != nil {
		return 0, fmt.Errorf("insert action record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read action record id: %w", err)
	}

	return id, nil
}

func (r *HistoryRepo) ListRecent(ctx context.Context, limit int) ([]ActionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action_id, intent, started_at, finished_at, error
		FROM action_history
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list action history: %w", err)
	}
	defer rows.Close()

	out := make([]ActionRecord, 0, limit)
	for rows.Next() {
		var (
			rec        ActionRecord
			startedMs  int64
			finishedMs int64
		)
		if err := rows.Scan(&rec.ID, &rec.ActionID, &rec.Intent, &startedMs, &finishedMs, &rec.Err); err != nil {
			return nil, fmt.Errorf("scan action record: %w", err)
		}
		rec.StartedAt = fromUnixMillis(startedMs)
		rec.FinishedAt = fromUnixMillis(finishedMs)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action history: %w", err)
	}

	return out, nil
}

// Recorder writes action records through the serialized writer queue.
type Recorder struct {
	repo   *HistoryRepo
	writer *WriterQueue
}

func NewRecorder(repo *HistoryRepo, writer *WriterQueue) *Recorder {
	return &Recorder{repo: repo, writer: writer}
}

// Record queues rec. stored, when set, runs after the insert committed or was given up on,
// so readers notified from it see the row.
func (r *Recorder) Record(rec ActionRecord, stored func()) {
	r.writer.EnqueueThen("record_action:"+rec.Intent, func(ctx context.Context) error {
		_, err := r.repo.Insert(ctx, rec)

		return err
	}, func(error) {
		if stored != nil {
			stored()
		}
	})
}
