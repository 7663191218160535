package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *HistoryRepo {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "offroad.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewHistoryRepo(db)
}

func TestHistoryRepoListRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, intent := range []string{"reboot", "git_pull", "reset_calibration"} {
		started := base.Add(time.Duration(i) * time.Second)
		rec := ActionRecord{Intent: intent, StartedAt: started, FinishedAt: started.Add(50 * time.Millisecond)}
		if intent == "git_pull" {
			rec.Err = "exit status 1"
		}
		if _, err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", intent, err)
		}
	}

	got, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Intent != "reset_calibration" || got[1].Intent != "git_pull" {
		t.Fatalf("unexpected order: %q, %q", got[0].Intent, got[1].Intent)
	}
	if !got[1].Failed() || got[0].Failed() {
		t.Fatalf("unexpected failure flags: %#v", got)
	}
	if !got[0].StartedAt.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("unexpected started_at %v", got[0].StartedAt)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "offroad.db")

	for i := 0; i < 2; i++ {
		db, err := Open(ctx, path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		var version int
		if err := db.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
			t.Fatalf("read version: %v", err)
		}
		if version != len(migrations) {
			t.Fatalf("expected schema version %d, got %d", len(migrations), version)
		}
		_ = db.Close()
	}
}

func TestPruneHistoryKeepsNewest(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		at := now.Add(-time.Duration(i) * time.Minute)
		if _, err := repo.Insert(ctx, ActionRecord{Intent: "reboot", StartedAt: at, FinishedAt: at}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	removed, err := PruneHistory(ctx, repo.db, 3, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 pruned rows, got %d", removed)
	}

	if err := ClearDatabase(ctx, repo.db); err != nil {
		t.Fatalf("clear: %v", err)
	}
	left, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(left))
	}
}

func TestRecorderWritesThroughQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := openTestDB(t)

	writer := NewWriterQueue(nil, 4)
	writer.Start(ctx)
	recorder := NewRecorder(repo, writer)

	now := time.Now()
	recorder.Record(ActionRecord{Intent: "power_off", StartedAt: now, FinishedAt: now}, nil)

	flushCtx, flushCancel := context.WithTimeout(ctx, 5*time.Second)
	defer flushCancel()
	if err := writer.Flush(flushCtx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Intent != "power_off" {
		t.Fatalf("unexpected history: %#v", got)
	}
}

func TestWriterQueueRetriesFailedWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writer := NewWriterQueue(nil, 4)
	writer.Start(ctx)

	var attempts atomic.Int32
	writer.Enqueue("flaky", func(context.Context) error {
		if attempts.Add(1) < 2 {
			return errors.New("database is locked")
		}
		return nil
	})

	flushCtx, flushCancel := context.WithTimeout(ctx, 5*time.Second)
	defer flushCancel()
	if err := writer.Flush(flushCtx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := attempts.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestRecorderNotifiesAfterInsertCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := openTestDB(t)

	writer := NewWriterQueue(nil, 4)
	writer.Start(ctx)
	recorder := NewRecorder(repo, writer)

	seen := make(chan int, 1)
	now := time.Now()
	recorder.Record(ActionRecord{Intent: "uninstall", StartedAt: now, FinishedAt: now}, func() {
		got, err := repo.ListRecent(ctx, 10)
		if err != nil {
			seen <- -1
			return
		}
		seen <- len(got)
	})

	select {
	case n := <-seen:
		if n != 1 {
			t.Fatalf("expected the record to be readable when notified, got %d rows", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for stored callback")
	}
}

func TestWriterQueueReportsFinalError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writer := NewWriterQueue(nil, 4)
	writer.Start(ctx)

	done := make(chan error, 1)
	writer.EnqueueThen("broken", func(context.Context) error {
		return errors.New("disk full")
	}, func(err error) { done <- err })

	select {
	case err := <-done:
		if err == nil || err.Error() != "disk full" {
			t.Fatalf("expected final write error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for done callback")
	}
}
