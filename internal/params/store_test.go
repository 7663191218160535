package params

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "params"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	return store
}

func TestStorePutBoolThenGetBool(t *testing.T) {
	store := openTestStore(t)

	for _, value := range []bool{true, false, true} {
		if err := store.PutBool(KeyIsMetric, value); err != nil {
			t.Fatalf("put bool %v: %v", value, err)
		}
		if got := store.GetBool(KeyIsMetric); got != value {
			t.Fatalf("expected %v after put, got %v", value, got)
		}
	}
}

func TestStoreMissingKeysReadAsZeroValues(t *testing.T) {
	store := openTestStore(t)

	if got := store.Get(KeyGitBranch); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if store.GetBool(KeyPassive) {
		t.Fatalf("expected false for missing bool")
	}
	if got := store.GetInt(KeyUpdateFailedCount); got != 0 {
		t.Fatalf("expected 0 for missing int, got %d", got)
	}
}

func TestStoreGetIntParsesTrimmedValue(t *testing.T) {
	store := openTestStore(t)
	if err := store.Put(KeyUpdateFailedCount, "3\n"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := store.GetInt(KeyUpdateFailedCount); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if err := store.Put(KeyUpdateFailedCount, "garbage"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := store.GetInt(KeyUpdateFailedCount); got != 0 {
		t.Fatalf("expected 0 for invalid int, got %d", got)
	}
}

func TestStoreRemove(t *testing.T) {
	store := openTestStore(t)
	if err := store.Put(KeyCalibrationParams, "blob"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Remove(KeyCalibrationParams); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(store.KeyPath(KeyCalibrationParams)); !os.IsNotExist(err) {
		t.Fatalf("expected key file to be gone, stat err: %v", err)
	}
	if err := store.Remove(KeyCalibrationParams); err != nil {
		t.Fatalf("removing a missing key must not fail: %v", err)
	}
}

func TestStoreRejectsUnknownKeys(t *testing.T) {
	store := openTestStore(t)
	if err := store.Put("../escape", "x"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if err := store.Remove("NotAKey"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if got := store.Get("NotAKey"); got != "" {
		t.Fatalf("expected empty read for unknown key, got %q", got)
	}
}

func TestStoreKeyPathLayout(t *testing.T) {
	store := openTestStore(t)
	want := filepath.Join(store.Path(), "d", "LastUpdateTime")
	if got := store.KeyPath(KeyLastUpdateTime); got != want {
		t.Fatalf("unexpected key path: got %q, want %q", got, want)
	}
}

func TestWatcherReportsOnlyAddedKeys(t *testing.T) {
	store := openTestStore(t)
	w, err := NewWatcher(store, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	changes := make(chan Change, 8)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Add(KeyUpdateFailedCount)
	w.Start(ctx, func(c Change) { changes <- c })

	if err := store.Put(KeyGitBranch, "release"); err != nil {
		t.Fatalf("put unwatched: %v", err)
	}
	if err := store.Put(KeyUpdateFailedCount, "1"); err != nil {
		t.Fatalf("put watched: %v", err)
	}

	select {
	case c := <-changes:
		if c.Key != KeyUpdateFailedCount {
			t.Fatalf("unexpected change key: %q", c.Key)
		}
		if c.Path != store.KeyPath(KeyUpdateFailedCount) {
			t.Fatalf("unexpected change path: %q", c.Path)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for watched change")
	}
}
