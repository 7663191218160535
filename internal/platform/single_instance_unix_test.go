//go:build unix

package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestAcquireInstanceLock_ContentionAndRelease(t *testing.T) {
	dir := t.TempDir()
	appID := "offroad-test-" + strconv.Itoa(os.Getpid())

	lock1, err := AcquireInstanceLock(dir, appID)
	if err != nil {
		t.Fatalf("acquire first lock: %v", err)
	}

	lock2, err := AcquireInstanceLock(dir, appID)
	if !errors.Is(err, ErrInstanceAlreadyRunning) {
		t.Fatalf("expected %v, got %v", ErrInstanceAlreadyRunning, err)
	}
	if lock2 != nil {
		t.Fatalf("expected second lock to be nil, got %#v", lock2)
	}

	if err := lock1.Release(); err != nil {
		t.Fatalf("release first lock: %v", err)
	}

	lock3, err := AcquireInstanceLock(dir, appID)
	if err != nil {
		t.Fatalf("acquire lock after release: %v", err)
	}
	if err := lock3.Release(); err != nil {
		t.Fatalf("release third lock: %v", err)
	}
}

func TestAcquireInstanceLockWritesPID(t *testing.T) {
	dir := t.TempDir()
	lock, err := AcquireInstanceLock(dir, "offroad")
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	t.Cleanup(func() { _ = lock.Release() })

	raw, err := os.ReadFile(filepath.Join(dir, "offroad.lock"))
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if strings.TrimSpace(string(raw)) != strconv.Itoa(os.Getpid()) {
		t.Fatalf("unexpected lock file contents: %q", raw)
	}
}

func TestUnixInstanceLockPathPrefersXDGRuntimeDir(t *testing.T) {
	runtimeDir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)

	path, err := unixInstanceLockPath("", "offroad")
	if err != nil {
		t.Fatalf("resolve lock path: %v", err)
	}
	if want := filepath.Join(runtimeDir, "offroad.lock"); path != want {
		t.Fatalf("expected %q, got %q", want, path)
	}
}

func TestReleaseNilLockIsNoop(t *testing.T) {
	var lock *unixInstanceLock
	if err := lock.Release(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
