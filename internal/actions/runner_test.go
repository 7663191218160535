//go:build unix

package actions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestShellRunnerRunsCommand(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "ran")
	runner := NewShellRunner(5*time.Second, nil)

	if err := runner.Run(context.Background(), "touch "+target); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected command side effect: %v", err)
	}
}

func TestShellRunnerReportsFailure(t *testing.T) {
	runner := NewShellRunner(5*time.Second, nil)
	if err := runner.Run(context.Background(), "exit 3"); err == nil {
		t.Fatalf("expected error for failing command")
	}
	if err := runner.Run(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestShellRunnerTimeout(t *testing.T) {
	runner := NewShellRunner(50*time.Millisecond, nil)
	start := time.Now()
	if err := runner.Run(context.Background(), "sleep 5"); err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 3*time.Second {
		t.Fatalf("timeout was not enforced")
	}
}

func TestShellRunnerTimeoutKillsChildren(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "survived")
	runner := NewShellRunner(100*time.Millisecond, nil)

	start := time.Now()
	err := runner.Run(context.Background(), "sleep 2; touch "+marker+"; true")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("run returned after %s, timeout was 100ms", elapsed)
	}

	time.Sleep(2500 * time.Millisecond)
	if _, statErr := os.Stat(marker); statErr == nil {
		t.Fatalf("child of the timed out script kept running")
	}
}
