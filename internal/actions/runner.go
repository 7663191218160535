package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the command was killed.
const waitDelay = 2 * time.Second

// ShellRunner executes maintenance commands through a POSIX shell.
type ShellRunner struct {
	Shell   string
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewShellRunner(timeout time.Duration, logger *slog.Logger) *ShellRunner {
	if logger == nil {
		logger = slog.Default().With("component", "actions.shell")
	}

	return &ShellRunner{Shell: "sh", Timeout: timeout, Logger: logger}
}

func (r *ShellRunner) Run(ctx context.Context, command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return errors.New("empty command")
	}
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	started := time.Now()
	// #nosec G204 -- commands come from the local config file.
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	// Scripts spawn children that inherit the output pipe; the whole group goes on timeout.
	killProcessGroupOnCancel(cmd)
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	logger.Debug("command output", "command", command, "duration", time.Since(started), "output", strings.TrimSpace(string(out)))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("command %q: %w", command, ctxErr)
		}

		return fmt.Errorf("command %q: %w", command, err)
	}

	return nil
}
