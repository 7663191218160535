package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"slices"
	"strings"
)

type commandSpec struct {
	name string
	args []string
	// okExitCodes are non-zero exit statuses that still count as success.
	okExitCodes []int
}

func (c commandSpec) String() string {
	return strings.TrimSpace(c.name + " " + strings.Join(c.args, " "))
}

func (c commandSpec) allowsExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}

	return slices.Contains(c.okExitCodes, exitErr.ExitCode())
}

type commandStarter func(name string, args ...string) error

type commandExec struct {
	run      commandStarter
	start    commandStarter
	readFile func(string) ([]byte, error)
	logger   *slog.Logger
}

func (e commandExec) runSpec(action string, spec commandSpec) error {
	e.logger.Info("running device command", "action", action, "command", spec.String())
	if err := e.run(spec.name, spec.args...); err != nil {
		if spec.allowsExit(err) {
			e.logger.Debug("device command finished", "action", action, "command", spec.name, "status", err)
			return nil
		}
		e.logger.Warn("device command failed", "action", action, "command", spec.name, "error", err)
		return fmt.Errorf("%s: %w", action, err)
	}

	return nil
}

func (e commandExec) startSpec(action string, spec commandSpec) error {
	e.logger.Info("starting device command", "action", action, "command", spec.String())
	if err := e.start(spec.name, spec.args...); err != nil {
		e.logger.Warn("device command failed to start", "action", action, "command", spec.name, "error", err)
		return fmt.Errorf("%s: %w", action, err)
	}

	return nil
}

// startFirst tries commands in order and stops at the first one that starts.
func (e commandExec) startFirst(action string, commands []commandSpec) error {
	if len(commands) == 0 {
		return fmt.Errorf("%s is not supported on this device", action)
	}

	e.logger.Info("opening settings screen", "action", action, "attempts", len(commands))

	var errs []error
	for i, spec := range commands {
		attempt := i + 1
		err := e.start(spec.name, spec.args...)
		if err == nil {
			e.logger.Info("opened settings screen", "action", action, "command", spec.name, "attempt", attempt)

			return nil
		}
		e.logger.Debug(
			"settings command failed",
			"action", action,
			"command", spec.name,
			"args", spec.args,
			"attempt", attempt,
			"error", err,
		)
		errs = append(errs, fmt.Errorf("%s: %w", spec.name, err))
	}

	joinedErr := errors.Join(errs...)
	e.logger.Warn("failed to open settings screen", "action", action, "error", joinedErr)

	return joinedErr
}

func runCommand(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
			return fmt.Errorf("%w: %s", err, trimmed)
		}

		return err
	}

	return nil
}

func startCommandDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()

	return nil
}
