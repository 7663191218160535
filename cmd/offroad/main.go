package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/opkr/offroad/internal/app"
	"github.com/opkr/offroad/internal/platform"
	"github.com/opkr/offroad/internal/ui"
)

type launchOptions struct {
	ConfigPath string
	Fullscreen bool
}

func parseLaunchOptions(args []string) (launchOptions, error) {
	var opts launchOptions
	fs := flag.NewFlagSet(app.Name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.ConfigPath, "config", "", "path to config.json")
	fs.BoolVar(&opts.Fullscreen, "fullscreen", false, "start in fullscreen mode")
	if err := fs.Parse(args); err != nil {
		return launchOptions{}, err
	}
	if fs.NArg() > 0 {
		return launchOptions{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return opts, nil
}

func main() {
	opts, err := parseLaunchOptions(os.Args[1:])
	if err != nil {
		slog.Error("parse launch options", "error", err)
		os.Exit(2)
	}

	lock, err := platform.AcquireInstanceLock("", app.Name)
	switch {
	case errors.Is(err, platform.ErrInstanceAlreadyRunning):
		slog.Error("another offroad instance is already running")
		os.Exit(1)
	case errors.Is(err, platform.ErrInstanceLockUnsupported):
		slog.Warn("single instance lock is not available", "error", err)
	case err != nil:
		slog.Error("acquire instance lock", "error", err)
		os.Exit(1)
	}
	if lock != nil {
		defer func() {
			if releaseErr := lock.Release(); releaseErr != nil {
				slog.Warn("release instance lock", "error", releaseErr)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := app.Initialize(ctx, app.Options{ConfigPath: opts.ConfigPath})
	if err != nil {
		slog.Error("initialize app runtime", "error", err)
		os.Exit(1)
	}

	var closeOnce sync.Once
	closeRuntime := func() {
		closeOnce.Do(func() {
			if closeErr := rt.Close(); closeErr != nil {
				slog.Warn("close app runtime", "error", closeErr)
			}
		})
	}
	defer closeRuntime()

	dep := ui.BuildRuntimeDependencies(rt, ui.LaunchOptions{Fullscreen: opts.Fullscreen}, func() {
		stop()
		closeRuntime()
	})
	if err := ui.Run(dep); err != nil {
		slog.Error("run ui", "error", err)
		closeRuntime()
		os.Exit(1)
	}
}
