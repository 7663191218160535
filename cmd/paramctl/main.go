package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/opkr/offroad/internal/actions"
	"github.com/opkr/offroad/internal/app"
	"github.com/opkr/offroad/internal/calibration"
	"github.com/opkr/offroad/internal/config"
	"github.com/opkr/offroad/internal/logging"
	"github.com/opkr/offroad/internal/params"
	"github.com/opkr/offroad/internal/persistence"
)

const usage = `usage: paramctl [--config path] [--params root] <command> [args]

commands:
  keys                          list known param keys
  get <key>                     print a param value
  put <key> <value>             write a param value
  put-bool <key> <true|false>   write a boolean param
  rm <key>                      remove a param
  watch <key>...                print param changes until interrupted
  calib show                    decode CalibrationParams
  calib set <roll> <pitch> <yaw> [status] [percent]
                                encode CalibrationParams (angles in degrees)
  history [limit]               list recent actions
  history clear                 delete the action history
  config init                   write the default config if none exists
  config show                   print the effective config
  dispatch <intent>             run an action as if tapped in the UI
`

var errUsage = errors.New("invalid usage")

type cli struct {
	paths  app.Paths
	cfg    config.AppConfig
	out    io.Writer
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		slog.Error("run paramctl", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("paramctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "path to config.json")
	paramsRoot := fs.String("params", "", "params root, overrides the config")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}

	paths, err := app.ResolvePaths(*configPath)
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if root := strings.TrimSpace(*paramsRoot); root != "" {
		cfg.Params.Root = root
	}

	logMgr := logging.NewManager()
	logCfg := cfg.Logging
	logCfg.LogToFile = false
	if err := logMgr.Configure(logCfg, paths.LogFile); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer func() {
		if closeErr := logMgr.Close(); closeErr != nil {
			slog.Warn("close log manager", "error", closeErr)
		}
	}()

	c := &cli{paths: paths, cfg: cfg, out: out, logger: logMgr.Logger("paramctl")}
	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "keys":
		return c.keys()
	case "get", "put", "put-bool", "rm":
		return c.param(cmd, cmdArgs)
	case "watch":
		return c.watch(ctx, cmdArgs)
	case "calib":
		return c.calib(cmdArgs)
	case "history":
		return c.history(ctx, cmdArgs)
	case "config":
		return c.config(cmdArgs)
	case "dispatch":
		return c.dispatch(ctx, cmdArgs)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (c *cli) openStore() (*params.Store, error) {
	store, err := params.Open(c.cfg.Params.Root)
	if err != nil {
		return nil, fmt.Errorf("open params: %w", err)
	}

	return store, nil
}

func (c *cli) keys() error {
	for _, key := range params.Keys() {
		fmt.Fprintln(c.out, key)
	}

	return nil
}

func (c *cli) param(cmd string, args []string) error {
	want := map[string]int{"get": 1, "put": 2, "put-bool": 2, "rm": 1}[cmd]
	if len(args) != want {
		return fmt.Errorf("%w: %s takes %d argument(s)", errUsage, cmd, want)
	}
	key := args[0]
	if !params.IsKnownKey(key) {
		return fmt.Errorf("%w: %s", params.ErrUnknownKey, key)
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}

	switch cmd {
	case "get":
		fmt.Fprintln(c.out, store.Get(key))
		return nil
	case "put":
		return store.Put(key, args[1])
	case "put-bool":
		value, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("parse bool %q: %w", args[1], err)
		}
		return store.PutBool(key, value)
	default:
		return store.Remove(key)
	}
}

func (c *cli) watch(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return fmt.Errorf("%w: watch needs at least one key", errUsage)
	}
	for _, key := range keys {
		if !params.IsKnownKey(key) {
			return fmt.Errorf("%w: %s", params.ErrUnknownKey, key)
		}
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}
	watcher, err := params.NewWatcher(store, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			c.logger.Warn("close params watcher", "error", closeErr)
		}
	}()

	watcher.Add(keys...)
	watcher.Start(ctx, func(change params.Change) {
		fmt.Fprintf(c.out, "%s %s=%q\n", time.Now().Format(time.RFC3339), change.Key, store.Get(change.Key))
	})
	<-ctx.Done()

	return nil
}

func (c *cli) calib(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: calib needs show or set", errUsage)
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}

	switch args[0] {
	case "show":
		cal, err := calibration.Decode([]byte(store.Get(params.KeyCalibrationParams)))
		if err != nil {
			return fmt.Errorf("decode calibration: %w", err)
		}
		pitch, yaw := cal.Location()
		fmt.Fprintf(c.out, "status=%d percent=%d pitch=%.2f yaw=%.2f\n", cal.Status, cal.Percent, pitch, yaw)
		return nil
	case "set":
		cal, err := parseCalibration(args[1:])
		if err != nil {
			return err
		}
		logMonoTime := uint64(time.Now().UnixNano()) // #nosec G115 -- wall clock is positive.
		blob, err := calibration.Encode(cal, logMonoTime)
		if err != nil {
			return fmt.Errorf("encode calibration: %w", err)
		}
		return store.Put(params.KeyCalibrationParams, string(blob))
	default:
		return fmt.Errorf("%w: unknown calib command %q", errUsage, args[0])
	}
}

// parseCalibration reads roll, pitch and yaw in degrees plus optional status and percent.
func parseCalibration(args []string) (calibration.LiveCalibration, error) {
	if len(args) < 3 || len(args) > 5 {
		return calibration.LiveCalibration{}, fmt.Errorf("%w: calib set takes 3 to 5 arguments", errUsage)
	}
	cal := calibration.LiveCalibration{Status: 1, Percent: 100}
	for _, raw := range args[:3] {
		deg, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return calibration.LiveCalibration{}, fmt.Errorf("parse angle %q: %w", raw, err)
		}
		cal.RPY = append(cal.RPY, float32(deg*math.Pi/180))
	}
	for i, dst := range []*int32{&cal.Status, &cal.Percent} {
		if len(args) <= 3+i {
			break
		}
		v, err := strconv.ParseInt(args[3+i], 10, 32)
		if err != nil {
			return calibration.LiveCalibration{}, fmt.Errorf("parse %q: %w", args[3+i], err)
		}
		*dst = int32(v)
	}

	return cal, nil
}

func (c *cli) history(ctx context.Context, args []string) error {
	db, err := persistence.Open(ctx, c.paths.DBFile)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			c.logger.Warn("close sqlite", "error", closeErr)
		}
	}()

	limit := app.RecentActionsLoad
	if len(args) > 0 {
		if args[0] == "clear" {
			if err := persistence.ClearDatabase(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "action history cleared")
			return nil
		}
		limit, err = strconv.Atoi(args[0])
		if err != nil || limit <= 0 {
			return fmt.Errorf("%w: invalid limit %q", errUsage, args[0])
		}
	}

	records, err := persistence.NewHistoryRepo(db).ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	now := time.Now()
	for _, rec := range records {
		result := "ok"
		if rec.Failed() {
			result = "failed: " + rec.Err
		}
		fmt.Fprintf(c.out, "%s\t%s\t%s\t%s\n",
			rec.StartedAt.Format(time.RFC3339), app.TimeAgo(rec.StartedAt, now), rec.Intent, result)
	}

	return nil
}

func (c *cli) config(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: config needs init or show", errUsage)
	}

	switch args[0] {
	case "init":
		if _, err := os.Stat(c.paths.ConfigFile); err == nil {
			fmt.Fprintf(c.out, "config already exists at %s\n", c.paths.ConfigFile)
			return nil
		}
		if err := config.Save(c.paths.ConfigFile, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "wrote %s\n", c.paths.ConfigFile)
		return nil
	case "show":
		raw, err := json.MarshalIndent(c.cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		fmt.Fprintln(c.out, string(raw))
		return nil
	default:
		return fmt.Errorf("%w: unknown config command %q", errUsage, args[0])
	}
}

func (c *cli) dispatch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: dispatch takes one intent", errUsage)
	}
	intent, err := actions.ParseIntent(args[0])
	if err != nil {
		return err
	}

	rt, err := app.Initialize(ctx, app.Options{ConfigPath: c.paths.ConfigFile})
	if err != nil {
		return fmt.Errorf("initialize app runtime: %w", err)
	}
	defer func() {
		if closeErr := rt.Close(); closeErr != nil {
			c.logger.Warn("close app runtime", "error", closeErr)
		}
	}()

	if prompt := rt.Dispatcher.Prompt(intent); prompt != "" {
		c.logger.Info("dispatching confirmed intent", "intent", intent, "prompt", prompt)
	}
	if err := rt.Dispatcher.Dispatch(ctx, intent); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s ok\n", intent)

	// The delayed reboot timer lives in this process.
	if plan, ok := rt.Dispatcher.Plan(intent); ok && plan.Reboot == actions.RebootDelayed {
		delay := time.Duration(rt.CurrentConfig().UI.RebootDelayMS)*time.Millisecond + time.Second
		select {
		case <-ctx.Done():
		case <-time.After(delay):
		}
	}

	return nil
}
