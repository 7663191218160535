package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/opkr/offroad/internal/actions"
	"github.com/opkr/offroad/internal/bus"
	"github.com/opkr/offroad/internal/config"
	"github.com/opkr/offroad/internal/events"
	"github.com/opkr/offroad/internal/logging"
	"github.com/opkr/offroad/internal/params"
	"github.com/opkr/offroad/internal/persistence"
	"github.com/opkr/offroad/internal/platform"
)

const historyRetention = 90 * 24 * time.Hour

// Options customizes Initialize. Zero values resolve from the environment.
type Options struct {
	ConfigPath string
	// Hardware replaces the detected device backend.
	Hardware platform.Hardware
}

type Runtime struct {
	mu sync.RWMutex

	Ctx    context.Context
	cancel context.CancelFunc

	Paths  Paths
	Config config.AppConfig

	LogManager *logging.Manager
	Bus        *bus.PubSubBus
	DB         *sql.DB

	HistoryRepo *persistence.HistoryRepo
	WriterQueue *persistence.WriterQueue

	Params     *params.Store
	Watcher    *params.Watcher
	Hardware   platform.Hardware
	Dispatcher *actions.Dispatcher
	SSHKeys    *SSHKeys

	offroadMu    sync.Mutex
	offroad      bool
	offroadKnown bool
}

func Initialize(parent context.Context, opts Options) (*Runtime, error) {
	paths, err := ResolvePaths(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	ctx, cancel := context.WithCancel(parent)
	rt := &Runtime{
		Ctx:    ctx,
		cancel: cancel,
		Paths:  paths,
		Config: cfg,
	}

	logMgr := logging.NewManager()
	if err := logMgr.Configure(cfg.Logging, paths.LogFile); err != nil {
		_ = logMgr.Close()
		cancel()
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	rt.LogManager = logMgr
	slog.Info("starting offroad runtime", "version", BuildVersion(), "build", BuildSummary())

	store, err := params.Open(cfg.Params.Root)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("open params: %w", err)
	}
	rt.Params = store

	db, err := persistence.Open(ctx, paths.DBFile)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.DB = db
	rt.HistoryRepo = persistence.NewHistoryRepo(db)
	if pruned, err := persistence.PruneHistory(ctx, db, HistoryKeep, time.Now().Add(-historyRetention)); err != nil {
		slog.Warn("prune action history", "error", err)
	} else if pruned > 0 {
		slog.Info("pruned action history", "rows", pruned)
	}

	writerQueue := persistence.NewWriterQueue(logMgr.Logger("persistence"), 64)
	writerQueue.Start(ctx)
	rt.WriterQueue = writerQueue

	b := bus.New(logMgr.Logger("bus"))
	rt.Bus = b

	hw := opts.Hardware
	if hw == nil {
		kind := platform.DetectKind(string(cfg.Device.Kind), nil)
		hw = platform.New(kind, logMgr.Logger("platform"))
	}
	rt.Hardware = hw
	slog.Info("device detected", "kind", hw.Kind())

	rt.Dispatcher = actions.NewDispatcher(actions.Dependencies{
		Params:      store,
		Runner:      actions.NewShellRunner(time.Duration(cfg.Scripts.TimeoutSeconds)*time.Second, logMgr.Logger("actions.shell")),
		Device:      hw,
		Bus:         b,
		History:     persistence.NewRecorder(rt.HistoryRepo, writerQueue),
		RebootDelay: time.Duration(cfg.UI.RebootDelayMS) * time.Millisecond,
		Plans:       actions.Plans(cfg.Scripts),
		Logger:      logMgr.Logger("actions"),
	})

	rt.SSHKeys = NewSSHKeys(store, SSHKeysConfig{
		URLTemplate: cfg.SSH.KeysURL,
		Logger:      logMgr.Logger("ssh_keys"),
	})

	watcher, err := params.NewWatcher(store, logMgr.Logger("params.watcher"))
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Watcher = watcher
	watcher.Add(params.KeyIsOffroad)
	rt.setOffroad(store.GetBool(params.KeyIsOffroad))
	watcher.Start(ctx, rt.onParamChange)

	return rt, nil
}

// WatchParams adds keys whose changes are published on the bus.
func (r *Runtime) WatchParams(keys ...string) {
	if r.Watcher != nil {
		r.Watcher.Add(keys...)
	}
}

func (r *Runtime) onParamChange(change params.Change) {
	r.Bus.Publish(events.TopicParamChanged, events.ParamChanged{Key: change.Key, Path: change.Path})
	if change.Key != params.KeyIsOffroad {
		return
	}
	if offroad := r.Params.GetBool(params.KeyIsOffroad); r.setOffroad(offroad) {
		slog.Info("offroad state changed", "offroad", offroad)
		r.Bus.Publish(events.TopicOffroad, events.OffroadTransition{Offroad: offroad})
	}
}

// setOffroad stores the state and reports whether it changed.
func (r *Runtime) setOffroad(offroad bool) bool {
	r.offroadMu.Lock()
	defer r.offroadMu.Unlock()
	changed := !r.offroadKnown || r.offroad != offroad
	r.offroad = offroad
	r.offroadKnown = true

	return changed
}

func (r *Runtime) IsOffroad() bool {
	r.offroadMu.Lock()
	defer r.offroadMu.Unlock()

	return r.offroad
}

// RecentActions loads the newest action history rows for display.
func (r *Runtime) RecentActions(ctx context.Context) ([]persistence.ActionRecord, error) {
	if r.HistoryRepo == nil {
		return nil, fmt.Errorf("database is not initialized")
	}

	return r.HistoryRepo.ListRecent(ctx, RecentActionsLoad)
}

func (r *Runtime) CurrentConfig() config.AppConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Config
}

func (r *Runtime) Close() error {
	if r.WriterQueue != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = r.WriterQueue.Flush(flushCtx)
		cancel()
	}
	if r.cancel != nil {
		r.cancel()
	}
	if r.Watcher != nil {
		_ = r.Watcher.Close()
	}
	if r.Bus != nil {
		r.Bus.Close()
	}
	if r.DB != nil {
		_ = r.DB.Close()
	}
	if r.LogManager != nil {
		_ = r.LogManager.Close()
	}
	return nil
}
