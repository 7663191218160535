package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opkr/offroad/internal/events"
	"github.com/opkr/offroad/internal/persistence"
)

var (
	ErrUnknownIntent = errors.New("unknown intent")
	ErrNoDevice      = errors.New("device backend is not configured")
)

// DefaultRebootDelay is the pause before a delayed reboot.
const DefaultRebootDelay = time.Second

type ParamWriter interface {
	Remove(key string) error
	PutBool(key string, value bool) error
}

type ScriptRunner interface {
	Run(ctx context.Context, command string) error
}

type Device interface {
	Reboot() error
	PowerOff() error
}

type Publisher interface {
	Publish(topic string, msg any)
}

type HistoryRecorder interface {
	// Record stores rec and calls stored once it is readable.
	Record(rec persistence.ActionRecord, stored func())
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Dependencies wires the dispatcher to the device. Nil optional fields are skipped.
type Dependencies struct {
	Params      ParamWriter
	Runner      ScriptRunner
	Device      Device
	Bus         Publisher
	History     HistoryRecorder
	Scheduler   Scheduler
	RebootDelay time.Duration
	Plans       map[Intent]Plan
	Logger      *slog.Logger
	Now         func() time.Time
}

// Dispatcher maps intents to their effects.
type Dispatcher struct {
	deps Dependencies
}

func NewDispatcher(deps Dependencies) *Dispatcher {
	if deps.Scheduler == nil {
		deps.Scheduler = timerScheduler{}
	}
	if deps.RebootDelay <= 0 {
		deps.RebootDelay = DefaultRebootDelay
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default().With("component", "actions")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Plans == nil {
		deps.Plans = map[Intent]Plan{}
	}

	return &Dispatcher{deps: deps}
}

// Plan returns the plan registered for intent.
func (d *Dispatcher) Plan(intent Intent) (Plan, bool) {
	plan, ok := d.deps.Plans[intent]

	return plan, ok
}

// Prompt returns the confirmation text for intent, empty when none is needed.
func (d *Dispatcher) Prompt(intent Intent) string {
	return d.deps.Plans[intent].Prompt
}

// Intents lists the registered intents in name order.
func (d *Dispatcher) Intents() []Intent {
	out := make([]Intent, 0, len(d.deps.Plans))
	for intent := range d.deps.Plans {
		out = append(out, intent)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Dispatch runs the plan for intent: param removals, param writes, script, signal, then
// reboot or power off. A delayed reboot is scheduled even if the script failed.
func (d *Dispatcher) Dispatch(ctx context.Context, intent Intent) error {
	plan, ok := d.deps.Plans[intent]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}

	actionID := uuid.NewString()
	logger := d.deps.Logger.With("intent", string(intent), "action_id", actionID)
	started := d.deps.Now()
	logger.Info("dispatching action")

	var errs []error
	for _, key := range plan.Remove {
		if err := d.requireParams().Remove(key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	for _, key := range sortedKeys(plan.PutBool) {
		if err := d.requireParams().PutBool(key, plan.PutBool[key]); err != nil {
			errs = append(errs, fmt.Errorf("put %s: %w", key, err))
		}
	}
	if strings.TrimSpace(plan.Script) != "" {
		if err := d.runScript(ctx, plan.Script); err != nil {
			logger.Warn("action script failed", "error", err)
			errs = append(errs, err)
		}
	}
	if plan.Signal != "" && d.deps.Bus != nil {
		d.deps.Bus.Publish(events.TopicUISignal, plan.Signal)
	}

	switch {
	case plan.PowerOff:
		if err := d.powerOff(); err != nil {
			errs = append(errs, err)
		}
	case plan.Reboot == RebootNow:
		if err := d.reboot(); err != nil {
			errs = append(errs, err)
		}
	case plan.Reboot == RebootDelayed:
		logger.Info("scheduling reboot", "delay", d.deps.RebootDelay)
		d.deps.Scheduler.AfterFunc(d.deps.RebootDelay, func() {
			if err := d.reboot(); err != nil {
				logger.Error("delayed reboot failed", "error", err)
			}
		})
	}

	err := errors.Join(errs...)
	d.report(actionID, intent, started, err)
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", intent, err)
	}
	logger.Info("action finished", "duration", d.deps.Now().Sub(started))

	return nil
}

func (d *Dispatcher) requireParams() ParamWriter {
	if d.deps.Params == nil {
		return noParams{}
	}

	return d.deps.Params
}

func (d *Dispatcher) runScript(ctx context.Context, command string) error {
	if d.deps.Runner == nil {
		return errors.New("script runner is not configured")
	}
	if err := d.deps.Runner.Run(ctx, command); err != nil {
		return fmt.Errorf("run script: %w", err)
	}

	return nil
}

func (d *Dispatcher) reboot() error {
	if d.deps.Device == nil {
		return ErrNoDevice
	}

	return d.deps.Device.Reboot()
}

func (d *Dispatcher) powerOff() error {
	if d.deps.Device == nil {
		return ErrNoDevice
	}

	return d.deps.Device.PowerOff()
}

func (d *Dispatcher) report(actionID string, intent Intent, started time.Time, err error) {
	result := events.ActionResult{
		ActionID:   actionID,
		Intent:     string(intent),
		StartedAt:  started,
		FinishedAt: d.deps.Now(),
	}
	if err != nil {
		result.Err = err.Error()
	}
	publish := func() {
		if d.deps.Bus != nil {
			d.deps.Bus.Publish(events.TopicActionDispatched, result)
		}
	}
	if d.deps.History == nil {
		publish()
		return
	}
	// Listeners reload the history on this event, so it goes out after the row is stored.
	d.deps.History.Record(persistence.ActionRecord{
		ActionID:   result.ActionID,
		Intent:     result.Intent,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Err:        result.Err,
	}, publish)
}

type noParams struct{}

func (noParams) Remove(string) error        { return errors.New("params store is not configured") }
func (noParams) PutBool(string, bool) error { return errors.New("params store is not configured") }

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
