package actions

import (
	"fmt"

	"github.com/opkr/offroad/internal/config"
	"github.com/opkr/offroad/internal/events"
	"github.com/opkr/offroad/internal/params"
)

// Intent names a user action raised by a settings button.
type Intent string

const (
	IntentReboot              Intent = "reboot"
	IntentPowerOff            Intent = "power_off"
	IntentResetCalibration    Intent = "reset_calibration"
	IntentReviewTrainingGuide Intent = "review_training_guide"
	IntentUninstall           Intent = "uninstall"
	IntentCheckForUpdate      Intent = "check_for_update"
	IntentGitPull             Intent = "git_pull"
	IntentPandaFlash          Intent = "panda_flash"
	IntentPandaRecover        Intent = "panda_recover"
	IntentAddFunction         Intent = "add_function"
	IntentDeleteDrivingLogs   Intent = "delete_driving_logs"
)

// RebootMode tells the dispatcher whether and when to reboot after a plan ran.
type RebootMode int

const (
	RebootNone RebootMode = iota
	RebootNow
	RebootDelayed
)

// Plan is the ordered list of effects an intent produces.
type Plan struct {
	Prompt   string
	Remove   []string
	PutBool  map[string]bool
	Script   string
	Signal   events.Signal
	Reboot   RebootMode
	PowerOff bool
}

const processPrompt = "Process?"

// Plans builds the intent table with script commands taken from cfg.
func Plans(cfg config.ScriptsConfig) map[Intent]Plan {
	return map[Intent]Plan{
		IntentReboot: {
			Prompt: "Are you sure you want to reboot?",
			Reboot: RebootNow,
		},
		IntentPowerOff: {
			Prompt:   "Are you sure you want to power off?",
			PowerOff: true,
		},
		IntentResetCalibration: {
			Prompt: "Are you sure you want to reset calibration?",
			Remove: []string{params.KeyCalibrationParams, params.KeyLiveParameters},
			Reboot: RebootDelayed,
		},
		IntentReviewTrainingGuide: {
			Prompt: "Are you sure you want to review the training guide?",
			Remove: []string{params.KeyCompletedTrainingVersion},
			Signal: events.SignalReviewTrainingGuide,
		},
		IntentUninstall: {
			Prompt:  "Are you sure you want to uninstall?",
			PutBool: map[string]bool{params.KeyDoUninstall: true},
		},
		IntentCheckForUpdate: {
			Script: cfg.UpdateSignal,
		},
		IntentGitPull: {
			Prompt: processPrompt,
			Script: cfg.GitPull,
			Reboot: RebootDelayed,
		},
		IntentPandaFlash: {
			Prompt: processPrompt,
			Script: cfg.PandaFlash,
			Reboot: RebootDelayed,
		},
		IntentPandaRecover: {
			Prompt: processPrompt,
			Script: cfg.PandaRecover,
			Reboot: RebootDelayed,
		},
		IntentAddFunction: {
			Prompt: processPrompt,
			Script: cfg.AddFunction,
			Reboot: RebootDelayed,
		},
		IntentDeleteDrivingLogs: {
			Prompt: processPrompt,
			Script: cfg.DeleteDrivingLogs,
		},
	}
}

// ParseIntent validates a raw intent name, e.g. from the command line.
func ParseIntent(raw string) (Intent, error) {
	intent := Intent(raw)
	if _, ok := Plans(config.ScriptsConfig{})[intent]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownIntent, raw)
	}

	return intent, nil
}
