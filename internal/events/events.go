package events

import "time"

// Signal names an app-level request raised by the settings window towards its parent.
type Signal string

const (
	SignalReviewTrainingGuide Signal = "review_training_guide"
	SignalShowDriverView      Signal = "show_driver_view"
	SignalCloseSettings       Signal = "close_settings"
)

// ParamChanged is published when a watched param file is written or removed.
type ParamChanged struct {
	Key  string
	Path string
}

// OffroadTransition is published when IsOffroad flips.
type OffroadTransition struct {
	Offroad bool
}

// ActionResult reports the outcome of a dispatched intent.
type ActionResult struct {
	ActionID   string
	Intent     string
	StartedAt  time.Time
	FinishedAt time.Time
	Err        string
}
