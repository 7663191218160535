package events

const (
	TopicParamChanged     = "param.changed"
	TopicOffroad          = "device.offroad"
	TopicUISignal         = "ui.signal"
	TopicActionDispatched = "action.dispatched"
)
