package ui

import (
	"fmt"
	"sync"

	"github.com/opkr/offroad/internal/bus"
	"github.com/opkr/offroad/internal/events"
)

// uiEventHandlers receive bus events on the listener goroutines; callers hop to the UI thread.
type uiEventHandlers struct {
	onOffroad      func(events.OffroadTransition)
	onParamChanged func(events.ParamChanged)
	onActionResult func(events.ActionResult)
}

func startUIEventListeners(messageBus bus.MessageBus, handlers uiEventHandlers) func() {
	if messageBus == nil {
		appLogger.Debug("skipping UI event listeners: message bus is nil")

		return func() {}
	}

	topics := []string{events.TopicOffroad, events.TopicParamChanged, events.TopicActionDispatched}
	subs := make([]bus.Subscription, 0, len(topics))
	done := make(chan struct{})
	var stopOnce sync.Once

	offroadSub := messageBus.Subscribe(events.TopicOffroad)
	subs = append(subs, offroadSub)
	go listenTopic(done, offroadSub, events.TopicOffroad, handlers.onOffroad)

	paramSub := messageBus.Subscribe(events.TopicParamChanged)
	subs = append(subs, paramSub)
	go listenTopic(done, paramSub, events.TopicParamChanged, handlers.onParamChanged)

	actionSub := messageBus.Subscribe(events.TopicActionDispatched)
	subs = append(subs, actionSub)
	go listenTopic(done, actionSub, events.TopicActionDispatched, handlers.onActionResult)

	appLogger.Debug("subscribed to UI bus topics", "topics", topics)

	return func() {
		stopOnce.Do(func() {
			appLogger.Debug("stopping UI event listeners")
			close(done)
			for i, sub := range subs {
				messageBus.Unsubscribe(sub, topics[i])
			}
		})
	}
}

func listenTopic[T any](done <-chan struct{}, sub bus.Subscription, topic string, handle func(T)) {
	for {
		select {
		case <-done:
			return
		case raw, ok := <-sub:
			if !ok {
				appLogger.Debug("subscription closed", "topic", topic)

				return
			}
			payload, ok := raw.(T)
			if !ok {
				appLogger.Debug("ignoring unexpected payload", "topic", topic, "payload_type", fmt.Sprintf("%T", raw))

				continue
			}
			select {
			case <-done:
				return
			default:
			}
			if handle != nil {
				handle(payload)
			}
		}
	}
}
