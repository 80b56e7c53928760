package event

import (
	"fmt"

	"parking/entities"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	eventsTopicPrefix         = "events."
	internalEventsTopicPrefix = "internal-events.svc-parking."
)

func NewBus(pub message.Publisher) *cqrs.EventBus {
	eventBus, err := cqrs.NewEventBusWithConfig(
		pub,
		cqrs.EventBusConfig{
			GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
				return topicFor(params.Event, params.EventName)
			},
			Marshaler: marshaler,
		},
	)
	if err != nil {
		panic(err)
	}

	return eventBus
}

func topicFor(evt any, eventName string) (string, error) {
	event, ok := evt.(entities.IEvent)
	if !ok {
		return "", fmt.Errorf("invalid event type: %T doesn't implement entities.IEvent", evt)
	}

	if event.IsInternal() {
		return internalEventsTopicPrefix + eventName, nil
	}
	return eventsTopicPrefix + eventName, nil
}
