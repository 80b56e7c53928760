package message

import (
	"errors"
	"fmt"

	"parking/message/event"
	"parking/message/outbox"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Forwarding moves events from the Postgres outbox to the broker.
type Forwarding struct {
	OutboxSubscriber message.Subscriber
	Publisher        message.Publisher
}

const PoisonQueueTopic = "PoisonQueue"

// NewWatermillRouter builds the router running the event handlers. fwd is nil
// when events are published straight to the in-process bus. Malformed events are
// moved to PoisonQueueTopic on poisonPublisher.
func NewWatermillRouter(
	fwd *Forwarding,
	eventProcessorConfig cqrs.EventProcessorConfig,
	eventHandler event.Handler,
	poisonPublisher message.Publisher,
	watermillLogger watermill.LoggerAdapter,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("could not create router: %w", err)
	}

	poisonQueue, err := middleware.PoisonQueueWithFilter(poisonPublisher, PoisonQueueTopic, func(err error) bool {
		return errors.Is(err, event.ErrMalformedEvent)
	})
	if err != nil {
		return nil, fmt.Errorf("could not create poison queue: %w", err)
	}

	useMiddlewares(router, poisonQueue, watermillLogger)

	if fwd != nil {
		_, err = outbox.NewForwarder(fwd.OutboxSubscriber, fwd.Publisher, watermillLogger, router)
		if err != nil {
			return nil, fmt.Errorf("could not create outbox forwarder: %w", err)
		}
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		return nil, fmt.Errorf("could not create event processor: %w", err)
	}

	if err := eventProcessor.AddHandlers(eventHandler.EventHandlers()...); err != nil {
		return nil, fmt.Errorf("could not add event handlers: %w", err)
	}

	return router, nil
}
