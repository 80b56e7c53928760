package outbox

import (
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sirupsen/logrus"
)

// NewForwarder adds a handler to router that moves events from the outbox to
// publisher, each to the topic it was published to. Rows that are not envelopes
// are acked and dropped.
func NewForwarder(
	outboxSubscriber message.Subscriber,
	publisher message.Publisher,
	logger watermill.LoggerAdapter,
	router *message.Router,
) (*forwarder.Forwarder, error) {
	fwd, err := forwarder.NewForwarder(outboxSubscriber, publisher, logger, forwarder.Config{
		ForwarderTopic:      Topic,
		Router:              router,
		AckWhenCannotUnwrap: true,
		Middlewares: []message.HandlerMiddleware{
			logForwarded,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create forwarder for %s: %w", Topic, err)
	}

	return fwd, nil
}

func logForwarded(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		log.FromContext(msg.Context()).WithFields(logrus.Fields{
			"message_id": msg.UUID,
			"outbox":     Topic,
		}).Debug("Forwarding ticket event")
		return h(msg)
	}
}
