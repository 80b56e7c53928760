package event

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

var marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

func NewProcessorConfig(redisClient *redis.Client, watermillLogger watermill.LoggerAdapter) cqrs.EventProcessorConfig {
	return newProcessorConfig(
		func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        redisClient,
				ConsumerGroup: "svc-parking.events." + params.HandlerName,
			}, watermillLogger)
		},
		watermillLogger,
	)
}

// NewInProcessConfig delivers events through a Go channel pub/sub. Every handler
// shares the same subscriber, so events are not persisted across restarts.
func NewInProcessConfig(pubSub *gochannel.GoChannel, watermillLogger watermill.LoggerAdapter) cqrs.EventProcessorConfig {
	return newProcessorConfig(
		func(cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return pubSub, nil
		},
		watermillLogger,
	)
}

func newProcessorConfig(
	subscriberConstructor cqrs.EventProcessorSubscriberConstructorFn,
	watermillLogger watermill.LoggerAdapter,
) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return topicFor(params.EventHandler.NewEvent(), params.EventName)
		},
		SubscriberConstructor: subscriberConstructor,
		Marshaler:             marshaler,
		Logger:                watermillLogger,
	}
}
