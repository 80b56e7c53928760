package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	parkingMessage "parking/message"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var errDone = errors.New("done")

type Message struct {
	ID            string
	Reason        string
	OriginalTopic string
	Handler       string
}

type Handler struct {
	topic      string
	subscriber message.Subscriber
	publisher  message.Publisher
	timeout    time.Duration
}

func NewHandler(rdb *redis.Client, topic string) (*Handler, error) {
	logger := watermill.NopLogger{}

	sub, err := redisstream.NewSubscriber(
		redisstream.SubscriberConfig{
			Client:        rdb,
			ConsumerGroup: "poison-queue-cli",
		},
		logger,
	)
	if err != nil {
		return nil, err
	}

	pub, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: rdb,
		},
		logger,
	)
	if err != nil {
		return nil, err
	}

	return &Handler{
		topic:      topic,
		subscriber: sub,
		publisher:  pub,
		timeout:    10 * time.Second,
	}, nil
}

// Preview lists the poisoned events. Every message is put back at the end of the
// queue until the first one comes around again.
func (h *Handler) Preview(ctx context.Context) ([]Message, error) {
	var messages []Message

	err := h.cycle(ctx, func(msg *message.Message) (bool, error) {
		messages = append(messages, Message{
			ID:            msg.UUID,
			Reason:        msg.Metadata.Get(middleware.ReasonForPoisonedKey),
			OriginalTopic: msg.Metadata.Get(middleware.PoisonedTopicKey),
			Handler:       msg.Metadata.Get(middleware.PoisonedHandlerKey),
		})
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return messages, nil
}

// Remove drops the poisoned event with messageID.
func (h *Handler) Remove(ctx context.Context, messageID string) error {
	found := false

	err := h.cycle(ctx, func(msg *message.Message) (bool, error) {
		if msg.UUID != messageID {
			return false, nil
		}
		found = true
		return true, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return errors.New("message not found")
	}

	return nil
}

// Requeue publishes the poisoned event with messageID back to the topic it came
// from, so its handler processes it again.
func (h *Handler) Requeue(ctx context.Context, messageID string) error {
	found := false

	err := h.cycle(ctx, func(msg *message.Message) (bool, error) {
		if msg.UUID != messageID {
			return false, nil
		}

		topic := msg.Metadata.Get(middleware.PoisonedTopicKey)
		if topic == "" {
			return false, fmt.Errorf("message %s has no original topic", messageID)
		}
		if err := h.publisher.Publish(topic, msg.Copy()); err != nil {
			return false, err
		}

		found = true
		return true, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return errors.New("message not found")
	}

	return nil
}

// cycle reads the queue once. visit returns true to take the message out of the
// queue, all other messages are published back.
func (h *Handler) cycle(ctx context.Context, visit func(msg *message.Message) (bool, error)) error {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NopLogger{})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	done := false
	firstMessage := ""

	router.AddHandler(
		"poison-queue-cli",
		h.topic,
		h.subscriber,
		h.topic,
		h.publisher,
		func(msg *message.Message) ([]*message.Message, error) {
			if done {
				cancel()
				return nil, errDone
			}

			if firstMessage == "" {
				firstMessage = msg.UUID
			} else if firstMessage == msg.UUID {
				done = true
				cancel()
				return nil, errDone
			}

			remove, err := visit(msg)
			if err != nil {
				return nil, err
			}
			if remove {
				done = true
				return nil, nil
			}

			return []*message.Message{msg}, nil
		},
	)

	return router.Run(ctx)
}

func newHandlerFromEnv() (*Handler, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, errors.New("REDIS_ADDR is required")
	}

	return NewHandler(parkingMessage.NewRedisClient(addr), parkingMessage.PoisonQueueTopic)
}

func main() {
	app := &cli.App{
		Name:  "poison-queue-cli",
		Usage: "Manage lifecycle events that could not be handled",
		Commands: []*cli.Command{
			{
				Name:  "preview",
				Usage: "preview messages",
				Action: func(c *cli.Context) error {
					h, err := newHandlerFromEnv()
					if err != nil {
						return err
					}

					messages, err := h.Preview(c.Context)
					if err != nil {
						return err
					}

					for _, m := range messages {
						fmt.Printf("%v\t%v\t%v\t%v\n", m.ID, m.OriginalTopic, m.Handler, m.Reason)
					}

					return nil
				},
			},
			{
				Name:      "remove",
				ArgsUsage: "<message_id>",
				Usage:     "remove message",
				Action: func(c *cli.Context) error {
					h, err := newHandlerFromEnv()
					if err != nil {
						return err
					}

					return h.Remove(c.Context, c.Args().First())
				},
			},
			{
				Name:      "requeue",
				ArgsUsage: "<message_id>",
				Usage:     "requeue message",
				Action: func(c *cli.Context) error {
					h, err := newHandlerFromEnv()
					if err != nil {
						return err
					}

					return h.Requeue(c.Context, c.Args().First())
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("poison-queue-cli failed")
	}
}
