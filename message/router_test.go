package message

import (
	"context"
	"testing"
	"time"

	"parking/entities"
	"parking/message/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatermillRouter_moves_malformed_events_to_poison_queue(t *testing.T) {
	logger := watermill.NopLogger{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	router, err := NewWatermillRouter(
		nil,
		event.NewInProcessConfig(pubSub, logger),
		event.NewHandler(nil),
		pubSub,
		logger,
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poisoned, err := pubSub.Subscribe(ctx, PoisonQueueTopic)
	require.NoError(t, err)

	go func() {
		_ = router.Run(ctx)
	}()
	<-router.Running()

	err = event.NewBus(pubSub).Publish(ctx, entities.TicketCheckedOut_v1{
		Header:   entities.NewEventHeader(),
		TicketID: 1,
		Price:    entities.Money{Amount: "not-a-number", Currency: "IDR"},
	})
	require.NoError(t, err)

	select {
	case msg := <-poisoned:
		msg.Ack()
		assert.Equal(t, "events.TicketCheckedOut_v1", msg.Metadata.Get(middleware.PoisonedTopicKey))
		assert.Contains(t, msg.Metadata.Get(middleware.ReasonForPoisonedKey), "malformed event")
	case <-time.After(15 * time.Second):
		t.Fatal("event was not moved to the poison queue")
	}
}
