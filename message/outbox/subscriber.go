package outbox

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

// NewSubscriber returns the subscriber the forwarder drains the outbox with. The
// outbox and offsets tables are created when missing, so the store can write to
// them before the forwarder runs.
func NewSubscriber(db *sqlx.DB, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	sub, err := sql.NewSubscriber(db, sql.SubscriberConfig{
		ConsumerGroup:  consumerGroup,
		PollInterval:   pollInterval,
		SchemaAdapter:  schemaAdapter(),
		OffsetsAdapter: sql.DefaultPostgreSQLOffsetsAdapter{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("could not create outbox subscriber: %w", err)
	}

	if err := sub.SubscribeInitialize(Topic); err != nil {
		return nil, fmt.Errorf("could not initialize outbox %s: %w", Topic, err)
	}

	return sub, nil
}
