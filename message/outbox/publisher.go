package outbox

import (
	"context"
	"fmt"

	observability "parking/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillSQL "github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

// NewTxPublisher returns a publisher writing into the outbox within tx. Events
// keep their destination topic inside the envelope and reach the broker only
// after tx commits.
func NewTxPublisher(ctx context.Context, tx *sqlx.Tx) (message.Publisher, error) {
	sqlPublisher, err := watermillSQL.NewPublisher(
		tx,
		watermillSQL.PublisherConfig{
			SchemaAdapter: schemaAdapter(),
		},
		log.NewWatermill(log.FromContext(ctx)),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create outbox publisher: %w", err)
	}

	var publisher message.Publisher = forwarder.NewPublisher(sqlPublisher, forwarder.PublisherConfig{
		ForwarderTopic: Topic,
	})
	publisher = log.CorrelationPublisherDecorator{Publisher: publisher}
	publisher = observability.TracingPublisherDecorator{Publisher: publisher}

	return publisher, nil
}
