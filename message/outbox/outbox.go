package outbox

import (
	"time"

	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
)

// Topic is the outbox of ticket lifecycle events. watermill-sql keeps it in the
// watermill_parking_ticket_events table.
const Topic = "parking_ticket_events"

const (
	consumerGroup = "parking_forwarder"
	pollInterval  = 100 * time.Millisecond
)

func schemaAdapter() sql.SchemaAdapter {
	return sql.DefaultPostgreSQLSchema{}
}
