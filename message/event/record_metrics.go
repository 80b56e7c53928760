package event

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"parking/entities"
	"parking/monitoring"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// ErrMalformedEvent marks events that can never be handled. They end up in the poison queue.
var ErrMalformedEvent = errors.New("malformed event")

func (h Handler) RecordCheckInMetrics(ctx context.Context, event *entities.TicketCheckedIn_v1) error {
	log.FromContext(ctx).WithField("ticket_id", event.TicketID).Debug("Recording check-in")

	monitoring.RecordCheckIn()
	return nil
}

func (h Handler) RecordCheckOutMetrics(ctx context.Context, event *entities.TicketCheckedOut_v1) error {
	log.FromContext(ctx).WithField("ticket_id", event.TicketID).Debug("Recording check-out")

	amount, err := strconv.ParseInt(event.Price.Amount, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid price amount %q: %v", ErrMalformedEvent, event.Price.Amount, err)
	}

	monitoring.RecordCheckOut(amount, event.Price.Currency)
	return nil
}
