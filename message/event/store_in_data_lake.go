package event

import (
	"context"
	"encoding/json"
	"fmt"

	"parking/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

func (h Handler) StoreCheckInInDataLake(ctx context.Context, event *entities.TicketCheckedIn_v1) error {
	return h.storeInDataLake(ctx, event.Header, event)
}

func (h Handler) StoreCheckOutInDataLake(ctx context.Context, event *entities.TicketCheckedOut_v1) error {
	return h.storeInDataLake(ctx, event.Header, event)
}

func (h Handler) storeInDataLake(ctx context.Context, header entities.EventHeader, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	eventName := marshaler.Name(event)
	log.FromContext(ctx).WithField("event_name", eventName).Info("Storing event in data lake")

	return h.dataLake.Create(ctx, entities.Event{
		EventID:      header.ID,
		PublishedAt:  header.PublishedAt,
		EventName:    eventName,
		EventPayload: payload,
	})
}
