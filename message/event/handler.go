package event

import (
	"context"

	"parking/entities"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

type DataLake interface {
	Create(ctx context.Context, event entities.Event) error
}

type Handler struct {
	dataLake DataLake
}

// NewHandler builds the event handlers. dataLake may be nil, then events are not
// archived.
func NewHandler(dataLake DataLake) Handler {
	return Handler{
		dataLake: dataLake,
	}
}

func (h Handler) EventHandlers() []cqrs.EventHandler {
	handlers := []cqrs.EventHandler{
		cqrs.NewEventHandler(
			"RecordCheckInMetrics",
			h.RecordCheckInMetrics,
		),
		cqrs.NewEventHandler(
			"RecordCheckOutMetrics",
			h.RecordCheckOutMetrics,
		),
	}

	if h.dataLake != nil {
		handlers = append(handlers,
			cqrs.NewEventHandler(
				"StoreCheckInInDataLake",
				h.StoreCheckInInDataLake,
			),
			cqrs.NewEventHandler(
				"StoreCheckOutInDataLake",
				h.StoreCheckOutInDataLake,
			),
		)
	}

	return handlers
}
