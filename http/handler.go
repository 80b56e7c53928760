package http

import (
	"context"

	"parking/billing"
	"parking/entities"
)

type Lifecycle interface {
	CheckIn(ctx context.Context, plate string) (entities.Ticket, error)
	PreviewCheckOut(ctx context.Context, plate string) (entities.CheckOutPreview, error)
	ConfirmCheckOut(ctx context.Context, ticketID int64) (entities.Ticket, error)
	Ticket(ctx context.Context, ticketID int64) (entities.Ticket, error)
	Rates() billing.RateTable
}

type HealthCheck interface {
	Check(ctx context.Context) error
}

type Handler struct {
	lifecycle    Lifecycle
	healthChecks []HealthCheck
}
