package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parking/billing"
	"parking/db"
	"parking/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

type TicketStore interface {
	CreateActiveTicket(ctx context.Context, plate string) (entities.Ticket, error)
	FindActiveByPlate(ctx context.Context, plate string) (entities.Ticket, error)
	FindByID(ctx context.Context, id int64) (entities.Ticket, error)
	CompleteTicket(ctx context.Context, id int64, checkOutTime time.Time, totalPrice int64) (entities.Ticket, error)
}

// Controller moves tickets through ACTIVE and COMPLETED and prices them on the way
// out. The store is the only shared state, so a Controller is safe for concurrent use.
type Controller struct {
	store TicketStore
	rates billing.RateTable
	clock clockwork.Clock
}

func NewController(store TicketStore, rates billing.RateTable, clock clockwork.Clock) *Controller {
	if store == nil {
		panic("ticket store is nil")
	}
	if clock == nil {
		panic("clock is nil")
	}
	if err := rates.Validate(); err != nil {
		panic(err)
	}

	return &Controller{
		store: store,
		rates: rates,
		clock: clock,
	}
}

func (c *Controller) Rates() billing.RateTable {
	return c.rates
}

func (c *Controller) CheckIn(ctx context.Context, plate string) (entities.Ticket, error) {
	plate, err := normalizedPlate(plate)
	if err != nil {
		return entities.Ticket{}, err
	}

	ticket, err := c.store.CreateActiveTicket(ctx, plate)
	if errors.Is(err, db.ErrActiveTicketExists) {
		return entities.Ticket{}, entities.ErrVehicleAlreadyCheckedIn
	}
	if err != nil {
		return entities.Ticket{}, fmt.Errorf("could not check in %s: %w", plate, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"ticket_id":    ticket.ID,
		"plate_number": ticket.PlateNumber,
	}).Info("Vehicle checked in")

	return ticket, nil
}

// PreviewCheckOut quotes the price of leaving now. Nothing is stored, so two
// previews of the same ticket may differ.
func (c *Controller) PreviewCheckOut(ctx context.Context, plate string) (entities.CheckOutPreview, error) {
	plate, err := normalizedPlate(plate)
	if err != nil {
		return entities.CheckOutPreview{}, err
	}

	ticket, err := c.store.FindActiveByPlate(ctx, plate)
	if errors.Is(err, db.ErrTicketNotFound) {
		return entities.CheckOutPreview{}, entities.ErrTicketNotFound
	}
	if err != nil {
		return entities.CheckOutPreview{}, fmt.Errorf("could not find active ticket for %s: %w", plate, err)
	}

	now := c.now()
	price, err := billing.ComputePrice(ticket.CheckInTime, now, c.rates)
	if err != nil {
		return entities.CheckOutPreview{}, err
	}

	return entities.CheckOutPreview{
		TicketID:     ticket.ID,
		PlateNumber:  ticket.PlateNumber,
		CheckInTime:  ticket.CheckInTime,
		CheckOutTime: now,
		TotalPrice:   price,
	}, nil
}

// ConfirmCheckOut closes the ticket at the current time. A ticket is priced and
// closed exactly once; later confirmations fail and leave it unchanged.
func (c *Controller) ConfirmCheckOut(ctx context.Context, ticketID int64) (entities.Ticket, error) {
	if ticketID <= 0 {
		return entities.Ticket{}, entities.ErrInvalidTicketID
	}

	ticket, err := c.Ticket(ctx, ticketID)
	if err != nil {
		return entities.Ticket{}, err
	}
	if !ticket.IsActive() {
		return entities.Ticket{}, entities.ErrTicketAlreadyCompleted
	}

	now := c.now()
	price, err := billing.ComputePrice(ticket.CheckInTime, now, c.rates)
	if err != nil {
		return entities.Ticket{}, err
	}

	completed, err := c.store.CompleteTicket(ctx, ticket.ID, now, price)
	switch {
	case errors.Is(err, db.ErrTicketAlreadyCompleted):
		return entities.Ticket{}, entities.ErrTicketAlreadyCompleted
	case errors.Is(err, db.ErrTicketNotFound):
		return entities.Ticket{}, entities.ErrTicketNotFound
	case err != nil:
		return entities.Ticket{}, fmt.Errorf("could not complete ticket %d: %w", ticket.ID, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"ticket_id":    completed.ID,
		"plate_number": completed.PlateNumber,
		"total_price":  price,
		"currency":     c.rates.Currency,
	}).Info("Vehicle checked out")

	return completed, nil
}

func (c *Controller) Ticket(ctx context.Context, ticketID int64) (entities.Ticket, error) {
	if ticketID <= 0 {
		return entities.Ticket{}, entities.ErrInvalidTicketID
	}

	ticket, err := c.store.FindByID(ctx, ticketID)
	if errors.Is(err, db.ErrTicketNotFound) {
		return entities.Ticket{}, entities.ErrTicketNotFound
	}
	if err != nil {
		return entities.Ticket{}, fmt.Errorf("could not get ticket %d: %w", ticketID, err)
	}

	return ticket, nil
}

func normalizedPlate(plate string) (string, error) {
	plate = entities.NormalizePlate(plate)
	switch {
	case plate == "":
		return "", entities.ErrInvalidPlate
	case len(plate) > entities.MaxPlateLength:
		return "", entities.ErrPlateTooLong
	}
	return plate, nil
}

// now has the precision tickets are stored with.
func (c *Controller) now() time.Time {
	return c.clock.Now().UTC().Truncate(time.Microsecond)
}
