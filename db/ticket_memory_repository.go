package db

import (
	"context"
	"sync"
	"time"

	"parking/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jonboulle/clockwork"
)

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// MemoryTicketRepository keeps tickets in process memory. Events are published
// after the change is applied; a failed publish is logged and does not undo it.
type MemoryTicketRepository struct {
	lock sync.RWMutex

	tickets       map[int64]entities.Ticket
	activeByPlate map[string]int64
	lastID        int64

	clock     clockwork.Clock
	currency  string
	publisher EventPublisher
}

func NewMemoryTicketRepository(clock clockwork.Clock, currency string, publisher EventPublisher) *MemoryTicketRepository {
	if clock == nil {
		panic("clock is nil")
	}
	return &MemoryTicketRepository{
		tickets:       map[int64]entities.Ticket{},
		activeByPlate: map[string]int64{},
		clock:         clock,
		currency:      currency,
		publisher:     publisher,
	}
}

func (r *MemoryTicketRepository) CreateActiveTicket(ctx context.Context, plate string) (entities.Ticket, error) {
	r.lock.Lock()

	if _, ok := r.activeByPlate[plate]; ok {
		r.lock.Unlock()
		return entities.Ticket{}, ErrActiveTicketExists
	}

	r.lastID++
	ticket := entities.Ticket{
		ID:          r.lastID,
		PlateNumber: plate,
		CheckInTime: r.clock.Now().UTC().Truncate(time.Microsecond),
		Status:      entities.TicketStatusActive,
	}
	r.tickets[ticket.ID] = ticket
	r.activeByPlate[plate] = ticket.ID

	r.lock.Unlock()

	r.publish(ctx, entities.TicketCheckedIn_v1{
		Header:      entities.NewEventHeaderWithIdempotencyKey(checkInIdempotencyKey(ticket.ID)),
		TicketID:    ticket.ID,
		PlateNumber: ticket.PlateNumber,
		CheckInTime: ticket.CheckInTime,
	})

	return ticket.Copy(), nil
}

func (r *MemoryTicketRepository) FindActiveByPlate(_ context.Context, plate string) (entities.Ticket, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.activeByPlate[plate]
	if !ok {
		return entities.Ticket{}, ErrTicketNotFound
	}

	return r.tickets[id].Copy(), nil
}

func (r *MemoryTicketRepository) FindByID(_ context.Context, id int64) (entities.Ticket, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return entities.Ticket{}, ErrTicketNotFound
	}

	return ticket.Copy(), nil
}

func (r *MemoryTicketRepository) CompleteTicket(
	ctx context.Context,
	id int64,
	checkOutTime time.Time,
	totalPrice int64,
) (entities.Ticket, error) {
	r.lock.Lock()

	ticket, ok := r.tickets[id]
	if !ok {
		r.lock.Unlock()
		return entities.Ticket{}, ErrTicketNotFound
	}
	if !ticket.IsActive() {
		r.lock.Unlock()
		return entities.Ticket{}, ErrTicketAlreadyCompleted
	}

	checkOut := checkOutTime.UTC().Truncate(time.Microsecond)
	price := totalPrice
	ticket.CheckOutTime = &checkOut
	ticket.TotalPrice = &price
	ticket.Status = entities.TicketStatusCompleted

	r.tickets[id] = ticket
	delete(r.activeByPlate, ticket.PlateNumber)

	completed := ticket.Copy()
	r.lock.Unlock()

	r.publish(ctx, checkedOutEvent(completed, r.currency))

	return completed, nil
}

func (r *MemoryTicketRepository) CountActive(_ context.Context) (int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.activeByPlate), nil
}

func (r *MemoryTicketRepository) publish(ctx context.Context, event entities.IEvent) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		log.FromContext(ctx).WithError(err).Error("could not publish ticket event")
	}
}
