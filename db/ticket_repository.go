package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"parking/entities"
	"parking/message/event"
	"parking/message/outbox"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
)

const ticketColumns = `ticket_id, plate_number, check_in_time, check_out_time, total_price, status`

// TicketRepository keeps tickets in Postgres. Every mutation and the lifecycle
// event describing it are committed in the same transaction.
type TicketRepository struct {
	db       *DB
	clock    clockwork.Clock
	currency string
}

func NewTicketRepository(db *DB, clock clockwork.Clock, currency string) TicketRepository {
	if db == nil {
		panic("db is nil")
	}
	if clock == nil {
		panic("clock is nil")
	}
	return TicketRepository{
		db:       db,
		clock:    clock,
		currency: currency,
	}
}

func (tr TicketRepository) CreateActiveTicket(ctx context.Context, plate string) (entities.Ticket, error) {
	ticket := entities.Ticket{
		PlateNumber: plate,
		CheckInTime: tr.clock.Now().UTC().Truncate(time.Microsecond),
		Status:      entities.TicketStatusActive,
	}

	err := updateInTx(
		ctx,
		tr.db.Conn,
		sql.LevelReadCommitted,
		func(ctx context.Context, tx *sqlx.Tx) error {
			err := tx.GetContext(ctx, &ticket.ID, `
				INSERT INTO
				    tickets (plate_number, check_in_time, status)
				VALUES
				    ($1, $2, $3)
				RETURNING ticket_id`,
				ticket.PlateNumber, ticket.CheckInTime, string(ticket.Status),
			)
			if isErrorUniqueViolation(err) {
				return ErrActiveTicketExists
			}
			if err != nil {
				return fmt.Errorf("could not save ticket: %w", err)
			}

			return publishInTx(ctx, tx, entities.TicketCheckedIn_v1{
				Header:      entities.NewEventHeaderWithIdempotencyKey(checkInIdempotencyKey(ticket.ID)),
				TicketID:    ticket.ID,
				PlateNumber: ticket.PlateNumber,
				CheckInTime: ticket.CheckInTime,
			})
		},
	)
	if err != nil {
		return entities.Ticket{}, err
	}

	return ticket, nil
}

func (tr TicketRepository) FindActiveByPlate(ctx context.Context, plate string) (entities.Ticket, error) {
	var ticket entities.Ticket
	err := tr.db.Conn.GetContext(ctx, &ticket, `
		SELECT `+ticketColumns+`
		FROM
		    tickets
		WHERE
		    plate_number = $1 AND status = $2
	`, plate, string(entities.TicketStatusActive))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Ticket{}, ErrTicketNotFound
	}
	if err != nil {
		return entities.Ticket{}, fmt.Errorf("could not get active ticket: %w", err)
	}

	return inUTC(ticket), nil
}

func (tr TicketRepository) FindByID(ctx context.Context, id int64) (entities.Ticket, error) {
	var ticket entities.Ticket
	err := tr.db.Conn.GetContext(ctx, &ticket, `
		SELECT `+ticketColumns+`
		FROM
		    tickets
		WHERE
		    ticket_id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Ticket{}, ErrTicketNotFound
	}
	if err != nil {
		return entities.Ticket{}, fmt.Errorf("could not get ticket: %w", err)
	}

	return inUTC(ticket), nil
}

// CompleteTicket moves an ACTIVE ticket to COMPLETED. The status check is part of
// the UPDATE, so of two concurrent calls only one finds the row still ACTIVE.
func (tr TicketRepository) CompleteTicket(
	ctx context.Context,
	id int64,
	checkOutTime time.Time,
	totalPrice int64,
) (entities.Ticket, error) {
	checkOutTime = checkOutTime.UTC().Truncate(time.Microsecond)

	var ticket entities.Ticket
	err := updateInTx(
		ctx,
		tr.db.Conn,
		sql.LevelReadCommitted,
		func(ctx context.Context, tx *sqlx.Tx) error {
			err := tx.GetContext(ctx, &ticket, `
				UPDATE
				    tickets
				SET
				    status = $2, check_out_time = $3, total_price = $4
				WHERE
				    ticket_id = $1 AND status = $5
				RETURNING `+ticketColumns,
				id,
				string(entities.TicketStatusCompleted),
				checkOutTime,
				totalPrice,
				string(entities.TicketStatusActive),
			)
			if errors.Is(err, sql.ErrNoRows) {
				var exists bool
				err = tx.GetContext(ctx, &exists, `
					SELECT EXISTS (SELECT 1 FROM tickets WHERE ticket_id = $1)`, id)
				if err != nil {
					return fmt.Errorf("could not check if ticket exists: %w", err)
				}
				if !exists {
					return ErrTicketNotFound
				}
				return ErrTicketAlreadyCompleted
			}
			if err != nil {
				return fmt.Errorf("could not complete ticket: %w", err)
			}

			ticket = inUTC(ticket)

			return publishInTx(ctx, tx, checkedOutEvent(ticket, tr.currency))
		},
	)
	if err != nil {
		return entities.Ticket{}, err
	}

	return ticket, nil
}

func (tr TicketRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := tr.db.Conn.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM tickets WHERE status = $1`, string(entities.TicketStatusActive))
	if err != nil {
		return 0, fmt.Errorf("could not count active tickets: %w", err)
	}

	return count, nil
}

func publishInTx(ctx context.Context, tx *sqlx.Tx, evt entities.IEvent) error {
	publisher, err := outbox.NewTxPublisher(ctx, tx)
	if err != nil {
		return fmt.Errorf("error creating event outbox publisher: %w", err)
	}

	if err := event.NewBus(publisher).Publish(ctx, evt); err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}

func checkedOutEvent(ticket entities.Ticket, currency string) entities.TicketCheckedOut_v1 {
	return entities.TicketCheckedOut_v1{
		Header:       entities.NewEventHeaderWithIdempotencyKey(checkOutIdempotencyKey(ticket.ID)),
		TicketID:     ticket.ID,
		PlateNumber:  ticket.PlateNumber,
		CheckInTime:  ticket.CheckInTime,
		CheckOutTime: *ticket.CheckOutTime,
		Price: entities.Money{
			Amount:   strconv.FormatInt(*ticket.TotalPrice, 10),
			Currency: currency,
		},
	}
}

func checkInIdempotencyKey(ticketID int64) string {
	return "check-in-" + strconv.FormatInt(ticketID, 10)
}

func checkOutIdempotencyKey(ticketID int64) string {
	return "check-out-" + strconv.FormatInt(ticketID, 10)
}

func inUTC(ticket entities.Ticket) entities.Ticket {
	ticket.CheckInTime = ticket.CheckInTime.UTC()
	if ticket.CheckOutTime != nil {
		checkOut := ticket.CheckOutTime.UTC()
		ticket.CheckOutTime = &checkOut
	}
	return ticket
}
