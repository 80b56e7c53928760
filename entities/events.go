package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type IEvent interface {
	IsInternal() bool
}

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

type TicketCheckedIn_v1 struct {
	Header EventHeader `json:"header"`

	TicketID    int64     `json:"ticket_id"`
	PlateNumber string    `json:"plate_number"`
	CheckInTime time.Time `json:"check_in_time"`
}

func (e TicketCheckedIn_v1) IsInternal() bool {
	return false
}

type TicketCheckedOut_v1 struct {
	Header EventHeader `json:"header"`

	TicketID     int64     `json:"ticket_id"`
	PlateNumber  string    `json:"plate_number"`
	CheckInTime  time.Time `json:"check_in_time"`
	CheckOutTime time.Time `json:"check_out_time"`
	Price        Money     `json:"price"`
}

func (e TicketCheckedOut_v1) IsInternal() bool {
	return false
}

// Event is a row of the data lake: any lifecycle event, stored as published.
type Event struct {
	EventID      string          `db:"event_id"`
	PublishedAt  time.Time       `db:"published_at"`
	EventName    string          `db:"event_name"`
	EventPayload json.RawMessage `db:"event_payload"`
}
