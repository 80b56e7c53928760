package entities

import (
	"strings"
	"time"
	"unicode"
)

type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "ACTIVE"
	TicketStatusCompleted TicketStatus = "COMPLETED"
)

// Ticket is a single parking session of one vehicle.
type Ticket struct {
	ID           int64        `json:"ticketId" db:"ticket_id"`
	PlateNumber  string       `json:"plateNumber" db:"plate_number"`
	CheckInTime  time.Time    `json:"checkInTime" db:"check_in_time"`
	CheckOutTime *time.Time   `json:"checkOutTime,omitempty" db:"check_out_time"`
	TotalPrice   *int64       `json:"totalPrice,omitempty" db:"total_price"`
	Status       TicketStatus `json:"status" db:"status"`
}

func (t Ticket) IsActive() bool {
	return t.Status == TicketStatusActive
}

// Copy returns a snapshot of the ticket that shares no memory with t.
func (t Ticket) Copy() Ticket {
	if t.CheckOutTime != nil {
		checkOut := *t.CheckOutTime
		t.CheckOutTime = &checkOut
	}
	if t.TotalPrice != nil {
		price := *t.TotalPrice
		t.TotalPrice = &price
	}
	return t
}

// CheckOutPreview is a non-binding quote for an open ticket.
type CheckOutPreview struct {
	TicketID     int64     `json:"ticketId"`
	PlateNumber  string    `json:"plateNumber"`
	CheckInTime  time.Time `json:"checkInTime"`
	CheckOutTime time.Time `json:"checkOutTime"`
	TotalPrice   int64     `json:"totalPrice"`
}

type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MaxPlateLength is the longest normalized plate a ticket can carry.
const MaxPlateLength = 32

// NormalizePlate trims the plate, drops everything that is not a letter or a digit
// and uppercases the rest, so "b 1234-de" and "B1234DE" are the same vehicle.
func NormalizePlate(plate string) string {
	var b strings.Builder
	b.Grow(len(plate))

	for _, r := range strings.TrimSpace(plate) {
		if r > unicode.MaxASCII {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}

	return b.String()
}
