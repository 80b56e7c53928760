package db

import (
	"errors"

	"github.com/lib/pq"
)

const (
	postgresUniqueValueViolationErrorCode = "23505"
)

var (
	ErrActiveTicketExists     = errors.New("active ticket already exists for plate")
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrTicketAlreadyCompleted = errors.New("ticket already completed")
)

func isErrorUniqueViolation(err error) bool {
	var psqlErr *pq.Error
	return errors.As(err, &psqlErr) && psqlErr.Code == postgresUniqueValueViolationErrorCode
}
