package entities_test

import (
	"fmt"
	"testing"
	"time"

	"parking/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePlate(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "b 1234 de", want: "B1234DE"},
		{in: "B1234DE", want: "B1234DE"},
		{in: "  b-1234-de\t", want: "B1234DE"},
		{in: "d.123.ab", want: "D123AB"},
		{in: "   ", want: ""},
		{in: "--", want: ""},
		{in: "ä12", want: "12"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, entities.NormalizePlate(tc.in))
		})
	}
}

func TestTicketCopy(t *testing.T) {
	checkOut := time.Date(2025, 11, 15, 10, 0, 0, 0, time.UTC)
	price := int64(3000)

	ticket := entities.Ticket{
		ID:           1,
		PlateNumber:  "B1234DE",
		CheckOutTime: &checkOut,
		TotalPrice:   &price,
		Status:       entities.TicketStatusCompleted,
	}

	cp := ticket.Copy()
	*cp.TotalPrice = 1
	*cp.CheckOutTime = checkOut.Add(time.Hour)

	assert.Equal(t, int64(3000), *ticket.TotalPrice)
	assert.Equal(t, checkOut, *ticket.CheckOutTime)
}

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("could not check in: %w", entities.ErrVehicleAlreadyCheckedIn)

	assert.ErrorIs(t, wrapped, entities.ErrVehicleAlreadyCheckedIn)
	assert.NotErrorIs(t, wrapped, entities.ErrTicketNotFound)

	kind, ok := entities.KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, entities.KindVehicleAlreadyCheckedIn, kind)

	assert.ErrorIs(t, entities.NewValidationError("bad %s", "input"), entities.ErrInvalidPlate)

	_, ok = entities.KindOf(fmt.Errorf("boom"))
	assert.False(t, ok)
}
