package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"parking/db"
	"parking/entities"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	lock   sync.Mutex
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, event any) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []any {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]any(nil), p.events...)
}

func TestMemoryTicketRepository_lifecycle(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 11, 15, 9, 30, 0, 0, time.UTC))
	publisher := &recordingPublisher{}
	repo := db.NewMemoryTicketRepository(clock, "IDR", publisher)

	ticket, err := repo.CreateActiveTicket(ctx, "B1234DE")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ticket.ID)
	assert.Equal(t, entities.TicketStatusActive, ticket.Status)
	assert.Nil(t, ticket.CheckOutTime)
	assert.Nil(t, ticket.TotalPrice)

	_, err = repo.CreateActiveTicket(ctx, "B1234DE")
	assert.ErrorIs(t, err, db.ErrActiveTicketExists)

	active, err := repo.FindActiveByPlate(ctx, "B1234DE")
	require.NoError(t, err)
	assert.Equal(t, ticket, active)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	checkOut := clock.Now().Add(90 * time.Minute)
	completed, err := repo.CompleteTicket(ctx, ticket.ID, checkOut, 8000)
	require.NoError(t, err)
	assert.Equal(t, entities.TicketStatusCompleted, completed.Status)
	require.NotNil(t, completed.TotalPrice)
	assert.Equal(t, int64(8000), *completed.TotalPrice)
	assert.Equal(t, checkOut, *completed.CheckOutTime)

	_, err = repo.CompleteTicket(ctx, ticket.ID, checkOut.Add(time.Hour), 11000)
	assert.ErrorIs(t, err, db.ErrTicketAlreadyCompleted)

	stored, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), *stored.TotalPrice)

	_, err = repo.FindActiveByPlate(ctx, "B1234DE")
	assert.ErrorIs(t, err, db.ErrTicketNotFound)

	// the plate may check in again once its ticket is completed
	second, err := repo.CreateActiveTicket(ctx, "B1234DE")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	events := publisher.Events()
	require.Len(t, events, 3)
	assert.IsType(t, entities.TicketCheckedIn_v1{}, events[0])
	checkedOut, ok := events[1].(entities.TicketCheckedOut_v1)
	require.True(t, ok)
	assert.Equal(t, entities.Money{Amount: "8000", Currency: "IDR"}, checkedOut.Price)
}

func TestMemoryTicketRepository_unknown_ticket(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemoryTicketRepository(clockwork.NewFakeClock(), "IDR", nil)

	_, err := repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, db.ErrTicketNotFound)

	_, err = repo.CompleteTicket(ctx, 42, time.Now(), 1)
	assert.ErrorIs(t, err, db.ErrTicketNotFound)
}

func TestMemoryTicketRepository_returns_snapshots(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemoryTicketRepository(clockwork.NewFakeClock(), "IDR", nil)

	ticket, err := repo.CreateActiveTicket(ctx, "B1234DE")
	require.NoError(t, err)

	completed, err := repo.CompleteTicket(ctx, ticket.ID, time.Now().Add(time.Hour), 3000)
	require.NoError(t, err)
	*completed.TotalPrice = 1

	stored, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), *stored.TotalPrice)
}

func TestMemoryTicketRepository_concurrent_check_in(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemoryTicketRepository(clockwork.NewFakeClock(), "IDR", nil)

	workersCount := 50
	var succeeded, rejected int
	var lock sync.Mutex

	wg := sync.WaitGroup{}
	wg.Add(workersCount)
	for i := 0; i < workersCount; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.CreateActiveTicket(ctx, "B1234DE")

			lock.Lock()
			defer lock.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, db.ErrActiveTicketExists) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workersCount-1, rejected)
}

func TestMemoryTicketRepository_concurrent_complete(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemoryTicketRepository(clockwork.NewFakeClock(), "IDR", nil)

	ticket, err := repo.CreateActiveTicket(ctx, "B1234DE")
	require.NoError(t, err)

	workersCount := 50
	var succeeded int
	var lock sync.Mutex

	wg := sync.WaitGroup{}
	wg.Add(workersCount)
	for i := 0; i < workersCount; i++ {
		price := int64(1000 * (i + 1))
		go func() {
			defer wg.Done()
			_, err := repo.CompleteTicket(ctx, ticket.ID, time.Now().Add(time.Hour), price)
			if err != nil {
				assert.ErrorIs(t, err, db.ErrTicketAlreadyCompleted)
				return
			}

			lock.Lock()
			succeeded++
			lock.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}
