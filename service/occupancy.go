package service

import (
	"context"
	"fmt"
	"time"

	"parking/monitoring"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

func newOccupancyScheduler(
	ctx context.Context,
	clock clockwork.Clock,
	interval time.Duration,
	counter monitoring.ActiveTicketCounter,
) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := monitoring.RefreshOccupancy(ctx, counter); err != nil {
				log.FromContext(ctx).WithError(err).Error("Could not refresh occupancy")
			}
		}),
		gocron.WithName("refresh-occupancy"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("could not schedule occupancy job: %w", err)
	}

	return s, nil
}
