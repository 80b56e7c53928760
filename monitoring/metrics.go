package monitoring

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkIns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_check_ins_total",
			Help: "Total vehicles checked in",
		},
	)

	checkOuts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_check_outs_total",
			Help: "Total vehicles checked out",
		},
	)

	revenue = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_revenue_total",
			Help: "Total amount charged at check-out",
		},
		[]string{"currency"},
	)

	occupancy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parking_active_tickets",
			Help: "Current number of vehicles inside",
		},
	)
)

func RecordCheckIn() {
	checkIns.Inc()
}

func RecordCheckOut(amount int64, currency string) {
	checkOuts.Inc()
	revenue.WithLabelValues(currency).Add(float64(amount))
}

type ActiveTicketCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// RefreshOccupancy sets the occupancy gauge from the store.
func RefreshOccupancy(ctx context.Context, counter ActiveTicketCounter) error {
	count, err := counter.CountActive(ctx)
	if err != nil {
		return err
	}

	occupancy.Set(float64(count))
	log.FromContext(ctx).WithField("active_tickets", count).Debug("Occupancy refreshed")

	return nil
}
