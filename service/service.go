package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"parking/config"
	"parking/db"
	parkingHttp "parking/http"
	"parking/lifecycle"
	"parking/message"
	"parking/message/event"
	"parking/message/outbox"
	observability "parking/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
	scheduler       gocron.Scheduler
	addr            string
}

type ticketStore interface {
	lifecycle.TicketStore
	CountActive(ctx context.Context) (int, error)
}

// New wires the service. conn selects the Postgres store with an outbox, a nil
// conn keeps tickets in memory. redisClient selects Redis Streams as the event
// broker, a nil client delivers events in process.
func New(
	ctx context.Context,
	cfg *config.Config,
	conn *db.DB,
	redisClient *redis.Client,
	clock clockwork.Clock,
) (Service, error) {
	watermillLogger := log.NewWatermill(log.FromContext(ctx))

	var (
		publisher       watermillMessage.Publisher
		processorConfig cqrs.EventProcessorConfig
		healthChecks    []parkingHttp.HealthCheck
	)
	if redisClient != nil {
		publisher = message.NewRedisPublisher(redisClient, watermillLogger)
		processorConfig = event.NewProcessorConfig(redisClient, watermillLogger)
		healthChecks = append(healthChecks, message.NewRedisHealthCheck(redisClient))
	} else {
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
		publisher = log.CorrelationPublisherDecorator{Publisher: pubSub}
		publisher = observability.TracingPublisherDecorator{Publisher: publisher}
		processorConfig = event.NewInProcessConfig(pubSub, watermillLogger)
	}

	var (
		store    ticketStore
		fwd      *message.Forwarding
		dataLake event.DataLake
	)
	currency := cfg.RateTable().Currency
	if conn != nil {
		outboxSubscriber, err := outbox.NewSubscriber(conn.Conn, watermillLogger)
		if err != nil {
			return Service{}, err
		}
		store = db.NewTicketRepository(conn, clock, currency)
		fwd = &message.Forwarding{
			OutboxSubscriber: outboxSubscriber,
			Publisher:        publisher,
		}
		dataLake = db.NewEventRepository(conn)
		healthChecks = append(healthChecks, conn)
	} else {
		store = db.NewMemoryTicketRepository(clock, currency, event.NewBus(publisher))
	}

	watermillRouter, err := message.NewWatermillRouter(
		fwd,
		processorConfig,
		event.NewHandler(dataLake),
		publisher,
		watermillLogger,
	)
	if err != nil {
		return Service{}, err
	}

	controller := lifecycle.NewController(store, cfg.RateTable(), clock)

	echoRouter := parkingHttp.NewHttpRouter(controller, parkingHttp.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		HealthChecks:   healthChecks,
	})

	scheduler, err := newOccupancyScheduler(ctx, clock, cfg.OccupancyRefreshInterval, store)
	if err != nil {
		return Service{}, err
	}

	return Service{
		watermillRouter: watermillRouter,
		echoRouter:      echoRouter,
		scheduler:       scheduler,
		addr:            cfg.Addr(),
	}, nil
}

func (s Service) Run(
	ctx context.Context,
) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// the HTTP server is not started before the router, so the service is not healthy until it is ready
		select {
		case <-s.watermillRouter.Running():
		case <-ctx.Done():
			return nil
		}

		s.scheduler.Start()

		err := s.echoRouter.Start(s.addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	errgrp.Go(func() error {
		<-ctx.Done()

		var errs []error
		if err := s.echoRouter.Shutdown(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("could not shut down http server: %w", err))
		}
		if err := s.scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("could not shut down scheduler: %w", err))
		}
		return errors.Join(errs...)
	})

	return errgrp.Wait()
}
