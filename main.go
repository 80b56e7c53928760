package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"parking/config"
	"parking/db"
	"parking/message"
	"parking/service"
	observability "parking/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()
	log.Init(cfg.Level())

	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.TracingEnabled {
		tp, err := observability.ConfigureTraceProvider(cfg.JaegerEndpoint)
		if err != nil {
			logrus.WithError(err).Fatal("Could not configure tracing")
		}
		defer func() {
			_ = tp.Shutdown(context.Background())
		}()
	}

	var conn *db.DB
	if cfg.StoreDriver == config.StoreDriverPostgres {
		dbConn, err := db.NewDBConn(cfg.PostgresURL)
		if err != nil {
			logrus.WithError(err).Fatal("Could not connect to postgres")
		}
		defer dbConn.Close()

		dbConn.MigrateSchema()
		conn = &dbConn
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = message.NewRedisClient(cfg.RedisAddr)
		defer redisClient.Close()
	}

	svc, err := service.New(ctx, cfg, conn, redisClient, clockwork.NewRealClock())
	if err != nil {
		logrus.WithError(err).Fatal("Could not create service")
	}

	logrus.WithFields(logrus.Fields{
		"addr":         cfg.Addr(),
		"store_driver": cfg.StoreDriver,
		"environment":  cfg.Environment,
	}).Info("Starting parking service")

	if err := svc.Run(ctx); err != nil {
		logrus.WithError(err).Error("Service stopped")
		os.Exit(1)
	}
}
