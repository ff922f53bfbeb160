// README: Entry point; loads config, wires services, starts HTTP server and notification hub.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ridebroker/internal/config"
	transport "ridebroker/internal/http"
	"ridebroker/internal/infra"
	"ridebroker/internal/logging"
	"ridebroker/internal/modules/fare"
	"ridebroker/internal/modules/ride"
	"ridebroker/internal/notify"
)

const fareCacheTTL = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.WithError(err).Fatal("connect postgres")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	amqpConn, amqpCh, err := infra.NewAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		log.WithError(err).Fatal("connect rabbitmq")
	}
	defer amqpConn.Close()

	fareStore := fare.NewStore(dbPool)
	fareService := fare.NewService(fare.NewCache(fareStore, redisClient, fareCacheTTL))

	hub := notify.NewHub(log)
	go hub.Run(ctx)
	notifier := notify.Multi{hub, notify.NewPublisher(amqpCh, cfg.AMQP.Exchange, log)}

	rideStore := ride.NewStore(dbPool)
	rideService := ride.NewService(rideStore, fareService, notifier, log)

	router := transport.NewRouter(rideService, fareService, hub, log)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", cfg.HTTP.Addr).Info("ridebroker api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("http server")
	}
}
