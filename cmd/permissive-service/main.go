package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/mvoss/pizzaflow/internal/config"
	"github.com/mvoss/pizzaflow/internal/inventory"
	"github.com/mvoss/pizzaflow/internal/kitchen"
	"github.com/mvoss/pizzaflow/internal/order/application"
	"github.com/mvoss/pizzaflow/internal/order/domain"
	orderhttp "github.com/mvoss/pizzaflow/internal/order/infrastructure/http"
	orderkafka "github.com/mvoss/pizzaflow/internal/order/infrastructure/kafka"
	"github.com/mvoss/pizzaflow/pkg/events"
	"github.com/mvoss/pizzaflow/pkg/idempotency"
	"github.com/mvoss/pizzaflow/pkg/logging"
	"github.com/mvoss/pizzaflow/pkg/shutdown"
	"github.com/mvoss/pizzaflow/pkg/tracing"
)

func main() {
	cfg, err := config.Load(":8001")
	if err != nil {
		logging.New("info").Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if cfg.OTLPEndpoint != "" {
		tp, err := tracing.Init(ctx, "pizza-permissive", cfg.OTLPEndpoint, log)
		if err != nil {
			log.Error("otel init failed", "err", err)
			os.Exit(1)
		}
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	ledger := inventory.NewLedger(log, domain.InitialStock())
	queue := kitchen.NewQueue(log)

	var publisher application.EventPublisher = events.Discard{}
	if cfg.KafkaAddr != "" {
		writer := orderkafka.NewWriter([]string{cfg.KafkaAddr})
		defer writer.Close()
		emitter := events.NewEmitter(log, events.NewDispatcher(log, writer, cfg.OrderTopic), 256)
		go func() {
			if err := emitter.Run(ctx); err != nil {
				log.Error("emitter stopped with error", "err", err)
			}
		}()
		publisher = emitter
	}

	svc := application.NewService(log, ledger, queue, publisher, cfg.PrepDelay)
	handler := orderhttp.NewHandler(log, ledger, queue, orderhttp.NewPermissivePolicy(log, svc, ledger))

	var orderMW []func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		orderMW = append(orderMW, idempotency.Middleware(log, idempotency.NewStore(rdb, cfg.IdemTTL)))
	}

	r := chi.NewRouter()
	r.Mount("/", handler.Routes(orderMW...))
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr, "variant", "permissive")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("permissive-service shutdown complete")
}
