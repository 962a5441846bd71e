package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"namereg/internal/admin"
	adminhandler "namereg/internal/admin/handler"
	"namereg/internal/events"
	"namereg/internal/ledger"
	"namereg/internal/platform/config"
	"namereg/internal/platform/httpserver"
	"namereg/internal/platform/jwttoken"
	"namereg/internal/platform/logger"
	"namereg/internal/platform/middleware"
	platformredis "namereg/internal/platform/redis"
	reghandler "namereg/internal/registrar/handler"
	regmetrics "namereg/internal/registrar/metrics"
	"namereg/internal/registrar/models"
	"namereg/internal/registrar/service"
	"namereg/internal/registrar/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.NewInMemory(models.DefaultFeeConfig(cfg.Registrar.FeeRecipient, cfg.Registrar.ProtocolTreasury))
	accounts := ledger.NewInMemory()
	metrics := regmetrics.New()

	svcCfg := service.DefaultConfig()
	svcCfg.Suffix = cfg.Registrar.NameSuffix
	svcCfg.RegistrationPeriod = cfg.Registrar.RegistrationPeriod
	svcCfg.GracePeriod = cfg.Registrar.GracePeriod

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics),
	}
	adminOpts := []admin.Option{admin.WithLogger(log)}

	type healthCheck struct {
		name  string
		check func(context.Context) error
	}
	var healthChecks []healthCheck

	if cfg.Postgres.URL != "" {
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			log.Error("open postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		mirror := store.NewPostgres(db)
		if err := mirror.Migrate(ctx); err != nil {
			log.Error("migrate postgres mirror", "error", err.Error())
			os.Exit(1)
		}
		opts = append(opts, service.WithMirror(mirror))
		healthChecks = append(healthChecks, healthCheck{"postgres", mirror.Health})
		log.Info("postgres mirror enabled")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithDisplayCache(store.NewRedisDisplayCache(redisClient.Client)))
		healthChecks = append(healthChecks, healthCheck{"redis", redisClient.Health})
		log.Info("redis display cache enabled")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := events.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("connect kafka", "error", err.Error())
			os.Exit(1)
		}
		defer sink.Close()
		opts = append(opts, service.WithEventSink(sink))
		adminOpts = append(adminOpts, admin.WithEventSink(sink))
		healthChecks = append(healthChecks, healthCheck{"kafka", sink.Health})
		log.Info("kafka event sink enabled", "topic", cfg.Kafka.Topic)
	}

	registrar := service.New(st, accounts, svcCfg, opts...)
	adminSvc := admin.New(st, admin.FixedIdentity(cfg.Registrar.AdminAccount), adminOpts...)
	tokens := jwttoken.New(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(log))

	reghandler.New(registrar, log, tokens).Register(router)
	adminhandler.New(adminSvc, log, tokens).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	if os.Getenv("NAMEREG_FAUCET") == "true" {
		// Dev-only funding endpoint; the ledger stands in for an external
		// payments system and starts every account at zero.
		router.Post("/faucet", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Account string `json:"account"`
				Amount  uint64 `json:"amount"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Account == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			accounts.Credit(req.Account, req.Amount)
			w.WriteHeader(http.StatusNoContent)
		})
	}
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		components := make(map[string]string, len(healthChecks))
		healthy := true
		for _, hc := range healthChecks {
			if err := hc.check(checkCtx); err != nil {
				components[hc.name] = err.Error()
				healthy = false
				continue
			}
			components[hc.name] = "ok"
		}

		status := "ok"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":     status,
			"components": components,
		})
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting namereg", "addr", cfg.Server.Addr, "suffix", cfg.Registrar.NameSuffix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
