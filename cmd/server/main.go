// main wires the dependency graph: config, storage, cache, broker, domain
// services, and the HTTP surface. Business logic lives in the internal
// service packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	auditservice "auditdesk/internal/audit/service"
	auditstore "auditdesk/internal/audit/store"
	companyservice "auditdesk/internal/company/service"
	companystore "auditdesk/internal/company/store"
	directorycache "auditdesk/internal/directory/cache"
	directoryservice "auditdesk/internal/directory/service"
	directorystore "auditdesk/internal/directory/store"
	httpapi "auditdesk/internal/http"
	outboxhandler "auditdesk/internal/outbox/handler"
	outboxkafka "auditdesk/internal/outbox/kafka"
	outboxstore "auditdesk/internal/outbox/store"
	outboxworker "auditdesk/internal/outbox/worker"
	"auditdesk/internal/platform/config"
	"auditdesk/internal/platform/httpserver"
	"auditdesk/internal/platform/logger"
	"auditdesk/internal/platform/metrics"
	"auditdesk/internal/platform/middleware"
	"auditdesk/internal/platform/postgres"
	"auditdesk/internal/platform/redis"
	"auditdesk/internal/seed"

	audithandler "auditdesk/internal/audit/handler"
	companyhandler "auditdesk/internal/company/handler"
	directoryhandler "auditdesk/internal/directory/handler"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.Postgres.DSN)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}

	var (
		audits    auditservice.Store
		people    directorystore.Store
		companies companyservice.Store
		emails    outboxstore.Store
	)
	if db != nil {
		if err := auditstore.Migrate(ctx, db); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		if err := directorystore.Migrate(ctx, db); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		if err := companystore.Migrate(ctx, db); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		if err := outboxstore.Migrate(ctx, db); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		audits = auditstore.NewPostgres(db)
		people = directorystore.NewPostgres(db)
		companies = companystore.NewPostgres(db)
		emails = outboxstore.NewPostgres(db)
	} else {
		log.Warn("no postgres DSN configured, using in-memory stores")
		audits = auditstore.NewInMemory()
		people = directorystore.NewInMemory()
		companies = companystore.NewInMemory()
		emails = outboxstore.NewInMemory()
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		people = directorycache.New(people, redisClient.Client, cfg.DirectoryCacheTTL, log)
	}

	companySvc := companyservice.New(companies, companyservice.WithLogger(log))
	directorySvc := directoryservice.New(people, directoryservice.WithLogger(log))
	auditSvc := auditservice.New(audits,
		auditservice.WithLogger(log),
		auditservice.WithMetrics(m),
		auditservice.WithCompanyNames(companySvc),
		auditservice.WithOutbox(emails),
		auditservice.WithPeople(peopleAdapter{directory: directorySvc}),
		auditservice.WithWeekStart(cfg.Scheduling.WeekStart),
	)

	if os.Getenv("AUDITDESK_SEED") == "true" {
		if err := seed.Demo(ctx, auditSvc, directorySvc, companySvc); err != nil {
			log.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		log.Info("demo data seeded")
	}

	deps := httpapi.Deps{
		Audits:     audithandler.New(auditSvc, log),
		Directory:  directoryhandler.New(directorySvc, log),
		Companies:  companyhandler.New(companySvc, log),
		Outbox:     outboxhandler.New(emails, log),
		Logger:     log,
		Metrics:    m,
		AdminToken: cfg.Server.AdminToken,
	}
	if cfg.Server.JWTSigningKey != "" {
		deps.JWTValidator = middleware.NewHMACValidator(cfg.Server.JWTSigningKey)
	}

	srv := httpserver.New(cfg.Server.Addr, httpapi.NewRouter(deps))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting auditdesk", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := outboxkafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()

		w := outboxworker.New(emails, publisher, cfg.OutboxInterval,
			outboxworker.WithLogger(log), outboxworker.WithMetrics(m))
		g.Go(func() error {
			log.Info("starting outbox worker", "interval", cfg.OutboxInterval, "topic", cfg.Kafka.Topic)
			if err := w.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		log.Warn("no kafka brokers configured, outbox emails stay queued")
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
