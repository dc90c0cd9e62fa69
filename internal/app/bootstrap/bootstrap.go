package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	collectionservice "bazaar/contexts/catalog/collection-service"
	catalogpostgres "bazaar/contexts/catalog/collection-service/adapters/postgres"
	accesscontrol "bazaar/contexts/identity-access/access-control"
	accesspostgres "bazaar/contexts/identity-access/access-control/adapters/postgres"
	exchangeservice "bazaar/contexts/trading/exchange-service"
	exchangepostgres "bazaar/contexts/trading/exchange-service/adapters/postgres"
	workerapp "bazaar/contexts/trading/exchange-service/application/workers"
	"bazaar/contexts/trading/exchange-service/domain/services"
	"bazaar/contexts/trading/exchange-service/ports"
	chainmem "bazaar/internal/platform/chain"
	"bazaar/internal/platform/config"
	"bazaar/internal/platform/db"
	"bazaar/internal/platform/httpserver"
	"bazaar/internal/platform/messaging"
	"bazaar/internal/shared/chain"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(accesspostgres.Migrate, catalogpostgres.Migrate, exchangepostgres.Migrate); err != nil {
		return nil, err
	}

	accessRepo := accesspostgres.NewRepository(pg.DB, logger)
	if err := accessRepo.SeedAdmin(context.Background(), chain.Address(cfg.AdminAddress)); err != nil {
		return nil, err
	}
	accessModule := accesscontrol.NewModule(accesscontrol.Dependencies{
		Repository:  accessRepo,
		Clock:       accesspostgres.SystemClock{},
		IDGenerator: accesspostgres.UUIDGenerator{},
		Logger:      logger,
	})

	// Contracts deployed by the in-process factory live for the process;
	// the catalog repository rehydrates handles from stored addresses.
	factory := chainmem.NewFactory()
	catalogRepo := catalogpostgres.NewRepository(pg.DB, factory, logger)
	catalogModule := collectionservice.NewModule(collectionservice.Dependencies{
		Repository:  catalogRepo,
		Roles:       accessModule.Service,
		Factory:     factory,
		Clock:       catalogpostgres.SystemClock{},
		IDGenerator: catalogpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	exchangeRepo := exchangepostgres.NewRepository(pg.DB, logger)
	exchangeModule := exchangeservice.NewModule(exchangeservice.Dependencies{
		Repository:  exchangeRepo,
		Collections: catalogModule.Service,
		Escrow: services.Escrow{
			Ledger:    chainmem.NewBank(),
			Tokens:    chainmem.NewDirectory(),
			Custodian: chain.Address(cfg.MarketplaceAddress),
		},
		Clock:           exchangepostgres.SystemClock{},
		IDGenerator:     exchangepostgres.UUIDGenerator{},
		AuctionDuration: cfg.AuctionDuration,
		Logger:          logger,
	})

	server := httpserver.New(accessModule, catalogModule, exchangeModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	accessRepo := accesspostgres.NewRepository(pg.DB, logger)
	catalogOutbox := catalogpostgres.NewOutbox(pg.DB)
	exchangeRepo := exchangepostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Sources:   []ports.OutboxRepository{accessRepo, catalogOutbox, exchangeRepo},
			Publisher: kafka,
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
