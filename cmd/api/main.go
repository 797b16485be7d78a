package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"core-banking-ledger/config"
	httpHandler "core-banking-ledger/internal/adapter/http/handler"
	pgStorage "core-banking-ledger/internal/adapter/storage/postgres"
	redisStorage "core-banking-ledger/internal/adapter/storage/redis"
	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/core/ports"
	"core-banking-ledger/internal/ledger"
	"core-banking-ledger/internal/service"
	"core-banking-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Core Banking Ledger")

	ctx := context.Background()

	// Build the in-memory ledger core: one identity allocator, one audit
	// trail and one audited repository per entity kind.
	ids := ledger.NewIdentityAllocator()
	clientTrail := ledger.NewAuditTrail[domain.Client, domain.ClientOperation]()
	accountTrail := ledger.NewAuditTrail[domain.Account, domain.AccountOperation]()
	cardTrail := ledger.NewAuditTrail[domain.Card, domain.CardOperation]()
	txnTrail := ledger.NewAuditTrail[domain.Transaction, domain.TransactionOperation]()

	clients := ledger.NewAuditedRepository[domain.Client, domain.ClientOperation](domain.KindClient, ids, clientTrail)
	accounts := ledger.NewAuditedRepository[domain.Account, domain.AccountOperation](domain.KindAccount, ids, accountTrail)
	cards := ledger.NewAuditedRepository[domain.Card, domain.CardOperation](domain.KindCard, ids, cardTrail)
	txns := ledger.NewAuditedRepository[domain.Transaction, domain.TransactionOperation](domain.KindTransaction, ids, txnTrail)

	var healthCheckers []ports.HealthChecker

	// Durable snapshot store (optional)
	var persistence *service.PersistenceService
	if cfg.Persistence.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		store := pgStorage.NewSnapshotStore(pool)
		persistence = service.NewPersistenceService(store, clients, accounts, cards, txns, log)
		if err := persistence.Hydrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to hydrate ledger state")
		}
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
	} else {
		log.Warn().Msg("Persistence disabled, ledger state is in-memory only")
	}

	// Idempotency replay cache (optional)
	var idemCache ports.IdempotencyCache
	if cfg.Idempotency.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		idemCache = redisStorage.NewIdempotencyCache(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	// Initialize business services
	accountLedger := service.NewAccountLedger(accounts)
	journalSvc := service.NewTransactionJournal(accountLedger, txns, idemCache, log)
	clientSvc := service.NewClientService(clients, log)
	accountSvc := service.NewAccountService(accounts, clients, accountLedger, log)
	cardSvc := service.NewCardService(cards, accounts, log)
	auditSvc := service.NewAuditQueryService(clientTrail, accountTrail, cardTrail, txnTrail)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		ClientSvc:      clientSvc,
		AccountSvc:     accountSvc,
		CardSvc:        cardSvc,
		JournalSvc:     journalSvc,
		AuditSvc:       auditSvc,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Snapshot the ledger before the process exits.
	if persistence != nil {
		if err := persistence.Save(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to save ledger state")
		}
	}

	log.Info().Msg("Server exited")
}
