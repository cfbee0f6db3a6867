package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viralforge/affiliate-engine/internal/adapters/cache"
	eventadapter "github.com/viralforge/affiliate-engine/internal/adapters/events"
	grpcadapter "github.com/viralforge/affiliate-engine/internal/adapters/grpc"
	httpadapter "github.com/viralforge/affiliate-engine/internal/adapters/http"
	"github.com/viralforge/affiliate-engine/internal/adapters/memory"
	"github.com/viralforge/affiliate-engine/internal/adapters/postgres"
	"github.com/viralforge/affiliate-engine/internal/application"
	"github.com/viralforge/affiliate-engine/internal/ports"
	"google.golang.org/grpc"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	worker     *eventadapter.OutboxWorker
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	var (
		creators     ports.CreatorRepository
		links        ports.ReferralLinkRepository
		clicks       ports.ReferralClickRepository
		transactions ports.CommissionTransactionRepository
		auditLogs    ports.AuditLogRepository
		outbox       ports.OutboxRepository
		dedup        ports.ClickDedupStore
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			return nil, err
		}
		repos := postgres.NewRepositories(db)
		creators, links, clicks = repos.Creators, repos.Links, repos.Clicks
		transactions, auditLogs, outbox = repos.Transactions, repos.AuditLogs, repos.Outbox
	} else {
		logger.WarnContext(ctx, "no database configured, using in-memory store",
			"module", "bootstrap", "operation", "wire_storage")
		store := memory.NewStore()
		creators, links, clicks = store.Creators(), store.Links(), store.Clicks()
		transactions, auditLogs, outbox = store.Transactions(), store.AuditLogs(), store.Outbox()
		dedup = store.Dedup()
	}

	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		dedup = cache.NewRedisClickDedupStore(client)
	}

	var publisher ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, err
		}
	} else {
		publisher = eventadapter.NewLoggingPublisher(logger)
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:           cfg.ServiceID,
			PublicBaseURL:         cfg.PublicBaseURL,
			DefaultCommissionRate: cfg.DefaultCommissionRate,
			DefaultMinimumPayout:  cfg.DefaultMinimumPayout,
			AttributionWindow:     cfg.AttributionWindow,
			DedupWindow:           cfg.DedupWindow,
			TierVolumeWindow:      cfg.TierVolumeWindow,
		},
		Logger:       logger,
		Creators:     creators,
		Links:        links,
		Clicks:       clicks,
		Transactions: transactions,
		AuditLogs:    auditLogs,
		Outbox:       outbox,
		Dedup:        dedup,
	})

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	grpcadapter.Register(grpcServer, grpcadapter.NewAffiliateInternalServer(svc))
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return nil, err
	}

	worker := eventadapter.NewOutboxWorker(logger, outbox, publisher, cfg.OutboxFlushInterval, cfg.OutboxFlushBatchSize)
	return &Runtime{cfg: cfg, logger: logger, httpServer: httpServer, grpcServer: grpcServer, grpcLis: lis, worker: worker}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)
	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()
	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		if err := r.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
