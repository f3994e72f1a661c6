// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jobportal-subscription/internal/config"
	"jobportal-subscription/internal/infra/api"
	pg "jobportal-subscription/internal/infra/db/postgres"
	"jobportal-subscription/internal/infra/logging"
	"jobportal-subscription/internal/infra/metrics"
	"jobportal-subscription/internal/infra/notify"
	pay "jobportal-subscription/internal/infra/payment"
	red "jobportal-subscription/internal/infra/redis"
	"jobportal-subscription/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, verbose tracing)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, int32(cfg.Database.PoolSize))
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPlanRepo(pool), redisClient, cfg.Redis.TTL.Std())
	subRepo := pg.NewSubscriptionRepo(pool)
	payRepo := pg.NewPaymentRepo(pool)
	userRepo := pg.NewUserRepo(pool)

	// ---- Payment gateway ----
	if !strings.EqualFold(cfg.Payment.Provider, "simulated") {
		log.Fatalf("payment: unknown provider %q", cfg.Payment.Provider)
	}
	signer := pay.NewOrderSigner(cfg.Payment.KeySecret)
	var policy pay.OutcomePolicy = pay.ApproveAll{}
	if !cfg.Payment.ApproveAll && cfg.Payment.DeclineMethod != "" {
		policy = pay.DeclineMethod{Method: cfg.Payment.DeclineMethod}
	}
	gateway := pay.NewSimulatedGateway(policy, signer)

	mailer := notify.NewLogMailer(logger)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, tm, logger)
	entUC := usecase.NewEntitlementUseCase(subRepo, userUC, tm, logger)
	subUC := usecase.NewSubscriptionUseCase(planRepo, subRepo, payRepo, userUC, tm, gateway, mailer, locker, cfg.Catalog.DefaultPlanID, logger)
	planUC := usecase.NewPlanUseCase(planRepo, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, subRepo, payRepo)

	// ---- HTTP ----
	auth := api.NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.SessionTTL.Std())
	srv := api.NewServer(entUC, subUC, planUC, statsUC, auth, cfg.Admin.Password, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(cfg.Server.RequestTimeout.Std()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
