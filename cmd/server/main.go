package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/robin246j/account-service/internal/config"
	api "github.com/robin246j/account-service/internal/http"
	"github.com/robin246j/account-service/internal/log"
	"github.com/robin246j/account-service/internal/mail"
	"github.com/robin246j/account-service/internal/metrics"
	"github.com/robin246j/account-service/internal/queue"
	"github.com/robin246j/account-service/internal/repo"
	"github.com/robin246j/account-service/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := log.Init(os.Getenv("APP_ENV") == "prod")
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.DDEnabled {
		tracer.Start(tracer.WithService("account-service"))
		defer tracer.Stop()
	}

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.Ping(ctx); err != nil {
		logger.Fatal("mongo ping", zap.Error(err))
	}
	if err := store.EnsureUserIndexes(ctx); err != nil {
		logger.Fatal("user indexes", zap.Error(err))
	}
	if err := store.EnsureCodeIndexes(ctx); err != nil {
		logger.Fatal("code indexes", zap.Error(err))
	}

	var rds *repo.Redis
	if cfg.RedisAddr != "" {
		rds = repo.NewRedis(cfg.RedisAddr)
		if err := rds.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, rate limiting disabled", zap.Error(err))
			rds = nil
		} else {
			defer rds.Close()
		}
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		rp, err := queue.NewRabbit(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			logger.Warn("rabbit unreachable, events disabled", zap.Error(err))
		} else {
			pub = rp
			defer pub.Close()
		}
	}

	var mailer mail.Sender = mail.LogSender{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}

	accounts := service.NewAccount(store)
	verify := service.NewVerification(store, mailer,
		time.Duration(cfg.CodeTTLMinutes)*time.Minute)

	h := api.NewHandler(accounts, verify, store, rds, cfg.RateLimitPerMin, pub, cfg.EventsExchange)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("account-service listening", zap.String("port", cfg.Port))

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("signal received, shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
