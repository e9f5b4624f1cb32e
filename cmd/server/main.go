// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/kokodi/internal/auth"
	"github.com/jason-s-yu/kokodi/internal/cache"
	"github.com/jason-s-yu/kokodi/internal/config"
	"github.com/jason-s-yu/kokodi/internal/database"
	"github.com/jason-s-yu/kokodi/internal/game"
	"github.com/jason-s-yu/kokodi/internal/handlers"
	"github.com/jason-s-yu/kokodi/internal/memstore"
	"github.com/sirupsen/logrus"
)

// backend is what a primary store must provide: sessions, turns and users.
type backend interface {
	game.PlayerDirectory
	game.SessionStore
	game.TurnSink
	game.TurnHistory
	auth.UserStore
}

// eventBus publishes committed turns and lets websocket clients follow them.
type eventBus interface {
	game.EventPublisher
	handlers.TurnSubscriber
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration.")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithError(err).Warnf("Unknown LOG_LEVEL %q, using info.", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logrus.NewEntry(logger)); err != nil {
		logger.WithError(err).Fatal("Server stopped.")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Entry) error {
	var store backend
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
		log.Info("Using Postgres store.")
	} else {
		store = memstore.New()
		log.Warn("DATABASE_URL not set; sessions live in memory only.")
	}

	var sessions game.SessionStore = store
	var events eventBus
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessions = cache.NewSessionCache(store, rdb, cfg.SessionCacheTTL, log)
		events = cache.NewPublisher(rdb, log)
		log.WithField("redis_addr", cfg.RedisAddr).Info("Redis session cache and turn events enabled.")
	} else {
		events = memstore.NewHub()
	}

	manager := game.NewManager(store, sessions, game.NewRand(cfg.GameSeed),
		game.WithTurnSink(store),
		game.WithTurnHistory(store),
		game.WithEventPublisher(events),
		game.WithLogger(log),
	)
	authSvc := auth.NewService(store, cfg.JWTSecret, cfg.TokenTTL, log)
	h := handlers.New(manager, authSvc, events, log)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.ListenAddr, "env": cfg.AppEnv}).Info("Server listening.")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
