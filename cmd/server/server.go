package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/campaignkit/session-api/internal/config"
	"github.com/campaignkit/session-api/internal/dice"
	"github.com/campaignkit/session-api/internal/handlers"
	"github.com/campaignkit/session-api/internal/logger"
	session "github.com/campaignkit/session-api/internal/orchestrators/session"
	"github.com/campaignkit/session-api/internal/pkg/clock"
	"github.com/campaignkit/session-api/internal/pkg/idgen"
	"github.com/campaignkit/session-api/internal/redis"
	sessionstate "github.com/campaignkit/session-api/internal/repositories/session_state"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the session API HTTP server with all configured services.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.Setup(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	redisClient, err := redis.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn("failed to close redis client", "error", err)
		}
	}()

	repo, err := sessionstate.NewRedisRepository(&sessionstate.Config{
		Client:     redisClient,
		Clock:      clock.New(),
		DefaultTTL: cfg.SessionTTL,
	})
	if err != nil {
		return err
	}

	orch, err := session.New(&session.Config{
		Repository:   repo,
		DiceResolver: dice.NewResolver(nil),
		IDGenerator:  idgen.NewUUID("sess"),
		Logger:       log,
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/sessions", handlers.NewSessionHandler(orch, log))
	mux.Handle("/v1/sessions/", handlers.NewSessionHandler(orch, log))
	mux.Handle("/v1/roll", handlers.NewRollHandler(orch, log))
	mux.Handle("/health", handlers.NewHealthHandler(redisClient, log))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown timeout exceeded, forcing stop", "error", err)
			return srv.Close()
		}

		log.Info("server stopped gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}
