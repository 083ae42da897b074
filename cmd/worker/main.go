package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/takumi-dev/cliptube/internal/config"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
	"github.com/takumi-dev/cliptube/internal/infrastructure/cache"
	"github.com/takumi-dev/cliptube/internal/infrastructure/queue"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	// The worker only writes to the feed, so no profile lookup is wired.
	feed := cache.NewRedisActivityFeed(redisClient, cfg.Worker.FeedMaxEntries)
	activitySvc := usecase.NewActivityService(feed, nil)

	// Setup signal handling for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// WaitGroup to track in-flight events
	var wg sync.WaitGroup

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting worker, consuming engagement events")
		err := queueClient.ConsumeEngagementEvents(ctx, func(event repository.EngagementEvent) error {
			wg.Add(1)
			defer wg.Done()

			if err := activitySvc.HandleEvent(ctx, event); err != nil {
				logger.Error("event handling failed",
					slog.String("type", string(event.Type)),
					slog.String("channel_id", event.ChannelID.String()),
					slog.String("error", err.Error()),
				)
				return err
			}

			logger.Info("event recorded",
				slog.String("type", string(event.Type)),
				slog.String("channel_id", event.ChannelID.String()),
			)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer shutdownCancel()

	// Stop consuming new events
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all in-flight events processed")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, some events may not have been processed")
	}

	logger.Info("worker stopped")
	return nil
}
