package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/takumi-dev/cliptube/internal/api/handler"
	"github.com/takumi-dev/cliptube/internal/api/middleware"
	"github.com/takumi-dev/cliptube/internal/config"
	"github.com/takumi-dev/cliptube/internal/infrastructure/cache"
	"github.com/takumi-dev/cliptube/internal/infrastructure/postgres"
	"github.com/takumi-dev/cliptube/internal/infrastructure/queue"
	"github.com/takumi-dev/cliptube/internal/infrastructure/storage"
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

	// Initialize infrastructure clients
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:       cfg.MinIO.Endpoint,
		PublicEndpoint: cfg.MinIO.PublicEndpoint,
		AccessKey:      cfg.MinIO.AccessKey,
		SecretKey:      cfg.MinIO.SecretKey,
		Bucket:         cfg.MinIO.Bucket,
		UseSSL:         cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO")

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

	// Repositories
	userRepo := postgres.NewUserRepository(pgClient.Pool())
	videoRepo := postgres.NewVideoRepository(pgClient.Pool())
	tweetRepo := postgres.NewTweetRepository(pgClient.Pool())
	commentRepo := postgres.NewCommentRepository(pgClient.Pool())
	playlistRepo := postgres.NewPlaylistRepository(pgClient.Pool())
	likeRepo := postgres.NewLikeRepository(pgClient.Pool())
	subscriptionRepo := postgres.NewSubscriptionRepository(pgClient.Pool())

	// Services
	tokenSvc := usecase.NewTokenService(userRepo, usecase.TokenServiceConfig{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})
	userSvc := usecase.NewUserService(userRepo, videoRepo, storageClient, tokenSvc)
	videoSvc := usecase.NewVideoService(videoRepo, userRepo, storageClient, queueClient)
	tweetSvc := usecase.NewTweetService(tweetRepo)
	commentSvc := usecase.NewCommentService(commentRepo, videoRepo)
	playlistSvc := usecase.NewPlaylistService(playlistRepo, videoRepo)
	engagementSvc := usecase.NewCachedEngagementService(
		usecase.NewEngagementService(likeRepo, subscriptionRepo, userRepo, videoRepo, tweetRepo, commentRepo, queueClient),
		cache.NewRedisCountCache(redisClient),
		usecase.DefaultCachedEngagementServiceConfig(),
	)
	activitySvc := usecase.NewActivityService(
		cache.NewRedisActivityFeed(redisClient, cfg.Worker.FeedMaxEntries),
		userRepo,
	)

	r := setupRouter(routerDeps{
		logger:     logger,
		tokens:     tokenSvc,
		users:      userSvc,
		videos:     videoSvc,
		tweets:     tweetSvc,
		comments:   commentSvc,
		playlists:  playlistSvc,
		engagement: engagementSvc,
		activity:   activitySvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

type routerDeps struct {
	logger     *slog.Logger
	tokens     usecase.TokenService
	users      usecase.UserService
	videos     usecase.VideoService
	tweets     usecase.TweetService
	comments   usecase.CommentService
	playlists  usecase.PlaylistService
	engagement usecase.EngagementService
	activity   usecase.ActivityService
}

func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))

	r.Get("/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	authHandler := handler.NewAuthHandler(deps.users)
	userHandler := handler.NewUserHandler(deps.users, deps.engagement)
	videoHandler := handler.NewVideoHandler(deps.videos)
	tweetHandler := handler.NewTweetHandler(deps.tweets)
	commentHandler := handler.NewCommentHandler(deps.comments)
	playlistHandler := handler.NewPlaylistHandler(deps.playlists)
	likeHandler := handler.NewLikeHandler(deps.engagement)
	subscriptionHandler := handler.NewSubscriptionHandler(deps.engagement)
	dashboardHandler := handler.NewDashboardHandler(deps.engagement, deps.activity, deps.videos)

	requireAuth := middleware.Auth(deps.tokens)
	optionalAuth := middleware.OptionalAuth(deps.tokens)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.Logout)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}/tweets", tweetHandler.ListByOwner)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", userHandler.Me)
				r.Patch("/me", userHandler.UpdateProfile)
				r.Get("/me/history", userHandler.WatchHistory)
				r.Post("/me/history/{videoID}", userHandler.RecordWatch)
			})
		})

		r.With(optionalAuth).Get("/channels/{id}", userHandler.Channel)

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", videoHandler.List)
			r.Get("/trending", videoHandler.Trending)
			r.With(optionalAuth).Get("/{id}", videoHandler.Get)
			r.Get("/{id}/comments", commentHandler.ListByVideo)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", videoHandler.Publish)
				r.Get("/{id}/download", videoHandler.Download)
				r.Patch("/{id}", videoHandler.Update)
				r.Post("/{id}/toggle-publish", videoHandler.TogglePublish)
				r.Delete("/{id}", videoHandler.Delete)
				r.Post("/{id}/comments", commentHandler.Create)
			})
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Get("/", tweetHandler.List)
			r.Get("/{id}", tweetHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", tweetHandler.Create)
				r.Patch("/{id}", tweetHandler.Update)
				r.Delete("/{id}", tweetHandler.Delete)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Use(requireAuth)
			r.Patch("/{id}", commentHandler.Update)
			r.Delete("/{id}", commentHandler.Delete)
		})

		r.Route("/likes", func(r chi.Router) {
			r.Get("/tweets/top", likeHandler.TopTweets)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/videos", likeHandler.LikedVideos)
				r.Post("/{kind}/{id}", likeHandler.Toggle)
				r.Get("/{kind}/{id}", likeHandler.Status)
			})
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/{channelID}/subscribers", subscriptionHandler.Subscribers)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", subscriptionHandler.Subscribed)
				r.Post("/{channelID}", subscriptionHandler.Toggle)
			})
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/{id}", playlistHandler.Get)
			r.Get("/{id}/videos", playlistHandler.Videos)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", playlistHandler.ListMine)
				r.Post("/", playlistHandler.Create)
				r.Patch("/{id}", playlistHandler.Update)
				r.Delete("/{id}", playlistHandler.Delete)
				r.Post("/{id}/videos/{videoID}", playlistHandler.AddVideo)
				r.Delete("/{id}/videos/{videoID}", playlistHandler.RemoveVideo)
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/stats", dashboardHandler.Stats)
			r.Get("/videos", dashboardHandler.Videos)
			r.Get("/activity", dashboardHandler.Activity)
		})
	})

	return r
}
