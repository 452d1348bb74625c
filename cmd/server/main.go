package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/api"
	"github.com/yatube/yatube/internal/api/handler"
	"github.com/yatube/yatube/internal/api/view"
	"github.com/yatube/yatube/internal/core/ports"
	"github.com/yatube/yatube/internal/core/service"
	"github.com/yatube/yatube/internal/infrastructure/db"
	"github.com/yatube/yatube/internal/infrastructure/db/redis"
	"github.com/yatube/yatube/internal/infrastructure/storage/s3"
	"github.com/yatube/yatube/internal/pkg/config"
	"github.com/yatube/yatube/pkg/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	formOverheadBytes = 1 << 20
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.Init(logger.Options{Service: "yatube"})
		log.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "yatube",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	store, err := db.Open(ctx, cfg, logger.For("store"))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	var images ports.ImageStore
	var media view.MediaFunc
	if cfg.S3.Bucket != "" {
		imageStore, err := s3.NewImageStore(ctx, s3.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			MediaURL:  cfg.S3.MediaURL,
		})
		if err != nil {
			return err
		}
		images, media = imageStore, imageStore.URL
	} else {
		log.Warn().Msg("S3_BUCKET not set, image uploads disabled")
	}

	// --- Services ---
	authService := service.NewAuthService(store.Users, redis.NewRevocationStore(rdb),
		cfg.JWTSecret, cfg.SessionTTL, logger.For("auth"))
	postService := service.NewPostService(store.Posts, store.Groups, store.Users, store.Comments,
		store.Follows, images, service.PostOptions{
			PageSize:      cfg.PageSize,
			MaxImageBytes: cfg.MaxImageBytes,
		}, logger.For("posts"))
	commentService := service.NewCommentService(store.Posts, store.Comments, logger.For("comments"))
	followService := service.NewFollowService(store.Users, store.Follows, logger.For("follows"))

	renderer, err := view.New(media)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Posts:    postService,
		Comments: commentService,
		Follows:  followService,
		Renderer: renderer,
		Log:      logger.For("http"),
		Cookie:   handler.CookieConfig{TTL: cfg.SessionTTL, Secure: !cfg.IsDevelopment()},
		// room for the text fields and multipart framing on top of the image
		MaxBodyBytes: cfg.MaxImageBytes + formOverheadBytes,
		Checks: map[string]handler.Checker{
			cfg.StoreDriver: store.Ping,
			"redis":         redis.Ping(rdb),
		},
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
