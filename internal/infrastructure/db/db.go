// Package db opens the configured primary store and exposes its repositories
// behind the port interfaces.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/core/domain"
	"github.com/yatube/yatube/internal/core/ports"
	"github.com/yatube/yatube/internal/infrastructure/db/mongo"
	"github.com/yatube/yatube/internal/infrastructure/db/postgres"
	"github.com/yatube/yatube/internal/pkg/config"
)

// GroupStore is the group repository plus the write path used for seeding.
type GroupStore interface {
	ports.GroupRepository
	Create(ctx context.Context, g *domain.Group) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Users    ports.UserRepository
	Groups   GroupStore
	Posts    ports.PostRepository
	Comments ports.CommentRepository
	Follows  ports.FollowRepository

	// Ping reports backend reachability for the readiness probe.
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}

// Open connects to the store selected by cfg.StoreDriver and prepares its
// schema: goose migrations for postgres, indexes for mongo.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		sqlDB, err := postgres.Connect(ctx, postgres.Config{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

		return &Store{
			Users:    postgres.NewUserRepository(sqlDB),
			Groups:   postgres.NewGroupRepository(sqlDB),
			Posts:    postgres.NewPostRepository(sqlDB),
			Comments: postgres.NewCommentRepository(sqlDB),
			Follows:  postgres.NewFollowRepository(sqlDB),
			Ping:     sqlDB.PingContext,
			Close:    func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.DriverMongo:
		client, mdb, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, mdb); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Str("database", cfg.Mongo.Database).Msg("store ready")

		return &Store{
			Users:    mongo.NewUserRepository(mdb),
			Groups:   mongo.NewGroupRepository(mdb),
			Posts:    mongo.NewPostRepository(mdb),
			Comments: mongo.NewCommentRepository(mdb),
			Follows:  mongo.NewFollowRepository(mdb),
			Ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
			Close:    client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
