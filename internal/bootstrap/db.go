package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/config"
	"github.com/roomify-app/roomify-backend/internal/storage/kv"
	"github.com/roomify-app/roomify-backend/internal/storage/postgres"
)

type StoreOptions struct {
	ConnectTO time.Duration
	PingTO    time.Duration
}

// OpenStore connects the keyed store selected by cfg.Backend. The returned
// closer releases the underlying connection.
func OpenStore(ctx context.Context, cfg config.StoreConfig, opt StoreOptions, log *logrus.Logger) (kv.Store, io.Closer, error) {
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			DialTimeout: opt.ConnectTO,
		})

		pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
		defer cancel()

		if err := client.Ping(pctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.WithField("addr", cfg.RedisAddr).Info("redis store connected")
		return kv.NewRedisStore(client, cfg.KeyPrefix), client, nil

	case "postgres":
		cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
		defer cancel()

		db, err := postgres.NewConnection(cctx, &cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}

		store := kv.NewPostgresStore(db)
		if err := store.EnsureSchema(cctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("db schema: %w", err)
		}
		log.Info("postgres store connected")
		return store, db, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
