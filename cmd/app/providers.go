package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ketoslim-funnel/internal/domain/funnel"
	"github.com/yanqian/ketoslim-funnel/internal/domain/session"
	"github.com/yanqian/ketoslim-funnel/internal/infra/answerstore"
	"github.com/yanqian/ketoslim-funnel/internal/infra/assets"
	"github.com/yanqian/ketoslim-funnel/internal/infra/config"
	"github.com/yanqian/ketoslim-funnel/internal/infra/history"
)

func provideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		IdleTTL:        cfg.Session.IdleTTL,
		DiscountWindow: cfg.Offer.DiscountWindow,
	}
}

func provideTokenConfig(cfg *config.Config) session.TokenConfig {
	return session.TokenConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TokenTTL,
	}
}

func provideHistoryFactory() session.HistoryFactory {
	return func() session.History { return history.NewStack() }
}

// provideStorageFactory scopes the shared answers backend to one visitor.
func provideStorageFactory(backend funnel.StoragePort) session.StorageFactory {
	return func(sessionID string) funnel.StoragePort {
		return answerstore.NewScoped(backend, sessionID)
	}
}

func provideAnswerBackend(cfg *config.Config, logger *slog.Logger) funnel.StoragePort {
	fallback := answerstore.NewMemoryStore(cfg.Storage.TTL)
	switch cfg.Storage.Backend {
	case config.StorageValkey:
		if store := provideValkeyBackend(cfg, logger); store != nil {
			return store
		}
	case config.StoragePostgres:
		if store := providePostgresBackend(cfg, logger); store != nil {
			return store
		}
	default:
		logger.Info("answers stored in memory")
		return fallback
	}
	logger.Warn("answers backend unavailable, using memory store", "backend", cfg.Storage.Backend)
	return fallback
}

func provideValkeyBackend(cfg *config.Config, logger *slog.Logger) funnel.StoragePort {
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed", "error", err)
		client.Close()
		return nil
	}
	logger.Info("answers valkey store enabled", "addr", cfg.Storage.Valkey.Addr)
	return answerstore.NewValkeyStore(client, cfg.Storage.Valkey.Prefix, cfg.Storage.TTL)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Storage.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Storage.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Storage.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func providePostgresBackend(cfg *config.Config, logger *slog.Logger) funnel.StoragePort {
	dsn := strings.TrimSpace(cfg.Storage.Postgres.DSN)
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn", "error", err)
		return nil
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed", "error", err)
		pool.Close()
		return nil
	}
	store := answerstore.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to prepare answers table", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("answers postgres store enabled")
	return store
}

func provideImageResolver(cfg *config.Config, logger *slog.Logger) session.ImageResolver {
	static := assets.NewStaticResolver(cfg.Assets.BaseURL)
	if cfg.Assets.Mode != config.AssetsR2 {
		return static
	}
	r2 := cfg.Assets.R2
	resolver, err := assets.NewR2Resolver(r2.Endpoint, r2.AccessKey, r2.SecretKey, r2.Bucket, r2.Region, r2.Prefix, r2.PresignTTL, logger)
	if err != nil {
		logger.Error("failed to initialize r2 resolver, serving static images", "error", err)
		return static
	}
	logger.Info("card images served from r2", "bucket", r2.Bucket)
	return resolver
}
