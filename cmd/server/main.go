package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/chi-demo/middleware"
	"github.com/tendant/content-registry/pkg/contentregistry"
	"github.com/tendant/content-registry/pkg/contentregistry/api"
	"github.com/tendant/content-registry/pkg/contentregistry/config"
	"github.com/tendant/content-registry/pkg/contentregistry/events"
	"github.com/tendant/content-registry/pkg/contentregistry/rpc"
	memorystorage "github.com/tendant/content-registry/pkg/contentregistry/storage/memory"
	postgresstorage "github.com/tendant/content-registry/pkg/contentregistry/storage/postgres"
	s3storage "github.com/tendant/content-registry/pkg/contentregistry/storage/s3"
)

func main() {
	var cfg config.Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	specs, err := config.ParseContentTypes(cfg.ContentTypes)
	if err != nil {
		slog.Error("Failed to parse content types", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.Storage == "postgres" {
		pool, err = newDbPool(ctx, cfg.DB)
		if err != nil {
			slog.Error("Failed to connect to database", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	// Event bus with an audit-log subscriber; delivery failures never
	// surface to registration.
	bus := events.New()
	bus.Subscribe(contentregistry.EventContentTypeRegistered, func(event string, payload any) {
		slog.Info("content type registered", "event", event, "payload", payload)
	})

	registry := contentregistry.NewRegistry(contentregistry.WithEventBus(bus))
	for _, spec := range specs {
		storage, err := newStorage(cfg, pool, spec)
		if err != nil {
			slog.Error("Failed to initialize storage", "contentType", spec.ID, "err", err)
			os.Exit(1)
		}
		if err := registry.Register(contentregistry.ContentTypeDefinition{
			ID:      spec.ID,
			Storage: storage,
			Latest:  spec.Latest,
		}); err != nil {
			slog.Error("Failed to register content type", "contentType", spec.ID, "err", err)
			os.Exit(1)
		}
	}

	// An incompletely wired procedure set must keep the server from starting.
	procedures, err := rpc.NewProcedures()
	if err != nil {
		slog.Error("Failed to wire procedures", "err", err)
		os.Exit(1)
	}

	server := app.DefaultWithoutRoutes()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	handler := api.NewHandler(registry, procedures)

	server.R.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.ApiKeySHA256 != "" {
				apiKeyMiddleware, err := middleware.ApiKeyMiddleware(middleware.ApiKeyConfig{
					APIKeys: map[string]string{"key1": cfg.ApiKeySHA256},
				})
				if err != nil {
					slog.Error("Failed to initialize API key middleware", "err", err)
					os.Exit(1)
				}
				r.Use(apiKeyMiddleware)
			}
			if cfg.JWTSecret != "" {
				tokenAuth := jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Use(jwtauth.Authenticator)
			}
			r.Mount("/", handler.Routes())
		})
	})

	server.Run()
}

func newDbPool(ctx context.Context, dbConfig config.DbConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dbConfig.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func newStorage(cfg config.Config, pool *pgxpool.Pool, spec config.ContentTypeSpec) (contentregistry.Storage, error) {
	switch cfg.Storage {
	case "memory":
		return memorystorage.New(), nil
	case "postgres":
		return postgresstorage.New(pool, postgresstorage.Config{
			ContentType: spec.ID,
			Table:       cfg.DB.Table,
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			ContentType:     spec.ID,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.BucketName,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
			KeyPrefix:       cfg.S3.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage)
	}
}
