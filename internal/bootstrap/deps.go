package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/focitech/focitech-backend/config"
	"github.com/focitech/focitech-backend/internal/auth"
	"github.com/focitech/focitech-backend/internal/notify"
	"github.com/focitech/focitech-backend/internal/storage/postgres"
	"github.com/focitech/focitech-backend/internal/store"
	"github.com/focitech/focitech-backend/internal/upload"
)

// Deps holds the collaborators chosen once at startup and shared by every
// service for the life of the process.
type Deps struct {
	Store    store.Client
	Provider auth.Provider
	// Accounts is nil unless the Firebase provider is active.
	Accounts auth.Accounts
	Storage  upload.ObjectStorage
	Notifier notify.Notifier

	// LocalUploads is set when files are written to disk and served by the API.
	LocalUploads *upload.LocalDir
	Redis        *goredis.Client

	pool *pgxpool.Pool
}

func BuildDeps(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Deps, error) {
	d := &Deps{}

	if err := d.openStore(ctx, cfg); err != nil {
		return nil, err
	}

	var app *firebase.App
	if cfg.Auth.Provider == "firebase" || cfg.Storage.Backend == "firebase" {
		var err error
		app, err = auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil && cfg.Auth.Provider == "firebase" {
			d.Close()
			return nil, err
		}
		if err != nil {
			log.Warn("firebase unavailable", slog.String("error", err.Error()))
		}
	}

	if err := d.buildAuth(ctx, cfg, app); err != nil {
		d.Close()
		return nil, err
	}

	if err := d.openStorage(ctx, cfg, app, log); err != nil {
		d.Close()
		return nil, err
	}

	d.openNotifier(ctx, cfg, log)

	log.Info("dependencies ready",
		slog.String("store", cfg.Database.Backend),
		slog.String("auth_provider", cfg.Auth.Provider),
		slog.String("storage", storageName(d)),
		slog.Bool("redis", d.Redis != nil),
	)
	return d, nil
}

func (d *Deps) openStore(ctx context.Context, cfg *config.Config) error {
	if cfg.Database.Backend == "memory" {
		d.Store = store.NewInMemoryStore()
		return nil
	}

	pool, err := OpenDB(ctx, DBOptions{
		DSN:      postgres.DSN(&cfg.Database),
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		return err
	}
	d.pool = pool
	d.Store = store.NewRemoteStore(pool)
	return nil
}

func (d *Deps) buildAuth(ctx context.Context, cfg *config.Config, app *firebase.App) error {
	if cfg.Auth.Provider == "jwt" {
		d.Provider = auth.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.JWTAudience)
		return nil
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to get Firebase Auth client: %w", err)
	}
	accounts, err := auth.NewFirebaseAccounts(ctx, client, cfg.Firebase.WebAPIKey)
	if err != nil {
		return err
	}
	d.Provider = auth.NewFirebaseProvider(client)
	d.Accounts = accounts
	return nil
}

// openStorage falls back to the local directory when a remote bucket cannot
// be initialised, so the API still accepts uploads.
func (d *Deps) openStorage(ctx context.Context, cfg *config.Config, app *firebase.App, log *slog.Logger) error {
	switch cfg.Storage.Backend {
	case "firebase":
		if app != nil {
			handle, err := firebaseBucket(ctx, app)
			if err == nil {
				d.Storage = upload.NewFirebaseBucket(handle, cfg.Firebase.StorageBucket)
				return nil
			}
			log.Warn("firebase storage unavailable, using local uploads", slog.String("error", err.Error()))
		}
	case "s3":
		b, err := upload.NewS3Bucket(ctx, cfg.Storage)
		if err == nil {
			d.Storage = b
			return nil
		}
		log.Warn("s3 storage unavailable, using local uploads", slog.String("error", err.Error()))
	}

	local, err := upload.NewLocalDir(cfg.Storage.LocalDir, cfg.Storage.LocalPublicPath)
	if err != nil {
		return fmt.Errorf("local uploads: %w", err)
	}
	d.LocalUploads = local
	d.Storage = local
	return nil
}

func firebaseBucket(ctx context.Context, app *firebase.App) (*gcs.BucketHandle, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firebase Storage client: %w", err)
	}
	return client.DefaultBucket()
}

func (d *Deps) openNotifier(ctx context.Context, cfg *config.Config, log *slog.Logger) {
	if cfg.Redis.Addr == "" {
		d.Notifier = notify.LogNotifier{}
		return
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping failed, events may be dropped", slog.String("error", err.Error()))
	}
	d.Redis = client
	d.Notifier = notify.NewRedisPublisher(client, notify.DefaultChannel)
}

func storageName(d *Deps) string {
	switch d.Storage.(type) {
	case *upload.FirebaseBucket:
		return "firebase"
	case *upload.S3Bucket:
		return "s3"
	default:
		return "local"
	}
}

// RedisPinger adapts the redis client to the health check.
type RedisPinger struct{ Client *goredis.Client }

func (p RedisPinger) Ping(ctx context.Context) error { return p.Client.Ping(ctx).Err() }

func (d *Deps) Close() {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}
