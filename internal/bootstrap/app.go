package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"idea-analyzer/internal/artifacts"
	googleauth "idea-analyzer/internal/auth"
	"idea-analyzer/internal/drive"
	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/llm"
	"idea-analyzer/internal/llm/gemini"
	"idea-analyzer/internal/services/health"
	"idea-analyzer/internal/session"
	"idea-analyzer/internal/shared/auth"
	"idea-analyzer/internal/shared/config"
	"idea-analyzer/internal/shared/server"
	"idea-analyzer/internal/shared/server/middleware"
	"idea-analyzer/internal/shared/storage/db"
	"idea-analyzer/internal/shared/storage/object"
	localstore "idea-analyzer/internal/shared/storage/object/local"
	s3store "idea-analyzer/internal/shared/storage/object/s3"
	"idea-analyzer/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	DB           *sql.DB
	Redis        *redis.Client
	Store        object.ObjectStore
	Sessions     session.Store
	Artifacts    *artifacts.Service
	Analyzer     *ideas.Analyzer
	IdeasService *ideas.Service
}

// Build prepares dependencies and wires routes. Postgres and Redis are optional: without
// DATABASE_URL or REDIS_URL the catalog and sessions live in memory.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	telemetry.SetLevel(cfg.LogLevel)

	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	app.Sessions, app.Redis, err = buildSessions(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	var repo artifacts.Repo = artifacts.NewMemoryRepo()
	if app.DB != nil {
		repo = &artifacts.PGRepo{DB: app.DB}
	}
	app.Artifacts = &artifacts.Service{Store: app.Store, Repo: repo}

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Analyzer = ideas.NewAnalyzer(llmClient, ideas.BreakerSettings{})

	app.IdeasService = &ideas.Service{
		Analyzer:     app.Analyzer,
		Artifacts:    app.Artifacts,
		Publisher:    drive.NewPublisher(cfg.DriveFolderID, drive.NewAPIService),
		HistoryLimit: cfg.HistoryLimit,
	}

	signer, err := buildSigner(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:   cfg,
		Sessions: session.NewManager(app.Sessions, signer, cfg.SessionTTL, cfg.IsProduction()),
		GoogleAuth: googleauth.NewGoogleService(googleauth.GoogleOptions{
			ClientID:        cfg.GoogleClientID,
			ClientSecret:    cfg.GoogleSecret,
			PublicBaseURL:   cfg.PublicBaseURL,
			PreferredScheme: cfg.PreferredScheme,
		}),
		Ideas:       ideas.NewHandler(app.IdeasService, cfg.MaxUploadMB, ""),
		Health:      health.NewService(),
		RateLimiter: middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database pool and Redis connection.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		telemetry.Info("bootstrap.catalog_memory", map[string]any{"reason": "DATABASE_URL empty"})
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.ServerOptions().WithEnv())
	if err != nil {
		if !cfg.IsProduction() {
			telemetry.Warn("bootstrap.catalog_memory", map[string]any{"reason": "connect failed", "err": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ArtifactStore {
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, errors.New("ARTIFACT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.UploadDir), nil
	}
}

func buildSessions(ctx context.Context, cfg config.Config) (session.Store, *redis.Client, error) {
	if cfg.RedisURL == "" {
		return session.NewMemoryStore(), nil, nil
	}
	rdb, err := session.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		if !cfg.IsProduction() {
			telemetry.Warn("bootstrap.sessions_memory", map[string]any{"err": err.Error()})
			return session.NewMemoryStore(), nil, nil
		}
		return nil, nil, err
	}
	return session.NewRedisStore(rdb), rdb, nil
}

// buildLLM returns a nil client when no API key is set, so the analyzer reports itself
// unconfigured instead of failing at startup.
func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, nil
	}
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
	if err != nil {
		return nil, err
	}
	telemetry.Info("bootstrap.llm", map[string]any{"model": client.Model()})
	return client, nil
}

func buildSigner(cfg config.Config) (*auth.Signer, error) {
	secret := cfg.SessionSecret
	if strings.TrimSpace(secret) == "" {
		telemetry.Warn("bootstrap.session_secret_generated", map[string]any{
			"note": "sessions will not survive a restart",
		})
		secret = auth.RandomSecret()
	}
	return auth.NewSigner(secret, cfg.SessionTTL)
}
