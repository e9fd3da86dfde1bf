package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ctvnews/newsroom/docs" // swagger docs
	"github.com/ctvnews/newsroom/internal/api"
	"github.com/ctvnews/newsroom/internal/core/ports"
	"github.com/ctvnews/newsroom/internal/core/service"
	"github.com/ctvnews/newsroom/internal/infrastructure/config"
	mongodb "github.com/ctvnews/newsroom/internal/infrastructure/db/mongo"
	"github.com/ctvnews/newsroom/internal/infrastructure/db/postgres"
	redisdb "github.com/ctvnews/newsroom/internal/infrastructure/db/redis"
	"github.com/ctvnews/newsroom/internal/infrastructure/queue"
	"github.com/ctvnews/newsroom/internal/infrastructure/security"
	"github.com/ctvnews/newsroom/internal/infrastructure/storage"
	"github.com/ctvnews/newsroom/internal/infrastructure/token"
	"github.com/ctvnews/newsroom/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title Newsroom API
// @version 1.0
// @description News CMS backend: accounts, articles, taxonomy, site configuration and uploads.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "newsroom-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Postgres: the system of record ---
	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	store := postgres.NewStore(db)

	// --- Redis: optional view dedup ---
	var rdb *goredis.Client
	var views ports.ViewDeduplicator
	rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, every view will be counted")
		rdb = nil
	} else {
		defer rdb.Close()
		views = redisdb.NewViewDedup(rdb, cfg.Redis.ViewDedupTTL)
	}

	// --- Mongo: optional audit trail ---
	var mdb *mongodriver.Database
	var auditSink ports.AuditRepository = queue.LogSink{Log: log}
	var auditReader ports.AuditReader
	client, mdb, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Warn().Err(err).Msg("mongo unavailable, audit records go to the log")
		mdb = nil
	} else {
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		repo := mongodb.NewAuditRepository(mdb)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not created")
		}
		auditSink, auditReader = repo, repo
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Mongo.AuditWorkers, auditSink, log)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Uploads ---
	var files ports.FileStore
	uploadDir := ""
	switch cfg.Upload.Driver {
	case "s3":
		s3cfg := cfg.Upload.S3
		files, err = storage.NewS3(ctx, storage.S3Config{
			Bucket:        s3cfg.Bucket,
			Region:        s3cfg.Region,
			Endpoint:      s3cfg.Endpoint,
			AccessKey:     s3cfg.AccessKey,
			SecretKey:     s3cfg.SecretKey,
			PathStyle:     s3cfg.PathStyle,
			PublicBaseURL: s3cfg.PublicBaseURL,
			KeyPrefix:     s3cfg.KeyPrefix,
		})
	default:
		var local *storage.Local
		local, err = storage.NewLocal(cfg.Upload.Dir)
		if local != nil {
			files, uploadDir = local, local.Dir()
		}
	}
	if err != nil {
		return err
	}

	// --- Services ---
	tokens := token.NewCodec(cfg.Auth.JWTSecret)
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	e := api.NewRouter(api.Dependencies{
		Log:        log,
		Tokens:     tokens,
		Auth:       service.NewAuthService(store, hasher, tokens, dispatcher, log),
		Articles:   service.NewArticleService(store, views, dispatcher, log),
		Taxonomy:   service.NewTaxonomyService(store, dispatcher),
		Site:       service.NewSiteConfigService(store, dispatcher),
		Uploads:    service.NewUploadService(files, dispatcher, cfg.Upload.MaxBytes),
		Audit:      auditReader,
		Postgres:   store,
		Redis:      rdb,
		Mongo:      mdb,
		UploadDir:  uploadDir,
		BodyLimit:  bodyLimit(cfg.Upload.MaxBytes),
		TrustProxy: cfg.TrustProxy,
	})

	return serve(ctx, e, ":"+cfg.Port, log)
}

// serve runs the server until ctx is cancelled, then drains in-flight
// requests.
func serve(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// bodyLimit leaves room for multipart framing around the largest upload.
func bodyLimit(maxUpload int64) string {
	const overhead = 1 << 20
	return strconv.FormatInt((maxUpload+overhead)>>10, 10) + "K"
}
