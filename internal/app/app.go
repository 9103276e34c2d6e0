package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"DocketWatch/internal/classify"
	"DocketWatch/internal/config"
	"DocketWatch/internal/domain"
	"DocketWatch/internal/extract"
	"DocketWatch/internal/infrastructure/court"
	"DocketWatch/internal/infrastructure/scheduler"
	"DocketWatch/internal/infrastructure/storage"
	"DocketWatch/internal/infrastructure/telegram"
	"DocketWatch/internal/logging"
	"DocketWatch/internal/metrics"
	"DocketWatch/internal/parse"
	"DocketWatch/internal/ports"
	"DocketWatch/internal/scanner"
	"DocketWatch/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	metrics  *metrics.Metrics
	closers  []io.Closer
}

// New builds a runnable application instance. It opens the configured seen
// set backend, so it may fail.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	a := &Application{cfg: cfg, logger: baseLogger, metrics: metrics.New()}

	client := court.NewClient(nil, cfg.Source.BaseURL, cfg.Source.UserAgent, cfg.Source.Timeout).
		SetLocation(cfg.Scheduler.Location())
	registry := court.NewDefaultRegistry(client, baseLogger)
	source := court.NewSource(registry, baseLogger)

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Extractor:  extract.New(baseLogger),
		Parser:     parse.New(baseLogger),
		Classifier: classify.New(),
		Store:      store,
		Notifier:   notifier,
		Metrics:    a.metrics,
		Logger:     baseLogger,
	})
	return a, nil
}

func (a *Application) openStore(ctx context.Context) (ports.SeenStore, error) {
	seen := a.cfg.SeenSet
	logger := a.logger.With("backend", seen.Backend)

	switch seen.Backend {
	case "", config.BackendFile:
		return storage.NewFileStore(seen.Path, logger), nil
	case config.BackendPostgres:
		if seen.Postgres.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires a dsn")
		}
		db, err := sql.Open("postgres", seen.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, db)
		store := storage.NewPostgresStore(db, seen.Postgres.Table, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendS3:
		if seen.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 backend requires a bucket")
		}
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Bucket:    seen.S3.Bucket,
			Key:       seen.S3.Key,
			Region:    seen.S3.Region,
			Endpoint:  seen.S3.Endpoint,
			AccessKey: seen.S3.AccessKey,
			SecretKey: seen.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, seen.S3.Bucket, seen.S3.Key, logger), nil
	default:
		return nil, fmt.Errorf("unknown seen set backend %q", seen.Backend)
	}
}

// RunOnce executes the pipeline for a single release.
func (a *Application) RunOnce(ctx context.Context, req scanner.Request) (usecase.Result, error) {
	result, err := a.pipeline.Run(ctx, req)
	a.flushMetrics()
	return result, err
}

// Watch polls every category on interval until ctx is cancelled.
func (a *Application) Watch(ctx context.Context, categories []domain.Category, interval time.Duration, onResult func(usecase.Result)) error {
	if interval <= 0 {
		interval = a.cfg.Scheduler.Interval
	}
	if len(categories) == 0 {
		return fmt.Errorf("watch needs at least one category")
	}

	driver := scheduler.NewIntervalScheduler(interval, a.cfg.Scheduler.Location())
	watcher := usecase.NewScheduler(driver, a.pipeline, categories, func(r usecase.Result) {
		a.flushMetrics()
		if onResult != nil {
			onResult(r)
		}
	}, a.logger)

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watch: %w", err)
	}
	a.logger.Info("watching", "categories", categories, "interval", interval, "timezone", a.cfg.Scheduler.Location())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return watcher.Stop(stopCtx)
}

// Close releases backend connections.
func (a *Application) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *Application) flushMetrics() {
	path := a.cfg.Metrics.TextfilePath
	if path == "" {
		return
	}
	if err := a.metrics.WriteTextfile(path); err != nil {
		a.logger.Warn("write metrics textfile", "path", path, "error", err)
	}
}
