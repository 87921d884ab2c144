// cmd/recommender-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"assessment-recommender/internal/api"
	"assessment-recommender/internal/catalog"
	"assessment-recommender/internal/common/config"
	"assessment-recommender/internal/common/database"
	"assessment-recommender/internal/common/logger"
	"assessment-recommender/internal/common/metrics"
	"assessment-recommender/internal/common/observability"
	"assessment-recommender/internal/embedding"
	"assessment-recommender/internal/index"
	"assessment-recommender/internal/recommender"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting recommender server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load Catalog ---
	store, cleanup, err := buildStore(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("catalog store init failed", zap.Error(err))
	}
	if cleanup != nil {
		defer cleanup()
	}

	assessments, err := store.LoadAll(ctx)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	if len(assessments) == 0 {
		zapLog.Fatal("catalog is empty", zap.String("source", cfg.Catalog.Source))
	}
	metrics.CatalogSize.Set(float64(len(assessments)))
	zapLog.Info("Catalog loaded", zap.Int("assessments", len(assessments)))

	// --- Init Embedder ---
	encoder, err := embedding.NewEncoder(cfg.Embedder)
	if err != nil {
		zapLog.Fatal("embedder init failed", zap.Error(err))
	}
	defer encoder.Close()

	var embedder embedding.Embedder = encoder
	if cfg.Embedder.CacheDir != "" {
		embedder, err = embedding.NewCachingEmbedder(encoder, cfg.Embedder.CacheDir)
		if err != nil {
			zapLog.Fatal("embedding cache init failed", zap.Error(err))
		}
	}
	zapLog.Info("Embedder ready", zap.String("model", cfg.Embedder.ModelID))

	// --- Build or Load Vector Index ---
	ix := index.NewInMemoryIndex()
	if err := prepareIndex(ctx, ix, embedder, assessments, cfg.Embedder.SnapshotPath, zapLog); err != nil {
		zapLog.Fatal("index build failed", zap.Error(err))
	}
	zapLog.Info("Vector index ready", zap.Int("items", ix.Size()))

	// --- Init Redis result cache (optional) ---
	var cache *database.RedisClient
	if cfg.Database.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			cache, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return cache.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer cache.Close()
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Info("Result cache disabled")
	}

	// --- Assemble Service & Server ---
	engine := recommender.NewEngine(cfg.Recommender, log, embedder, ix, assessments)

	var svc *recommender.Service
	if cache != nil {
		svc = recommender.NewService(engine, cache, config.GetDuration(cfg.Recommender.CacheTTL), log)
	} else {
		svc = recommender.NewService(engine, nil, 0, log)
	}

	server := api.NewServer(cfg.Server, cfg.App.Version, log, svc, obs)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during shutdown", zap.Error(err))
	}
	zapLog.Info("Recommender server stopped gracefully")
}

// buildStore wires the configured catalog source. The returned cleanup
// closes the Postgres pool when that source is selected.
func buildStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (catalog.Store, func(), error) {
	switch cfg.Catalog.Source {
	case "postgres":
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, nil, err
		}
		zapLog.Info("PostgreSQL connected successfully")
		return catalog.NewPostgresStore(pg.DB), func() { pg.Close() }, nil
	default:
		return catalog.NewCSVStore(cfg.Catalog.CSVPath), nil, nil
	}
}

// prepareIndex restores the snapshot when it matches the catalog, otherwise
// embeds every assessment's search text and persists a fresh snapshot.
func prepareIndex(ctx context.Context, ix *index.InMemoryIndex, embedder embedding.Embedder, assessments []catalog.Assessment, snapshotPath string, zapLog *zap.Logger) error {
	if snapshotPath != "" {
		items, err := index.LoadSnapshot(snapshotPath)
		if err == nil && snapshotMatches(items, assessments, embedder.Dimension()) {
			ix.Replace(items)
			zapLog.Info("Index restored from snapshot", zap.String("path", snapshotPath))
			return nil
		}
		if err != nil && !os.IsNotExist(err) {
			zapLog.Warn("Snapshot unusable, rebuilding index", zap.Error(err))
		}
	}

	zapLog.Info("Building embeddings index...", zap.Int("assessments", len(assessments)))
	texts := make([]string, len(assessments))
	for i, a := range assessments {
		texts[i] = a.SearchText()
	}
	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}

	items := make([]index.Item, len(assessments))
	for i, a := range assessments {
		items[i] = index.Item{ID: a.ID, Vector: vectors[i]}
	}
	ix.Replace(items)

	if snapshotPath != "" {
		if err := index.SaveSnapshot(snapshotPath, items); err != nil {
			zapLog.Warn("Failed to save index snapshot", zap.Error(err))
		} else {
			zapLog.Info("Index snapshot saved", zap.String("path", snapshotPath))
		}
	}
	return nil
}

// snapshotMatches verifies the snapshot covers exactly the loaded catalog.
func snapshotMatches(items []index.Item, assessments []catalog.Assessment, dim int) bool {
	if len(items) != len(assessments) {
		return false
	}
	byID := make(map[int]bool, len(items))
	for _, it := range items {
		if len(it.Vector) != dim {
			return false
		}
		byID[it.ID] = true
	}
	for _, a := range assessments {
		if !byID[a.ID] {
			return false
		}
	}
	return true
}
