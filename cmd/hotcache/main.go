package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"hotcache/internal/cache"
	"hotcache/internal/config"
)

type store = cache.Store[cache.CollectionKey, []byte]

func main() {
	var (
		configPath  = flag.String("config", "", "path to a YAML config file (defaults are used when empty)")
		logLevel    = flag.String("log-level", "", "log level override (debug, info, warn, error)")
		logFormat   = flag.String("log-format", "", "log format override (text, json)")
		metricsAddr = flag.String("metrics-addr", "", "serve /metrics on this address and wait for a signal")
		workers     = flag.Int("workers", 4, "goroutines in the concurrent row cache workload")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)

	// Signal-aware context is the root of ownership for the metrics server.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *workers, logger); err != nil {
		logger.Error("hotcache failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, workers int, logger *slog.Logger) error {
	collector := cache.NewCollector(cfg.Metrics.Namespace)
	caches := make(map[string]store, len(cfg.Caches))
	for _, cc := range cfg.Caches {
		caches[cc.Name] = newStore(cc)
		collector.Add(cc.Name, caches[cc.Name])
		logger.Info("cache configured",
			"name", cc.Name,
			"count_limit", cc.CountLimit,
			"capacity_hint", cc.CapacityHint,
			"thread_safe", cc.ThreadSafe)
	}

	if meta, ok := caches[config.MetadataCache]; ok {
		lruDemo(meta, logger)
	}
	if rows, ok := caches[config.RowCache]; ok {
		if _, safe := rows.(*cache.SafeCache[cache.CollectionKey, []byte]); !safe {
			logger.Warn("skipping concurrent workload: row cache is not thread-safe")
		} else if err := concurrentDemo(ctx, rows, workers, logger); err != nil {
			return fmt.Errorf("concurrent workload: %w", err)
		}
	}

	for _, name := range collector.Names() {
		s := caches[name].Stats()
		logger.Info("cache stats",
			"name", name,
			"count", s.Count,
			"count_limit", s.CountLimit,
			"hits", s.Hits,
			"misses", s.Misses,
			"evictions", s.Evictions)
	}

	if cfg.Metrics.Addr == "" {
		return nil
	}
	return serveMetrics(ctx, cfg.Metrics.Addr, collector, logger)
}

func newStore(cc config.CacheConfig) store {
	if cc.ThreadSafe {
		return cache.NewSafe[cache.CollectionKey, []byte](cc.Options())
	}
	return cache.New[cache.CollectionKey, []byte](cc.Options())
}

// lruDemo walks through eviction order on a small limit, then restores it.
func lruDemo(c store, logger *slog.Logger) {
	prev := c.CountLimit()
	c.SetCountLimit(2)
	defer c.SetCountLimit(prev)

	a := cache.NewCollectionKey("tables", "a")
	b := cache.NewCollectionKey("tables", "b")
	d := cache.NewCollectionKey("tables", "d")

	c.Set(a, []byte("A"))
	c.Set(b, []byte("B"))

	// Touch a so b becomes least-recently-used.
	if v, ok := c.Get(a); ok {
		logger.Info("get touches entry", "key", a, "value", string(v))
	}

	// Insert d => cache overflows and evicts LRU (expected: b).
	c.Set(d, []byte("D"))
	if !c.Contains(b) {
		logger.Info("entry evicted as least recently used", "key", b)
	}
	logger.Info("keys after eviction (MRU->LRU)", "keys", c.Keys())
}

// concurrentDemo has each worker own the keys whose hash lands on it, so
// workers write disjoint key ranges into the shared row cache.
func concurrentDemo(ctx context.Context, c store, workers int, logger *slog.Logger) error {
	if workers <= 0 {
		return nil
	}
	const keysPerCollection = 64

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			for i := range keysPerCollection {
				if err := ctx.Err(); err != nil {
					return err
				}
				key := cache.NewCollectionKey("rows", strconv.Itoa(i))
				if key.Hash()%uint64(workers) != uint64(w) {
					continue
				}
				c.Set(key, []byte(key.String()))
				c.Get(key)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("concurrent workload finished",
		"workers", workers,
		"count", c.Count(),
		"elapsed", time.Since(start))
	return nil
}

func serveMetrics(ctx context.Context, addr string, collector prometheus.Collector, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collector); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
