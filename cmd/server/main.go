package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"path_finder/pkg/api"
	"path_finder/pkg/config"
	"path_finder/pkg/loader"
	"path_finder/pkg/routing"
)

func main() {
	envFile := flag.String("env", ".env", "Path to .env file (missing is fine)")
	port := flag.String("port", "", "HTTP port (overrides PORT)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, err := loadDataset(ctx, cfg.Source, logger)
	if err != nil {
		return err
	}
	store := routing.NewStore(ds)

	engine := routing.NewEngine(store, logger.Named("routing"))
	engine.MaxSnapDistanceMeters = cfg.MaxSnapDistanceMeters

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := api.NewMetrics(reg)

	serverCfg := api.DefaultConfig(":" + cfg.Port)
	serverCfg.CORSOrigin = cfg.CORSOrigin
	serverCfg.MaxConcurrent = cfg.MaxConcurrent
	serverCfg.RequestTimeout = cfg.RequestTimeout
	serverCfg.ReadTimeout = cfg.ReadTimeout
	serverCfg.WriteTimeout = cfg.WriteTimeout

	handlers := api.NewHandlers(engine, cfg.DefaultAlgorithm, metrics, logger.Named("api"))
	router := api.NewRouter(serverCfg, handlers, metrics, reg, logger.Named("http"))
	srv := api.NewServer(serverCfg, router)

	go reloadOnHangup(ctx, cfg.Source, store, logger)

	return api.ListenAndServe(ctx, srv, logger)
}

func loadDataset(ctx context.Context, src loader.Source, logger *zap.Logger) (*routing.Dataset, error) {
	start := time.Now()
	logger.Info("loading graph", zap.String("source", string(src.Kind)))

	g, err := loader.LoadGraph(ctx, src, logger.Named("loader"))
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	ds, err := routing.DatasetFromGraph(g)
	if err != nil {
		return nil, err
	}

	logger.Info("graph ready",
		zap.Uint32("nodes", g.NumNodes),
		zap.Uint32("edges", g.NumEdges),
		zap.Bool("negative_weights", g.HasNegativeWeights),
		zap.Duration("took", time.Since(start)),
	)
	return ds, nil
}

// reloadOnHangup rebuilds the dataset on SIGHUP and swaps it in. Reloads run
// one at a time; a failed reload keeps serving the current dataset.
func reloadOnHangup(ctx context.Context, src loader.Source, store *routing.Store, logger *zap.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			ds, err := loadDataset(ctx, src, logger)
			if err != nil {
				logger.Error("reload failed, keeping current graph", zap.Error(err))
				continue
			}
			store.Swap(ds)
			logger.Info("graph reloaded")
		}
	}
}
