package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"path_finder/pkg/config"
	"path_finder/pkg/graph"
	"path_finder/pkg/loader"
)

func main() {
	envFile := flag.String("env", ".env", "Path to .env file (missing is fine)")
	source := flag.String("source", "", "Input kind: csv, osm, postgres or snapshot (overrides GRAPH_SOURCE)")
	input := flag.String("input", "", "Path to .osm.pbf file (implies --source osm)")
	output := flag.String("output", "graph.bin", "Output snapshot path")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng (e.g. 1.15,103.6,1.48,104.1)")
	singapore := flag.Bool("singapore", false, "Shortcut for --bbox 1.15,103.6,1.48,104.1 (Singapore bounding box)")
	largest := flag.Bool("largest-component", false, "Keep only the largest weakly connected component")
	compress := flag.Bool("zstd", true, "Compress the snapshot with zstd")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	src := cfg.Source
	if *input != "" {
		src.Kind = loader.KindOSM
		src.OSMPath = *input
	}
	if *source != "" {
		src.Kind = loader.Kind(*source)
	}
	if *singapore {
		*bbox = "1.15,103.6,1.48,104.1"
	}
	if *bbox != "" {
		if src.BBox, err = loader.ParseBBox(*bbox); err != nil {
			logger.Fatal("invalid bbox", zap.Error(err))
		}
	}

	comp := graph.CompressionNone
	if *compress {
		comp = graph.CompressionZstd
	}

	if err := run(src, *output, *largest, comp, logger); err != nil {
		logger.Fatal("preprocess failed", zap.Error(err))
	}
}

func run(src loader.Source, output string, largest bool, comp graph.Compression, logger *zap.Logger) error {
	start := time.Now()

	logger.Info("loading tables", zap.String("source", string(src.Kind)))
	g, err := loader.LoadGraph(context.Background(), src, logger.Named("loader"))
	if err != nil {
		return err
	}
	logger.Info("graph built",
		zap.Uint32("nodes", g.NumNodes),
		zap.Uint32("edges", g.NumEdges),
		zap.Int("components", graph.CountComponents(g)),
	)

	if largest && g.NumNodes > 0 {
		componentNodes := graph.LargestComponent(g)
		logger.Info("largest component",
			zap.Int("nodes", len(componentNodes)),
			zap.Float64("percent", float64(len(componentNodes))/float64(g.NumNodes)*100),
		)
		if g, err = graph.FilterToComponent(g, componentNodes); err != nil {
			return fmt.Errorf("filter to largest component: %w", err)
		}
		logger.Info("filtered graph", zap.Uint32("nodes", g.NumNodes), zap.Uint32("edges", g.NumEdges))
	}

	logger.Info("writing snapshot", zap.String("path", output))
	if err := graph.WriteBinary(output, g, comp); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	info, err := os.Stat(output)
	if err != nil {
		return err
	}
	logger.Info("done",
		zap.Duration("took", time.Since(start).Round(time.Millisecond)),
		zap.String("output", output),
		zap.Float64("size_mb", float64(info.Size())/(1024*1024)),
	)
	return nil
}
