// Package config reads server and loader settings from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"path_finder/pkg/loader"
	"path_finder/pkg/routing"
)

// Config holds every setting of cmd/server and cmd/preprocess.
type Config struct {
	Source loader.Source

	Port           string
	CORSOrigin     string
	MaxConcurrent  int
	RequestTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DefaultAlgorithm      routing.Algorithm
	MaxSnapDistanceMeters float64

	LogLevel  zapcore.Level
	LogFormat string // "json" or "console"
}

// Load reads the given .env files (".env" when none are named) without
// overriding variables already set, then parses the environment. Missing
// .env files are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv parses the process environment. Empty variables count as unset.
func FromEnv() (Config, error) {
	var (
		cfg Config
		err error
	)

	cfg.Source = loader.Source{
		Kind:         loader.Kind(strings.ToLower(getEnv("GRAPH_SOURCE", string(loader.KindCSV)))),
		NodesCSV:     getEnv("NODES_CSV", "data/primary_node_list.csv"),
		EdgesCSV:     getEnv("EDGES_CSV", "data/primary_edge_list.csv"),
		OSMPath:      getEnv("OSM_PBF", ""),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		NodesTable:   getEnv("NODES_TABLE", loader.DefaultNodesTable),
		EdgesTable:   getEnv("EDGES_TABLE", loader.DefaultEdgesTable),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "graph.bin"),
	}
	if bbox := getEnv("OSM_BBOX", ""); bbox != "" {
		if cfg.Source.BBox, err = loader.ParseBBox(bbox); err != nil {
			return Config{}, fmt.Errorf("OSM_BBOX: %w", err)
		}
	}
	switch cfg.Source.Kind {
	case loader.KindCSV, loader.KindOSM, loader.KindSnapshot:
	case loader.KindPostgres:
		if cfg.Source.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required when GRAPH_SOURCE=postgres")
		}
	default:
		return Config{}, fmt.Errorf("GRAPH_SOURCE: %w: %q", loader.ErrUnknownSource, cfg.Source.Kind)
	}
	if cfg.Source.Kind == loader.KindOSM && cfg.Source.OSMPath == "" {
		return Config{}, errors.New("OSM_PBF is required when GRAPH_SOURCE=osm")
	}

	cfg.Port = getEnv("PORT", "8080")
	cfg.CORSOrigin = getEnv("CORS_ORIGIN", "")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")

	if cfg.MaxConcurrent, err = getEnvInt("MAX_CONCURRENT", runtime.NumCPU()*2); err != nil {
		return Config{}, err
	}
	if cfg.MaxConcurrent < 1 {
		return Config{}, fmt.Errorf("MAX_CONCURRENT must be positive, got %d", cfg.MaxConcurrent)
	}
	if cfg.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = getEnvDuration("READ_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvDuration("WRITE_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.MaxSnapDistanceMeters, err = getEnvFloat("MAX_SNAP_DISTANCE", 0); err != nil {
		return Config{}, err
	}
	if cfg.DefaultAlgorithm, err = routing.ParseAlgorithm(getEnv("DEFAULT_ALGORITHM", "dijkstra")); err != nil {
		return Config{}, fmt.Errorf("DEFAULT_ALGORITHM: %w", err)
	}
	if cfg.LogLevel, err = zapcore.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// Logger builds the process logger for LogLevel and LogFormat.
func (c Config) Logger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(c.LogLevel)
	return zc.Build()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
