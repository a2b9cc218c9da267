package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"path_finder/pkg/loader"
	"path_finder/pkg/routing"
)

var envKeys = []string{
	"GRAPH_SOURCE", "NODES_CSV", "EDGES_CSV", "OSM_PBF", "OSM_BBOX", "DATABASE_URL",
	"NODES_TABLE", "EDGES_TABLE", "SNAPSHOT_PATH", "PORT", "CORS_ORIGIN",
	"MAX_CONCURRENT", "REQUEST_TIMEOUT", "READ_TIMEOUT", "WRITE_TIMEOUT",
	"MAX_SNAP_DISTANCE", "DEFAULT_ALGORITHM", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, loader.KindCSV, cfg.Source.Kind)
	assert.Equal(t, "data/primary_node_list.csv", cfg.Source.NodesCSV)
	assert.Equal(t, "data/primary_edge_list.csv", cfg.Source.EdgesCSV)
	assert.True(t, cfg.Source.BBox.IsZero())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, routing.Dijkstra, cfg.DefaultAlgorithm)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 0.0, cfg.MaxSnapDistanceMeters)
	assert.Positive(t, cfg.MaxConcurrent)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRAPH_SOURCE", "OSM")
	t.Setenv("OSM_PBF", "/data/sg.osm.pbf")
	t.Setenv("OSM_BBOX", "1.15,103.6,1.48,104.1")
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_CONCURRENT", "3")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	t.Setenv("DEFAULT_ALGORITHM", "Bellman-Ford")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_SNAP_DISTANCE", "500")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, loader.KindOSM, cfg.Source.Kind)
	assert.Equal(t, "/data/sg.osm.pbf", cfg.Source.OSMPath)
	assert.Equal(t, 103.6, cfg.Source.BBox.Min.Lon())
	assert.Equal(t, 1.48, cfg.Source.BBox.Max.Lat())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.MaxConcurrent)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, routing.BellmanFord, cfg.DefaultAlgorithm)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 500.0, cfg.MaxSnapDistanceMeters)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown source", map[string]string{"GRAPH_SOURCE": "parquet"}},
		{"postgres without url", map[string]string{"GRAPH_SOURCE": "postgres"}},
		{"osm without path", map[string]string{"GRAPH_SOURCE": "osm"}},
		{"bad bbox", map[string]string{"OSM_BBOX": "north"}},
		{"bad concurrency", map[string]string{"MAX_CONCURRENT": "many"}},
		{"zero concurrency", map[string]string{"MAX_CONCURRENT": "0"}},
		{"bad timeout", map[string]string{"REQUEST_TIMEOUT": "soon"}},
		{"bad algorithm", map[string]string{"DEFAULT_ALGORITHM": "a-star"}},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad snap distance", map[string]string{"MAX_SNAP_DISTANCE": "far"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000") // set variables win over the file

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=1111\nCORS_ORIGIN=https://maps.example.com\nDEFAULT_ALGORITHM=floyd-warshall\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "https://maps.example.com", cfg.CORSOrigin)
	assert.Equal(t, routing.FloydWarshall, cfg.DefaultAlgorithm)
}

func TestLoadMissingDotEnv(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := Config{LogLevel: zapcore.WarnLevel, LogFormat: format}.Logger()
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
	}
}
