// Package loader reads node and edge tables from CSV files, OpenStreetMap
// PBF extracts, PostgreSQL and graph snapshots.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"path_finder/pkg/graph"
)

// Kind names a table source.
type Kind string

const (
	KindCSV      Kind = "csv"
	KindOSM      Kind = "osm"
	KindPostgres Kind = "postgres"
	KindSnapshot Kind = "snapshot"
)

// ErrUnknownSource is returned for a Source with an unsupported Kind.
var ErrUnknownSource = errors.New("unknown graph source")

// Tables are the node and edge tables a graph is built from.
type Tables struct {
	Nodes []graph.Node
	Edges []graph.Edge
}

// Source describes where to load tables from. Only the fields relevant to
// Kind are read.
type Source struct {
	Kind Kind

	NodesCSV string
	EdgesCSV string

	OSMPath string
	BBox    orb.Bound // zero value disables filtering

	DatabaseURL string
	NodesTable  string
	EdgesTable  string

	SnapshotPath string
}

// LoadTables reads the node and edge tables described by src.
func LoadTables(ctx context.Context, src Source, logger *zap.Logger) (*Tables, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch src.Kind {
	case KindCSV:
		return ReadCSVFiles(src.NodesCSV, src.EdgesCSV)

	case KindOSM:
		f, err := os.Open(src.OSMPath)
		if err != nil {
			return nil, fmt.Errorf("open osm extract: %w", err)
		}
		defer f.Close()
		return ParseOSM(ctx, f, OSMOptions{BBox: src.BBox, Logger: logger})

	case KindPostgres:
		db, err := OpenPostgres(src.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return LoadPostgres(ctx, db, src.NodesTable, src.EdgesTable)

	case KindSnapshot:
		g, err := graph.ReadBinary(src.SnapshotPath)
		if err != nil {
			return nil, err
		}
		return &Tables{Nodes: g.Nodes(), Edges: g.Edges()}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, src.Kind)
}

// LoadGraph loads src and builds a graph from it. Snapshots are read
// directly without an intermediate table copy.
func LoadGraph(ctx context.Context, src Source, logger *zap.Logger) (*graph.Graph, error) {
	if src.Kind == KindSnapshot {
		return graph.ReadBinary(src.SnapshotPath)
	}

	tables, err := LoadTables(ctx, src, logger)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(tables.Nodes, tables.Edges)
	if err != nil {
		return nil, fmt.Errorf("build graph from %s: %w", src.Kind, err)
	}
	return g, nil
}
