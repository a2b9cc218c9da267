package routing

import (
	"fmt"
	"sync/atomic"
	"time"

	"path_finder/pkg/graph"
	"path_finder/pkg/spatial"
)

// Dataset is a graph and a spatial index built from the same node table.
type Dataset struct {
	Graph    *graph.Graph
	Index    *spatial.Index
	LoadedAt time.Time
}

// NewDataset builds the graph and its spatial index from node and edge tables.
func NewDataset(nodes []graph.Node, edges []graph.Edge) (*Dataset, error) {
	g, err := graph.Build(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return DatasetFromGraph(g)
}

// DatasetFromGraph indexes the nodes of an already built graph.
func DatasetFromGraph(g *graph.Graph) (*Dataset, error) {
	idx, err := spatial.FromGraph(g)
	if err != nil {
		return nil, fmt.Errorf("build spatial index: %w", err)
	}
	return &Dataset{Graph: g, Index: idx, LoadedAt: time.Now()}, nil
}

// Store publishes the current dataset. Readers never block; a Swap is seen
// by queries that start after it.
type Store struct {
	current atomic.Pointer[Dataset]
}

// NewStore creates a store holding ds.
func NewStore(ds *Dataset) *Store {
	s := &Store{}
	s.current.Store(ds)
	return s
}

// Load returns the current dataset.
func (s *Store) Load() *Dataset {
	return s.current.Load()
}

// Swap replaces the current dataset and returns the previous one.
func (s *Store) Swap(ds *Dataset) *Dataset {
	return s.current.Swap(ds)
}
