package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"path_finder/pkg/graph"
)

// ErrNoDataset is returned when the engine's store holds no dataset.
var ErrNoDataset = errors.New("no dataset loaded")

// RouteResult is the output of a route query.
type RouteResult struct {
	// TotalDistanceMeters is SnapStart.DistanceMeters + PathWeightMeters + SnapEnd.DistanceMeters.
	TotalDistanceMeters float64
	PathWeightMeters    float64
	SnapStart           SnapResult
	SnapEnd             SnapResult
	NodePath            []graph.NodeID
	// Geometry is the query start, every node on the path, then the query end.
	Geometry  []LatLng
	Algorithm Algorithm
}

// Stats describes the dataset an engine is serving.
type Stats struct {
	Nodes              int
	Edges              int
	HasNegativeWeights bool
	LoadedAt           time.Time
}

// Router is the interface for route queries.
type Router interface {
	Route(ctx context.Context, start, end LatLng, alg Algorithm) (*RouteResult, error)
	Nearest(ctx context.Context, p LatLng, k int) ([]SnapResult, error)
	Stats() (Stats, error)
}

// Engine implements Router over the dataset currently held by a Store.
type Engine struct {
	store  *Store
	logger *zap.Logger

	// MaxSnapDistanceMeters is applied to both endpoints of a route. Zero
	// disables the limit.
	MaxSnapDistanceMeters float64
}

// NewEngine creates a routing engine reading from store.
func NewEngine(store *Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, logger: logger}
}

func (e *Engine) snapper() (*Dataset, *Snapper, error) {
	ds := e.store.Load()
	if ds == nil {
		return nil, nil, ErrNoDataset
	}
	s := NewSnapper(ds.Index)
	s.MaxDistanceMeters = e.MaxSnapDistanceMeters
	return ds, s, nil
}

// Route snaps start and end to their nearest nodes and computes the shortest
// path between them. The dataset is read once, so a concurrent Swap does not
// affect a query already in progress.
func (e *Engine) Route(ctx context.Context, start, end LatLng, alg Algorithm) (*RouteResult, error) {
	began := time.Now()

	ds, snapper, err := e.snapper()
	if err != nil {
		return nil, err
	}

	startSnap, err := snapper.Snap(start)
	if err != nil {
		return nil, fmt.Errorf("snap start: %w", err)
	}
	endSnap, err := snapper.Snap(end)
	if err != nil {
		return nil, fmt.Errorf("snap end: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := ShortestPath(ctx, ds.Graph, startSnap.NodeID, endSnap.NodeID, alg)
	if err != nil {
		e.logger.Debug("route failed",
			zap.Stringer("algorithm", alg),
			zap.Int64("start_node", int64(startSnap.NodeID)),
			zap.Int64("end_node", int64(endSnap.NodeID)),
			zap.Error(err),
		)
		return nil, err
	}

	result := &RouteResult{
		TotalDistanceMeters: startSnap.DistanceMeters + path.WeightMeters + endSnap.DistanceMeters,
		PathWeightMeters:    path.WeightMeters,
		SnapStart:           startSnap,
		SnapEnd:             endSnap,
		NodePath:            path.Nodes,
		Geometry:            buildGeometry(ds.Graph, start, end, path.Nodes),
		Algorithm:           alg,
	}

	e.logger.Debug("route",
		zap.Stringer("algorithm", alg),
		zap.Int64("start_node", int64(startSnap.NodeID)),
		zap.Int64("end_node", int64(endSnap.NodeID)),
		zap.Int("path_nodes", len(path.Nodes)),
		zap.Float64("total_m", result.TotalDistanceMeters),
		zap.Duration("took", time.Since(began)),
	)
	return result, nil
}

// Nearest returns the k graph nodes closest to p.
func (e *Engine) Nearest(ctx context.Context, p LatLng, k int) ([]SnapResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, snapper, err := e.snapper()
	if err != nil {
		return nil, err
	}
	return snapper.Nearest(p, k)
}

// Stats reports the size of the current dataset.
func (e *Engine) Stats() (Stats, error) {
	ds := e.store.Load()
	if ds == nil {
		return Stats{}, ErrNoDataset
	}
	return Stats{
		Nodes:              int(ds.Graph.NumNodes),
		Edges:              int(ds.Graph.NumEdges),
		HasNegativeWeights: ds.Graph.HasNegativeWeights,
		LoadedAt:           ds.LoadedAt,
	}, nil
}

// buildGeometry returns start, the coordinates of every path node, then end.
func buildGeometry(g *graph.Graph, start, end LatLng, nodes []graph.NodeID) []LatLng {
	geom := make([]LatLng, 0, len(nodes)+2)
	geom = append(geom, start)
	for _, id := range nodes {
		u, _ := g.Index(id)
		geom = append(geom, LatLng{Lat: g.NodeLat[u], Lng: g.NodeLon[u]})
	}
	return append(geom, end)
}
