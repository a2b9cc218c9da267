package routing

import (
	"context"
	"fmt"

	"path_finder/pkg/graph"
)

// PathResult is a shortest path between two graph nodes.
type PathResult struct {
	WeightMeters float64
	Nodes        []graph.NodeID // start first, end last
}

type searchFunc func(ctx context.Context, g *graph.Graph, source, target uint32) (float64, []uint32, error)

var searches = map[Algorithm]searchFunc{
	Dijkstra:      dijkstra,
	BellmanFord:   bellmanFord,
	FloydWarshall: floydWarshall,
}

// ShortestPath computes the minimum-weight path from startID to endID.
//
// A route from a node to itself is always (0, [node]). Errors: ErrUnknownNode
// when either ID is absent, ErrNoPath when endID is unreachable,
// ErrNegativeCycle (BellmanFord, FloydWarshall), ErrNegativeWeight
// (Dijkstra), ErrGraphTooLarge (FloydWarshall), or the context error.
func ShortestPath(ctx context.Context, g *graph.Graph, startID, endID graph.NodeID, alg Algorithm) (PathResult, error) {
	search, ok := searches[alg]
	if !ok {
		return PathResult{}, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(alg))
	}

	source, ok := g.Index(startID)
	if !ok {
		return PathResult{}, fmt.Errorf("%w: start %d", ErrUnknownNode, startID)
	}
	target, ok := g.Index(endID)
	if !ok {
		return PathResult{}, fmt.Errorf("%w: end %d", ErrUnknownNode, endID)
	}

	if source == target {
		return PathResult{WeightMeters: 0, Nodes: []graph.NodeID{startID}}, nil
	}

	weight, path, err := search(ctx, g, source, target)
	if err != nil {
		return PathResult{}, fmt.Errorf("%s %d -> %d: %w", alg, startID, endID, err)
	}

	nodes := make([]graph.NodeID, len(path))
	for i, u := range path {
		nodes[i] = g.NodeID[u]
	}
	return PathResult{WeightMeters: weight, Nodes: nodes}, nil
}
