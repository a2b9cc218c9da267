package routing

import "errors"

var (
	// ErrUnknownNode is returned when a start or end node is not in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNoPath is returned when the end node is unreachable from the start node.
	ErrNoPath = errors.New("no path found")

	// ErrNegativeCycle is returned when a negative-weight cycle is reachable from the start node.
	ErrNegativeCycle = errors.New("negative cycle reachable from start node")

	// ErrNegativeWeight is returned by Dijkstra on graphs with negative edge weights.
	ErrNegativeWeight = errors.New("graph has negative edge weights")

	// ErrGraphTooLarge is returned by Floyd-Warshall above MaxFloydWarshallNodes.
	ErrGraphTooLarge = errors.New("graph too large for all-pairs search")

	// ErrUnknownAlgorithm is returned by ParseAlgorithm for unrecognized labels.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrPointTooFar is returned when the query point is farther than the
	// configured maximum snap distance from every node.
	ErrPointTooFar = errors.New("point too far from road network")
)
