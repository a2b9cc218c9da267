package routing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"path_finder/pkg/graph"
)

// buildGridGraph creates a small bidirectional test graph.
//
//	10 ---100--- 20 ---200--- 30
//	|                         |
//	300                      400
//	|                         |
//	40 ---500--- 50 ---600--- 60
//
// Weights in meters.
func buildGridGraph(t testing.TB) *graph.Graph {
	t.Helper()
	nodes := []graph.Node{
		{ID: 10, Lat: 1.300, Lon: 103.800},
		{ID: 20, Lat: 1.300, Lon: 103.801},
		{ID: 30, Lat: 1.300, Lon: 103.802},
		{ID: 40, Lat: 1.301, Lon: 103.800},
		{ID: 50, Lat: 1.301, Lon: 103.801},
		{ID: 60, Lat: 1.301, Lon: 103.802},
	}
	var edges []graph.Edge
	for _, e := range []graph.Edge{
		{Source: 10, Target: 20, Weight: 100},
		{Source: 20, Target: 30, Weight: 200},
		{Source: 10, Target: 40, Weight: 300},
		{Source: 30, Target: 60, Weight: 400},
		{Source: 40, Target: 50, Weight: 500},
		{Source: 50, Target: 60, Weight: 600},
	} {
		edges = append(edges, e, graph.Edge{Source: e.Target, Target: e.Source, Weight: e.Weight})
	}
	g, err := graph.Build(nodes, edges)
	require.NoError(t, err)
	return g
}

// buildLineGraph creates 1 -> 2 -> 3 along the equator, 100 m per edge.
func buildLineGraph(t testing.TB) *graph.Graph {
	t.Helper()
	g, err := graph.Build(
		[]graph.Node{
			{ID: 1, Lat: 0, Lon: 0},
			{ID: 2, Lat: 0, Lon: 1},
			{ID: 3, Lat: 0, Lon: 2},
		},
		[]graph.Edge{
			{Source: 1, Target: 2, Weight: 100},
			{Source: 2, Target: 3, Weight: 100},
		},
	)
	require.NoError(t, err)
	return g
}

func mustBuild(t testing.TB, nodes []graph.Node, edges []graph.Edge) *graph.Graph {
	t.Helper()
	g, err := graph.Build(nodes, edges)
	require.NoError(t, err)
	return g
}

// pointNodes returns nodes with the given IDs spread along the equator.
func pointNodes(ids ...graph.NodeID) []graph.Node {
	nodes := make([]graph.Node, len(ids))
	for i, id := range ids {
		nodes[i] = graph.Node{ID: id, Lat: 0, Lon: float64(i) * 0.01}
	}
	return nodes
}
