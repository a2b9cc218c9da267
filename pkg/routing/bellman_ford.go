package routing

import (
	"context"
	"math"

	"path_finder/pkg/graph"
)

// bellmanFord runs single-source search that tolerates negative weights.
// Nodes are scanned in index order and edges in CSR order, updating only on
// strict improvement. A relaxation still possible after NumNodes rounds
// means a negative cycle is reachable from source.
func bellmanFord(ctx context.Context, g *graph.Graph, source, target uint32) (float64, []uint32, error) {
	n := g.NumNodes
	dist := make([]float64, n)
	pred := make([]uint32, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = noNode
	}
	dist[source] = 0

	changed := true
	for round := uint32(0); round < n && changed; round++ {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}

		changed = false
		for u := uint32(0); u < n; u++ {
			if math.IsInf(dist[u], 1) {
				continue
			}
			start, end := g.EdgesFrom(u)
			for e := start; e < end; e++ {
				v := g.Head[e]
				newDist := dist[u] + g.Weight[e]
				if newDist < dist[v] {
					dist[v] = newDist
					pred[v] = u
					changed = true
				}
			}
		}
	}

	// Still changing in round n: some shortest walk has n or more edges.
	if changed {
		return 0, nil, ErrNegativeCycle
	}

	if math.IsInf(dist[target], 1) {
		return 0, nil, ErrNoPath
	}
	path, err := tracePredecessors(pred, source, target)
	if err != nil {
		return 0, nil, err
	}
	return dist[target], path, nil
}
