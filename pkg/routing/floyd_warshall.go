package routing

import (
	"context"
	"fmt"
	"math"

	"path_finder/pkg/graph"
)

// MaxFloydWarshallNodes bounds the graphs accepted by FloydWarshall. The
// distance and successor matrices take 12 bytes per node pair.
const MaxFloydWarshallNodes = 4096

// floydWarshall computes all-pairs shortest paths over the whole graph and
// extracts the source->target pair.
//
// Loop order is fixed (k -> i -> j) and updates are strict improvements
// only, so results are deterministic. Parallel edges keep the first
// minimum-weight edge in CSR order.
func floydWarshall(ctx context.Context, g *graph.Graph, source, target uint32) (float64, []uint32, error) {
	n := int(g.NumNodes)
	if n > MaxFloydWarshallNodes {
		return 0, nil, fmt.Errorf("%w: %d nodes, limit %d", ErrGraphTooLarge, n, MaxFloydWarshallNodes)
	}

	dist := make([]float64, n*n)
	next := make([]uint32, n*n)
	for i := range dist {
		dist[i] = math.Inf(1)
		next[i] = noNode
	}
	for i := 0; i < n; i++ {
		dist[i*n+i] = 0
		next[i*n+i] = uint32(i)
	}
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			cell := int(u)*n + int(v)
			if g.Weight[e] < dist[cell] {
				dist[cell] = g.Weight[e]
				next[cell] = v
			}
		}
	}

	var (
		k, i, j      int
		baseK, baseI int
		ik, kj, cand float64
	)
	for k = 0; k < n; k++ {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		baseK = k * n
		for i = 0; i < n; i++ {
			ik = dist[i*n+k]
			if math.IsInf(ik, 1) {
				continue // no path via k can improve i->j
			}
			baseI = i * n
			for j = 0; j < n; j++ {
				kj = dist[baseK+j]
				if math.IsInf(kj, 1) {
					continue
				}
				cand = ik + kj
				if cand < dist[baseI+j] {
					dist[baseI+j] = cand
					next[baseI+j] = next[baseI+k]
				}
			}
		}
	}

	// A node on a negative cycle has a negative distance to itself.
	s := int(source)
	for k = 0; k < n; k++ {
		if dist[k*n+k] < 0 && !math.IsInf(dist[s*n+k], 1) {
			return 0, nil, ErrNegativeCycle
		}
	}

	t := int(target)
	if math.IsInf(dist[s*n+t], 1) {
		return 0, nil, ErrNoPath
	}

	path := []uint32{source}
	for u := source; u != target; {
		u = next[int(u)*n+t]
		if u == noNode || len(path) > n {
			return 0, nil, ErrNoPath
		}
		path = append(path, u)
	}
	return dist[s*n+t], path, nil
}
