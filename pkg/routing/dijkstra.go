package routing

import (
	"context"
	"math"

	"path_finder/pkg/graph"
)

const noNode = ^uint32(0) // sentinel for "no node"

// ctxCheckInterval is how many settled nodes pass between context checks.
const ctxCheckInterval = 1024

// MinHeap is a concrete-typed min-heap for the Dijkstra priority queue.
// Avoids interface boxing overhead of container/heap. Entries with equal
// distance pop in push order.
type MinHeap struct {
	items []PQItem
	seq   uint64
}

// PQItem is a priority queue entry.
type PQItem struct {
	Node uint32
	Dist float64
	seq  uint64
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node uint32, dist float64) {
	h.items = append(h.items, PQItem{Node: node, Dist: dist, seq: h.seq})
	h.seq++
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) PeekDist() float64 {
	if len(h.items) == 0 {
		return math.Inf(1)
	}
	return h.items[0].Dist
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
	h.seq = 0
}

func (h *MinHeap) less(i, j int) bool {
	if h.items[i].Dist != h.items[j].Dist {
		return h.items[i].Dist < h.items[j].Dist
	}
	return h.items[i].seq < h.items[j].seq
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// dijkstra runs single-source search from source and stops once target is
// settled. Edges are relaxed in CSR order and only on strict improvement,
// so among equal-weight paths the first one discovered is kept.
func dijkstra(ctx context.Context, g *graph.Graph, source, target uint32) (float64, []uint32, error) {
	if g.HasNegativeWeights {
		return 0, nil, ErrNegativeWeight
	}

	dist := make([]float64, g.NumNodes)
	pred := make([]uint32, g.NumNodes)
	settled := make([]bool, g.NumNodes)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = noNode
	}

	var pq MinHeap
	dist[source] = 0
	pq.Push(source, 0)

	iterations := 0
	for pq.Len() > 0 {
		iterations++
		if iterations%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, nil, err
			}
		}

		item := pq.Pop()
		u := item.Node
		if settled[u] {
			continue // stale entry
		}
		settled[u] = true

		if u == target {
			break
		}

		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			newDist := item.Dist + g.Weight[e]
			if newDist < dist[v] {
				dist[v] = newDist
				pred[v] = u
				pq.Push(v, newDist)
			}
		}
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

// tracePredecessors walks pred back from target to source and returns the
// path in source-to-target order.
func tracePredecessors(pred []uint32, source, target uint32) ([]uint32, error) {
	var path []uint32
	for node := target; ; node = pred[node] {
		path = append(path, node)
		if node == source {
			break
		}
		if pred[node] == noNode || len(path) > len(pred) {
			return nil, ErrNoPath
		}
	}
	// Reverse to get source -> target.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
