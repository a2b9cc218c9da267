package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte // byte is sufficient; max rank ~30 for realistic graphs
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// weakComponents unions every edge of g, ignoring direction.
func weakComponents(g *Graph) *UnionFind {
	uf := NewUnionFind(g.NumNodes)
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			uf.Union(u, g.Head[e])
		}
	}
	return uf
}

// CountComponents returns the number of weakly connected components.
func CountComponents(g *Graph) int {
	uf := weakComponents(g)
	count := 0
	for i := uint32(0); i < g.NumNodes; i++ {
		if uf.Find(i) == i {
			count++
		}
	}
	return count
}

// LargestComponent returns the node indices belonging to the largest
// weakly connected component (treating the directed graph as undirected).
// Ties go to the component containing the lowest node index.
func LargestComponent(g *Graph) []uint32 {
	if g.NumNodes == 0 {
		return nil
	}

	uf := weakComponents(g)

	bestRoot := uint32(0)
	bestSize := uint32(0)
	for i := uint32(0); i < g.NumNodes; i++ {
		root := uf.Find(i)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	nodes := make([]uint32, 0, bestSize)
	for i := uint32(0); i < g.NumNodes; i++ {
		if uf.Find(i) == bestRoot {
			nodes = append(nodes, i)
		}
	}

	return nodes
}

// FilterToComponent rebuilds a graph containing only the specified node
// indices and the edges between them. Relative node and edge order is kept.
func FilterToComponent(g *Graph, nodes []uint32) (*Graph, error) {
	keep := make([]bool, g.NumNodes)
	table := make([]Node, 0, len(nodes))
	for _, u := range nodes {
		keep[u] = true
	}
	for u := uint32(0); u < g.NumNodes; u++ {
		if keep[u] {
			table = append(table, g.Node(u))
		}
	}

	var edges []Edge
	for u := uint32(0); u < g.NumNodes; u++ {
		if !keep[u] {
			continue
		}
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			if !keep[v] {
				continue
			}
			edges = append(edges, Edge{Source: g.NodeID[u], Target: g.NodeID[v], Weight: g.Weight[e]})
		}
	}

	return Build(table, edges)
}
