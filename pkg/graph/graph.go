package graph

// NodeID is the external identifier of an intersection, as found in the source tables.
type NodeID int64

// Node is one row of the node table.
type Node struct {
	ID  NodeID
	Lat float64
	Lon float64
}

// Edge is one row of the edge table: a directed road segment weighted in meters.
type Edge struct {
	Source NodeID
	Target NodeID
	Weight float64
}

// Graph represents an immutable directed graph in CSR (Compressed Sparse Row) format.
// Node indices are dense uint32 values assigned in node-table order.
type Graph struct {
	NumNodes uint32
	NumEdges uint32
	FirstOut []uint32  // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] are edges from node i
	Head     []uint32  // len: NumEdges; target node for each edge
	Weight   []float64 // len: NumEdges; length in meters
	NodeID   []NodeID  // len: NumNodes
	NodeLat  []float64 // len: NumNodes
	NodeLon  []float64 // len: NumNodes

	// HasNegativeWeights is set when any edge weight is below zero.
	HasNegativeWeights bool

	index map[NodeID]uint32
}

// EdgesFrom returns the range of edge indices for edges originating from node u.
func (g *Graph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// Index returns the dense index of the node with the given external ID.
func (g *Graph) Index(id NodeID) (uint32, bool) {
	idx, ok := g.index[id]
	return idx, ok
}

// Has reports whether the graph contains a node with the given ID.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns the node stored at index u.
func (g *Graph) Node(u uint32) Node {
	return Node{ID: g.NodeID[u], Lat: g.NodeLat[u], Lon: g.NodeLon[u]}
}

// Nodes returns the node table in index order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, g.NumNodes)
	for u := uint32(0); u < g.NumNodes; u++ {
		nodes[u] = g.Node(u)
	}
	return nodes
}

// Edges returns the edge table in CSR order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.NumEdges)
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			edges = append(edges, Edge{
				Source: g.NodeID[u],
				Target: g.NodeID[g.Head[e]],
				Weight: g.Weight[e],
			})
		}
	}
	return edges
}
