package graph

import (
	"fmt"
	"math"

	"path_finder/pkg/geo"
)

// Build creates a CSR Graph from node and edge tables.
//
// Out-edges of every node keep the order in which they appear in edges, so
// identical tables always yield identical adjacency order. Build fails
// without returning a partial graph when a node ID repeats, a coordinate is
// invalid, or an edge references an unknown node or has a non-finite weight.
func Build(nodes []Node, edges []Edge) (*Graph, error) {
	// Step 1: Assign dense indices in node-table order.
	numNodes := uint32(len(nodes))
	index := make(map[NodeID]uint32, len(nodes))
	nodeID := make([]NodeID, numNodes)
	nodeLat := make([]float64, numNodes)
	nodeLon := make([]float64, numNodes)

	for i, n := range nodes {
		if _, dup := index[n.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateNode, n.ID)
		}
		if !geo.ValidCoordinate(n.Lat, n.Lon) {
			return nil, fmt.Errorf("%w: node %d at (%v, %v)", ErrInvalidCoordinate, n.ID, n.Lat, n.Lon)
		}
		index[n.ID] = uint32(i)
		nodeID[i] = n.ID
		nodeLat[i] = n.Lat
		nodeLon[i] = n.Lon
	}

	// Step 2: Resolve edge endpoints.
	from := make([]uint32, len(edges))
	to := make([]uint32, len(edges))
	hasNegative := false

	for i, e := range edges {
		u, ok := index[e.Source]
		if !ok {
			return nil, &InvalidEdgeError{Row: i, Edge: e, Reason: fmt.Sprintf("unknown source node %d", e.Source)}
		}
		v, ok := index[e.Target]
		if !ok {
			return nil, &InvalidEdgeError{Row: i, Edge: e, Reason: fmt.Sprintf("unknown target node %d", e.Target)}
		}
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return nil, &InvalidEdgeError{Row: i, Edge: e, Reason: "weight is not finite"}
		}
		if e.Weight < 0 {
			hasNegative = true
		}
		from[i] = u
		to[i] = v
	}

	// Step 3: Build FirstOut via counting.
	numEdges := uint32(len(edges))
	firstOut := make([]uint32, numNodes+1)
	for _, u := range from {
		firstOut[u+1]++
	}
	// Prefix sum.
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	// Step 4: Place edges; a stable counting sort keeps input order per source.
	head := make([]uint32, numEdges)
	weight := make([]float64, numEdges)
	pos := make([]uint32, numNodes)
	copy(pos, firstOut[:numNodes])
	for i, u := range from {
		slot := pos[u]
		head[slot] = to[i]
		weight[slot] = edges[i].Weight
		pos[u]++
	}

	return &Graph{
		NumNodes:           numNodes,
		NumEdges:           numEdges,
		FirstOut:           firstOut,
		Head:               head,
		Weight:             weight,
		NodeID:             nodeID,
		NodeLat:            nodeLat,
		NodeLon:            nodeLon,
		HasNegativeWeights: hasNegative,
		index:              index,
	}, nil
}
