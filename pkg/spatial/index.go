// Package spatial provides nearest-node lookup over geographic coordinates.
//
// Nodes are stored in an R-tree keyed by (lon, lat). Searches walk the tree
// best-first, ranking subtrees by the exact minimum great-circle distance
// from the query point to their bounding rectangle and ranking nodes by
// haversine distance. Because the subtree bound never exceeds the distance
// of anything inside it, the first k nodes produced are the true k nearest
// on the sphere, including near the poles and across the antimeridian.
package spatial

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"path_finder/pkg/geo"
	"path_finder/pkg/graph"
)

var (
	// ErrEmptyIndex is returned when an index is built from, or queried with, no nodes.
	ErrEmptyIndex = errors.New("spatial index has no nodes")

	// ErrInvalidPoint is returned for query coordinates that are not finite.
	ErrInvalidPoint = errors.New("query point is not a finite coordinate")
)

// boundSlack absorbs rounding differences between the rectangle bound and
// haversine so the bound stays a lower bound.
const boundSlack = 1e-6

// Neighbor is one result of a nearest-neighbor query.
type Neighbor struct {
	Index          uint32 // position in the node table the index was built from
	ID             graph.NodeID
	Lat            float64
	Lon            float64
	DistanceMeters float64
}

// Index is an immutable spatial index over a node table. It is safe for
// concurrent queries.
type Index struct {
	tree rtree.RTreeG[uint32]
	ids  []graph.NodeID
	lat  []float64
	lon  []float64
}

// Build indexes nodes. Entry i of the index refers to nodes[i].
func Build(nodes []graph.Node) (*Index, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyIndex
	}

	idx := &Index{
		ids: make([]graph.NodeID, len(nodes)),
		lat: make([]float64, len(nodes)),
		lon: make([]float64, len(nodes)),
	}
	for i, n := range nodes {
		if !finite(n.Lat, n.Lon) {
			return nil, ErrInvalidPoint
		}
		idx.ids[i] = n.ID
		idx.lat[i] = n.Lat
		idx.lon[i] = n.Lon
		p := [2]float64{n.Lon, n.Lat}
		idx.tree.Insert(p, p, uint32(i))
	}

	return idx, nil
}

// FromGraph indexes the node table of g, so Neighbor.Index is a graph node index.
func FromGraph(g *graph.Graph) (*Index, error) {
	return Build(g.Nodes())
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// QueryNearest returns the min(k, Len()) nodes closest to (lat, lon) by
// great-circle distance, nearest first. k below 1 is treated as 1.
func (idx *Index) QueryNearest(lat, lon float64, k int) ([]Neighbor, error) {
	if idx == nil || len(idx.ids) == 0 {
		return nil, ErrEmptyIndex
	}
	if !finite(lat, lon) {
		return nil, ErrInvalidPoint
	}
	if k < 1 {
		k = 1
	}
	k = min(k, len(idx.ids))

	result := make([]Neighbor, 0, k)

	idx.tree.Nearby(
		func(bmin, bmax [2]float64, i uint32, item bool) float64 {
			if item {
				return geo.Haversine(lat, lon, idx.lat[i], idx.lon[i])
			}
			d := geo.DistanceToRect(lat, lon, bmin[1], bmin[0], bmax[1], bmax[0]) - boundSlack
			return math.Max(d, 0)
		},
		func(_, _ [2]float64, i uint32, dist float64) bool {
			result = append(result, Neighbor{
				Index:          i,
				ID:             idx.ids[i],
				Lat:            idx.lat[i],
				Lon:            idx.lon[i],
				DistanceMeters: dist,
			})
			return len(result) < k
		},
	)

	return result, nil
}

func finite(lat, lon float64) bool {
	return !math.IsNaN(lat) && !math.IsNaN(lon) && !math.IsInf(lat, 0) && !math.IsInf(lon, 0)
}
