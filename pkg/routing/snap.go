package routing

import (
	"fmt"

	"path_finder/pkg/graph"
	"path_finder/pkg/spatial"
)

// LatLng represents a geographic coordinate in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// SnapResult represents a query point snapped to its nearest graph node.
type SnapResult struct {
	NodeID         graph.NodeID
	Index          uint32  // graph node index
	Lat            float64 // snapped node coordinates
	Lon            float64
	DistanceMeters float64 // great-circle distance from the query point to the node
}

// Snapper maps coordinates to graph nodes through a spatial index.
type Snapper struct {
	idx *spatial.Index

	// MaxDistanceMeters rejects snaps farther than this with ErrPointTooFar.
	// Zero disables the limit.
	MaxDistanceMeters float64
}

// NewSnapper creates a snapper over idx. idx must be built from the same
// node table as the graph it is used with.
func NewSnapper(idx *spatial.Index) *Snapper {
	return &Snapper{idx: idx}
}

// Snap returns the graph node nearest to p.
func (s *Snapper) Snap(p LatLng) (SnapResult, error) {
	neighbors, err := s.Nearest(p, 1)
	if err != nil {
		return SnapResult{}, err
	}
	return neighbors[0], nil
}

// Nearest returns up to k nodes nearest to p, closest first. Only the
// closest one is checked against MaxDistanceMeters.
func (s *Snapper) Nearest(p LatLng, k int) ([]SnapResult, error) {
	neighbors, err := s.idx.QueryNearest(p.Lat, p.Lng, k)
	if err != nil {
		return nil, err
	}

	if s.MaxDistanceMeters > 0 && neighbors[0].DistanceMeters > s.MaxDistanceMeters {
		return nil, fmt.Errorf("%w: %.1fm from (%f, %f)", ErrPointTooFar, neighbors[0].DistanceMeters, p.Lat, p.Lng)
	}

	out := make([]SnapResult, len(neighbors))
	for i, n := range neighbors {
		out[i] = SnapResult{
			NodeID:         n.ID,
			Index:          n.Index,
			Lat:            n.Lat,
			Lon:            n.Lon,
			DistanceMeters: n.DistanceMeters,
		}
	}
	return out, nil
}
