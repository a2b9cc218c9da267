package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"path_finder/pkg/geo"
	"path_finder/pkg/graph"
	"path_finder/pkg/spatial"
)

func newTestSnapper(t *testing.T, g *graph.Graph) *Snapper {
	t.Helper()
	idx, err := spatial.FromGraph(g)
	require.NoError(t, err)
	return NewSnapper(idx)
}

func TestSnapNearestNode(t *testing.T) {
	s := newTestSnapper(t, buildLineGraph(t))

	res, err := s.Snap(LatLng{Lat: 0.001, Lng: 0.9})
	require.NoError(t, err)
	assert.Equal(t, graph.NodeID(2), res.NodeID)
	assert.Equal(t, uint32(1), res.Index)
	assert.Equal(t, 0.0, res.Lat)
	assert.Equal(t, 1.0, res.Lon)
	assert.InDelta(t, geo.Haversine(0.001, 0.9, 0, 1), res.DistanceMeters, 1e-6)
}

func TestSnapExactNode(t *testing.T) {
	s := newTestSnapper(t, buildLineGraph(t))

	res, err := s.Snap(LatLng{Lat: 0, Lng: 2})
	require.NoError(t, err)
	assert.Equal(t, graph.NodeID(3), res.NodeID)
	assert.Equal(t, 0.0, res.DistanceMeters)
}

func TestSnapEmptyIndex(t *testing.T) {
	s := NewSnapper(nil)
	_, err := s.Snap(LatLng{Lat: 1, Lng: 1})
	assert.ErrorIs(t, err, spatial.ErrEmptyIndex)
}

func TestSnapMaxDistance(t *testing.T) {
	s := newTestSnapper(t, buildLineGraph(t))
	s.MaxDistanceMeters = 500

	_, err := s.Snap(LatLng{Lat: 0.001, Lng: 1}) // ~111 m
	require.NoError(t, err)

	_, err = s.Snap(LatLng{Lat: 0.5, Lng: 1}) // ~55 km
	assert.ErrorIs(t, err, ErrPointTooFar)
}

func TestSnapperNearest(t *testing.T) {
	s := newTestSnapper(t, buildLineGraph(t))

	got, err := s.Nearest(LatLng{Lat: 0, Lng: 0.2}, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []graph.NodeID{1, 2, 3}, []graph.NodeID{got[0].NodeID, got[1].NodeID, got[2].NodeID})
	assert.LessOrEqual(t, got[0].DistanceMeters, got[1].DistanceMeters)
	assert.LessOrEqual(t, got[1].DistanceMeters, got[2].DistanceMeters)
}
