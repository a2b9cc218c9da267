package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"path_finder/pkg/graph"
)

func TestNewDataset(t *testing.T) {
	ds, err := NewDataset(pointNodes(1, 2), []graph.Edge{{Source: 1, Target: 2, Weight: 3}})
	require.NoError(t, err)
	assert.Equal(t, uint32(2), ds.Graph.NumNodes)
	assert.Equal(t, 2, ds.Index.Len())

	_, err = NewDataset(pointNodes(1), []graph.Edge{{Source: 1, Target: 9, Weight: 3}})
	assert.ErrorIs(t, err, graph.ErrInvalidEdge)
}

func TestStoreSwap(t *testing.T) {
	first, err := DatasetFromGraph(buildLineGraph(t))
	require.NoError(t, err)
	second, err := DatasetFromGraph(buildGridGraph(t))
	require.NoError(t, err)

	store := NewStore(first)
	eng := NewEngine(store, zap.NewNop())

	stats, err := eng.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Nodes)

	prev := store.Swap(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, store.Load())

	stats, err = eng.Stats()
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Nodes)

	res, err := eng.Route(context.Background(), LatLng{Lat: 1.300, Lng: 103.800}, LatLng{Lat: 1.301, Lng: 103.802}, Dijkstra)
	require.NoError(t, err)
	assert.Equal(t, 700.0, res.PathWeightMeters)
}
