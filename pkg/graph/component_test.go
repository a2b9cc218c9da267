package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	// Initially all separate.
	for i := range uint32(5) {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	uf.Union(0, 1)
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should be in same set")
	}

	uf.Union(2, 3)
	if uf.Find(2) != uf.Find(3) {
		t.Error("2 and 3 should be in same set")
	}

	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in different sets")
	}

	// Union the two groups.
	if !uf.Union(1, 3) {
		t.Error("Union(1, 3) should merge two sets")
	}
	if uf.Find(0) != uf.Find(3) {
		t.Error("0 and 3 should now be in same set")
	}
	if uf.Union(0, 2) {
		t.Error("Union(0, 2) should report already merged")
	}
}

// twoComponentGraph has a triangle 10 -> 20 -> 30 -> 10 and a pair 40 -> 50.
func twoComponentGraph(t *testing.T) *Graph {
	t.Helper()
	nodes := []Node{
		{ID: 10, Lat: 1.0, Lon: 103.0},
		{ID: 20, Lat: 1.1, Lon: 103.1},
		{ID: 40, Lat: 2.0, Lon: 104.0},
		{ID: 30, Lat: 1.2, Lon: 103.2},
		{ID: 50, Lat: 2.1, Lon: 104.1},
	}
	edges := []Edge{
		{Source: 10, Target: 20, Weight: 100},
		{Source: 20, Target: 30, Weight: 200},
		{Source: 30, Target: 10, Weight: 300},
		{Source: 40, Target: 50, Weight: 400},
	}
	g, err := Build(nodes, edges)
	require.NoError(t, err)
	return g
}

func TestLargestComponent(t *testing.T) {
	g := twoComponentGraph(t)

	nodes := LargestComponent(g)
	require.Len(t, nodes, 3)

	var ids []NodeID
	for _, u := range nodes {
		ids = append(ids, g.NodeID[u])
	}
	assert.Equal(t, []NodeID{10, 20, 30}, ids)
	assert.Equal(t, 2, CountComponents(g))
}

func TestFilterToComponent(t *testing.T) {
	g := twoComponentGraph(t)

	filtered, err := FilterToComponent(g, LargestComponent(g))
	require.NoError(t, err)

	if filtered.NumNodes != 3 {
		t.Fatalf("filtered NumNodes = %d, want 3", filtered.NumNodes)
	}
	if filtered.NumEdges != 3 {
		t.Fatalf("filtered NumEdges = %d, want 3", filtered.NumEdges)
	}
	if filtered.FirstOut[filtered.NumNodes] != filtered.NumEdges {
		t.Error("FirstOut[NumNodes] != NumEdges")
	}
	for i, h := range filtered.Head {
		if h >= filtered.NumNodes {
			t.Errorf("Head[%d] = %d >= NumNodes %d", i, h, filtered.NumNodes)
		}
	}

	// Total weight should only include the triangle (100+200+300=600).
	var total float64
	for _, w := range filtered.Weight {
		total += w
	}
	assert.Equal(t, 600.0, total)
	assert.False(t, filtered.Has(40))
	assert.False(t, filtered.Has(50))
}

func TestFilterToComponentEmptyGraph(t *testing.T) {
	g := &Graph{}
	nodes := LargestComponent(g)
	if nodes != nil {
		t.Errorf("expected nil for empty graph, got %v", nodes)
	}

	filtered, err := FilterToComponent(g, nil)
	require.NoError(t, err)
	if filtered.NumNodes != 0 || filtered.NumEdges != 0 {
		t.Errorf("expected empty graph, got %d nodes, %d edges", filtered.NumNodes, filtered.NumEdges)
	}
}
