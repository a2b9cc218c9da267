package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"path_finder/pkg/graph"
)

const legacyNodes = `,y,x,street_count,highway
101,1.3521,103.8198,3,
102,1.3530,103.8200,2,traffic_signals
103,1.3540,103.8210,4,
`

const legacyEdges = `source,target,key,osmid,length,name
101,102,0,555,120.5,Orchard Road
102,103,0,556,99.25,
103,101,0,557,210,
`

func TestReadNodesCSVLegacyFormat(t *testing.T) {
	nodes, err := ReadNodesCSV(strings.NewReader(legacyNodes))
	require.NoError(t, err)
	assert.Equal(t, []graph.Node{
		{ID: 101, Lat: 1.3521, Lon: 103.8198},
		{ID: 102, Lat: 1.3530, Lon: 103.8200},
		{ID: 103, Lat: 1.3540, Lon: 103.8210},
	}, nodes)
}

func TestReadNodesCSVIDColumn(t *testing.T) {
	in := "x,y,osmid\n103.8,1.3,7\n103.9,1.4,8.0\n"
	nodes, err := ReadNodesCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []graph.Node{
		{ID: 7, Lat: 1.3, Lon: 103.8},
		{ID: 8, Lat: 1.4, Lon: 103.9},
	}, nodes)
}

func TestReadEdgesCSVLegacyFormat(t *testing.T) {
	edges, err := ReadEdgesCSV(strings.NewReader(legacyEdges))
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{
		{Source: 101, Target: 102, Weight: 120.5},
		{Source: 102, Target: 103, Weight: 99.25},
		{Source: 103, Target: 101, Weight: 210},
	}, edges)
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		read  func(string) error
		input string
	}{
		{"nodes missing y", readNodes, "id,x\n1,2\n"},
		{"nodes bad lat", readNodes, "id,y,x\n1,north,2\n"},
		{"nodes bad id", readNodes, "id,y,x\n1.5,1,2\n"},
		{"nodes empty", readNodes, ""},
		{"edges missing length", readEdges, "source,target\n1,2\n"},
		{"edges bad target", readEdges, "source,target,length\n1,x,2\n"},
		{"edges bad length", readEdges, "source,target,length\n1,2,far\n"},
		{"edges ragged row", readEdges, "source,target,length\n1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.read(tt.input), ErrMalformedCSV)
		})
	}
}

func readNodes(s string) error {
	_, err := ReadNodesCSV(strings.NewReader(s))
	return err
}

func readEdges(s string) error {
	_, err := ReadEdgesCSV(strings.NewReader(s))
	return err
}

func TestCSVRoundTrip(t *testing.T) {
	nodes := []graph.Node{
		{ID: -4, Lat: -33.8688, Lon: 151.2093},
		{ID: 9007199254740993, Lat: 89.9999, Lon: -179.9999},
	}
	edges := []graph.Edge{
		{Source: -4, Target: 9007199254740993, Weight: 0.1 + 0.2},
		{Source: 9007199254740993, Target: -4, Weight: -3.5},
	}

	var nb, eb bytes.Buffer
	require.NoError(t, WriteNodesCSV(&nb, nodes))
	require.NoError(t, WriteEdgesCSV(&eb, edges))

	gotNodes, err := ReadNodesCSV(&nb)
	require.NoError(t, err)
	gotEdges, err := ReadEdgesCSV(&eb)
	require.NoError(t, err)

	assert.Equal(t, nodes, gotNodes)
	assert.Equal(t, edges, gotEdges)
}

func TestReadCSVFiles(t *testing.T) {
	dir := t.TempDir()
	nodesPath := filepath.Join(dir, "primary_node_list.csv")
	edgesPath := filepath.Join(dir, "primary_edge_list.csv")
	require.NoError(t, os.WriteFile(nodesPath, []byte(legacyNodes), 0o644))
	require.NoError(t, os.WriteFile(edgesPath, []byte(legacyEdges), 0o644))

	tables, err := ReadCSVFiles(nodesPath, edgesPath)
	require.NoError(t, err)
	assert.Len(t, tables.Nodes, 3)
	assert.Len(t, tables.Edges, 3)

	_, err = ReadCSVFiles(filepath.Join(dir, "missing.csv"), edgesPath)
	assert.Error(t, err)
}
