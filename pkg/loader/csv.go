package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"path_finder/pkg/graph"
)

// ErrMalformedCSV is returned for a table file that is missing required
// columns or has an unparseable field.
var ErrMalformedCSV = errors.New("malformed csv table")

// Column names of the node and edge tables. The node ID is taken from a
// column named "osmid" or "id", or from the first column when neither exists.
const (
	colLat    = "y"
	colLon    = "x"
	colSource = "source"
	colTarget = "target"
	colLength = "length"
)

// ReadCSVFiles reads a node table and an edge table from disk.
func ReadCSVFiles(nodesPath, edgesPath string) (*Tables, error) {
	nf, err := os.Open(nodesPath)
	if err != nil {
		return nil, fmt.Errorf("open node table: %w", err)
	}
	defer nf.Close()

	nodes, err := ReadNodesCSV(nf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", nodesPath, err)
	}

	ef, err := os.Open(edgesPath)
	if err != nil {
		return nil, fmt.Errorf("open edge table: %w", err)
	}
	defer ef.Close()

	edges, err := ReadEdgesCSV(ef)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", edgesPath, err)
	}

	return &Tables{Nodes: nodes, Edges: edges}, nil
}

// ReadNodesCSV parses a node table with at least an ID column and the
// columns y (latitude) and x (longitude). Row order is preserved.
func ReadNodesCSV(r io.Reader) ([]graph.Node, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedCSV, err)
	}
	cols := columnIndex(header)

	idCol := 0
	if c, ok := cols["osmid"]; ok {
		idCol = c
	} else if c, ok := cols["id"]; ok {
		idCol = c
	}
	latCol, lonCol, err := requireColumns(cols, colLat, colLon)
	if err != nil {
		return nil, err
	}

	var nodes []graph.Node
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedCSV, row, err)
		}

		id, err := parseID(rec[idCol])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: node id %q", ErrMalformedCSV, row, rec[idCol])
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[latCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: y %q", ErrMalformedCSV, row, rec[latCol])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[lonCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: x %q", ErrMalformedCSV, row, rec[lonCol])
		}
		nodes = append(nodes, graph.Node{ID: id, Lat: lat, Lon: lon})
	}
	return nodes, nil
}

// ReadEdgesCSV parses an edge table with the columns source, target and
// length (meters). Other columns are ignored. Row order is preserved.
func ReadEdgesCSV(r io.Reader) ([]graph.Edge, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedCSV, err)
	}
	cols := columnIndex(header)

	srcCol, dstCol, err := requireColumns(cols, colSource, colTarget)
	if err != nil {
		return nil, err
	}
	lenCol, ok := cols[colLength]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrMalformedCSV, colLength)
	}

	var edges []graph.Edge
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedCSV, row, err)
		}

		src, err := parseID(rec[srcCol])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: source %q", ErrMalformedCSV, row, rec[srcCol])
		}
		dst, err := parseID(rec[dstCol])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: target %q", ErrMalformedCSV, row, rec[dstCol])
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(rec[lenCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: length %q", ErrMalformedCSV, row, rec[lenCol])
		}
		edges = append(edges, graph.Edge{Source: src, Target: dst, Weight: w})
	}
	return edges, nil
}

// WriteNodesCSV writes nodes in the format read by ReadNodesCSV.
func WriteNodesCSV(w io.Writer, nodes []graph.Node) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"osmid", colLat, colLon}); err != nil {
		return err
	}
	for _, n := range nodes {
		rec := []string{
			strconv.FormatInt(int64(n.ID), 10),
			strconv.FormatFloat(n.Lat, 'f', -1, 64),
			strconv.FormatFloat(n.Lon, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEdgesCSV writes edges in the format read by ReadEdgesCSV.
func WriteEdgesCSV(w io.Writer, edges []graph.Edge) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{colSource, colTarget, colLength}); err != nil {
		return err
	}
	for _, e := range edges {
		rec := []string{
			strconv.FormatInt(int64(e.Source), 10),
			strconv.FormatInt(int64(e.Target), 10),
			strconv.FormatFloat(e.Weight, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	return cr
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func requireColumns(cols map[string]int, a, b string) (int, int, error) {
	ia, ok := cols[a]
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing column %q", ErrMalformedCSV, a)
	}
	ib, ok := cols[b]
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing column %q", ErrMalformedCSV, b)
	}
	return ia, ib, nil
}

// parseID accepts integer IDs, including ones written as integral floats ("42.0").
func parseID(s string) (graph.NodeID, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return graph.NodeID(id), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return graph.NodeID(f), nil
}
