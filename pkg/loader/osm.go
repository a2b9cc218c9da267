package loader

import (
	"context"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"

	"path_finder/pkg/geo"
	"path_finder/pkg/graph"
)

// carHighways lists highway tag values accessible by car.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// isCarAccessible returns true if the way is drivable by car.
func isCarAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}

	return true
}

// directionFlags returns (forward, backward) based on highway type and oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	forward = true
	backward = true

	hw := tags.Find("highway")

	// Implied oneway for motorways and roundabouts.
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	// Explicit oneway tag overrides.
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward = true
		backward = false
	case "-1", "reverse":
		forward = false
		backward = true
	case "no":
		forward = true
		backward = true
	case "reversible":
		// Time-dependent, skip entirely.
		forward = false
		backward = false
	}

	return forward, backward
}

// wayInfo holds the drivable way data collected in the first pass.
type wayInfo struct {
	NodeIDs  []osm.NodeID
	Forward  bool
	Backward bool
}

// OSMOptions configures ParseOSM.
type OSMOptions struct {
	// BBox keeps only edges with both endpoints inside it. The zero Bound
	// disables filtering.
	BBox   orb.Bound
	Logger *zap.Logger
}

// osmStats counts what buildTables dropped.
type osmStats struct {
	missingCoords int
	outsideBBox   int
}

// ParseBBox parses "minLat,minLng,maxLat,maxLng".
func ParseBBox(s string) (orb.Bound, error) {
	var minLat, minLng, maxLat, maxLng float64
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
		return orb.Bound{}, fmt.Errorf("invalid bbox %q (expected minLat,minLng,maxLat,maxLng): %w", s, err)
	}
	if minLat > maxLat || minLng > maxLng {
		return orb.Bound{}, fmt.Errorf("invalid bbox %q: min exceeds max", s)
	}
	return orb.Bound{Min: orb.Point{minLng, minLat}, Max: orb.Point{maxLng, maxLat}}, nil
}

// ParseOSM reads an OSM PBF extract and returns node and edge tables for car
// routing. Edge weights are great-circle lengths in meters. Nodes appear in
// order of first use by an emitted edge.
//
// The reader is consumed twice (it seeks back to the start for the node pass),
// so it must implement io.ReadSeeker.
func ParseOSM(ctx context.Context, rs io.ReadSeeker, opt OSMOptions) (*Tables, error) {
	logger := opt.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ways, referenced, err := scanWays(ctx, rs)
	if err != nil {
		return nil, err
	}
	logger.Info("osm pass 1 complete", zap.Int("ways", len(ways)), zap.Int("referenced_nodes", len(referenced)))

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	coords, err := scanNodes(ctx, rs, referenced)
	if err != nil {
		return nil, err
	}
	logger.Info("osm pass 2 complete", zap.Int("coordinates", len(coords)))

	tables, stats := buildTables(ways, coords, opt.BBox)
	if stats.missingCoords > 0 {
		logger.Warn("skipped edges with missing node coordinates", zap.Int("edges", stats.missingCoords))
	}
	if stats.outsideBBox > 0 {
		logger.Info("filtered edges outside bounding box", zap.Int("edges", stats.outsideBBox))
	}
	logger.Info("osm tables built", zap.Int("nodes", len(tables.Nodes)), zap.Int("edges", len(tables.Edges)))

	return tables, nil
}

// scanWays collects drivable ways and the node IDs they reference.
func scanWays(ctx context.Context, r io.Reader) ([]wayInfo, map[osm.NodeID]struct{}, error) {
	referenced := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, r, 1)
	defer scanner.Close()
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if !isCarAccessible(w.Tags) || len(w.Nodes) < 2 {
			continue
		}
		fwd, bwd := directionFlags(w.Tags)
		if !fwd && !bwd {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referenced[wn.ID] = struct{}{}
		}
		ways = append(ways, wayInfo{NodeIDs: nodeIDs, Forward: fwd, Backward: bwd})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	return ways, referenced, nil
}

// scanNodes collects coordinates for referenced nodes only.
func scanNodes(ctx context.Context, r io.Reader, referenced map[osm.NodeID]struct{}) (map[osm.NodeID]orb.Point, error) {
	coords := make(map[osm.NodeID]orb.Point, len(referenced))

	scanner := osmpbf.New(ctx, r, 1)
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		coords[n.ID] = n.Point()
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	return coords, nil
}

// buildTables turns ways into directed edges between consecutive way nodes.
func buildTables(ways []wayInfo, coords map[osm.NodeID]orb.Point, bbox orb.Bound) (*Tables, osmStats) {
	var (
		stats   osmStats
		tables  = &Tables{}
		seen    = make(map[osm.NodeID]struct{})
		useBBox = !bbox.IsZero()
	)
	addNode := func(id osm.NodeID, p orb.Point) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		tables.Nodes = append(tables.Nodes, graph.Node{ID: graph.NodeID(id), Lat: p.Lat(), Lon: p.Lon()})
	}

	for _, w := range ways {
		for i := 0; i < len(w.NodeIDs)-1; i++ {
			fromID, toID := w.NodeIDs[i], w.NodeIDs[i+1]

			from, fromOK := coords[fromID]
			to, toOK := coords[toID]
			if !fromOK || !toOK {
				stats.missingCoords++
				continue
			}
			if useBBox && (!bbox.Contains(from) || !bbox.Contains(to)) {
				stats.outsideBBox++
				continue
			}

			addNode(fromID, from)
			addNode(toID, to)

			dist := geo.Haversine(from.Lat(), from.Lon(), to.Lat(), to.Lon())
			if w.Forward {
				tables.Edges = append(tables.Edges, graph.Edge{Source: graph.NodeID(fromID), Target: graph.NodeID(toID), Weight: dist})
			}
			if w.Backward {
				tables.Edges = append(tables.Edges, graph.Edge{Source: graph.NodeID(toID), Target: graph.NodeID(fromID), Weight: dist})
			}
		}
	}

	return tables, stats
}
