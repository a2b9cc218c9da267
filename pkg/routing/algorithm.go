package routing

import (
	"fmt"
	"strings"
)

// Algorithm selects the shortest-path implementation.
type Algorithm int

const (
	// Dijkstra is single-source search for non-negative weights. It is the default.
	Dijkstra Algorithm = iota
	// BellmanFord is single-source search that tolerates negative weights
	// and reports negative cycles.
	BellmanFord
	// FloydWarshall computes the full all-pairs distance matrix and extracts
	// the requested pair. O(V³) time and O(V²) memory per query.
	FloydWarshall
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{Dijkstra, BellmanFord, FloydWarshall}

func (a Algorithm) String() string {
	switch a {
	case Dijkstra:
		return "dijkstra"
	case BellmanFord:
		return "bellman-ford"
	case FloydWarshall:
		return "floyd-warshall"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a label to an Algorithm. Matching ignores case, and
// spaces and underscores are treated as dashes. The empty label is Dijkstra.
func ParseAlgorithm(s string) (Algorithm, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	label = strings.NewReplacer("_", "-", " ", "-").Replace(label)

	switch label {
	case "", "dijkstra", "single-source-nonnegative":
		return Dijkstra, nil
	case "bellman-ford", "bellmanford", "single-source-general":
		return BellmanFord, nil
	case "floyd-warshall", "floydwarshall", "all-pairs":
		return FloydWarshall, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if a < Dijkstra || a > FloydWarshall {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
