package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEdge is matched by every *InvalidEdgeError.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrDuplicateNode is returned when the node table repeats an ID.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrInvalidCoordinate is returned for non-finite or out-of-range node coordinates.
	ErrInvalidCoordinate = errors.New("invalid node coordinate")
)

// InvalidEdgeError describes the first edge row that failed validation.
type InvalidEdgeError struct {
	Row    int // position in the edge table
	Edge   Edge
	Reason string
}

func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("invalid edge at row %d (%d -> %d): %s", e.Row, e.Edge.Source, e.Edge.Target, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidEdge) match.
func (e *InvalidEdgeError) Is(target error) bool {
	return target == ErrInvalidEdge
}
