package api

import (
	"net/http"
	"time"
)

// RouteRequest is the JSON body for POST /api/v1/route.
type RouteRequest struct {
	Start     *LatLngJSON `json:"start" validate:"required"`
	End       *LatLngJSON `json:"end" validate:"required"`
	Algorithm string      `json:"algorithm,omitempty" validate:"omitempty,algorithm"`
}

// Bind implements render.Binder. Field checks run through the validator.
func (r *RouteRequest) Bind(*http.Request) error { return nil }

// LatLngJSON represents a lat/lng pair in JSON. Pointers distinguish a
// missing coordinate from 0.
type LatLngJSON struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

// NearestQuery holds the query parameters of GET /api/v1/nearest.
type NearestQuery struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
	K   int     `json:"k" validate:"min=1,max=100"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	TotalDistanceMeters     float64      `json:"total_distance_meters"`
	PathDistanceMeters      float64      `json:"path_distance_meters"`
	SnapDistanceStartMeters float64      `json:"snap_distance_start_meters"`
	SnapDistanceEndMeters   float64      `json:"snap_distance_end_meters"`
	Algorithm               string       `json:"algorithm"`
	NodePath                []int64      `json:"node_path"`
	Coordinates             [][2]float64 `json:"coordinates"` // [lat, lng]
	Polyline                string       `json:"polyline"`    // encoded polyline, precision 5
}

// NearestNode is one entry of a nearest response.
type NearestNode struct {
	NodeID         int64   `json:"node_id"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	DistanceMeters float64 `json:"distance_meters"`
}

// NearestResponse is the JSON response for GET /api/v1/nearest.
type NearestResponse struct {
	Nodes []NearestNode `json:"nodes"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumNodes           int       `json:"num_nodes"`
	NumEdges           int       `json:"num_edges"`
	HasNegativeWeights bool      `json:"has_negative_weights"`
	LoadedAt           time.Time `json:"loaded_at"`
	DefaultAlgorithm   string    `json:"default_algorithm"`
	Algorithms         []string  `json:"algorithms"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
