package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"

	"path_finder/pkg/routing"
)

const (
	maxBodyBytes   = 1024
	defaultNearest = 1
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router     routing.Router
	defaultAlg routing.Algorithm
	metrics    *Metrics
	logger     *zap.Logger

	validate *validator.Validate
	trans    ut.Translator
}

// NewHandlers creates handlers over router. Requests without an algorithm
// use defaultAlg.
func NewHandlers(router routing.Router, defaultAlg routing.Algorithm, metrics *Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	v, trans := newValidator()
	return &Handlers{
		router:     router,
		defaultAlg: defaultAlg,
		metrics:    metrics,
		logger:     logger,
		validate:   v,
		trans:      trans,
	}
}

// HandleRoute handles POST /api/v1/route. With ?format=geojson the route is
// returned as a GeoJSON FeatureCollection.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		render.Render(w, r, ErrInvalidRequest(errors.New("content type must be application/json")))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	req := &RouteRequest{}
	if err := render.Bind(r, req); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Render(w, r, ErrValidation(err, h.trans))
		return
	}

	alg := h.defaultAlg
	if req.Algorithm != "" {
		alg, _ = routing.ParseAlgorithm(req.Algorithm) // checked by the validator
	}

	start := routing.LatLng{Lat: *req.Start.Lat, Lng: *req.Start.Lng}
	end := routing.LatLng{Lat: *req.End.Lat, Lng: *req.End.Lng}

	result, err := h.router.Route(r.Context(), start, end, alg)
	if err != nil {
		h.observe(alg, "error", 0)
		rend := ErrRoute(err)
		if e := rend.(*ErrResponse); e.HTTPStatusCode == http.StatusInternalServerError {
			h.logger.Error("route failed", zap.Error(err))
		}
		render.Render(w, r, rend)
		return
	}
	h.observe(alg, "ok", result.TotalDistanceMeters)

	if r.URL.Query().Get("format") == "geojson" {
		render.JSON(w, r, routeFeatureCollection(result))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, newRouteResponse(result))
}

// HandleNearest handles GET /api/v1/nearest?lat=&lng=&k=.
func (h *Handlers) HandleNearest(w http.ResponseWriter, r *http.Request) {
	q := NearestQuery{K: defaultNearest}
	var err error
	params := r.URL.Query()
	if q.Lat, err = parseFloatParam(params.Get("lat"), "lat"); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if q.Lng, err = parseFloatParam(params.Get("lng"), "lng"); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if k := params.Get("k"); k != "" {
		if q.K, err = strconv.Atoi(k); err != nil {
			render.Render(w, r, ErrInvalidRequest(fmt.Errorf("k: %w", err)))
			return
		}
	}
	if err := h.validate.Struct(q); err != nil {
		render.Render(w, r, ErrValidation(err, h.trans))
		return
	}

	snaps, err := h.router.Nearest(r.Context(), routing.LatLng{Lat: q.Lat, Lng: q.Lng}, q.K)
	if err != nil {
		render.Render(w, r, ErrRoute(err))
		return
	}

	resp := NearestResponse{Nodes: make([]NearestNode, len(snaps))}
	for i, s := range snaps {
		resp.Nodes[i] = NearestNode{NodeID: int64(s.NodeID), Lat: s.Lat, Lng: s.Lon, DistanceMeters: s.DistanceMeters}
	}
	render.JSON(w, r, resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := h.router.Stats(); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, HealthResponse{Status: "unavailable"})
		return
	}
	render.JSON(w, r, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.router.Stats()
	if err != nil {
		render.Render(w, r, ErrRoute(err))
		return
	}

	names := make([]string, len(routing.Algorithms))
	for i, a := range routing.Algorithms {
		names[i] = a.String()
	}
	render.JSON(w, r, StatsResponse{
		NumNodes:           stats.Nodes,
		NumEdges:           stats.Edges,
		HasNegativeWeights: stats.HasNegativeWeights,
		LoadedAt:           stats.LoadedAt,
		DefaultAlgorithm:   h.defaultAlg.String(),
		Algorithms:         names,
	})
}

func (h *Handlers) observe(alg routing.Algorithm, outcome string, distance float64) {
	if h.metrics != nil {
		h.metrics.observeRoute(alg.String(), outcome, distance)
	}
}

func parseFloatParam(v, name string) (float64, error) {
	if v == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

func newRouteResponse(res *routing.RouteResult) RouteResponse {
	resp := RouteResponse{
		TotalDistanceMeters:     res.TotalDistanceMeters,
		PathDistanceMeters:      res.PathWeightMeters,
		SnapDistanceStartMeters: res.SnapStart.DistanceMeters,
		SnapDistanceEndMeters:   res.SnapEnd.DistanceMeters,
		Algorithm:               res.Algorithm.String(),
		NodePath:                make([]int64, len(res.NodePath)),
		Coordinates:             make([][2]float64, len(res.Geometry)),
	}
	for i, id := range res.NodePath {
		resp.NodePath[i] = int64(id)
	}
	coords := make([][]float64, len(res.Geometry))
	for i, ll := range res.Geometry {
		resp.Coordinates[i] = [2]float64{ll.Lat, ll.Lng}
		coords[i] = []float64{ll.Lat, ll.Lng}
	}
	resp.Polyline = string(polyline.EncodeCoords(coords))
	return resp
}

// routeFeatureCollection renders the route line and both snapped nodes.
func routeFeatureCollection(res *routing.RouteResult) *geojson.FeatureCollection {
	line := make(orb.LineString, len(res.Geometry))
	for i, ll := range res.Geometry {
		line[i] = orb.Point{ll.Lng, ll.Lat}
	}

	fc := geojson.NewFeatureCollection()

	route := geojson.NewFeature(line)
	route.Properties["kind"] = "route"
	route.Properties["algorithm"] = res.Algorithm.String()
	route.Properties["total_distance_meters"] = res.TotalDistanceMeters
	route.Properties["path_distance_meters"] = res.PathWeightMeters
	route.Properties["node_path"] = res.NodePath
	fc.Append(route)

	for _, s := range []struct {
		kind string
		snap routing.SnapResult
	}{{"snap_start", res.SnapStart}, {"snap_end", res.SnapEnd}} {
		f := geojson.NewFeature(orb.Point{s.snap.Lon, s.snap.Lat})
		f.Properties["kind"] = s.kind
		f.Properties["node_id"] = int64(s.snap.NodeID)
		f.Properties["snap_distance_meters"] = s.snap.DistanceMeters
		fc.Append(f)
	}

	return fc
}
