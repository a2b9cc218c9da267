package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"path_finder/pkg/routing"
	"path_finder/pkg/spatial"
)

// ErrResponse is the JSON body of every error response.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	Code          string   `json:"error"`             // machine-readable error code
	ErrorText     string   `json:"message,omitempty"` // application-level error message
	Field         string   `json:"field,omitempty"`
	ErrValidation []string `json:"validation,omitempty"`
}

// Render implements render.Renderer.
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// ErrInvalidRequest is a 400 for bodies and parameters that cannot be decoded.
func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Code:           "invalid_request",
		ErrorText:      err.Error(),
	}
}

// ErrValidation is a 400 carrying one translated message per failed field.
func ErrValidation(err error, trans ut.Translator) render.Renderer {
	resp := &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Code:           "invalid_coordinates",
		ErrorText:      "request failed validation",
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		resp.ErrorText = err.Error()
		return resp
	}
	for _, fe := range verrs {
		if fe.Tag() == "algorithm" {
			resp.Code = "invalid_algorithm"
		}
		if resp.Field == "" {
			resp.Field = fe.Namespace()
		}
		resp.ErrValidation = append(resp.ErrValidation, fe.Translate(trans))
	}
	return resp
}

// ErrRoute maps routing and spatial errors to HTTP responses.
func ErrRoute(err error) render.Renderer {
	status, code := http.StatusInternalServerError, "internal_error"

	switch {
	case errors.Is(err, routing.ErrNoPath):
		status, code = http.StatusNotFound, "no_path_found"
	case errors.Is(err, routing.ErrPointTooFar):
		status, code = http.StatusUnprocessableEntity, "point_too_far_from_road"
	case errors.Is(err, routing.ErrNegativeCycle):
		status, code = http.StatusUnprocessableEntity, "negative_cycle"
	case errors.Is(err, routing.ErrNegativeWeight):
		status, code = http.StatusUnprocessableEntity, "negative_weights"
	case errors.Is(err, routing.ErrGraphTooLarge):
		status, code = http.StatusUnprocessableEntity, "graph_too_large"
	case errors.Is(err, routing.ErrUnknownNode):
		status, code = http.StatusUnprocessableEntity, "unknown_node"
	case errors.Is(err, routing.ErrNoDataset), errors.Is(err, spatial.ErrEmptyIndex):
		status, code = http.StatusServiceUnavailable, "no_data"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusServiceUnavailable, "request_timeout"
	}

	resp := &ErrResponse{Err: err, HTTPStatusCode: status, Code: code}
	if status != http.StatusInternalServerError {
		resp.ErrorText = err.Error()
	}
	return resp
}
