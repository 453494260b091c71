// Package api binds the RPC procedures to HTTP. It is a thin transport
// layer: all semantics live in the rpc package.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/content-registry/pkg/contentregistry"
	"github.com/tendant/content-registry/pkg/contentregistry/rpc"
	"github.com/tendant/content-registry/pkg/contentregistry/schema"
)

// Handler handles HTTP requests for the content registry RPC layer
type Handler struct {
	registry   *contentregistry.Registry
	procedures *rpc.Procedures
}

// NewHandler creates a new RPC handler
func NewHandler(registry *contentregistry.Registry, procedures *rpc.Procedures) *Handler {
	return &Handler{
		registry:   registry,
		procedures: procedures,
	}
}

// Routes returns the routes for the RPC layer
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/rpc/{procedure}", h.CallProcedure)
	r.Get("/content-types", h.ListContentTypes)
	r.Get("/procedures", h.ListProcedures)

	return r
}

// ErrorResponse is the error body returned for failed calls
type ErrorResponse struct {
	Error string `json:"error"`
}

// CallProcedure dispatches one RPC call. The request body is the procedure
// input as a JSON object; the response body is the procedure output.
func (h *Handler) CallProcedure(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "procedure")

	proc, ok := h.procedures.Lookup(name)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "unknown procedure: " + name})
		return
	}

	input, err := decodeInput(r.Body)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "malformed request body: " + err.Error()})
		return
	}

	rctx := rpc.RequestContext{Registry: h.registry}
	out, err := proc.Call(r.Context(), rctx, input)
	if err != nil {
		render.Status(r, statusFor(err))
		render.JSON(w, r, ErrorResponse{Error: err.Error()})
		return
	}

	render.JSON(w, r, out)
}

// ListContentTypes returns the registered content-type ids.
func (h *Handler) ListContentTypes(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"contentTypes": h.registry.List()})
}

// ListProcedures returns the available procedure names.
func (h *Handler) ListProcedures(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"procedures": h.procedures.Names()})
}

// decodeInput reads the request body as a JSON object. An empty body maps to
// an empty input so schema validation reports the missing fields.
func decodeInput(body io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	var input map[string]any
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, err
	}
	return input, nil
}

func statusFor(err error) int {
	var fieldErr *schema.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest
	case errors.Is(err, contentregistry.ErrInvalidVersion):
		return http.StatusBadRequest
	case errors.Is(err, contentregistry.ErrNotRegistered):
		return http.StatusNotFound
	case errors.Is(err, contentregistry.ErrItemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
