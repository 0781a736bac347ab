// Package httpapi exposes the block visibility filter hook, the settings page
// and the options-save endpoint over HTTP.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/haukened/block-visibility/internal/blocks/common/log"
	"github.com/haukened/block-visibility/internal/blocks/domain"
	"github.com/haukened/block-visibility/internal/blocks/repos/settings"
	"github.com/haukened/block-visibility/internal/blocks/services/visibility"
)

const (
	// SettingsPath is the admin settings page.
	SettingsPath = "/settings/blocks"
	// OptionsPath receives settings form posts.
	OptionsPath = "/options"

	maxBodyBytes = 1 << 20
)

// VisibilityService is what the HTTP layer needs from the visibility service.
type VisibilityService interface {
	AllowedBlockTypes(requested domain.Requested, editorContext any) []domain.BlockIdentifier
	Exclusions() domain.ExclusionSet
	SaveExclusions(candidate any) (domain.ExclusionSet, error)
	Checklist() []visibility.ChecklistItem
	RegisteredCount() int
}

// Options configures the router.
type Options struct {
	Service    VisibilityService
	OptionName string                     // form field base name, e.g. "block_visibility_options"
	BaseURL    string                     // external root used in settings links
	StoreStats func() settings.StoreStats // optional, reported by /healthz
	Logger     log.Logger
}

// Response models

// AllowedBlockTypesRequest is the filter hook payload. AllowedBlockTypes
// follows the host convention: a list, or true/false/null for allow-all.
type AllowedBlockTypesRequest struct {
	AllowedBlockTypes  domain.Requested `json:"allowed_block_types"`
	BlockEditorContext json.RawMessage  `json:"block_editor_context,omitempty"`
}

// AllowedBlockTypesResponse is the filter hook result.
type AllowedBlockTypesResponse struct {
	AllowedBlockTypes []string `json:"allowed_block_types"`
}

// ActionLinksPayload is used for both the request and response of the
// plugin action links hook.
type ActionLinksPayload struct {
	Links []string `json:"links"`
}

// ExclusionsResponse reports the effective exclusion list.
type ExclusionsResponse struct {
	Option     string   `json:"option"`
	Exclusions []string `json:"exclusions"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status      string `json:"status"`
	Registered  int    `json:"registered"`
	Revision    uint64 `json:"revision"`
	UpdatedUnix int64  `json:"updated_unix"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes holds handler dependencies.
type Routes struct {
	service    VisibilityService
	option     string
	baseURL    string
	storeStats func() settings.StoreStats
	logger     log.Logger
}

// NewRoutes creates a Routes instance.
func NewRoutes(opts Options) (*Routes, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("httpapi requires a visibility service")
	}
	if opts.OptionName == "" {
		return nil, fmt.Errorf("httpapi requires an option name")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Routes{
		service:    opts.Service,
		option:     opts.OptionName,
		baseURL:    opts.BaseURL,
		storeStats: opts.StoreStats,
		logger:     logger,
	}, nil
}

// Router builds the chi router.
func Router(opts Options) (http.Handler, error) {
	routes, err := NewRoutes(opts)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(routes.requestLogger)

	r.Get("/healthz", routes.health)

	r.Route("/hooks", func(r chi.Router) {
		r.Post("/allowed-block-types", routes.allowedBlockTypes)
		r.Post("/plugin-action-links", routes.pluginActionLinks)
	})

	r.Get(SettingsPath, routes.settingsPage)
	r.Post(OptionsPath, routes.saveOptions)

	r.Route("/api/v1/settings", func(r chi.Router) {
		r.Get("/exclusions", routes.getExclusions)
		r.Put("/exclusions", routes.putExclusions)
	})

	return r, nil
}

// SettingsURL returns the absolute settings page URL.
func (rr *Routes) SettingsURL() string {
	return rr.baseURL + SettingsPath
}

func (rr *Routes) health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok", Registered: rr.service.RegisteredCount()}
	if rr.storeStats != nil {
		st := rr.storeStats()
		resp.Revision = st.Revision
		resp.UpdatedUnix = st.UpdatedUnix
	}
	rr.writeJSONResponse(w, http.StatusOK, resp)
}

// allowedBlockTypes handles POST /hooks/allowed-block-types.
func (rr *Routes) allowedBlockTypes(w http.ResponseWriter, r *http.Request) {
	var req AllowedBlockTypesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		rr.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	allowed := rr.service.AllowedBlockTypes(req.AllowedBlockTypes, req.BlockEditorContext)
	rr.writeJSONResponse(w, http.StatusOK, AllowedBlockTypesResponse{AllowedBlockTypes: domain.Strings(allowed)})
}

// pluginActionLinks handles POST /hooks/plugin-action-links.
func (rr *Routes) pluginActionLinks(w http.ResponseWriter, r *http.Request) {
	var req ActionLinksPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		rr.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	rr.writeJSONResponse(w, http.StatusOK, ActionLinksPayload{Links: PrependSettingsLink(req.Links, rr.SettingsURL())})
}

// saveOptions handles the settings form post. The checked boxes arrive as
// "<option>[]" values. A lone "<option>" scalar, or no field at all, is not
// a list and saves as the empty list.
func (rr *Routes) saveOptions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		rr.writeErrorResponse(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	var candidate any
	if values, ok := r.PostForm[rr.option+"[]"]; ok {
		candidate = values
	} else if _, ok := r.PostForm[rr.option]; ok {
		candidate = r.PostForm.Get(rr.option)
	}

	if _, err := rr.service.SaveExclusions(candidate); err != nil {
		rr.writeErrorResponse(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	q := url.Values{}
	q.Set("settings-updated", "true")
	http.Redirect(w, r, SettingsPath+"?"+q.Encode(), http.StatusSeeOther)
}

func (rr *Routes) getExclusions(w http.ResponseWriter, _ *http.Request) {
	rr.writeJSONResponse(w, http.StatusOK, ExclusionsResponse{
		Option:     rr.option,
		Exclusions: domain.Strings(rr.service.Exclusions()),
	})
}

// putExclusions accepts any JSON value; non-lists save as the empty list.
func (rr *Routes) putExclusions(w http.ResponseWriter, r *http.Request) {
	var candidate any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&candidate); err != nil {
		rr.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := rr.service.SaveExclusions(candidate); err != nil {
		rr.writeErrorResponse(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}
	rr.getExclusions(w, r)
}

func (rr *Routes) writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rr.logger.Error(map[string]any{"error": err.Error()}, "Failed to encode JSON response")
	}
}

// writeErrorResponse writes a standardized error response
func (rr *Routes) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	rr.writeJSONResponse(w, statusCode, ErrorResponse{Error: message})
}

// requestLogger logs each request at debug level once it completes.
func (rr *Routes) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		rr.logger.Debug(map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"request_id": middleware.GetReqID(r.Context()),
		}, "HTTP request")
	})
}
