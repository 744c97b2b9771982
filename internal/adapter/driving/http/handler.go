// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/ericfisherdev/journeydemo/internal/application"
	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// maxRequestBytes caps inbound JSON bodies.
const maxRequestBytes = 4 << 20

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	resolver *application.ConfigResolver
	gateway  *application.ProxyGateway
	history  *application.HistoryService
	prefs    *application.PreferencesService
	updates  *application.UpdateService
	events   *EventHub
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. A nil limiter
// disables rate limiting of the proxy endpoints.
func NewHandler(
	resolver *application.ConfigResolver,
	gateway *application.ProxyGateway,
	history *application.HistoryService,
	prefs *application.PreferencesService,
	updates *application.UpdateService,
	events *EventHub,
	limiter *rate.Limiter,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		resolver: resolver,
		gateway:  gateway,
		history:  history,
		prefs:    prefs,
		updates:  updates,
		events:   events,
		limiter:  limiter,
		logger:   logger,
	}
}

// RegisterAPIRoutes registers every /api route on mux. Unmatched /api paths
// get a JSON 404.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/config", h.GetConfig)
	mux.HandleFunc("GET /api/config/draft", h.GetConfigDraft)
	mux.HandleFunc("POST /api/save-config", h.SaveConfig)
	mux.HandleFunc("DELETE /api/config", h.ClearConfig)

	mux.HandleFunc("POST /api/test-alloy-config", rateLimit(h.limiter, h.TestAlloyConfig))
	mux.HandleFunc("POST /api/submit-application", rateLimit(h.limiter, h.SubmitApplication))
	mux.HandleFunc("DELETE /api/validation-cache", h.ClearValidationCache)

	mux.HandleFunc("GET /api/history", h.ListHistory)
	mux.HandleFunc("POST /api/history", h.AppendHistory)
	mux.HandleFunc("PUT /api/history", h.ReplaceHistory)
	mux.HandleFunc("DELETE /api/history", h.ClearHistory)

	mux.HandleFunc("GET /api/profiles", h.GetProfiles)
	mux.HandleFunc("PUT /api/profiles", h.SaveProfiles)
	mux.HandleFunc("GET /api/flags/tour", h.GetTourFlag)
	mux.HandleFunc("PUT /api/flags/tour", h.SetTourFlag)
	mux.HandleFunc("GET /api/business-branch", h.GetBusinessBranch)
	mux.HandleFunc("PUT /api/business-branch", h.SetBusinessBranch)
	mux.HandleFunc("DELETE /api/storage", h.ClearStorage)

	mux.Handle("GET /api/events", h.events)
	mux.HandleFunc("GET /api/update", h.CheckUpdate)
	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("/api/", h.NotFound)
}

// GetConfig returns the active credential set, or 404 when none resolves.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	set, ok := h.resolver.Resolve(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "Please set up your Alloy credentials first")
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// GetConfigDraft returns the values used to prefill the setup form.
func (h *Handler) GetConfigDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.resolver.Draft(r.Context()))
}

// SaveConfig validates and stores a credential set.
func (h *Handler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	var set model.CredentialSet
	if !decodeJSON(w, r, &set) {
		return
	}

	if err := h.resolver.Save(r.Context(), set); err != nil {
		resp := detailedErrorResponse{Error: "Failed to save configuration", Message: err.Error()}
		var missing *model.MissingFieldsError
		if errors.As(err, &missing) {
			resp.Message = "Missing required configuration values"
			resp.MissingFields = missing.Fields
		} else {
			h.logger.Error("failed to save configuration", "error", err)
		}
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// ClearConfig removes the stored credential set.
func (h *Handler) ClearConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.resolver.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear configuration", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// TestAlloyConfig validates a journey schema against the supported branches.
func (h *Handler) TestAlloyConfig(w http.ResponseWriter, r *http.Request) {
	var creds model.APICredentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	result, err := h.gateway.ValidateJourneySchema(r.Context(), creds)
	if err != nil {
		var (
			missing     *model.MissingFieldsError
			unsupported *model.UnsupportedBranchesError
			rejected    *model.SchemaRejectedError
		)
		switch {
		case errors.As(err, &missing):
			writeJSON(w, http.StatusBadRequest, detailedErrorResponse{
				Error:         "Missing required fields",
				MissingFields: missing.Fields,
			})
		case errors.As(err, &unsupported):
			writeJSON(w, http.StatusBadRequest, detailedErrorResponse{
				Error:           "Unsupported branch(es) found in journey schema",
				InvalidBranches: unsupported.Branches,
			})
		case errors.As(err, &rejected):
			writeError(w, http.StatusBadRequest, rejected.Message)
		default:
			h.writeUpstreamError(w, "journey schema check", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, result.Body())
}

// SubmitApplication forwards an application payload to the configured journey.
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var payload model.Document
	if !decodeJSON(w, r, &payload) {
		return
	}

	resp, err := h.gateway.SubmitApplication(r.Context(), payload)
	if err != nil {
		if errors.Is(err, model.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.writeUpstreamError(w, "application submission", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ClearValidationCache drops every cached schema check outcome.
func (h *Handler) ClearValidationCache(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.ClearValidationCache(r.Context()); err != nil {
		h.logger.Error("failed to clear validation cache", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// ListHistory returns submitted applications, most recent first.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list history", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// AppendHistory prepends a single record.
func (h *Handler) AppendHistory(w http.ResponseWriter, r *http.Request) {
	var record model.ApplicationHistoryRecord
	if !decodeJSON(w, r, &record) {
		return
	}
	if record.JAToken == "" {
		writeError(w, http.StatusBadRequest, "jaToken is required")
		return
	}

	saved, err := h.history.Append(r.Context(), record)
	if err != nil {
		h.logger.Error("failed to append history", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// ReplaceHistory overwrites the whole list.
func (h *Handler) ReplaceHistory(w http.ResponseWriter, r *http.Request) {
	var records []model.ApplicationHistoryRecord
	if !decodeJSON(w, r, &records) {
		return
	}

	if err := h.history.Replace(r.Context(), records); err != nil {
		h.logger.Error("failed to replace history", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// ClearHistory removes every history record.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear history", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// GetProfiles returns the saved custom profiles.
func (h *Handler) GetProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.prefs.Profiles(r.Context())
	if err != nil {
		h.logger.Error("failed to load profiles", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeRaw(w, http.StatusOK, "", profiles)
}

// SaveProfiles replaces the custom profiles.
func (h *Handler) SaveProfiles(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.prefs.SaveProfiles(r.Context(), json.RawMessage(body)); err != nil {
		if errors.Is(err, application.ErrInvalidProfiles) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to save profiles", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// GetTourFlag reports whether the onboarding tour has been shown.
func (h *Handler) GetTourFlag(w http.ResponseWriter, r *http.Request) {
	value, err := h.prefs.TourShown(r.Context())
	if err != nil {
		h.logger.Error("failed to load tour flag", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, FlagResponse{Value: value})
}

// SetTourFlag records whether the onboarding tour has been shown.
func (h *Handler) SetTourFlag(w http.ResponseWriter, r *http.Request) {
	value, ok := decodeFlag(w, r)
	if !ok {
		return
	}
	if err := h.prefs.SetTourShown(r.Context(), value); err != nil {
		h.logger.Error("failed to save tour flag", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, FlagResponse{Value: value})
}

// GetBusinessBranch reports whether the configured journey has a businesses branch.
func (h *Handler) GetBusinessBranch(w http.ResponseWriter, r *http.Request) {
	value, err := h.prefs.BusinessBranch(r.Context())
	if err != nil {
		h.logger.Error("failed to load business branch flag", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, FlagResponse{Value: value})
}

// SetBusinessBranch stores the business branch flag and broadcasts it.
func (h *Handler) SetBusinessBranch(w http.ResponseWriter, r *http.Request) {
	value, ok := decodeFlag(w, r)
	if !ok {
		return
	}
	if err := h.prefs.SetBusinessBranch(r.Context(), value); err != nil {
		h.logger.Error("failed to save business branch flag", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, FlagResponse{Value: value})
}

// ClearStorage removes the stored configuration and application history.
func (h *Handler) ClearStorage(w http.ResponseWriter, r *http.Request) {
	if err := h.prefs.ClearAll(r.Context()); err != nil {
		h.logger.Error("failed to clear storage", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// CheckUpdate compares the running version with the latest release.
func (h *Handler) CheckUpdate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.updates.Check(r.Context()))
}

// Health returns a simple health check response along with the number of
// connected event stream clients.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newHealthResponse(h.events.Subscribers()))
}

// NotFound answers unmatched /api paths.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// writeUpstreamError relays an upstream HTTP error verbatim, or reports a
// failure to reach the remote API.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, op string, err error) {
	var upstream *driven.UpstreamError
	switch {
	case errors.As(err, &upstream):
		h.logger.Warn(op+" rejected upstream", "status", upstream.StatusCode, "message", upstream.Message())
		if len(upstream.Body) == 0 {
			writeError(w, upstream.StatusCode, http.StatusText(upstream.StatusCode))
			return
		}
		writeRaw(w, upstream.StatusCode, upstream.ContentType, upstream.Body)
	case errors.Is(err, driven.ErrUpstreamUnreachable):
		h.logger.Error(op+" failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, detailedErrorResponse{
			Error:   "Failed to reach Alloy API",
			Details: err.Error(),
		})
	default:
		h.logger.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes the request body into dst, writing a 400 on failure.
// Untyped numbers decode as json.Number so payloads are forwarded unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func decodeFlag(w http.ResponseWriter, r *http.Request) (bool, bool) {
	var req FlagRequest
	if !decodeJSON(w, r, &req) {
		return false, false
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return false, false
	}
	return *req.Value, true
}
