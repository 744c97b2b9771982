package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// CredentialResolver supplies the active CredentialSet.
type CredentialResolver interface {
	Resolve(ctx context.Context) (model.CredentialSet, bool)
}

// BranchRecorder persists and broadcasts whether the configured journey has
// a businesses branch.
type BranchRecorder interface {
	SetBusinessBranch(ctx context.Context, value bool) error
}

// HistoryRecorder stores a completed application submission.
type HistoryRecorder interface {
	Append(ctx context.Context, record model.ApplicationHistoryRecord) (model.ApplicationHistoryRecord, error)
}

// ProxyGateway forwards schema checks and application submissions to the
// verification API. Schema check outcomes are cached per (base URL, journey
// token) in the settings store with no expiry.
type ProxyGateway struct {
	api          driven.VerificationAPI
	store        driven.SettingsStore
	resolver     CredentialResolver
	branch       BranchRecorder
	history      HistoryRecorder
	dashboardURL string
	now          func() time.Time
}

// NewProxyGateway creates a new ProxyGateway. history may be nil, in which
// case submissions are not recorded. dashboardURL is the base of the links
// stored with each history record.
func NewProxyGateway(
	api driven.VerificationAPI,
	store driven.SettingsStore,
	resolver CredentialResolver,
	branch BranchRecorder,
	history HistoryRecorder,
	dashboardURL string,
) *ProxyGateway {
	return &ProxyGateway{
		api:          api,
		store:        store,
		resolver:     resolver,
		branch:       branch,
		history:      history,
		dashboardURL: strings.TrimRight(dashboardURL, "/"),
		now:          time.Now,
	}
}

// ValidateJourneySchema checks that the journey identified by creds only
// uses supported branches.
//
// Errors: *model.MissingFieldsError, *model.SchemaRejectedError,
// *model.UnsupportedBranchesError, *driven.UpstreamError (relayed as-is) and
// driven.ErrUpstreamUnreachable.
func (g *ProxyGateway) ValidateJourneySchema(ctx context.Context, creds model.APICredentials) (model.SchemaResult, error) {
	if missing := creds.MissingFields(); len(missing) > 0 {
		return model.SchemaResult{}, &model.MissingFieldsError{Fields: missing}
	}

	key := model.ValidationCacheKey(creds.BaseURL, creds.JourneyToken)

	if entry, ok := g.cachedEntry(ctx, key); ok && entry.Positive() {
		slog.Debug("journey schema served from cache", "key", key, "cached_at", entry.CachedAt)
		return model.SchemaResult{
			Schema:              entry.Schema,
			HasBusinessesBranch: entry.HasBusinessesBranch,
			Cached:              true,
		}, nil
	}

	schema, err := g.api.FetchJourneySchema(ctx, creds)
	if err != nil {
		return model.SchemaResult{}, fmt.Errorf("fetching journey schema: %w", err)
	}

	if msg, rejected := rejectionMessage(schema); rejected {
		slog.Warn("journey schema rejected by alloy api", "message", msg)
		return model.SchemaResult{}, &model.SchemaRejectedError{Message: msg}
	}

	branches := model.BranchNames(schema)
	entry := model.ValidationCacheEntry{
		InvalidBranches:     model.InvalidBranches(branches),
		HasBusinessesBranch: model.HasBusinessesBranch(branches),
		Schema:              schema,
		CachedAt:            g.now().UTC(),
	}

	if err := storeJSON(ctx, g.store, model.NamespaceBranchValidation, key, entry); err != nil {
		slog.Warn("failed to cache journey schema", "key", key, "error", err)
	}

	if !entry.Positive() {
		slog.Info("journey schema has unsupported branches", "branches", entry.InvalidBranches)
		return model.SchemaResult{}, &model.UnsupportedBranchesError{Branches: entry.InvalidBranches}
	}

	if err := g.branch.SetBusinessBranch(ctx, entry.HasBusinessesBranch); err != nil {
		slog.Warn("failed to record business branch flag", "error", err)
	}

	return model.SchemaResult{
		Schema:              schema,
		HasBusinessesBranch: entry.HasBusinessesBranch,
	}, nil
}

// SubmitApplication posts payload unchanged to the configured journey and
// returns the upstream response. A successful submission carrying a journey
// application token is appended to the history; a history failure is logged
// only.
//
// Errors: model.ErrNotConfigured (no outbound call is made),
// *driven.UpstreamError and driven.ErrUpstreamUnreachable.
func (g *ProxyGateway) SubmitApplication(ctx context.Context, payload model.Document) (model.Document, error) {
	creds, ok := g.resolver.Resolve(ctx)
	if !ok {
		return nil, model.ErrNotConfigured
	}

	resp, err := g.api.SubmitApplication(ctx, creds.APICredentials(), payload)
	if err != nil {
		return nil, fmt.Errorf("submitting application: %w", err)
	}

	g.recordSubmission(ctx, creds, payload, resp)
	return resp, nil
}

// ClearValidationCache drops every cached schema check outcome.
func (g *ProxyGateway) ClearValidationCache(ctx context.Context) error {
	if err := g.store.Clear(ctx, model.NamespaceBranchValidation); err != nil {
		return fmt.Errorf("clearing validation cache: %w", err)
	}
	slog.Info("validation cache cleared")
	return nil
}

func (g *ProxyGateway) recordSubmission(ctx context.Context, creds model.CredentialSet, payload, resp model.Document) {
	if g.history == nil {
		return
	}
	token := model.ApplicationToken(resp)
	if token == "" {
		return
	}

	record := model.ApplicationHistoryRecord{
		JAToken:              token,
		DashboardURL:         g.dashboardLink(creds.JourneyToken, token),
		SubmittedPayload:     payload,
		SubmittedAt:          g.now().UTC(),
		PrimaryApplicantName: model.PrimaryApplicantName(payload),
		Status:               model.ApplicationStatus(resp),
	}
	if _, err := g.history.Append(ctx, record); err != nil {
		slog.Warn("failed to record application history", "ja_token", token, "error", err)
	}
}

func (g *ProxyGateway) cachedEntry(ctx context.Context, key string) (model.ValidationCacheEntry, bool) {
	var entry model.ValidationCacheEntry
	found, err := loadJSON(ctx, g.store, model.NamespaceBranchValidation, key, &entry)
	if err != nil {
		slog.Warn("failed to read validation cache", "key", key, "error", err)
		return model.ValidationCacheEntry{}, false
	}
	return entry, found
}

func (g *ProxyGateway) dashboardLink(journeyToken, jaToken string) string {
	if g.dashboardURL == "" {
		return ""
	}
	return g.dashboardURL + "/journeys/" + url.PathEscape(journeyToken) + "/applications/" + url.PathEscape(jaToken)
}

// rejectionMessage reports whether a successful schema response carries a
// truthy error or message field, and returns it. Empty strings, false and
// numeric zero do not count.
func rejectionMessage(schema model.Document) (string, bool) {
	for _, field := range []string{"error", "message"} {
		v, ok := schema[field]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				return val, true
			}
		case bool:
			if val {
				return field, true
			}
		case json.Number:
			if f, err := val.Float64(); err == nil && f == 0 {
				continue
			}
			return val.String(), true
		case float64:
			if val != 0 {
				return fmt.Sprint(val), true
			}
		default:
			return fmt.Sprint(val), true
		}
	}
	return "", false
}
