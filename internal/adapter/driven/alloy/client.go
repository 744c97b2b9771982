// Package alloy implements the VerificationAPI port against the Alloy REST
// API using HTTP Basic authentication.
package alloy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.VerificationAPI = (*Client)(nil)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// Client implements driven.VerificationAPI over net/http.
type Client struct {
	http *http.Client
}

// NewClient creates a Client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient}
}

// FetchJourneySchema retrieves the journey definition, including its
// branches, for creds.JourneyToken.
func (c *Client) FetchJourneySchema(ctx context.Context, creds model.APICredentials) (model.Document, error) {
	endpoint, err := journeyURL(creds, "schema")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building schema request: %w", err)
	}

	return c.do(req, creds)
}

// SubmitApplication sends payload unchanged as a new journey application.
func (c *Client) SubmitApplication(ctx context.Context, creds model.APICredentials, payload model.Document) (model.Document, error) {
	endpoint, err := journeyURL(creds, "applications")
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding application payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building application request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, creds)
}

// do sends req once. Non-2xx responses become *driven.UpstreamError and
// transport failures wrap driven.ErrUpstreamUnreachable.
func (c *Client) do(req *http.Request, creds model.APICredentials) (model.Document, error) {
	req.SetBasicAuth(creds.APIToken, creds.APISecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", driven.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", driven.ErrUpstreamUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("alloy api error response",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
		)
		return nil, &driven.UpstreamError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		}
	}

	var doc model.Document
	if len(bytes.TrimSpace(body)) == 0 {
		return model.Document{}, nil
	}
	// Numbers stay json.Number so large integers are relayed unchanged.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("decoding alloy response: invalid JSON at offset %d: %w", syntaxErr.Offset, err)
		}
		return nil, fmt.Errorf("decoding alloy response: %w", err)
	}
	return doc, nil
}

// journeyURL builds {baseUrl}/v1/journeys/{journeyToken}/{suffix}. A
// trailing slash on the base URL is ignored.
func journeyURL(creds model.APICredentials, suffix string) (string, error) {
	base := strings.TrimRight(creds.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid alloy base URL %q", creds.BaseURL)
	}
	return base + "/v1/journeys/" + url.PathEscape(creds.JourneyToken) + "/" + suffix, nil
}
