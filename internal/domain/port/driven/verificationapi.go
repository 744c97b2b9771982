package driven

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
)

// ErrUpstreamUnreachable is returned when no HTTP response was received from
// the remote verification API.
var ErrUpstreamUnreachable = errors.New("failed to reach Alloy API")

// UpstreamError carries a non-2xx response from the remote API so it can be
// relayed to the caller verbatim.
type UpstreamError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("alloy api returned status %d", e.StatusCode)
}

// Message returns the upstream "message" or "error" field when the body is a
// JSON object, or "".
func (e *UpstreamError) Message() string {
	var doc map[string]any
	if err := json.Unmarshal(e.Body, &doc); err != nil {
		return ""
	}
	if msg, ok := doc["message"].(string); ok && msg != "" {
		return msg
	}
	msg, _ := doc["error"].(string)
	return msg
}

// VerificationAPI defines the driven port for the remote identity-verification
// REST API. Every call is attempted exactly once.
type VerificationAPI interface {
	// FetchJourneySchema GETs /v1/journeys/{journeyToken}/schema.
	FetchJourneySchema(ctx context.Context, creds model.APICredentials) (model.Document, error)

	// SubmitApplication POSTs payload unchanged to
	// /v1/journeys/{journeyToken}/applications.
	SubmitApplication(ctx context.Context, creds model.APICredentials, payload model.Document) (model.Document, error)
}
