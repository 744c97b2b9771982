package model

import (
	"strings"
	"time"
)

// ApplicationHistoryRecord describes one completed journey application
// submission. Records are never mutated once stored.
type ApplicationHistoryRecord struct {
	ID                   string    `json:"id"`
	JAToken              string    `json:"jaToken"`
	DashboardURL         string    `json:"dashboardUrl"`
	SubmittedPayload     Document  `json:"submittedPayload"`
	SubmittedAt          time.Time `json:"submittedAt"`
	PrimaryApplicantName string    `json:"primaryApplicantName"`
	Status               string    `json:"status"`
}

// PrimaryApplicantName derives a display name from the first entity of an
// application payload: name_first/name_last for persons, business_name for
// businesses. Returns "" when the payload carries neither.
func PrimaryApplicantName(payload Document) string {
	entities, ok := payload["entities"].([]any)
	if !ok || len(entities) == 0 {
		return ""
	}
	entity, ok := entities[0].(map[string]any)
	if !ok {
		return ""
	}
	data, ok := entity["data"].(map[string]any)
	if !ok {
		return ""
	}
	if name, ok := data["business_name"].(string); ok && name != "" {
		return name
	}
	first, _ := data["name_first"].(string)
	last, _ := data["name_last"].(string)
	return strings.TrimSpace(first + " " + last)
}

// ApplicationToken returns the journey application token of a submission
// response, or "".
func ApplicationToken(resp Document) string {
	token, _ := resp["journey_application_token"].(string)
	return token
}

// ApplicationStatus returns the status reported by a submission response.
func ApplicationStatus(resp Document) string {
	if s, ok := resp["journey_application_status"].(string); ok && s != "" {
		return s
	}
	s, _ := resp["status"].(string)
	return s
}
