package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// UpdateReport describes how the running build compares to the latest
// published release.
type UpdateReport struct {
	Current     string    `json:"current"`
	Latest      string    `json:"latest,omitempty"`
	URL         string    `json:"url,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitzero"`
	Available   bool      `json:"available"`
}

// UpdateService checks whether a newer release exists. Failures never
// surface as errors; they yield a report with Available=false.
type UpdateService struct {
	releases driven.ReleaseSource
	current  string
}

// NewUpdateService creates an UpdateService for the running version. A nil
// releases source disables checking.
func NewUpdateService(releases driven.ReleaseSource, current string) *UpdateService {
	return &UpdateService{releases: releases, current: current}
}

// Check fetches the latest release and compares it with the running version.
// Versions are compared as semver after stripping a leading "v"; a running
// version that is not semver (e.g. "dev") is never reported as outdated.
func (s *UpdateService) Check(ctx context.Context) UpdateReport {
	report := UpdateReport{Current: s.current}
	if s.releases == nil {
		return report
	}

	rel, err := s.releases.LatestRelease(ctx)
	if err != nil {
		slog.Warn("update check failed", "error", err)
		return report
	}

	report.Latest = strings.TrimPrefix(rel.TagName, "v")
	report.URL = rel.HTMLURL
	report.Notes = rel.Body
	report.PublishedAt = rel.PublishedAt

	current := canonical(s.current)
	latest := canonical(report.Latest)
	if current == "" || latest == "" {
		slog.Debug("update check skipped: version is not semver", "current", s.current, "latest", report.Latest)
		return report
	}

	report.Available = semver.Compare(latest, current) > 0
	slog.Info("update check complete", "current", s.current, "latest", report.Latest, "available", report.Available)
	return report
}

// canonical returns v as a "vMAJOR.MINOR.PATCH" semver string, or "" when v
// is not a valid version.
func canonical(v string) string {
	v = "v" + strings.TrimPrefix(v, "v")
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
