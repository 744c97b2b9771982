// Package github implements the ReleaseSource port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReleaseSource = (*ReleaseChecker)(nil)

// ErrNoRelease is returned when the repository has no published release.
var ErrNoRelease = errors.New("no published release")

// ReleaseChecker looks up the latest release of a single public repository.
type ReleaseChecker struct {
	gh    *gh.Client
	owner string
	repo  string
}

// NewReleaseChecker creates a ReleaseChecker for repoFullName ("owner/repo")
// with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (unauthenticated REST client)
func NewReleaseChecker(repoFullName string) (*ReleaseChecker, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	return &ReleaseChecker{
		gh:    gh.NewClient(rateLimitClient),
		owner: owner,
		repo:  repo,
	}, nil
}

// NewReleaseCheckerWithHTTPClient creates a ReleaseChecker with a custom
// http.Client and base URL. This constructor is intended for testing,
// allowing injection of an httptest server.
func NewReleaseCheckerWithHTTPClient(httpClient *http.Client, baseURL, repoFullName string) (*ReleaseChecker, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &ReleaseChecker{gh: client, owner: owner, repo: repo}, nil
}

// LatestRelease returns the most recent non-draft, non-prerelease release.
func (c *ReleaseChecker) LatestRelease(ctx context.Context) (*model.Release, error) {
	rel, resp, err := c.gh.Repositories.GetLatestRelease(ctx, c.owner, c.repo)
	logRateLimit(resp, "repos/releases/latest")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("latest release for %s/%s: %w", c.owner, c.repo, ErrNoRelease)
		}
		return nil, fmt.Errorf("fetching latest release for %s/%s: %w", c.owner, c.repo, err)
	}

	return mapRelease(rel), nil
}

// mapRelease converts a go-github RepositoryRelease to a domain model Release.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapRelease(r *gh.RepositoryRelease) *model.Release {
	return &model.Release{
		TagName:     r.GetTagName(),
		Name:        r.GetName(),
		HTMLURL:     r.GetHTMLURL(),
		Body:        r.GetBody(),
		PublishedAt: r.GetPublishedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 5 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
