package model

import (
	"slices"
	"strings"
	"time"
)

// Document is an opaque JSON object exchanged with the remote API. Its
// contract is owned upstream, so it is passed through without a schema.
type Document map[string]any

// Supported journey branch names.
const (
	BranchPersons    = "persons"
	BranchBusinesses = "businesses"
)

// SupportedBranches lists the branch names the demo UI can drive.
var SupportedBranches = []string{BranchBusinesses, BranchPersons}

// BranchNames extracts branches[].branch_name from a journey schema,
// preserving order. An entry without a string branch_name yields "", which
// no supported branch matches.
func BranchNames(schema Document) []string {
	raw, ok := schema["branches"].([]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(raw))
	for _, b := range raw {
		var name string
		if entry, ok := b.(map[string]any); ok {
			name, _ = entry["branch_name"].(string)
		}
		names = append(names, name)
	}
	return names
}

// InvalidBranches returns the names not in SupportedBranches, in input order.
func InvalidBranches(names []string) []string {
	var invalid []string
	for _, name := range names {
		if !slices.Contains(SupportedBranches, name) {
			invalid = append(invalid, name)
		}
	}
	return invalid
}

// HasBusinessesBranch reports whether the businesses branch is present.
func HasBusinessesBranch(names []string) bool {
	return slices.Contains(names, BranchBusinesses)
}

// ValidationCacheKey builds the cache key for a (base URL, journey token) pair.
func ValidationCacheKey(baseURL, journeyToken string) string {
	return strings.TrimRight(baseURL, "/") + "|" + journeyToken
}

// ValidationCacheEntry records the outcome of a journey schema check.
// A non-empty InvalidBranches marks a negative entry.
type ValidationCacheEntry struct {
	InvalidBranches     []string  `json:"invalidBranches,omitempty"`
	HasBusinessesBranch bool      `json:"hasBusinessesBranch"`
	Schema              Document  `json:"schema"`
	CachedAt            time.Time `json:"cachedAt"`
}

// Positive reports whether the cached schema passed branch validation.
func (e ValidationCacheEntry) Positive() bool {
	return len(e.InvalidBranches) == 0
}

// SchemaResult is a successfully validated journey schema.
type SchemaResult struct {
	Schema              Document
	HasBusinessesBranch bool
	Cached              bool
}

// Body renders the schema augmented with hasBusinessesBranch, plus
// cached=true when served from the validation cache.
func (r SchemaResult) Body() Document {
	out := make(Document, len(r.Schema)+2)
	for k, v := range r.Schema {
		out[k] = v
	}
	out["hasBusinessesBranch"] = r.HasBusinessesBranch
	if r.Cached {
		out["cached"] = true
	}
	return out
}
