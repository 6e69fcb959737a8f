// Package identity resolves canonical cache keys for research subjects.
package identity

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/interview-prep/internal/db"
)

// profileHandlePattern matches the stable handle segment of a profile URL.
// The handle is the authoritative identifier: the same person may be
// reached via several URL variants (trailing slash, query params, locale).
var profileHandlePattern = regexp.MustCompile(`linkedin\.com/in/([^/?]+)`)

// ExtractProfileHandle returns the stable handle from a profile URL, or ""
// when the URL does not match the expected shape. An unparseable URL is a
// not-found outcome, not an error.
func ExtractProfileHandle(profileURL string) string {
	if profileURL == "" {
		return ""
	}
	m := profileHandlePattern.FindStringSubmatch(profileURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// CompanyKey derives the cache key for a company. The canonical URL wins
// when known; otherwise the display name is normalized into the reserved
// "name:" key space so it can never collide with a genuine URL key.
func CompanyKey(companyURL, companyName string) string {
	if companyURL != "" {
		return companyURL
	}
	if companyName == "" {
		return ""
	}
	normalized := strings.ReplaceAll(strings.ToLower(companyName), " ", "_")
	return db.CompanyFallbackPrefix + normalized
}

// ProfileSearcher finds a profile URL for a named person at a company.
// An empty result with a nil error means "not found".
type ProfileSearcher interface {
	FindProfileURL(ctx context.Context, name, company string) (string, error)
}

// Searcher implements ProfileSearcher on the Custom Search API.
type Searcher struct {
	svc *customsearch.Service
	cx  string
}

// NewSearcher creates a Searcher backed by the Custom Search API.
func NewSearcher(ctx context.Context, apiKey, cx string) (*Searcher, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &Searcher{svc: svc, cx: cx}, nil
}

// FindProfileURL runs one best-effort search for the person's profile.
// The first organic result wins; no result is not an error.
func (s *Searcher) FindProfileURL(ctx context.Context, name, company string) (string, error) {
	query := fmt.Sprintf("site:linkedin.com/in/ %s %s", name, company)

	resp, err := s.svc.Cse.List().Cx(s.cx).Q(query).Num(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("profile search failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Link, nil
}

// Resolver derives interviewer identities from heterogeneous inputs.
type Resolver struct {
	searcher ProfileSearcher
}

// NewResolver creates a Resolver using the given searcher for URL discovery.
func NewResolver(searcher ProfileSearcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// ResolveInterviewer produces (handle, url) for an interviewer from either
// a known profile URL or a name+company pair. Every not-found path returns
// empty strings with a nil error; the caller treats that as "research
// unavailable, continue without it".
func (r *Resolver) ResolveInterviewer(ctx context.Context, profileURL, name, company string) (string, string, error) {
	if profileURL == "" {
		if name == "" || company == "" {
			return "", "", nil
		}
		found, err := r.searcher.FindProfileURL(ctx, name, company)
		if err != nil {
			// Discovery is best-effort: log-worthy, but not fatal.
			fmt.Printf("Profile search failed for %s at %s: %v\n", name, company, err)
			return "", "", nil
		}
		if found == "" {
			return "", "", nil
		}
		profileURL = found
	}

	handle := ExtractProfileHandle(profileURL)
	if handle == "" {
		return "", "", nil
	}
	return handle, profileURL, nil
}
