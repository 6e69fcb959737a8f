package identity

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractProfileHandle(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain", "https://www.linkedin.com/in/jdoe", "jdoe"},
		{"trailing slash", "https://linkedin.com/in/jdoe/", "jdoe"},
		{"query params", "https://www.linkedin.com/in/jdoe?trk=search", "jdoe"},
		{"locale subpath", "https://de.linkedin.com/in/jane-doe-123/de", "jane-doe-123"},
		{"not a profile url", "https://www.linkedin.com/company/acme", ""},
		{"unrelated url", "https://example.com/in/jdoe", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractProfileHandle(tt.url))
		})
	}
}

func TestExtractProfileHandle_URLVariantsShareHandle(t *testing.T) {
	// Different URL variants for the same person must resolve to one key.
	variants := []string{
		"https://www.linkedin.com/in/jdoe",
		"https://linkedin.com/in/jdoe/",
		"https://www.linkedin.com/in/jdoe?utm_source=share",
	}
	for _, v := range variants {
		assert.Equal(t, "jdoe", ExtractProfileHandle(v))
	}
}

func TestCompanyKey(t *testing.T) {
	assert.Equal(t, "https://acme.com", CompanyKey("https://acme.com", "Acme"))
	assert.Equal(t, "name:tech_corp", CompanyKey("", "Tech Corp"))
	assert.Equal(t, "", CompanyKey("", ""))
}

func TestCompanyKey_FallbackNeverLooksLikeURL(t *testing.T) {
	// Fallback keys live in a reserved key space: no URL scheme starts
	// with "name:", so a name-derived key can never equal a URL key.
	key := CompanyKey("", "Tech Corp")
	assert.True(t, strings.HasPrefix(key, "name:"))
	assert.NotEqual(t, "https://tech-corp.com", key)
	assert.False(t, strings.HasPrefix(key, "http"))
}

// fakeSearcher implements ProfileSearcher for tests.
type fakeSearcher struct {
	url   string
	err   error
	calls int
}

func (f *fakeSearcher) FindProfileURL(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.url, f.err
}

func TestResolveInterviewer_URLProvided(t *testing.T) {
	searcher := &fakeSearcher{}
	r := NewResolver(searcher)

	handle, url, err := r.ResolveInterviewer(context.Background(), "https://linkedin.com/in/jdoe", "", "")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", handle)
	assert.Equal(t, "https://linkedin.com/in/jdoe", url)
	assert.Zero(t, searcher.calls, "no search when URL is given")
}

func TestResolveInterviewer_DiscoversURL(t *testing.T) {
	searcher := &fakeSearcher{url: "https://www.linkedin.com/in/jane-doe"}
	r := NewResolver(searcher)

	handle, url, err := r.ResolveInterviewer(context.Background(), "", "Jane Doe", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", handle)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", url)
	assert.Equal(t, 1, searcher.calls)
}

func TestResolveInterviewer_NothingResolvable(t *testing.T) {
	r := NewResolver(&fakeSearcher{})

	handle, url, err := r.ResolveInterviewer(context.Background(), "", "Jane Doe", "")
	require.NoError(t, err)
	assert.Empty(t, handle)
	assert.Empty(t, url)
}

func TestResolveInterviewer_SearchFailureIsNotFound(t *testing.T) {
	searcher := &fakeSearcher{err: fmt.Errorf("quota exceeded")}
	r := NewResolver(searcher)

	handle, url, err := r.ResolveInterviewer(context.Background(), "", "Jane Doe", "Acme")
	require.NoError(t, err, "search failure degrades to not-found")
	assert.Empty(t, handle)
	assert.Empty(t, url)
}

func TestResolveInterviewer_BadDiscoveredURL(t *testing.T) {
	searcher := &fakeSearcher{url: "https://example.com/profile/jdoe"}
	r := NewResolver(searcher)

	handle, _, err := r.ResolveInterviewer(context.Background(), "", "Jane Doe", "Acme")
	require.NoError(t, err)
	assert.Empty(t, handle)
}
