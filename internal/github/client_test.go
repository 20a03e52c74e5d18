package github

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFromEnv(t *testing.T) {
	tests := []struct {
		name        string
		githubToken string
		ghToken     string
		want        string
	}{
		{
			name: "neither set",
			want: "",
		},
		{
			name:        "GITHUB_TOKEN set",
			githubToken: "ghp_github",
			want:        "ghp_github",
		},
		{
			name:    "GH_TOKEN set",
			ghToken: "ghp_gh",
			want:    "ghp_gh",
		},
		{
			name:        "both set, GITHUB_TOKEN takes precedence",
			githubToken: "ghp_github",
			ghToken:     "ghp_gh",
			want:        "ghp_github",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", tt.githubToken)
			t.Setenv("GH_TOKEN", tt.ghToken)

			got := TokenFromEnv()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWantsToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		want bool
	}{
		{"github.com", true},
		{"api.github.com", true},
		{"API.GITHUB.COM", true},
		// Signed asset storage URLs reject an extra Authorization header.
		{"objects.githubusercontent.com", false},
		{"release-assets.githubusercontent.com", false},
		{"dlcdn.apache.org", false},
		{"notgithub.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, wantsToken(tt.host))
		})
	}
}

func newCapturingTransport(captured **http.Request) *tokenTransport {
	return &tokenTransport{
		token: "ghp_test",
		base: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			*captured = req
			return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
		}),
	}
}

func TestTokenTransport_AddsHeaderForAPI(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	tr := newCapturingTransport(&captured)

	req, err := http.NewRequest(http.MethodGet, "https://api.github.com/repos/pgjdbc/pgjdbc/releases/latest", nil)
	require.NoError(t, err)

	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "Bearer ghp_test", captured.Header.Get("Authorization"))
}

func TestTokenTransport_SkipsAssetStorage(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	tr := newCapturingTransport(&captured)

	req, err := http.NewRequest(http.MethodGet,
		"https://objects.githubusercontent.com/github-production-release-asset/pg.jar?X-Amz-Signature=abc", nil)
	require.NoError(t, err)

	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, captured.Header.Get("Authorization"))
}

func TestTokenTransport_SkipsNonGitHub(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	tr := newCapturingTransport(&captured)

	req, err := http.NewRequest(http.MethodGet, "https://dlcdn.apache.org/tomcat/", nil)
	require.NoError(t, err)

	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, captured.Header.Get("Authorization"))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
