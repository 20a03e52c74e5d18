package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLatestRelease(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		owner      string
		repo       string
		wantTag    string
		wantAssets int
		wantErr    bool
		errContain string
	}{
		{
			name: "release with assets",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/pgjdbc/pgjdbc/releases/latest", r.URL.Path)
				assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{
					"tag_name": "REL42.7.4",
					"assets": [
						{"name": "postgresql-42.7.4.jar", "browser_download_url": "https://example.com/postgresql-42.7.4.jar"},
						{"name": "checksums.txt", "browser_download_url": "https://example.com/checksums.txt"}
					]
				}`))
			},
			owner:      "pgjdbc",
			repo:       "pgjdbc",
			wantTag:    "REL42.7.4",
			wantAssets: 2,
		},
		{
			name: "404 not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			owner:      "pgjdbc",
			repo:       "pgjdbc",
			wantErr:    true,
			errContain: "404",
		},
		{
			name: "empty tag name",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"tag_name": "", "assets": []}`))
			},
			owner:      "pgjdbc",
			repo:       "pgjdbc",
			wantErr:    true,
			errContain: "empty tag_name",
		},
		{
			name:       "invalid owner",
			handler:    func(_ http.ResponseWriter, _ *http.Request) {},
			owner:      "a/b",
			repo:       "c",
			wantErr:    true,
			errContain: "must not contain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			release, err := GetLatestReleaseWithBase(context.Background(), server.Client(), tt.owner, tt.repo, server.URL)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContain != "" {
					assert.Contains(t, err.Error(), tt.errContain)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTag, release.TagName)
			assert.Len(t, release.Assets, tt.wantAssets)
		})
	}
}
