package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
)

// DefaultAPIBaseURL is the GitHub API endpoint.
const DefaultAPIBaseURL = "https://api.github.com"

// Asset is a downloadable artifact attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Release is the subset of the GitHub Releases API response this tool uses.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// GetLatestRelease fetches the latest release of a GitHub repository,
// including its asset list.
func GetLatestRelease(ctx context.Context, client *http.Client, owner, repo string) (*Release, error) {
	return GetLatestReleaseWithBase(ctx, client, owner, repo, DefaultAPIBaseURL)
}

// GetLatestReleaseWithBase is GetLatestRelease against an alternate API base URL (for testing).
func GetLatestReleaseWithBase(ctx context.Context, client *http.Client, owner, repo, baseURL string) (*Release, error) {
	if strings.Contains(owner, "/") || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("invalid owner %q or repo %q: must not contain '/'", owner, repo)
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo must not be empty")
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimSuffix(baseURL, "/"), owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &tcerrors.Error{
			Category: tcerrors.CategoryNetwork,
			Code:     tcerrors.CodeNetworkFailed,
			Message:  fmt.Sprintf("failed to fetch latest release for %s/%s", owner, repo),
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &tcerrors.Error{
			Category: tcerrors.CategoryNetwork,
			Code:     tcerrors.CodeHTTPError,
			Message:  fmt.Sprintf("GitHub API returned status %d for %s/%s", resp.StatusCode, owner, repo),
			Details:  map[string]any{"url": url, "status_code": resp.StatusCode},
		}
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if release.TagName == "" {
		return nil, fmt.Errorf("empty tag_name in latest release for %s/%s", owner, repo)
	}

	return &release, nil
}
