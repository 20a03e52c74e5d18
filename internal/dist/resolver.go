// Package dist resolves Apache Tomcat versions and archive locations
// against the Apache distribution index.
package dist

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"context"

	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
)

// DefaultBaseURL is the Apache Tomcat distribution index.
const DefaultBaseURL = "https://dlcdn.apache.org/tomcat"

// defaultTimeout bounds index fetches so a stalled mirror fails the run
// instead of hanging it.
const defaultTimeout = 30 * time.Second

// maxListingSize caps how much of a directory listing is read (1 MiB).
const maxListingSize = 1 << 20

// majorPattern matches "tomcat-<N>/" links on the index page.
var majorPattern = regexp.MustCompile(`tomcat-(\d+)/`)

// Resolver discovers available Tomcat versions from a distribution index.
type Resolver struct {
	client  *http.Client
	baseURL string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL overrides the distribution index URL (mirrors, testing).
func WithBaseURL(url string) Option {
	return func(r *Resolver) {
		r.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.client = client
	}
}

// NewResolver creates a Resolver against the Apache distribution index.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AvailableMajors enumerates the major release lines published on the index,
// sorted ascending. An empty result is returned as an error because every
// caller needs at least one candidate to proceed.
func (r *Resolver) AvailableMajors(ctx context.Context) ([]int, error) {
	body, err := r.fetch(ctx, r.baseURL+"/")
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	var majors []int
	for _, m := range majorPattern.FindAllStringSubmatch(body, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		majors = append(majors, n)
	}
	sort.Ints(majors)

	if len(majors) == 0 {
		return nil, &tcerrors.Error{
			Category: tcerrors.CategoryResolve,
			Code:     tcerrors.CodeNoVersionsFound,
			Message:  "no Tomcat major versions found in distribution index",
			Details:  map[string]any{"url": r.baseURL},
		}
	}

	slog.Debug("discovered major versions", "majors", majors)
	return majors, nil
}

// LatestVersion resolves the newest release of a major line, e.g. 10 → "10.1.50".
// Ordering is numeric per segment; pre-release milestones rank below final
// releases. A listing with no candidates is a hard resolution error.
func (r *Resolver) LatestVersion(ctx context.Context, major int) (string, error) {
	url := fmt.Sprintf("%s/tomcat-%d/", r.baseURL, major)
	body, err := r.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	// Version directories look like "v10.1.50/" or "v11.0.0-M26/".
	pattern := regexp.MustCompile(fmt.Sprintf(`v(%d(?:\.\d+)+(?:-[A-Za-z0-9]+)?)/`, major))

	seen := make(map[string]struct{})
	var latest string
	for _, m := range pattern.FindAllStringSubmatch(body, -1) {
		v := m[1]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		if latest == "" || Compare(v, latest) > 0 {
			latest = v
		}
	}

	if latest == "" {
		return "", &tcerrors.Error{
			Category: tcerrors.CategoryResolve,
			Code:     tcerrors.CodeNoMinorVersion,
			Message:  fmt.Sprintf("no release found for Tomcat %d", major),
			Details:  map[string]any{"url": url},
			Hint:     "check that the major version exists with: tomcatup versions",
		}
	}

	slog.Debug("resolved latest version", "major", major, "version", latest)
	return latest, nil
}

// ArchiveURL returns the download URL of the binary tar.gz for a resolved version.
func (r *Resolver) ArchiveURL(version string) (string, error) {
	major, err := Major(version)
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", version, err)
	}
	return fmt.Sprintf("%s/tomcat-%d/v%s/bin/apache-tomcat-%s.tar.gz", r.baseURL, major, version, version), nil
}

// ChecksumURL returns the URL of the SHA-512 checksum file published next to the archive.
func (r *Resolver) ChecksumURL(version string) (string, error) {
	url, err := r.ArchiveURL(version)
	if err != nil {
		return "", err
	}
	return url + ".sha512", nil
}

// fetch GETs a listing page and returns its body as a string.
func (r *Resolver) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &tcerrors.Error{
			Category: tcerrors.CategoryNetwork,
			Code:     tcerrors.CodeNetworkFailed,
			Message:  fmt.Sprintf("failed to fetch %s", url),
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &tcerrors.Error{
			Category: tcerrors.CategoryNetwork,
			Code:     tcerrors.CodeHTTPError,
			Message:  fmt.Sprintf("distribution index returned status %d", resp.StatusCode),
			Details:  map[string]any{"url": url, "status_code": resp.StatusCode},
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListingSize))
	if err != nil {
		return "", fmt.Errorf("failed to read listing body: %w", err)
	}
	return string(body), nil
}
