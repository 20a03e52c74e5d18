// Package driver acquires JDBC driver jars from vendor GitHub releases and
// installs them into the Tomcat library directory.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/tomcatup/tomcatup/internal/download"
	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
	"github.com/tomcatup/tomcatup/internal/github"
)

// Spec identifies a driver release and the asset filename patterns to try,
// in preference order.
type Spec struct {
	// Name is the human-readable driver name used in logs and diagnostics.
	Name string

	// Owner and Repo locate the vendor's GitHub repository.
	Owner string
	Repo  string

	// Patterns are regular expressions matched against the full asset URL.
	// The first pattern with any match wins; within a pattern the first
	// matching asset is used.
	Patterns []string
}

// DefaultSpecs returns the drivers installed alongside Tomcat.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Name:     "MS SQL JDBC driver",
			Owner:    "microsoft",
			Repo:     "mssql-jdbc",
			Patterns: []string{`\.jre11\.jar$`},
		},
		{
			Name:     "PostgreSQL JDBC driver",
			Owner:    "pgjdbc",
			Repo:     "pgjdbc",
			Patterns: []string{`postgresql-[0-9][0-9.]*\.jar$`},
		},
	}
}

// Placer installs the downloaded jar into the privileged library
// directory; satisfied by *system.Files.
type Placer interface {
	CopyFile(ctx context.Context, src, dst, mode string) error
}

// Ownership applies file ownership; satisfied by *system.Permissions.
type Ownership interface {
	Chown(ctx context.Context, path, owner, group string) error
}

// Fetcher downloads and installs driver jars.
type Fetcher struct {
	client     *http.Client
	downloader download.Downloader
	placer     Placer
	ownership  Ownership
	apiBaseURL string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithAPIBaseURL overrides the GitHub API base URL (for testing).
func WithAPIBaseURL(url string) Option {
	return func(f *Fetcher) {
		f.apiBaseURL = url
	}
}

// WithDownloader overrides the artifact downloader.
func WithDownloader(d download.Downloader) Option {
	return func(f *Fetcher) {
		f.downloader = d
	}
}

// NewFetcher creates a Fetcher. If client is nil, a GitHub token-aware
// client is used.
func NewFetcher(client *http.Client, placer Placer, ownership Ownership, opts ...Option) *Fetcher {
	if client == nil {
		client = github.NewHTTPClient(github.TokenFromEnv())
	}
	f := &Fetcher{
		client:     client,
		downloader: download.NewDownloaderWithClient(client),
		placer:     placer,
		ownership:  ownership,
		apiBaseURL: github.DefaultAPIBaseURL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Install resolves the latest release of the driver, downloads the first
// asset matching the spec's patterns, and installs it into libDir owned by
// owner:group with mode 644. The scoped download directory is removed on
// every exit path.
func (f *Fetcher) Install(ctx context.Context, spec Spec, libDir, owner, group string) (err error) {
	slog.Info("installing driver", "driver", spec.Name, "repo", spec.Owner+"/"+spec.Repo)

	release, err := github.GetLatestReleaseWithBase(ctx, f.client, spec.Owner, spec.Repo, f.apiBaseURL)
	if err != nil {
		return fmt.Errorf("failed to query %s release: %w", spec.Name, err)
	}

	asset, err := matchAsset(release.Assets, spec.Patterns)
	if err != nil {
		return &tcerrors.Error{
			Category: tcerrors.CategoryResolve,
			Code:     tcerrors.CodeNoMatchingAsset,
			Message:  fmt.Sprintf("no release asset matched for %s", spec.Name),
			Details: map[string]any{
				"repo":     spec.Owner + "/" + spec.Repo,
				"release":  release.TagName,
				"patterns": spec.Patterns,
			},
		}
	}

	tmpDir, err := os.MkdirTemp("", "tomcatup-driver-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, asset.Name)
	if _, err := f.downloader.Download(ctx, asset.BrowserDownloadURL, tmpPath); err != nil {
		return fmt.Errorf("failed to download %s: %w", spec.Name, err)
	}

	destPath := filepath.Join(libDir, asset.Name)
	if err := f.placer.CopyFile(ctx, tmpPath, destPath, "644"); err != nil {
		return fmt.Errorf("failed to install %s: %w", spec.Name, err)
	}

	if err := f.ownership.Chown(ctx, destPath, owner, group); err != nil {
		return fmt.Errorf("failed to set ownership on %s: %w", destPath, err)
	}

	slog.Info("driver installed", "driver", spec.Name, "path", destPath)
	return nil
}

// matchAsset applies patterns in order against the full asset URLs.
// A pattern that matches nothing falls through to the next one.
func matchAsset(assets []github.Asset, patterns []string) (*github.Asset, error) {
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid asset pattern %q: %w", pattern, err)
		}
		for i := range assets {
			if re.MatchString(assets[i].BrowserDownloadURL) {
				return &assets[i], nil
			}
		}
	}
	return nil, fmt.Errorf("no asset matched any pattern")
}
