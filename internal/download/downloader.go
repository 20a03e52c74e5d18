// Package download provides HTTP artifact downloads with guaranteed
// temp-file cleanup and optional checksum verification.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tomcatup/tomcatup/internal/checksum"
	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
)

// defaultTimeout bounds a single download attempt. Tomcat archives are
// ~15 MiB; ten minutes covers slow mirrors without hanging forever.
const defaultTimeout = 10 * time.Minute

// ProgressCallback is called during download to report progress.
// total is -1 if Content-Length is unknown.
type ProgressCallback func(downloaded, total int64)

// Downloader defines the interface for downloading and verifying artifacts.
type Downloader interface {
	// Download downloads a file from the given URL to destPath.
	// Returns the path to the downloaded file.
	Download(ctx context.Context, url, destPath string) (string, error)

	// DownloadWithProgress downloads a file with a progress callback.
	DownloadWithProgress(ctx context.Context, url, destPath string, callback ProgressCallback) (string, error)

	// VerifyFromURL fetches a checksums file and verifies filePath against
	// the digest recorded for its base name.
	VerifyFromURL(ctx context.Context, filePath, checksumURL string) error
}

// httpDownloader implements Downloader using HTTP.
type httpDownloader struct {
	client *http.Client
}

// NewDownloader creates a new Downloader with a bounded-timeout HTTP client.
func NewDownloader() Downloader {
	return &httpDownloader{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// NewDownloaderWithClient creates a new Downloader with the given HTTP client.
func NewDownloaderWithClient(client *http.Client) Downloader {
	if client == nil {
		return NewDownloader()
	}
	return &httpDownloader{client: client}
}

// Download downloads a file from the given URL to destPath.
func (d *httpDownloader) Download(ctx context.Context, url, destPath string) (string, error) {
	return d.DownloadWithProgress(ctx, url, destPath, nil)
}

// DownloadWithProgress downloads a file with an optional progress callback.
// The partial file is written to a temp path and removed on every failure
// path; only a completed download is renamed into place.
func (d *httpDownloader) DownloadWithProgress(ctx context.Context, url, destPath string, callback ProgressCallback) (string, error) {
	slog.Debug("downloading file", "url", url, "dest", destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", &tcerrors.Error{
			Category: tcerrors.CategoryNetwork,
			Code:     tcerrors.CodeNetworkFailed,
			Message:  fmt.Sprintf("failed to download from %s", url),
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &tcerrors.Error{
			Category: tcerrors.CategoryNetwork,
			Code:     tcerrors.CodeHTTPError,
			Message:  fmt.Sprintf("failed to download: HTTP %d", resp.StatusCode),
			Details:  map[string]any{"url": url, "status_code": resp.StatusCode},
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // Clean up on error; no-op after successful rename
	}()

	total := resp.ContentLength
	var reader io.Reader = resp.Body

	if callback != nil {
		reader = &progressReader{
			reader:   resp.Body,
			total:    total,
			callback: callback,
		}
	}

	if _, err := io.Copy(f, reader); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return "", fmt.Errorf("failed to rename file: %w", err)
	}

	slog.Debug("download completed", "path", destPath)
	return destPath, nil
}

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	callback   ProgressCallback
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		r.callback(r.downloaded, r.total)
	}
	return n, err
}

// VerifyFromURL fetches the published checksums file and verifies filePath.
func (d *httpDownloader) VerifyFromURL(ctx context.Context, filePath, checksumURL string) error {
	slog.Debug("fetching checksum file", "url", checksumURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checksumURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return &tcerrors.Error{
			Category: tcerrors.CategoryNetwork,
			Code:     tcerrors.CodeNetworkFailed,
			Message:  fmt.Sprintf("failed to fetch checksum file from %s", checksumURL),
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &tcerrors.Error{
			Category: tcerrors.CategoryNetwork,
			Code:     tcerrors.CodeHTTPError,
			Message:  fmt.Sprintf("failed to fetch checksum file: HTTP %d", resp.StatusCode),
			Details:  map[string]any{"url": checksumURL, "status_code": resp.StatusCode},
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read checksum file: %w", err)
	}

	algo, digest, err := checksum.ParseFile(body, filepath.Base(filePath))
	if err != nil {
		return err
	}

	if err := checksum.Verify(filePath, algo, digest); err != nil {
		return err
	}

	slog.Debug("checksum verified", "file", filePath, "algorithm", algo)
	return nil
}
