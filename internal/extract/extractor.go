// Package extract unpacks runtime archives into the install directory.
package extract

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// ArchiveType represents the archive format of a download.
type ArchiveType string

const (
	// ArchiveTypeTarGz represents a gzipped tar archive (.tar.gz, .tgz).
	// Apache Tomcat binary distributions ship in this format.
	ArchiveTypeTarGz ArchiveType = "tar.gz"

	// ArchiveTypeTarXz represents an xz-compressed tar archive (.tar.xz).
	ArchiveTypeTarXz ArchiveType = "tar.xz"

	// ArchiveTypeZip represents a ZIP archive (.zip).
	ArchiveTypeZip ArchiveType = "zip"
)

// DetectArchiveType detects the archive type from a URL or filename.
// Returns empty string if the type cannot be detected.
func DetectArchiveType(urlOrFilename string) ArchiveType {
	name := strings.ToLower(filepath.Base(urlOrFilename))

	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return ArchiveTypeTarGz
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return ArchiveTypeTarXz
	case strings.HasSuffix(name, ".zip"):
		return ArchiveTypeZip
	default:
		return ""
	}
}

// Extractor defines the interface for extracting archives.
type Extractor interface {
	// Extract extracts an archive from the reader to the destination directory.
	// For tar variants: accepts any io.Reader (true streaming)
	// For zip: requires io.ReaderAt (typically *os.File)
	Extract(r io.Reader, destDir string) error
}

// Option configures extraction behavior.
type Option func(*options)

type options struct {
	stripComponents int
}

// WithStripComponents drops the first n path components of every entry,
// like tar --strip-components. Tomcat archives wrap everything in an
// "apache-tomcat-X.Y.Z/" directory that install paths do not want.
func WithStripComponents(n int) Option {
	return func(o *options) {
		o.stripComponents = n
	}
}

// NewExtractor creates an Extractor for the given archive type.
func NewExtractor(archiveType ArchiveType, opts ...Option) (Extractor, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch archiveType {
	case ArchiveTypeTarGz:
		return &tarGzExtractor{opts: o}, nil
	case ArchiveTypeTarXz:
		return &tarXzExtractor{opts: o}, nil
	case ArchiveTypeZip:
		return &zipExtractor{opts: o}, nil
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", archiveType)
	}
}

var (
	_ Extractor = (*tarGzExtractor)(nil)
	_ Extractor = (*tarXzExtractor)(nil)
	_ Extractor = (*zipExtractor)(nil)
)

// tarGzExtractor implements Extractor for tar.gz archives.
type tarGzExtractor struct {
	opts options
}

func (e *tarGzExtractor) Extract(r io.Reader, destDir string) error {
	slog.Debug("extracting tar.gz archive", "dest", destDir)

	gr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	return extractTar(gr, destDir, e.opts)
}

// tarXzExtractor implements Extractor for tar.xz archives.
type tarXzExtractor struct {
	opts options
}

func (e *tarXzExtractor) Extract(r io.Reader, destDir string) error {
	slog.Debug("extracting tar.xz archive", "dest", destDir)

	xr, err := xz.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create xz reader: %w", err)
	}

	return extractTar(xr, destDir, e.opts)
}

// extractTar extracts a tar archive from the decompressed reader.
func extractTar(r io.Reader, destDir string, o options) error {
	tr := tar.NewReader(r)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}

		name, ok := stripComponents(hdr.Name, o.stripComponents)
		if !ok {
			continue
		}

		target := filepath.Join(destDir, name)

		// Security: prevent path traversal
		if !isInsideDir(destDir, target) {
			return fmt.Errorf("invalid file path: %s", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		case tar.TypeReg:
			if err := extractFile(tr, target, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			// Security: validate symlink target
			linkTarget := filepath.Join(filepath.Dir(target), hdr.Linkname)
			if !isInsideDir(destDir, linkTarget) {
				return fmt.Errorf("invalid symlink target: %s -> %s", hdr.Name, hdr.Linkname)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("failed to create symlink: %w", err)
			}
		}
	}

	return nil
}

// zipExtractor implements Extractor for zip archives.
type zipExtractor struct {
	opts options
}

// Extract extracts a zip archive from the reader to the destination directory.
// The reader must implement io.ReaderAt (e.g., *os.File or *bytes.Reader).
func (e *zipExtractor) Extract(r io.Reader, destDir string) error {
	slog.Debug("extracting zip archive", "dest", destDir)

	ra, ok := r.(io.ReaderAt)
	if !ok {
		return fmt.Errorf("zip extraction requires io.ReaderAt, got %T", r)
	}

	size, err := getReaderSize(r)
	if err != nil {
		return fmt.Errorf("failed to get reader size: %w", err)
	}

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return fmt.Errorf("failed to create zip reader: %w", err)
	}

	for _, f := range zr.File {
		name, ok := stripComponents(f.Name, e.opts.stripComponents)
		if !ok {
			continue
		}

		target := filepath.Join(destDir, name)

		// Security: prevent path traversal
		if !isInsideDir(destDir, target) {
			return fmt.Errorf("invalid file path: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode()); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open file in archive: %w", err)
		}

		if err := extractFile(rc, target, f.Mode()); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}

	slog.Debug("zip archive extracted", "dest", destDir)
	return nil
}

// stripComponents removes the first n path components from name.
// ok is false when the entry has no remaining path (the stripped
// top-level directory itself).
func stripComponents(name string, n int) (string, bool) {
	if n <= 0 {
		return name, true
	}
	parts := strings.Split(filepath.ToSlash(strings.Trim(name, "/")), "/")
	if len(parts) <= n {
		return "", false
	}
	return strings.Join(parts[n:], "/"), true
}

// getReaderSize returns the size of the reader.
func getReaderSize(r io.Reader) (int64, error) {
	switch v := r.(type) {
	case *os.File:
		info, err := v.Stat()
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	case interface{ Len() int }:
		return int64(v.Len()), nil
	case io.Seeker:
		current, err := v.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		size, err := v.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, err
		}
		_, err = v.Seek(current, io.SeekStart)
		if err != nil {
			return 0, err
		}
		return size, nil
	default:
		return 0, fmt.Errorf("cannot determine size for %T", r)
	}
}

// extractFile extracts a single file from an archive.
func extractFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// isInsideDir checks if target path is inside the base directory.
// This prevents path traversal attacks.
func isInsideDir(baseDir, target string) bool {
	rel, err := filepath.Rel(baseDir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && len(rel) > 0 && rel[0] != '.'
}
