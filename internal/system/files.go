package system

import (
	"context"
	"fmt"
	"os"
)

// Files performs filesystem mutations through the command runner, so they
// carry the same privileges as every other system change: direct execution
// as root, sudo-prefixed otherwise. Anything written under /opt or /etc
// must go through here, not through the os package.
type Files struct {
	runner Runner
}

// NewFiles creates a Files adapter.
func NewFiles(runner Runner) *Files {
	return &Files{runner: runner}
}

// MkdirAll creates path and its missing parents with mode 755.
func (f *Files) MkdirAll(ctx context.Context, path string) error {
	return f.runner.Run(ctx, "install", "-d", "-m", "755", path)
}

// WriteFile writes content to path with the given octal mode. The content
// is staged in a user-writable temp file and installed into place by the
// runner.
func (f *Files) WriteFile(ctx context.Context, path, content, mode string) error {
	tmp, err := os.CreateTemp("", "tomcatup-stage-*")
	if err != nil {
		return fmt.Errorf("failed to stage file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to stage file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to stage file for %s: %w", path, err)
	}

	return f.runner.Run(ctx, "install", "-m", mode, tmpPath, path)
}

// CopyFile installs src at dst with the given octal mode.
func (f *Files) CopyFile(ctx context.Context, src, dst, mode string) error {
	return f.runner.Run(ctx, "install", "-m", mode, src, dst)
}

// CopyTree copies the contents of srcDir into destDir, preserving modes
// and timestamps. destDir must exist.
func (f *Files) CopyTree(ctx context.Context, srcDir, destDir string) error {
	return f.runner.Run(ctx, "cp", "-a", srcDir+"/.", destDir)
}

// RemoveAll removes path recursively. A missing path is a no-op.
func (f *Files) RemoveAll(ctx context.Context, path string) error {
	return f.runner.Run(ctx, "rm", "-rf", path)
}
