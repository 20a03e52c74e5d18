package system

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// DetectJavaHome resolves JAVA_HOME from the java binary on PATH by
// following the alternatives symlink chain.
func DetectJavaHome(ctx context.Context, runner Runner) (string, error) {
	out, err := runner.Output(ctx, "sh", "-c", `readlink -f "$(command -v java)"`)
	if err != nil {
		return "", fmt.Errorf("failed to locate java binary: %w", err)
	}
	if out == "" {
		return "", fmt.Errorf("java binary not found on PATH")
	}

	// /usr/lib/jvm/java-17-openjdk-amd64/bin/java → /usr/lib/jvm/java-17-openjdk-amd64
	javaHome := filepath.Dir(filepath.Dir(out))
	if !strings.HasSuffix(out, filepath.Join("bin", "java")) {
		return "", fmt.Errorf("unexpected java binary path %q", out)
	}
	return javaHome, nil
}
