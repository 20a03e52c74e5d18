// Package config builds the immutable run configuration for tomcatup.
// Defaults can be overridden by an optional YAML file; everything else
// comes from flags and the environment, once, at startup.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Default path and provisioning constants.
const (
	DefaultConfigPath    = "/etc/tomcatup/config.yaml"
	DefaultMirrorURL     = "https://dlcdn.apache.org/tomcat"
	DefaultInstallRoot   = "/opt"
	DefaultSharedTempDir = "/opt/tomcat-temp"
	DefaultServiceUser   = "tomcat"
	DefaultServiceGroup  = "tomcat"
	DefaultHeapMin       = "512m"
	DefaultHeapMax       = "1024m"
	DefaultLockFile      = "/tmp/tomcatup.lock"
)

// Settings are the file-overridable defaults.
type Settings struct {
	MirrorURL     string `yaml:"mirrorURL"`
	InstallRoot   string `yaml:"installRoot"`
	SharedTempDir string `yaml:"sharedTempDir"`
	ServiceUser   string `yaml:"serviceUser"`
	ServiceGroup  string `yaml:"serviceGroup"`
	HeapMin       string `yaml:"heapMin"`
	HeapMax       string `yaml:"heapMax"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		MirrorURL:     DefaultMirrorURL,
		InstallRoot:   DefaultInstallRoot,
		SharedTempDir: DefaultSharedTempDir,
		ServiceUser:   DefaultServiceUser,
		ServiceGroup:  DefaultServiceGroup,
		HeapMin:       DefaultHeapMin,
		HeapMax:       DefaultHeapMax,
	}
}

// LoadSettings loads settings from path, falling back to defaults when the
// file does not exist. Unset fields keep their default values.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Re-fill fields an explicit empty value would blank out.
	d := DefaultSettings()
	if s.MirrorURL == "" {
		s.MirrorURL = d.MirrorURL
	}
	if s.InstallRoot == "" {
		s.InstallRoot = d.InstallRoot
	}
	if s.SharedTempDir == "" {
		s.SharedTempDir = d.SharedTempDir
	}
	if s.ServiceUser == "" {
		s.ServiceUser = d.ServiceUser
	}
	if s.ServiceGroup == "" {
		s.ServiceGroup = d.ServiceGroup
	}
	if s.HeapMin == "" {
		s.HeapMin = d.HeapMin
	}
	if s.HeapMax == "" {
		s.HeapMax = d.HeapMax
	}

	return s, nil
}

// InstallDir returns the version-scoped install directory for a major version.
func (s *Settings) InstallDir(major int) string {
	return filepath.Join(s.InstallRoot, fmt.Sprintf("tomcat%d", major))
}

// ServiceName returns the systemd unit name (without suffix) for a major version.
func (s *Settings) ServiceName(major int) string {
	return fmt.Sprintf("tomcat%d", major)
}

// JavaOpts returns the fixed JAVA_OPTS line written to setenv.sh.
func (s *Settings) JavaOpts() string {
	return fmt.Sprintf("-Djava.awt.headless=true -Xms%s -Xmx%s", s.HeapMin, s.HeapMax)
}

// Run is the immutable configuration of one invocation.
type Run struct {
	// Major is the requested Tomcat major version.
	Major int

	// Uninstall requests teardown instead of installation.
	Uninstall bool

	// Automated suppresses prompts and takes the unattended branch at
	// every decision point (--debug).
	Automated bool

	// InvokingUser is the human user running the tool (SUDO_USER aware).
	InvokingUser string

	// Settings are the resolved provisioning defaults.
	Settings *Settings
}

// InvokingUser returns the name of the human user running the tool.
// Under sudo this is the original user, not root.
func InvokingUser() string {
	if u := os.Getenv("SUDO_USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
