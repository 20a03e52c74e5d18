package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
)

// rootConfig holds the flat flag interface kept for script compatibility:
// tomcatup --version 10 [--uninstall] [--debug].
type rootConfig struct {
	version   string
	uninstall bool
	debug     bool
}

var rootCfg rootConfig

var rootCmd = &cobra.Command{
	Use:   "tomcatup",
	Short: "Provision Apache Tomcat as a systemd service",
	Long: `Tomcatup installs, configures, and removes Apache Tomcat on a local
Linux machine: it resolves the latest release of a major version from the
Apache distribution index, provisions a dedicated system account, installs
JDBC drivers, and manages the runtime as a systemd service.

  tomcatup --version 10             install the latest Tomcat 10
  tomcatup --version 10 --uninstall remove Tomcat 10
  tomcatup versions                 list installable major versions`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Unknown flags are ignored for compatibility with older wrapper scripts.
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	PersistentPreRun: func(*cobra.Command, []string) {
		setupLogging(rootCfg.debug)
	},
	RunE: runRoot,
}

func init() {
	rootCmd.Flags().StringVar(&rootCfg.version, "version", "", "Tomcat major version to install (e.g. 10)")
	rootCmd.Flags().BoolVar(&rootCfg.uninstall, "uninstall", false, "Uninstall the given major version instead of installing")
	rootCmd.PersistentFlags().BoolVar(&rootCfg.debug, "debug", false, "Unattended mode: no prompts, verbose logging")

	rootCmd.AddCommand(
		installCmd,
		uninstallCmd,
		versionsCmd,
		versionCmd,
	)
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// runRoot dispatches the flat flag interface.
func runRoot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if rootCfg.uninstall {
		if rootCfg.version == "" {
			return &tcerrors.Error{
				Category: tcerrors.CategoryValidation,
				Code:     tcerrors.CodeMissingArgument,
				Message:  "--uninstall requires --version",
				Hint:     "specify the major version to remove, e.g. tomcatup --version 10 --uninstall",
			}
		}
		major, err := parseMajor(rootCfg.version)
		if err != nil {
			return err
		}
		return runUninstall(ctx, major, cmd.OutOrStdout())
	}

	major, err := chooseMajor(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return runInstall(ctx, major, cmd.OutOrStdout())
}

// parseMajor validates the --version value. Values that look like another
// flag mean the user forgot the argument.
func parseMajor(value string) (int, error) {
	if strings.HasPrefix(value, "-") {
		return 0, &tcerrors.Error{
			Category: tcerrors.CategoryValidation,
			Code:     tcerrors.CodeMissingArgument,
			Message:  fmt.Sprintf("--version needs a value, got %q", value),
			Hint:     "pass the major version number, e.g. --version 10",
		}
	}
	major, err := strconv.Atoi(value)
	if err != nil || major <= 0 {
		return 0, &tcerrors.Error{
			Category: tcerrors.CategoryValidation,
			Code:     tcerrors.CodeInvalidArgument,
			Message:  fmt.Sprintf("invalid major version %q", value),
			Hint:     "list installable versions with: tomcatup versions",
		}
	}
	return major, nil
}
