package main

import (
	tcerrors "github.com/tomcatup/tomcatup/internal/errors"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <major>",
	Short: "Remove an installed Tomcat major version",
	Long: `Uninstall stops and removes the systemd service, deletes the
dedicated system account, and removes the installation directory.
The shared temp directory is kept while other major versions remain.

  tomcatup uninstall 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		major, err := parseMajorArg(args)
		if err != nil {
			return err
		}
		if major == 0 {
			return &tcerrors.Error{
				Category: tcerrors.CategoryValidation,
				Code:     tcerrors.CodeMissingArgument,
				Message:  "no Tomcat version given",
				Hint:     "pass the major version to remove, e.g. tomcatup uninstall 10",
			}
		}
		return runUninstall(cmd.Context(), major, cmd.OutOrStdout())
	},
}
