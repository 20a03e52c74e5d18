package main

import (
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install [major]",
	Short: "Install the latest release of a Tomcat major version",
	Long: `Install resolves the newest release of the given major version from
the Apache distribution index and provisions it as a systemd service.
Without an argument the available versions are offered interactively.

  tomcatup install 10
  tomcatup install --debug 11`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		major, err := parseMajorArg(args)
		if err != nil {
			return err
		}
		if major == 0 {
			if major, err = chooseMajor(cmd.Context(), cmd.OutOrStdout()); err != nil {
				return err
			}
		}
		return runInstall(cmd.Context(), major, cmd.OutOrStdout())
	},
}
