package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tomcatup/tomcatup/internal/config"
	"github.com/tomcatup/tomcatup/internal/dist"
	"github.com/tomcatup/tomcatup/internal/state"
	"github.com/tomcatup/tomcatup/internal/ui"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List installable Tomcat major versions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		w := cmd.OutOrStdout()

		settings, err := config.LoadSettings(config.DefaultConfigPath)
		if err != nil {
			return err
		}

		resolver := dist.NewResolver(dist.WithBaseURL(settings.MirrorURL))
		majors, err := resolver.AvailableMajors(ctx)
		if err != nil {
			return err
		}

		installed := make(map[int]bool)
		for _, m := range state.InstalledMajors(settings.InstallRoot) {
			installed[m] = true
		}

		style := ui.NewStyle()
		style.Header.Fprintln(w, "Available Tomcat versions:")
		for _, major := range majors {
			latest, err := resolver.LatestVersion(ctx, major)
			if err != nil {
				// A major line without a release listing is skipped, not fatal.
				continue
			}
			mark := " "
			if installed[major] {
				mark = style.SuccessMark
			}
			fmt.Fprintf(w, "  %s %2d  (latest: %s)\n", mark, major, latest)
		}
		return nil
	},
}
