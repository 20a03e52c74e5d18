package ui

import (
	"fmt"
	"io"
)

// PrintInstallSummary reports a finished installation.
func PrintInstallSummary(w io.Writer, version, installDir, service, status string, warnings []string) {
	style := NewStyle()

	fmt.Fprintln(w)
	style.Header.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %s Installed Tomcat %s\n", style.SuccessMark, version)
	fmt.Fprintf(w, "    directory: %s\n", style.Path.Sprint(installDir))
	fmt.Fprintf(w, "    service:   %s.service (%s)\n", service, status)

	for _, warning := range warnings {
		fmt.Fprintf(w, "  %s %s\n", style.WarnMark, warning)
	}

	fmt.Fprintln(w)
	if len(warnings) == 0 {
		style.Success.Fprintln(w, "Install complete!")
	} else {
		style.Success.Fprintln(w, "Install complete (with warnings)")
	}
}

// PrintUninstallSummary reports a finished uninstall.
func PrintUninstallSummary(w io.Writer, major int) {
	style := NewStyle()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Tomcat %d uninstalled\n", style.SuccessMark, major)
}
