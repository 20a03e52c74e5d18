//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats errors for CLI output.
type Formatter struct {
	NoColor bool
	Writer  io.Writer

	errorColor *color.Color
	codeColor  *color.Color
	hintColor  *color.Color
	dimColor   *color.Color
	gotColor   *color.Color
}

// NewFormatter creates a new Formatter.
func NewFormatter(w io.Writer, noColor bool) *Formatter {
	if noColor {
		color.NoColor = true
	}

	return &Formatter{
		NoColor:    noColor,
		Writer:     w,
		errorColor: color.New(color.FgRed, color.Bold),
		codeColor:  color.New(color.FgRed),
		hintColor:  color.New(color.FgGreen),
		dimColor:   color.New(color.FgHiBlack),
		gotColor:   color.New(color.FgRed),
	}
}

// Format formats an error for CLI display.
func (f *Formatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	var baseErr *Error
	if errors.As(err, &baseErr) {
		f.formatBaseError(&sb, baseErr)
	} else {
		// Fallback for plain errors
		sb.WriteString(f.errorColor.Sprint("Error: "))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// Print formats the error and writes it to the formatter's writer.
func (f *Formatter) Print(err error) {
	fmt.Fprint(f.Writer, f.Format(err))
}

func (f *Formatter) formatBaseError(sb *strings.Builder, err *Error) {
	sb.WriteString(f.errorColor.Sprint("Error"))
	if err.Code != "" {
		sb.WriteString(" ")
		sb.WriteString(f.codeColor.Sprintf("[%s]", err.Code))
	}
	sb.WriteString(f.errorColor.Sprint(": "))
	sb.WriteString(err.Message)
	sb.WriteString("\n")

	if len(err.Details) > 0 {
		keys := make([]string, 0, len(err.Details))
		for k := range err.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		width := 0
		for _, k := range keys {
			if len(k) > width {
				width = len(k)
			}
		}

		sb.WriteString("\n")
		for _, k := range keys {
			sb.WriteString("  ")
			sb.WriteString(f.dimColor.Sprintf("%-*s ", width+1, k+":"))
			fmt.Fprintf(sb, "%v", err.Details[k])
			sb.WriteString("\n")
		}
	}

	if err.Cause != nil {
		sb.WriteString("\n  ")
		sb.WriteString(f.dimColor.Sprint("Cause: "))
		sb.WriteString(err.Cause.Error())
		sb.WriteString("\n")
	}

	if err.Hint != "" {
		sb.WriteString("\n")
		sb.WriteString(f.hintColor.Sprint("Hint: "))
		lines := strings.Split(err.Hint, "\n")
		sb.WriteString(lines[0])
		sb.WriteString("\n")
		for _, line := range lines[1:] {
			sb.WriteString("      ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
}
