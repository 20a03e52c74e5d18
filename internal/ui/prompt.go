package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// IsInteractive reports whether prompts can be shown: stdin and stdout
// both have to be terminals.
func IsInteractive() bool {
	return (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

// Prompter asks questions on w and reads answers from r.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewPrompter creates a Prompter.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Ask prints the question and returns the trimmed answer line.
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.w, "%s ", question)
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Only "y" and "yes" count as yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// AskConflict presents the existing-installation choices and returns the
// raw answer for the conflict checker to interpret.
func (p *Prompter) AskConflict(installDir string) (string, error) {
	style := NewStyle()

	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "%s An installation already exists at %s\n",
		style.WarnMark, style.Path.Sprint(installDir))
	fmt.Fprintln(p.w, "  1) uninstall it completely and exit")
	fmt.Fprintln(p.w, "  2) stop the running service and exit (files untouched)")
	return p.Ask("choice:")
}
