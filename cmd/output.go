package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/c12i/scaffolding/core/generator"
	"github.com/c12i/scaffolding/core/logger"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	insertedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	splicedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	unchangedStyle = lipgloss.NewStyle().Faint(true)
)

func printResult(out io.Writer, what string, res *generator.Result) {
	report := res.Scaffolded.Report
	header := fmt.Sprintf("Scaffolded %s with template %s", what, res.Template)
	if dryRun {
		header += " (dry run)"
	}
	fmt.Fprintln(out, titleStyle.Render(header))

	for _, p := range report.Inserted {
		fmt.Fprintln(out, insertedStyle.Render("  + "+p))
	}
	for _, p := range report.Spliced {
		fmt.Fprintln(out, splicedStyle.Render("  ~ "+p))
	}
	for _, p := range report.Unchanged {
		fmt.Fprintln(out, unchangedStyle.Render("  = "+p))
	}

	if res.Scaffolded.NextInstructions != "" {
		fmt.Fprintln(out)
		fmt.Fprint(out, renderMarkdown(res.Scaffolded.NextInstructions))
	}
}

// renderMarkdown falls back to the raw text when the terminal renderer
// cannot be built.
func renderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		logger.Debug("Failed to build markdown renderer: %v", err)
		return md + "\n"
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		logger.Debug("Failed to render instructions: %v", err)
		return md + "\n"
	}
	if strings.TrimSpace(rendered) == "" {
		return md + "\n"
	}
	return rendered
}
