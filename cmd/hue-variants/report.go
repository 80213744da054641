package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ironsheep/hue-variants/internal/pipeline"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// renderSummary formats a batch summary for the terminal.
func renderSummary(s *pipeline.Summary) string {
	lines := []string{
		headerStyle.Render(fmt.Sprintf("hue-variants run %s", s.RunID)),
	}

	if s.Tasks == 0 && len(s.Failures) == 0 {
		lines = append(lines, dimStyle.Render("nothing to do"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, img := range s.Images {
		status := okStyle.Render("done")
		switch {
		case img.Err != nil:
			status = errStyle.Render("error")
		case !img.Complete():
			status = warnStyle.Render("incomplete")
		}
		lines = append(lines, fmt.Sprintf("  %-24s %s  generated %d  skipped %d  failed %d",
			img.Name, status, img.Generated, img.Skipped, img.Failed+img.Cancelled))
	}

	lines = append(lines, dimStyle.Render(fmt.Sprintf(
		"  %d tasks, %d color transforms, %d cache hits",
		s.Tasks, s.Transforms, s.CacheHits)))

	if len(s.Failures) > 0 {
		lines = append(lines, errStyle.Render(fmt.Sprintf("%d failure(s):", len(s.Failures))))
		for _, f := range s.Failures {
			what := f.Source
			if f.Task != "" {
				what = f.Task
			}
			lines = append(lines, "  "+what+": "+firstLine(f.Err))
		}
	} else {
		lines = append(lines, okStyle.Render("all variants complete"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// firstLine trims panic stacks and other multi-line errors for display.
func firstLine(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
