package main

import (
	"flowdef/internal/core/app"
	"flowdef/internal/data/history"
	"flowdef/internal/engine/diag"
	"flowdef/internal/shared/util"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

func renderResult(res *app.Result, outputPath string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("flowdef"))
	b.WriteString(" ")
	b.WriteString(statusStyle.Render(fmt.Sprintf("run %s | %d inputs | %s",
		shortID(res.RunID.String()), res.Stats.Inputs, res.Stats.Duration.Round(time.Millisecond))))
	b.WriteString("\n")

	fmt.Fprintf(&b, "  wrote %s: %d modules, %d declarations, %d imports\n",
		outputPath, res.Stats.Modules, res.Stats.TotalDeclarations(), res.Stats.Imports)
	for _, bucket := range util.SortedStringKeys(res.Stats.Declarations) {
		if n := res.Stats.Declarations[bucket]; n > 0 {
			fmt.Fprintf(&b, "    %-12s %d\n", bucket, n)
		}
	}

	if len(res.Diagnostics) == 0 {
		b.WriteString(successStyle.Render("  no diagnostics"))
		return b.String()
	}

	b.WriteString(warningStyle.Render(fmt.Sprintf("  %d warning(s), %d info", res.Stats.Warnings, res.Stats.Infos)))
	for _, d := range res.Diagnostics {
		line := "    " + d.String()
		if d.Severity == diag.SeverityWarning {
			line = warningStyle.Render(line)
		} else {
			line = statusStyle.Render(line)
		}
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func renderHistory(runs []history.Run, sum history.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent conversions"))
	b.WriteString("\n")
	if len(runs) == 0 {
		b.WriteString(statusStyle.Render("  no runs recorded"))
		return b.String()
	}

	for _, r := range runs {
		outcome := successStyle.Render(r.Outcome)
		if r.Outcome != history.OutcomeOK {
			outcome = failureStyle.Render(r.Outcome)
		}
		fmt.Fprintf(&b, "  %s  %s  %-6s decls=%d warnings=%d %s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"), shortID(r.RunID), outcome,
			r.Declarations, r.Warnings, r.Duration.Round(time.Millisecond))
	}

	b.WriteString(statusStyle.Render(fmt.Sprintf("  %d runs, %d failed, avg %s, declarations %+d, warnings %+d",
		sum.Runs, sum.Failures, sum.AvgDuration.Round(time.Millisecond), sum.DeltaDecls, sum.DeltaWarnings)))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
