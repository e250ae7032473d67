package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"worktrack/internal/models"
)

// Separator closes every statistics block
const Separator = "----------------------------------------"

// Styles colors the console output. Rendering through a renderer bound to a
// non-terminal writer yields plain text.
type Styles struct {
	Rate      lipgloss.Style
	Hours     lipgloss.Style
	Separator lipgloss.Style
	Header    lipgloss.Style
}

// NewStyles binds the palette to w's color profile
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Rate:      r.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Hours:     r.NewStyle().Foreground(lipgloss.Color("#F7DC6F")),
		Separator: r.NewStyle().Foreground(lipgloss.Color("#626262")),
		Header:    r.NewStyle().Foreground(lipgloss.Color("#874BFD")).Bold(true),
	}
}

var plain = NewStyles(io.Discard)

// FormatText renders the statistics block as plain text
func FormatText(stats *models.Statistics) string {
	return Render(stats, plain)
}

// Render renders the statistics block with the given styles
func Render(stats *models.Statistics, st Styles) string {
	rows := []struct {
		label string
		rate  float64
		hours float64
	}{
		{"today", stats.Day, stats.DayHours},
		{"this week", stats.Week, stats.WeekHours},
		{"this month", stats.Month, stats.MonthHours},
		{"this year", stats.Year, stats.YearHours},
	}

	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s (%s hours worked so far)\n",
			st.Rate.Render(fmt.Sprintf("$%.2f/hr", row.rate)),
			row.label,
			st.Hours.Render(fmt.Sprintf("%.2f", row.hours)))
	}
	b.WriteString(st.Separator.Render(Separator))
	return b.String()
}

// FormatProjects renders a per-project report as a table
func FormatProjects(report *models.ProjectReport) string {
	return RenderProjects(report, plain)
}

// RenderProjects renders a per-project report with the given styles
func RenderProjects(report *models.ProjectReport, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Header.Render(fmt.Sprintf("Project Report - %s", report.Period.Type)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total Time: %.2fh\n\n", report.TotalHours)

	if len(report.Projects) == 0 {
		b.WriteString("No sessions recorded for this period.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-30s %10s %10s %10s\n", "Project", "Hours", "Sessions", "Percent")
	b.WriteString(st.Separator.Render(strings.Repeat("-", 63)))
	b.WriteString("\n")
	for _, p := range report.Projects {
		fmt.Fprintf(&b, "%-30s %10.2f %10d %9.1f%%\n",
			truncate(p.Project, 30),
			p.TotalHours,
			p.SessionCount,
			p.Percentage)
	}
	return b.String()
}

// FormatJSON formats any report value as indented JSON
func FormatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
