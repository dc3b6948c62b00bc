package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tunneldash/tunneldash/internal/core"
)

const minChartHeight = 3

// Fixed rows around the chart: header, separator, marker, axis, legend,
// summary, status, footer.
const chromeHeight = 8

func (m Model) View() string {
	if m.width == 0 {
		return "starting…"
	}
	if m.showHelp {
		return m.renderHelpScreen()
	}

	sections := []string{
		m.renderHeader(m.width),
		dimStyle.Render(strings.Repeat("─", m.width)),
		m.renderBody(),
		m.markerRow(m.width),
		m.axisRow(m.width),
		m.renderLegend(m.width),
		m.renderSummary(m.width),
		m.renderStatus(m.width),
		m.renderFooter(m.width),
	}
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.showDetail && m.cursor < len(m.rows) {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderDetail())
	}
	return view
}

func (m Model) chartHeight() int {
	h := m.height - chromeHeight
	if h < minChartHeight {
		h = minChartHeight
	}
	return h
}

func (m Model) renderBody() string {
	h := m.chartHeight()
	switch {
	case m.err != nil:
		return m.centered(h, errorStyle.Render("panel error: ")+valueStyle.Render(m.err.Error()))
	case !m.hasData:
		return m.centered(h, dimStyle.Render("waiting for panel data…"))
	case len(m.rows) == 0:
		return m.centered(h, dimStyle.Render("no usage recorded in this range"))
	default:
		return m.renderChart(m.width, h)
	}
}

func (m Model) centered(h int, content string) string {
	return lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderHeader(w int) string {
	scope := "Nodes"
	if m.scope == core.ScopeAdmins {
		scope = "Admins"
	}

	rangeLabel := m.selection.Shortcut.Label()
	if m.selection.Custom {
		rangeLabel = m.selection.CustomFrom.Format("2006-01-02") + " → " + m.selection.CustomTo.Format("2006-01-02")
	}

	left := headerBrandStyle.Render("tunneldash") +
		dimStyle.Render("  │  ") +
		sectionHeaderStyle.Render(scope) +
		dimStyle.Render("  │  ") +
		headerStyle.Render(rangeLabel)

	right := ""
	if m.refreshing {
		right = dimStyle.Render(spinnerFrames[m.animFrame%len(spinnerFrames)] + " refreshing")
	}

	pad := w - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

func (m Model) renderSummary(w int) string {
	if len(m.rows) == 0 {
		return ""
	}
	row := m.rows[m.cursor]

	summary := labelStyle.Render("Total ") +
		totalStyle.Render(formatGB(m.totalGB)) +
		dimStyle.Render(fmt.Sprintf("  ·  %d buckets of one %s", len(m.rows), m.qrange.Granularity))

	selected := labelStyle.Render("  ·  selected ") +
		valueStyle.Render(row.TimeLabel) +
		labelStyle.Render(" ") +
		valueStyle.Render(formatGB(row.TotalGB))

	line := summary + selected
	if lipgloss.Width(line) > w {
		return summary
	}
	return line
}

func (m Model) renderStatus(w int) string {
	if m.rangeEditing {
		return labelStyle.Render("custom range: ") +
			valueStyle.Render(m.rangeInput) +
			helpKeyStyle.Render("█") +
			helpStyle.Render("  (YYYY-MM-DD YYYY-MM-DD, enter to apply, esc to cancel)")
	}
	if m.status == "" {
		return ""
	}
	return openBucketStyle.Render(m.status)
}

func (m Model) renderFooter(w int) string {
	keys := []struct{ key, desc string }{
		{"t", "range"},
		{"c", "custom"},
		{"s", "scope"},
		{"←/→", "bucket"},
		{"enter", "detail"},
		{"r", "refresh"},
		{"?", "help"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k.key)+helpStyle.Render(" "+k.desc))
	}
	return helpStyle.Render(strings.Join(parts, helpStyle.Render("  ·  ")))
}

func (m Model) renderHelpScreen() string {
	rows := []struct{ key, desc string }{
		{"t", "cycle the time range shortcut (1h → 6h → 24h → 3d → 1w → 2w → 1m → all)"},
		{"c", "type a custom date range (YYYY-MM-DD YYYY-MM-DD)"},
		{"s", "switch between node and admin breakdowns"},
		{"← / →, h / l", "move the bucket cursor (steps through buckets inside the detail view)"},
		{"g / G", "jump to the first / last bucket"},
		{"enter / click", "open the drill-down for the selected bucket"},
		{"esc", "close the detail view or this help"},
		{"r", "refresh now"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("tunneldash keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n", helpKeyStyle.Render(fmt.Sprintf("%-14s", r.key)), labelStyle.Render(r.desc)))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("press ? or esc to go back"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(b.String()))
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func formatGB(v float64) string {
	return fmt.Sprintf("%.2f GB", v)
}

// formatBytes renders a raw byte count in the closest binary unit.
func formatBytes(v float64) string {
	switch {
	case v >= 1<<30:
		return fmt.Sprintf("%.2f GB", v/float64(1<<30))
	case v >= 1<<20:
		return fmt.Sprintf("%.1f MB", v/float64(1<<20))
	case v >= 1<<10:
		return fmt.Sprintf("%.1f KB", v/float64(1<<10))
	default:
		return fmt.Sprintf("%.0f B", v)
	}
}
