package tui

import (
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tunneldash/tunneldash/internal/core"
)

const barGap = 1

// barSectionWidth is the horizontal footprint of one bucket: the bar plus the
// gap to its neighbor. Mouse hit testing and the axis row both derive their
// column positions from it, so it is the single source of chart geometry.
func (m Model) barSectionWidth() int {
	n := len(m.rows)
	if n == 0 || m.width <= 0 {
		return 2
	}
	section := m.width / n
	if section < 2 {
		section = 2
	}
	return section
}

// bucketAt maps a terminal column to the bucket rendered there.
func (m Model) bucketAt(x int) (int, bool) {
	if len(m.rows) == 0 || x < 0 {
		return 0, false
	}
	idx := x / m.barSectionWidth()
	if idx >= len(m.rows) {
		return 0, false
	}
	return idx, true
}

func (m Model) renderChart(w, h int) string {
	barWidth := m.barSectionWidth() - barGap

	bc := barchart.New(w, h,
		barchart.WithNoAxis(),
		barchart.WithBarWidth(barWidth),
		barchart.WithBarGap(barGap),
	)
	bc.PushAll(m.barData())
	bc.Draw()
	return bc.View()
}

// barData turns chart rows into stacked bars: one segment per known entity,
// or a single segment carrying the bucket total when the panel reported no
// breakdown.
func (m Model) barData() []barchart.BarData {
	data := make([]barchart.BarData, 0, len(m.rows))
	for _, row := range m.rows {
		values := make([]barchart.BarValue, 0, max(len(m.entities), 1))
		if len(m.entities) == 0 {
			values = append(values, barchart.BarValue{
				Name:  "total",
				Value: row.TotalGB,
				Style: totalStyle,
			})
		} else {
			for _, ent := range m.entities {
				values = append(values, barchart.BarValue{
					Name:  ent.Name,
					Value: row.UsageGB[ent.Name],
					Style: entityStyle(ent.ColorIndex),
				})
			}
		}
		data = append(data, barchart.BarData{Values: values})
	}
	return data
}

// axisRow renders the time labels under the chart, thinned so they stay
// readable regardless of how many buckets the range produced.
func (m Model) axisRow(w int) string {
	stride := core.TickStride(len(m.rows), m.viewportClass(), m.selection)
	section := m.barSectionWidth()

	var b strings.Builder
	pos := 0
	for i, row := range m.rows {
		if stride > 0 && i%(stride+1) != 0 {
			continue
		}
		start := i * section
		if pos > 0 && start < pos+1 {
			continue // would collide with the previous label
		}
		if start >= w {
			break
		}

		style := labelStyle
		if m.qrange.IsOpenBucket(row.PeriodStart) {
			style = openBucketStyle
		}
		b.WriteString(strings.Repeat(" ", start-pos))
		b.WriteString(style.Render(row.TimeLabel))
		pos = start + lipgloss.Width(row.TimeLabel)
	}
	return ansi.Truncate(b.String(), w, "")
}

// markerRow draws the cursor caret under the selected bar.
func (m Model) markerRow(w int) string {
	if len(m.rows) == 0 {
		return ""
	}
	section := m.barSectionWidth()
	col := m.cursor*section + (section-barGap)/2
	if col >= w {
		col = w - 1
	}
	return strings.Repeat(" ", col) + selectedMarkerStyle.Render("▲")
}

func (m Model) renderLegend(w int) string {
	if len(m.entities) == 0 {
		return dimStyle.Render("aggregate usage, no per-entity breakdown")
	}
	parts := make([]string, 0, len(m.entities))
	for _, ent := range m.entities {
		parts = append(parts, entityStyle(ent.ColorIndex).Render("■")+" "+labelStyle.Render(ent.Name))
	}
	return ansi.Truncate(strings.Join(parts, "   "), w, "…")
}
