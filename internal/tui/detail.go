package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/tunneldash/tunneldash/internal/core"
)

const detailNameWidth = 20

// renderDetail builds the drill-down card for the selected bucket: every
// known entity with its share of the bucket, heaviest first.
func (m Model) renderDetail() string {
	row := m.rows[m.cursor]

	var b strings.Builder
	b.WriteString(headerStyle.Render(row.TimeLabel))
	if m.qrange.IsOpenBucket(row.PeriodStart) {
		b.WriteString(openBucketStyle.Render("  (still accumulating)"))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(row.PeriodStart.UTC().Format("2006-01-02 15:04 MST")))
	b.WriteString("\n\n")

	if len(m.entities) == 0 {
		b.WriteString(labelStyle.Render("aggregate usage  "))
		b.WriteString(totalStyle.Render(formatGB(row.TotalGB)))
		b.WriteString("\n")
	} else {
		for _, ent := range m.sortedByUsage(row) {
			name := ansi.Truncate(ent.Name, detailNameWidth, "…")
			line := entityStyle(ent.ColorIndex).Render("■") +
				fmt.Sprintf(" %-*s ", detailNameWidth, name) +
				valueStyle.Render(fmt.Sprintf("%10s", formatGB(row.UsageGB[ent.Name])))

			up := row.UplinkBytes[ent.Name]
			down := row.DownlinkBytes[ent.Name]
			if up > 0 || down > 0 {
				line += dimStyle.Render(fmt.Sprintf("  ↑%s ↓%s", formatBytes(up), formatBytes(down)))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %-*s ", detailNameWidth+1, "total")))
		b.WriteString(totalStyle.Render(fmt.Sprintf("%10s", formatGB(row.TotalGB))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ adjacent bucket  ·  esc close"))

	return modalStyle.Render(b.String())
}

// sortedByUsage orders entities by their share of the bucket, heaviest first,
// with name as the tie-breaker so equal shares render in a stable order.
func (m Model) sortedByUsage(row core.ChartRow) []core.KnownEntity {
	ents := make([]core.KnownEntity, len(m.entities))
	copy(ents, m.entities)
	sort.SliceStable(ents, func(i, j int) bool {
		a, b := row.UsageGB[ents[i].Name], row.UsageGB[ents[j].Name]
		if a != b {
			return a > b
		}
		return ents[i].Name < ents[j].Name
	})
	return ents
}
