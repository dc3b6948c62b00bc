package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunneldash/tunneldash/internal/core"
)

func modelWithHourRows(t *testing.T, n, width int) Model {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]core.ChartRow, 0, n)
	for i := range n {
		start := base.Add(time.Duration(i) * time.Hour)
		rows = append(rows, core.ChartRow{
			PeriodStart: start,
			TimeLabel:   start.Format("15:04"),
			UsageGB:     map[string]float64{"node-a": 1},
			TotalGB:     1,
		})
	}

	m := NewModel(core.Shortcut24h, core.ScopeNodes, core.LocaleEnglish)
	m = updatedModel(t, m, tea.WindowSizeMsg{Width: width, Height: 30})
	m = updatedModel(t, m, UsageMsg{
		Selection: core.Selection{Shortcut: core.Shortcut24h},
		Scope:     core.ScopeNodes,
		Range:     core.QueryRange{Granularity: core.GranularityHour},
		Entities:  []core.KnownEntity{{ID: "n1", Name: "node-a"}},
		Rows:      rows,
		TotalGB:   float64(n),
	})
	return m
}

func TestAxisRowThinsLabels(t *testing.T) {
	m := modelWithHourRows(t, 24, 120)

	row := m.axisRow(m.width)
	labels := strings.Fields(stripANSI(row))
	if len(labels) == 0 {
		t.Fatal("axis row is empty")
	}
	if len(labels) > 8 {
		t.Errorf("axis shows %d labels, want at most 8", len(labels))
	}
	if labels[0] != "00:00" {
		t.Errorf("first label = %q, want 00:00", labels[0])
	}
}

func TestAxisRowNarrowViewportTightensBudget(t *testing.T) {
	m := modelWithHourRows(t, 24, 60)

	labels := strings.Fields(stripANSI(m.axisRow(m.width)))
	if len(labels) > 5 {
		t.Errorf("narrow axis shows %d labels, want at most 5", len(labels))
	}
}

func TestViewportClassBoundary(t *testing.T) {
	m := NewModel(core.Shortcut24h, core.ScopeNodes, core.LocaleEnglish)

	m.width = narrowWidth - 1
	if got := m.viewportClass(); got != core.ViewportNarrow {
		t.Errorf("viewportClass at %d = %q, want narrow", m.width, got)
	}
	m.width = narrowWidth
	if got := m.viewportClass(); got != core.ViewportWide {
		t.Errorf("viewportClass at %d = %q, want wide", m.width, got)
	}
}

func TestBucketAtRoundTripsSections(t *testing.T) {
	m := modelWithHourRows(t, 6, 60)
	section := m.barSectionWidth()

	for want := range 6 {
		got, ok := m.bucketAt(want * section)
		if !ok {
			t.Fatalf("bucketAt(%d) not ok", want*section)
		}
		if got != want {
			t.Errorf("bucketAt(%d) = %d, want %d", want*section, got, want)
		}
	}
	if _, ok := m.bucketAt(m.width + 10); ok {
		t.Error("bucketAt past the chart reported a bucket")
	}
}

func TestBarDataStacksEntities(t *testing.T) {
	m := NewModel(core.Shortcut24h, core.ScopeNodes, core.LocaleEnglish)
	m = updatedModel(t, m, testUsageMsg())

	data := m.barData()
	if len(data) != 3 {
		t.Fatalf("bar count = %d, want 3", len(data))
	}
	if len(data[0].Values) != 2 {
		t.Fatalf("segments = %d, want one per entity", len(data[0].Values))
	}
	if data[0].Values[0].Name != "node-a" || data[0].Values[0].Value != 1.5 {
		t.Errorf("first segment = %+v", data[0].Values[0])
	}
}

func TestBarDataAggregateFallsBackToTotal(t *testing.T) {
	msg := testUsageMsg()
	msg.Entities = nil

	m := NewModel(core.Shortcut24h, core.ScopeNodes, core.LocaleEnglish)
	m = updatedModel(t, m, msg)

	data := m.barData()
	if len(data[0].Values) != 1 {
		t.Fatalf("segments = %d, want a single total segment", len(data[0].Values))
	}
	if data[0].Values[0].Value != 2.0 {
		t.Errorf("total segment = %v, want 2.0", data[0].Values[0].Value)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 << 20, "5.0 MB"},
		{float64(3) * (1 << 30), "3.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// stripANSI removes escape sequences so tests can compare plain text.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
