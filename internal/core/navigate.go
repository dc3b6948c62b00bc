package core

import "time"

// Click identifies a clicked chart bucket. Index is preferred when the
// rendering layer supplied one; a negative Index falls back to matching
// PeriodStart exactly.
type Click struct {
	Index       int
	PeriodStart time.Time
}

// ResolveClickedRow maps a click to a row for the drill-down modal. It
// reports false when the click matches nothing, and also when the matched
// bucket carries no usage at all: an all-zero bucket has nothing to show, so
// no drill-down opens.
func ResolveClickedRow(rows []ChartRow, click Click) (ChartRow, int, bool) {
	idx := -1
	switch {
	case click.Index >= 0 && click.Index < len(rows):
		idx = click.Index
	case !click.PeriodStart.IsZero():
		for i, r := range rows {
			if r.PeriodStart.Equal(click.PeriodStart) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return ChartRow{}, -1, false
	}
	if rowIsZero(rows[idx]) {
		return ChartRow{}, -1, false
	}
	return rows[idx], idx, true
}

// Navigate moves the drill-down cursor by delta, clamped to the row sequence.
// It never wraps.
func Navigate(rows []ChartRow, current, delta int) (ChartRow, int) {
	if len(rows) == 0 {
		return ChartRow{}, -1
	}
	idx := current + delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(rows)-1 {
		idx = len(rows) - 1
	}
	return rows[idx], idx
}

func rowIsZero(r ChartRow) bool {
	if r.TotalGB != 0 {
		return false
	}
	for _, v := range r.UsageGB {
		if v != 0 {
			return false
		}
	}
	for _, v := range r.UplinkBytes {
		if v != 0 {
			return false
		}
	}
	for _, v := range r.DownlinkBytes {
		if v != 0 {
			return false
		}
	}
	return true
}
