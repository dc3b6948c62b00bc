package core

import "time"

// ViewportClass is a coarse width bucket for the rendering surface; the tick
// calculator only needs to know whether labels are cramped.
type ViewportClass string

const (
	ViewportNarrow ViewportClass = "narrow"
	ViewportWide   ViewportClass = "wide"
)

const (
	maxAxisLabels       = 8
	maxAxisLabelsNarrow = 5
	maxAxisLabelsWeek   = 6 // custom spans past a week
	maxAxisLabelsMonth  = 4 // custom spans past thirty days
)

// TickStride picks how many axis labels to skip between rendered ones so the
// visible count stays within a small bound no matter how many buckets the
// range produced. 0 means every tick is labeled; a stride of n shows every
// (n+1)th label.
func TickStride(rowCount int, vp ViewportClass, sel Selection) int {
	if rowCount <= 0 {
		return 0
	}

	target := maxAxisLabels
	if vp == ViewportNarrow {
		target = maxAxisLabelsNarrow
	}

	// Long custom ranges produce day buckets well past what the shortcut
	// table ever yields, so they get a coarser label budget on top.
	if sel.Custom {
		span := sel.CustomTo.Sub(sel.CustomFrom)
		switch {
		case span > 30*24*time.Hour:
			target = min(target, maxAxisLabelsMonth)
		case span > 7*24*time.Hour:
			target = min(target, maxAxisLabelsWeek)
		}
	}

	if rowCount <= target {
		return 0
	}
	return (rowCount + target - 1) / target
}
