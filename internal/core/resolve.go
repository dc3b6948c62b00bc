package core

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned when a custom range has From after To. That is
// a caller bug, not a data anomaly, so it is the one condition the resolver
// rejects instead of degrading.
var ErrInvalidRange = errors.New("custom range start is after its end")

// ResolveRange turns a selection into the concrete query window and bucket
// granularity handed to the fetch layer. now is passed explicitly so the
// resolver stays pure.
func ResolveRange(sel Selection, now time.Time) (QueryRange, error) {
	if sel.Custom {
		return resolveCustomRange(sel.CustomFrom, sel.CustomTo, now)
	}
	return resolveShortcutRange(sel.Shortcut, now), nil
}

func resolveShortcutRange(sc Shortcut, now time.Time) QueryRange {
	qr := QueryRange{
		EndInstant:  now,
		Granularity: sc.Granularity(),
		Now:         now,
	}
	if sc != ShortcutAll {
		qr.StartInstant = now.Add(-sc.Duration())
	}
	// A shortcut range always ends at "now", so with day buckets the last
	// bucket is still filling.
	qr.OpenBucket = qr.Granularity == GranularityDay
	return qr
}

func resolveCustomRange(from, to, now time.Time) (QueryRange, error) {
	if from.After(to) {
		return QueryRange{}, ErrInvalidRange
	}

	end := to
	open := false
	switch {
	case sameDay(to, now):
		// Clamp "today" to end-of-day rather than the current instant, so
		// the still-accumulating bucket does not disappear when the same
		// range is re-queried seconds later.
		end = endOfDay(now)
		open = true
	case to.After(now):
		end = now
		open = true
	}

	qr := QueryRange{
		StartInstant: from,
		EndInstant:   end,
		Granularity:  granularityForSpan(end.Sub(from)),
		Now:          now,
	}
	qr.OpenBucket = open && qr.Granularity == GranularityDay
	return qr, nil
}

// granularityForSpan is the single span-to-bucket policy shared by shortcut
// and custom ranges. Spans past 30 days stay at day buckets; the tick
// calculator compensates with heavier label skipping.
func granularityForSpan(span time.Duration) Granularity {
	switch {
	case span <= 2*time.Hour:
		return GranularityMinute
	case span <= 48*time.Hour:
		return GranularityHour
	default:
		return GranularityDay
	}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
