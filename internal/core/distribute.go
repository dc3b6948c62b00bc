package core

import "sort"

// Distribute synthesizes dense rows from an aggregate-only response by
// splitting each bucket's usage evenly across the known entities. The panel
// could not say which entity produced the traffic, so an even split keeps the
// stacked chart populated; the values are a presentation approximation, not a
// per-entity measurement, and must never be read as one.
//
// With no known entities the divisor clamps to 1 and the bucket total is
// carried undivided on the row, attributed to no named series.
func Distribute(qr QueryRange, points []UsagePoint, entities []KnownEntity, loc Locale) []ChartRow {
	if len(points) == 0 {
		return nil
	}

	// Same defensive merge as the per-entity path: duplicate bucket starts
	// are summed, then buckets are ordered.
	merged := make(map[int64]UsagePoint, len(points))
	for _, p := range points {
		key := p.PeriodStart.UnixNano()
		m := merged[key]
		m.PeriodStart = p.PeriodStart
		m.UplinkBytes += p.UplinkBytes
		m.DownlinkBytes += p.DownlinkBytes
		m.TotalBytes += p.TotalBytes
		merged[key] = m
	}
	keys := make([]int64, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	divisor := float64(len(entities))
	if divisor < 1 {
		divisor = 1
	}

	rows := make([]ChartRow, 0, len(keys))
	for _, key := range keys {
		p := merged[key]
		shareGB := float64(p.Total()) / divisor / bytesPerGB
		shareUp := float64(p.UplinkBytes) / divisor
		shareDown := float64(p.DownlinkBytes) / divisor

		row := ChartRow{
			PeriodStart:   p.PeriodStart,
			TimeLabel:     FormatLabel(p.PeriodStart, qr.Granularity, loc, qr.OpenBucketClock(p.PeriodStart)),
			UsageGB:       make(map[string]float64, len(entities)),
			UplinkBytes:   make(map[string]float64, len(entities)),
			DownlinkBytes: make(map[string]float64, len(entities)),
			TotalGB:       float64(p.Total()) / bytesPerGB,
		}
		for _, e := range entities {
			row.UsageGB[e.Name] = shareGB
			row.UplinkBytes[e.Name] = shareUp
			row.DownlinkBytes[e.Name] = shareDown
		}
		rows = append(rows, row)
	}
	return rows
}
