package core

import (
	"log"
	"sort"
	"time"

	"github.com/samber/lo"
)

// Normalize merges the panel's possibly-misaligned usage series into a dense,
// time-ordered row sequence: one row per distinct bucket, one value per known
// entity in every row, zeros where the panel reported nothing for that
// entity/bucket pair. A nil or empty response yields an empty slice, never an
// error.
func Normalize(qr QueryRange, stats Stats, entities []KnownEntity, loc Locale) []ChartRow {
	switch s := stats.(type) {
	case PerEntityStats:
		return normalizePerEntity(qr, s, entities, loc)
	case AggregateStats:
		return Distribute(qr, s.Points, entities, loc)
	default:
		return nil
	}
}

func normalizePerEntity(qr QueryRange, stats PerEntityStats, entities []KnownEntity, loc Locale) []ChartRow {
	if stats.Empty() {
		return nil
	}

	knownByID := make(map[string]KnownEntity, len(entities))
	for _, e := range entities {
		knownByID[e.ID] = e
	}

	// Per entity, index samples by bucket start. Buckets are expected to be
	// aligned by the panel, so lookup is exact-match only; duplicate starts
	// within one series are summed rather than trusted to be unique.
	byEntity := make(map[string]map[int64]UsagePoint, len(stats.Series))
	bucketSet := make(map[int64]time.Time)
	for id, points := range stats.Series {
		if len(points) == 0 {
			continue
		}
		// The bucket union spans every reported series, so a bucket seen only
		// on an unknown entity still produces a (zero-filled) row.
		for _, p := range points {
			bucketSet[p.PeriodStart.UnixNano()] = p.PeriodStart
		}
		if _, ok := knownByID[id]; !ok {
			log.Printf("normalize: skipping usage for unknown entity %q", id)
			continue
		}
		idx := make(map[int64]UsagePoint, len(points))
		for _, p := range points {
			key := p.PeriodStart.UnixNano()
			merged := idx[key]
			merged.PeriodStart = p.PeriodStart
			merged.UplinkBytes += p.UplinkBytes
			merged.DownlinkBytes += p.DownlinkBytes
			merged.TotalBytes += p.TotalBytes
			idx[key] = merged
		}
		byEntity[id] = idx
	}

	keys := lo.Keys(bucketSet)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	rows := make([]ChartRow, 0, len(keys))
	for _, key := range keys {
		start := bucketSet[key]
		row := ChartRow{
			PeriodStart:   start,
			TimeLabel:     FormatLabel(start, qr.Granularity, loc, qr.OpenBucketClock(start)),
			UsageGB:       make(map[string]float64, len(entities)),
			UplinkBytes:   make(map[string]float64, len(entities)),
			DownlinkBytes: make(map[string]float64, len(entities)),
		}
		for _, e := range entities {
			var gb, up, down float64
			if p, ok := byEntity[e.ID][key]; ok {
				gb = float64(p.Total()) / bytesPerGB
				up = float64(p.UplinkBytes)
				down = float64(p.DownlinkBytes)
			}
			row.UsageGB[e.Name] = gb
			row.UplinkBytes[e.Name] = up
			row.DownlinkBytes[e.Name] = down
			row.TotalGB += gb
		}
		rows = append(rows, row)
	}
	return rows
}
