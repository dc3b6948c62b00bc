package panelapi

import (
	"time"

	"github.com/tunneldash/tunneldash/internal/core"
)

// aggregateKey is the panel's sentinel entity ID for "no breakdown
// available". It exists only on the wire; past this file the response is a
// tagged core.Stats and the sentinel never reappears.
const aggregateKey = "-1"

type wirePoint struct {
	PeriodStart   time.Time `json:"period_start"`
	UplinkBytes   int64     `json:"uplink_bytes"`
	DownlinkBytes int64     `json:"downlink_bytes"`
	TotalBytes    int64     `json:"total_bytes"`
}

// DecodeStats classifies a raw usage payload exactly once: it is a
// per-entity breakdown iff at least one non-sentinel series is non-empty,
// otherwise the sentinel series (possibly empty) is the aggregate. A nil or
// empty payload decodes to empty per-entity stats, which normalizes to no
// rows.
func DecodeStats(raw map[string][]wirePoint) core.Stats {
	series := make(map[string][]core.UsagePoint, len(raw))
	for id, points := range raw {
		if id == aggregateKey {
			continue
		}
		series[id] = toUsagePoints(points)
	}

	breakdown := false
	for _, pts := range series {
		if len(pts) > 0 {
			breakdown = true
			break
		}
	}
	if breakdown {
		return core.PerEntityStats{Series: series}
	}

	if agg, ok := raw[aggregateKey]; ok && len(agg) > 0 {
		return core.AggregateStats{Points: toUsagePoints(agg)}
	}
	return core.PerEntityStats{Series: series}
}

func toUsagePoints(points []wirePoint) []core.UsagePoint {
	out := make([]core.UsagePoint, 0, len(points))
	for _, p := range points {
		out = append(out, core.UsagePoint{
			PeriodStart:   p.PeriodStart,
			UplinkBytes:   p.UplinkBytes,
			DownlinkBytes: p.DownlinkBytes,
			TotalBytes:    p.TotalBytes,
		})
	}
	return out
}
