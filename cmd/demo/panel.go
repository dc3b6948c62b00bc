package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/tunneldash/tunneldash/internal/core"
)

// demoPanel fabricates plausible traffic curves. The nodes scope answers with
// a per-entity breakdown; the admins scope answers aggregate-only, the way an
// older panel build does, so both response shapes stay exercised.
type demoPanel struct {
	nodes  []core.KnownEntity
	admins []core.KnownEntity
}

func newDemoPanel() *demoPanel {
	return &demoPanel{
		nodes: []core.KnownEntity{
			{ID: "1", Name: "fra-edge-1", ColorIndex: 0},
			{ID: "2", Name: "fra-edge-2", ColorIndex: 1},
			{ID: "3", Name: "ams-relay", ColorIndex: 2},
			{ID: "4", Name: "sgp-exit", ColorIndex: 3},
		},
		admins: []core.KnownEntity{
			{ID: "10", Name: "root", ColorIndex: 0},
			{ID: "11", Name: "reseller-a", ColorIndex: 1},
			{ID: "12", Name: "reseller-b", ColorIndex: 2},
		},
	}
}

func (p *demoPanel) ListEntities(_ context.Context, scope core.Scope) ([]core.KnownEntity, error) {
	if scope == core.ScopeAdmins {
		return p.admins, nil
	}
	return p.nodes, nil
}

func (p *demoPanel) FetchUsage(_ context.Context, scope core.Scope, qr core.QueryRange) (core.Stats, error) {
	buckets := bucketStarts(qr)

	if scope == core.ScopeAdmins {
		points := make([]core.UsagePoint, 0, len(buckets))
		for _, start := range buckets {
			points = append(points, core.UsagePoint{
				PeriodStart: start,
				TotalBytes:  syntheticBytes(start, 0, qr.Granularity) * int64(len(p.admins)),
			})
		}
		return core.AggregateStats{Points: points}, nil
	}

	series := make(map[string][]core.UsagePoint, len(p.nodes))
	for i, node := range p.nodes {
		points := make([]core.UsagePoint, 0, len(buckets))
		for _, start := range buckets {
			total := syntheticBytes(start, i, qr.Granularity)
			points = append(points, core.UsagePoint{
				PeriodStart:   start,
				UplinkBytes:   total / 3,
				DownlinkBytes: total - total/3,
			})
		}
		series[node.ID] = points
	}
	return core.PerEntityStats{Series: series}, nil
}

func bucketStarts(qr core.QueryRange) []time.Time {
	step := time.Minute
	switch qr.Granularity {
	case core.GranularityHour:
		step = time.Hour
	case core.GranularityDay:
		step = 24 * time.Hour
	}

	start := qr.StartInstant
	if start.IsZero() {
		start = qr.EndInstant.Add(-90 * 24 * time.Hour)
	}
	start = start.Truncate(step)

	var out []time.Time
	for t := start; !t.After(qr.EndInstant); t = t.Add(step) {
		out = append(out, t)
	}
	return out
}

// syntheticBytes yields a stable pseudo-random value per bucket so the chart
// does not reshuffle on every refresh, with a daily wave so it looks like
// real traffic.
func syntheticBytes(start time.Time, seriesIndex int, g core.Granularity) int64 {
	rng := rand.New(rand.NewSource(start.Unix() + int64(seriesIndex)*7919))

	scale := int64(50 << 20) // minute buckets
	switch g {
	case core.GranularityHour:
		scale = 2 << 30
	case core.GranularityDay:
		scale = 40 << 30
	}

	// Quietest around 04:00, busiest in the evening.
	hourFactor := 0.3 + 0.7*float64((start.Hour()+20)%24)/23.0
	return int64(float64(scale)*hourFactor/2) + rng.Int63n(scale/2)
}
