package core

import "time"

// Granularity is the bucket width the panel was asked to group usage by.
type Granularity string

const (
	GranularityMinute Granularity = "minute"
	GranularityHour   Granularity = "hour"
	GranularityDay    Granularity = "day"
)

// Scope selects which entity dimension usage is broken down by.
type Scope string

const (
	ScopeNodes  Scope = "nodes"
	ScopeAdmins Scope = "admins"
)

// UsagePoint is one sample returned by the panel: traffic attributed to one
// bucket. Either UplinkBytes/DownlinkBytes or TotalBytes is populated,
// depending on what the panel reports.
type UsagePoint struct {
	PeriodStart   time.Time `json:"period_start"`
	UplinkBytes   int64     `json:"uplink_bytes"`
	DownlinkBytes int64     `json:"downlink_bytes"`
	TotalBytes    int64     `json:"total_bytes"`
}

// Total returns the point's byte count regardless of which shape it carries.
func (p UsagePoint) Total() int64 {
	if p.TotalBytes > 0 {
		return p.TotalBytes
	}
	return p.UplinkBytes + p.DownlinkBytes
}

// Stats is the decoded panel response. The aggregate-vs-breakdown decision is
// made once, when the response is decoded, so consumers never inspect key
// sets to figure out which shape they were handed.
type Stats interface {
	statsTag()
}

// PerEntityStats carries a usage series per entity ID.
type PerEntityStats struct {
	Series map[string][]UsagePoint
}

// AggregateStats carries a single usage series with no entity attribution.
type AggregateStats struct {
	Points []UsagePoint
}

func (PerEntityStats) statsTag() {}
func (AggregateStats) statsTag() {}

// Empty reports whether the stats carry no samples at all.
func (s PerEntityStats) Empty() bool {
	for _, pts := range s.Series {
		if len(pts) > 0 {
			return false
		}
	}
	return true
}

// Selection is what the operator picked in the range selector: a relative
// shortcut, or an explicit custom range when Custom is set.
type Selection struct {
	Shortcut   Shortcut
	Custom     bool
	CustomFrom time.Time
	CustomTo   time.Time
}

// QueryRange is a resolved selection: the concrete window handed to the fetch
// layer plus the bucket granularity. A zero StartInstant means "no lower
// bound" and surfaces as an omitted start filter.
type QueryRange struct {
	StartInstant time.Time
	EndInstant   time.Time
	Granularity  Granularity

	// OpenBucket marks a range whose last bucket is still accumulating
	// ("today" queried mid-day). The formatter renders that bucket with a
	// wall-clock suffix so it reads differently from a closed day.
	OpenBucket bool

	// Now is the wall clock the range was resolved at. Day buckets arrive
	// midnight-aligned from the panel, so the open bucket's label suffix
	// has to come from here, not from the bucket start.
	Now time.Time
}

// IsOpenBucket reports whether the bucket starting at periodStart is the
// range's still-accumulating final bucket.
func (qr QueryRange) IsOpenBucket(periodStart time.Time) bool {
	if !qr.OpenBucket || qr.Granularity != GranularityDay {
		return false
	}
	y1, m1, d1 := periodStart.Date()
	y2, m2, d2 := qr.EndInstant.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// OpenBucketClock returns the wall clock to stamp on the bucket starting at
// periodStart, or the zero time when that bucket is closed. EndInstant backs
// a missing Now; for shortcut ranges the two are the same instant.
func (qr QueryRange) OpenBucketClock(periodStart time.Time) time.Time {
	if !qr.IsOpenBucket(periodStart) {
		return time.Time{}
	}
	if qr.Now.IsZero() {
		return qr.EndInstant
	}
	return qr.Now
}

// KnownEntity is one node or admin from the panel's entity list. Read-only
// input to the normalizer; the core never creates or destroys entities.
type KnownEntity struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ColorIndex int    `json:"color_index"`
}

// ChartRow is one dense bucket: every known entity has a value in every map,
// zero-filled where the panel reported nothing.
type ChartRow struct {
	PeriodStart   time.Time
	TimeLabel     string
	UsageGB       map[string]float64 // entity name -> gigabytes
	UplinkBytes   map[string]float64
	DownlinkBytes map[string]float64

	// TotalGB is the bucket total across all entities. For an aggregate
	// response with no known entities it carries the undivided value.
	TotalGB float64
}

const bytesPerGB = float64(1 << 30)

// TotalUsageGB sums every row's bucket total, for the summary line.
func TotalUsageGB(rows []ChartRow) float64 {
	total := float64(0)
	for _, r := range rows {
		total += r.TotalGB
	}
	return total
}
