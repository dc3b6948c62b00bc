package core

import (
	"math"
	"reflect"
	"testing"
	"time"
)

var testRange = QueryRange{
	StartInstant: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	EndInstant:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	Granularity:  GranularityHour,
}

func testEntities() []KnownEntity {
	return []KnownEntity{
		{ID: "5", Name: "NodeA", ColorIndex: 0},
		{ID: "7", Name: "NodeB", ColorIndex: 1},
	}
}

func TestNormalizeZeroFillsAbsentEntity(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	stats := PerEntityStats{Series: map[string][]UsagePoint{
		"5": {{PeriodStart: t1, UplinkBytes: 1 << 30, DownlinkBytes: 1 << 30}},
		"7": {},
	}}

	rows := Normalize(testRange, stats, testEntities(), LocaleEnglish)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if !row.PeriodStart.Equal(t1) {
		t.Errorf("PeriodStart = %v, want %v", row.PeriodStart, t1)
	}
	if got := row.UsageGB["NodeA"]; got != 2.0 {
		t.Errorf("NodeA usage = %v GB, want 2.0", got)
	}
	if got, ok := row.UsageGB["NodeB"]; !ok || got != 0 {
		t.Errorf("NodeB usage = %v (present=%v), want explicit 0", got, ok)
	}
	if row.TotalGB != 2.0 {
		t.Errorf("TotalGB = %v, want 2.0", row.TotalGB)
	}
}

func TestNormalizeDenseMatrix(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t1.Add(2 * time.Hour)
	stats := PerEntityStats{Series: map[string][]UsagePoint{
		"5": {{PeriodStart: t1, TotalBytes: 100}, {PeriodStart: t3, TotalBytes: 300}},
		"7": {{PeriodStart: t2, TotalBytes: 200}},
	}}

	rows := Normalize(testRange, stats, testEntities(), LocaleEnglish)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, row := range rows {
		if len(row.UsageGB) != 2 {
			t.Errorf("row %d has %d entity keys, want 2", i, len(row.UsageGB))
		}
		for _, name := range []string{"NodeA", "NodeB"} {
			if _, ok := row.UsageGB[name]; !ok {
				t.Errorf("row %d missing key %q", i, name)
			}
		}
		if i > 0 && !rows[i-1].PeriodStart.Before(row.PeriodStart) {
			t.Errorf("rows not strictly ascending at index %d", i)
		}
	}
}

func TestNormalizeSumsDuplicateBuckets(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	stats := PerEntityStats{Series: map[string][]UsagePoint{
		"5": {
			{PeriodStart: t1, TotalBytes: 1 << 30},
			{PeriodStart: t1, TotalBytes: 1 << 30},
		},
	}}

	rows := Normalize(testRange, stats, testEntities(), LocaleEnglish)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (duplicate starts must merge)", len(rows))
	}
	if got := rows[0].UsageGB["NodeA"]; got != 2.0 {
		t.Errorf("NodeA usage = %v GB, want 2.0", got)
	}
}

func TestNormalizeSkipsUnknownEntity(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	stats := PerEntityStats{Series: map[string][]UsagePoint{
		"999": {{PeriodStart: t1, TotalBytes: 1 << 30}},
	}}

	rows := Normalize(testRange, stats, testEntities(), LocaleEnglish)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (bucket union still includes the bucket)", len(rows))
	}
	if got := rows[0].TotalGB; got != 0 {
		t.Errorf("TotalGB = %v, want 0 (unknown entity's bytes must not be summed)", got)
	}
}

func TestNormalizeEmptyInputs(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
	}{
		{"nil stats", nil},
		{"no series", PerEntityStats{}},
		{"all series empty", PerEntityStats{Series: map[string][]UsagePoint{"5": {}, "7": {}}}},
		{"aggregate no points", AggregateStats{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rows := Normalize(testRange, tt.stats, testEntities(), LocaleEnglish); len(rows) != 0 {
				t.Errorf("got %d rows, want 0", len(rows))
			}
		})
	}
}

func TestNormalizeNoKnownEntities(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	stats := PerEntityStats{Series: map[string][]UsagePoint{
		"5": {{PeriodStart: t1, TotalBytes: 1 << 30}},
	}}

	rows := Normalize(testRange, stats, nil, LocaleEnglish)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if len(rows[0].UsageGB) != 0 {
		t.Errorf("expected empty entity map, got %v", rows[0].UsageGB)
	}
}

func TestNormalizeAggregateEvenSplit(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	entities := []KnownEntity{
		{ID: "1", Name: "A"},
		{ID: "2", Name: "B"},
		{ID: "3", Name: "C"},
	}
	stats := AggregateStats{Points: []UsagePoint{
		{PeriodStart: t1, TotalBytes: 3 * (1 << 30)},
	}}

	rows := Normalize(testRange, stats, entities, LocaleEnglish)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	for _, name := range []string{"A", "B", "C"} {
		if got := rows[0].UsageGB[name]; math.Abs(got-1.0) > 1e-9 {
			t.Errorf("%s share = %v GB, want 1.0", name, got)
		}
	}
}

func TestNormalizeOpenBucketLabelShowsCurrentClock(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 37, 0, 0, time.UTC)
	qr, err := ResolveRange(Selection{Shortcut: Shortcut1w}, now)
	if err != nil {
		t.Fatalf("ResolveRange: %v", err)
	}

	// The panel aligns day buckets to midnight, so "today" arrives as 00:00.
	closed := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	stats := PerEntityStats{Series: map[string][]UsagePoint{
		"5": {
			{PeriodStart: closed, TotalBytes: 1 << 30},
			{PeriodStart: today, TotalBytes: 1 << 30},
		},
	}}

	rows := Normalize(qr, stats, testEntities(), LocaleEnglish)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := rows[0].TimeLabel; got != "Jun 12" {
		t.Errorf("closed day label = %q, want Jun 12", got)
	}
	if got := rows[1].TimeLabel; got != "Jun 15 14:37" {
		t.Errorf("open bucket label = %q, want Jun 15 14:37 (current clock, not bucket midnight)", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	stats := PerEntityStats{Series: map[string][]UsagePoint{
		"5": {{PeriodStart: t1, UplinkBytes: 123456, DownlinkBytes: 654321}},
		"7": {{PeriodStart: t1.Add(time.Hour), TotalBytes: 42}},
	}}

	first := Normalize(testRange, stats, testEntities(), LocaleEnglish)
	second := Normalize(testRange, stats, testEntities(), LocaleEnglish)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated normalization differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestTotalUsageGB(t *testing.T) {
	rows := []ChartRow{{TotalGB: 1.5}, {TotalGB: 2.5}}
	if got := TotalUsageGB(rows); got != 4.0 {
		t.Errorf("TotalUsageGB = %v, want 4.0", got)
	}
	if got := TotalUsageGB(nil); got != 0 {
		t.Errorf("TotalUsageGB(nil) = %v, want 0", got)
	}
}
