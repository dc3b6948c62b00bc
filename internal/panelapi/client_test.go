package panelapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tunneldash/tunneldash/internal/core"
)

func TestClientFetchUsage(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"5":[{"period_start":"2024-01-01T10:00:00Z","uplink_bytes":100,"downlink_bytes":200}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "secret-token")
	qr := core.QueryRange{
		StartInstant: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndInstant:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Granularity:  core.GranularityHour,
	}

	stats, err := client.FetchUsage(context.Background(), core.ScopeNodes, qr)
	if err != nil {
		t.Fatalf("FetchUsage: %v", err)
	}
	if gotPath != "/api/nodes/usage" {
		t.Errorf("path = %q, want /api/nodes/usage", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if got := gotQuery["period"]; len(got) != 1 || got[0] != "hour" {
		t.Errorf("period query = %v, want [hour]", got)
	}
	if got := gotQuery["start"]; len(got) != 1 || got[0] != "2024-01-01T00:00:00Z" {
		t.Errorf("start query = %v", got)
	}

	perEntity, ok := stats.(core.PerEntityStats)
	if !ok {
		t.Fatalf("got %T, want PerEntityStats", stats)
	}
	if pts := perEntity.Series["5"]; len(pts) != 1 || pts[0].DownlinkBytes != 200 {
		t.Errorf("series 5 = %+v", pts)
	}
}

func TestClientFetchUsageOmitsStartForAllTime(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	qr := core.QueryRange{
		EndInstant:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Granularity: core.GranularityDay,
	}
	if _, err := client.FetchUsage(context.Background(), core.ScopeAdmins, qr); err != nil {
		t.Fatalf("FetchUsage: %v", err)
	}
	if _, present := gotQuery["start"]; present {
		t.Errorf("start filter must be omitted for an all-time range, got %v", gotQuery["start"])
	}
}

func TestClientListEntities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admins" {
			t.Errorf("path = %q, want /api/admins", r.URL.Path)
		}
		w.Write([]byte(`[{"id":5,"name":"ops"},{"id":7,"name":"billing"}]`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	entities, err := client.ListEntities(context.Background(), core.ScopeAdmins)
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}
	want := []core.KnownEntity{
		{ID: "5", Name: "ops", ColorIndex: 0},
		{ID: "7", Name: "billing", ColorIndex: 1},
	}
	if len(entities) != len(want) {
		t.Fatalf("got %d entities, want %d", len(entities), len(want))
	}
	for i := range want {
		if entities[i] != want[i] {
			t.Errorf("entity %d = %+v, want %+v", i, entities[i], want[i])
		}
	}
}

func TestClientAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(server.URL, "bad")
	_, err := client.ListEntities(context.Background(), core.ScopeNodes)
	if err == nil {
		t.Fatal("expected an error for HTTP 401")
	}
}
