package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/revue/report"
	"github.com/hazyhaar/revue/track"
)

func testServer(t *testing.T) (*track.Tracker, *httptest.Server) {
	t.Helper()
	tracker := track.NewTracker(track.TrackerConfig{Options: report.DefaultOptions()})
	srv := httptest.NewServer(NewRouter(tracker, nil))
	t.Cleanup(srv.Close)
	return tracker, srv
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func postJSON(t *testing.T, url, body string, out any) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestHealthz(t *testing.T) {
	_, srv := testServer(t)
	var body map[string]string
	resp := getJSON(t, srv.URL+"/healthz", &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz: %d %+v", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestReportsEndpoint(t *testing.T) {
	tracker, srv := testServer(t)

	ctx := context.Background()
	tracker.HandleEvent(ctx, track.Event{Kind: track.KindMount, UID: "c1", Name: "App"})
	tracker.HandleEvent(ctx, track.Event{Kind: track.KindUpdate, UID: "c1", Name: "App"})
	tracker.HandleEvent(ctx, track.Event{Kind: track.KindMount, UID: "c2", Name: "Sidebar"})

	var body struct {
		Reports []report.Report `json:"reports"`
		Options report.Options  `json:"options"`
		Paused  bool            `json:"paused"`
	}
	getJSON(t, srv.URL+"/api/reports", &body)

	if len(body.Reports) != 2 {
		t.Fatalf("reports: got %d, want 2", len(body.Reports))
	}
	byName := map[string]int{}
	for _, r := range body.Reports {
		byName[r.Name] = r.Record.UpdateCount
	}
	if byName["App"] != 1 || byName["Sidebar"] != 0 {
		t.Errorf("reports: got %+v", byName)
	}
	if body.Paused {
		t.Error("fresh tracker must not be paused")
	}
}

func TestPauseResumeEndpoints(t *testing.T) {
	tracker, srv := testServer(t)

	postJSON(t, srv.URL+"/api/pause", "", nil)
	if !tracker.Paused() {
		t.Error("pause endpoint must pause")
	}

	postJSON(t, srv.URL+"/api/resume", "", nil)
	if tracker.Paused() {
		t.Error("resume endpoint must resume")
	}
}

func TestOptionsEndpoint(t *testing.T) {
	tracker, srv := testServer(t)

	var merged report.Options
	resp := postJSON(t, srv.URL+"/api/options", `{"play_sound": true, "log": false}`, &merged)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if !merged.PlaySound || merged.Log || !merged.TrackUpdates {
		t.Errorf("merged: got %+v", merged)
	}
	if tracker.Options() != merged {
		t.Error("tracker options must match response")
	}
}

func TestOptionsEndpointRejectsGarbage(t *testing.T) {
	_, srv := testServer(t)
	resp := postJSON(t, srv.URL+"/api/options", `{nope`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestHighlightEndpoint(t *testing.T) {
	_, srv := testServer(t)

	// No overlay attached: still a 200, the draw is a guarded no-op.
	var body map[string]string
	resp := postJSON(t, srv.URL+"/api/highlight", `{"x":10,"y":20,"width":100,"height":50}`, &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "drawn" {
		t.Errorf("highlight: %d %+v", resp.StatusCode, body)
	}

	resp = postJSON(t, srv.URL+"/api/highlight", `{"x":10,"y":20,"width":0,"height":50}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("zero width: got %d, want 400", resp.StatusCode)
	}
}

func TestReportsHTMLPage(t *testing.T) {
	tracker, srv := testServer(t)
	tracker.HandleEvent(context.Background(), track.Event{Kind: track.KindMount, UID: "c1", Name: "Checkout"})

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	if !strings.Contains(page, "Checkout") {
		t.Errorf("page missing component name:\n%s", page)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: %q", ct)
	}
}
