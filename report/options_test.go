package report

import (
	"encoding/json"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	want := Options{Enabled: true, Log: true, PlaySound: false, ShowOverlay: false, TrackUpdates: true}
	if opts != want {
		t.Errorf("defaults: got %+v, want %+v", opts, want)
	}
}

func TestOptionsMergeEmptyPatch(t *testing.T) {
	opts := DefaultOptions()
	if got := opts.Merge(OptionsPatch{}); got != opts {
		t.Errorf("empty patch must be identity: got %+v", got)
	}
}

func TestOptionsPatchFromJSON(t *testing.T) {
	// The HTTP and MCP surfaces decode patches from JSON; absent fields
	// must stay nil so they are preserved on merge.
	var p OptionsPatch
	if err := json.Unmarshal([]byte(`{"show_overlay": true, "log": false}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.ShowOverlay == nil || !*p.ShowOverlay {
		t.Error("show_overlay: want true")
	}
	if p.Log == nil || *p.Log {
		t.Error("log: want explicit false")
	}
	if p.PlaySound != nil || p.Enabled != nil || p.TrackUpdates != nil {
		t.Errorf("absent fields must be nil: %+v", p)
	}

	merged := DefaultOptions().Merge(p)
	if !merged.ShowOverlay || merged.Log || !merged.TrackUpdates {
		t.Errorf("merge: got %+v", merged)
	}
}
