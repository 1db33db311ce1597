package report

import "testing"

func TestStoreUpsert(t *testing.T) {
	s := NewStore(DefaultOptions())

	first := RenderRecord{ComponentName: "App", UpdateCount: 0, Timestamp: 1000}
	s.SetRenderInfo("App", first)

	got, ok := s.GetRenderInfo("App")
	if !ok {
		t.Fatal("record not found after set")
	}
	if got.UpdateCount != 0 {
		t.Errorf("UpdateCount: got %d, want 0", got.UpdateCount)
	}

	second := RenderRecord{ComponentName: "App", UpdateCount: 3, Timestamp: 2000}
	s.SetRenderInfo("App", second)

	got, _ = s.GetRenderInfo("App")
	if got.UpdateCount != 3 || got.Timestamp != 2000 {
		t.Errorf("latest write must win: got %+v", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len: got %d, want 1", s.Len())
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := NewStore(DefaultOptions())
	if _, ok := s.GetRenderInfo("Nope"); ok {
		t.Fatal("expected absent record")
	}
}

func TestStoreAllReportsMembership(t *testing.T) {
	s := NewStore(DefaultOptions())
	s.SetRenderInfo("B", RenderRecord{ComponentName: "B", UpdateCount: 2})
	s.SetRenderInfo("A", RenderRecord{ComponentName: "A", UpdateCount: 5})

	reports := s.AllReports()
	if len(reports) != 2 {
		t.Fatalf("reports: got %d, want 2", len(reports))
	}

	byName := map[string]RenderRecord{}
	for _, r := range reports {
		byName[r.Name] = r.Record
	}
	if byName["A"].UpdateCount != 5 {
		t.Errorf("A: got %+v", byName["A"])
	}
	if byName["B"].UpdateCount != 2 {
		t.Errorf("B: got %+v", byName["B"])
	}
}

func TestStoreAllReportsSnapshot(t *testing.T) {
	s := NewStore(DefaultOptions())
	s.SetRenderInfo("A", RenderRecord{ComponentName: "A", UpdateCount: 1})

	snap := s.AllReports()
	s.SetRenderInfo("A", RenderRecord{ComponentName: "A", UpdateCount: 9})

	if snap[0].Record.UpdateCount != 1 {
		t.Errorf("snapshot must not see later writes: got %d", snap[0].Record.UpdateCount)
	}
}

func TestStoreOptionsMerge(t *testing.T) {
	s := NewStore(Options{Log: true, PlaySound: false, TrackUpdates: true})

	yes := true
	merged := s.SetOptions(OptionsPatch{PlaySound: &yes})
	if !merged.Log || !merged.PlaySound || !merged.TrackUpdates {
		t.Errorf("merge: got %+v", merged)
	}

	no := false
	merged = s.SetOptions(OptionsPatch{Log: &no})
	if merged.Log {
		t.Error("explicit false must override")
	}
	if !merged.PlaySound {
		t.Error("unspecified field must be preserved")
	}
	if got := s.Options(); got != merged {
		t.Errorf("Options: got %+v, want %+v", got, merged)
	}
}
