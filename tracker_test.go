package lens

import (
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time { return at }
}

func TestTrackerUnseenKey(t *testing.T) {
	tr := NewChangeTracker(true, fixedClock())
	res := tr.Track("a", 1, nil, false)
	if res.HasChanged || res.Count != 0 {
		t.Errorf("unseen without change = %+v, want unchanged 0", res)
	}

	res = tr.Track("b", 2, 1, true)
	if !res.HasChanged || res.Count != 1 {
		t.Errorf("unseen with change = %+v, want changed 1", res)
	}
	e, ok := tr.Entry("b")
	if !ok || e.PreviousValue != 1 || e.CurrentValue != 2 {
		t.Errorf("entry = %+v", e)
	}
}

func TestTrackerStateDoesNotSeed(t *testing.T) {
	tr := NewChangeTracker(false, nil)
	res := tr.Track("0", 5, 4, true)
	if res.HasChanged || res.Count != 0 {
		t.Errorf("state tracker seeded a change: %+v", res)
	}
}

func TestTrackerCountsTransitions(t *testing.T) {
	tr := NewChangeTracker(true, nil)
	tr.Track("x", 1, nil, false)

	values := []any{2, 2, 3, 3, 3, 1}
	wantCounts := []int{1, 1, 2, 2, 2, 3}
	for i, v := range values {
		res := tr.Track("x", v, nil, true)
		if res.Count != wantCounts[i] {
			t.Errorf("step %d: Count = %d, want %d", i, res.Count, wantCounts[i])
		}
	}
	e, _ := tr.Entry("x")
	if e.CurrentValue != 1 || e.PreviousValue != 3 {
		t.Errorf("entry current/previous = %v/%v, want 1/3", e.CurrentValue, e.PreviousValue)
	}
}

func TestTrackerStructuralComparison(t *testing.T) {
	tr := NewChangeTracker(true, nil)
	tr.Track("list", []int{1, 2}, nil, false)
	// A new slice with the same contents is not a change even if the caller
	// says so: only seen-key comparisons against the stored value count.
	if res := tr.Track("list", []int{1, 2}, nil, true); res.HasChanged {
		t.Error("structurally equal value counted as a change")
	}
	if res := tr.Track("list", []int{1, 2, 3}, nil, false); !res.HasChanged || res.Count != 1 {
		t.Errorf("grown slice = %+v, want changed 1", res)
	}
}

func TestTrackerUnrepresentableValues(t *testing.T) {
	tr := NewChangeTracker(true, nil)
	tr.Track("onClick", func() {}, nil, false)
	if res := tr.Track("onClick", func() {}, nil, true); res.HasChanged {
		t.Error("replacing one func with another should not count as a change")
	}
	e, _ := tr.Entry("onClick")
	if _, ok := e.CurrentValue.(Unrepresentable); !ok {
		t.Errorf("stored value = %T, want Unrepresentable", e.CurrentValue)
	}
}

func TestTrackerCountsAndReset(t *testing.T) {
	tr := NewChangeTracker(true, nil)
	tr.Track("a", 1, nil, false)
	tr.Track("a", 2, nil, false)
	tr.Track("b", 1, nil, false)

	counts := tr.Counts()
	if counts["a"] != 1 || counts["b"] != 0 || len(counts) != 2 {
		t.Errorf("Counts = %v", counts)
	}
	counts["a"] = 99
	if tr.Count("a") != 1 {
		t.Error("Counts should return a copy")
	}
	if tr.Len() != 2 {
		t.Errorf("Len = %d, want 2", tr.Len())
	}

	tr.Reset()
	if tr.Len() != 0 || tr.Count("a") != 0 {
		t.Error("Reset should forget every key")
	}
	if _, ok := tr.Entry("a"); ok {
		t.Error("Entry after Reset should be missing")
	}
}

func TestTrackerTimestamps(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewChangeTracker(true, func() time.Time { return now })
	tr.Track("a", 1, nil, false)
	now = now.Add(time.Second)
	tr.Track("a", 1, nil, false)
	e, _ := tr.Entry("a")
	if !e.LastUpdated.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("an unchanged value should not bump LastUpdated")
	}
	tr.Track("a", 2, nil, false)
	e, _ = tr.Entry("a")
	if !e.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v, want %v", e.LastUpdated, now)
	}
}

func TestTrackerIDString(t *testing.T) {
	if TrackerState.String() != "state" || TrackerID(7).String() != "unknown" {
		t.Errorf("TrackerID strings: %q %q", TrackerState.String(), TrackerID(7).String())
	}
}
