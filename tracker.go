package lens

import "time"

// TrackerID names one of the change trackers owned by a session.
type TrackerID uint8

const (
	TrackerProps TrackerID = iota
	TrackerState
	TrackerContext
	numTrackers
)

var trackerNames = [...]string{"props", "state", "context"}

func (id TrackerID) String() string {
	if int(id) < len(trackerNames) {
		return trackerNames[id]
	}
	return "unknown"
}

// ChangeEntry is the tracked history of one key.
type ChangeEntry struct {
	Count         int
	CurrentValue  any
	PreviousValue any
	LastUpdated   time.Time
}

// ChangeResult is returned by [ChangeTracker.Track].
type ChangeResult struct {
	HasChanged bool
	Count      int
}

// ChangeTracker counts value transitions per key. Counts only increase, and
// only when the incoming value structurally differs from the stored one.
type ChangeTracker struct {
	// seedOnChange makes an unseen key start at 1 when the caller reports a
	// difference. State trackers leave it false: state has no previous value
	// until a second render exists.
	seedOnChange bool
	entries      map[string]*ChangeEntry
	now          func() time.Time
}

// NewChangeTracker creates an empty tracker. When seedOnChange is true a key
// seen for the first time with hasChanged set starts at count 1.
func NewChangeTracker(seedOnChange bool, now func() time.Time) *ChangeTracker {
	if now == nil {
		now = time.Now
	}
	return &ChangeTracker{
		seedOnChange: seedOnChange,
		entries:      make(map[string]*ChangeEntry),
		now:          now,
	}
}

// Track records current for key. hasChanged is the caller's own comparison
// against the previous render and is only consulted for unseen keys.
func (t *ChangeTracker) Track(key string, current, previous any, hasChanged bool) ChangeResult {
	current = Represent(current)
	e, ok := t.entries[key]
	if !ok {
		count := 0
		if hasChanged && t.seedOnChange {
			count = 1
		}
		t.entries[key] = &ChangeEntry{
			Count:         count,
			CurrentValue:  current,
			PreviousValue: Represent(previous),
			LastUpdated:   t.now(),
		}
		return ChangeResult{HasChanged: count > 0, Count: count}
	}

	if Equal(e.CurrentValue, current) {
		return ChangeResult{HasChanged: false, Count: e.Count}
	}
	e.Count++
	e.PreviousValue = e.CurrentValue
	e.CurrentValue = current
	e.LastUpdated = t.now()
	return ChangeResult{HasChanged: true, Count: e.Count}
}

// Entry returns a copy of the entry for key.
func (t *ChangeTracker) Entry(key string) (ChangeEntry, bool) {
	e, ok := t.entries[key]
	if !ok {
		return ChangeEntry{}, false
	}
	return *e, true
}

// Count returns the change count for key, or 0 if unseen.
func (t *ChangeTracker) Count(key string) int {
	if e, ok := t.entries[key]; ok {
		return e.Count
	}
	return 0
}

// Counts returns a copy of every key's change count.
func (t *ChangeTracker) Counts() map[string]int {
	out := make(map[string]int, len(t.entries))
	for k, e := range t.entries {
		out[k] = e.Count
	}
	return out
}

// Len returns the number of tracked keys.
func (t *ChangeTracker) Len() int {
	return len(t.entries)
}

// Reset forgets every key.
func (t *ChangeTracker) Reset() {
	clear(t.entries)
}
