package lens

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
)

// Sentinel errors reported by the geometry persistence layer.
var (
	ErrStorageUnavailable = errors.New("lens: storage unavailable")
	ErrMalformedGeometry  = errors.New("lens: malformed persisted geometry")
)

// Store is durable key/value storage for panel state. Values are opaque JSON
// blobs. Get reports ok=false for a missing key.
type Store interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// MemoryStore is an in-process [Store]. The zero value is ready to use.
type MemoryStore struct {
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get implements Store.
func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements Store.
func (m *MemoryStore) Set(key string, value []byte) error {
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Remove implements Store.
func (m *MemoryStore) Remove(key string) error {
	delete(m.data, key)
	return nil
}

// Snapshot returns a copy of the stored keys and values.
func (m *MemoryStore) Snapshot() map[string][]byte {
	return maps.Clone(m.data)
}

// storedGeometry is the JSON shape under the geometry key.
type storedGeometry struct {
	Corner         string `json:"corner"`
	Position       Vec2   `json:"position"`
	Size           Size   `json:"size"`
	LastDimensions Size   `json:"lastDimensions"`
}

// storedCollapse is the JSON shape under the collapsed key. The key is
// absent while the panel is expanded.
type storedCollapse struct {
	Corner      string `json:"corner"`
	Orientation string `json:"orientation"`
}

// geometryStore reads and writes panel geometry through a Store. After the
// first storage failure it stops touching the store for the rest of the
// session.
type geometryStore struct {
	store        Store
	geometryKey  string
	collapsedKey string
	unavailable  bool
	logger       *slog.Logger
	onError      func(error)
}

func newGeometryStore(s Store, geometryKey, collapsedKey string, logger *slog.Logger, onError func(error)) *geometryStore {
	return &geometryStore{
		store:        s,
		geometryKey:  geometryKey,
		collapsedKey: collapsedKey,
		unavailable:  s == nil,
		logger:       logger,
		onError:      onError,
	}
}

// Available reports whether writes are still attempted.
func (gs *geometryStore) Available() bool {
	return !gs.unavailable
}

// fail marks storage unavailable and reports err once.
func (gs *geometryStore) fail(op string, err error) {
	if gs.unavailable {
		return
	}
	gs.unavailable = true
	wrapped := fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	gs.logger.Warn("storage unavailable; geometry kept in memory", "err", err)
	if gs.onError != nil {
		gs.onError(wrapped)
	}
}

// Load returns the persisted geometry. ok is false when nothing usable is
// stored; malformed blobs are removed.
func (gs *geometryStore) Load() (PanelGeometry, bool) {
	if gs.unavailable {
		return PanelGeometry{}, false
	}
	data, ok, err := gs.store.Get(gs.geometryKey)
	if err != nil {
		gs.fail("load geometry", err)
		return PanelGeometry{}, false
	}
	if !ok {
		return PanelGeometry{}, false
	}
	g, err := decodeGeometry(data)
	if err != nil {
		gs.logger.Warn("discarding persisted geometry", "key", gs.geometryKey, "err", err)
		gs.discard(gs.geometryKey)
		gs.discard(gs.collapsedKey)
		return PanelGeometry{}, false
	}

	data, ok, err = gs.store.Get(gs.collapsedKey)
	if err != nil {
		gs.fail("load collapse state", err)
		return g, true
	}
	if ok {
		corner, orient, err := decodeCollapse(data)
		if err != nil {
			gs.logger.Warn("discarding persisted collapse state", "key", gs.collapsedKey, "err", err)
			gs.discard(gs.collapsedKey)
			return g, true
		}
		g.Collapsed = true
		g.Corner = corner
		g.Orientation = orient
	}
	return g, true
}

func (gs *geometryStore) discard(key string) {
	if err := gs.store.Remove(key); err != nil {
		gs.fail("remove "+key, err)
	}
}

// Save writes g. Nothing is written once storage has failed.
func (gs *geometryStore) Save(g PanelGeometry) {
	if gs.unavailable {
		return
	}
	data, err := json.Marshal(storedGeometry{
		Corner:         g.Corner.String(),
		Position:       g.Position,
		Size:           g.Size,
		LastDimensions: g.LastDimensions,
	})
	if err != nil {
		gs.logger.Error("encode geometry", "err", err)
		return
	}
	if err := gs.store.Set(gs.geometryKey, data); err != nil {
		gs.fail("save geometry", err)
		return
	}
	if !g.Collapsed {
		if err := gs.store.Remove(gs.collapsedKey); err != nil {
			gs.fail("clear collapse state", err)
		}
		return
	}
	data, err = json.Marshal(storedCollapse{Corner: g.Corner.String(), Orientation: g.Orientation.String()})
	if err != nil {
		gs.logger.Error("encode collapse state", "err", err)
		return
	}
	if err := gs.store.Set(gs.collapsedKey, data); err != nil {
		gs.fail("save collapse state", err)
	}
}

func decodeGeometry(data []byte) (PanelGeometry, error) {
	var sg storedGeometry
	if err := json.Unmarshal(data, &sg); err != nil {
		return PanelGeometry{}, fmt.Errorf("%w: %w", ErrMalformedGeometry, err)
	}
	corner, ok := ParseCorner(sg.Corner)
	if !ok {
		return PanelGeometry{}, fmt.Errorf("%w: unknown corner %q", ErrMalformedGeometry, sg.Corner)
	}
	if !validSize(sg.Size) {
		return PanelGeometry{}, fmt.Errorf("%w: invalid size %vx%v", ErrMalformedGeometry, sg.Size.Width, sg.Size.Height)
	}
	if !finite(sg.Position.X) || !finite(sg.Position.Y) {
		return PanelGeometry{}, fmt.Errorf("%w: invalid position", ErrMalformedGeometry)
	}
	last := sg.LastDimensions
	if !validSize(last) {
		last = sg.Size
	}
	return PanelGeometry{
		Corner:         corner,
		Position:       sg.Position,
		Size:           sg.Size,
		LastDimensions: last,
	}, nil
}

func decodeCollapse(data []byte) (Corner, Orientation, error) {
	var sc storedCollapse
	if err := json.Unmarshal(data, &sc); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrMalformedGeometry, err)
	}
	corner, ok := ParseCorner(sc.Corner)
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown corner %q", ErrMalformedGeometry, sc.Corner)
	}
	orient, ok := ParseOrientation(sc.Orientation)
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown orientation %q", ErrMalformedGeometry, sc.Orientation)
	}
	return corner, orient, nil
}

func validSize(s Size) bool {
	return finite(s.Width) && finite(s.Height) && s.Width > 0 && s.Height > 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
