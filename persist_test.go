package lens

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	var m MemoryStore
	if _, ok, err := m.Get("k"); ok || err != nil {
		t.Errorf("zero store Get = %v, %v", ok, err)
	}
	buf := []byte("v1")
	m.Set("k", buf)
	buf[0] = 'x'
	v, ok, _ := m.Get("k")
	if !ok || string(v) != "v1" {
		t.Errorf("Get = %q, %v; Set should copy its input", v, ok)
	}
	v[0] = 'y'
	if v2, _, _ := m.Get("k"); string(v2) != "v1" {
		t.Error("Get should return a copy")
	}
	m.Remove("k")
	if len(m.Snapshot()) != 0 {
		t.Error("Remove should delete the key")
	}
}

func TestGeometryStoreSaveFormat(t *testing.T) {
	store := NewMemoryStore()
	gs := newGeometryStore(store, DefaultGeometryKey, DefaultCollapsedKey, discardLogger, nil)
	cfg := DefaultPanelConfig()
	g := Collapse(DefaultGeometry(testViewport, cfg), CornerTopRight, OrientationVertical, testViewport, cfg)
	gs.Save(g)

	var sg storedGeometry
	raw, _, _ := store.Get(DefaultGeometryKey)
	if err := json.Unmarshal(raw, &sg); err != nil {
		t.Fatal(err)
	}
	if sg.Corner != "top-right" || sg.LastDimensions != (Size{550, 400}) || sg.Size != cfg.CollapsedVertical {
		t.Errorf("stored geometry = %+v", sg)
	}
	var sc storedCollapse
	raw, _, _ = store.Get(DefaultCollapsedKey)
	if err := json.Unmarshal(raw, &sc); err != nil {
		t.Fatal(err)
	}
	if sc != (storedCollapse{Corner: "top-right", Orientation: "vertical"}) {
		t.Errorf("stored collapse = %+v", sc)
	}

	loaded, ok := gs.Load()
	if !ok || loaded != g {
		t.Errorf("Load = %+v, %v; want %+v", loaded, ok, g)
	}
}

func TestDecodeGeometryRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"unknown corner", `{"corner":"middle","position":{"x":1,"y":1},"size":{"width":550,"height":400}}`},
		{"zero size", `{"corner":"top-left","position":{"x":1,"y":1},"size":{"width":0,"height":400}}`},
		{"negative size", `{"corner":"top-left","position":{"x":1,"y":1},"size":{"width":550,"height":-1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeGeometry([]byte(tt.data))
			if !errors.Is(err, ErrMalformedGeometry) {
				t.Errorf("err = %v, want ErrMalformedGeometry", err)
			}
		})
	}
}

func TestDecodeGeometryDefaultsLastDimensions(t *testing.T) {
	g, err := decodeGeometry([]byte(`{"corner":"bottom-left","position":{"x":24,"y":376},"size":{"width":600,"height":400}}`))
	if err != nil {
		t.Fatal(err)
	}
	if g.Corner != CornerBottomLeft || g.LastDimensions != (Size{600, 400}) {
		t.Errorf("decoded = %+v", g)
	}
}

func TestDecodeCollapseRejects(t *testing.T) {
	for _, data := range []string{`[]`, `{"corner":"top-left","orientation":"sideways"}`, `{"corner":"up","orientation":"vertical"}`} {
		if _, _, err := decodeCollapse([]byte(data)); !errors.Is(err, ErrMalformedGeometry) {
			t.Errorf("decodeCollapse(%s) = %v", data, err)
		}
	}
}

func TestFinite(t *testing.T) {
	if finite(math.NaN()) || finite(math.Inf(1)) || !finite(0) {
		t.Error("finite misclassifies values")
	}
}

// removeFailStore fails on Remove only.
type removeFailStore struct {
	MemoryStore
}

func (s *removeFailStore) Remove(string) error { return errors.New("read-only") }

func TestGeometryStoreReportsOnce(t *testing.T) {
	store := &removeFailStore{}
	var reports int
	gs := newGeometryStore(store, "g", "c", discardLogger, func(error) { reports++ })
	g := DefaultGeometry(testViewport, DefaultPanelConfig())

	gs.Save(g) // expanded: removing the collapse key fails
	gs.Save(g)
	if reports != 1 || gs.Available() {
		t.Errorf("reports = %d, available = %v", reports, gs.Available())
	}
}
