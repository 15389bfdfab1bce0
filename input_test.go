package lens

import "testing"

func TestHandlePointerDeadZone(t *testing.T) {
	p, _ := newTestPanel(t, NewMemoryStore())
	start := p.Transform()

	p.HandlePointer(Vec2{900, 500}, true)
	p.HandlePointer(Vec2{902, 501}, true)
	if p.Transform() != start {
		t.Error("movement inside the dead zone should not move the panel")
	}
	p.HandlePointer(Vec2{910, 500}, true)
	if p.Transform() != (Vec2{start.X + 10, start.Y}) {
		t.Errorf("transform = %v, want moved by 10", p.Transform())
	}
}

func TestHandlePointerCustomDeadZone(t *testing.T) {
	cfg := DefaultPanelConfig()
	cfg.DragDeadZone = 20
	p := NewPanel(cfg, testViewport, NewMemoryStore())
	start := p.Transform()
	p.HandlePointer(Vec2{900, 500}, true)
	p.HandlePointer(Vec2{915, 500}, true)
	if p.Transform() != start {
		t.Error("15px should be inside a 20px dead zone")
	}
	p.HandlePointer(Vec2{925, 500}, true)
	if p.Transform() == start {
		t.Error("25px should start the drag")
	}
}

func TestHandlePointerClickOnExpandedIsNoOp(t *testing.T) {
	p, changes := newTestPanel(t, NewMemoryStore())
	start := p.Geometry()
	p.HandlePointer(Vec2{900, 500}, true)
	p.HandlePointer(Vec2{900, 500}, false)
	p.Update(1)
	if len(*changes) != 0 || p.Geometry() != start || p.Dragging() {
		t.Errorf("click changed geometry: %+v", *changes)
	}
}

func TestHandlePointerClickExpandsCollapsed(t *testing.T) {
	p, changes := newTestPanel(t, NewMemoryStore())
	p.RequestCollapse()
	p.Update(1)
	p.HandlePointer(Vec2{1270, 750}, true)
	p.HandlePointer(Vec2{1271, 750}, true)
	p.HandlePointer(Vec2{1271, 750}, false)
	if p.Geometry().Collapsed {
		t.Fatal("click within the dead zone should expand")
	}
	if c := lastChange(t, changes); c.Reason != ReasonRequestExpand {
		t.Errorf("change = %+v", c)
	}
}

func TestHandlePointerPressOutside(t *testing.T) {
	p, _ := newTestPanel(t, NewMemoryStore())
	p.HandlePointer(Vec2{10, 10}, true)
	p.HandlePointer(Vec2{500, 500}, true)
	p.HandlePointer(Vec2{500, 500}, false)
	if p.Dragging() || p.Transform() != p.Geometry().Position {
		t.Error("a press outside the panel should never drag it")
	}

	// Moving onto the panel with the button held does not grab it either.
	p.HandlePointer(Vec2{10, 10}, true)
	p.HandlePointer(Vec2{900, 500}, true)
	p.HandlePointer(Vec2{950, 500}, true)
	if p.Dragging() {
		t.Error("panel captured a press that started elsewhere")
	}
}

func TestHandlePointerCollapseReleasesCapture(t *testing.T) {
	p, changes := newTestPanel(t, NewMemoryStore())
	p.HandlePointer(Vec2{900, 500}, true)
	p.HandlePointer(Vec2{1400, 500}, true)
	if !p.Geometry().Collapsed {
		t.Fatal("drag past the edge should collapse")
	}
	n := len(*changes)
	// Further movement and release belong to no drag.
	p.HandlePointer(Vec2{1000, 500}, true)
	p.HandlePointer(Vec2{1000, 500}, false)
	if len(*changes) != n || !p.Geometry().Collapsed {
		t.Error("pointer after a drag collapse should be ignored until the next press")
	}
}
