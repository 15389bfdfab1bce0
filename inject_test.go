package lens

import "testing"

func TestInjectClickQueuesTwoFrames(t *testing.T) {
	p, changes := newTestPanel(t, NewMemoryStore())
	p.RequestCollapse()
	p.Update(1)
	*changes = nil

	p.InjectClick(1270, 750)
	if p.PendingInput() != 2 {
		t.Fatalf("expected 2 queued events, got %d", p.PendingInput())
	}

	// Frame 1: press
	p.Update(1.0 / 60)
	if p.PendingInput() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", p.PendingInput())
	}
	if len(*changes) != 0 {
		t.Error("nothing should happen on the press frame")
	}

	// Frame 2: release expands the affordance
	p.Update(1.0 / 60)
	if p.PendingInput() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", p.PendingInput())
	}
	if c := lastChange(t, changes); c.Reason != ReasonRequestExpand {
		t.Errorf("click on the affordance: %+v", c)
	}
}

func TestInjectDragSnaps(t *testing.T) {
	p, changes := newTestPanel(t, NewMemoryStore())

	// Drag from (900,500) to (300,200) over 5 frames:
	// frame 0: press, frames 1-3: moves, frame 4: release.
	p.InjectDrag(900, 500, 300, 200, 5)
	if p.PendingInput() != 5 {
		t.Fatalf("expected 5 queued events, got %d", p.PendingInput())
	}
	for i := 0; i < 5; i++ {
		p.Update(1.0 / 60)
	}
	c := lastChange(t, changes)
	if c.Reason != ReasonSnap || c.Geometry.Corner != CornerTopLeft {
		t.Errorf("change = %+v", c)
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	p, _ := newTestPanel(t, NewMemoryStore())
	p.InjectDrag(0, 0, 10, 10, 1)
	if p.PendingInput() != 2 {
		t.Errorf("expected press + release, got %d", p.PendingInput())
	}
}

func TestInjectPressMoveRelease(t *testing.T) {
	p, _ := newTestPanel(t, NewMemoryStore())
	p.InjectPress(900, 500)
	p.InjectMove(920, 500)
	p.InjectMove(1000, 500)
	p.InjectRelease(1000, 500)

	p.Update(0)
	p.Update(0)
	if !p.Dragging() {
		t.Fatal("panel should be dragging after the first move past the dead zone")
	}
	p.Update(0)
	if p.Transform() != (Vec2{806, 376}) {
		t.Errorf("transform = %v", p.Transform())
	}
	p.Update(0)
	if p.Dragging() {
		t.Error("release should end the drag")
	}
}
