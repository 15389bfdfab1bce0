package ecs

import (
	"testing"

	"github.com/phanxgames/lens"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_SessionUpdates(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []lens.InspectionUpdate
	InspectionEventType.Subscribe(world, func(w donburi.World, u lens.InspectionUpdate) {
		received = append(received, u)
	})

	tree := lens.NewHostTree()
	n := lens.NewHostNode("counter", "Counter")
	n.SetProp("step", 1)
	tree.Root().AddChild(n)

	session := lens.NewSession(lens.WithSink(sink))
	session.Attach(tree)
	tree.SetFocus(n)
	tree.Render(n, func(h *lens.HostNode) { h.SetProp("step", 2) })

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("expected no events before ProcessEvents, got %d", len(received))
	}
	InspectionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if !received[0].Initial || received[0].Kind != "Counter" {
		t.Errorf("event 0: %+v", received[0])
	}
	if !received[1].Props.Changed("step") || received[1].Props.ChangeCounts["step"] != 1 {
		t.Errorf("event 1 props: %+v", received[1].Props)
	}
}

func TestDonburiSink_PanelGeometry(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var changes []lens.GeometryChange
	GeometryEventType.Subscribe(world, func(w donburi.World, c lens.GeometryChange) {
		changes = append(changes, c)
	})

	p := lens.NewPanel(lens.DefaultPanelConfig(), lens.Size{Width: 1280, Height: 800}, lens.NewMemoryStore(), lens.WithPanelSink(sink))
	p.RequestCollapse()
	events.ProcessAllEvents(world)

	if len(changes) == 0 {
		t.Fatal("expected geometry events")
	}
	last := changes[len(changes)-1]
	if last.Reason != lens.ReasonRequestCollapse || !last.Geometry.Collapsed {
		t.Errorf("last change: %+v", last)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	GeometryEventType.Subscribe(world, func(w donburi.World, c lens.GeometryChange) {
		count1++
	})
	GeometryEventType.Subscribe(world, func(w donburi.World, c lens.GeometryChange) {
		count2++
	})

	sink.EmitGeometry(lens.GeometryChange{Reason: lens.ReasonSnap})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
