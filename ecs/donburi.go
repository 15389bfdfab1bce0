package ecs

import (
	"github.com/phanxgames/lens"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InspectionEventType is the Donburi event type for inspection updates.
var InspectionEventType = events.NewEventType[lens.InspectionUpdate]()

// GeometryEventType is the Donburi event type for settled panel geometry.
var GeometryEventType = events.NewEventType[lens.GeometryChange]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued and delivered when the world's systems call ProcessEvents.
func NewDonburiSink(world donburi.World) lens.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitInspection(update lens.InspectionUpdate) {
	InspectionEventType.Publish(s.world, update)
}

func (s *donburiSink) EmitGeometry(change lens.GeometryChange) {
	GeometryEventType.Publish(s.world, change)
}
