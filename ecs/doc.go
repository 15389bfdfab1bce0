// Package ecs bridges lens events into a [Donburi] world.
//
// [NewDonburiSink] returns a lens.EventSink that publishes inspection updates
// to [InspectionEventType] and settled panel geometry to [GeometryEventType].
// Subscribe to them in ECS systems and drain them with ProcessEvents.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	session := lens.NewSession(lens.WithSink(sink))
//	panel := lens.NewPanel(cfg, viewport, store, lens.WithPanelSink(sink))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
