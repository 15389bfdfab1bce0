// Package lens is a live component inspector for retained-mode UI trees,
// with a floating inspector panel for [Ebitengine].
//
// Lens has two halves that share nothing but a clock: an inspection engine
// that diffs successive renders of one focused component, and a geometry
// state machine for the draggable, edge-collapsing panel that shows them.
//
// # Inspection
//
// The host UI runtime is seen through [RenderNode]: a kind, a parent link,
// a properties bag, state slots, provided context values, and the node's
// previous version. [HostNode] and [HostTree] are a reference host used by
// the example programs and tests.
//
//	tree := lens.NewHostTree()
//	counter := lens.NewHostNode("counter", "Counter")
//	counter.SetProp("step", 1)
//	tree.Root().AddChild(counter)
//
//	session := lens.NewSession()
//	session.OnUpdate(func(u lens.InspectionUpdate) {
//		fmt.Println(u.Kind, u.Props.ChangedKeys, u.Props.ChangeCounts)
//	})
//	session.Attach(tree)
//	tree.SetFocus(counter)
//
//	tree.Render(counter, func(n *lens.HostNode) { n.SetProp("step", 2) })
//
// Focusing a node of a new kind resets tracking and always emits an
// [InspectionUpdate]. Re-renders of the same kind emit only when a prop,
// state slot, or inherited context value actually changed, with per-key
// change counts. Values that cannot be compared (funcs, channels) are shown
// as [Unrepresentable] placeholders instead of failing the session.
//
// Inherited contexts are resolved by [ContextResolver], nearest ancestor
// first, and cached per node until tracking resets. An ancestor's context
// change is therefore not seen while the same node stays focused, unless the
// session is built with [WithContextRefresh].
//
// # Panel
//
// [Panel] anchors to one of four viewport corners, snaps to the nearest
// corner after a drag, collapses into a thin edge affordance when dragged
// mostly off-screen, and expands again when pulled away from the edge. Every
// settled change is persisted through a [Store]; see the sqlitestore
// subpackage for a durable one.
//
//	panel := lens.NewPanel(lens.DefaultPanelConfig(), lens.Size{Width: 1280, Height: 800}, store)
//	overlay := lens.NewOverlay(panel, session)
//	// in the game: overlay.Update(), overlay.Draw(screen), overlay.Layout(w, h)
//
// Pointer gestures can be scripted with [Panel.InjectDrag] or a JSON
// [ScenarioRunner] for headless tests.
//
// [Ebitengine]: https://ebitengine.org
package lens
