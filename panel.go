package lens

import (
	"log/slog"
	"math"
)

// Reasons reported with a [GeometryChange].
const (
	ReasonInit            = "init"
	ReasonResize          = "resize"
	ReasonSnap            = "snap"
	ReasonReturn          = "return"
	ReasonDragCollapse    = "drag-collapse"
	ReasonDragExpand      = "drag-expand"
	ReasonRequestCollapse = "request-collapse"
	ReasonRequestExpand   = "request-expand"
)

// GeometryChange reports a settled panel geometry.
type GeometryChange struct {
	Geometry PanelGeometry
	Reason   string
}

// dragPhase is the transient pointer state of a panel.
type dragPhase uint8

const (
	phaseIdle          dragPhase = iota
	phaseDragging                // expanded panel following the pointer
	phaseCollapsedDrag           // collapsed panel waiting for an outward pull
)

// PanelOption configures a [Panel].
type PanelOption func(*Panel)

// WithPanelLogger sets the panel's logger.
func WithPanelLogger(l *slog.Logger) PanelOption {
	return func(p *Panel) { p.logger = l }
}

// WithPanelSink forwards settled geometry changes to sink.
func WithPanelSink(sink EventSink) PanelOption {
	return func(p *Panel) { p.sink = sink }
}

// WithStorageKeys overrides the versioned storage keys.
func WithStorageKeys(geometryKey, collapsedKey string) PanelOption {
	return func(p *Panel) {
		p.geometryKey = geometryKey
		p.collapsedKey = collapsedKey
	}
}

// Panel is the floating inspector panel's geometry state machine. It tracks
// corner affinity, size, and collapse state, turns pointer gestures into
// geometry decisions, animates its visual transform toward settled
// positions, and persists every settled change.
//
// Pointer input arrives through PointerDown/PointerMove/PointerUp (already
// past the drag dead zone) or through [Panel.HandlePointer], which runs the
// dead-zone state machine itself. A Panel is not safe for concurrent use.
type Panel struct {
	cfg      PanelConfig
	viewport Size
	geom     PanelGeometry

	phase       dragPhase
	resized     bool // viewport changed mid-drag; settle on release
	dragStart   Vec2
	startGeom   PanelGeometry
	transform   Vec2
	tween       *TweenGroup
	interactive []Rect

	pointer     pointerState
	injectQueue []syntheticPointerEvent

	store        *geometryStore
	geometryKey  string
	collapsedKey string
	sink         EventSink
	logger       *slog.Logger

	nextHandlerID uint32
	onGeometry    handlerList[GeometryChange]
	onStorage     handlerList[error]
}

// NewPanel creates a panel for the given viewport. Persisted geometry is
// loaded from store; when absent, malformed, or unreadable the defaults are
// used. A nil store keeps geometry in memory only.
func NewPanel(cfg PanelConfig, viewport Size, store Store, opts ...PanelOption) *Panel {
	p := &Panel{
		cfg:          cfg,
		viewport:     viewport,
		geometryKey:  DefaultGeometryKey,
		collapsedKey: DefaultCollapsedKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = defaultLogger()
	}
	p.onGeometry.nextID = &p.nextHandlerID
	p.onStorage.nextID = &p.nextHandlerID
	p.store = newGeometryStore(store, p.geometryKey, p.collapsedKey, p.logger, p.storageFailed)

	if g, ok := p.store.Load(); ok {
		p.geom = Settle(g, viewport, cfg)
		p.logger.Debug("loaded panel geometry", "corner", p.geom.Corner.String(), "collapsed", p.geom.Collapsed)
	} else {
		p.geom = DefaultGeometry(viewport, cfg)
	}
	p.transform = p.geom.Position
	return p
}

// Geometry returns the settled geometry.
func (p *Panel) Geometry() PanelGeometry { return p.geom }

// Transform returns the panel's visual position. It differs from
// Geometry().Position while dragging or animating.
func (p *Panel) Transform() Vec2 { return p.transform }

// Bounds returns the panel's visual rectangle.
func (p *Panel) Bounds() Rect {
	return Rect{p.transform.X, p.transform.Y, p.geom.Size.Width, p.geom.Size.Height}
}

// Viewport returns the current viewport size.
func (p *Panel) Viewport() Size { return p.viewport }

// Config returns the panel's geometry policy.
func (p *Panel) Config() PanelConfig { return p.cfg }

// Dragging reports whether a drag sequence is in progress.
func (p *Panel) Dragging() bool { return p.phase != phaseIdle }

// Animating reports whether a snap or collapse animation is in flight.
func (p *Panel) Animating() bool { return p.tween != nil && !p.tween.Done }

// StorageAvailable reports whether geometry is still being persisted.
func (p *Panel) StorageAvailable() bool { return p.store.Available() }

// OnGeometryChange registers a callback for settled geometry changes.
func (p *Panel) OnGeometryChange(fn func(GeometryChange)) CallbackHandle {
	return register(&p.onGeometry, fn)
}

// OnStorageError registers a callback invoked once when persistence fails.
// The error wraps [ErrStorageUnavailable].
func (p *Panel) OnStorageError(fn func(error)) CallbackHandle {
	return register(&p.onStorage, fn)
}

// SetInteractiveRegions sets panel-relative rectangles of interactive
// children. A press inside one of them does not start a drag.
func (p *Panel) SetInteractiveRegions(rects ...Rect) {
	p.interactive = append(p.interactive[:0], rects...)
}

// Update advances the panel by dt seconds: one queued synthetic pointer
// event is consumed and the snap animation advances.
func (p *Panel) Update(dt float32) {
	p.processInjectedInput()
	if p.tween != nil {
		p.tween.Update(dt)
		if p.tween.Done {
			p.tween = nil
		}
	}
}

// PointerDown starts a drag sequence at pos. It reports whether the panel
// took the pointer: presses outside the panel, on an interactive child, or
// while another drag is active are ignored.
func (p *Panel) PointerDown(pos Vec2) bool {
	if p.phase != phaseIdle {
		return false
	}
	bounds := p.Bounds()
	if !bounds.Contains(pos.X, pos.Y) {
		return false
	}
	local := pos.Sub(p.transform)
	for _, r := range p.interactive {
		if r.Contains(local.X, local.Y) {
			return false
		}
	}

	// Grab the panel where it is drawn, even mid-animation.
	p.stopTween()
	p.dragStart = pos
	p.startGeom = p.geom
	p.startGeom.Position = p.transform
	if p.geom.Collapsed {
		p.phase = phaseCollapsedDrag
	} else {
		p.phase = phaseDragging
	}
	return true
}

// PointerMove feeds a pointer position during a drag sequence.
func (p *Panel) PointerMove(pos Vec2) {
	switch p.phase {
	case phaseDragging:
		d := DecideDrag(p.startGeom, pos.Sub(p.dragStart), p.viewport, p.cfg)
		switch d.Kind {
		case DecisionMove:
			// Direct write, no tween: animating here blurs the panel.
			p.transform = d.Geometry.Position
		case DecisionCollapse:
			p.phase = phaseIdle
			p.logger.Debug("panel collapsed by drag",
				"corner", d.Geometry.Corner.String(),
				"orientation", d.Geometry.Orientation.String(),
				"overflow", d.Overflow)
			p.settle(d.Geometry, ReasonDragCollapse, true)
		}
	case phaseCollapsedDrag:
		d := DecideExpand(p.startGeom, pos.Sub(p.dragStart), pos, p.viewport, p.cfg)
		if d.Kind != DecisionExpand {
			return
		}
		p.settle(d.Geometry, ReasonDragExpand, false)
		// Re-arm as an expanded drag from here.
		p.phase = phaseDragging
		p.dragStart = pos
		p.startGeom = p.geom
	}
}

// PointerUp ends a drag sequence at pos.
func (p *Panel) PointerUp(pos Vec2) {
	phase := p.phase
	p.phase = phaseIdle
	if phase != phaseDragging {
		p.settleResize()
		return
	}
	d := DecideDragEnd(p.startGeom, pos.Sub(p.dragStart), pos, p.viewport, p.cfg)
	if d.Kind == DecisionReturn {
		if p.resized {
			p.settle(d.Geometry, ReasonResize, true)
			return
		}
		p.animateTo(d.Geometry.Position)
		return
	}
	p.settle(d.Geometry, ReasonSnap, true)
}

// CancelDrag abandons a drag sequence and returns the panel to its corner.
func (p *Panel) CancelDrag() {
	if p.phase == phaseIdle {
		return
	}
	p.phase = phaseIdle
	p.pointer = pointerState{}
	if p.resized {
		p.settleResize()
		return
	}
	p.animateTo(p.geom.Position)
}

// Resize adapts the panel to a new viewport, keeping its corner and
// collapse state. During a drag the panel stays under the pointer and the
// new geometry is settled and persisted when the drag ends.
func (p *Panel) Resize(viewport Size) {
	if viewport == p.viewport {
		return
	}
	p.viewport = viewport
	g := Settle(p.geom, viewport, p.cfg)
	if p.phase != phaseIdle {
		grabbed := p.startGeom.Position
		p.startGeom = Settle(p.startGeom, viewport, p.cfg)
		p.startGeom.Position = grabbed
		p.geom = g
		p.resized = true
		return
	}
	p.settle(g, ReasonResize, false)
}

// settleResize settles a geometry deferred by a mid-drag resize.
func (p *Panel) settleResize() {
	if !p.resized {
		return
	}
	p.settle(p.geom, ReasonResize, true)
}

// RequestCollapse collapses the panel against the horizontal edge of its
// current corner. No-op when already collapsed.
func (p *Panel) RequestCollapse() {
	if p.geom.Collapsed {
		return
	}
	p.phase = phaseIdle
	p.settle(Collapse(p.geom, p.geom.Corner, OrientationHorizontal, p.viewport, p.cfg), ReasonRequestCollapse, true)
}

// RequestExpand expands a collapsed panel at its corner with its last
// dimensions. No-op when already expanded.
func (p *Panel) RequestExpand() {
	if !p.geom.Collapsed {
		return
	}
	p.phase = phaseIdle
	p.settle(Expand(p.geom, p.viewport, p.cfg), ReasonRequestExpand, true)
}

// settle adopts g, moves the visual transform (animated or not), notifies
// listeners, and persists. Persisting is always the last step.
func (p *Panel) settle(g PanelGeometry, reason string, animate bool) {
	p.geom = g
	p.resized = false
	if animate {
		p.animateTo(g.Position)
	} else {
		p.stopTween()
		p.transform = g.Position
	}
	change := GeometryChange{Geometry: g, Reason: reason}
	p.onGeometry.fire(change)
	if p.sink != nil {
		p.sink.EmitGeometry(change)
	}
	p.store.Save(g)
}

// animateTo eases the visual transform toward target. Re-triggering replaces
// any animation in flight.
func (p *Panel) animateTo(target Vec2) {
	p.tween = TweenVec2(&p.transform, target, float32(p.cfg.SnapDuration), snapEase)
	if p.tween.Done {
		p.tween = nil
	}
}

func (p *Panel) stopTween() {
	p.tween = nil
	p.transform = Vec2{math.Round(p.transform.X), math.Round(p.transform.Y)}
}

func (p *Panel) storageFailed(err error) {
	p.onStorage.fire(err)
}
