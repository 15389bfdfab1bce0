package lens

import "math"

// PanelGeometry is the settled layout of the inspector panel.
//
// When Collapsed is true, Size is the affordance size for Orientation and
// LastDimensions holds the expanded size to restore. When expanded, Size is
// bounded between the configured minimum and the viewport minus the safe
// area on both sides, and LastDimensions equals Size.
type PanelGeometry struct {
	Corner         Corner
	Position       Vec2
	Size           Size
	Collapsed      bool
	Orientation    Orientation
	LastDimensions Size
}

// Rect returns the panel's bounds.
func (g PanelGeometry) Rect() Rect {
	return Rect{g.Position.X, g.Position.Y, g.Size.Width, g.Size.Height}
}

// DecisionKind is the outcome of a geometry decision.
type DecisionKind uint8

const (
	DecisionNone     DecisionKind = iota // nothing to do
	DecisionMove                         // follow the pointer
	DecisionCollapse                     // collapse to an edge
	DecisionReturn                       // too little movement; go back to the corner
	DecisionSnap                         // snap to a (possibly new) corner
	DecisionExpand                       // expand a collapsed panel
)

var decisionNames = [...]string{"none", "move", "collapse", "return", "snap", "expand"}

func (k DecisionKind) String() string {
	if int(k) < len(decisionNames) {
		return decisionNames[k]
	}
	return "unknown"
}

// GeometryDecision is the result of applying a pointer gesture to a geometry.
// Geometry is the geometry to adopt; for DecisionMove only its Position
// differs from the input and it is transient.
type GeometryDecision struct {
	Kind     DecisionKind
	Geometry PanelGeometry
	// Overflow is the fraction of the panel area outside the viewport,
	// computed for drag decisions.
	Overflow float64
}

// DefaultGeometry returns the geometry used when nothing is persisted:
// expanded at the bottom-right corner with the minimum bounded size.
func DefaultGeometry(vp Size, cfg PanelConfig) PanelGeometry {
	size := BoundedSize(Size{cfg.MinWidth, cfg.InitialHeight}, vp, cfg)
	return PanelGeometry{
		Corner:         CornerBottomRight,
		Position:       CornerPosition(CornerBottomRight, size, vp, cfg),
		Size:           size,
		LastDimensions: size,
	}
}

// BoundedSize clamps s between the configured minimum and the viewport minus
// twice the safe area. When the viewport is too small for the minimum, the
// viewport bound wins.
func BoundedSize(s Size, vp Size, cfg PanelConfig) Size {
	return Size{
		Width:  math.Round(clampBound(s.Width, cfg.MinWidth, vp.Width-2*cfg.SafeArea)),
		Height: math.Round(clampBound(s.Height, cfg.MinHeight, vp.Height-2*cfg.SafeArea)),
	}
}

func clampBound(v, lo, hi float64) float64 {
	if hi < lo {
		return math.Max(hi, 0)
	}
	return math.Min(math.Max(v, lo), hi)
}

// CollapsedSize returns the affordance size for an orientation.
func CollapsedSize(o Orientation, cfg PanelConfig) Size {
	if o == OrientationVertical {
		return cfg.CollapsedVertical
	}
	return cfg.CollapsedHorizontal
}

// CornerPosition returns the top-left position of a panel of the given size
// anchored at corner, inset by the safe area.
func CornerPosition(c Corner, size Size, vp Size, cfg PanelConfig) Vec2 {
	x := cfg.SafeArea
	if !c.IsLeft() {
		x = vp.Width - size.Width - cfg.SafeArea
	}
	y := cfg.SafeArea
	if !c.IsTop() {
		y = vp.Height - size.Height - cfg.SafeArea
	}
	return Vec2{math.Round(x), math.Round(y)}
}

// CollapsedPosition returns the position of a collapsed affordance. A
// horizontal affordance sits flush against the left or right edge; a
// vertical one against the top or bottom edge. The other axis keeps the
// safe-area inset of the corner.
func CollapsedPosition(c Corner, o Orientation, vp Size, cfg PanelConfig) Vec2 {
	size := CollapsedSize(o, cfg)
	pos := CornerPosition(c, size, vp, cfg)
	if o == OrientationHorizontal {
		if c.IsLeft() {
			pos.X = 0
		} else {
			pos.X = vp.Width - size.Width
		}
	} else {
		if c.IsTop() {
			pos.Y = 0
		} else {
			pos.Y = vp.Height - size.Height
		}
	}
	return Vec2{math.Round(pos.X), math.Round(pos.Y)}
}

// Settle recomputes size and position of g for the viewport without changing
// its corner or collapsed state.
func Settle(g PanelGeometry, vp Size, cfg PanelConfig) PanelGeometry {
	if g.Collapsed {
		if g.LastDimensions.Width <= 0 || g.LastDimensions.Height <= 0 {
			g.LastDimensions = Size{cfg.MinWidth, cfg.InitialHeight}
		}
		g.Size = CollapsedSize(g.Orientation, cfg)
		g.Position = CollapsedPosition(g.Corner, g.Orientation, vp, cfg)
		return g
	}
	g.Size = BoundedSize(g.Size, vp, cfg)
	g.Position = CornerPosition(g.Corner, g.Size, vp, cfg)
	g.LastDimensions = g.Size
	return g
}

// Collapse returns g collapsed against the edge nearest corner.
func Collapse(g PanelGeometry, corner Corner, o Orientation, vp Size, cfg PanelConfig) PanelGeometry {
	if !g.Collapsed {
		g.LastDimensions = g.Size
	}
	g.Collapsed = true
	g.Corner = corner
	g.Orientation = o
	g.Size = CollapsedSize(o, cfg)
	g.Position = CollapsedPosition(corner, o, vp, cfg)
	return g
}

// Expand returns g expanded at its corner with LastDimensions restored.
func Expand(g PanelGeometry, vp Size, cfg PanelConfig) PanelGeometry {
	g.Collapsed = false
	g.Size = BoundedSize(g.LastDimensions, vp, cfg)
	g.Position = CornerPosition(g.Corner, g.Size, vp, cfg)
	g.LastDimensions = g.Size
	return g
}

// Overflow returns how many pixels of r lie outside the viewport on each axis.
func Overflow(r Rect, vp Size) (x, y float64) {
	x = math.Max(0, -r.X) + math.Max(0, r.X+r.Width-vp.Width)
	y = math.Max(0, -r.Y) + math.Max(0, r.Y+r.Height-vp.Height)
	return math.Min(x, r.Width), math.Min(y, r.Height)
}

// OverflowFraction returns the fraction of r's area outside the viewport.
func OverflowFraction(r Rect, vp Size) float64 {
	area := r.Area()
	if area == 0 {
		return 0
	}
	return 1 - visibleArea(r, vp)/area
}

func visibleArea(r Rect, vp Size) float64 {
	w := math.Min(r.X+r.Width, vp.Width) - math.Max(r.X, 0)
	h := math.Min(r.Y+r.Height, vp.Height) - math.Max(r.Y, 0)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// QuadrantCorner returns the corner of the viewport quadrant containing p.
func QuadrantCorner(p Vec2, vp Size) Corner {
	left := p.X < vp.Width/2
	top := p.Y < vp.Height/2
	switch {
	case top && left:
		return CornerTopLeft
	case top:
		return CornerTopRight
	case left:
		return CornerBottomLeft
	default:
		return CornerBottomRight
	}
}

// pinnedOffscreen reports whether the status strip at the top of r is
// entirely outside the viewport.
func pinnedOffscreen(r Rect, vp Size, cfg PanelConfig) bool {
	if cfg.PinnedHeight <= 0 {
		return false
	}
	strip := Rect{r.X, r.Y, r.Width, math.Min(cfg.PinnedHeight, r.Height)}
	return visibleArea(strip, vp) == 0
}

// DecideDrag applies a pointer delta to an expanded panel mid-drag. The panel
// follows the pointer until the overflow fraction reaches the collapse
// threshold or its status strip leaves the screen; then it collapses at the
// corner of the quadrant holding its center, along the axis with the larger
// overflow.
func DecideDrag(start PanelGeometry, delta Vec2, vp Size, cfg PanelConfig) GeometryDecision {
	g := start
	g.Position = Vec2{math.Round(start.Position.X + delta.X), math.Round(start.Position.Y + delta.Y)}
	r := g.Rect()
	frac := OverflowFraction(r, vp)

	if frac < cfg.CollapseThreshold && !pinnedOffscreen(r, vp, cfg) {
		return GeometryDecision{Kind: DecisionMove, Geometry: g, Overflow: frac}
	}

	ox, oy := Overflow(r, vp)
	o := OrientationHorizontal
	if oy > ox {
		o = OrientationVertical
	}
	corner := QuadrantCorner(r.Center(), vp)
	return GeometryDecision{
		Kind:     DecisionCollapse,
		Geometry: Collapse(start, corner, o, vp, cfg),
		Overflow: frac,
	}
}

// DecideDragEnd settles an expanded drag. Movement below the click threshold
// returns the panel to its corner; otherwise it snaps to the corner of the
// quadrant holding the pointer.
func DecideDragEnd(start PanelGeometry, delta, pointer Vec2, vp Size, cfg PanelConfig) GeometryDecision {
	if math.Hypot(delta.X, delta.Y) < cfg.ClickThreshold {
		g := start
		g.Position = CornerPosition(g.Corner, g.Size, vp, cfg)
		return GeometryDecision{Kind: DecisionReturn, Geometry: g}
	}
	g := start
	g.Corner = QuadrantCorner(pointer, vp)
	g.Position = CornerPosition(g.Corner, g.Size, vp, cfg)
	return GeometryDecision{Kind: DecisionSnap, Geometry: g}
}

// DecideExpand checks whether a drag on a collapsed panel has travelled far
// enough away from the edge it hugs. When it has, the panel expands with its
// last dimensions, centered on the pointer and clamped inside the safe area.
func DecideExpand(start PanelGeometry, delta, pointer Vec2, vp Size, cfg PanelConfig) GeometryDecision {
	if !start.Collapsed || !outward(start, delta, cfg.ExpandThreshold) {
		return GeometryDecision{Kind: DecisionNone, Geometry: start}
	}
	g := start
	g.Collapsed = false
	g.Size = BoundedSize(start.LastDimensions, vp, cfg)
	g.LastDimensions = g.Size
	g.Position = Vec2{
		X: math.Round(clampPosition(pointer.X-g.Size.Width/2, cfg.SafeArea, vp.Width-g.Size.Width-cfg.SafeArea)),
		Y: math.Round(clampPosition(pointer.Y-g.Size.Height/2, cfg.SafeArea, vp.Height-g.Size.Height-cfg.SafeArea)),
	}
	return GeometryDecision{Kind: DecisionExpand, Geometry: g}
}

// outward reports whether delta moves a collapsed panel away from its edge
// by more than threshold.
func outward(g PanelGeometry, delta Vec2, threshold float64) bool {
	if g.Orientation == OrientationHorizontal {
		if g.Corner.IsLeft() {
			return delta.X > threshold
		}
		return delta.X < -threshold
	}
	if g.Corner.IsTop() {
		return delta.Y > threshold
	}
	return delta.Y < -threshold
}

func clampPosition(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
