package lens

// Vec2 is a 2D vector used for positions, pointer deltas, and sizes.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Area returns Width*Height, or 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Translate returns r offset by d.
func (r Rect) Translate(d Vec2) Rect {
	return Rect{r.X + d.X, r.Y + d.Y, r.Width, r.Height}
}

// Corner identifies the viewport corner a panel is anchored to.
type Corner uint8

const (
	CornerBottomRight Corner = iota // default anchor
	CornerBottomLeft
	CornerTopRight
	CornerTopLeft
)

var cornerNames = [...]string{"bottom-right", "bottom-left", "top-right", "top-left"}

func (c Corner) String() string {
	if int(c) < len(cornerNames) {
		return cornerNames[c]
	}
	return "unknown"
}

// IsTop reports whether the corner hugs the top edge.
func (c Corner) IsTop() bool { return c == CornerTopLeft || c == CornerTopRight }

// IsLeft reports whether the corner hugs the left edge.
func (c Corner) IsLeft() bool { return c == CornerTopLeft || c == CornerBottomLeft }

// ParseCorner returns the corner with the given name.
func ParseCorner(s string) (Corner, bool) {
	for i, name := range cornerNames {
		if name == s {
			return Corner(i), true
		}
	}
	return 0, false
}

// Orientation selects how a collapsed panel's affordance is laid out.
type Orientation uint8

const (
	OrientationHorizontal Orientation = iota // hugs the left or right edge
	OrientationVertical                      // hugs the top or bottom edge
)

func (o Orientation) String() string {
	if o == OrientationVertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation returns the orientation with the given name.
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "horizontal":
		return OrientationHorizontal, true
	case "vertical":
		return OrientationVertical, true
	}
	return 0, false
}

// EventType identifies a kind of panel interaction event.
type EventType uint8

const (
	EventPointerDown EventType = iota // fires when a pointer button is pressed
	EventPointerMove                  // fires when the pointer moves with the button held
	EventPointerUp                    // fires when a pointer button is released
)
