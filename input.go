package lens

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// pointerState tracks one pointer across frames.
type pointerState struct {
	down     bool
	captured bool // the panel accepted the press
	dragging bool // movement exceeded the dead zone
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
}

// HandlePointer runs the pointer state machine for one sample: pos is the
// pointer position and pressed the primary button state. Presses are offered
// to the panel immediately; moves are forwarded only once the pointer has
// travelled past the configured drag dead zone. A click on a collapsed panel
// expands it.
func (p *Panel) HandlePointer(pos Vec2, pressed bool) {
	ps := &p.pointer

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = pos.X, pos.Y
		ps.lastX, ps.lastY = pos.X, pos.Y
		ps.dragging = false
		ps.captured = p.PointerDown(pos)

	case !pressed && ps.down:
		if ps.captured {
			if ps.dragging {
				p.PointerUp(pos)
			} else {
				// A press without movement ends where it started. Clicking
				// a collapsed affordance expands it.
				collapsed := p.geom.Collapsed
				p.PointerUp(Vec2{ps.startX, ps.startY})
				if collapsed {
					p.RequestExpand()
				}
			}
		}
		*ps = pointerState{lastX: pos.X, lastY: pos.Y}

	case pressed && ps.down:
		if pos.X == ps.lastX && pos.Y == ps.lastY {
			return
		}
		if ps.captured && !ps.dragging {
			dx := pos.X - ps.startX
			dy := pos.Y - ps.startY
			if math.Sqrt(dx*dx+dy*dy) > p.cfg.DragDeadZone {
				ps.dragging = true
			}
		}
		if ps.captured && ps.dragging {
			p.PointerMove(pos)
			// The panel may have collapsed and released the drag.
			if !p.Dragging() {
				ps.captured = false
			}
		}
		ps.lastX, ps.lastY = pos.X, pos.Y

	default:
		ps.lastX, ps.lastY = pos.X, pos.Y
	}
}

// pollPointer reads the primary pointer from ebiten: the mouse when a button
// is down or no touch is active, otherwise the first touch.
func pollPointer(touchBuf []ebiten.TouchID) (pos Vec2, pressed bool, touches []ebiten.TouchID) {
	touches = ebiten.AppendTouchIDs(touchBuf[:0])
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || len(touches) == 0 {
		mx, my := ebiten.CursorPosition()
		return Vec2{float64(mx), float64(my)}, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), touches
	}
	tx, ty := ebiten.TouchPosition(touches[0])
	return Vec2{float64(tx), float64(ty)}, true, touches
}
