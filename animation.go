package lens

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 2 float64 fields simultaneously. The panel uses
// one to ease its visual transform toward a settled position. Call Update(dt)
// each frame; values are written back to the target fields.
//
// Starting a new group for the same fields simply replaces the old one: the
// new group starts from wherever the fields currently are.
type TweenGroup struct {
	tweens [2]*gween.Tween
	count  int
	fields [2]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g == nil || g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Finish jumps every field to its end value.
func (g *TweenGroup) Finish() {
	if g == nil || g.Done {
		return
	}
	for i := 0; i < g.count; i++ {
		val, _ := g.tweens[i].Set(math.MaxFloat32)
		*g.fields[i] = float64(val)
	}
	g.Done = true
}

// TweenVec2 creates a TweenGroup that animates v.X and v.Y to the target over
// the given duration. A non-positive duration applies the target immediately
// and returns a finished group.
func TweenVec2(v *Vec2, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2}
	g.fields[0] = &v.X
	g.fields[1] = &v.Y
	if duration <= 0 {
		v.X, v.Y = to.X, to.Y
		g.Done = true
		return g
	}
	g.tweens[0] = gween.New(float32(v.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(v.Y), float32(to.Y), duration, fn)
	return g
}

// snapEase is the easing used for corner snaps and collapse transitions.
var snapEase ease.TweenFunc = ease.OutCubic
