package lens

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	overlayPadding    = 8
	overlayLineHeight = 14
	overlayButtonSize = 20
	overlayValueWidth = 48 // characters
)

var (
	overlayBackground = color.RGBA{R: 18, G: 18, B: 24, A: 235}
	overlayHeader     = color.RGBA{R: 40, G: 40, B: 56, A: 255}
	overlayBorder     = color.RGBA{R: 120, G: 90, B: 220, A: 255}
	overlayText       = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	overlayChanged    = color.RGBA{R: 250, G: 200, B: 90, A: 255}
	overlayMuted      = color.RGBA{R: 130, G: 130, B: 150, A: 255}
)

// Overlay draws the inspector panel with ebiten and feeds it real pointer
// and window input. Embed it in a host game: call Update from the game's
// Update, Draw last in the game's Draw, and Layout from the game's Layout.
type Overlay struct {
	panel   *Panel
	session *Session
	face    *text.GoXFace

	last      InspectionUpdate
	hasUpdate bool
	renders   int
	status    string

	touchBuf    []ebiten.TouchID
	wasPressed  bool
	buttonArmed bool
	handles     []CallbackHandle
}

// NewOverlay creates an overlay for panel showing updates from session.
func NewOverlay(panel *Panel, session *Session) *Overlay {
	o := &Overlay{
		panel:   panel,
		session: session,
		face:    text.NewGoXFace(basicfont.Face7x13),
		status:  "idle",
	}
	o.handles = append(o.handles,
		session.OnUpdate(o.handleUpdate),
		session.OnStateChange(o.handleState),
		panel.OnGeometryChange(func(GeometryChange) { o.layoutRegions() }),
		panel.OnStorageError(func(err error) { o.status = "storage off" }),
	)
	o.layoutRegions()
	return o
}

// Close removes the overlay's callbacks.
func (o *Overlay) Close() {
	for _, h := range o.handles {
		h.Remove()
	}
	o.handles = nil
}

func (o *Overlay) handleUpdate(u InspectionUpdate) {
	if u.Initial {
		o.renders = 0
	}
	o.renders++
	o.last = u
	o.hasUpdate = true
}

func (o *Overlay) handleState(c StateChange) {
	o.status = c.State.String()
	if c.State == SessionIdle {
		o.hasUpdate = false
		o.renders = 0
	}
}

// collapseButton returns the panel-relative rect of the collapse button.
func (o *Overlay) collapseButton() Rect {
	g := o.panel.Geometry()
	return Rect{g.Size.Width - overlayButtonSize - overlayPadding, (o.headerHeight() - overlayButtonSize) / 2, overlayButtonSize, overlayButtonSize}
}

func (o *Overlay) headerHeight() float64 {
	if h := o.panel.Config().PinnedHeight; h > 0 {
		return h
	}
	return overlayLineHeight + 2*overlayPadding
}

func (o *Overlay) layoutRegions() {
	if o.panel.Geometry().Collapsed {
		o.panel.SetInteractiveRegions()
		return
	}
	o.panel.SetInteractiveRegions(o.collapseButton())
}

// Layout resizes the panel to the host's outside size and returns it as the
// screen size.
func (o *Overlay) Layout(outsideWidth, outsideHeight int) (int, int) {
	o.panel.Resize(Size{float64(outsideWidth), float64(outsideHeight)})
	return outsideWidth, outsideHeight
}

// Update polls pointer input and advances the panel by one tick.
func (o *Overlay) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if o.panel.PendingInput() == 0 {
		var pos Vec2
		var pressed bool
		pos, pressed, o.touchBuf = pollPointer(o.touchBuf)
		o.handleButton(pos, pressed)
		o.panel.HandlePointer(pos, pressed)
	}
	o.panel.Update(dt)
	return nil
}

// handleButton collapses the panel when the collapse button is pressed and
// released in place.
func (o *Overlay) handleButton(pos Vec2, pressed bool) {
	g := o.panel.Geometry()
	local := pos.Sub(o.panel.Transform())
	inButton := !g.Collapsed && !o.panel.Dragging() && o.collapseButton().Contains(local.X, local.Y)
	switch {
	case pressed && !o.wasPressed:
		o.buttonArmed = inButton
	case !pressed && o.wasPressed:
		if o.buttonArmed && inButton {
			o.panel.RequestCollapse()
		}
		o.buttonArmed = false
	}
	o.wasPressed = pressed
}

// Draw renders the panel onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	b := o.panel.Bounds()
	x, y, w, h := float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height)
	vector.DrawFilledRect(screen, x, y, w, h, overlayBackground, false)
	vector.StrokeRect(screen, x, y, w, h, 1, overlayBorder, false)
	if o.panel.Geometry().Collapsed {
		return
	}

	hh := float32(o.headerHeight())
	vector.DrawFilledRect(screen, x, y, w, hh, overlayHeader, false)
	o.drawText(screen, o.headerLine(), b.X+overlayPadding, b.Y+(float64(hh)-overlayLineHeight)/2, overlayText)

	btn := o.collapseButton()
	vector.StrokeRect(screen, x+float32(btn.X), y+float32(btn.Y), float32(btn.Width), float32(btn.Height), 1, overlayMuted, false)
	o.drawText(screen, "_", b.X+btn.X+7, b.Y+btn.Y+2, overlayMuted)

	maxLines := int((b.Height - float64(hh) - 2*overlayPadding) / overlayLineHeight)
	lineY := b.Y + float64(hh) + overlayPadding
	for _, l := range o.Lines(maxLines) {
		clr := overlayText
		switch {
		case l.Changed:
			clr = overlayChanged
		case l.Heading:
			clr = overlayMuted
		}
		o.drawText(screen, l.Text, b.X+overlayPadding, lineY, clr)
		lineY += overlayLineHeight
	}
}

func (o *Overlay) drawText(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, o.face, op)
}

func (o *Overlay) headerLine() string {
	if !o.hasUpdate {
		return "lens: " + o.status
	}
	return fmt.Sprintf("%s  renders: %d  [%s]", o.last.Kind, o.renders, o.status)
}

// OverlayLine is one formatted line of the panel body.
type OverlayLine struct {
	Text    string
	Heading bool
	Changed bool
}

// Lines formats the latest update as at most maxLines lines.
func (o *Overlay) Lines(maxLines int) []OverlayLine {
	if !o.hasUpdate || maxLines <= 0 {
		return nil
	}
	return formatUpdate(o.last, maxLines)
}

func formatUpdate(u InspectionUpdate, maxLines int) []OverlayLine {
	var lines []OverlayLine
	add := func(l OverlayLine) bool {
		if len(lines) >= maxLines {
			return false
		}
		lines = append(lines, l)
		return true
	}
	sections := []struct {
		title string
		snap  SectionSnapshot
	}{
		{"props", u.Props},
		{"state", u.State},
		{"context", u.Context},
	}
	for _, sec := range sections {
		if len(sec.snap.Current) == 0 {
			continue
		}
		if !add(OverlayLine{Text: sec.title, Heading: true}) {
			return lines
		}
		for _, f := range sec.snap.Current {
			line := OverlayLine{Text: "  " + f.Name + ": " + formatValue(f.Value), Changed: sec.snap.Changed(f.Name)}
			if n := sec.snap.ChangeCounts[f.Name]; n > 0 {
				line.Text += fmt.Sprintf("  x%d", n)
			}
			if !add(line) {
				return lines
			}
		}
	}
	return lines
}

// formatValue renders a collected value on one line, truncated to
// overlayValueWidth characters.
func formatValue(v any) (s string) {
	defer func() {
		if recover() != nil {
			s = "<unprintable>"
		}
	}()
	switch tv := Represent(v).(type) {
	case nil:
		s = "nil"
	case string:
		s = fmt.Sprintf("%q", tv)
	case Unrepresentable:
		s = tv.String()
	default:
		s = fmt.Sprintf("%v", tv)
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) > overlayValueWidth {
		s = string([]rune(s)[:overlayValueWidth-3]) + "..."
	}
	return s
}
