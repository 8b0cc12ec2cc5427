// Package termrender draws a sim world into a terminal cell grid.
package termrender

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/sparks/render"
	"github.com/plus3/sparks/sim"
)

var (
	staticStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(90, 96, 110))
	glyphs      = []rune{'·', '∙', '•', '●'}
)

// Renderer draws bodies as glyphs sized by their scale.
type Renderer struct {
	Screen tcell.Screen
	World  *sim.World
	Camera render.Camera
}

// New creates a renderer. Terminal cells are about twice as tall as they
// are wide, so the camera's aspect is set to one half.
func New(screen tcell.Screen, world *sim.World, zoom float64) *Renderer {
	cam := render.NewCamera(mgl64.Vec2{}, zoom)
	cam.Aspect = 0.5
	return &Renderer{Screen: screen, World: world, Camera: cam}
}

// Glyph picks the rune for a body of the given on-screen size in cells.
func Glyph(cells float64) rune {
	i := int(math.Round(cells * 2))
	i = max(0, min(i, len(glyphs)-1))
	return glyphs[i]
}

// Draw clears the screen and renders every active body. It does not call
// Show.
func (r *Renderer) Draw() {
	r.Screen.Clear()
	w, h := r.Screen.Size()

	r.World.Each(func(b *sim.Body) bool {
		if !b.Active() {
			return true
		}
		if b.Static() {
			r.drawStatic(b, w, h)
			return true
		}

		fx, fy := r.Camera.ToScreen(b.Position(), w, h)
		x, y := int(math.Floor(fx)), int(math.Floor(fy))
		if x < 0 || y < 0 || x >= w || y >= h {
			return true
		}

		c := b.Tint().Clamped()
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
			int32(c.R*255), int32(c.G*255), int32(c.B*255)))
		r.Screen.SetContent(x, y, Glyph(b.Radius()*b.Scale()*2*r.Camera.Zoom), nil, style)
		return true
	})
}

// drawStatic outlines a static body with block characters.
func (r *Renderer) drawStatic(b *sim.Body, w, h int) {
	glyph := '█'
	if b.Trigger() {
		glyph = '░'
	}

	radius := b.Radius()
	x0, y0 := r.Camera.ToScreen(b.Position().Sub(mgl64.Vec2{radius, -radius}), w, h)
	x1, y1 := r.Camera.ToScreen(b.Position().Add(mgl64.Vec2{radius, -radius}), w, h)
	for y := max(0, int(y0)); y <= min(h-1, int(y1)); y++ {
		for x := max(0, int(x0)); x <= min(w-1, int(x1)); x++ {
			p := r.Camera.ToWorld(float64(x)+0.5, float64(y)+0.5, w, h)
			if p.Sub(b.Position()).Len() <= radius {
				r.Screen.SetContent(x, y, glyph, nil, staticStyle)
			}
		}
	}
}
