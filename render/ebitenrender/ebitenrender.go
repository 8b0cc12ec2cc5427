// Package ebitenrender draws a sim world with ebiten.
package ebitenrender

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/sparks/render"
	"github.com/plus3/sparks/sim"
)

const spriteSize = 64

var staticColor = color.RGBA{R: 90, G: 96, B: 110, A: 255}

// Renderer draws every active body as a tinted disc.
type Renderer struct {
	World  *sim.World
	Camera render.Camera

	disc *ebiten.Image
}

// New creates a renderer for world.
func New(world *sim.World, camera render.Camera) *Renderer {
	disc := ebiten.NewImage(spriteSize, spriteSize)
	vector.DrawFilledCircle(disc, spriteSize/2, spriteSize/2, spriteSize/2, color.White, true)
	return &Renderer{
		World:  world,
		Camera: camera,
		disc:   disc,
	}
}

// Draw renders the world onto screen.
func (r *Renderer) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	r.World.Each(func(b *sim.Body) bool {
		if !b.Active() {
			return true
		}

		radius := b.Radius()
		if !b.Static() {
			radius *= b.Scale()
		}
		pixels := radius * 2 * r.Camera.Zoom
		if pixels < 1 {
			pixels = 1
		}
		x, y := r.Camera.ToScreen(b.Position(), w, h)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-spriteSize/2, -spriteSize/2)
		op.GeoM.Scale(pixels/spriteSize, pixels/spriteSize)
		op.GeoM.Translate(x, y)
		if b.Static() {
			op.ColorScale.ScaleWithColor(staticColor)
		} else {
			op.ColorScale.ScaleWithColor(b.Tint().Clamped())
		}
		screen.DrawImage(r.disc, op)
		return true
	})
}
