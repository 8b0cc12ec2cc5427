package termrender_test

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/plus3/sparks/render/termrender"
	"github.com/plus3/sparks/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 20)
	t.Cleanup(screen.Fini)
	return screen
}

func TestDrawParticle(t *testing.T) {
	screen := newScreen(t)
	world := sim.NewWorld()

	b := world.Spawn(sim.BodyDef{Position: mgl64.Vec2{2, 2}, Radius: 0.5})
	b.SetTint(colorful.Color{R: 1})
	hidden := world.Spawn(sim.BodyDef{Position: mgl64.Vec2{-2, -2}, Radius: 0.5})
	hidden.SetActive(false)

	r := termrender.New(screen, world, 2)
	r.Draw()

	// x = 20 + 2*2, y = 10 - 2*2*0.5
	mainc, _, style, _ := screen.GetContent(24, 8)
	assert.Equal(t, termrender.Glyph(2), mainc)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)

	mainc, _, _, _ = screen.GetContent(16, 12)
	assert.Equal(t, ' ', mainc, "inactive bodies are not drawn")
}

func TestDrawStatic(t *testing.T) {
	screen := newScreen(t)
	world := sim.NewWorld()
	world.Spawn(sim.BodyDef{Radius: 2, Static: true})
	world.Spawn(sim.BodyDef{Position: mgl64.Vec2{8, 0}, Radius: 1, Static: true, Trigger: true})

	termrender.New(screen, world, 2).Draw()

	mainc, _, _, _ := screen.GetContent(20, 10)
	assert.Equal(t, '█', mainc)
	mainc, _, _, _ = screen.GetContent(36, 10)
	assert.Equal(t, '░', mainc)
	mainc, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, ' ', mainc)
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, '·', termrender.Glyph(0))
	assert.Equal(t, '●', termrender.Glyph(10))
	assert.Equal(t, '•', termrender.Glyph(1))
}
