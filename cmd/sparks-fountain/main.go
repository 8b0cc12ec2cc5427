package main

import (
	"flag"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sparks/clock"
	"github.com/plus3/sparks/config"
	"github.com/plus3/sparks/debugui"
	debugui_ebiten "github.com/plus3/sparks/debugui/ebiten"
	"github.com/plus3/sparks/engine"
	"github.com/plus3/sparks/particle"
	"github.com/plus3/sparks/render"
	"github.com/plus3/sparks/render/ebitenrender"
	"github.com/plus3/sparks/sim"
	"github.com/plus3/sparks/task"
)

const (
	ScreenWidth   = 1280
	ScreenHeight  = 720
	PixelsPerUnit = 40
)

type Game struct {
	Loop     *engine.Loop
	Renderer *ebitenrender.Renderer
	Backend  *debugui_ebiten.ImguiBackend
	Perf     *debugui.PerformanceStats
	Input    *debugui.InputState
	Emitters *particle.EmitterSystem
}

func main() {
	configPath := flag.String("config", "", "Effect YAML file. Uses the built-in effect when empty.")
	flag.Parse()

	effect := config.Default()
	if *configPath != "" {
		var err error
		if effect, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	backend := debugui_ebiten.NewImguiBackend("Sparks Fountain", ScreenWidth, ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	tasks := task.New(clock.NewReal())
	world := sim.NewWorld()
	world.Gravity = mgl64.Vec2{0, -9.8}
	world.Damping = 0.1
	world.CellSize = 0.5
	world.Spawn(sim.BodyDef{Position: mgl64.Vec2{0, -104}, Radius: 100, Static: true, Restitution: 0.4, Tag: "ground"})
	world.Spawn(sim.BodyDef{Position: mgl64.Vec2{6, 5}, Radius: 1.5, Static: true, Trigger: true, Tag: "zone"})

	emitters := &particle.EmitterSystem{}
	inspector := &debugui.EmitterInspector{}
	for _, spec := range effect.Emitters {
		cfg, err := spec.EmitterConfig()
		if err != nil {
			log.Fatalf("Emitter %s: %v", spec.Name, err)
		}
		proto := effect.PrototypeFor(spec)
		radius := proto.Radius
		if radius <= 0 {
			radius = 0.1
		}
		e := particle.NewEmitter(tasks, spec.Origin.Point(), cfg, proto.Prototype(world.ParticleFactory(radius)))
		emitters.Add(e)
		inspector.Add(spec.Name, e)
	}

	loop := engine.NewLoop(tasks)
	perf := debugui.NewPerformanceStats(loop, 120)
	input := &debugui.InputState{}
	ui := &debugui.System{Input: input}
	ui.Add(inspector.Render)
	ui.Add(perf.Render)

	loop.Register(emitters)
	loop.Register(&sim.StepSystem{World: world})
	loop.Register(ui)

	game := &Game{
		Loop:     loop,
		Renderer: ebitenrender.New(world, render.NewCamera(mgl64.Vec2{0, 3}, PixelsPerUnit)),
		Backend:  backend,
		Perf:     perf,
		Input:    input,
		Emitters: emitters,
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	dt := 1.0 / float64(ebiten.TPS())
	g.Perf.Record(dt)

	g.Backend.BeginFrame()
	g.Loop.Once(dt)
	g.Backend.EndFrame()

	// Drag the first emitter with the mouse unless ImGui wants it.
	if len(g.Emitters.Emitters) > 0 && !g.Input.WantCaptureMouse && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		w, h := ebiten.WindowSize()
		g.Emitters.Emitters[0].Origin().SetPosition(g.Renderer.Camera.ToWorld(float64(x), float64(y), w, h))
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.Renderer.Draw(screen)
	g.Backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
