package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/sparks/audio"
	"github.com/plus3/sparks/clock"
	"github.com/plus3/sparks/config"
	"github.com/plus3/sparks/engine"
	"github.com/plus3/sparks/particle"
	"github.com/plus3/sparks/render/termrender"
	"github.com/plus3/sparks/sim"
	"github.com/plus3/sparks/task"
)

const frameInterval = 16 * time.Millisecond

type App struct {
	screen   tcell.Screen
	loop     *engine.Loop
	renderer *termrender.Renderer
	emitters *particle.EmitterSystem
	cues     *audio.Cues
}

func main() {
	configPath := flag.String("config", "", "Effect YAML file. Uses the built-in effect when empty.")
	mute := flag.Bool("mute", false, "Disable collision sounds.")
	zoom := flag.Float64("zoom", 3, "Terminal cells per world unit.")
	logPath := flag.String("log", "", "Write log output to this file instead of discarding it.")
	flag.Parse()

	// The terminal is owned by tcell; logs go to a file or nowhere.
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	effect := config.Default()
	if *configPath != "" {
		var err error
		if effect, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.HideCursor()

	app := newApp(screen, effect, *zoom)

	app.cues = audio.NewCues(clock.NewReal())
	if !*mute {
		// Non-fatal, the demo runs without sound
		if err := app.cues.Initialize(); err != nil {
			log.Printf("[Audio] initialization failed: %v", err)
		}
		defer app.cues.Close()
	}
	for _, e := range app.emitters.Emitters {
		app.cues.Listen(e)
	}

	app.run()
}

func newApp(screen tcell.Screen, effect *config.File, zoom float64) *App {
	tasks := task.New(clock.NewReal())
	world := sim.NewWorld()
	world.Gravity = mgl64.Vec2{0, -9.8}
	world.Damping = 0.2
	world.CellSize = 0.5
	world.Spawn(sim.BodyDef{Position: mgl64.Vec2{0, -56}, Radius: 50, Static: true, Restitution: 0.35, Tag: "ground"})

	app := &App{
		screen:   screen,
		emitters: &particle.EmitterSystem{},
		renderer: termrender.New(screen, world, zoom),
	}
	app.renderer.Camera.Center = mgl64.Vec2{0, 2}

	for _, spec := range effect.Emitters {
		cfg, err := spec.EmitterConfig()
		if err != nil {
			log.Printf("[Emitter %s] skipped: %v", spec.Name, err)
			continue
		}
		proto := effect.PrototypeFor(spec)
		radius := proto.Radius
		if radius <= 0 {
			radius = 0.1
		}
		app.emitters.Add(particle.NewEmitter(tasks, spec.Origin.Point(), cfg, proto.Prototype(world.ParticleFactory(radius))))
	}

	app.loop = engine.NewLoop(tasks)
	app.loop.Register(app.emitters)
	app.loop.Register(&sim.StepSystem{World: world})
	app.loop.Register(engine.Func(app.draw))
	return app
}

func (a *App) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			a.loop.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

func (a *App) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			a.nudge(mgl64.Vec2{-0.5, 0})
		case tcell.KeyRight:
			a.nudge(mgl64.Vec2{0.5, 0})
		case tcell.KeyUp:
			a.nudge(mgl64.Vec2{0, 0.5})
		case tcell.KeyDown:
			a.nudge(mgl64.Vec2{0, -0.5})
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				a.toggle()
			}
		}

	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// nudge moves the first emitter's origin.
func (a *App) nudge(d mgl64.Vec2) {
	if len(a.emitters.Emitters) == 0 {
		return
	}
	origin := a.emitters.Emitters[0].Origin()
	origin.SetPosition(origin.Position().Add(d))
}

func (a *App) toggle() {
	for _, e := range a.emitters.Emitters {
		if e.IsWorking() {
			e.StopWork()
		} else {
			e.StartWork()
		}
	}
}

func (a *App) draw(frame *engine.Frame) {
	frame.Defer(func() {
		a.renderer.Draw()

		st := a.emitters.Stats()
		status := fmt.Sprintf(" alive %d  pooled %d  built %d  cues %d  [space] toggle  [arrows] move  [q] quit ",
			st.Alive, st.Pooled, st.Constructed, a.cueCount())
		style := tcell.StyleDefault.Reverse(true)
		for i, r := range status {
			a.screen.SetContent(i, 0, r, nil, style)
		}
		a.screen.Show()
	})
}

func (a *App) cueCount() int {
	if a.cues == nil {
		return 0
	}
	return a.cues.Played()
}
