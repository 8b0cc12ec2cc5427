package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/sparks/clock"
	"github.com/plus3/sparks/config"
	"github.com/plus3/sparks/engine"
	"github.com/plus3/sparks/particle"
	"github.com/plus3/sparks/sim"
	"github.com/plus3/sparks/task"
)

func main() {
	duration := flag.Duration("duration", 30*time.Second, "Simulated time to run for.")
	frame := flag.Duration("frame", time.Second/60, "Simulated frame length.")
	copies := flag.Int("copies", 20, "Instances of every configured emitter.")
	configPath := flag.String("config", "", "Effect YAML file. Uses the built-in effect when empty.")
	seed := flag.Uint64("seed", 1, "Seed for spawn headings.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting particle stress test...")

	effect := config.Default()
	if *configPath != "" {
		var err error
		if effect, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// 1. Setup clock, scheduler, world and loop
	clk := clock.NewManual(time.Unix(0, 0))
	tasks := task.New(clk)
	world := sim.NewWorld()
	world.Gravity = mgl64.Vec2{0, -9.8}
	world.CellSize = 0.5
	world.Spawn(sim.BodyDef{Position: mgl64.Vec2{0, -50}, Radius: 48, Static: true, Restitution: 0.3, Tag: "ground"})

	emitters := &particle.EmitterSystem{}
	loop := engine.NewLoop(tasks)
	loop.Register(emitters)
	loop.Register(&sim.StepSystem{World: world})

	// 2. Populate emitters
	rng := rand.New(rand.NewPCG(*seed, *seed))
	var collisions int
	for i := 0; i < *copies; i++ {
		for _, spec := range effect.Emitters {
			cfg, err := spec.EmitterConfig()
			if err != nil {
				log.Fatalf("Emitter %s: %v", spec.Name, err)
			}
			cfg.PlayOnStart = true

			origin := spec.Origin.Point()
			origin.Pos = origin.Pos.Add(mgl64.Vec2{float64(i) * 0.5, 0})

			proto := effect.PrototypeFor(spec)
			e := particle.NewEmitter(tasks, origin, cfg, proto.Prototype(world.ParticleFactory(radiusOf(proto))))
			e.SetRand(rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())))
			e.AddCollisionEnterListener(func(particle.Contact) { collisions++ })
			emitters.Add(e)
		}
	}
	log.Printf("Created %d emitters.\n", len(emitters.Emitters))

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Frame:          *frame,
		Emitters:       len(emitters.Emitters),
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	startTime := time.Now()
	dt := frame.Seconds()
	for simulated := time.Duration(0); simulated < *duration; simulated += *frame {
		updateStart := time.Now()
		loop.Once(dt)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		clk.Advance(*frame)

		st := emitters.Stats()
		report.PeakAlive = max(report.PeakAlive, st.Alive)
		if !balanced(st) {
			report.Violations++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.Final = emitters.Stats()
	report.Collisions = collisions
	report.UpdateTime.Finalize()
	report.Loop = loop.Stats()

	// 4. Tear down and let the survivors expire
	for _, e := range emitters.Emitters {
		e.Destroy()
	}
	for _, e := range emitters.Emitters {
		report.TornDown.add(e.Stats())
	}
	clk.Advance(time.Duration(maxLifetime(effect)*float64(time.Second)) + time.Second)
	tasks.Poll()
	for _, e := range emitters.Emitters {
		report.Drained.add(e.Stats())
	}
	report.Bodies = world.Len()

	runtime.ReadMemStats(&report.MemStatsEnd)
	log.Println("Simulation finished.")

	// 5. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	if report.Violations > 0 || report.Drained.Constructed != report.Drained.Destroyed {
		log.Fatalf("Accounting check failed: %d violations", report.Violations)
	}
	log.Println("Stress test complete.")
}

func radiusOf(p config.PrototypeSpec) float64 {
	if p.Radius > 0 {
		return p.Radius
	}
	return 0.1
}

func maxLifetime(f *config.File) float64 {
	longest := 0.0
	for _, e := range f.Emitters {
		longest = max(longest, e.Lifetime)
	}
	return longest
}

func balanced(st particle.Stats) bool {
	return st.Constructed == st.Alive+st.Pooled+st.Destroyed
}
