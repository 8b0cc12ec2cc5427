package particle

import (
	"slices"

	"github.com/plus3/sparks/engine"
)

// EmitterSystem ticks a set of emitters once per frame. Torn-down
// emitters are dropped from the set.
type EmitterSystem struct {
	Emitters []*Emitter
}

// Add appends emitters to the set.
func (s *EmitterSystem) Add(emitters ...*Emitter) {
	s.Emitters = append(s.Emitters, emitters...)
}

// Execute starts an emission cycle on every idle, working emitter.
func (s *EmitterSystem) Execute(frame *engine.Frame) {
	s.Emitters = slices.DeleteFunc(s.Emitters, func(e *Emitter) bool {
		return e == nil || e.Torn()
	})
	for _, e := range s.Emitters {
		e.Tick(frame.DeltaTime)
	}
}

// Stats sums the accounting of every emitter in the set.
func (s *EmitterSystem) Stats() Stats {
	var total Stats
	for _, e := range s.Emitters {
		st := e.Stats()
		total.Constructed += st.Constructed
		total.Alive += st.Alive
		total.Pooled += st.Pooled
		total.Destroyed += st.Destroyed
		total.Working = total.Working || st.Working
		total.Emitting = total.Emitting || st.Emitting
	}
	return total
}
