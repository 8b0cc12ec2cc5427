package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/sparks/engine"
	"github.com/plus3/sparks/particle"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Frame    time.Duration
	Emitters int

	// Results
	TotalTime      time.Duration
	UpdateTime     Stats
	Final          particle.Stats
	PeakAlive      int
	Collisions     int
	Violations     int
	TornDown       Totals
	Drained        Totals
	Bodies         int
	Loop           *engine.LoopStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Totals sums particle accounting across emitters.
type Totals struct {
	Constructed int
	Alive       int
	Pooled      int
	Destroyed   int
}

func (t *Totals) add(st particle.Stats) {
	t.Constructed += st.Constructed
	t.Alive += st.Alive
	t.Pooled += st.Pooled
	t.Destroyed += st.Destroyed
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Particle Stress Test Report

## Test Configuration
- **Simulated Duration:** {{.Duration}}
- **Frame Length:** {{.Frame}}
- **Emitters:** {{.Emitters}}

## Particle Accounting
- **Constructed:** {{.Final.Constructed}}
- **Alive:** {{.Final.Alive}} (peak {{.PeakAlive}})
- **Pooled:** {{.Final.Pooled}}
- **Destroyed:** {{.Final.Destroyed}}
- **Collisions Relayed:** {{.Collisions}}
- **Accounting Violations:** {{.Violations}}

## Teardown
- After Destroy: {{.TornDown.Alive}} alive, {{.TornDown.Pooled}} pooled, {{.TornDown.Destroyed}} destroyed
- After Drain:   {{.Drained.Alive}} alive, {{.Drained.Pooled}} pooled, {{.Drained.Destroyed}} of {{.Drained.Constructed}} destroyed
- Bodies Left:   {{.Bodies}}

## Performance Results
- **Total Updates:** {{len .UpdateTime.Samples}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{if .Loop}}
## Systems
{{range .Loop.Systems}}- {{.Name}}: avg {{.AvgDuration}}, max {{.MaxDuration}} over {{.ExecutionCount}} runs
{{end}}- Waits Run: {{.Loop.TasksRun}}
{{end}}
## Memory Usage (MiB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end)
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
