// Package engine drives the per-frame tick: it polls pending timed waits,
// then runs registered systems in order and records their timings.
package engine

import (
	"context"
	"reflect"
	"time"

	"github.com/plus3/sparks/task"
)

// System is a unit of per-frame work.
type System interface {
	Execute(frame *Frame)
}

// Frame carries the data for one tick.
type Frame struct {
	DeltaTime float64
	Tasks     *task.Scheduler
	defers    []func()
}

// Defer queues fn to run after every system has executed this frame.
func (f *Frame) Defer(fn func()) {
	f.defers = append(f.defers, fn)
}

// LoopStats provides statistics about loop execution.
type LoopStats struct {
	SystemCount     int
	Frames          int64
	TasksRun        int64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Loop owns the frame order: timed waits first, then systems.
type Loop struct {
	tasks       *task.Scheduler
	systems     []System
	systemStats []*systemStatsInternal
	frames      int64
	tasksRun    int64
}

// NewLoop creates a loop that polls tasks at the start of every frame.
func NewLoop(tasks *task.Scheduler) *Loop {
	return &Loop{
		tasks:   tasks,
		systems: make([]System, 0),
	}
}

// Tasks returns the scheduler polled by this loop.
func (l *Loop) Tasks() *task.Scheduler {
	return l.tasks
}

// Register appends a system to the execution order.
func (l *Loop) Register(system System) {
	l.systems = append(l.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	l.systemStats = append(l.systemStats, &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Once runs a single frame with the given delta time in seconds.
func (l *Loop) Once(dt float64) {
	if l.tasks != nil {
		l.tasksRun += int64(l.tasks.Poll())
	}

	frame := &Frame{DeltaTime: dt, Tasks: l.tasks}

	for i, system := range l.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := l.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	for _, fn := range frame.defers {
		fn()
	}
	l.frames++
}

// Run executes frames at the given interval until the context is cancelled.
func (l *Loop) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			l.Once(dt)
		}
	}
}

// Stats returns statistics about system execution.
func (l *Loop) Stats() *LoopStats {
	stats := &LoopStats{
		SystemCount: len(l.systems),
		Frames:      l.frames,
		TasksRun:    l.tasksRun,
		Systems:     make([]SystemStats, len(l.systemStats)),
	}

	var totalExecs int64
	for i, internal := range l.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}

// Func adapts a plain function to the System interface.
type Func func(frame *Frame)

func (f Func) Execute(frame *Frame) { f(frame) }
