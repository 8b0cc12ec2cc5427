package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sparks/engine"
)

// PerformanceStats renders frame timing history and per-system loop stats.
type PerformanceStats struct {
	Loop *engine.Loop

	history []float32
	index   int
	filled  int
}

func NewPerformanceStats(loop *engine.Loop, historyFrames int) *PerformanceStats {
	return &PerformanceStats{
		Loop:    loop,
		history: make([]float32, historyFrames),
	}
}

// Record stores a frame time in seconds.
func (ps *PerformanceStats) Record(dt float64) {
	if len(ps.history) == 0 {
		return
	}
	ps.history[ps.index] = float32(dt * 1000)
	ps.index = (ps.index + 1) % len(ps.history)
	if ps.filled < len(ps.history) {
		ps.filled++
	}
}

// AverageMs returns the mean of the recorded frame times in milliseconds.
func (ps *PerformanceStats) AverageMs() float64 {
	if ps.filled == 0 {
		return 0
	}
	var sum float64
	for _, ms := range ps.history[:ps.filled] {
		sum += float64(ms)
	}
	return sum / float64(ps.filled)
}

// SortedSystems returns loop system stats, slowest average first.
func (ps *PerformanceStats) SortedSystems() []engine.SystemStats {
	systems := ps.Loop.Stats().Systems
	sort.SliceStable(systems, func(i, j int) bool {
		return systems[i].AvgDuration > systems[j].AvgDuration
	})
	return systems
}

func (ps *PerformanceStats) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 280), imgui.CondOnce)
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := ps.Loop.Stats()
	imgui.Text(fmt.Sprintf("Frames: %d  Tasks run: %d", stats.Frames, stats.TasksRun))
	if pending := ps.Loop.Tasks(); pending != nil {
		imgui.Text(fmt.Sprintf("Pending waits: %d", pending.Len()))
	}

	avg := ps.AverageMs()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	if len(ps.history) > 0 {
		imgui.Text("Frame Time Graph (ms)")
		imgui.PlotLinesFloatPtr("##frametime", &ps.history[0], int32(len(ps.history)))
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSizingFixedFit
	if imgui.BeginTableV("Systems", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Avg (ms)")
		imgui.TableSetupColumn("Min (ms)")
		imgui.TableSetupColumn("Max (ms)")
		imgui.TableHeadersRow()

		for _, sys := range ps.SortedSystems() {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(sys.Name)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.3f", float64(sys.AvgDuration.Microseconds())/1000.0))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.3f", float64(sys.MinDuration.Microseconds())/1000.0))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.3f", float64(sys.MaxDuration.Microseconds())/1000.0))
		}
		imgui.EndTable()
	}

	imgui.End()
}
