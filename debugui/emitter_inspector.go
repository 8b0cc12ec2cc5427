package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sparks/particle"
)

// EmitterInspector shows the accounting of a set of named emitters and
// lets the user start, stop and retune them.
type EmitterInspector struct {
	Emitters []NamedEmitter
}

// NamedEmitter pairs an emitter with a display label.
type NamedEmitter struct {
	Name    string
	Emitter *particle.Emitter
}

// Add registers an emitter under name.
func (ei *EmitterInspector) Add(name string, e *particle.Emitter) {
	ei.Emitters = append(ei.Emitters, NamedEmitter{Name: name, Emitter: e})
}

// Rows returns one formatted table row per emitter: name, state,
// constructed, alive, pooled and destroyed counts.
func (ei *EmitterInspector) Rows() [][6]string {
	rows := make([][6]string, 0, len(ei.Emitters))
	for _, ne := range ei.Emitters {
		st := ne.Emitter.Stats()
		rows = append(rows, [6]string{
			ne.Name,
			stateLabel(ne.Emitter, st),
			fmt.Sprintf("%d", st.Constructed),
			fmt.Sprintf("%d", st.Alive),
			fmt.Sprintf("%d", st.Pooled),
			fmt.Sprintf("%d", st.Destroyed),
		})
	}
	return rows
}

func stateLabel(e *particle.Emitter, st particle.Stats) string {
	switch {
	case e.Torn():
		return "torn down"
	case st.Emitting:
		return "emitting"
	case st.Working:
		return "working"
	}
	return "stopped"
}

func (ei *EmitterInspector) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 300), imgui.CondOnce)
	if !imgui.BeginV("Emitters", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("EmitterStats", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("State")
		imgui.TableSetupColumn("Built")
		imgui.TableSetupColumn("Alive")
		imgui.TableSetupColumn("Pooled")
		imgui.TableSetupColumn("Destroyed")
		imgui.TableHeadersRow()

		for _, row := range ei.Rows() {
			imgui.TableNextRow()
			for _, cell := range row {
				imgui.TableNextColumn()
				imgui.Text(cell)
			}
		}
		imgui.EndTable()
	}

	for _, ne := range ei.Emitters {
		if ne.Emitter.Torn() {
			continue
		}
		if !imgui.TreeNodeStr(ne.Name) {
			continue
		}
		ei.renderControls(ne)
		imgui.TreePop()
	}

	imgui.End()
}

func (ei *EmitterInspector) renderControls(ne NamedEmitter) {
	e := ne.Emitter

	if e.IsWorking() {
		if imgui.Button(fmt.Sprintf("Stop##%s", ne.Name)) {
			e.StopWork()
		}
	} else if imgui.Button(fmt.Sprintf("Start##%s", ne.Name)) {
		e.StartWork()
	}

	cfg := e.Config()

	rate := int32(cfg.Rate)
	imgui.Text("Rate:")
	imgui.SameLine()
	imgui.SetNextItemWidth(150)
	if imgui.InputInt(fmt.Sprintf("##rate-%s", ne.Name), &rate) {
		e.SetRate(int(rate))
	}

	lifetime := float32(cfg.Lifetime)
	imgui.Text("Lifetime:")
	imgui.SameLine()
	imgui.SetNextItemWidth(150)
	if imgui.InputFloat(fmt.Sprintf("##lifetime-%s", ne.Name), &lifetime) {
		e.SetLifetime(float64(lifetime))
	}

	imgui.Text(fmt.Sprintf("Frame: %s  Spread: %.0f  Angle: %.0f  Force: %.1f",
		cfg.Frame, cfg.Spread, cfg.Angle, cfg.Force))
}
