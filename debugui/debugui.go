// Package debugui provides Dear ImGui windows for inspecting emitters and
// the frame loop.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sparks/engine"
)

// Item holds a Dear ImGui render function.
type Item struct {
	Render func()
}

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// System defers every item's render function to the end of the frame.
// When Input is set it is refreshed from the current ImGui context.
type System struct {
	Items []Item
	Input *InputState
}

// Add appends a render function.
func (s *System) Add(render func()) {
	s.Items = append(s.Items, Item{Render: render})
}

func (s *System) Execute(frame *engine.Frame) {
	if s.Input != nil {
		io := imgui.CurrentIO()
		s.Input.WantCaptureMouse = io.WantCaptureMouse()
		s.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for _, item := range s.Items {
		if item.Render != nil {
			frame.Defer(item.Render)
		}
	}
}
