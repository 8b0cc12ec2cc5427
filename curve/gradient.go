package curve

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is a colorful.Color that reads and writes as a hex string in YAML.
type Color struct {
	colorful.Color
}

func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := colorful.Hex(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	c.Color = parsed
	return nil
}

// Stop is one color position in a gradient.
type Stop struct {
	Time  float64 `yaml:"time"`
	Color Color   `yaml:"color"`
}

// Gradient blends stop colors in CIE-L*a*b* space. Stops must be sorted
// by Time.
type Gradient struct {
	Stops []Stop `yaml:"stops"`
}

var white = colorful.Color{R: 1, G: 1, B: 1}

// NewGradient builds a gradient with evenly spaced stops.
func NewGradient(colors ...colorful.Color) Gradient {
	g := Gradient{Stops: make([]Stop, len(colors))}
	for i, c := range colors {
		t := 0.0
		if len(colors) > 1 {
			t = float64(i) / float64(len(colors)-1)
		}
		g.Stops[i] = Stop{Time: t, Color: Color{c}}
	}
	return g
}

// Evaluate returns the gradient color at t, clamped to [0, 1]. An empty
// gradient is white.
func (g Gradient) Evaluate(t float64) colorful.Color {
	switch len(g.Stops) {
	case 0:
		return white
	case 1:
		return g.Stops[0].Color.Color
	}

	t = clamp01(t)
	if t <= g.Stops[0].Time {
		return g.Stops[0].Color.Color
	}
	for i := 0; i < len(g.Stops)-1; i++ {
		s0, s1 := g.Stops[i], g.Stops[i+1]
		if t < s0.Time || t > s1.Time {
			continue
		}
		span := s1.Time - s0.Time
		if span <= 0 {
			return s1.Color.Color
		}
		return s0.Color.BlendLab(s1.Color.Color, (t-s0.Time)/span).Clamped()
	}
	return g.Stops[len(g.Stops)-1].Color.Color
}

// Validate checks that stops are sorted and lie within [0, 1].
func (g Gradient) Validate() error {
	for i, s := range g.Stops {
		if s.Time < 0 || s.Time > 1 {
			return fmt.Errorf("stop %d: time %g outside [0, 1]", i, s.Time)
		}
		if i > 0 && s.Time < g.Stops[i-1].Time {
			return fmt.Errorf("stop %d: time %g before previous stop", i, s.Time)
		}
	}
	return nil
}
