// Package curve evaluates size curves and color gradients over a
// normalized particle life in [0, 1].
package curve

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Interpolation selects how values are blended between two keyframes.
type Interpolation int

const (
	Linear Interpolation = iota
	EaseIn
	EaseOut
	FastInOutWeak
)

var interpolationNames = map[Interpolation]string{
	Linear:        "Linear",
	EaseIn:        "EaseIn",
	EaseOut:       "EaseOut",
	FastInOutWeak: "FastInOutWeak",
}

func (i Interpolation) String() string {
	if name, ok := interpolationNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation resolves a case-insensitive interpolation name.
// The empty string is Linear.
func ParseInterpolation(s string) (Interpolation, error) {
	if s == "" {
		return Linear, nil
	}
	for interp, name := range interpolationNames {
		if strings.EqualFold(name, s) {
			return interp, nil
		}
	}
	return Linear, fmt.Errorf("unknown interpolation %q", s)
}

func (i Interpolation) MarshalYAML() (any, error) {
	return i.String(), nil
}

func (i *Interpolation) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseInterpolation(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*i = parsed
	return nil
}

// ease remaps a ratio in [0, 1].
func (i Interpolation) ease(r float64) float64 {
	switch i {
	case EaseIn:
		return r * r
	case EaseOut:
		return 1 - (1-r)*(1-r)
	case FastInOutWeak:
		return r * r * (3 - 2*r)
	}
	return r
}

// Point is one keyframe.
type Point struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
}

// Keyframes is a piecewise curve. Points must be sorted by Time.
type Keyframes struct {
	Points []Point       `yaml:"points"`
	Interp Interpolation `yaml:"interp"`
}

// Evaluate returns the curve value at t. t is clamped to [0, 1]. Before
// the first point the first value holds; after the last, the last value.
// An empty curve evaluates to 1.
func (k Keyframes) Evaluate(t float64) float64 {
	switch len(k.Points) {
	case 0:
		return 1
	case 1:
		return k.Points[0].Value
	}

	t = clamp01(t)
	if t <= k.Points[0].Time {
		return k.Points[0].Value
	}

	for i := 0; i < len(k.Points)-1; i++ {
		k0, k1 := k.Points[i], k.Points[i+1]
		if t < k0.Time || t > k1.Time {
			continue
		}
		span := k1.Time - k0.Time
		if span <= 0 {
			return k1.Value
		}
		r := k.Interp.ease((t - k0.Time) / span)
		return k0.Value + r*(k1.Value-k0.Value)
	}

	return k.Points[len(k.Points)-1].Value
}

// Sorted reports whether the points are in non-decreasing time order.
func (k Keyframes) Sorted() bool {
	for i := 1; i < len(k.Points); i++ {
		if k.Points[i].Time < k.Points[i-1].Time {
			return false
		}
	}
	return true
}

// Constant is a curve with the same value everywhere.
type Constant float64

func (c Constant) Evaluate(float64) float64 { return float64(c) }

// Line is a two-point linear curve from start to end.
func Line(start, end float64) Keyframes {
	return Keyframes{Points: []Point{{Time: 0, Value: start}, {Time: 1, Value: end}}}
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
