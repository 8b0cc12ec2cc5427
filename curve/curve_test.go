package curve_test

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/plus3/sparks/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestKeyframesEvaluate(t *testing.T) {
	k := curve.Keyframes{Points: []curve.Point{
		{Time: 0, Value: 2},
		{Time: 0.5, Value: 4},
		{Time: 1, Value: 0},
	}}

	tests := []struct {
		t    float64
		want float64
	}{
		{-1, 2},
		{0, 2},
		{0.25, 3},
		{0.5, 4},
		{0.75, 2},
		{1, 0},
		{3, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, k.Evaluate(tt.t), 1e-9, "t=%g", tt.t)
	}
}

func TestKeyframesDegenerate(t *testing.T) {
	assert.Equal(t, 1.0, curve.Keyframes{}.Evaluate(0.3))
	assert.Equal(t, 7.0, curve.Keyframes{Points: []curve.Point{{Time: 0.4, Value: 7}}}.Evaluate(0.9))

	late := curve.Keyframes{Points: []curve.Point{{Time: 0.5, Value: 1}, {Time: 0.8, Value: 3}}}
	assert.Equal(t, 1.0, late.Evaluate(0.1), "before the first point")
	assert.Equal(t, 3.0, late.Evaluate(0.9), "after the last point")

	step := curve.Keyframes{Points: []curve.Point{{Time: 0, Value: 1}, {Time: 0.5, Value: 1}, {Time: 0.5, Value: 5}, {Time: 1, Value: 5}}}
	assert.Equal(t, 1.0, step.Evaluate(0.25))
	assert.Equal(t, 5.0, step.Evaluate(0.75))
}

func TestInterpolation(t *testing.T) {
	line := curve.Line(0, 1)
	tests := []struct {
		interp curve.Interpolation
		want   float64
	}{
		{curve.Linear, 0.25},
		{curve.EaseIn, 0.0625},
		{curve.EaseOut, 0.4375},
		{curve.FastInOutWeak, 0.15625},
	}
	for _, tt := range tests {
		t.Run(tt.interp.String(), func(t *testing.T) {
			line.Interp = tt.interp
			assert.InDelta(t, tt.want, line.Evaluate(0.25), 1e-9)
			assert.InDelta(t, 0.0, line.Evaluate(0), 1e-9)
			assert.InDelta(t, 1.0, line.Evaluate(1), 1e-9)
		})
	}
}

func TestParseInterpolation(t *testing.T) {
	got, err := curve.ParseInterpolation("easeout")
	require.NoError(t, err)
	assert.Equal(t, curve.EaseOut, got)

	got, err = curve.ParseInterpolation("")
	require.NoError(t, err)
	assert.Equal(t, curve.Linear, got)

	_, err = curve.ParseInterpolation("Bounce")
	assert.ErrorContains(t, err, "Bounce")
}

func TestKeyframesYAML(t *testing.T) {
	src := `
interp: EaseIn
points:
  - {time: 0, value: 1}
  - {time: 1, value: 3}
`
	var k curve.Keyframes
	require.NoError(t, yaml.Unmarshal([]byte(src), &k))
	assert.Equal(t, curve.EaseIn, k.Interp)
	assert.Len(t, k.Points, 2)
	assert.True(t, k.Sorted())

	err := yaml.Unmarshal([]byte("interp: Wobble\n"), &k)
	assert.ErrorContains(t, err, "line 1")
}

func TestConstant(t *testing.T) {
	c := curve.Constant(2.5)
	assert.Equal(t, 2.5, c.Evaluate(0))
	assert.Equal(t, 2.5, c.Evaluate(1))
}

func TestGradientEvaluate(t *testing.T) {
	red := colorful.Color{R: 1}
	blue := colorful.Color{B: 1}
	g := curve.NewGradient(red, blue)

	assert.True(t, g.Evaluate(0).AlmostEqualRgb(red))
	assert.True(t, g.Evaluate(1).AlmostEqualRgb(blue))
	assert.True(t, g.Evaluate(-2).AlmostEqualRgb(red))

	mid := g.Evaluate(0.5)
	assert.True(t, mid.IsValid())
	assert.Greater(t, mid.R, 0.0)
	assert.Greater(t, mid.B, 0.0)
	assert.True(t, mid.AlmostEqualRgb(red.BlendLab(blue, 0.5).Clamped()))
}

func TestGradientDegenerate(t *testing.T) {
	assert.Equal(t, colorful.Color{R: 1, G: 1, B: 1}, curve.Gradient{}.Evaluate(0.5))

	green := colorful.Color{G: 1}
	assert.Equal(t, green, curve.NewGradient(green).Evaluate(0.7))
}

func TestGradientYAMLAndValidate(t *testing.T) {
	src := `
stops:
  - {time: 0, color: "#ff0000"}
  - {time: 1, color: "#0000ff"}
`
	var g curve.Gradient
	require.NoError(t, yaml.Unmarshal([]byte(src), &g))
	require.Len(t, g.Stops, 2)
	assert.Equal(t, "#ff0000", g.Stops[0].Color.Hex())
	assert.NoError(t, g.Validate())

	out, err := yaml.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(out), "'#0000ff'")

	bad := curve.Gradient{Stops: []curve.Stop{{Time: 0.6}, {Time: 0.2}}}
	assert.ErrorContains(t, bad.Validate(), "before previous")

	outside := curve.Gradient{Stops: []curve.Stop{{Time: 1.5}}}
	assert.ErrorContains(t, outside.Validate(), "outside")

	assert.Error(t, yaml.Unmarshal([]byte("stops: [{time: 0, color: nothex}]"), &g))
}
