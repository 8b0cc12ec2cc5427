package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/plus3/sparks/config"
	"github.com/plus3/sparks/particle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
prototypes:
  ember:
    size: 2
    radius: 0.1
    color: "#ff0000"
    sizeOverLife:
      points:
        - {time: 0, value: 1}
        - {time: 1, value: 0}
emitters:
  - name: torch
    prototype: ember
    origin: {x: 1, y: 2, rotation: 90}
    rate: 30
    lifetime: 0.8
    spread: 15
    angle: 5
    force: 4
    frame: world
    detect: [collision-enter, trigger-exit]
    playOnStart: true
`

func TestParse(t *testing.T) {
	f, err := config.Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Emitters, 1)

	spec := f.Emitters[0]
	cfg, err := spec.EmitterConfig()
	require.NoError(t, err)
	assert.Equal(t, particle.EmitterConfig{
		Rate:                 30,
		Lifetime:             0.8,
		Spread:               15,
		Angle:                5,
		Force:                4,
		Frame:                particle.World,
		DetectCollisionEnter: true,
		DetectTriggerExit:    true,
		PlayOnStart:          true,
	}, cfg)

	origin := spec.Origin.Point()
	assert.Equal(t, mgl64.Vec2{1, 2}, origin.Position())
	assert.Equal(t, 90.0, origin.Rotation())

	proto := f.PrototypeFor(spec).Prototype(func() particle.Entity { return nil })
	assert.Equal(t, 2.0, proto.Size)
	assert.Equal(t, colorful.Color{R: 1}, proto.Color)
	require.NotNil(t, proto.SizeOverLife)
	assert.InDelta(t, 0.5, proto.SizeOverLife.Evaluate(0.5), 1e-9)
	assert.Nil(t, proto.ColorOverLife)
	assert.NotNil(t, proto.New)
}

func TestPrototypeDefaults(t *testing.T) {
	var spec config.PrototypeSpec
	proto := spec.Prototype(func() particle.Entity { return nil })
	assert.Equal(t, 1.0, proto.Size)
	assert.Equal(t, colorful.Color{R: 1, G: 1, B: 1}, proto.Color)
	assert.Equal(t, colorful.Color{R: 1, G: 1, B: 1}, spec.BaseColor())
	assert.Nil(t, proto.SizeOverLife)
}

func TestPrototypeExplicitZeroSize(t *testing.T) {
	f, err := config.Parse([]byte("prototypes: {p: {size: 0}}\nemitters: [{prototype: p}]\n"))
	require.NoError(t, err)

	proto := f.PrototypeFor(f.Emitters[0]).Prototype(func() particle.Entity { return nil })
	assert.Equal(t, 0.0, proto.Size, "an explicit zero is kept")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "no emitters",
			yaml: "prototypes: {}\n",
			want: "emitters cannot be empty",
		},
		{
			name: "unknown frame",
			yaml: "emitters: [{name: a, frame: sideways}]\n",
			want: `unknown reference frame "sideways"`,
		},
		{
			name: "unknown event kind",
			yaml: "emitters: [{name: a, detect: [explode]}]\n",
			want: `unknown event kind "explode"`,
		},
		{
			name: "unknown prototype",
			yaml: "emitters: [{name: a, prototype: ghost}]\n",
			want: `unknown prototype "ghost"`,
		},
		{
			name: "duplicate emitter",
			yaml: "emitters: [{name: a}, {name: a}]\n",
			want: `emitter "a" defined twice`,
		},
		{
			name: "unsorted keyframes",
			yaml: `
prototypes:
  p:
    sizeOverLife:
      points: [{time: 1, value: 1}, {time: 0, value: 0}]
emitters: [{prototype: p}]
`,
			want: "must be sorted",
		},
		{
			name: "gradient stop out of range",
			yaml: `
prototypes:
  p:
    colorOverLife:
      stops: [{time: 2, color: "#ffffff"}]
emitters: [{prototype: p}]
`,
			want: "outside [0, 1]",
		},
		{
			name: "negative size",
			yaml: "prototypes: {p: {size: -1}}\nemitters: [{prototype: p}]\n",
			want: "size must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := config.Parse([]byte("emitters: [\n"))
	assert.ErrorContains(t, err, "failed to parse effect YAML")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "effect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	f, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "torch", f.Emitters[0].Name)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	f := config.Default()
	assert.NotEmpty(t, f.Emitters)
	assert.Equal(t, []string{"smoke", "spark"}, f.PrototypeNames())
	for _, e := range f.Emitters {
		_, err := e.EmitterConfig()
		assert.NoError(t, err, e.Name)
	}
}
