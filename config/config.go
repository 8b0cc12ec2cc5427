// Package config loads emitter and particle prototype definitions from YAML.
package config

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/plus3/sparks/curve"
	"github.com/plus3/sparks/particle"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// File is a complete effect definition.
type File struct {
	Prototypes map[string]PrototypeSpec `yaml:"prototypes"`
	Emitters   []EmitterSpec            `yaml:"emitters"`
}

// PrototypeSpec describes how spawned particles look.
type PrototypeSpec struct {
	Size                 *float64         `yaml:"size"`                 // base scale, defaults to 1
	Radius               float64          `yaml:"radius"`               // collision radius of the host body
	Color                *curve.Color     `yaml:"color"`                // base tint, defaults to white
	SizeOverLife         *curve.Keyframes `yaml:"sizeOverLife"`         // multiplier curve
	ColorOverLife        *curve.Gradient  `yaml:"colorOverLife"`        // multiplied by Color
	DetectOtherParticles bool             `yaml:"detectOtherParticles"` // relay contacts with other particles
}

// OriginSpec is a fixed spawn transform.
type OriginSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"` // degrees
}

// EmitterSpec is the YAML form of particle.EmitterConfig.
type EmitterSpec struct {
	Name        string     `yaml:"name"`
	Prototype   string     `yaml:"prototype"`
	Origin      OriginSpec `yaml:"origin"`
	Rate        int        `yaml:"rate"`     // particles per second
	Lifetime    float64    `yaml:"lifetime"` // seconds
	Spread      float64    `yaml:"spread"`   // degrees
	Angle       float64    `yaml:"angle"`    // degrees
	Force       float64    `yaml:"force"`
	Frame       string     `yaml:"frame"`  // local or world
	Detect      []string   `yaml:"detect"` // event kinds to relay
	PlayOnStart bool       `yaml:"playOnStart"`
}

// Default returns the built-in effect definition.
func Default() *File {
	f, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in config is invalid: %v", err))
	}
	return f
}

// Load reads, parses and validates the YAML file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect config: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Printf("[Config] loaded %d emitters, %d prototypes from %s", len(f.Emitters), len(f.Prototypes), path)
	return f, nil
}

// Parse decodes and validates a YAML effect definition.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse effect YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid effect config: %w", err)
	}
	return &f, nil
}

// Validate checks references and value ranges.
func (f *File) Validate() error {
	if len(f.Emitters) == 0 {
		return fmt.Errorf("emitters cannot be empty")
	}

	for _, name := range f.PrototypeNames() {
		p := f.Prototypes[name]
		if p.Size != nil && *p.Size < 0 {
			return fmt.Errorf("prototype %q: size must be >= 0, got %g", name, *p.Size)
		}
		if p.Radius < 0 {
			return fmt.Errorf("prototype %q: radius must be >= 0, got %g", name, p.Radius)
		}
		if p.SizeOverLife != nil && !p.SizeOverLife.Sorted() {
			return fmt.Errorf("prototype %q: sizeOverLife keyframes must be sorted by time", name)
		}
		if p.ColorOverLife != nil {
			if err := p.ColorOverLife.Validate(); err != nil {
				return fmt.Errorf("prototype %q: colorOverLife: %w", name, err)
			}
		}
	}

	seen := make(map[string]bool, len(f.Emitters))
	for i, e := range f.Emitters {
		label := e.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		} else if seen[label] {
			return fmt.Errorf("emitter %q defined twice", label)
		}
		seen[label] = true

		if e.Prototype != "" {
			if _, ok := f.Prototypes[e.Prototype]; !ok {
				return fmt.Errorf("emitter %s: unknown prototype %q", label, e.Prototype)
			}
		}
		if _, err := e.EmitterConfig(); err != nil {
			return fmt.Errorf("emitter %s: %w", label, err)
		}
	}
	return nil
}

// PrototypeNames returns the prototype names in sorted order.
func (f *File) PrototypeNames() []string {
	names := make([]string, 0, len(f.Prototypes))
	for name := range f.Prototypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrototypeFor returns the prototype an emitter references, or the zero
// spec when it references none.
func (f *File) PrototypeFor(e EmitterSpec) PrototypeSpec {
	return f.Prototypes[e.Prototype]
}

// EmitterConfig converts the spec to the core emitter settings.
func (e EmitterSpec) EmitterConfig() (particle.EmitterConfig, error) {
	frame, ok := particle.ParseOrientation(e.Frame)
	if !ok {
		return particle.EmitterConfig{}, fmt.Errorf("unknown reference frame %q", e.Frame)
	}

	cfg := particle.EmitterConfig{
		Rate:        e.Rate,
		Lifetime:    e.Lifetime,
		Spread:      e.Spread,
		Angle:       e.Angle,
		Force:       e.Force,
		Frame:       frame,
		PlayOnStart: e.PlayOnStart,
	}
	for _, name := range e.Detect {
		kind, ok := particle.ParseEventKind(name)
		if !ok {
			return particle.EmitterConfig{}, fmt.Errorf("unknown event kind %q", name)
		}
		switch kind {
		case particle.CollisionEnter:
			cfg.DetectCollisionEnter = true
		case particle.CollisionExit:
			cfg.DetectCollisionExit = true
		case particle.TriggerEnter:
			cfg.DetectTriggerEnter = true
		case particle.TriggerExit:
			cfg.DetectTriggerExit = true
		}
	}
	return cfg, nil
}

// Point returns the origin as a fixed transform.
func (o OriginSpec) Point() *particle.Point {
	return &particle.Point{Pos: mgl64.Vec2{o.X, o.Y}, Rot: o.Rotation}
}

// Prototype builds the core prototype around factory.
func (p PrototypeSpec) Prototype(factory particle.Factory) particle.Prototype {
	proto := particle.DefaultPrototype(factory)
	if p.Size != nil {
		proto.Size = *p.Size
	}
	if p.Color != nil {
		proto.Color = p.Color.Color
	}
	if p.SizeOverLife != nil {
		proto.SizeOverLife = *p.SizeOverLife
	}
	if p.ColorOverLife != nil {
		proto.ColorOverLife = *p.ColorOverLife
	}
	proto.DetectOtherParticles = p.DetectOtherParticles
	return proto
}

// BaseColor returns the configured tint or white.
func (p PrototypeSpec) BaseColor() colorful.Color {
	if p.Color == nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return p.Color.Color
}
