package particle

import "github.com/lucasb-eyer/go-colorful"

// Factory constructs the host entity for a new particle. Construction is
// assumed to be expensive; emitters call it only when their pool is empty.
type Factory func() Entity

// Prototype is the template emitters build new particles from.
type Prototype struct {
	Size                 float64
	Color                colorful.Color
	SizeOverLife         SizeCurve
	ColorOverLife        ColorGradient
	DetectOtherParticles bool
	New                  Factory
}

var white = colorful.Color{R: 1, G: 1, B: 1}

// DefaultPrototype returns a unit-size white prototype with flat curves.
func DefaultPrototype(factory Factory) Prototype {
	return Prototype{
		Size:  1,
		Color: white,
		New:   factory,
	}
}

func (p *Prototype) sizeAt(t float64) float64 {
	if p.SizeOverLife == nil {
		return p.Size
	}
	return p.SizeOverLife.Evaluate(t) * p.Size
}

func (p *Prototype) colorAt(t float64) colorful.Color {
	if p.ColorOverLife == nil {
		return p.Color
	}
	g := p.ColorOverLife.Evaluate(t)
	return colorful.Color{
		R: g.R * p.Color.R,
		G: g.G * p.Color.G,
		B: g.B * p.Color.B,
	}
}
