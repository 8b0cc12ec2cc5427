// Package render holds the view transform shared by the renderers.
package render

import "github.com/go-gl/mathgl/mgl64"

// Camera maps world units to screen pixels or cells. World y points up;
// screen y points down.
type Camera struct {
	Center mgl64.Vec2
	Zoom   float64 // screen units per world unit
	Aspect float64 // vertical stretch, 1 for square pixels
}

// NewCamera creates a camera looking at center.
func NewCamera(center mgl64.Vec2, zoom float64) Camera {
	return Camera{Center: center, Zoom: zoom, Aspect: 1}
}

// ToScreen converts a world position for a screen of the given size.
func (c Camera) ToScreen(p mgl64.Vec2, width, height int) (x, y float64) {
	aspect := c.Aspect
	if aspect == 0 {
		aspect = 1
	}
	d := p.Sub(c.Center)
	x = float64(width)/2 + d.X()*c.Zoom
	y = float64(height)/2 - d.Y()*c.Zoom*aspect
	return x, y
}

// ToWorld is the inverse of ToScreen.
func (c Camera) ToWorld(x, y float64, width, height int) mgl64.Vec2 {
	aspect := c.Aspect
	if aspect == 0 {
		aspect = 1
	}
	return mgl64.Vec2{
		(x-float64(width)/2)/c.Zoom + c.Center.X(),
		-(y-float64(height)/2)/(c.Zoom*aspect) + c.Center.Y(),
	}
}
