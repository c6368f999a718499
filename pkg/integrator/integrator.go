package integrator

import (
	"image/color"

	"github.com/df07/go-terminal-raytracer/pkg/geometry"
	"github.com/df07/go-terminal-raytracer/pkg/scene"
)

// Integrator defines the interface for shading models
type Integrator interface {
	// Shade computes the display colour for the nearest hit of a primary ray
	Shade(s *scene.Scene, hit geometry.Hit) color.RGBA
}
