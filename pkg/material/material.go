package material

import "github.com/df07/go-terminal-raytracer/pkg/core"

// Material describes how a surface responds to light
type Material struct {
	Color core.Vec3 // Base colour, each channel in [0,1]

	specular    float64
	hasSpecular bool
}

// NewMatte creates a material with no specular highlight
func NewMatte(color core.Vec3) Material {
	return Material{Color: color}
}

// NewSpecular creates a material that reflects highlights with the given Phong exponent
func NewSpecular(color core.Vec3, exponent float64) Material {
	return Material{Color: color, specular: exponent, hasSpecular: true}
}

// SpecularExponent returns the Phong exponent and whether the surface is specular-capable
func (m Material) SpecularExponent() (float64, bool) {
	return m.specular, m.hasSpecular
}
