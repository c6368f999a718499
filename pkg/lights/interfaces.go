package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-terminal-raytracer/pkg/core"
)

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light is a closed set of light source kinds. The four lighting operations
// switch on Type, so adding a kind means extending each switch below.
type Light struct {
	Type      LightType
	Position  core.Vec3 // Point lights: world position
	Direction core.Vec3 // Directional lights: unit vector from surfaces toward the light
	Color     core.Vec3
}

// NewPointLight creates an omnidirectional light at position
func NewPointLight(position, color core.Vec3) Light {
	return Light{Type: LightTypePoint, Position: position, Color: color}
}

// NewDirectionalLight creates a light infinitely far away, shining from direction
func NewDirectionalLight(direction, color core.Vec3) Light {
	return Light{Type: LightTypeDirectional, Direction: direction.Normalize(), Color: color}
}

// ParseLightType converts a name into a LightType
func ParseLightType(name string) (LightType, error) {
	switch LightType(name) {
	case LightTypePoint, LightTypeDirectional:
		return LightType(name), nil
	default:
		return "", fmt.Errorf("unknown light type %q", name)
	}
}

// DirectionFrom returns the (unnormalised) direction from point toward the light.
// For point lights the light itself is reached at t=1 along this vector.
func (l Light) DirectionFrom(point core.Vec3) core.Vec3 {
	switch l.Type {
	case LightTypePoint:
		return l.Position.Subtract(point)
	default:
		return l.Direction
	}
}

// TMax returns the shadow-ray limit along DirectionFrom
func (l Light) TMax() float64 {
	switch l.Type {
	case LightTypePoint:
		return 1.0
	default:
		return math.MaxFloat64
	}
}

// Diffuse returns the Lambertian term for a surface at point with the given normal.
// The result is signed; callers floor the accumulated total.
func (l Light) Diffuse(point, normal core.Vec3) core.Vec3 {
	return l.Color.Multiply(normal.CosAngle(l.DirectionFrom(point)))
}

// Specular returns the Phong highlight seen from viewing direction view
func (l Light) Specular(view, point, normal core.Vec3, exponent float64) core.Vec3 {
	reflected := l.DirectionFrom(point).Reflect(normal)
	cosine := reflected.CosAngle(view)
	if cosine <= 0 {
		return core.Vec3{}
	}
	return l.Color.Multiply(math.Pow(cosine, exponent))
}
