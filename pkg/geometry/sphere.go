package geometry

import (
	"math"

	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect solves the ray/sphere quadratic and returns both roots in ascending order.
// ok is false when the ray misses (negative discriminant) or has no direction.
func Intersect(ray core.Ray, s *Sphere) (t1, t2 float64, ok bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return 0, 0, false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	return (-halfB - sqrtD) / a, (-halfB + sqrtD) / a, true
}

// Intersect is the method form of Intersect
func (s *Sphere) Intersect(ray core.Ray) (t1, t2 float64, ok bool) {
	return Intersect(ray, s)
}

// Contains reports whether point lies strictly inside the sphere
func (s *Sphere) Contains(point core.Vec3) bool {
	d := point.Subtract(s.Center)
	return d.Dot(d) < s.Radius*s.Radius
}

// HitAt builds the hit record for ray striking the sphere at parameter t
func (s *Sphere) HitAt(ray core.Ray, t float64) Hit {
	hit := Hit{
		T:        t,
		Point:    ray.At(t),
		View:     ray.Direction.Negate(),
		Material: s.Material,
	}

	// Calculate outward normal (from center to hit point)
	outwardNormal := hit.Point.Subtract(s.Center).Normalize()
	hit.SetFaceNormal(ray, outwardNormal)

	return hit
}
