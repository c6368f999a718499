package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/geometry"
	"github.com/df07/go-terminal-raytracer/pkg/lights"
)

const (
	// PrimaryTMin starts primary rays on the near plane, where FromCanvas places t=1
	PrimaryTMin = 1.0
	// RenderDistance bounds primary rays
	RenderDistance = 10000.0
	// ShadowEpsilon keeps shadow rays from re-intersecting their own surface
	ShadowEpsilon = 0.001
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera  *geometry.Camera
	Spheres []*geometry.Sphere // Objects in the scene; order decides ties
	Lights  []lights.Light     // Lights in the scene
	Ambient core.Vec3          // Constant light applied to every hit
}

// ClosestIntersection finds the nearest sphere hit with t strictly inside (tMin, tMax).
// Exact ties keep the sphere that appears first.
func (s *Scene) ClosestIntersection(ray core.Ray, tMin, tMax float64) (int, float64, bool) {
	closestIndex := -1
	closestSoFar := tMax

	for i, sphere := range s.Spheres {
		t1, t2, ok := sphere.Intersect(ray)
		if !ok {
			continue
		}
		if t1 > tMin && t1 < closestSoFar {
			closestSoFar = t1
			closestIndex = i
		}
		if t2 > tMin && t2 < closestSoFar {
			closestSoFar = t2
			closestIndex = i
		}
	}

	if closestIndex < 0 {
		return -1, 0, false
	}
	return closestIndex, closestSoFar, true
}

// Occluded reports whether anything blocks ray within (tMin, tMax)
func (s *Scene) Occluded(ray core.Ray, tMin, tMax float64) bool {
	_, _, hit := s.ClosestIntersection(ray, tMin, tMax)
	return hit
}

// TraceRay casts a ray from the camera position through the given point
func (s *Scene) TraceRay(through core.Vec3, tMin, tMax float64) (geometry.Hit, bool) {
	return s.TraceRayFrom(s.Camera.Position, through, tMin, tMax)
}

// TraceRayFrom casts a ray from origin through the given point and returns the nearest hit
func (s *Scene) TraceRayFrom(origin, through core.Vec3, tMin, tMax float64) (geometry.Hit, bool) {
	ray := core.NewRayThrough(origin, through)
	index, t, ok := s.ClosestIntersection(ray, tMin, tMax)
	if !ok {
		return geometry.Hit{}, false
	}
	return s.Spheres[index].HitAt(ray, t), true
}

// Validate checks that the scene can be rendered
func (s *Scene) Validate(logger core.Logger) error {
	if s.Camera == nil {
		return errors.New("scene has no camera")
	}
	for i, sphere := range s.Spheres {
		if sphere.Radius <= 0 {
			return fmt.Errorf("sphere %d: radius must be positive, got %g", i, sphere.Radius)
		}
		if sphere.Contains(s.Camera.Position) && logger != nil {
			logger.Printf("warning: camera starts inside sphere %d\n", i)
		}
	}
	for i, light := range s.Lights {
		switch light.Type {
		case lights.LightTypePoint:
		case lights.LightTypeDirectional:
			if light.Direction.IsZero() {
				return fmt.Errorf("light %d: directional light needs a non-zero direction", i)
			}
		default:
			return fmt.Errorf("light %d: unknown light type %q", i, light.Type)
		}
	}
	return nil
}
