package geometry

import (
	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/material"
)

// Hit contains information about the nearest ray-object intersection
type Hit struct {
	Point     core.Vec3         // Point of intersection
	Normal    core.Vec3         // Unit surface normal, facing the ray origin
	View      core.Vec3         // Reversed ray direction, used as the viewing vector
	T         float64           // Parameter t along the ray
	FrontFace bool              // Whether ray hit the front face
	Material  material.Material // Copy of the struck material
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *Hit) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
