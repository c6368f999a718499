package integrator

import (
	"fmt"
	"image/color"

	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/geometry"
	"github.com/df07/go-terminal-raytracer/pkg/scene"
)

// ShadowPolicy selects which lighting terms an occluded light loses
type ShadowPolicy int

const (
	// ShadowSpecularOnly credits diffuse light before the shadow test, so occlusion
	// only removes highlights. This is the historical behaviour.
	ShadowSpecularOnly ShadowPolicy = iota
	// ShadowFull removes both diffuse and specular light from occluded lights
	ShadowFull
)

// String returns the flag name of the policy
func (p ShadowPolicy) String() string {
	switch p {
	case ShadowSpecularOnly:
		return "specular"
	case ShadowFull:
		return "full"
	default:
		return fmt.Sprintf("ShadowPolicy(%d)", int(p))
	}
}

// ParseShadowPolicy converts a flag value into a ShadowPolicy
func ParseShadowPolicy(name string) (ShadowPolicy, error) {
	switch name {
	case "specular", "":
		return ShadowSpecularOnly, nil
	case "full":
		return ShadowFull, nil
	default:
		return 0, fmt.Errorf("unknown shadow policy %q (want \"specular\" or \"full\")", name)
	}
}

// LightingContribution holds the three Phong terms at a surface point
type LightingContribution struct {
	Ambient  core.Vec3
	Diffuse  core.Vec3
	Specular core.Vec3
}

// Total sums the terms and clamps each channel into [0,1]
func (lc LightingContribution) Total() core.Vec3 {
	return lc.Ambient.Add(lc.Diffuse).Add(lc.Specular).Clamp(0, 1)
}

// PhongIntegrator shades hits with ambient, diffuse and specular terms plus shadow rays
type PhongIntegrator struct {
	Policy ShadowPolicy
}

// NewPhongIntegrator creates a Phong integrator using the given shadow policy
func NewPhongIntegrator(policy ShadowPolicy) *PhongIntegrator {
	return &PhongIntegrator{Policy: policy}
}

// Lighting accumulates every light's contribution at the hit
func (p *PhongIntegrator) Lighting(s *scene.Scene, hit geometry.Hit) LightingContribution {
	lighting := LightingContribution{Ambient: s.Ambient}
	exponent, specular := hit.Material.SpecularExponent()

	for _, light := range s.Lights {
		shadowRay := core.NewRay(hit.Point, light.DirectionFrom(hit.Point))
		occluded := s.Occluded(shadowRay, scene.ShadowEpsilon, light.TMax())

		// diffuse ignores occlusion unless the policy says otherwise
		if !occluded || p.Policy == ShadowSpecularOnly {
			lighting.Diffuse = lighting.Diffuse.Add(light.Diffuse(hit.Point, hit.Normal))
		}
		if occluded {
			continue
		}

		if specular {
			lighting.Specular = lighting.Specular.Add(light.Specular(hit.View, hit.Point, hit.Normal, exponent))
		}
	}

	lighting.Diffuse = lighting.Diffuse.ClampMin(0)
	lighting.Specular = lighting.Specular.ClampMin(0)
	return lighting
}

// Shade converts the lit hit into an 8-bit display colour
func (p *PhongIntegrator) Shade(s *scene.Scene, hit geometry.Hit) color.RGBA {
	return ToRGBA(p.Lighting(s, hit).Total().MultiplyVec(hit.Material.Color))
}

// ToRGBA scales a [0,1] colour to 8-bit channels, truncating
func ToRGBA(c core.Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}
