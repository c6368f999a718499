package integrator

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/geometry"
	"github.com/df07/go-terminal-raytracer/pkg/lights"
	"github.com/df07/go-terminal-raytracer/pkg/material"
	"github.com/df07/go-terminal-raytracer/pkg/scene"
)

const lightingTolerance = 1e-9

func assertVecNear(t *testing.T, label string, got, want core.Vec3) {
	t.Helper()
	if got.Subtract(want).Length() > lightingTolerance {
		t.Errorf("%s: expected %v, got %v", label, want, got)
	}
}

func newTestScene(ambient float64, ls []lights.Light, spheres ...*geometry.Sphere) *scene.Scene {
	return &scene.Scene{
		Camera:  geometry.NewCamera(image.Pt(10, 10)),
		Ambient: core.Splat(ambient),
		Lights:  ls,
		Spheres: spheres,
	}
}

// upwardHit is a hit at the origin on a surface facing +y, viewed from straight above
func upwardHit(mat material.Material) geometry.Hit {
	return geometry.Hit{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		View:      core.NewVec3(0, 1, 0),
		FrontFace: true,
		Material:  mat,
	}
}

func TestLighting_NoLights(t *testing.T) {
	red := material.NewSpecular(core.NewVec3(1, 0, 0), 10)

	tests := []struct {
		name      string
		ambient   float64
		wantTotal core.Vec3
		wantColor color.RGBA
	}{
		{"ambient 0.3", 0.3, core.Splat(0.3), color.RGBA{R: 76, A: 255}},
		{"ambient clamps at 1", 1.5, core.Splat(1), color.RGBA{R: 255, A: 255}},
		{"no ambient", 0, core.Splat(0), color.RGBA{A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(tt.ambient, nil)
			p := NewPhongIntegrator(ShadowSpecularOnly)
			hit := upwardHit(red)

			lighting := p.Lighting(s, hit)
			assertVecNear(t, "total", lighting.Total(), tt.wantTotal)
			if !lighting.Diffuse.IsZero() || !lighting.Specular.IsZero() {
				t.Errorf("Expected no diffuse or specular without lights, got %+v", lighting)
			}

			if got := p.Shade(s, hit); got != tt.wantColor {
				t.Errorf("Expected colour %v, got %v", tt.wantColor, got)
			}
		})
	}
}

func TestLighting_OccluderRemovesSpecularOnly(t *testing.T) {
	overhead := []lights.Light{lights.NewPointLight(core.NewVec3(0, 10, 0), core.Splat(1))}
	occluder := geometry.NewSphere(core.NewVec3(0, 5, 0), 1, material.NewMatte(core.Splat(1)))
	shiny := material.NewSpecular(core.NewVec3(1, 1, 1), 4)
	hit := upwardHit(shiny)

	p := NewPhongIntegrator(ShadowSpecularOnly)

	open := p.Lighting(newTestScene(0, overhead), hit)
	assertVecNear(t, "unoccluded diffuse", open.Diffuse, core.Splat(1))
	assertVecNear(t, "unoccluded specular", open.Specular, core.Splat(1))

	shadowed := p.Lighting(newTestScene(0, overhead, occluder), hit)
	assertVecNear(t, "occluded diffuse is unchanged", shadowed.Diffuse, open.Diffuse)
	assertVecNear(t, "occluded specular is zero", shadowed.Specular, core.Vec3{})
}

func TestLighting_ShadowFullPolicy(t *testing.T) {
	overhead := []lights.Light{lights.NewPointLight(core.NewVec3(0, 10, 0), core.Splat(1))}
	occluder := geometry.NewSphere(core.NewVec3(0, 5, 0), 1, material.NewMatte(core.Splat(1)))
	hit := upwardHit(material.NewSpecular(core.NewVec3(1, 1, 1), 4))

	p := NewPhongIntegrator(ShadowFull)
	shadowed := p.Lighting(newTestScene(0.2, overhead, occluder), hit)

	assertVecNear(t, "diffuse", shadowed.Diffuse, core.Vec3{})
	assertVecNear(t, "specular", shadowed.Specular, core.Vec3{})
	assertVecNear(t, "total", shadowed.Total(), core.Splat(0.2))
}

func TestLighting_PointLightReach(t *testing.T) {
	// The sphere lies beyond the light, so the shadow ray ends before reaching it
	overhead := []lights.Light{lights.NewPointLight(core.NewVec3(0, 10, 0), core.Splat(1))}
	beyond := geometry.NewSphere(core.NewVec3(0, 20, 0), 1, material.NewMatte(core.Splat(1)))
	hit := upwardHit(material.NewSpecular(core.NewVec3(1, 1, 1), 4))

	lighting := NewPhongIntegrator(ShadowSpecularOnly).Lighting(newTestScene(0, overhead, beyond), hit)
	assertVecNear(t, "specular", lighting.Specular, core.Splat(1))
}

func TestLighting_DirectionalLightIsUnbounded(t *testing.T) {
	sun := []lights.Light{lights.NewDirectionalLight(core.NewVec3(0, 1, 0), core.Splat(1))}
	farAway := geometry.NewSphere(core.NewVec3(0, 5000, 0), 10, material.NewMatte(core.Splat(1)))
	hit := upwardHit(material.NewSpecular(core.NewVec3(1, 1, 1), 4))

	lighting := NewPhongIntegrator(ShadowSpecularOnly).Lighting(newTestScene(0, sun, farAway), hit)
	assertVecNear(t, "specular", lighting.Specular, core.Vec3{})
	assertVecNear(t, "diffuse", lighting.Diffuse, core.Splat(1))
}

func TestLighting_NegativeDiffuseIsFloored(t *testing.T) {
	hit := upwardHit(material.NewMatte(core.NewVec3(1, 1, 1)))

	tests := []struct {
		name        string
		lights      []lights.Light
		wantDiffuse core.Vec3
	}{
		{
			name:        "light below the surface",
			lights:      []lights.Light{lights.NewPointLight(core.NewVec3(0, -5, 0), core.Splat(1))},
			wantDiffuse: core.Vec3{},
		},
		{
			name: "back light outweighs front light",
			lights: []lights.Light{
				lights.NewPointLight(core.NewVec3(0, 5, 0), core.Splat(0.5)),
				lights.NewPointLight(core.NewVec3(0, -5, 0), core.Splat(1)),
			},
			wantDiffuse: core.Vec3{},
		},
		{
			name: "front light outweighs back light",
			lights: []lights.Light{
				lights.NewPointLight(core.NewVec3(0, 5, 0), core.Splat(1)),
				lights.NewPointLight(core.NewVec3(0, -5, 0), core.Splat(0.25)),
			},
			wantDiffuse: core.Splat(0.75),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lighting := NewPhongIntegrator(ShadowSpecularOnly).Lighting(newTestScene(0, tt.lights), hit)
			assertVecNear(t, "diffuse", lighting.Diffuse, tt.wantDiffuse)
		})
	}
}

func TestLighting_MatteHasNoSpecular(t *testing.T) {
	overhead := []lights.Light{lights.NewPointLight(core.NewVec3(0, 10, 0), core.Splat(1))}
	lighting := NewPhongIntegrator(ShadowSpecularOnly).Lighting(newTestScene(0, overhead), upwardHit(material.NewMatte(core.Splat(1))))

	if !lighting.Specular.IsZero() {
		t.Errorf("Expected no specular on a matte surface, got %v", lighting.Specular)
	}
}

func TestShade_ScalesByMaterialColour(t *testing.T) {
	overhead := []lights.Light{lights.NewDirectionalLight(core.NewVec3(0, 1, 0), core.Splat(0.5))}
	hit := upwardHit(material.NewMatte(core.NewVec3(1, 0.5, 0)))

	got := NewPhongIntegrator(ShadowSpecularOnly).Shade(newTestScene(0, overhead), hit)
	want := color.RGBA{R: 127, G: 63, B: 0, A: 255}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestParseShadowPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ShadowPolicy
		wantErr bool
	}{
		{"specular", ShadowSpecularOnly, false},
		{"", ShadowSpecularOnly, false},
		{"full", ShadowFull, false},
		{"none", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShadowPolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%t, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if !tt.wantErr && got.String() != tt.in && tt.in != "" {
				t.Errorf("Expected round trip name %q, got %q", tt.in, got.String())
			}
		})
	}
}

func TestToRGBA_Truncates(t *testing.T) {
	got := ToRGBA(core.NewVec3(0.999, 0.5, math.Nextafter(1, 2)))
	want := color.RGBA{R: 254, G: 127, B: 255, A: 255}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
