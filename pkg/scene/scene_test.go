package scene

import (
	"fmt"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/geometry"
	"github.com/df07/go-terminal-raytracer/pkg/lights"
	"github.com/df07/go-terminal-raytracer/pkg/material"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func sceneWith(spheres ...*geometry.Sphere) *Scene {
	return &Scene{
		Camera:  geometry.NewCamera(image.Pt(10, 10)),
		Spheres: spheres,
		Ambient: core.Splat(0.3),
	}
}

func sphereAt(z, radius float64, color core.Vec3) *geometry.Sphere {
	return geometry.NewSphere(core.NewVec3(0, 0, z), radius, material.NewMatte(color))
}

func TestClosestIntersection_Range(t *testing.T) {
	// Unit-direction ray along +z hits the sphere at t=4 and t=6
	s := sceneWith(sphereAt(5, 1, core.NewVec3(1, 0, 0)))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	tests := []struct {
		name   string
		tMin   float64
		tMax   float64
		wantOK bool
		wantT  float64
	}{
		{"both roots eligible", 0.001, 100, true, 4},
		{"near root excluded by tMin", 4, 100, true, 6},
		{"tMin is exclusive at the far root", 6, 100, false, 0},
		{"tMax is exclusive", 0.001, 4, false, 0},
		{"window between roots", 4.5, 5.9, false, 0},
		{"far root only within tMax", 5, 6.5, true, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, tHit, ok := s.ClosestIntersection(ray, tt.tMin, tt.tMax)
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%t, got %t (t=%f)", tt.wantOK, ok, tHit)
			}
			if !ok {
				return
			}
			if index != 0 {
				t.Errorf("Expected sphere 0, got %d", index)
			}
			if math.Abs(tHit-tt.wantT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.wantT, tHit)
			}
			if tHit <= tt.tMin || tHit >= tt.tMax {
				t.Errorf("t=%f escaped (%f, %f)", tHit, tt.tMin, tt.tMax)
			}
		})
	}
}

func TestClosestIntersection_Minimum(t *testing.T) {
	s := sceneWith(
		sphereAt(10, 1, core.NewVec3(1, 0, 0)),
		sphereAt(5, 1, core.NewVec3(0, 1, 0)),
		sphereAt(20, 1, core.NewVec3(0, 0, 1)),
	)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	index, tHit, ok := s.ClosestIntersection(ray, ShadowEpsilon, RenderDistance)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if index != 1 {
		t.Errorf("Expected nearest sphere 1, got %d", index)
	}
	if math.Abs(tHit-4) > 1e-9 {
		t.Errorf("Expected t=4, got %f", tHit)
	}
}

func TestClosestIntersection_TieKeepsFirst(t *testing.T) {
	first := sphereAt(5, 1, core.NewVec3(1, 0, 0))
	second := sphereAt(5, 1, core.NewVec3(0, 1, 0))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	index, _, ok := sceneWith(first, second).ClosestIntersection(ray, ShadowEpsilon, RenderDistance)
	if !ok || index != 0 {
		t.Errorf("Expected tie to resolve to sphere 0, got index=%d ok=%t", index, ok)
	}

	index, _, ok = sceneWith(second, first).ClosestIntersection(ray, ShadowEpsilon, RenderDistance)
	if !ok || index != 0 {
		t.Errorf("Expected tie to follow sequence order, got index=%d ok=%t", index, ok)
	}
}

func TestClosestIntersection_Empty(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	if _, _, ok := sceneWith().ClosestIntersection(ray, ShadowEpsilon, RenderDistance); ok {
		t.Error("Expected no hit in an empty scene")
	}
}

func TestTraceRay(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	s := sceneWith(sphereAt(10, 2, red))

	hit, ok := s.TraceRay(core.NewVec3(0, 0, 1), PrimaryTMin, RenderDistance)
	if !ok {
		t.Fatal("Expected the camera ray to hit the sphere")
	}
	if hit.Point.Subtract(core.NewVec3(0, 0, 8)).Length() > 1e-9 {
		t.Errorf("Expected hit point (0,0,8), got %v", hit.Point)
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected normal facing the camera, got %v", hit.Normal)
	}
	if hit.View != core.NewVec3(0, 0, -1) {
		t.Errorf("Expected reversed ray direction as view, got %v", hit.View)
	}
	if hit.Material.Color != red {
		t.Errorf("Expected struck material colour %v, got %v", red, hit.Material.Color)
	}

	if _, ok := s.TraceRay(core.NewVec3(0, 1, 0), PrimaryTMin, RenderDistance); ok {
		t.Error("Expected a ray pointing away from the sphere to miss")
	}
}

func TestTraceRay_FromInsideSphere(t *testing.T) {
	s := sceneWith(sphereAt(0, 5, core.NewVec3(1, 1, 1)))

	hit, ok := s.TraceRay(core.NewVec3(0, 0, 1), PrimaryTMin, RenderDistance)
	if !ok {
		t.Fatal("Expected to hit the enclosing sphere from inside")
	}
	if hit.FrontFace {
		t.Error("Expected a back-face hit from inside the sphere")
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected normal oriented toward the ray origin, got %v", hit.Normal)
	}
}

func TestValidate(t *testing.T) {
	grid := image.Pt(10, 10)

	t.Run("default scene is valid", func(t *testing.T) {
		logger := &recordingLogger{}
		if err := NewDefaultScene(grid).Validate(logger); err != nil {
			t.Errorf("Expected default scene to validate, got %v", err)
		}
		if len(logger.lines) != 0 {
			t.Errorf("Expected no warnings, got %v", logger.lines)
		}
	})

	t.Run("missing camera", func(t *testing.T) {
		if err := (&Scene{}).Validate(nil); err == nil {
			t.Error("Expected an error for a scene without a camera")
		}
	})

	t.Run("non-positive radius", func(t *testing.T) {
		s := sceneWith(sphereAt(5, 0, core.NewVec3(1, 1, 1)))
		if err := s.Validate(nil); err == nil {
			t.Error("Expected an error for a zero radius")
		}
	})

	t.Run("zero directional light", func(t *testing.T) {
		s := sceneWith()
		s.Lights = []lights.Light{{Type: lights.LightTypeDirectional}}
		if err := s.Validate(nil); err == nil {
			t.Error("Expected an error for a zero-length directional light")
		}
	})

	t.Run("camera inside sphere warns", func(t *testing.T) {
		logger := &recordingLogger{}
		s := sceneWith(sphereAt(0, 3, core.NewVec3(1, 1, 1)))
		if err := s.Validate(logger); err != nil {
			t.Fatalf("Expected a warning, not an error: %v", err)
		}
		if len(logger.lines) != 1 || !strings.Contains(logger.lines[0], "inside sphere 0") {
			t.Errorf("Expected one inside-sphere warning, got %v", logger.lines)
		}
	})
}

func TestNewDefaultScene(t *testing.T) {
	s := NewDefaultScene(image.Pt(80, 40))

	if len(s.Spheres) != 4 {
		t.Errorf("Expected 4 spheres, got %d", len(s.Spheres))
	}
	if len(s.Lights) != 2 {
		t.Errorf("Expected 2 lights, got %d", len(s.Lights))
	}
	if s.Ambient != core.Splat(0.3) {
		t.Errorf("Expected ambient 0.3, got %v", s.Ambient)
	}
	if s.Camera.AspectRatio() != 2 {
		t.Errorf("Expected camera aspect ratio 2, got %f", s.Camera.AspectRatio())
	}
}
