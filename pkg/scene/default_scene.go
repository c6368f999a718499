package scene

import (
	"image"

	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/geometry"
	"github.com/df07/go-terminal-raytracer/pkg/lights"
	"github.com/df07/go-terminal-raytracer/pkg/material"
)

// NewDefaultScene creates four coloured spheres around the origin lit by a point and a directional light
func NewDefaultScene(grid image.Point, cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.DefaultCameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = cameraOverrides[0]
	}

	red := material.NewSpecular(core.NewVec3(1, 0, 0), 500)
	blue := material.NewSpecular(core.NewVec3(0, 0, 1), 500)
	green := material.NewSpecular(core.NewVec3(0, 1, 0), 10)
	yellow := material.NewSpecular(core.NewVec3(1, 1, 0), 1000)

	return &Scene{
		Camera:  geometry.NewCameraWithConfig(grid, cameraConfig),
		Ambient: core.Splat(0.3),
		Spheres: []*geometry.Sphere{
			geometry.NewSphere(core.NewVec3(0, 6, 10), 5, red),
			geometry.NewSphere(core.NewVec3(10, 6, 0), 5, blue),
			geometry.NewSphere(core.NewVec3(0, 3, -10), 5, green),
			geometry.NewSphere(core.NewVec3(-10, 3, 0), 5, yellow),
		},
		Lights: []lights.Light{
			lights.NewPointLight(core.NewVec3(0, 0, 0), core.Splat(0.5)),
			lights.NewDirectionalLight(core.NewVec3(1, 1, -1), core.Splat(1.0)),
		},
	}
}
