package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/geometry"
	"github.com/df07/go-terminal-raytracer/pkg/lights"
	"github.com/df07/go-terminal-raytracer/pkg/material"
	"github.com/df07/go-terminal-raytracer/pkg/scene"
)

// ErrInvalidScene is returned when a scene description cannot be built
var ErrInvalidScene = errors.New("invalid scene")

// defaultAmbient is used when a scene file does not set one
const defaultAmbient = 0.3

// Vec3 is a JSON triple [x, y, z]
type Vec3 [3]float64

func (v Vec3) toCore() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// checkColor rejects colour channels outside [0,1]
func (v Vec3) checkColor() error {
	for _, c := range v {
		if c < 0 || c > 1 {
			return fmt.Errorf("color %v outside [0,1]", v)
		}
	}
	return nil
}

// SceneFile is the on-disk description of a scene
type SceneFile struct {
	Name        string       `json:"name,omitempty"`        // Display name, defaults to the file name
	Description string       `json:"description,omitempty"` // Optional description
	Ambient     *Vec3        `json:"ambient,omitempty"`
	Camera      CameraFile   `json:"camera"`
	Spheres     []SphereFile `json:"spheres"`
	Lights      []LightFile  `json:"lights"`
}

// CameraFile describes the starting camera. Angles are in degrees; zero values keep defaults.
type CameraFile struct {
	Position    Vec3    `json:"position"`
	YawDeg      float64 `json:"yawDeg,omitempty"`
	PitchDeg    float64 `json:"pitchDeg,omitempty"`
	VFov        float64 `json:"vfov,omitempty"`
	Speed       float64 `json:"speed,omitempty"`
	Sensitivity float64 `json:"sensitivity,omitempty"`
}

// SphereFile describes one sphere and its material
type SphereFile struct {
	Center   Vec3     `json:"center"`
	Radius   float64  `json:"radius"`
	Color    Vec3     `json:"color"`
	Specular *float64 `json:"specular,omitempty"`
}

// LightFile describes a point or directional light
type LightFile struct {
	Type      string `json:"type"`
	Position  *Vec3  `json:"position,omitempty"`
	Direction *Vec3  `json:"direction,omitempty"`
	Color     Vec3   `json:"color"`
}

// LoadScene reads a scene description from a JSON file
func LoadScene(filename string) (*SceneFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file %s: %w", filename, err)
	}
	defer file.Close()

	sf, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sf, nil
}

// ParseScene decodes a scene description, rejecting unknown fields
func ParseScene(reader io.Reader) (*SceneFile, error) {
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()

	var sf SceneFile
	if err := decoder.Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	// A scene file holds exactly one value
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after the scene", ErrInvalidScene)
	}
	return &sf, nil
}

// Build converts the description into a validated scene for a grid of the given size
func (sf *SceneFile) Build(grid image.Point, logger core.Logger) (*scene.Scene, error) {
	ambient := core.Splat(defaultAmbient)
	if sf.Ambient != nil {
		if err := sf.Ambient.checkColor(); err != nil {
			return nil, fmt.Errorf("%w: ambient: %v", ErrInvalidScene, err)
		}
		ambient = sf.Ambient.toCore()
	}

	cameraConfig, err := sf.Camera.config()
	if err != nil {
		return nil, fmt.Errorf("%w: camera: %v", ErrInvalidScene, err)
	}

	s := &scene.Scene{
		Camera:  geometry.NewCameraWithConfig(grid, cameraConfig),
		Ambient: ambient,
	}

	for i, sphere := range sf.Spheres {
		mat, err := sphere.material()
		if err != nil {
			return nil, fmt.Errorf("%w: sphere %d: %v", ErrInvalidScene, i, err)
		}
		s.Spheres = append(s.Spheres, geometry.NewSphere(sphere.Center.toCore(), sphere.Radius, mat))
	}

	for i, light := range sf.Lights {
		l, err := light.light()
		if err != nil {
			return nil, fmt.Errorf("%w: light %d: %v", ErrInvalidScene, i, err)
		}
		s.Lights = append(s.Lights, l)
	}

	if err := s.Validate(logger); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return s, nil
}

// config applies the file over the default camera. vfov must lie in (0,180) degrees;
// the near plane half height is tan(vfov/2).
func (cf CameraFile) config() (geometry.CameraConfig, error) {
	config := geometry.DefaultCameraConfig()
	config.Position = cf.Position.toCore()
	config.Yaw = cf.YawDeg * math.Pi / 180
	config.Pitch = cf.PitchDeg * math.Pi / 180
	if cf.VFov != 0 {
		if cf.VFov < 0 || cf.VFov >= 180 {
			return config, fmt.Errorf("vfov must be in (0,180) degrees, got %g", cf.VFov)
		}
		config.VFov = cf.VFov
	}
	if cf.Speed < 0 || cf.Sensitivity < 0 {
		return config, fmt.Errorf("speed and sensitivity must not be negative, got %g and %g", cf.Speed, cf.Sensitivity)
	}
	if cf.Speed > 0 {
		config.Speed = cf.Speed
	}
	if cf.Sensitivity > 0 {
		config.Sensitivity = cf.Sensitivity
	}
	return config, nil
}

func (sf SphereFile) material() (material.Material, error) {
	if err := sf.Color.checkColor(); err != nil {
		return material.Material{}, err
	}
	if sf.Specular == nil {
		return material.NewMatte(sf.Color.toCore()), nil
	}
	if *sf.Specular <= 0 {
		return material.Material{}, fmt.Errorf("specular exponent must be positive, got %g", *sf.Specular)
	}
	return material.NewSpecular(sf.Color.toCore(), *sf.Specular), nil
}

func (lf LightFile) light() (lights.Light, error) {
	lightType, err := lights.ParseLightType(lf.Type)
	if err != nil {
		return lights.Light{}, err
	}
	if err := lf.Color.checkColor(); err != nil {
		return lights.Light{}, err
	}

	switch lightType {
	case lights.LightTypePoint:
		if lf.Position == nil {
			return lights.Light{}, errors.New("point light needs a position")
		}
		return lights.NewPointLight(lf.Position.toCore(), lf.Color.toCore()), nil
	default:
		if lf.Direction == nil {
			return lights.Light{}, errors.New("directional light needs a direction")
		}
		return lights.NewDirectionalLight(lf.Direction.toCore(), lf.Color.toCore()), nil
	}
}
