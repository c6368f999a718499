package geometry

import (
	"image"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-terminal-raytracer/pkg/core"
)

// pitchLimit keeps pitch strictly inside ±90° so the basis never degenerates
const pitchLimit = math.Pi/2 - 0.01

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Position    core.Vec3 // Starting position
	Yaw         float64   // Starting yaw in radians
	Pitch       float64   // Starting pitch in radians
	VFov        float64   // Vertical field of view in degrees
	ZNear       float64   // Distance from the eye to the near plane
	ZFar        float64   // Far clip distance
	Speed       float64   // Movement speed in world units per second
	Sensitivity float64   // Look speed in radians per pointer unit per second
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:    core.NewVec3(0, 0, 0),
		VFov:        90.0,
		ZNear:       1.0,
		ZFar:        100000.0,
		Speed:       5.0,
		Sensitivity: 1.0,
	}
}

// Basis is the orthonormal frame describing camera orientation
type Basis struct {
	Forward core.Vec3
	Right   core.Vec3
	Up      core.Vec3
}

// Camera is a first-person camera driven by yaw and pitch
type Camera struct {
	Position core.Vec3
	Basis    Basis
	Yaw      float64
	Pitch    float64
	ZNear    float64
	ZFar     float64

	Speed       float64
	Sensitivity float64

	aspectRatio float64
	vfov        float64 // radians
}

// NewCamera creates a camera with default configuration for a grid of the given size
func NewCamera(grid image.Point) *Camera {
	return NewCameraWithConfig(grid, DefaultCameraConfig())
}

// NewCameraWithConfig creates a camera for a grid of the given size
func NewCameraWithConfig(grid image.Point, config CameraConfig) *Camera {
	aspectRatio := 1.0
	if grid.X > 0 && grid.Y > 0 {
		aspectRatio = float64(grid.X) / float64(grid.Y)
	}

	c := &Camera{
		Position:    config.Position,
		Yaw:         config.Yaw,
		Pitch:       clampPitch(config.Pitch),
		ZNear:       config.ZNear,
		ZFar:        config.ZFar,
		Speed:       config.Speed,
		Sensitivity: config.Sensitivity,
		aspectRatio: aspectRatio,
		vfov:        config.VFov * math.Pi / 180.0,
	}
	c.updateBasis()
	return c
}

// AspectRatio returns the width/height ratio of the grid the camera was created for
func (c *Camera) AspectRatio() float64 {
	return c.aspectRatio
}

// VFov returns the vertical field of view in radians
func (c *Camera) VFov() float64 {
	return c.vfov
}

// View returns the world-to-camera transform built from position and basis
func (c *Camera) View() mgl64.Mat4 {
	r, u, f, p := c.Basis.Right, c.Basis.Up, c.Basis.Forward, c.Position
	return mgl64.Mat4FromRows(
		mgl64.Vec4{r.X, r.Y, r.Z, -r.Dot(p)},
		mgl64.Vec4{u.X, u.Y, u.Z, -u.Dot(p)},
		mgl64.Vec4{f.X, f.Y, f.Z, -f.Dot(p)},
		mgl64.Vec4{0, 0, 0, 1},
	)
}

// Viewport captures the camera for one frame so cells can be mapped without recomputing the inverse view
type Viewport struct {
	grid          image.Point
	cameraToWorld mgl64.Mat4
	halfWidth     float64
	halfHeight    float64
	zNear         float64
}

// Viewport prepares cell-to-world mapping for a grid of the given size
func (c *Camera) Viewport(grid image.Point) Viewport {
	halfHeight := c.ZNear * math.Tan(c.vfov/2)
	return Viewport{
		grid:          grid,
		cameraToWorld: c.View().Inv(),
		halfWidth:     halfHeight * c.aspectRatio,
		halfHeight:    halfHeight,
		zNear:         c.ZNear,
	}
}

// FromCanvas maps a grid cell to the world-space point at its centre on the near plane
func (v Viewport) FromCanvas(cell image.Point) core.Vec3 {
	ndcX := 2*(float64(cell.X)+0.5)/float64(v.grid.X) - 1
	ndcY := 1 - 2*(float64(cell.Y)+0.5)/float64(v.grid.Y)

	viewPoint := mgl64.Vec4{ndcX * v.halfWidth, ndcY * v.halfHeight, v.zNear, 1}
	world := v.cameraToWorld.Mul4x1(viewPoint)
	return core.NewVec3(world[0], world[1], world[2])
}

// FromCanvas maps a grid cell to a world-space point on the near plane
func (c *Camera) FromCanvas(cell, grid image.Point) core.Vec3 {
	return c.Viewport(grid).FromCanvas(cell)
}

// MovementDirection converts held directions into a world-space movement vector.
// Horizontal movement follows yaw only and is renormalised; vertical movement is added unnormalised.
func (c *Camera) MovementDirection(held Direction) core.Vec3 {
	forward := core.NewVec3(c.Basis.Forward.X, 0, c.Basis.Forward.Z).Normalize()
	right := core.NewVec3(c.Basis.Right.X, 0, c.Basis.Right.Z).Normalize()

	movement := forward.Multiply(held.axis(DirectionForward, DirectionBackward)).
		Add(right.Multiply(held.axis(DirectionRight, DirectionLeft)))
	if !movement.IsZero() {
		movement = movement.Normalize()
	}

	// up/down is not normalized
	return movement.Add(core.NewVec3(0, held.axis(DirectionUp, DirectionDown), 0))
}

// Update integrates the camera position for one frame of held movement
func (c *Camera) Update(held Direction, delta time.Duration) {
	movement := c.MovementDirection(held)
	c.Position = c.Position.Add(movement.Multiply(c.Speed * delta.Seconds()))
}

// ProcessMouseMotion turns the camera by a pointer delta and rederives the basis
func (c *Camera) ProcessMouseMotion(mouseDelta image.Point, delta time.Duration) {
	scale := c.Sensitivity * delta.Seconds()
	c.Yaw -= scale * float64(mouseDelta.X)
	c.Pitch = clampPitch(c.Pitch + scale*float64(mouseDelta.Y))
	c.updateBasis()
}

// updateBasis derives forward/right/up from yaw and pitch
func (c *Camera) updateBasis() {
	cosYaw, sinYaw := math.Cos(c.Yaw), -math.Sin(c.Yaw)
	cosPitch, sinPitch := math.Cos(c.Pitch), math.Sin(c.Pitch)

	c.Basis.Forward = core.NewVec3(sinYaw*cosPitch, sinPitch, cosYaw*cosPitch).Normalize()
	c.Basis.Right = core.NewVec3(cosYaw, 0, -sinYaw).Normalize()
	c.Basis.Up = c.Basis.Forward.Cross(c.Basis.Right).Normalize()
}

func clampPitch(pitch float64) float64 {
	return max(-pitchLimit, min(pitchLimit, pitch))
}
