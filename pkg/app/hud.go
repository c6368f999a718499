package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"
	"unicode/utf8"

	"github.com/df07/go-terminal-raytracer/pkg/canvas"
	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/geometry"
	"github.com/df07/go-terminal-raytracer/pkg/integrator"
	"github.com/df07/go-terminal-raytracer/pkg/renderer"
)

var (
	hudGrey   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	hudCamera = color.RGBA{R: 50, G: 100, B: 50, A: 255}
	hudUpdate = color.RGBA{R: 150, G: 50, B: 50, A: 255}
	hudRender = color.RGBA{R: 50, G: 150, B: 50, A: 255}
	hudFrame  = color.RGBA{R: 50, G: 50, B: 150, A: 255}
)

// HUDData is everything the debug overlay shows for one frame
type HUDData struct {
	Pointer  image.Point
	Hover    image.Point
	Lighting integrator.LightingContribution
	Camera   *geometry.Camera
	Elapsed  time.Duration
	Timings  renderer.FrameStats
	Message  string
}

type hudLine struct {
	text   string
	colour color.RGBA
	at     image.Point
}

// hudLines lays out the overlay for a grid of the given size
func hudLines(d HUDData, grid image.Point) []hudLine {
	cam := d.Camera
	f, r, u := cam.Basis.Forward, cam.Basis.Right, cam.Basis.Up
	elapsed := int(d.Elapsed.Seconds())

	lines := []hudLine{
		{fmt.Sprintf(" POINTER: (%4d,%4d) CELL: (%3d,%3d) ", d.Pointer.X, d.Pointer.Y, d.Hover.X, d.Hover.Y), hudGrey, image.Pt(0, 0)},
		{" DIFFUSE: " + formatVec(d.Lighting.Diffuse, 4) + " ", hudGrey, image.Pt(0, 1)},
		{" SPECULAR: " + formatVec(d.Lighting.Specular, 4) + " ", hudGrey, image.Pt(0, 2)},
		{" AMBIENT: " + formatVec(d.Lighting.Ambient, 4) + " ", hudGrey, image.Pt(0, 3)},
		{fmt.Sprintf(" CAMERA: %s YAW %.3f PITCH %.3f ", formatVec(cam.Position, 3), cam.Yaw, cam.Pitch), hudCamera, image.Pt(0, 4)},
		{" FORWARD: " + formatVec(f, 3) + " ", hudCamera, image.Pt(0, 5)},
		{" RIGHT: " + formatVec(r, 3) + " ", hudCamera, image.Pt(0, 6)},
		{" UP: " + formatVec(u, 3) + " ", hudCamera, image.Pt(0, 7)},
		{" FACING: " + FacingAxis(f) + " ", hudCamera, image.Pt(0, 8)},
		{fmt.Sprintf(" T(%02d:%02d) ", elapsed/60, elapsed%60), hudGrey, image.Pt(grid.X-5, 0)},
		{formatMillis("UPDATE", d.Timings.Update), hudUpdate, image.Pt(0, grid.Y-3)},
		{formatMillis("RENDER", d.Timings.Render), hudRender, image.Pt(0, grid.Y-2)},
		{formatMillis(" FRAME", d.Timings.Total), hudFrame, image.Pt(0, grid.Y-1)},
	}

	if d.Message != "" {
		// two characters per cell, minus padding
		message := truncate(d.Message, 2*grid.X-2)
		lines = append(lines, hudLine{" " + message + " ", hudGrey, image.Pt(0, grid.Y-4)})
	}
	return lines
}

// DrawHUD writes the overlay onto c. Lines that do not fit are skipped and counted.
func DrawHUD(c canvas.Canvas, d HUDData) (skipped int, err error) {
	for _, line := range hudLines(d, c.Size()) {
		if err := c.Write(line.text, line.colour, line.at); err != nil {
			if errors.Is(err, canvas.ErrOutOfRange) {
				skipped++
				continue
			}
			return skipped, err
		}
	}
	return skipped, nil
}

// FacingAxis names the world axis the camera looks along most, e.g. "Z+"
func FacingAxis(forward core.Vec3) string {
	components := [3]float64{forward.X, forward.Y, forward.Z}
	maxIndex, minIndex := 0, 0
	for i, v := range components {
		if v > components[maxIndex] {
			maxIndex = i
		}
		if v < components[minIndex] {
			minIndex = i
		}
	}

	names := [3]string{"X", "Y", "Z"}
	if components[maxIndex] > math.Abs(components[minIndex]) {
		return names[maxIndex] + "+"
	}
	return names[minIndex] + "-"
}

// truncate shortens s to at most limit bytes without splitting a rune
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func formatVec(v core.Vec3, decimals int) string {
	return fmt.Sprintf("(%.*f, %.*f, %.*f)", decimals, v.X, decimals, v.Y, decimals, v.Z)
}

func formatMillis(label string, d time.Duration) string {
	return fmt.Sprintf(" %s: %8.4fms ", label, float64(d)/float64(time.Millisecond))
}
