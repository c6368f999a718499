package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-terminal-raytracer/pkg/canvas"
	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/integrator"
	"github.com/df07/go-terminal-raytracer/pkg/scene"
)

// FrameConfig contains configuration for per-frame rendering
type FrameConfig struct {
	NumWorkers     int        // Number of rows traced in parallel (0 = use CPU count)
	Background     color.RGBA // Colour of cells whose ray hits nothing
	Crosshair      bool       // Mark the grid centre
	CrosshairColor color.RGBA
}

// DefaultFrameConfig returns sensible default values
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		NumWorkers:     0,
		Background:     color.RGBA{A: 255},
		Crosshair:      true,
		CrosshairColor: color.RGBA{R: 250, G: 160, B: 180, A: 255},
	}
}

// FrameRenderer traces one primary ray per cell into a canvas
type FrameRenderer struct {
	integrator integrator.Integrator
	config     FrameConfig
}

// NewFrameRenderer creates a renderer shading hits with the given integrator
func NewFrameRenderer(integratorInst integrator.Integrator, config FrameConfig) *FrameRenderer {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	return &FrameRenderer{
		integrator: integratorInst,
		config:     config,
	}
}

// Config returns the renderer configuration with defaults resolved
func (fr *FrameRenderer) Config() FrameConfig {
	return fr.config
}

// RenderFrame traces every cell of target from the scene camera. Rows are traced in
// parallel and each goroutine writes only its own row. The camera must not change
// until RenderFrame returns.
func (fr *FrameRenderer) RenderFrame(ctx context.Context, s *scene.Scene, target canvas.Canvas) error {
	grid := target.Size()
	viewport := s.Camera.Viewport(grid)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fr.config.NumWorkers)

	for y := 0; y < grid.Y; y++ {
		y := y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < grid.X; x++ {
				cell := image.Pt(x, y)
				colour := fr.shadeCell(s, viewport.FromCanvas(cell))
				if err := target.PutPixel(colour, cell); err != nil {
					return fmt.Errorf("render cell %v: %w", cell, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if fr.config.Crosshair {
		return target.PutPixel(fr.config.CrosshairColor, Centre(grid))
	}
	return nil
}

// shadeCell traces the primary ray through a near-plane point
func (fr *FrameRenderer) shadeCell(s *scene.Scene, through core.Vec3) color.RGBA {
	hit, ok := s.TraceRay(through, scene.PrimaryTMin, scene.RenderDistance)
	if !ok {
		return fr.config.Background
	}
	return fr.integrator.Shade(s, hit)
}

// Centre returns the cell at the middle of the grid
func Centre(grid image.Point) image.Point {
	return image.Pt(grid.X/2, grid.Y/2)
}
