package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/df07/go-terminal-raytracer/pkg/canvas"
	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/input"
	"github.com/df07/go-terminal-raytracer/pkg/integrator"
	"github.com/df07/go-terminal-raytracer/pkg/renderer"
	"github.com/df07/go-terminal-raytracer/pkg/scene"
)

var (
	calibrationHighlight = color.RGBA{G: 255, A: 255}
	calibrationPrompt    = color.RGBA{R: 100, A: 255}
)

// Config contains configuration for the interactive application
type Config struct {
	Title         string
	FPSLimit      float64 // Maximum frames per second (0 = unlimited)
	Calibrate     bool    // Ask for two reference clicks before rendering
	HUD           bool    // Draw the debug overlay
	GlyphsPerCell int     // Terminal columns per canvas cell, used without calibration
	StatsWindow   int     // Frames averaged for reported timings
	Shadows       integrator.ShadowPolicy
	Frame         renderer.FrameConfig
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Title:         "go-terminal-raytracer",
		FPSLimit:      144,
		Calibrate:     true,
		HUD:           false,
		GlyphsPerCell: 2,
		StatsWindow:   60,
		Shadows:       integrator.ShadowSpecularOnly,
		Frame:         renderer.DefaultFrameConfig(),
	}
}

// App runs the lifecycle: calibration screens, then one traced frame per loop iteration
type App struct {
	config   Config
	scene    *scene.Scene
	display  *canvas.BufferedCanvas
	source   input.Source
	sink     io.Writer
	logger   core.Logger
	console  *ConsoleLogger
	shading  *integrator.PhongIntegrator
	renderer *renderer.FrameRenderer

	state       State
	calibration input.Calibration
	topLeft     image.Point

	frame      int
	lastFrame  time.Duration
	lastStats  renderer.FrameStats
	history    *renderer.FrameHistory
	hudSkipped int

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates an application drawing s onto display and writing frames to sink.
// When logger is a *ConsoleLogger its latest message is shown in the HUD.
func New(config Config, s *scene.Scene, display *canvas.BufferedCanvas, source input.Source, sink io.Writer, logger core.Logger) *App {
	shading := integrator.NewPhongIntegrator(config.Shadows)
	a := &App{
		config:   config,
		scene:    s,
		display:  display,
		source:   source,
		sink:     sink,
		logger:   logger,
		shading:  shading,
		renderer: renderer.NewFrameRenderer(shading, config.Frame),
		state:    State{Kind: StateInitialising},
		history:  renderer.NewFrameHistory(config.StatsWindow),
		now:      time.Now,
		sleep:    time.Sleep,
	}
	if console, ok := logger.(*ConsoleLogger); ok {
		a.console = console
	}
	return a
}

// State returns the current lifecycle state
func (a *App) State() State {
	return a.state
}

// Calibration returns the pointer calibration in use
func (a *App) Calibration() input.Calibration {
	return a.calibration
}

// Frames returns the number of frames processed so far
func (a *App) Frames() int {
	return a.frame
}

// Stats returns timings averaged over recent frames
func (a *App) Stats() renderer.FrameStats {
	return a.history.Average()
}

// transit moves to the state that follows event, if any
func (a *App) transit(event Event) bool {
	next, ok := Next(a.state, event, a.now())
	if !ok {
		return false
	}
	a.logger.Printf("state %s -> %s on %s\n", a.state, next, event)
	a.state = next
	return true
}

// Run drives frames until the user quits, ctx is cancelled or a frame fails
func (a *App) Run(ctx context.Context) error {
	a.transit(EventInitialised)
	if !a.config.Calibrate {
		a.calibration = input.GridCalibration(a.display.Size(), a.config.GlyphsPerCell)
		a.state.SecondStage = true
		a.transit(EventCalibrated)
	}

	for a.state.Kind != StateExiting {
		if ctx.Err() != nil {
			a.transit(EventExited)
			break
		}
		if err := a.step(ctx); err != nil {
			return err
		}
	}

	avg := a.Stats()
	a.logger.Printf("exiting after %d frames (average render %v, frame %v)\n", a.frame, avg.Render, avg.Total)
	return nil
}

// step processes one frame: input, state logic, display and the frame limiter
func (a *App) step(ctx context.Context) error {
	begin := a.now()
	snap := a.source.Snapshot()
	if snap.Quit {
		a.transit(EventExited)
		return nil
	}

	a.frame++
	var stats renderer.FrameStats

	var err error
	switch a.state.Kind {
	case StateCalibrating:
		err = a.calibrate(snap)
	case StateRunning:
		err = a.runFrame(ctx, snap, &stats)
	}
	if err != nil {
		if ctx.Err() != nil {
			a.transit(EventExited)
			return nil
		}
		return err
	}

	a.endFrame(begin, stats)
	return nil
}

// calibrate records reference clicks and redraws the calibration screen
func (a *App) calibrate(snap input.Snapshot) error {
	if snap.Clicked {
		if !a.state.SecondStage {
			a.topLeft = snap.Click
			a.state.SecondStage = true
		} else {
			calibration, err := input.NewCalibration(a.topLeft, snap.Click, a.display.Size())
			if err != nil {
				a.logger.Printf("calibration rejected, starting over: %v\n", err)
				a.state.SecondStage = false
			} else {
				a.calibration = calibration
				a.logger.Printf("calibrated: cell size %.2fx%.2f from %v\n",
					calibration.CellWidth, calibration.CellHeight, calibration.TopLeft)
				a.transit(EventCalibrated)
				return nil
			}
		}
	}
	return a.drawCalibration()
}

// drawCalibration highlights the cell to click and shows the prompt
func (a *App) drawCalibration() error {
	grid := a.display.Size()
	target, prompt := image.Pt(0, 0), "Click on the top-left of the highlighted square (1/2)"
	if a.state.SecondStage {
		target, prompt = grid.Sub(image.Pt(1, 1)), "Click on the top-left of the highlighted square (2/2)"
	}

	a.display.Clear()
	if err := a.display.PutPixel(calibrationHighlight, target); err != nil {
		return fmt.Errorf("highlight calibration cell: %w", err)
	}
	for _, text := range []string{prompt, "Click the green square"} {
		cells := (len(text) + 1) / 2
		at := image.Pt(grid.X/2-cells/2, grid.Y/2)
		if err := a.display.Write(text, calibrationPrompt, at); err == nil {
			break
		} else if !errors.Is(err, canvas.ErrOutOfRange) {
			return err
		}
	}

	a.display.FullSwap()
	if err := a.display.Display(a.sink); err != nil {
		return fmt.Errorf("display calibration frame %d: %w", a.frame, err)
	}
	return nil
}

// runFrame moves the camera, traces the scene and shows the result
func (a *App) runFrame(ctx context.Context, snap input.Snapshot, stats *renderer.FrameStats) error {
	grid := a.display.Size()
	cam := a.scene.Camera

	updateStart := a.now()
	cam.Update(snap.Held, a.lastFrame)
	cam.ProcessMouseMotion(snap.MouseDelta, a.lastFrame)
	a.source.Recenter()
	hover := a.calibration.MouseCell(snap.Pointer)
	lighting := a.lightingAt(hover, grid)
	stats.Update = a.now().Sub(updateStart)

	renderStart := a.now()
	if err := a.renderer.RenderFrame(ctx, a.scene, a.display); err != nil {
		return fmt.Errorf("render frame %d: %w", a.frame, err)
	}
	if a.config.HUD {
		if err := a.drawHUD(snap.Pointer, hover, lighting); err != nil {
			return err
		}
	}
	stats.Render = a.now().Sub(renderStart)

	a.display.Swap()
	if err := a.display.Display(a.sink); err != nil {
		return fmt.Errorf("display frame %d: %w", a.frame, err)
	}
	return nil
}

// lightingAt traces the ray through a cell and returns the lighting terms at its hit
func (a *App) lightingAt(cell, grid image.Point) integrator.LightingContribution {
	through := a.scene.Camera.FromCanvas(cell, grid)
	hit, ok := a.scene.TraceRay(through, scene.PrimaryTMin, scene.RenderDistance)
	if !ok {
		return integrator.LightingContribution{}
	}
	return a.shading.Lighting(a.scene, hit)
}

func (a *App) drawHUD(pointer, hover image.Point, lighting integrator.LightingContribution) error {
	data := HUDData{
		Pointer:  pointer,
		Hover:    hover,
		Lighting: lighting,
		Camera:   a.scene.Camera,
		Elapsed:  a.now().Sub(a.state.Start),
		Timings:  a.lastStats,
	}
	if a.console != nil {
		if msg, ok := a.console.Last(); ok {
			data.Message = msg.Message
		}
	}

	skipped, err := DrawHUD(a.display, data)
	if err != nil {
		return fmt.Errorf("draw HUD: %w", err)
	}
	if skipped != a.hudSkipped {
		a.hudSkipped = skipped
		if skipped > 0 {
			a.logger.Printf("HUD: %d lines do not fit the %v canvas\n", skipped, a.display.Size())
		}
	}
	return nil
}

// endFrame applies the frame limiter and records timings. The camera integrates
// over the whole frame including the limiter sleep.
func (a *App) endFrame(begin time.Time, stats renderer.FrameStats) {
	stats.Total = a.now().Sub(begin)

	if a.config.FPSLimit > 0 {
		budget := time.Duration(float64(time.Second) / a.config.FPSLimit)
		if wait := budget - stats.Total; wait > 0 {
			a.sleep(wait)
		}
	}

	a.lastFrame = a.now().Sub(begin)
	a.lastStats = stats
	a.history.AddFrame(stats)
}
