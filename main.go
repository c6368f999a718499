package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/df07/go-terminal-raytracer/pkg/app"
	"github.com/df07/go-terminal-raytracer/pkg/canvas"
	"github.com/df07/go-terminal-raytracer/pkg/core"
	"github.com/df07/go-terminal-raytracer/pkg/integrator"
	"github.com/df07/go-terminal-raytracer/pkg/loaders"
	"github.com/df07/go-terminal-raytracer/pkg/renderer"
	"github.com/df07/go-terminal-raytracer/pkg/scene"
	"github.com/df07/go-terminal-raytracer/pkg/terminal"
)

// sceneSource builds a scene once the grid size is known
type sceneSource func(grid image.Point, logger core.Logger) (*scene.Scene, error)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and drives one terminal session. Every failure is returned so
// deferred cleanup runs before main exits.
func run(args []string, stdout io.Writer) error {
	// Parse command line flags
	flags := flag.NewFlagSet("go-terminal-raytracer", flag.ContinueOnError)
	flags.SetOutput(stdout)
	sceneType := flags.String("scene", "default", "Scene: 'default', a name under scenes/, or a .json file")
	width := flags.Int("width", 0, "Canvas width in cells (0 = fit terminal)")
	height := flags.Int("height", 0, "Canvas height in cells (0 = fit terminal)")
	buffers := flags.Int("buffers", 2, "Number of frame buffers (at least 2)")
	fps := flags.Float64("fps", 144, "Frame rate limit (0 = unlimited)")
	workers := flags.Int("workers", 0, "Number of render workers (0 = auto-detect CPU count)")
	shadows := flags.String("shadows", "specular", "Shadow policy: 'specular' or 'full'")
	speed := flags.Float64("speed", 0, "Camera speed in units per second (0 = scene default)")
	sensitivity := flags.Float64("sensitivity", 0, "Look sensitivity (0 = scene default)")
	calibrate := flags.Bool("calibrate", true, "Ask for two reference clicks before rendering")
	hud := flags.Bool("hud", false, "Show the debug overlay")
	logFile := flags.String("log", "", "Write log messages to this file")
	help := flags.Bool("help", false, "Show help information")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	// Show help if requested
	if *help {
		printHelp(stdout, flags)
		return nil
	}

	// Everything that can be checked is checked before the terminal is taken over
	policy, err := integrator.ParseShadowPolicy(*shadows)
	if err != nil {
		return err
	}
	if *buffers < 2 {
		return fmt.Errorf("need at least 2 buffers, got %d", *buffers)
	}
	if *fps < 0 {
		return fmt.Errorf("fps limit must not be negative, got %g", *fps)
	}
	if (*width > 0) != (*height > 0) || *width < 0 || *height < 0 {
		return fmt.Errorf("width and height must both be positive or both be 0, got %dx%d", *width, *height)
	}
	source, err := resolveScene(*sceneType)
	if err != nil {
		return err
	}

	logOut := io.Discard
	if *logFile != "" {
		file, err := os.Create(*logFile)
		if err != nil {
			return fmt.Errorf("create log file: %w", err)
		}
		defer file.Close()
		logOut = file
	}
	logger := app.NewConsoleLogger(renderer.NewDefaultLogger(logOut))

	config := app.DefaultConfig()
	config.FPSLimit = *fps
	config.Calibrate = *calibrate
	config.HUD = *hud
	config.GlyphsPerCell = terminal.GlyphsPerCell
	config.Shadows = policy
	config.Frame.NumWorkers = *workers

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runSession(ctx, config, source, image.Pt(*width, *height), *buffers, *speed, *sensitivity, logger)
}

func printHelp(w io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(w, "Terminal Raytracer")
	fmt.Fprintln(w, "Usage: go-terminal-raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flags.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Controls:")
	fmt.Fprintln(w, "  w/a/s/d       - move forward/left/back/right")
	fmt.Fprintln(w, "  space/c       - move up/down")
	fmt.Fprintln(w, "  arrows, drag  - look around")
	fmt.Fprintln(w, "  q, esc        - quit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	fmt.Fprintln(w, "  default - Four coloured spheres around the origin (built-in)")
	scenes, skipped, err := loaders.ListScenes("scenes")
	if err != nil {
		fmt.Fprintf(w, "  (could not scan scenes/: %v)\n", err)
	}
	for _, info := range scenes {
		if info.ID == "default" {
			continue
		}
		fmt.Fprintf(w, "  %s - %s %s\n", info.ID, info.DisplayName, info.Description)
	}
	for path, err := range skipped {
		fmt.Fprintf(w, "  Warning: skipping %s: %v\n", path, err)
	}
}

func runSession(ctx context.Context, config app.Config, source sceneSource, grid image.Point, buffers int, speed, sensitivity float64, logger core.Logger) error {
	term, err := terminal.Open(config.Title, os.Stdout, logger)
	if err != nil {
		return err
	}
	defer term.Close()

	if fit := term.FitGrid(); grid.X == 0 {
		grid = fit
	} else if grid.X > fit.X || grid.Y > fit.Y {
		logger.Printf("canvas %v is larger than the terminal fits (%v)\n", grid, fit)
	}

	s, err := source(grid, logger)
	if err != nil {
		return err
	}
	if speed > 0 {
		s.Camera.Speed = speed
	}
	if sensitivity > 0 {
		s.Camera.Sensitivity = sensitivity
	}

	display, err := canvas.NewBufferedCanvas(grid.X, grid.Y, buffers)
	if err != nil {
		return fmt.Errorf("create canvas %v: %w", grid, err)
	}
	logger.Printf("rendering %d spheres and %d lights on a %dx%d canvas\n", len(s.Spheres), len(s.Lights), grid.X, grid.Y)

	a := app.New(config, s, display, term.Input(terminal.DefaultSourceConfig()), term.Sink(), logger)
	return a.Run(ctx)
}

// resolveScene maps the -scene flag onto a scene source. File-backed scenes are
// parsed here so errors surface before the terminal is opened.
func resolveScene(sceneType string) (sceneSource, error) {
	if sceneType == "" {
		return nil, errors.New("no scene given")
	}
	if sceneType == "default" {
		return func(grid image.Point, logger core.Logger) (*scene.Scene, error) {
			s := scene.NewDefaultScene(grid)
			return s, s.Validate(logger)
		}, nil
	}

	path := sceneType
	if !strings.HasSuffix(path, ".json") {
		path = filepath.Join("scenes", sceneType+".json")
	}
	sf, err := loaders.LoadScene(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unknown scene %q: %w", sceneType, err)
		}
		return nil, err
	}
	return sf.Build, nil
}

// createScene resolves and builds a scene in one step
func createScene(sceneType string, grid image.Point, logger core.Logger) (*scene.Scene, error) {
	source, err := resolveScene(sceneType)
	if err != nil {
		return nil, err
	}
	return source(grid, logger)
}
