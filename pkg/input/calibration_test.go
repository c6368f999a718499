package input

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/df07/go-terminal-raytracer/pkg/geometry"
)

func TestNewCalibration(t *testing.T) {
	// A 10x5 grid of two-character cells, drawn from terminal column 4, row 2
	c, err := NewCalibration(image.Pt(4, 2), image.Pt(22, 6), image.Pt(10, 5))
	if err != nil {
		t.Fatalf("NewCalibration: %v", err)
	}
	if math.Abs(c.CellWidth-2) > 1e-9 || math.Abs(c.CellHeight-1) > 1e-9 {
		t.Errorf("Expected cell size 2x1, got %fx%f", c.CellWidth, c.CellHeight)
	}
	if c.Grid() != image.Pt(10, 5) {
		t.Errorf("Expected grid (10,5), got %v", c.Grid())
	}
}

func TestNewCalibration_Degenerate(t *testing.T) {
	tests := []struct {
		name        string
		topLeft     image.Point
		bottomRight image.Point
		grid        image.Point
	}{
		{"same point", image.Pt(3, 3), image.Pt(3, 3), image.Pt(10, 10)},
		{"swapped clicks", image.Pt(20, 9), image.Pt(0, 0), image.Pt(10, 10)},
		{"zero height", image.Pt(0, 4), image.Pt(18, 4), image.Pt(10, 10)},
		{"single column", image.Pt(0, 0), image.Pt(18, 9), image.Pt(1, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCalibration(tt.topLeft, tt.bottomRight, tt.grid)
			if !errors.Is(err, ErrDegenerateCalibration) {
				t.Errorf("Expected ErrDegenerateCalibration, got %v", err)
			}
		})
	}
}

func TestCalibration_PixelToCell(t *testing.T) {
	c, err := NewCalibration(image.Pt(4, 2), image.Pt(22, 6), image.Pt(10, 5))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		pixel image.Point
		want  image.Point
	}{
		{image.Pt(4, 2), image.Pt(0, 0)},
		{image.Pt(5, 2), image.Pt(0, 0)},
		{image.Pt(6, 3), image.Pt(1, 1)},
		{image.Pt(13, 4), image.Pt(4, 2)},
		{image.Pt(22, 6), image.Pt(9, 4)},
		{image.Pt(23, 6), image.Pt(9, 4)},
		{image.Pt(0, 0), image.Pt(0, 0)},
		{image.Pt(100, 100), image.Pt(9, 4)},
	}

	for _, tt := range tests {
		if got := c.PixelToCell(tt.pixel); got != tt.want {
			t.Errorf("PixelToCell(%v): expected %v, got %v", tt.pixel, tt.want, got)
		}
	}
}

func TestCalibration_MouseCellClamps(t *testing.T) {
	c := GridCalibration(image.Pt(8, 4), 2)

	tests := []struct {
		pointer image.Point
		want    image.Point
	}{
		{image.Pt(-5, -5), image.Pt(0, 0)},
		{image.Pt(7, 2), image.Pt(3, 2)},
		{image.Pt(500, 1), image.Pt(7, 1)},
		{image.Pt(3, 99), image.Pt(1, 3)},
	}

	for _, tt := range tests {
		got := c.MouseCell(tt.pointer)
		if got != tt.want {
			t.Errorf("MouseCell(%v): expected %v, got %v", tt.pointer, tt.want, got)
		}
		if !got.In(image.Rectangle{Max: c.Grid()}) {
			t.Errorf("MouseCell(%v) = %v escaped the grid", tt.pointer, got)
		}
	}
}

func TestScripted(t *testing.T) {
	frames := []Snapshot{
		{Held: geometry.DirectionForward},
		{MouseDelta: image.Pt(3, -1)},
	}
	s := NewScripted(frames...)

	for i, want := range frames {
		if got := s.Snapshot(); got != want {
			t.Errorf("frame %d: expected %+v, got %+v", i, want, got)
		}
	}
	if !s.Snapshot().Quit {
		t.Error("Expected a quit request once the script runs out")
	}

	s.Recenter()
	s.Recenter()
	if s.Recenters() != 2 {
		t.Errorf("Expected 2 recenters, got %d", s.Recenters())
	}
}
