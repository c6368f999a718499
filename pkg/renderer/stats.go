package renderer

import "time"

// FrameStats contains timings for a single frame
type FrameStats struct {
	Update time.Duration // Input handling and camera update
	Render time.Duration // Tracing every cell into the edit buffer
	Total  time.Duration // Whole frame including any limiter sleep
}

// FPS returns the frame rate implied by the total frame time
func (fs FrameStats) FPS() float64 {
	if fs.Total <= 0 {
		return 0
	}
	return float64(time.Second) / float64(fs.Total)
}

// FrameHistory keeps running averages over a window of recent frames
type FrameHistory struct {
	window  int
	frames  []FrameStats
	next    int
	updates time.Duration
	renders time.Duration
	totals  time.Duration
}

// NewFrameHistory creates a history averaging over the last window frames
func NewFrameHistory(window int) *FrameHistory {
	return &FrameHistory{window: max(1, window)}
}

// AddFrame records a frame, evicting the oldest once the window is full
func (fh *FrameHistory) AddFrame(fs FrameStats) {
	if len(fh.frames) < fh.window {
		fh.frames = append(fh.frames, fs)
	} else {
		old := fh.frames[fh.next]
		fh.updates -= old.Update
		fh.renders -= old.Render
		fh.totals -= old.Total
		fh.frames[fh.next] = fs
		fh.next = (fh.next + 1) % fh.window
	}
	fh.updates += fs.Update
	fh.renders += fs.Render
	fh.totals += fs.Total
}

// Len returns the number of frames currently averaged
func (fh *FrameHistory) Len() int {
	return len(fh.frames)
}

// Average returns the mean timings of the recorded frames
func (fh *FrameHistory) Average() FrameStats {
	n := len(fh.frames)
	if n == 0 {
		return FrameStats{}
	}
	return FrameStats{
		Update: fh.updates / time.Duration(n),
		Render: fh.renders / time.Duration(n),
		Total:  fh.totals / time.Duration(n),
	}
}
