package renderer

import (
	"time"
)

// FrameStats contains statistics about one rendered frame
type FrameStats struct {
	Frame              int     `json:"frame"`               // Frames since the last reset, starting at 0
	Seed               uint32  `json:"seed"`                // Frame seed mixed into every pixel seed
	AccumulationFactor float64 `json:"accumulation_factor"` // Weight of this frame in the running mean
	Reset              bool    `json:"reset"`               // Whether accumulation restarted on this frame
	Pixels             int     `json:"pixels"`              // Pixels traced
	Skipped            int     `json:"skipped"`             // Invocations outside the frame
	Tiles              int     `json:"tiles"`
	Workers            int     `json:"workers"`
	DurationMS         float64 `json:"duration_ms"`
	MeanLuminance      float64 `json:"mean_luminance"` // Of the accumulated image after this frame
}

// Duration returns the wall time of the frame
func (s FrameStats) Duration() time.Duration {
	return time.Duration(s.DurationMS * float64(time.Millisecond))
}

// tileStats is the per-tile contribution to FrameStats
type tileStats struct {
	pixels    int
	skipped   int
	luminance float64
}

// RunStats summarizes a sequence of frames
type RunStats struct {
	Frames        []FrameStats `json:"frames"`
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	TotalMS       float64      `json:"total_ms"`
	MeanLuminance float64      `json:"mean_luminance"`
}

// Summarize builds RunStats from per-frame stats
func Summarize(width, height int, frames []FrameStats) RunStats {
	rs := RunStats{Frames: frames, Width: width, Height: height}
	for _, f := range frames {
		rs.TotalMS += f.DurationMS
	}
	if len(frames) > 0 {
		rs.MeanLuminance = frames[len(frames)-1].MeanLuminance
	}
	return rs
}

// CalculateAverageLuminance returns the mean luminance of a linear surface
func CalculateAverageLuminance(s *Surface) float64 {
	if s.Width == 0 || s.Height == 0 {
		return 0
	}
	total := 0.0
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			total += s.At(x, y).Luminance()
		}
	}
	return total / float64(s.Width*s.Height)
}
