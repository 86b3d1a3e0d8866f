package game

import (
	"log"
	"time"

	"github.com/ttacon/chalk"
)

// Metrics accumulates frame times and periodically logs a summary of the
// ray count, vertex count, average frame time and frame rate.
type Metrics struct {
	Interval time.Duration
	Logger   *log.Logger

	elapsed time.Duration
	frames  int
}

// NewMetrics reports through the standard logger every interval.
func NewMetrics(interval time.Duration) *Metrics {
	return &Metrics{Interval: interval, Logger: log.Default()}
}

// Observe records one frame. It returns true when a report was logged.
func (m *Metrics) Observe(frameTime time.Duration, rays, vertices int) bool {
	if m == nil || m.Interval <= 0 {
		return false
	}
	m.elapsed += frameTime
	m.frames++
	if m.elapsed < m.Interval {
		return false
	}

	avg := m.elapsed / time.Duration(m.frames)
	fps := 0.0
	if avg > 0 {
		fps = float64(time.Second) / float64(avg)
	}

	m.Logger.Printf("%s rays=%d vertices=%d frame=%.3fms fps=%.1f",
		chalk.Cyan.Color("[metrics]"), rays, vertices,
		float64(avg)/float64(time.Millisecond), fps)

	m.elapsed = 0
	m.frames = 0
	return true
}
