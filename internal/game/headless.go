package game

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"chosenoffset.com/lightbounce/internal/core/frame"
)

// RunHeadless runs ticks simulation steps of dt without a window, reporting
// the measured tracing time through m. It returns the last frame.
func RunHeadless(ctx context.Context, a *frame.Assembler, ticks int, dt time.Duration, m *Metrics) (*frame.Frame, error) {
	var last *frame.Frame
	for i := 0; i < ticks; i++ {
		start := time.Now()
		f, err := a.Tick(ctx, dt.Seconds())
		if err != nil {
			return last, errors.Wrapf(err, "headless tick %d", i)
		}
		m.Observe(time.Since(start), f.RayCount, f.VertexCount())
		last = f
	}
	return last, nil
}
