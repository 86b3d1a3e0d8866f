package raytrace

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"chosenoffset.com/lightbounce/internal/core/geom"
)

// DefaultOffset is how far past a hit point the reflected ray restarts.
const DefaultOffset = 0.1

// DefaultPalette colors segments by bounce depth: direct light, then the
// first, second and third-or-deeper reflections.
var DefaultPalette = []geom.RGB{
	{R: 1, G: 0.8, B: 0.2},
	{R: 1, G: 1, B: 1},
	{R: 1, G: 0.5, B: 0},
	{R: 0.7, G: 0.4, B: 1},
}

// Tracer follows rays through at most MaxBounces reflections.
type Tracer struct {
	MaxBounces int
	Bounds     geom.Rect
	Palette    []geom.RGB
	Offset     float64
	Workers    int
}

// NewTracer returns a tracer using the default palette and offset.
func NewTracer(maxBounces int, bounds geom.Rect) *Tracer {
	return &Tracer{
		MaxBounces: maxBounces,
		Bounds:     bounds,
		Palette:    DefaultPalette,
		Offset:     DefaultOffset,
		Workers:    1,
	}
}

// Color returns the palette entry for a bounce depth, clamped at the last entry.
func (t *Tracer) Color(depth int) geom.RGB {
	if len(t.Palette) == 0 {
		return geom.RGB{R: 1, G: 1, B: 1}
	}
	if depth >= len(t.Palette) {
		depth = len(t.Palette) - 1
	}
	return t.Palette[depth]
}

// Trace appends the segments of a single ray to dst. At most MaxBounces+1
// segments are emitted; the loop bound is the only termination for a ray
// that keeps reflecting.
func (t *Tracer) Trace(ray geom.Ray, occluders []geom.Circle, dst []geom.Segment) ([]geom.Segment, error) {
	if err := ray.Validate(); err != nil {
		return dst, err
	}

	for bounce := 0; bounce <= t.MaxBounces; bounce++ {
		clr := t.Color(bounce)

		// Equidistant occluders resolve to the first in scan order.
		closest := math.Inf(1)
		var hit geom.Hit
		found := false
		for _, c := range occluders {
			if h, ok := geom.IntersectCircle(ray, c); ok && h.T < closest {
				closest = h.T
				hit = h
				found = true
			}
		}

		border := t.Bounds.Exit(ray)
		if !found || border < closest {
			dst = append(dst, geom.Segment{A: ray.Origin, B: ray.At(border), Color: clr})
			return dst, nil
		}

		dst = append(dst, geom.Segment{A: ray.Origin, B: hit.Point, Color: clr})

		dir := geom.Reflect(ray.Dir, hit.Normal)
		ray = geom.Ray{Origin: hit.Point.Add(dir.Scale(t.Offset)), Dir: dir}
	}
	return dst, nil
}

// TraceAll traces every ray against the same occluders. Rays are split into
// contiguous chunks, one per worker, and the chunks are joined in ray order so
// the output does not depend on the worker count.
func (t *Tracer) TraceAll(ctx context.Context, rays []geom.Ray, occluders []geom.Circle) ([]geom.Segment, error) {
	workers := t.Workers
	if workers > len(rays) {
		workers = len(rays)
	}
	if workers <= 1 {
		return t.traceChunk(rays, occluders)
	}

	chunks := make([][]geom.Segment, workers)
	size := (len(rays) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		lo := w * size
		hi := min(lo+size, len(rays))
		if lo >= hi {
			continue
		}
		w := w
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			segs, err := t.traceChunk(rays[lo:hi], occluders)
			if err != nil {
				return errors.Wrapf(err, "tracing rays %d..%d", lo, hi)
			}
			chunks[w] = segs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]geom.Segment, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out, nil
}

func (t *Tracer) traceChunk(rays []geom.Ray, occluders []geom.Circle) ([]geom.Segment, error) {
	segs := make([]geom.Segment, 0, len(rays)*2)
	for i, r := range rays {
		var err error
		if segs, err = t.Trace(r, occluders, segs); err != nil {
			return nil, errors.Wrapf(err, "ray %d", i)
		}
	}
	return segs, nil
}
