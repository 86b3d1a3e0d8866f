// Package frame assembles the segment list drawn each tick and publishes it
// as a whole.
package frame

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"chosenoffset.com/lightbounce/internal/core/geom"
	"chosenoffset.com/lightbounce/internal/core/raytrace"
	"chosenoffset.com/lightbounce/internal/core/scene"
)

// DefaultOutlineSides is the polygon resolution of circle outlines.
const DefaultOutlineSides = 100

// DefaultLightColor is the outline color of the light source.
var DefaultLightColor = geom.RGB{R: 1, G: 1, B: 1}

// Frame is one tick's render list. It is never modified after publication.
type Frame struct {
	Seq      uint64
	RayCount int
	Rays     []geom.Segment
	Outlines []geom.Segment
}

// VertexCount returns the number of line endpoints in the frame.
func (f *Frame) VertexCount() int {
	return 2 * (len(f.Rays) + len(f.Outlines))
}

// Assembler rebuilds frames from the scene.
type Assembler struct {
	Scene        *scene.Scene
	Tracer       *raytrace.Tracer
	RayCount     int
	OutlineSides int
	LightColor   geom.RGB

	seq     uint64
	current atomic.Pointer[Frame]
}

// NewAssembler creates an assembler. Nothing is published until the first
// Tick or Rebuild.
func NewAssembler(s *scene.Scene, tracer *raytrace.Tracer, rayCount int) *Assembler {
	return &Assembler{
		Scene:        s,
		Tracer:       tracer,
		RayCount:     rayCount,
		OutlineSides: DefaultOutlineSides,
		LightColor:   DefaultLightColor,
	}
}

// Tick advances the scene by dt seconds, then rebuilds and publishes the
// frame. dt is supplied by the caller; the assembler reads no clock.
func (a *Assembler) Tick(ctx context.Context, dt float64) (*Frame, error) {
	a.Scene.Advance(dt)
	return a.Rebuild(ctx)
}

// Rebuild retraces the current scene without advancing it, e.g. after the
// light was dragged.
func (a *Assembler) Rebuild(ctx context.Context) (*Frame, error) {
	snap := a.Scene.Snapshot()

	rays := raytrace.Field(snap.Light, a.RayCount)
	segs, err := a.Tracer.TraceAll(ctx, rays, snap.Circles())
	if err != nil {
		return nil, errors.Wrap(err, "tracing frame")
	}

	outlines := make([]geom.Segment, 0, (len(snap.Occluders)+1)*a.OutlineSides)
	outlines = append(outlines, snap.Light.Outline(a.OutlineSides, a.LightColor)...)
	for _, o := range snap.Occluders {
		outlines = append(outlines, o.Circle.Outline(a.OutlineSides, o.Color)...)
	}

	a.seq++
	f := &Frame{
		Seq:      a.seq,
		RayCount: len(rays),
		Rays:     segs,
		Outlines: outlines,
	}
	a.current.Store(f)
	return f, nil
}

// Current returns the last published frame, or nil before the first tick.
// It is safe to call from any goroutine.
func (a *Assembler) Current() *Frame {
	return a.current.Load()
}
