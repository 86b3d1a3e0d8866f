package raytrace

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/lightbounce/internal/core/geom"
)

var bounds = geom.Rect{W: 1200, H: 600}

func TestFieldEvenlySpaced(t *testing.T) {
	light := geom.Circle{Center: geom.Point{X: 300, Y: 300}, R: 40}
	rays := Field(light, 8)
	require.Len(t, rays, 8)

	for i, r := range rays {
		assert.Equal(t, light.Center, r.Origin)
		want := float64(i) / 8 * 2 * math.Pi
		assert.InDelta(t, math.Cos(want), r.Dir.X, 1e-12, "ray %d", i)
		assert.InDelta(t, math.Sin(want), r.Dir.Y, 1e-12, "ray %d", i)
		assert.InDelta(t, 1, r.Dir.Len(), 1e-12)
	}

	assert.Empty(t, Field(light, 0))
	assert.Empty(t, Field(light, -3))
}

func TestTraceBorderClipWithoutOccluders(t *testing.T) {
	tr := NewTracer(3, bounds)
	origin := geom.Point{X: 300, Y: 300}
	ray := geom.Ray{Origin: origin, Dir: geom.Point{X: 900, Y: 300}.Normalize()}

	segs, err := tr.Trace(ray, nil, nil)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, origin, segs[0].A)
	assert.InDelta(t, 1200, segs[0].B.X, 1e-6)
	assert.InDelta(t, 600, segs[0].B.Y, 1e-6)
	assert.Equal(t, DefaultPalette[0], segs[0].Color)
}

func TestTraceStraightUpReflectsDown(t *testing.T) {
	tr := NewTracer(3, bounds)
	light := geom.Circle{Center: geom.Point{X: 300, Y: 300}, R: 40}
	occluder := geom.Circle{Center: geom.Point{X: 300, Y: 400}, R: 50}

	segs, err := tr.Trace(geom.RayFromAngle(light.Center, math.Pi/2), []geom.Circle{occluder}, nil)
	require.NoError(t, err)
	require.Len(t, segs, 2)

	// Direct segment ends on the bottom of the occluder.
	assert.InDelta(t, 300, segs[0].B.X, 1e-9)
	assert.InDelta(t, 350, segs[0].B.Y, 1e-9)
	assert.Equal(t, DefaultPalette[0], segs[0].Color)

	// The reflection heads straight down to the bottom border.
	dx := segs[1].B.X - segs[1].A.X
	dy := segs[1].B.Y - segs[1].A.Y
	assert.InDelta(t, 0, dx, 1e-9)
	assert.Less(t, dy, 0.0)
	assert.InDelta(t, 349.9, segs[1].A.Y, 1e-9)
	assert.InDelta(t, 0, segs[1].B.Y, 1e-9)
	assert.Equal(t, DefaultPalette[1], segs[1].Color)
}

func TestTraceBounceCeiling(t *testing.T) {
	// Two facing occluders trap a horizontal ray between them.
	occluders := []geom.Circle{
		{Center: geom.Point{X: 100, Y: 300}, R: 50},
		{Center: geom.Point{X: 500, Y: 300}, R: 50},
	}
	origin := geom.Point{X: 300, Y: 300}

	for _, maxBounces := range []int{0, 1, 3, 7} {
		tr := NewTracer(maxBounces, bounds)
		segs, err := tr.Trace(geom.Ray{Origin: origin, Dir: geom.Point{X: 1}}, occluders, nil)
		require.NoError(t, err)
		assert.Len(t, segs, maxBounces+1, "max bounces %d", maxBounces)
	}
}

func TestTraceSegmentCountBounded(t *testing.T) {
	tr := NewTracer(3, bounds)
	light := geom.Circle{Center: geom.Point{X: 300, Y: 300}, R: 40}
	occluders := []geom.Circle{
		{Center: geom.Point{X: 700, Y: 300}, R: 80},
		{Center: geom.Point{X: 900, Y: 525}, R: 40},
		{Center: geom.Point{X: 900, Y: 120}, R: 40},
	}

	for i, r := range Field(light, 720) {
		segs, err := tr.Trace(r, occluders, nil)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(segs), tr.MaxBounces+1, "ray %d", i)
		assert.NotEmpty(t, segs, "ray %d", i)
		for _, s := range segs {
			assert.False(t, math.IsNaN(s.B.X) || math.IsNaN(s.B.Y), "ray %d produced NaN", i)
		}
	}
}

func TestTraceTieBreakFirstOccluder(t *testing.T) {
	tr := NewTracer(0, bounds)
	// Both circles are hit at t=50 on the same point; only the normals differ.
	first := geom.Circle{Center: geom.Point{X: 400, Y: 300}, R: 50}
	second := geom.Circle{Center: geom.Point{X: 400, Y: 300}, R: 50}
	ray := geom.Ray{Origin: geom.Point{X: 300, Y: 300}, Dir: geom.Point{X: 1}}

	segs, err := tr.Trace(ray, []geom.Circle{first, second}, nil)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.InDelta(t, 350, segs[0].B.X, 1e-9)
}

func TestTraceNearerOccluderWins(t *testing.T) {
	tr := NewTracer(0, bounds)
	far := geom.Circle{Center: geom.Point{X: 800, Y: 300}, R: 50}
	near := geom.Circle{Center: geom.Point{X: 500, Y: 300}, R: 50}
	ray := geom.Ray{Origin: geom.Point{X: 300, Y: 300}, Dir: geom.Point{X: 1}}

	segs, err := tr.Trace(ray, []geom.Circle{far, near}, nil)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.InDelta(t, 450, segs[0].B.X, 1e-9)
}

func TestTraceBorderBeforeOccluder(t *testing.T) {
	tr := NewTracer(3, geom.Rect{W: 400, H: 600})
	// The occluder sits past the right border.
	occluders := []geom.Circle{{Center: geom.Point{X: 600, Y: 300}, R: 50}}
	ray := geom.Ray{Origin: geom.Point{X: 300, Y: 300}, Dir: geom.Point{X: 1}}

	segs, err := tr.Trace(ray, occluders, nil)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, geom.Point{X: 400, Y: 300}, segs[0].B)
}

func TestTraceZeroDirection(t *testing.T) {
	tr := NewTracer(3, bounds)
	_, err := tr.Trace(geom.Ray{Origin: geom.Point{X: 1, Y: 1}}, nil, nil)
	require.Error(t, err)
	assert.Equal(t, geom.ErrZeroDirection, errors.Cause(err))
}

func TestColorClampsToLastEntry(t *testing.T) {
	tr := NewTracer(10, bounds)
	assert.Equal(t, DefaultPalette[0], tr.Color(0))
	assert.Equal(t, DefaultPalette[2], tr.Color(2))
	assert.Equal(t, DefaultPalette[3], tr.Color(3))
	assert.Equal(t, DefaultPalette[3], tr.Color(9))

	tr.Palette = nil
	assert.Equal(t, geom.RGB{R: 1, G: 1, B: 1}, tr.Color(0))
}

func TestTraceAllMatchesSequential(t *testing.T) {
	light := geom.Circle{Center: geom.Point{X: 300, Y: 300}, R: 40}
	occluders := []geom.Circle{
		{Center: geom.Point{X: 700, Y: 300}, R: 80},
		{Center: geom.Point{X: 900, Y: 525}, R: 40},
		{Center: geom.Point{X: 900, Y: 120}, R: 40},
	}
	rays := Field(light, 1001)

	seq := NewTracer(3, bounds)
	want, err := seq.TraceAll(context.Background(), rays, occluders)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 5000} {
		par := NewTracer(3, bounds)
		par.Workers = workers
		got, err := par.TraceAll(context.Background(), rays, occluders)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers %d", workers)
	}
}

func TestTraceAllReportsDegenerateRay(t *testing.T) {
	tr := NewTracer(3, bounds)
	tr.Workers = 4
	rays := Field(geom.Circle{Center: geom.Point{X: 300, Y: 300}}, 16)
	rays[9].Dir = geom.Point{}

	_, err := tr.TraceAll(context.Background(), rays, nil)
	require.Error(t, err)
	assert.Equal(t, geom.ErrZeroDirection, errors.Cause(err))
}

func TestTraceAllEmpty(t *testing.T) {
	tr := NewTracer(3, bounds)
	tr.Workers = 4
	segs, err := tr.TraceAll(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, segs)
}
