package game

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"chosenoffset.com/lightbounce/internal/core/frame"
	"chosenoffset.com/lightbounce/internal/core/geom"
	"chosenoffset.com/lightbounce/internal/render"
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Game drives the simulation from the engine loop: it measures elapsed
// time, feeds pointer input to the scene and retraces once per tick.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Assembler    *frame.Assembler
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Metrics      *Metrics
	Clock        Clock
	LineWidth    float32

	// Paused freezes the oscillation; dragging still retraces.
	Paused bool

	WhiteImg render.Image

	ctx        context.Context
	lastTick   time.Time
	wasPressed bool
	vertices   []render.Vertex
	indices    []uint16
}

// New creates a game around an assembler.
func New(ctx context.Context, a *frame.Assembler, r render.Renderer, in render.InputManager, width, height int) *Game {
	return &Game{
		ScreenWidth:  width,
		ScreenHeight: height,
		Assembler:    a,
		Renderer:     r,
		InputMgr:     in,
		Clock:        time.Now,
		LineWidth:    1,
		ctx:          ctx,
	}
}

// Update handles input and advances the simulation by the wall-clock time
// since the previous call.
func (g *Game) Update() error {
	now := g.Clock()
	var elapsed time.Duration
	if !g.lastTick.IsZero() {
		elapsed = now.Sub(g.lastTick)
	}
	g.lastTick = now

	if g.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrTermination
	}
	if g.InputMgr.IsKeyJustPressed(render.KeySpace) {
		g.Paused = !g.Paused
	}

	g.updateDrag()

	dt := elapsed.Seconds()
	if g.Paused {
		dt = 0
	}

	f, err := g.Assembler.Tick(g.context(), dt)
	if err != nil {
		return errors.Wrap(err, "simulation tick")
	}

	g.Metrics.Observe(elapsed, f.RayCount, f.VertexCount())
	return nil
}

// updateDrag translates the left mouse button into scene drag events.
func (g *Game) updateDrag() {
	pressed := g.InputMgr.IsMouseButtonPressed(render.MouseButtonLeft)
	s := g.Assembler.Scene

	switch {
	case pressed && !g.wasPressed:
		s.Press(g.cursor())
	case pressed:
		s.Move(g.cursor())
	case g.wasPressed:
		s.Release()
	}
	g.wasPressed = pressed
}

// cursor returns the pointer in scene coordinates (y up).
func (g *Game) cursor() geom.Point {
	x, y := g.InputMgr.GetCursorPosition()
	return geom.Point{X: float64(x), Y: float64(g.ScreenHeight - y)}
}

func (g *Game) context() context.Context {
	if g.ctx == nil {
		return context.Background()
	}
	return g.ctx
}

// Layout returns the scene size as the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}
