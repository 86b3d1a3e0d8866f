package game

import (
	"fmt"
	"image/color"
	"math"

	"chosenoffset.com/lightbounce/internal/core/geom"
	"chosenoffset.com/lightbounce/internal/render"
)

// Draw renders the last published frame.
func (g *Game) Draw(screen render.Image) {
	screen.Fill(color.Black)

	f := g.Assembler.Current()
	if f == nil {
		return
	}

	if g.WhiteImg == nil {
		g.WhiteImg = g.Renderer.NewImage(1, 1)
		g.WhiteImg.Fill(color.White)
	}

	g.drawSegments(screen, f.Outlines)
	g.drawSegments(screen, f.Rays)

	s := g.Assembler.Scene
	if s.Dragging() {
		g.Renderer.StrokeCircle(screen,
			float32(s.Light.Center.X),
			float32(float64(g.ScreenHeight)-s.Light.Center.Y),
			float32(s.Light.R)+3,
			2,
			color.RGBA{255, 255, 100, 255})
	}

	status := fmt.Sprintf("rays %d  segments %d", f.RayCount, len(f.Rays))
	if g.Paused {
		status += "  [paused]"
	}
	g.Renderer.DrawText(screen, status, 8, 8)
}

// drawSegments draws every segment as a thin quad, batching as many quads
// per DrawTriangles call as uint16 indices allow.
func (g *Game) drawSegments(dst render.Image, segs []geom.Segment) {
	half := float64(g.LineWidth) / 2
	h := float64(g.ScreenHeight)

	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]

	for _, s := range segs {
		ax, ay := s.A.X, h-s.A.Y
		bx, by := s.B.X, h-s.B.Y
		dx, dy := bx-ax, by-ay
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half

		if len(g.vertices)+4 > render.MaxBatchVertices {
			g.flush(dst)
		}

		base := uint16(len(g.vertices))
		g.vertices = append(g.vertices,
			vertex(ax+nx, ay+ny, s.Color),
			vertex(ax-nx, ay-ny, s.Color),
			vertex(bx+nx, by+ny, s.Color),
			vertex(bx-nx, by-ny, s.Color),
		)
		g.indices = append(g.indices, base, base+1, base+2, base+1, base+2, base+3)
	}
	g.flush(dst)
}

func (g *Game) flush(dst render.Image) {
	if len(g.indices) == 0 {
		return
	}
	dst.DrawTriangles(g.vertices, g.indices, g.WhiteImg, &render.DrawTrianglesOptions{AntiAlias: false})
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
}

func vertex(x, y float64, c geom.RGB) render.Vertex {
	return render.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0,
		SrcY:   0,
		ColorR: c.R,
		ColorG: c.G,
		ColorB: c.B,
		ColorA: 1,
	}
}

// Close releases images owned by the game.
func (g *Game) Close() {
	if g.WhiteImg != nil {
		g.WhiteImg.Dispose()
		g.WhiteImg = nil
	}
}
