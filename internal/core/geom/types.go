package geom

import "math"

// Point represents a 2D point or direction in scene space (y axis up).
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Len returns the euclidean length of p.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns p scaled to unit length. A zero vector is returned as is.
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return p
	}
	return Point{p.X / l, p.Y / l}
}

// RGB is a segment color with channels in [0, 1].
type RGB struct {
	R, G, B float32
}

// Segment is a colored line from A to B, the render primitive of a frame.
type Segment struct {
	A, B  Point
	Color RGB
}

// Circle is used for the light source and for every occluder.
type Circle struct {
	Center Point
	R      float64
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Point) bool {
	d := p.Sub(c.Center)
	return d.Dot(d) <= c.R*c.R
}

// Outline approximates the circle with an n-sided polygon.
func (c Circle) Outline(n int, clr RGB) []Segment {
	if n < 3 {
		return nil
	}
	segs := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		theta1 := 2 * math.Pi * float64(i) / float64(n)
		theta2 := 2 * math.Pi * float64(i+1) / float64(n)
		segs = append(segs, Segment{
			A:     Point{c.Center.X + c.R*math.Cos(theta1), c.Center.Y + c.R*math.Sin(theta1)},
			B:     Point{c.Center.X + c.R*math.Cos(theta2), c.Center.Y + c.R*math.Sin(theta2)},
			Color: clr,
		})
	}
	return segs
}

// Rect is the scene border, spanning [0, W] x [0, H].
type Rect struct {
	W, H float64
}

// Exit returns the distance along ray to the nearest border it crosses.
// An axis with a zero direction component never bounds the distance.
func (r Rect) Exit(ray Ray) float64 {
	o, d := ray.Origin, ray.Dir
	tx, ty := math.Inf(1), math.Inf(1)
	switch {
	case d.X > 0:
		tx = (r.W - o.X) / d.X
	case d.X < 0:
		tx = -o.X / d.X
	}
	switch {
	case d.Y > 0:
		ty = (r.H - o.Y) / d.Y
	case d.Y < 0:
		ty = -o.Y / d.Y
	}
	return math.Min(tx, ty)
}

// Clamp returns p moved into the rectangle.
func (r Rect) Clamp(p Point) Point {
	return Point{math.Max(0, math.Min(r.W, p.X)), math.Max(0, math.Min(r.H, p.Y))}
}
