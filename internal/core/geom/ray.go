// Package geom holds the 2D primitives the tracer works with: points,
// circles, rays and the ray/circle intersection.
package geom

import (
	"math"

	"github.com/pkg/errors"
)

// Epsilon is the smallest parametric distance accepted as a hit. Roots at or
// below it belong to the surface the ray is leaving.
const Epsilon = 0.001

// ErrZeroDirection is returned for a ray that has no direction.
var ErrZeroDirection = errors.New("ray direction is zero")

// Ray is an origin plus a direction. Dir need not be unit length.
type Ray struct {
	Origin Point
	Dir    Point
}

// RayFromAngle builds a unit ray leaving origin at angle radians.
func RayFromAngle(origin Point, angle float64) Ray {
	return Ray{Origin: origin, Dir: Point{math.Cos(angle), math.Sin(angle)}}
}

// At returns the point at parametric distance t.
func (r Ray) At(t float64) Point {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Validate fails for a zero-length direction.
func (r Ray) Validate() error {
	if r.Dir.X == 0 && r.Dir.Y == 0 {
		return errors.WithStack(ErrZeroDirection)
	}
	return nil
}

// Hit describes where a ray meets a circle.
type Hit struct {
	T      float64
	Point  Point
	Normal Point // unit, pointing away from the center
}

// IntersectCircle solves |o + t*d - c|^2 = r^2 and returns the nearest root
// above Epsilon. The smaller root wins when both qualify.
func IntersectCircle(ray Ray, c Circle) (Hit, bool) {
	oc := ray.Origin.Sub(c.Center)
	d := ray.Dir

	a := d.Dot(d)
	b := 2 * oc.Dot(d)
	cc := oc.Dot(oc) - c.R*c.R

	disc := b*b - 4*a*cc
	if disc < 0 {
		return Hit{}, false
	}

	sq := math.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)

	var t float64
	switch {
	case t0 > Epsilon:
		t = t0
	case t1 > Epsilon:
		t = t1
	default:
		return Hit{}, false
	}

	p := ray.At(t)
	return Hit{T: t, Point: p, Normal: p.Sub(c.Center).Normalize()}, true
}

// Reflect mirrors d about the unit normal n.
func Reflect(d, n Point) Point {
	return d.Sub(n.Scale(2 * d.Dot(n)))
}
