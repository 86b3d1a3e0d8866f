// Package scene holds the mutable simulation state: the light, the
// occluders and the oscillating occluder's velocity.
package scene

import "chosenoffset.com/lightbounce/internal/core/geom"

// Occluder is a circle rays reflect off, with the color of its outline.
type Occluder struct {
	Circle geom.Circle
	Color  geom.RGB
}

// Scene is owned by the simulation loop and only mutated between ticks.
type Scene struct {
	Bounds    geom.Rect
	Light     geom.Circle
	Occluders []Occluder

	// Moving is the index of the oscillating occluder, or -1 for none.
	Moving   int
	Velocity float64

	dragging bool
}

// New creates a scene. The occluder slice is copied so its length stays fixed.
func New(bounds geom.Rect, light geom.Circle, occluders []Occluder, moving int, velocity float64) *Scene {
	occ := make([]Occluder, len(occluders))
	copy(occ, occluders)
	if moving >= len(occ) {
		moving = -1
	}
	return &Scene{
		Bounds:    bounds,
		Light:     light,
		Occluders: occ,
		Moving:    moving,
		Velocity:  velocity,
	}
}

// Advance moves the oscillating occluder by Velocity*dt. Touching the top or
// bottom border while heading into it reverses the velocity; the position is
// not clamped, so the circle may overshoot by one step.
func (s *Scene) Advance(dt float64) {
	if s.Moving < 0 || s.Moving >= len(s.Occluders) {
		return
	}
	c := &s.Occluders[s.Moving].Circle
	c.Center.Y += s.Velocity * dt

	switch {
	case c.Center.Y-c.R <= 0 && s.Velocity < 0:
		s.Velocity = -s.Velocity
	case c.Center.Y+c.R >= s.Bounds.H && s.Velocity > 0:
		s.Velocity = -s.Velocity
	}
}

// Press starts dragging the light if p is inside it.
func (s *Scene) Press(p geom.Point) bool {
	s.dragging = s.Light.Contains(p)
	return s.dragging
}

// Move relocates the light while a drag is active. It reports whether the
// light moved.
func (s *Scene) Move(p geom.Point) bool {
	if !s.dragging {
		return false
	}
	p = s.Bounds.Clamp(p)
	if p == s.Light.Center {
		return false
	}
	s.Light.Center = p
	return true
}

// Release ends a drag.
func (s *Scene) Release() {
	s.dragging = false
}

// Dragging reports whether the light is being dragged.
func (s *Scene) Dragging() bool {
	return s.dragging
}

// Snapshot is a read-only copy of the scene used for one tick of tracing.
type Snapshot struct {
	Bounds    geom.Rect
	Light     geom.Circle
	Occluders []Occluder
}

// Snapshot copies the positions needed for tracing.
func (s *Scene) Snapshot() Snapshot {
	occ := make([]Occluder, len(s.Occluders))
	copy(occ, s.Occluders)
	return Snapshot{Bounds: s.Bounds, Light: s.Light, Occluders: occ}
}

// Circles returns the occluder circles in scan order.
func (s Snapshot) Circles() []geom.Circle {
	circles := make([]geom.Circle, len(s.Occluders))
	for i, o := range s.Occluders {
		circles[i] = o.Circle
	}
	return circles
}
