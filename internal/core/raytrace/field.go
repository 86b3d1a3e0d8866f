// Package raytrace generates the ray bundle of a light and traces every ray
// through its reflections off circular occluders.
package raytrace

import (
	"math"

	"chosenoffset.com/lightbounce/internal/core/geom"
)

// Field returns n rays leaving the light center at evenly spaced angles,
// angle_i = (i/n) * 2π.
func Field(light geom.Circle, n int) []geom.Ray {
	if n <= 0 {
		return nil
	}
	rays := make([]geom.Ray, n)
	for i := range rays {
		angle := float64(i) / float64(n) * 2 * math.Pi
		rays[i] = geom.RayFromAngle(light.Center, angle)
	}
	return rays
}
