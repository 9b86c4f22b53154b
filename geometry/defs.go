// Package geometry holds the rotation and vector helpers shared by the control laws:
// quaternion to rotation matrix extraction, Tait-Bryan conversions, the closed-form
// attitude error (vee map) and the bell-shaped switching function.
package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	Pi    = math.Pi
	Deg   = Pi / 180
	G     = 9.81 // G is the acceleration due to gravity, m/s^2
	Small = 1e-9
)

// UnitZ is the world (and body) vertical axis.
var UnitZ = r3.Vector{X: 0, Y: 0, Z: 1}

// Clamp limits value to the closed interval [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampVector clamps each component of v to [-limit, limit].
func ClampVector(v r3.Vector, limit float64) r3.Vector {
	return r3.Vector{
		X: Clamp(v.X, -limit, limit),
		Y: Clamp(v.Y, -limit, limit),
		Z: Clamp(v.Z, -limit, limit),
	}
}

// BellShape is a raised-cosine switch: 0 at or below xmin, 1 at or above xmax,
// rising smoothly in between. When xmin == xmax it is a step that is still 0 at xmin.
func BellShape(x, xmin, xmax float64) float64 {
	if x <= xmin {
		return 0
	}
	if x >= xmax {
		return 1
	}
	return 0.5*math.Cos((x-xmin)*Pi/(xmax-xmin)+Pi) + 0.5
}
