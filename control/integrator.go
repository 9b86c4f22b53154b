package control

import (
	"github.com/golang/geo/r3"

	"github.com/westphae/quadctl/geometry"
)

// Integrator holds the six anti-windup accumulators: position error (x, y, z, m·s)
// for the tracking law's thrust vector, and attitude error (roll, pitch, yaw, s)
// for its moments.
type Integrator struct {
	Position r3.Vector
	Attitude r3.Vector
}

// Reset zeroes all six accumulators.
func (in *Integrator) Reset() {
	in.Position = r3.Vector{}
	in.Attitude = r3.Vector{}
}

// addPosition accumulates ep*dt, then clamps x and y to rangeXY and z to rangeZ.
func (in *Integrator) addPosition(ep r3.Vector, dt, rangeXY, rangeZ float64) {
	in.Position = integrate(in.Position, ep.Mul(dt), rangeXY, rangeZ)
}

// addAttitude accumulates -eR*dt, then clamps roll and pitch to rangeXY and yaw to rangeZ.
func (in *Integrator) addAttitude(eR r3.Vector, dt, rangeXY, rangeZ float64) {
	in.Attitude = integrate(in.Attitude, eR.Mul(-dt), rangeXY, rangeZ)
}

func integrate(acc, inc r3.Vector, rangeXY, rangeZ float64) r3.Vector {
	return r3.Vector{
		X: geometry.Clamp(acc.X+inc.X, -rangeXY, rangeXY),
		Y: geometry.Clamp(acc.Y+inc.Y, -rangeXY, rangeXY),
		Z: geometry.Clamp(acc.Z+inc.Z, -rangeZ, rangeZ),
	}
}
