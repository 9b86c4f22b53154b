package control

import (
	"github.com/golang/geo/r3"
)

// errorVectors is what both control laws consume on one tick.
type errorVectors struct {
	ep, ev r3.Vector // position and velocity error, world frame
	ew     r3.Vector // body rate error, pitch in body handedness
	rate   r3.Vector // measured body rate, pitch in body handedness
	dRoll  float64   // rate error derivative, roll
	dPitch float64   // rate error derivative, pitch
}

// computeErrors fills e from one tick's inputs. It does not touch any history.
func computeErrors(e *errorVectors, sp *Setpoint, st *EstimatedState, r *RawRates) {
	e.ep = sp.Position.Sub(st.Position)
	e.ev = sp.Velocity.Sub(st.Velocity)

	e.rate = r3.Vector{X: r.Gyro.X, Y: -r.Gyro.Y, Z: r.Gyro.Z}
	e.ew = r3.Vector{
		X: sp.AttitudeRate.X - e.rate.X,
		Y: -sp.AttitudeRate.Y - e.rate.Y,
		Z: sp.AttitudeRate.Z - e.rate.Z,
	}
}

// rateHistory keeps the previous executed tick's roll and pitch rates for the
// D-term. Desired rates are stored as commanded, measured ones in body handedness.
type rateHistory struct {
	roll, pitch     float64
	spRoll, spPitch float64
	valid           bool
}

// invalidate forgets the previous sample so the next D-term is zero.
func (h *rateHistory) invalidate() {
	*h = rateHistory{}
}

// step sets the roll and pitch rate error derivatives of e by finite difference,
// zero when there is no previous sample, and then records the current sample.
func (h *rateHistory) step(e *errorVectors, spRate r3.Vector, dt float64) {
	e.dRoll, e.dPitch = 0, 0
	if h.valid {
		e.dRoll = ((spRate.X - h.spRoll) - (e.rate.X - h.roll)) / dt
		e.dPitch = (-(spRate.Y - h.spPitch) - (e.rate.Y - h.pitch)) / dt
	}
	h.roll, h.pitch = e.rate.X, e.rate.Y
	h.spRoll, h.spPitch = spRate.X, spRate.Y
	h.valid = true
}
