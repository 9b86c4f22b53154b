package control

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/westphae/quadctl/geometry"
)

// desiredYaw resolves the tracking law's yaw reference, rad. A yaw mode it does not
// know leaves the reference at 0.
func desiredYaw(sp *Setpoint, st *EstimatedState, dt float64) float64 {
	switch sp.Mode.Yaw {
	case ModeDisable, ModeVelocity:
		return geometry.Yaw(st.Quaternion) + sp.AttitudeRate.Z*dt
	case ModeAbs:
		return sp.Attitude.Yaw
	case ModeQuat:
		return geometry.Yaw(sp.Quaternion)
	}
	return 0
}

// targetThrust is the force the tracking law wants, world frame, before it is
// projected on the body z axis.
func targetThrust(p *Params, sp *Setpoint, e *errorVectors, in *Integrator) r3.Vector {
	if sp.Mode.XY == ModeAbs {
		return r3.Vector{
			X: p.Mass*sp.Acceleration.X + p.KpXY*e.ep.X + p.KdXY*e.ev.X + p.KiXY*in.Position.X,
			Y: p.Mass*sp.Acceleration.Y + p.KpXY*e.ep.Y + p.KdXY*e.ev.Y + p.KiXY*in.Position.Y,
			Z: p.Mass*(sp.Acceleration.Z+geometry.G) + p.KpZ*e.ep.Z + p.KdZ*e.ev.Z + p.KiZ*in.Position.Z,
		}
	}

	// Manual tilt. Without an absolute Z the vertical component is only a placeholder
	// that fixes the direction; the manual thrust is passed through later.
	t := r3.Vector{X: -math.Sin(sp.Attitude.Pitch), Y: -math.Sin(sp.Attitude.Roll), Z: 1}
	if sp.Mode.Z == ModeAbs {
		t.Z = p.Mass*geometry.G + p.KpZ*e.ep.Z + p.KdZ*e.ev.Z + p.KiZ*in.Position.Z
	}
	return t
}

// yawOnly re-expresses t in the frame of the vehicle's own heading, so that a manual
// tilt command is relative to where the nose points.
func yawOnly(R *geometry.Mat3, t r3.Vector) r3.Vector {
	xYaw := R.Column(0)
	xYaw.Z = 0
	xYaw = xYaw.Normalize()
	yYaw := geometry.UnitZ.Cross(xYaw)
	return geometry.Columns(xYaw, yYaw, geometry.UnitZ).MulVec(t)
}

// tracking is the geometric law on SO(3). It advances the attitude integrals and
// records its intermediate results in tel.
func tracking(p *Params, sp *Setpoint, st *EstimatedState, R *geometry.Mat3, e *errorVectors,
	in *Integrator, tel *Telemetry, out *LawOutput) {
	dt := p.Dt()

	t := targetThrust(p, sp, e, in)
	yaw := desiredYaw(sp, st, dt)
	if sp.Mode.XY != ModeAbs {
		t = yawOnly(R, t)
	}

	thrust := t.Dot(R.Column(2))

	var d geometry.Triad
	d.Z = t.Normalize()
	xc := r3.Vector{X: math.Cos(yaw), Y: math.Sin(yaw), Z: 0}
	d.Y = d.Z.Cross(xc).Normalize()
	d.X = d.Y.Cross(d.Z)

	tel.YawDesired = yaw
	tel.ZAxisDesired = d.Z
	tel.PitchDesired = math.Asin(-d.X.Z) / geometry.Deg
	tel.RollDesired = math.Atan2(d.Y.Z, d.Z.Z) / geometry.Deg

	eR := geometry.AttitudeError(st.Quaternion, d, geometry.BodyHanded)
	tel.AttitudeError = eR

	in.addAttitude(eR, dt, p.IRangeMXY, p.IRangeMZ)
	im := in.Attitude

	m := r3.Vector{
		X: -p.KRXY*eR.X + p.KwXY*e.ew.X + p.KiMXY*im.X + p.KdOmegaRP*e.dRoll,
		Y: -p.KRXY*eR.Y + p.KwXY*e.ew.Y + p.KiMXY*im.Y + p.KdOmegaRP*e.dPitch,
		Z: -p.KRZ*eR.Z + p.KwZ*e.ew.Z + p.KiMZ*im.Z,
	}

	if sp.Mode.Z == ModeDisable {
		out.Thrust = sp.Thrust
	} else {
		out.Thrust = p.MassThrust * thrust
	}

	// yaw moment goes out with the motor mixer's sign
	out.Moment = geometry.ClampVector(r3.Vector{X: m.X, Y: m.Y, Z: -m.Z}, p.MomentLimit)
}
