package control

import (
	"github.com/golang/geo/r3"
	"github.com/westphae/quaternion"

	"github.com/westphae/quadctl/geometry"
)

// LawOutput is the thrust and body moments produced by one control law before blending.
type LawOutput struct {
	Thrust float64
	Moment r3.Vector // roll, pitch, yaw
}

// FeedforwardTriad returns the setpoint attitude's axes in the order the identified
// gain tables were fitted with: body z in the x slot and body x in the z slot.
func FeedforwardTriad(qs quaternion.Quaternion) geometry.Triad {
	t := geometry.TriadOf(qs)
	return geometry.Triad{X: t.Z, Y: t.Y, Z: t.X}
}

// feedforward is the linear law u = G·[ep, ev, eR, ew] scaled into actuator units.
// The thrust row also carries the gravity and acceleration feedforward projected on
// the third row of R.
func feedforward(p *Params, g *GainMatrix, sp *Setpoint, st *EstimatedState, R *geometry.Mat3,
	e *errorVectors, out *LawOutput) (eRa r3.Vector) {
	eRa = geometry.AttitudeError(st.Quaternion, FeedforwardTriad(sp.Quaternion), geometry.WorldHanded)

	ff := sp.Acceleration.Add(geometry.UnitZ.Mul(geometry.G)).Mul(p.Mass)
	out.Thrust = p.KF * (ff.Dot(R.Row(2)) + g.Apply(GainThrust, e.ep, e.ev, eRa, e.ew))

	lim := p.MomentLimit
	out.Moment = geometry.ClampVector(r3.Vector{
		X: p.KFL * g.Apply(GainRoll, e.ep, e.ev, eRa, e.ew),
		Y: p.KFL * g.Apply(GainPitch, e.ep, e.ev, eRa, e.ew),
		Z: p.KM * g.Apply(GainYaw, e.ep, e.ev, eRa, e.ew),
	}, lim)
	return eRa
}
