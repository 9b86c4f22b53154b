package main

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/westphae/quadctl/control"
	"github.com/westphae/quadctl/geometry"
)

const pi = math.Pi

// SituationSim defines a scenario by piecewise-linear interpolation. Velocities are
// the slopes of the positions; accelerations are zero.
type SituationSim struct {
	t                  []float64 // times for situation, s
	x, y, z            []float64 // estimated position, m, world frame
	phi, theta, psi    []float64 // estimated attitude, rad [roll, pitch, yaw]
	sx, sy, sz         []float64 // setpoint position, m
	sphi, stheta, spsi []float64 // setpoint attitude, rad
	wx, wy, wz         []float64 // commanded body rates, rad/s
	gx, gy, gz         []float64 // gyro as reported, rad/s
	thrust             []float64 // manual thrust
	mode               control.Modes
}

// BeginTime returns the time stamp when the simulation begins
func (s *SituationSim) BeginTime() float64 {
	return s.t[0]
}

// EndTime returns the time stamp when the simulation ends
func (s *SituationSim) EndTime() float64 {
	return s.t[len(s.t)-1]
}

// Interpolate the controller inputs from a Situation definition at a given time
func (s *SituationSim) Interpolate(t float64, sp *control.Setpoint, st *control.EstimatedState, r *control.RawRates) error {
	ix, f, err := locate(s.t, t)
	if err != nil {
		return err
	}

	st.Position = r3.Vector{X: interp(s.x, ix, f), Y: interp(s.y, ix, f), Z: interp(s.z, ix, f)}
	st.Velocity = r3.Vector{X: slope(s.x, s.t, ix), Y: slope(s.y, s.t, ix), Z: slope(s.z, s.t, ix)}
	st.Quaternion = geometry.ToQuaternion(interp(s.phi, ix, f), interp(s.theta, ix, f), interp(s.psi, ix, f))

	sp.Position = r3.Vector{X: interp(s.sx, ix, f), Y: interp(s.sy, ix, f), Z: interp(s.sz, ix, f)}
	sp.Velocity = r3.Vector{X: slope(s.sx, s.t, ix), Y: slope(s.sy, s.t, ix), Z: slope(s.sz, s.t, ix)}
	sp.Acceleration = r3.Vector{}
	sp.Attitude = control.Attitude{
		Roll:  interp(s.sphi, ix, f),
		Pitch: interp(s.stheta, ix, f),
		Yaw:   interp(s.spsi, ix, f),
	}
	sp.Quaternion = geometry.ToQuaternion(sp.Attitude.Roll, sp.Attitude.Pitch, sp.Attitude.Yaw)
	sp.AttitudeRate = r3.Vector{X: interp(s.wx, ix, f), Y: interp(s.wy, ix, f), Z: interp(s.wz, ix, f)}
	sp.Thrust = interp(s.thrust, ix, f)
	sp.Mode = s.mode

	r.Gyro = r3.Vector{X: interp(s.gx, ix, f), Y: interp(s.gy, ix, f), Z: interp(s.gz, ix, f)}
	return nil
}

// Hold position at 1 m, then take a 0.5 m step right and a 0.2 m step up
var sitHoverDef = &SituationSim{
	t:      []float64{0, 1, 1.2, 3, 4},
	x:      []float64{0, 0, 0, 0.4, 0.5},
	y:      []float64{0, 0, 0, 0, 0},
	z:      []float64{1, 1, 1, 1.15, 1.2},
	phi:    []float64{0, 0, 0.1, 0, 0},
	theta:  []float64{0, 0, 0, 0, 0},
	psi:    []float64{0, 0, 0, 0, 0},
	sx:     []float64{0, 0, 0.5, 0.5, 0.5},
	sy:     []float64{0, 0, 0, 0, 0},
	sz:     []float64{1, 1, 1.2, 1.2, 1.2},
	sphi:   []float64{0, 0, 0, 0, 0},
	stheta: []float64{0, 0, 0, 0, 0},
	spsi:   []float64{0, 0, 0, 0, 0},
	wx:     []float64{0, 0, 0, 0, 0},
	wy:     []float64{0, 0, 0, 0, 0},
	wz:     []float64{0, 0, 0, 0, 0},
	gx:     []float64{0, 0, 0.5, -0.05, 0},
	gy:     []float64{0, 0, 0, 0, 0},
	gz:     []float64{0, 0, 0, 0, 0},
	thrust: []float64{0, 0, 0, 0, 0},
	mode:   control.Modes{XY: control.ModeAbs, Z: control.ModeAbs, Yaw: control.ModeAbs},
}

// Manual tilt and throttle while yawing at a quarter turn per second
var sitYawSpinDef = &SituationSim{
	t:      []float64{0, 1, 5, 6},
	x:      []float64{0, 0, 0, 0},
	y:      []float64{0, 0, 0, 0},
	z:      []float64{0.5, 0.5, 0.5, 0.5},
	phi:    []float64{0, 0.05, 0.05, 0},
	theta:  []float64{0, -0.05, -0.05, 0},
	psi:    []float64{0, 0, 2 * pi, 2 * pi},
	sx:     []float64{0, 0, 0, 0},
	sy:     []float64{0, 0, 0, 0},
	sz:     []float64{0.5, 0.5, 0.5, 0.5},
	sphi:   []float64{0, 0.05, 0.05, 0},
	stheta: []float64{0, -0.05, -0.05, 0},
	spsi:   []float64{0, 0, 0, 0},
	wx:     []float64{0, 0, 0, 0},
	wy:     []float64{0, 0, 0, 0},
	wz:     []float64{0, pi / 2, pi / 2, 0},
	gx:     []float64{0, 0, 0, 0},
	gy:     []float64{0, 0, 0, 0},
	gz:     []float64{0, pi / 2, pi / 2, 0},
	thrust: []float64{0.5, 0.5, 0.5, 0.5},
	mode:   control.Modes{XY: control.ModeDisable, Z: control.ModeDisable, Yaw: control.ModeVelocity},
}

// A full roll in half a second: the commanded rate crosses the blend threshold
var flipRate = 4 * pi
var sitFlipDef = &SituationSim{
	t:      []float64{0, 1, 1.05, 1.45, 1.5, 3},
	x:      []float64{0, 0, 0, 0, 0, 0},
	y:      []float64{0, 0, 0, 0, 0, 0},
	z:      []float64{1, 1, 1, 0.9, 0.9, 1},
	phi:    []float64{0, 0, 0.3, 2*pi - 0.3, 2 * pi, 2 * pi},
	theta:  []float64{0, 0, 0, 0, 0, 0},
	psi:    []float64{0, 0, 0, 0, 0, 0},
	sx:     []float64{0, 0, 0, 0, 0, 0},
	sy:     []float64{0, 0, 0, 0, 0, 0},
	sz:     []float64{1, 1, 1, 1, 1, 1},
	sphi:   []float64{0, 0, 0.3, 2*pi - 0.3, 2 * pi, 2 * pi},
	stheta: []float64{0, 0, 0, 0, 0, 0},
	spsi:   []float64{0, 0, 0, 0, 0, 0},
	wx:     []float64{0, 0, flipRate, flipRate, 0, 0},
	wy:     []float64{0, 0, 0, 0, 0, 0},
	wz:     []float64{0, 0, 0, 0, 0, 0},
	gx:     []float64{0, 0, flipRate * 0.9, flipRate, 0, 0},
	gy:     []float64{0, 0, 0, 0, 0, 0},
	gz:     []float64{0, 0, 0, 0, 0, 0},
	thrust: []float64{0, 0, 0, 0, 0, 0},
	mode:   control.Modes{XY: control.ModeAbs, Z: control.ModeAbs, Yaw: control.ModeAbs},
}
