// Package control implements a blended quadrotor attitude and position controller: a
// linear feedback law driven by an externally supplied gain matrix and a geometric
// (Mellinger/Kumar) tracking law on SO(3), mixed according to how fast the vehicle is
// being commanded to rotate.
//
// World frame is inertial: 1 is x, 2 is y, 3 is up.
// Body frame is fixed to the vehicle: 1 is forward, 2 is left, 3 is up.
package control

import (
	"github.com/golang/geo/r3"
	"github.com/westphae/quaternion"
)

// Mode selects how a setpoint axis group is interpreted.
type Mode uint8

const (
	ModeDisable  Mode = iota // axis not controlled (manual)
	ModeAbs                  // absolute position or angle
	ModeVelocity             // rate command
	ModeQuat                 // taken from the setpoint quaternion
)

func (m Mode) String() string {
	switch m {
	case ModeDisable:
		return "disable"
	case ModeAbs:
		return "abs"
	case ModeVelocity:
		return "velocity"
	case ModeQuat:
		return "quat"
	}
	return "unknown"
}

// Modes holds the independent mode flags of a Setpoint.
type Modes struct {
	XY, Z, Yaw Mode
}

// Attitude holds Tait-Bryan angles, rad.
type Attitude struct {
	Roll, Pitch, Yaw float64
}

// Setpoint is the commanded trajectory point for one tick.
type Setpoint struct {
	Position     r3.Vector             // m, world frame
	Velocity     r3.Vector             // m/s, world frame
	Acceleration r3.Vector             // m/s^2, world frame
	Attitude     Attitude              // manual tilt (roll, pitch) and absolute yaw, rad
	AttitudeRate r3.Vector             // desired body rates roll, pitch, yaw, rad/s
	Quaternion   quaternion.Quaternion // desired attitude, body to world
	Thrust       float64               // manual thrust, passed through when Z is disabled
	Mode         Modes
}

// EstimatedState is the estimator's view of the vehicle, world frame.
type EstimatedState struct {
	Position   r3.Vector             // m
	Velocity   r3.Vector             // m/s
	Quaternion quaternion.Quaternion // body to world
}

// RawRates holds the latest gyro sample, body frame, rad/s, as the sensor reports it.
type RawRates struct {
	Gyro r3.Vector
}

// Command is the controller output consumed by the motor mixer.
type Command struct {
	Thrust           float64
	Roll, Pitch, Yaw float64
}

// Rows of a GainMatrix.
const (
	GainThrust = iota
	GainRoll
	GainPitch
	GainYaw
	NumGainRows
)

// NumGainCols is the length of the stacked error vector [ep, ev, eR, ew].
const NumGainCols = 12

// GainMatrix holds one gain vector per output axis. Each row weights position error
// (cols 0-2), velocity error (3-5), attitude error (6-8) and rate error (9-11).
type GainMatrix [NumGainRows][NumGainCols]float64

// Apply returns the dot product of row with the stacked error vector.
func (g *GainMatrix) Apply(row int, ep, ev, eR, ew r3.Vector) float64 {
	k := &g[row]
	return k[0]*ep.X + k[1]*ep.Y + k[2]*ep.Z +
		k[3]*ev.X + k[4]*ev.Y + k[5]*ev.Z +
		k[6]*eR.X + k[7]*eR.Y + k[8]*eR.Z +
		k[9]*ew.X + k[10]*ew.Y + k[11]*ew.Z
}

// GainSource hands out the current gain snapshot. The returned matrix must not be
// modified by either side once published.
type GainSource interface {
	Gains() *GainMatrix
}

// StaticGains is a GainSource that never changes.
type StaticGains GainMatrix

func (g *StaticGains) Gains() *GainMatrix {
	return (*GainMatrix)(g)
}
