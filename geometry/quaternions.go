package geometry

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/westphae/quaternion"
)

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

// RotationMatrix returns the matrix rotating body frame components into world frame
// components for the unit quaternion q, written out from the quaternion products
// directly rather than by composing rotations.
func RotationMatrix(q quaternion.Quaternion) (m Mat3) {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	m[0][0] = 1 - 2*(y*y+z*z)
	m[0][1] = 2 * (x*y - z*w)
	m[0][2] = 2 * (x*z + y*w)
	m[1][0] = 2 * (x*y + z*w)
	m[1][1] = 1 - 2*(x*x+z*z)
	m[1][2] = 2 * (y*z - x*w)
	m[2][0] = 2 * (x*z - y*w)
	m[2][1] = 2 * (y*z + x*w)
	m[2][2] = 1 - 2*(x*x+y*y)
	return
}

// Columns builds a matrix whose columns are a, b and c.
func Columns(a, b, c r3.Vector) Mat3 {
	return Mat3{
		{a.X, b.X, c.X},
		{a.Y, b.Y, c.Y},
		{a.Z, b.Z, c.Z},
	}
}

// Column returns column j of m.
func (m Mat3) Column(j int) r3.Vector {
	return r3.Vector{X: m[0][j], Y: m[1][j], Z: m[2][j]}
}

// Row returns row i of m.
func (m Mat3) Row(i int) r3.Vector {
	return r3.Vector{X: m[i][0], Y: m[i][1], Z: m[i][2]}
}

// MulVec returns m*v.
func (m Mat3) MulVec(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// ToQuaternion returns the unit quaternion for the Tait-Bryan angles roll, pitch, yaw
// (radians, applied yaw first, then pitch, then roll).
func ToQuaternion(roll, pitch, yaw float64) quaternion.Quaternion {
	cr, sr := math.Cos(roll/2), math.Sin(roll/2)
	cp, sp := math.Cos(pitch/2), math.Sin(pitch/2)
	cy, sy := math.Cos(yaw/2), math.Sin(yaw/2)

	return quaternion.Quaternion{
		W: cr*cp*cy + sr*sp*sy,
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
	}
}

// FromQuaternion returns the Tait-Bryan roll, pitch and yaw (radians) of q.
func FromQuaternion(q quaternion.Quaternion) (roll, pitch, yaw float64) {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	pitch = math.Asin(Clamp(2*(w*y-x*z), -1, 1))
	yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return
}

// Yaw returns only the heading component of FromQuaternion.
func Yaw(q quaternion.Quaternion) float64 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
}

// Normalized returns the unit quaternion along (w, x, y, z), or the identity if all
// four are zero.
func Normalized(w, x, y, z float64) quaternion.Quaternion {
	n := math.Sqrt(w*w + x*x + y*y + z*z)
	if n < Small {
		return quaternion.Quaternion{W: 1}
	}
	return quaternion.Quaternion{W: w / n, X: x / n, Y: y / n, Z: z / n}
}
