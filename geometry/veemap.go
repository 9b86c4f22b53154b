package geometry

import (
	"github.com/golang/geo/r3"
	"github.com/skelterjohn/go.matrix"
	"github.com/westphae/quaternion"
)

// Triad holds three axes, expressed in the world frame, that make up an orientation.
type Triad struct {
	X, Y, Z r3.Vector
}

// TriadOf returns the body axes of q, i.e. the columns of its rotation matrix.
func TriadOf(q quaternion.Quaternion) Triad {
	m := RotationMatrix(q)
	return Triad{X: m.Column(0), Y: m.Column(1), Z: m.Column(2)}
}

// Handedness is multiplied component-wise into an attitude error.
type Handedness r3.Vector

var (
	WorldHanded = Handedness{X: 1, Y: 1, Z: 1}
	BodyHanded  = Handedness{X: 1, Y: -1, Z: 1} // pitch axis points the other way
)

// AttitudeError returns vee(Rdᵀ·R - Rᵀ·Rd) for the actual attitude q and the desired
// axes d, scaled by h. The expression is expanded in the quaternion components so no
// 3x3 product is formed; AttitudeErrorMatrix computes the same quantity the long way.
func AttitudeError(q quaternion.Quaternion, d Triad, h Handedness) r3.Vector {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	xd, yd, zd := d.X, d.Y, d.Z

	ex := (-1+2*x*x+2*y*y)*yd.Z + zd.Y -
		2*(x*yd.X*z+y*yd.Y*z-x*y*zd.X+x*x*zd.Y+z*z*zd.Y-y*z*zd.Z) +
		2*w*(-(y*yd.X)-z*zd.X+x*(yd.Y+zd.Z))
	ey := xd.Z - zd.X -
		2*(x*x*xd.Z+y*(xd.Z*y-xd.Y*z)-(y*y+z*z)*zd.X+x*(-(xd.X*z)+y*zd.Y+z*zd.Z)+
			w*(x*xd.Y+z*zd.Y-y*(xd.X+zd.Z)))
	ez := yd.X -
		2*(y*(x*xd.X+y*yd.X-x*yd.Y)+w*(x*xd.Z+y*yd.Z)) +
		2*(-(xd.Z*y)+w*(xd.X+yd.Y)+x*yd.Z)*z -
		2*yd.X*z*z +
		xd.Y*(-1+2*x*x+2*z*z)

	return r3.Vector{X: h.X * ex, Y: h.Y * ey, Z: h.Z * ez}
}

// AttitudeErrorMatrix is the matrix form of AttitudeError. It allocates and is meant
// for verification, not for the control tick.
func AttitudeErrorMatrix(q quaternion.Quaternion, d Triad, h Handedness) r3.Vector {
	m := RotationMatrix(q)
	r := matrix.MakeDenseMatrix([]float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	}, 3, 3)
	rd := matrix.MakeDenseMatrix([]float64{
		d.X.X, d.Y.X, d.Z.X,
		d.X.Y, d.Y.Y, d.Z.Y,
		d.X.Z, d.Y.Z, d.Z.Z,
	}, 3, 3)

	erm := matrix.Difference(matrix.Product(rd.Transpose(), r), matrix.Product(r.Transpose(), rd))

	return r3.Vector{
		X: h.X * erm.Get(2, 1),
		Y: h.Y * erm.Get(0, 2),
		Z: h.Z * erm.Get(1, 0),
	}
}
