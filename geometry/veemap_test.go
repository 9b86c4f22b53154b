package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/westphae/quaternion"
)

func randomQuaternion(r *rand.Rand) quaternion.Quaternion {
	q := quaternion.Quaternion{
		W: r.Float64()*2 - 1,
		X: r.Float64()*2 - 1,
		Y: r.Float64()*2 - 1,
		Z: r.Float64()*2 - 1,
	}
	n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	q.W /= n
	q.X /= n
	q.Y /= n
	q.Z /= n
	return q
}

func TestAttitudeErrorMatchesMatrixForm(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for n := 0; n < 200; n++ {
		q := randomQuaternion(r)
		d := TriadOf(randomQuaternion(r))
		for _, h := range []Handedness{WorldHanded, BodyHanded} {
			fast := AttitudeError(q, d, h)
			slow := AttitudeErrorMatrix(q, d, h)
			if vectorsDiffer(fast, slow) {
				t.Errorf("q=%v h=%v: closed form %v != matrix form %v", q, h, fast, slow)
			}
		}
	}
}

func TestAttitudeErrorZeroAtTarget(t *testing.T) {
	id := quaternion.Quaternion{W: 1}
	e := AttitudeError(id, TriadOf(id), BodyHanded)
	if e.X != 0 || e.Y != 0 || e.Z != 0 {
		t.Errorf("identity error should be exactly zero, got %v", e)
	}

	r := rand.New(rand.NewSource(2))
	for n := 0; n < 50; n++ {
		q := randomQuaternion(r)
		if e := AttitudeError(q, TriadOf(q), WorldHanded); vectorsDiffer(e, r3.Vector{}) {
			t.Errorf("q=%v: error against own axes %v", q, e)
		}
		// Exchanging the x and z axes leaves Rdᵀ·R symmetric, so the error still vanishes.
		tr := TriadOf(q)
		if e := AttitudeError(q, Triad{X: tr.Z, Y: tr.Y, Z: tr.X}, WorldHanded); vectorsDiffer(e, r3.Vector{}) {
			t.Errorf("q=%v: error against exchanged axes %v", q, e)
		}
	}
}

func TestAttitudeErrorSmallRotations(t *testing.T) {
	id := TriadOf(quaternion.Quaternion{W: 1})
	for _, a := range []float64{-0.3, -0.01, 0.01, 0.2, 1} {
		cases := []struct {
			q    quaternion.Quaternion
			want r3.Vector
		}{
			{ToQuaternion(a, 0, 0), r3.Vector{X: 2 * math.Sin(a)}},
			{ToQuaternion(0, a, 0), r3.Vector{Y: 2 * math.Sin(a)}},
			{ToQuaternion(0, 0, a), r3.Vector{Z: 2 * math.Sin(a)}},
		}
		for i, c := range cases {
			if e := AttitudeError(c.q, id, WorldHanded); vectorsDiffer(e, c.want) {
				t.Errorf("angle %f axis %d: %v != %v", a, i, e, c.want)
			}
			flipped := c.want
			flipped.Y = -flipped.Y
			if e := AttitudeError(c.q, id, BodyHanded); vectorsDiffer(e, flipped) {
				t.Errorf("angle %f axis %d body handed: %v != %v", a, i, e, flipped)
			}
		}
	}
}
