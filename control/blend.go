package control

import (
	"github.com/westphae/quadctl/geometry"
)

// BlendWeight returns the share of the feedforward law in the output for a commanded
// body rate vector magnitude, rad/s.
func (p *Params) BlendWeight(rateNorm float64) float64 {
	return geometry.BellShape(rateNorm, p.RateLow, p.RateHigh)
}

// Blend mixes the two laws convexly, alpha weighting the feedforward law.
// A blended thrust of exactly zero commands zero moments.
func Blend(cmd *Command, alpha float64, ff, tr *LawOutput) {
	cmd.Thrust = alpha*ff.Thrust + (1-alpha)*tr.Thrust
	if cmd.Thrust == 0 {
		cmd.Roll, cmd.Pitch, cmd.Yaw = 0, 0, 0
		return
	}
	cmd.Roll = alpha*ff.Moment.X + (1-alpha)*tr.Moment.X
	cmd.Pitch = alpha*ff.Moment.Y + (1-alpha)*tr.Moment.Y
	cmd.Yaw = alpha*ff.Moment.Z + (1-alpha)*tr.Moment.Z
}
