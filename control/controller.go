package control

import (
	"log"

	"github.com/pkg/errors"

	"github.com/westphae/quadctl/geometry"
)

var zeroGains GainMatrix

// Controller owns everything the blended controller carries from tick to tick.
// Update must not be called concurrently with itself or with the other methods.
type Controller struct {
	params Params
	gains  GainSource

	integ Integrator
	hist  rateHistory
	errs  errorVectors
	ff    LawOutput
	tr    LawOutput
	tel   Telemetry
}

// New returns an initialized Controller using gains for the feedforward law.
func New(p Params, gains GainSource) (c *Controller, err error) {
	if err = p.Validate(); err != nil {
		return nil, errors.Wrap(err, "bad controller parameters")
	}
	if gains == nil {
		return nil, errors.New("controller has no gain source")
	}
	c = &Controller{params: p, gains: gains}
	c.Init()
	log.Printf("Control: running at %d Hz on a %d Hz scheduler, blend %g..%g rad/s\n",
		p.Rate, p.MainRate, p.RateLow, p.RateHigh)
	return c, nil
}

// Init returns the controller to its power-on state: integrals zeroed and no rate
// history, so the first D-term afterwards is zero.
func (c *Controller) Init() {
	c.Reset()
	c.hist.invalidate()
	c.tel = Telemetry{}
}

// Reset zeroes the six integral accumulators. The rate history used by the D-term
// is kept; use Init to drop it too.
func (c *Controller) Reset() {
	c.integ.Reset()
}

// Test reports whether the controller is usable.
func (c *Controller) Test() bool {
	return c.gains != nil && c.params.Validate() == nil
}

// Params returns a copy of the active parameters.
func (c *Controller) Params() Params {
	return c.params
}

// SetParams replaces the parameters between ticks. Accumulated state is kept.
func (c *Controller) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "controller parameters rejected")
	}
	if p.Rate != c.params.Rate || p.MainRate != c.params.MainRate {
		log.Printf("Control: rate changed to %d Hz on a %d Hz scheduler\n", p.Rate, p.MainRate)
	}
	c.params = p
	return nil
}

// Integrals returns the current accumulators.
func (c *Controller) Integrals() Integrator {
	return c.integ
}

// Telemetry returns the snapshot of the last executed tick.
func (c *Controller) Telemetry() Telemetry {
	return c.tel
}

// RateDoExecute reports whether a control loop running at rate Hz executes on tick
// of a scheduler running at mainRate Hz.
func RateDoExecute(rate, mainRate int, tick uint32) bool {
	return tick%uint32(mainRate/rate) == 0
}

// Update runs one control tick. When tick is not on the controller's rate it returns
// false and leaves cmd and the controller untouched; otherwise cmd receives the
// blended thrust and moments.
func (c *Controller) Update(cmd *Command, sp *Setpoint, st *EstimatedState, r *RawRates, tick uint32) bool {
	p := &c.params
	if !RateDoExecute(p.Rate, p.MainRate, tick) {
		return false
	}
	dt := p.Dt()

	g := c.gains.Gains()
	if g == nil {
		g = &zeroGains
	}

	alpha := p.BlendWeight(sp.AttitudeRate.Norm())

	e := &c.errs
	computeErrors(e, sp, st, r)
	c.integ.addPosition(e.ep, dt, p.IRangeXY, p.IRangeZ)
	c.hist.step(e, sp.AttitudeRate, dt)

	R := geometry.RotationMatrix(st.Quaternion)

	eRa := feedforward(p, g, sp, st, &R, e, &c.ff)
	tracking(p, sp, st, &R, e, &c.integ, &c.tel, &c.tr)

	Blend(cmd, alpha, &c.ff, &c.tr)

	t := &c.tel
	t.Tick = tick
	t.Dt = dt
	t.Alpha = alpha
	t.RollRate = e.rate.X
	t.PitchRate = e.rate.Y
	t.RollRateDesired = sp.AttitudeRate.X
	t.DRoll, t.DPitch = e.dRoll, e.dPitch
	t.PositionIntegral = c.integ.Position
	t.AttitudeIntegral = c.integ.Attitude
	t.AttitudeErrorFF = eRa
	t.Feedforward = c.ff
	t.Tracking = c.tr
	t.Command = *cmd
	return true
}
