package control

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// Params holds the constants and gains of both control laws.
type Params struct {
	Mass       float64 `json:"mass"`       // kg
	MassThrust float64 `json:"massThrust"` // thrust units per newton for the tracking law

	// Feedforward law output scaling
	KF  float64 `json:"kf"`   // thrust
	KFL float64 `json:"kf_l"` // roll and pitch moments
	KM  float64 `json:"km"`   // yaw moment

	// XY position PID
	KpXY     float64 `json:"kp_xy"`
	KdXY     float64 `json:"kd_xy"`
	KiXY     float64 `json:"ki_xy"`
	IRangeXY float64 `json:"i_range_xy"`

	// Z position PID
	KpZ     float64 `json:"kp_z"`
	KdZ     float64 `json:"kd_z"`
	KiZ     float64 `json:"ki_z"`
	IRangeZ float64 `json:"i_range_z"`

	// Roll and pitch attitude
	KRXY      float64 `json:"kR_xy"`
	KwXY      float64 `json:"kw_xy"`
	KiMXY     float64 `json:"ki_m_xy"`
	IRangeMXY float64 `json:"i_range_m_xy"`

	// Yaw attitude
	KRZ      float64 `json:"kR_z"`
	KwZ      float64 `json:"kw_z"`
	KiMZ     float64 `json:"ki_m_z"`
	IRangeMZ float64 `json:"i_range_m_z"`

	KdOmegaRP float64 `json:"kd_omega_rp"` // roll and pitch rate D-term

	// Blend thresholds on |desired body rate|, rad/s
	RateLow  float64 `json:"rate_low"`
	RateHigh float64 `json:"rate_high"`

	MomentLimit float64 `json:"moment_limit"` // actuator range for each moment

	Rate     int `json:"rate"`      // control rate, Hz
	MainRate int `json:"main_rate"` // scheduler base tick rate, Hz
}

// DefaultParams returns the gains tuned for a 32 g vehicle running at 500 Hz on a
// 1 kHz scheduler.
func DefaultParams() Params {
	return Params{
		Mass:       0.032,
		MassThrust: 132000,

		KF:  14580000,
		KFL: 316956521,
		KM:  3269600000,

		KpXY:     0.4,
		KdXY:     0.2,
		KiXY:     0.05,
		IRangeXY: 2.0,

		KpZ:     1.25,
		KdZ:     0.4,
		KiZ:     0.05,
		IRangeZ: 0.4,

		KRXY:      70000,
		KwXY:      20000,
		KiMXY:     0,
		IRangeMXY: 1.0,

		KRZ:      60000,
		KwZ:      12000,
		KiMZ:     500,
		IRangeMZ: 1500,

		KdOmegaRP: 200,

		RateLow:  5,
		RateHigh: 5,

		MomentLimit: 32000,

		Rate:     500,
		MainRate: 1000,
	}
}

// Dt returns the control period, s.
func (p Params) Dt() float64 {
	return 1 / float64(p.Rate)
}

// Validate reports the first setting that would make the control laws ill-defined.
func (p *Params) Validate() error {
	switch {
	case p.Mass <= 0:
		return errors.Errorf("mass must be positive, got %g", p.Mass)
	case p.Rate <= 0 || p.MainRate <= 0:
		return errors.Errorf("rates must be positive, got rate %d main rate %d", p.Rate, p.MainRate)
	case p.MainRate%p.Rate != 0:
		return errors.Errorf("main rate %d is not a multiple of control rate %d", p.MainRate, p.Rate)
	case p.RateLow > p.RateHigh:
		return errors.Errorf("blend thresholds out of order: %g > %g", p.RateLow, p.RateHigh)
	case p.MomentLimit <= 0:
		return errors.Errorf("moment limit must be positive, got %g", p.MomentLimit)
	case p.IRangeXY < 0 || p.IRangeZ < 0 || p.IRangeMXY < 0 || p.IRangeMZ < 0:
		return errors.New("integral ranges must not be negative")
	}
	return nil
}

func (p *Params) fields() map[string]*float64 {
	return map[string]*float64{
		"mass":         &p.Mass,
		"massThrust":   &p.MassThrust,
		"kf":           &p.KF,
		"kf_l":         &p.KFL,
		"km":           &p.KM,
		"kp_xy":        &p.KpXY,
		"kd_xy":        &p.KdXY,
		"ki_xy":        &p.KiXY,
		"i_range_xy":   &p.IRangeXY,
		"kp_z":         &p.KpZ,
		"kd_z":         &p.KdZ,
		"ki_z":         &p.KiZ,
		"i_range_z":    &p.IRangeZ,
		"kR_xy":        &p.KRXY,
		"kw_xy":        &p.KwXY,
		"ki_m_xy":      &p.KiMXY,
		"i_range_m_xy": &p.IRangeMXY,
		"kR_z":         &p.KRZ,
		"kw_z":         &p.KwZ,
		"ki_m_z":       &p.KiMZ,
		"i_range_m_z":  &p.IRangeMZ,
		"kd_omega_rp":  &p.KdOmegaRP,
		"rate_low":     &p.RateLow,
		"rate_high":    &p.RateHigh,
		"moment_limit": &p.MomentLimit,
	}
}

// Names lists the parameters accepted by Set, sorted.
func (p *Params) Names() []string {
	f := p.fields()
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Get returns the named parameter.
func (p *Params) Get(name string) (float64, error) {
	v, ok := p.fields()[name]
	if !ok {
		return 0, errors.Errorf("no such parameter %q", name)
	}
	return *v, nil
}

// Set changes the named parameter.
func (p *Params) Set(name string, value float64) error {
	v, ok := p.fields()[name]
	if !ok {
		return errors.Errorf("no such parameter %q", name)
	}
	*v = value
	return nil
}

// SetConfig applies every entry of configMap, stopping at the first unknown name.
func (p *Params) SetConfig(configMap map[string]float64) error {
	for k, v := range configMap {
		if err := p.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// LoadParams reads a JSON parameter file. Settings missing from the file keep their
// DefaultParams values.
func LoadParams(fn string) (p Params, err error) {
	p = DefaultParams()
	buf, err := os.ReadFile(fn)
	if err != nil {
		return p, errors.Wrapf(err, "error reading controller parameters from %s", fn)
	}
	if err = json.Unmarshal(buf, &p); err != nil {
		return p, errors.Wrapf(err, "error parsing controller parameters from %s", fn)
	}
	if err = p.Validate(); err != nil {
		return p, errors.Wrapf(err, "invalid controller parameters in %s", fn)
	}
	return p, nil
}

// Save writes p to fn as JSON.
func (p *Params) Save(fn string) error {
	buf, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error marshaling controller parameters")
	}
	if err = os.WriteFile(fn, buf, 0644); err != nil {
		return errors.Wrapf(err, "error saving controller parameters to %s", fn)
	}
	return nil
}
