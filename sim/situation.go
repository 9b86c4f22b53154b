package main

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/westphae/quadctl/control"
)

// Situation supplies the controller's inputs over time: what the trajectory source
// commands and what the estimator and gyro report.
type Situation interface {
	BeginTime() float64
	EndTime() float64
	Interpolate(t float64, sp *control.Setpoint, st *control.EstimatedState, r *control.RawRates) (err error)
}

var errOutside = errors.New("requested time is outside of scenario")

// locate finds the segment of ts containing t and the weight f of its left end.
func locate(ts []float64, t float64) (ix int, f float64, err error) {
	if len(ts) < 2 || t < ts[0] || t > ts[len(ts)-1] {
		return 0, 0, errOutside
	}
	if t > ts[0] {
		ix = sort.SearchFloat64s(ts, t) - 1
	}
	ddt := ts[ix+1] - ts[ix]
	return ix, (ts[ix+1] - t) / ddt, nil
}

func interp(a []float64, ix int, f float64) float64 {
	return f*a[ix] + (1-f)*a[ix+1]
}

func slope(a, ts []float64, ix int) float64 {
	return (a[ix+1] - a[ix]) / (ts[ix+1] - ts[ix])
}
