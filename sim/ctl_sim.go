/*
Exercise the blended controller in control/ off the vehicle.
Define a trajectory and the estimator's view of the vehicle in code (or replay a recorded
flight), feed them through the controller at the scheduler rate, and log every executed tick.
Every tick also checks the closed-form attitude errors against the full matrix form.
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/westphae/quadctl/control"
	"github.com/westphae/quadctl/gains"
	"github.com/westphae/quadctl/geometry"
)

// parseSettings reads "name=value,name=value" parameter overrides.
func parseSettings(str string) (m map[string]float64, err error) {
	m = make(map[string]float64)
	if str == "" {
		return m, nil
	}
	for _, s := range strings.Split(str, ",") {
		kv := strings.SplitN(s, "=", 2)
		if len(kv) != 2 {
			return nil, errors.Errorf("setting %q is not name=value", s)
		}
		if m[strings.TrimSpace(kv[0])], err = strconv.ParseFloat(strings.TrimSpace(kv[1]), 64); err != nil {
			return nil, errors.Wrapf(err, "setting %q", s)
		}
	}
	return m, nil
}

// simResult summarizes one run.
type simResult struct {
	Ticks, Executed int
	Resets          int
	MaxVeeDiff      float64 // worst closed-form vs matrix attitude error discrepancy
	ErrMean, ErrVar float64 // recent tracking attitude error magnitude
	Command         control.Command
	Last            control.Telemetry
}

// veeDiscrepancy recomputes both laws' attitude errors for one executed tick with
// full matrix products and returns the larger deviation from what the controller used.
func veeDiscrepancy(tel *control.Telemetry, sp *control.Setpoint, st *control.EstimatedState) float64 {
	eRa := geometry.AttitudeErrorMatrix(st.Quaternion, control.FeedforwardTriad(sp.Quaternion), geometry.WorldHanded)

	var d geometry.Triad
	d.Z = tel.ZAxisDesired
	d.Y = d.Z.Cross(r3.Vector{X: math.Cos(tel.YawDesired), Y: math.Sin(tel.YawDesired)}).Normalize()
	d.X = d.Y.Cross(d.Z)
	eR := geometry.AttitudeErrorMatrix(st.Quaternion, d, geometry.BodyHanded)

	return math.Max(tel.AttitudeErrorFF.Sub(eRa).Norm(), tel.AttitudeError.Sub(eR).Norm())
}

// runSim drives c through sit at the scheduler rate. The integrals are reset whenever
// the setpoint mode changes. logger and tr may be nil.
func runSim(sit Situation, c *control.Controller, logger *CtlLogger, tr *trace) (res simResult, err error) {
	var (
		sp       control.Setpoint
		st       control.EstimatedState
		r        control.RawRates
		cmd      control.Command
		prevMode control.Modes
	)

	p := c.Params()
	t0, t1 := sit.BeginTime(), sit.EndTime()
	c.Init()
	errStats := newEWMA(0, 1-1/float64(p.Rate))

	for tick := uint32(0); ; tick++ {
		t := t0 + float64(tick)/float64(p.MainRate)
		if t > t1+geometry.Small {
			break
		}
		if t > t1 {
			t = t1
		}
		if err = sit.Interpolate(t, &sp, &st, &r); err != nil {
			return res, errors.Wrapf(err, "sim: at %.3f s", t)
		}
		if tick > 0 && sp.Mode != prevMode {
			log.Printf("Sim: mode %v/%v/%v at %.3f s, resetting integrals\n", sp.Mode.XY, sp.Mode.Z, sp.Mode.Yaw, t)
			c.Reset()
			res.Resets++
		}
		prevMode = sp.Mode
		res.Ticks++

		if !c.Update(&cmd, &sp, &st, &r, tick) {
			continue
		}
		res.Executed++
		tel := c.Telemetry()
		if d := veeDiscrepancy(&tel, &sp, &st); d > res.MaxVeeDiff {
			res.MaxVeeDiff = d
		}
		errStats.add(tel.AttitudeError.Norm())
		if logger != nil {
			tel.UpdateLogMap(logger.logMap)
			logger.logMap["T"] = t
			logger.Log()
		}
		if tr != nil {
			tr.add(t, &tel)
		}
	}

	res.Command = cmd
	res.Last = c.Telemetry()
	res.ErrMean, res.ErrVar = errStats.mean, errStats.variance
	return res, nil
}

// simOptions are the command line settings of one simulation run.
type simOptions struct {
	scenario, paramsFile, gainsFile string
	settings, logFile, plotPrefix   string
	watch                           time.Duration
}

func main() {
	// Handle some shell arguments
	var o simOptions

	const (
		defaultScenario = "hover"
		scenarioUsage   = "Scenario to use: filename or \"hover\", \"yawspin\" or \"flip\""
		paramsUsage     = "JSON file of controller parameters (defaults if empty)"
		gainsUsage      = "JSON file of feedforward gains (zero gains if empty)"
		watchUsage      = "Poll the gains file for changes at this period while running (0 to disable)"
		setUsage        = "Parameter overrides, \"name=value,name=value\""
		defaultLogFile  = "ctl.csv"
		logUsage        = "CSV file for per-tick telemetry (empty to disable)"
		plotUsage       = "Write PNG plots to <prefix>_*.png (empty to disable)"
	)

	flag.StringVar(&o.scenario, "scenario", defaultScenario, scenarioUsage)
	flag.StringVar(&o.scenario, "s", defaultScenario, scenarioUsage)
	flag.StringVar(&o.paramsFile, "params", "", paramsUsage)
	flag.StringVar(&o.paramsFile, "p", "", paramsUsage)
	flag.StringVar(&o.gainsFile, "gains", "", gainsUsage)
	flag.StringVar(&o.gainsFile, "g", "", gainsUsage)
	flag.DurationVar(&o.watch, "watch", 0, watchUsage)
	flag.StringVar(&o.settings, "set", "", setUsage)
	flag.StringVar(&o.logFile, "log", defaultLogFile, logUsage)
	flag.StringVar(&o.plotPrefix, "plot", "", plotUsage)
	flag.Parse()

	if err := run(o); err != nil {
		log.Fatalln(err)
	}
}

// run builds the controller from o, drives it through the scenario and reports the
// result. Every exit path closes the log and stops the gains poller.
func run(o simOptions) (err error) {
	var (
		sit Situation
		p   control.Params
	)

	switch o.scenario {
	case "hover":
		sit = sitHoverDef
	case "yawspin":
		sit = sitYawSpinDef
	case "flip":
		sit = sitFlipDef
	default:
		log.Printf("Loading data from %s\n", o.scenario)
		if sit, err = NewSituationFromFile(o.scenario); err != nil {
			return err
		}
	}

	p = control.DefaultParams()
	if o.paramsFile != "" {
		if p, err = control.LoadParams(o.paramsFile); err != nil {
			return err
		}
	}
	overrides, err := parseSettings(o.settings)
	if err != nil {
		return err
	}
	if err = p.SetConfig(overrides); err != nil {
		return err
	}

	store := gains.NewStore(nil)
	if o.gainsFile != "" {
		if err = store.Reload(o.gainsFile); err != nil {
			return err
		}
		if o.watch > 0 {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go store.Poll(ctx, o.gainsFile, o.watch)
		}
	}

	c, err := control.New(p, store)
	if err != nil {
		return err
	}
	if !c.Test() {
		return errors.New("controller self test failed")
	}

	var logger *CtlLogger
	if o.logFile != "" {
		logMap := make(map[string]interface{})
		if logger, err = NewCtlLogger(o.logFile, logMap, append([]string{"T"}, control.LogKeys...)...); err != nil {
			return err
		}
		defer func() {
			if cerr := logger.Close(); err == nil {
				err = errors.Wrap(cerr, "sim: closing log")
			}
		}()
	}
	var tr *trace
	if o.plotPrefix != "" {
		tr = new(trace)
	}

	fmt.Println("Simulation parameters:")
	fmt.Printf("\tScenario: %s (%.2f s to %.2f s)\n", o.scenario, sit.BeginTime(), sit.EndTime())
	fmt.Printf("\tControl rate: %d Hz of %d Hz\n", p.Rate, p.MainRate)
	fmt.Printf("\tBlend: %g to %g rad/s\n", p.RateLow, p.RateHigh)
	fmt.Printf("\tMass: %g kg\n", p.Mass)

	// This is where it all happens
	fmt.Println("Running Simulation")
	res, err := runSim(sit, c, logger, tr)
	if err != nil {
		return err
	}

	fmt.Printf("Ticks: %d, executed: %d, integral resets: %d\n", res.Ticks, res.Executed, res.Resets)
	fmt.Printf("Worst attitude error discrepancy: %g\n", res.MaxVeeDiff)
	fmt.Printf("Recent attitude error: mean %.4f, std dev %.4f\n", res.ErrMean, math.Sqrt(res.ErrVar))
	fmt.Printf("Final command: thrust %.1f, roll %.1f, pitch %.1f, yaw %.1f\n",
		res.Command.Thrust, res.Command.Roll, res.Command.Pitch, res.Command.Yaw)

	if tr != nil {
		if err = tr.save(o.plotPrefix); err != nil {
			return err
		}
		fmt.Printf("Plots written to %s_*.png\n", o.plotPrefix)
	}
	return nil
}
