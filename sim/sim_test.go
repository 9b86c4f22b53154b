package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/westphae/quadctl/control"
	"github.com/westphae/quadctl/geometry"
)

const Tolerance = 1e-6

func newController(t *testing.T) *control.Controller {
	c, err := control.New(control.DefaultParams(), &control.StaticGains{})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestLocate(t *testing.T) {
	ts := []float64{0, 1, 3}
	var cases = []struct {
		t  float64
		ix int
		f  float64
	}{
		{0, 0, 1},
		{0.25, 0, 0.75},
		{1, 0, 0},
		{2, 1, 0.5},
		{3, 1, 0},
	}
	for _, c := range cases {
		ix, f, err := locate(ts, c.t)
		if err != nil || ix != c.ix || math.Abs(f-c.f) > Tolerance {
			fmt.Printf("t=%g: got ix %d f %g err %v, expected ix %d f %g\n", c.t, ix, f, err, c.ix, c.f)
			t.Fail()
		}
	}
	for _, tt := range []float64{-0.1, 3.1} {
		if _, _, err := locate(ts, tt); err == nil {
			t.Errorf("t=%g should be outside", tt)
		}
	}
	if v := interp([]float64{2, 4, 8}, 1, 0.25); math.Abs(v-7) > Tolerance {
		t.Errorf("expected 7, got %g", v)
	}
}

func TestScenarios(t *testing.T) {
	p := control.DefaultParams()
	for _, name := range []string{"hover", "yawspin", "flip"} {
		sit := map[string]*SituationSim{"hover": sitHoverDef, "yawspin": sitYawSpinDef, "flip": sitFlipDef}[name]
		tr := new(trace)
		res, err := runSim(sit, newController(t), nil, tr)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		ticks := int(math.Round((sit.EndTime()-sit.BeginTime())*float64(p.MainRate))) + 1
		if res.Ticks != ticks || res.Executed != (ticks+1)/2 {
			t.Errorf("%s: expected %d ticks, %d executed, got %d, %d", name, ticks, (ticks+1)/2, res.Ticks, res.Executed)
		}
		if res.MaxVeeDiff > 1e-9 {
			t.Errorf("%s: closed-form attitude error differs from matrix form by %g", name, res.MaxVeeDiff)
		}
		if res.Resets != 0 {
			t.Errorf("%s: unexpected integral resets: %d", name, res.Resets)
		}
		for i := range tr.t {
			if math.IsNaN(tr.thrust[i]) || math.Abs(tr.roll[i]) > p.MomentLimit ||
				math.Abs(tr.pitch[i]) > p.MomentLimit || math.Abs(tr.yaw[i]) > p.MomentLimit {
				t.Fatalf("%s: bad command at %g s: %g %g %g %g", name, tr.t[i], tr.thrust[i], tr.roll[i], tr.pitch[i], tr.yaw[i])
			}
		}

		switch name {
		case "yawspin":
			for i := range tr.t {
				if math.Abs(tr.thrust[i]-0.5) > Tolerance {
					t.Fatalf("yawspin: manual thrust should pass through, got %g at %g s", tr.thrust[i], tr.t[i])
				}
			}
		case "flip":
			var maxAlpha float64
			for _, a := range tr.alpha {
				maxAlpha = math.Max(maxAlpha, a)
			}
			if maxAlpha != 1 || tr.alpha[0] != 0 || tr.alpha[len(tr.alpha)-1] != 0 {
				t.Errorf("flip: alpha should go from 0 to 1 and back, max %g", maxAlpha)
			}
		case "hover":
			hover := p.MassThrust * p.Mass * geometry.G
			if math.Abs(tr.thrust[0]-hover) > Tolerance {
				t.Errorf("hover: expected initial thrust %g, got %g", hover, tr.thrust[0])
			}
		}
	}
}

func writeFile(t *testing.T, fn string, lines ...string) {
	if err := os.WriteFile(fn, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSituationFromFile(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "flight.csv")
	writeFile(t, fn,
		"T,Z,Q0,SZ,SQ0,SThrust,ModeXY,ModeZ,ModeYaw,GX,Extra",
		"0,1,1,1,1,0,1,1,1,0,7",
		"0.5,1,1,1,1,0,1,1,1,0.2,7",
		"0.6,1,bad,1,1,0,1,1,1,0.2,7",
		"1,1.1,1,1,1,0.4,0,0,1,0,7",
	)
	sit, err := NewSituationFromFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	if sit.BeginTime() != 0 || sit.EndTime() != 1 || len(sit.cols["T"]) != 3 {
		t.Fatalf("unexpected samples %v", sit.cols["T"])
	}

	var (
		sp control.Setpoint
		st control.EstimatedState
		r  control.RawRates
	)
	if err = sit.Interpolate(0.25, &sp, &st, &r); err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Gyro.X-0.1) > Tolerance || st.Quaternion.W != 1 || sp.Mode.XY != control.ModeAbs {
		t.Errorf("bad interpolation: gyro %v q %v mode %v", r.Gyro, st.Quaternion, sp.Mode)
	}
	if err = sit.Interpolate(0.75, &sp, &st, &r); err != nil {
		t.Fatal(err)
	}
	if math.Abs(st.Position.Z-1.05) > Tolerance || math.Abs(sp.Thrust-0.2) > Tolerance {
		t.Errorf("bad interpolation: z %g thrust %g", st.Position.Z, sp.Thrust)
	}
	if err = sit.Interpolate(1.5, &sp, &st, &r); err == nil {
		t.Error("expected an error past the end")
	}

	res, err := runSim(sit, newController(t), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Resets != 1 {
		t.Errorf("expected one reset at the mode change, got %d", res.Resets)
	}
	if res.Command.Thrust != 0.4 {
		t.Errorf("expected manual thrust 0.4 at the end, got %g", res.Command.Thrust)
	}

	backwards := filepath.Join(dir, "backwards.csv")
	writeFile(t, backwards, "T,Z", "0,1", "1,1", "0.5,1")
	if _, err = NewSituationFromFile(backwards); err == nil {
		t.Error("expected an error for time going backwards")
	}
	short := filepath.Join(dir, "short.csv")
	writeFile(t, short, "T,Z", "0,1")
	if _, err = NewSituationFromFile(short); err == nil {
		t.Error("expected an error for a single sample")
	}
	if _, err = NewSituationFromFile(filepath.Join(dir, "none.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParseSettings(t *testing.T) {
	m, err := parseSettings("kR_xy=1000, rate_high = 8")
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 2 || m["kR_xy"] != 1000 || m["rate_high"] != 8 {
		t.Errorf("unexpected settings %v", m)
	}
	if m, err = parseSettings(""); err != nil || len(m) != 0 {
		t.Errorf("empty settings: %v %v", m, err)
	}
	for _, s := range []string{"kR_xy", "kR_xy=abc"} {
		if _, err = parseSettings(s); err == nil {
			t.Errorf("%q should not parse", s)
		}
	}
}

func TestLoggerAndPlots(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "ctl.csv")
	logger, err := NewCtlLogger(fn, make(map[string]interface{}), append([]string{"T"}, control.LogKeys...)...)
	if err != nil {
		t.Fatal(err)
	}
	tr := new(trace)
	sit := &SituationSim{
		t: []float64{0, 0.01},
		x: []float64{0, 0}, y: []float64{0, 0}, z: []float64{0, 0},
		phi: []float64{0, 0}, theta: []float64{0, 0}, psi: []float64{0, 0},
		sx: []float64{0, 0}, sy: []float64{0, 0}, sz: []float64{0, 0},
		sphi: []float64{0, 0}, stheta: []float64{0, 0}, spsi: []float64{0, 0},
		wx: []float64{0, 0}, wy: []float64{0, 0}, wz: []float64{0, 0},
		gx: []float64{0, 0}, gy: []float64{0, 0}, gz: []float64{0, 0},
		thrust: []float64{0, 0},
		mode:   control.Modes{XY: control.ModeAbs, Z: control.ModeAbs, Yaw: control.ModeAbs},
	}
	res, err := runSim(sit, newController(t), logger, tr)
	if err != nil {
		t.Fatal(err)
	}
	if err = logger.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(fn)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if len(lines) != res.Executed+1 {
		t.Errorf("expected %d log lines, got %d", res.Executed+1, len(lines))
	}
	if n := len(strings.Split(lines[len(lines)-1], ",")); n != len(control.LogKeys)+1 {
		t.Errorf("expected %d columns, got %d", len(control.LogKeys)+1, n)
	}

	prefix := filepath.Join(dir, "run")
	if err = tr.save(prefix); err != nil {
		t.Fatal(err)
	}
	for _, suffix := range []string{"_moments.png", "_thrust.png", "_alpha.png"} {
		if fi, err := os.Stat(prefix + suffix); err != nil || fi.Size() == 0 {
			t.Errorf("plot %s missing: %v", suffix, err)
		}
	}
}

func TestEWMA(t *testing.T) {
	e := newEWMA(0, 0.5)
	for i := 0; i < 100; i++ {
		e.add(2)
	}
	if math.Abs(e.mean-2) > Tolerance || e.variance > Tolerance || math.Abs(e.n-2) > Tolerance {
		t.Errorf("constant input: n %g mean %g variance %g", e.n, e.mean, e.variance)
	}

	e = newEWMA(0, 0.9)
	for i := 0; i < 2000; i++ {
		e.add(float64(i%2) * 2)
	}
	if math.Abs(e.mean-1) > 0.1 || math.Abs(e.variance-1) > 0.2 {
		t.Errorf("alternating input: mean %g variance %g", e.mean, e.variance)
	}
}

func TestRunReportsErrorsAndKeepsLog(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "ctl.csv")

	if err := run(simOptions{scenario: "hover", settings: "mass", logFile: logFile}); err == nil {
		t.Error("expected a malformed setting to be reported")
	}
	if _, err := os.Stat(logFile); !os.IsNotExist(err) {
		t.Error("log should not be created before the settings are accepted")
	}

	o := simOptions{
		scenario:   "hover",
		logFile:    logFile,
		plotPrefix: filepath.Join(dir, "missing", "run"),
	}
	if err := run(o); err == nil {
		t.Fatal("expected plots in a missing directory to fail")
	}
	f, err := os.Open(logFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var n int
	s := bufio.NewScanner(f)
	for s.Scan() {
		n++
	}
	if n < 2 {
		t.Errorf("expected the log to hold the run, got %d lines", n)
	}
}
