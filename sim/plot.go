package main

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/westphae/quadctl/control"
)

// series is one named line of a time plot.
type series struct {
	name string
	ys   []float64
}

// savePlot draws every series against ts and writes the plot to fn; the file
// extension picks the format.
func savePlot(fn, title, ylabel string, ts []float64, ss ...series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	for i, s := range ss {
		if len(s.ys) != len(ts) {
			return errors.Errorf("sim: plot %s: %d points for %d times", s.name, len(s.ys), len(ts))
		}
		pts := make(plotter.XYs, len(ts))
		for j := range ts {
			pts[j].X = ts[j]
			pts[j].Y = s.ys[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "sim: plot %s", s.name)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, fn); err != nil {
		return errors.Wrapf(err, "sim: cannot save plot %s", fn)
	}
	return nil
}

// trace accumulates what the plots show, one entry per executed tick.
type trace struct {
	t, thrust, alpha   []float64
	roll, pitch, yaw   []float64
	ffThrust, trThrust []float64
}

func (tr *trace) add(t float64, tel *control.Telemetry) {
	tr.t = append(tr.t, t)
	tr.thrust = append(tr.thrust, tel.Command.Thrust)
	tr.alpha = append(tr.alpha, tel.Alpha)
	tr.roll = append(tr.roll, tel.Command.Roll)
	tr.pitch = append(tr.pitch, tel.Command.Pitch)
	tr.yaw = append(tr.yaw, tel.Command.Yaw)
	tr.ffThrust = append(tr.ffThrust, tel.Feedforward.Thrust)
	tr.trThrust = append(tr.trThrust, tel.Tracking.Thrust)
}

// save writes <prefix>_moments.png, <prefix>_thrust.png and <prefix>_alpha.png.
func (tr *trace) save(prefix string) error {
	if err := savePlot(prefix+"_moments.png", "Commanded moments", "actuator units", tr.t,
		series{"roll", tr.roll}, series{"pitch", tr.pitch}, series{"yaw", tr.yaw}); err != nil {
		return err
	}
	if err := savePlot(prefix+"_thrust.png", "Thrust", "actuator units", tr.t,
		series{"blended", tr.thrust}, series{"feedforward", tr.ffThrust},
		series{"tracking", tr.trThrust}); err != nil {
		return err
	}
	return savePlot(prefix+"_alpha.png", "Blend weight", "alpha", tr.t, series{"alpha", tr.alpha})
}
