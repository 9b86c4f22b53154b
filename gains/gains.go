// Package gains loads the feedforward law's 4x12 gain tables and publishes them to
// a running controller.
//
// A gain file is JSON with one 12-element row per output axis:
//
//	{"thrust": [...], "roll": [...], "pitch": [...], "yaw": [...]}
//
// Each row weights position error, velocity error, attitude error and rate error,
// three components each.
package gains

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/skelterjohn/go.matrix"

	"github.com/westphae/quadctl/control"
)

type table struct {
	Thrust []float64 `json:"thrust"`
	Roll   []float64 `json:"roll"`
	Pitch  []float64 `json:"pitch"`
	Yaw    []float64 `json:"yaw"`
}

var rowNames = [control.NumGainRows]string{"thrust", "roll", "pitch", "yaw"}

func (t *table) rows() [][]float64 {
	return [][]float64{t.Thrust, t.Roll, t.Pitch, t.Yaw}
}

// Load reads a gain table from fn.
func Load(fn string) (*control.GainMatrix, error) {
	buf, err := os.ReadFile(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading gains from %s", fn)
	}
	var t table
	if err = json.Unmarshal(buf, &t); err != nil {
		return nil, errors.Wrapf(err, "error parsing gains from %s", fn)
	}
	rows := t.rows()
	for i, r := range rows {
		if len(r) != control.NumGainCols {
			return nil, errors.Errorf("gains in %s: %s row has %d entries, need %d",
				fn, rowNames[i], len(r), control.NumGainCols)
		}
	}
	g, err := FromDense(matrix.MakeDenseMatrixStacked(rows))
	if err != nil {
		return nil, errors.Wrapf(err, "gains in %s", fn)
	}
	return g, nil
}

// Save writes g to fn in the format Load reads.
func Save(fn string, g *control.GainMatrix) error {
	t := table{
		Thrust: g[control.GainThrust][:],
		Roll:   g[control.GainRoll][:],
		Pitch:  g[control.GainPitch][:],
		Yaw:    g[control.GainYaw][:],
	}
	buf, err := json.MarshalIndent(&t, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error marshaling gains")
	}
	if err = os.WriteFile(fn, buf, 0644); err != nil {
		return errors.Wrapf(err, "error saving gains to %s", fn)
	}
	return nil
}

// FromDense copies a 4x12 matrix into a GainMatrix. Non-finite entries are rejected
// because they would propagate into every command.
func FromDense(m *matrix.DenseMatrix) (*control.GainMatrix, error) {
	if m.Rows() != control.NumGainRows || m.Cols() != control.NumGainCols {
		return nil, errors.Errorf("gain matrix must be %dx%d, got %dx%d",
			control.NumGainRows, control.NumGainCols, m.Rows(), m.Cols())
	}
	g := new(control.GainMatrix)
	for i := 0; i < control.NumGainRows; i++ {
		for j := 0; j < control.NumGainCols; j++ {
			v := m.Get(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Errorf("%s gain %d is %g", rowNames[i], j, v)
			}
			g[i][j] = v
		}
	}
	return g, nil
}

// ToDense returns g as a 4x12 matrix.
func ToDense(g *control.GainMatrix) *matrix.DenseMatrix {
	m := matrix.Zeros(control.NumGainRows, control.NumGainCols)
	for i := range g {
		for j, v := range g[i] {
			m.Set(i, j, v)
		}
	}
	return m
}
