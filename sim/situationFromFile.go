package main

import (
	"bufio"
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/westphae/quadctl/control"
	"github.com/westphae/quadctl/geometry"
)

// Columns read from a recorded flight; any that are missing read as zero.
// Angles are rad, rates rad/s, positions m.
var fileFields = []string{
	"T",
	"X", "Y", "Z", "VX", "VY", "VZ", "Q0", "Q1", "Q2", "Q3",
	"SX", "SY", "SZ", "SVX", "SVY", "SVZ", "SAX", "SAY", "SAZ",
	"SRoll", "SPitch", "SYaw", "SQ0", "SQ1", "SQ2", "SQ3",
	"SWX", "SWY", "SWZ", "SThrust", "ModeXY", "ModeZ", "ModeYaw",
	"GX", "GY", "GZ",
}

// SituationFromFile replays a flight recorded as CSV with a header line naming the
// fileFields columns, one row per sample, in increasing time order.
type SituationFromFile struct {
	cols map[string][]float64
}

func NewSituationFromFile(fn string) (sit *SituationFromFile, err error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "sim: cannot open %s", fn)
	}
	defer f.Close()
	return readSituation(bufio.NewReader(f), fn)
}

func readSituation(in io.Reader, fn string) (sit *SituationFromFile, err error) {
	r := csv.NewReader(in)

	// Read header line
	rec, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "sim: cannot read header of %s", fn)
	}
	fields := make(map[int]string)
	for i, k := range rec {
		fields[i] = k
	}

	sit = &SituationFromFile{cols: make(map[string][]float64)}
	for _, k := range fileFields {
		sit.cols[k] = make([]float64, 0, 16384)
	}

	line := 1
	for {
		rec, err = r.Read()
		line++
		if err == io.EOF {
			break
		} else if err != nil {
			log.Printf("csv %s, skipping line %d\n", err.Error(), line)
			continue
		}

		vals := make(map[string]float64, len(rec))
		var bad error
		for i, k := range rec {
			name, ok := fields[i]
			if _, want := sit.cols[name]; !ok || !want {
				continue
			}
			if vals[name], bad = strconv.ParseFloat(k, 64); bad != nil {
				break
			}
		}
		if bad != nil {
			log.Printf("csv contains bad data %s, skipping line %d\n", bad.Error(), line)
			continue
		}
		for k := range sit.cols {
			sit.cols[k] = append(sit.cols[k], vals[k])
		}
	}

	ts := sit.cols["T"]
	if len(ts) < 2 {
		return nil, errors.Errorf("sim: %s holds %d samples, need at least 2", fn, len(ts))
	}
	for i := 1; i < len(ts); i++ {
		if ts[i] <= ts[i-1] {
			return nil, errors.Errorf("sim: %s: time goes backwards at sample %d", fn, i)
		}
	}
	return sit, nil
}

// BeginTime returns the time stamp when the records begin
func (s *SituationFromFile) BeginTime() float64 {
	return s.cols["T"][0]
}

// EndTime returns the time stamp when the records end
func (s *SituationFromFile) EndTime() float64 {
	ts := s.cols["T"]
	return ts[len(ts)-1]
}

func (s *SituationFromFile) vec(ix int, f float64, x, y, z string) r3.Vector {
	return r3.Vector{X: interp(s.cols[x], ix, f), Y: interp(s.cols[y], ix, f), Z: interp(s.cols[z], ix, f)}
}

// Interpolate linearly between recorded samples. Quaternions are interpolated
// component-wise and renormalized; modes are those of the latest sample at or before t.
func (s *SituationFromFile) Interpolate(t float64, sp *control.Setpoint, st *control.EstimatedState, r *control.RawRates) error {
	ix, f, err := locate(s.cols["T"], t)
	if err != nil {
		return err
	}

	st.Position = s.vec(ix, f, "X", "Y", "Z")
	st.Velocity = s.vec(ix, f, "VX", "VY", "VZ")
	st.Quaternion = geometry.Normalized(interp(s.cols["Q0"], ix, f), interp(s.cols["Q1"], ix, f),
		interp(s.cols["Q2"], ix, f), interp(s.cols["Q3"], ix, f))

	sp.Position = s.vec(ix, f, "SX", "SY", "SZ")
	sp.Velocity = s.vec(ix, f, "SVX", "SVY", "SVZ")
	sp.Acceleration = s.vec(ix, f, "SAX", "SAY", "SAZ")
	sp.Attitude = control.Attitude{
		Roll:  interp(s.cols["SRoll"], ix, f),
		Pitch: interp(s.cols["SPitch"], ix, f),
		Yaw:   interp(s.cols["SYaw"], ix, f),
	}
	sp.Quaternion = geometry.Normalized(interp(s.cols["SQ0"], ix, f), interp(s.cols["SQ1"], ix, f),
		interp(s.cols["SQ2"], ix, f), interp(s.cols["SQ3"], ix, f))
	sp.AttitudeRate = s.vec(ix, f, "SWX", "SWY", "SWZ")
	sp.Thrust = interp(s.cols["SThrust"], ix, f)
	mi := ix
	if f == 0 {
		mi = ix + 1
	}
	sp.Mode = control.Modes{
		XY:  control.Mode(s.cols["ModeXY"][mi]),
		Z:   control.Mode(s.cols["ModeZ"][mi]),
		Yaw: control.Mode(s.cols["ModeYaw"][mi]),
	}

	r.Gyro = s.vec(ix, f, "GX", "GY", "GZ")
	return nil
}
