package control

import (
	"github.com/golang/geo/r3"
)

// Telemetry is a snapshot of one executed tick's intermediate values.
type Telemetry struct {
	Tick             uint32
	Dt               float64   // s
	Alpha            float64   // feedforward share of the output
	ZAxisDesired     r3.Vector // tracking law desired body z axis
	RollDesired      float64   // deg
	PitchDesired     float64   // deg
	YawDesired       float64   // rad
	RollRate         float64   // measured, rad/s
	PitchRate        float64   // measured, body handedness, rad/s
	RollRateDesired  float64   // rad/s
	DRoll, DPitch    float64   // rate error derivatives, rad/s^2
	PositionIntegral r3.Vector
	AttitudeIntegral r3.Vector
	AttitudeError    r3.Vector // tracking law
	AttitudeErrorFF  r3.Vector // feedforward law
	Feedforward      LawOutput
	Tracking         LawOutput
	Command          Command
}

// LogKeys lists the keys UpdateLogMap fills, in a stable order for CSV headers.
var LogKeys = []string{
	"Tick", "Dt", "Alpha",
	"ZdX", "ZdY", "ZdZ", "RollDes", "PitchDes", "YawDes",
	"RollRate", "PitchRate", "RollRateDes", "DRoll", "DPitch",
	"IX", "IY", "IZ", "IMX", "IMY", "IMZ",
	"ERX", "ERY", "ERZ", "ERAX", "ERAY", "ERAZ",
	"FFThrust", "FFRoll", "FFPitch", "FFYaw",
	"TRThrust", "TRRoll", "TRPitch", "TRYaw",
	"Thrust", "Roll", "Pitch", "Yaw",
}

var logMap = map[string]func(t *Telemetry) float64{
	"Tick":        func(t *Telemetry) float64 { return float64(t.Tick) },
	"Dt":          func(t *Telemetry) float64 { return t.Dt },
	"Alpha":       func(t *Telemetry) float64 { return t.Alpha },
	"ZdX":         func(t *Telemetry) float64 { return t.ZAxisDesired.X },
	"ZdY":         func(t *Telemetry) float64 { return t.ZAxisDesired.Y },
	"ZdZ":         func(t *Telemetry) float64 { return t.ZAxisDesired.Z },
	"RollDes":     func(t *Telemetry) float64 { return t.RollDesired },
	"PitchDes":    func(t *Telemetry) float64 { return t.PitchDesired },
	"YawDes":      func(t *Telemetry) float64 { return t.YawDesired },
	"RollRate":    func(t *Telemetry) float64 { return t.RollRate },
	"PitchRate":   func(t *Telemetry) float64 { return t.PitchRate },
	"RollRateDes": func(t *Telemetry) float64 { return t.RollRateDesired },
	"DRoll":       func(t *Telemetry) float64 { return t.DRoll },
	"DPitch":      func(t *Telemetry) float64 { return t.DPitch },
	"IX":          func(t *Telemetry) float64 { return t.PositionIntegral.X },
	"IY":          func(t *Telemetry) float64 { return t.PositionIntegral.Y },
	"IZ":          func(t *Telemetry) float64 { return t.PositionIntegral.Z },
	"IMX":         func(t *Telemetry) float64 { return t.AttitudeIntegral.X },
	"IMY":         func(t *Telemetry) float64 { return t.AttitudeIntegral.Y },
	"IMZ":         func(t *Telemetry) float64 { return t.AttitudeIntegral.Z },
	"ERX":         func(t *Telemetry) float64 { return t.AttitudeError.X },
	"ERY":         func(t *Telemetry) float64 { return t.AttitudeError.Y },
	"ERZ":         func(t *Telemetry) float64 { return t.AttitudeError.Z },
	"ERAX":        func(t *Telemetry) float64 { return t.AttitudeErrorFF.X },
	"ERAY":        func(t *Telemetry) float64 { return t.AttitudeErrorFF.Y },
	"ERAZ":        func(t *Telemetry) float64 { return t.AttitudeErrorFF.Z },
	"FFThrust":    func(t *Telemetry) float64 { return t.Feedforward.Thrust },
	"FFRoll":      func(t *Telemetry) float64 { return t.Feedforward.Moment.X },
	"FFPitch":     func(t *Telemetry) float64 { return t.Feedforward.Moment.Y },
	"FFYaw":       func(t *Telemetry) float64 { return t.Feedforward.Moment.Z },
	"TRThrust":    func(t *Telemetry) float64 { return t.Tracking.Thrust },
	"TRRoll":      func(t *Telemetry) float64 { return t.Tracking.Moment.X },
	"TRPitch":     func(t *Telemetry) float64 { return t.Tracking.Moment.Y },
	"TRYaw":       func(t *Telemetry) float64 { return t.Tracking.Moment.Z },
	"Thrust":      func(t *Telemetry) float64 { return t.Command.Thrust },
	"Roll":        func(t *Telemetry) float64 { return t.Command.Roll },
	"Pitch":       func(t *Telemetry) float64 { return t.Command.Pitch },
	"Yaw":         func(t *Telemetry) float64 { return t.Command.Yaw },
}

// UpdateLogMap writes the snapshot into p under the LogKeys names.
func (t *Telemetry) UpdateLogMap(p map[string]interface{}) {
	for k, f := range logMap {
		p[k] = f(t)
	}
}
