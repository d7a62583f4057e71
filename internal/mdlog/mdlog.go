// Package mdlog implements the append-only samplers of spec §4.I:
// rather than route through an external logging framework, each
// logger accumulates typed snapshots in memory every Period steps and
// hands the caller a plain slice to inspect, write out, or plot.
package mdlog

import (
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// Sampler is the contract every logger in this package satisfies.
type Sampler interface {
	// Sample is called once per step with the step index; the logger
	// decides whether this step falls on its recording period.
	Sample(stepIndex int, sys *mdsystem.System, potential float64)
}

// EnergyRecord is one sampled point of EnergyLogger.
type EnergyRecord struct {
	Step                      int
	Kinetic, Potential, Total float64
	Temperature               float64
}

// EnergyLogger records kinetic/potential/total energy and temperature
// every Period steps.
type EnergyLogger struct {
	Period  int
	Records []EnergyRecord
}

func NewEnergyLogger(period int) *EnergyLogger {
	if period < 1 {
		period = 1
	}
	return &EnergyLogger{Period: period}
}

func (l *EnergyLogger) Sample(stepIndex int, sys *mdsystem.System, potential float64) {
	if stepIndex%l.Period != 0 {
		return
	}
	ke := sys.KineticEnergy()
	l.Records = append(l.Records, EnergyRecord{
		Step:        stepIndex,
		Kinetic:     ke,
		Potential:   potential,
		Total:       ke + potential,
		Temperature: sys.Temperature(),
	})
}

// TemperatureLogger records instantaneous temperature every Period
// steps, independent of EnergyLogger so a caller who only cares about
// thermostat behavior doesn't pay for the rest of the breakdown.
type TemperatureLogger struct {
	Period  int
	Records []struct {
		Step        int
		Temperature float64
	}
}

func NewTemperatureLogger(period int) *TemperatureLogger {
	if period < 1 {
		period = 1
	}
	return &TemperatureLogger{Period: period}
}

func (l *TemperatureLogger) Sample(stepIndex int, sys *mdsystem.System, potential float64) {
	if stepIndex%l.Period != 0 {
		return
	}
	l.Records = append(l.Records, struct {
		Step        int
		Temperature float64
	}{Step: stepIndex, Temperature: sys.Temperature()})
}

// TrajectoryLogger records a full coordinate (and, if WithVelocities,
// velocity) snapshot every Period steps.
type TrajectoryLogger struct {
	Period         int
	WithVelocities bool
	Frames         []TrajectoryFrame
}

// TrajectoryFrame is one recorded snapshot.
type TrajectoryFrame struct {
	Step       int
	Coords     []geom.Vec3
	Velocities []geom.Vec3 // nil unless WithVelocities was set
}

func NewTrajectoryLogger(period int, withVelocities bool) *TrajectoryLogger {
	if period < 1 {
		period = 1
	}
	return &TrajectoryLogger{Period: period, WithVelocities: withVelocities}
}

func (l *TrajectoryLogger) Sample(stepIndex int, sys *mdsystem.System, potential float64) {
	if stepIndex%l.Period != 0 {
		return
	}
	frame := TrajectoryFrame{Step: stepIndex, Coords: append([]geom.Vec3(nil), sys.Coords...)}
	if l.WithVelocities {
		frame.Velocities = append([]geom.Vec3(nil), sys.Velocities...)
	}
	l.Frames = append(l.Frames, frame)
}
