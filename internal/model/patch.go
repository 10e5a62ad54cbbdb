package model

import "fmt"

// Kind tags how a patch resolves a visit.
type Kind string

const (
	// KindForage is a patch with a stochastic food outcome.
	KindForage Kind = "forage"
	// KindRefuge is a patch with no foraging outcome; reserves carry forward.
	KindRefuge Kind = "refuge"
)

// Patch is one behavioral alternative the forager can choose at a time step.
type Patch struct {
	ID                 int     `yaml:"id"`
	Name               string  `yaml:"name"`
	Kind               Kind    `yaml:"kind"`
	EnergyGain         int     `yaml:"energy_gain"`
	SuccessProbability float64 `yaml:"success_probability"`
	MortalityRisk      float64 `yaml:"mortality_risk"`
	Cost               int     `yaml:"cost"`
}

// Label returns the patch name, or a generated one when unnamed.
func (p Patch) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("patch %d", p.ID)
}

// Validate checks the patch parameters in isolation.
func (p Patch) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: patch id must be positive, got %d", ErrInvalidConfig, p.ID)
	}
	switch p.Kind {
	case KindForage, KindRefuge:
	default:
		return fmt.Errorf("%w: patch %d: unknown kind %q", ErrInvalidConfig, p.ID, p.Kind)
	}
	if !inUnitInterval(p.SuccessProbability) {
		return fmt.Errorf("%w: patch %d: success_probability %.3f outside [0,1]", ErrInvalidConfig, p.ID, p.SuccessProbability)
	}
	if !inUnitInterval(p.MortalityRisk) {
		return fmt.Errorf("%w: patch %d: mortality_risk %.3f outside [0,1]", ErrInvalidConfig, p.ID, p.MortalityRisk)
	}
	if p.Cost < 0 {
		return fmt.Errorf("%w: patch %d: cost must be non-negative, got %d", ErrInvalidConfig, p.ID, p.Cost)
	}
	if p.EnergyGain < 0 {
		return fmt.Errorf("%w: patch %d: energy_gain must be non-negative, got %d", ErrInvalidConfig, p.ID, p.EnergyGain)
	}
	return nil
}

// inUnitInterval is false for NaN as well as for values outside [0,1].
func inUnitInterval(v float64) bool {
	return v >= 0 && v <= 1
}
