package model

import (
	"errors"
	"fmt"
	"math"

	"forager/internal/reserve"
)

// ErrInvalidConfig marks a configuration error that must be rejected before a solve.
var ErrInvalidConfig = errors.New("invalid configuration")

// Params holds every constant of the model plus the patches on offer.
type Params struct {
	ReserveMin        int
	ReserveMax        int
	SeasonLength      int
	AsymptoticFitness float64
	StartingReserves  float64
	Patches           []Patch
}

// Space returns the reserve domain described by the params.
func (p Params) Space() reserve.Space {
	return reserve.Space{Min: p.ReserveMin, Max: p.ReserveMax}
}

// Validate rejects constants and patch sets the solver cannot work with.
func (p Params) Validate() error {
	if _, err := reserve.NewSpace(p.ReserveMin, p.ReserveMax); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if p.SeasonLength < 2 {
		return fmt.Errorf("%w: season length must be at least 2, got %d", ErrInvalidConfig, p.SeasonLength)
	}
	if !(p.StartingReserves > 0) || math.IsInf(p.StartingReserves, 1) {
		return fmt.Errorf("%w: starting reserves must be positive and finite, got %g", ErrInvalidConfig, p.StartingReserves)
	}
	if math.IsNaN(p.AsymptoticFitness) || math.IsInf(p.AsymptoticFitness, 0) {
		return fmt.Errorf("%w: asymptotic fitness must be finite, got %g", ErrInvalidConfig, p.AsymptoticFitness)
	}
	if len(p.Patches) == 0 {
		return fmt.Errorf("%w: at least one patch is required", ErrInvalidConfig)
	}
	seen := make(map[int]bool, len(p.Patches))
	for _, patch := range p.Patches {
		if err := patch.Validate(); err != nil {
			return err
		}
		if seen[patch.ID] {
			return fmt.Errorf("%w: duplicate patch id %d", ErrInvalidConfig, patch.ID)
		}
		seen[patch.ID] = true
	}
	return nil
}
